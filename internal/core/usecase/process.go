package usecase

import (
	"context"
	"fmt"

	"github.com/emrekaratas/test-report-analyzer/internal/core/domain"
	"github.com/emrekaratas/test-report-analyzer/internal/core/ports"
)

type ProcessReportUseCase struct {
	repo      ports.ReportRepository
	extractor ports.TextExtractor
	parser    ports.ResultParser
	analyzer  ports.FailureAnalyzer
}

func NewProcessReportUseCase(
	repo ports.ReportRepository,
	extractor ports.TextExtractor,
	parser ports.ResultParser,
	analyzer ports.FailureAnalyzer,
) *ProcessReportUseCase {
	return &ProcessReportUseCase{
		repo:      repo,
		extractor: extractor,
		parser:    parser,
		analyzer:  analyzer,
	}
}

// ProcessByID runs the extraction pipeline for one uploaded report:
// extract text lines, parse test entries, analyze failures, aggregate,
// persist. Only extraction can fail the document (NO_TEXT_LAYER, corrupt
// file); zero recognized tests is a normal ready report with zero counts.
func (uc *ProcessReportUseCase) ProcessByID(ctx context.Context, reportID string) error {
	if err := uc.repo.UpdateStatus(ctx, reportID, domain.StatusProcessing, ""); err != nil {
		return fmt.Errorf("set status=processing: %w", err)
	}

	if err := uc.runPipeline(ctx, reportID); err != nil {
		if failErr := uc.markFailed(ctx, reportID, err); failErr != nil {
			return fmt.Errorf("%w; mark failed status: %v", err, failErr)
		}
		return err
	}

	if err := uc.repo.UpdateStatus(ctx, reportID, domain.StatusReady, ""); err != nil {
		return fmt.Errorf("set status=ready: %w", err)
	}
	return nil
}

func (uc *ProcessReportUseCase) runPipeline(ctx context.Context, reportID string) error {
	report, err := uc.repo.GetByID(ctx, reportID)
	if err != nil {
		return fmt.Errorf("fetch report by id: %w", err)
	}

	lines, err := uc.extractor.ExtractLines(ctx, report)
	if err != nil {
		return fmt.Errorf("extract text: %w", err)
	}

	records := uc.parser.Parse(lines)
	uc.analyzeFailures(ctx, records)

	summary, err := domain.Summarize(report.Filename, records)
	if err != nil {
		return fmt.Errorf("aggregate results: %w", err)
	}

	if err := uc.repo.SaveResults(ctx, report.ID, summary, records); err != nil {
		return fmt.Errorf("persist results: %w", err)
	}
	return nil
}

func (uc *ProcessReportUseCase) analyzeFailures(ctx context.Context, records []domain.TestRecord) {
	for i := range records {
		if records[i].Status != domain.TestFailed {
			continue
		}
		analysis := uc.analyzer.Analyze(ctx, records[i].Name, records[i].ErrorMessage)
		records[i].FailureCategory = analysis.Category
		records[i].FailureReason = analysis.Reason
		records[i].SuggestedFix = analysis.Fix
		records[i].Analyzer = analysis.Provider
	}
}

func (uc *ProcessReportUseCase) markFailed(ctx context.Context, reportID string, processErr error) error {
	if processErr == nil {
		return nil
	}
	message := processErr.Error()
	if domain.IsKind(processErr, domain.ErrNoTextLayer) {
		// Keep the machine-readable marker first so the API can surface
		// the no-text-layer case distinctly from other failures.
		message = "NO_TEXT_LAYER: " + message
	}
	return uc.repo.UpdateStatus(ctx, reportID, domain.StatusFailed, message)
}
