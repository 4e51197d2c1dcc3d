package usecase

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/emrekaratas/test-report-analyzer/internal/core/domain"
	"github.com/emrekaratas/test-report-analyzer/internal/core/ports"
)

type statusCall struct {
	status domain.ReportStatus
	errMsg string
}

type processRepoFake struct {
	report      *domain.Report
	getErr      error
	saveErr     error
	statusErr   error
	statusCalls []statusCall
	savedID     string
	summary     domain.ReportSummary
	records     []domain.TestRecord
}

func (f *processRepoFake) Create(context.Context, *domain.Report) error { return nil }

func (f *processRepoFake) GetByID(context.Context, string) (*domain.Report, error) {
	if f.getErr != nil {
		return nil, f.getErr
	}
	copyReport := *f.report
	return &copyReport, nil
}

func (f *processRepoFake) List(context.Context, string, string) ([]domain.Report, error) {
	return nil, errors.New("not implemented")
}

func (f *processRepoFake) UpdateStatus(_ context.Context, _ string, status domain.ReportStatus, errMessage string) error {
	f.statusCalls = append(f.statusCalls, statusCall{status: status, errMsg: errMessage})
	if f.statusErr != nil && status != domain.StatusFailed {
		return f.statusErr
	}
	return nil
}

func (f *processRepoFake) SaveResults(_ context.Context, id string, summary domain.ReportSummary, records []domain.TestRecord) error {
	if f.saveErr != nil {
		return f.saveErr
	}
	f.savedID = id
	f.summary = summary
	f.records = records
	return nil
}

func (f *processRepoFake) ListResults(context.Context, string) ([]domain.TestRecord, error) {
	return nil, errors.New("not implemented")
}

func (f *processRepoFake) ListFailures(context.Context, string) ([]domain.TestRecord, error) {
	return nil, errors.New("not implemented")
}

func (f *processRepoFake) Delete(context.Context, string) (string, error) {
	return "", errors.New("not implemented")
}

type extractorFake struct {
	lines []string
	err   error
}

func (f *extractorFake) ExtractLines(context.Context, *domain.Report) ([]string, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.lines, nil
}

type parserFake struct {
	records []domain.TestRecord
}

func (f *parserFake) Parse([]string) []domain.TestRecord {
	out := make([]domain.TestRecord, len(f.records))
	copy(out, f.records)
	return out
}

type analyzerFake struct {
	analysis ports.FailureAnalysis
	calls    int
}

func (f *analyzerFake) Analyze(context.Context, string, string) ports.FailureAnalysis {
	f.calls++
	return f.analysis
}

func (f *analyzerFake) Status() domain.AnalyzerStatus {
	return domain.AnalyzerStatus{Provider: "rule-based", Available: true, Status: "active"}
}

func TestProcessByIDSuccess(t *testing.T) {
	repo := &processRepoFake{report: &domain.Report{ID: "rep-1", Filename: "run.pdf"}}
	analyzer := &analyzerFake{analysis: ports.FailureAnalysis{
		Category: "timeout",
		Reason:   "Test zaman aşımına uğradı",
		Fix:      "Limiti artırın.",
		Provider: "rule-based",
	}}
	uc := NewProcessReportUseCase(
		repo,
		&extractorFake{lines: []string{"irrelevant"}},
		&parserFake{records: []domain.TestRecord{
			{Name: "Login", Status: domain.TestPassed},
			{Name: "Logout", Status: domain.TestFailed, ErrorMessage: "timeout"},
		}},
		analyzer,
	)

	if err := uc.ProcessByID(context.Background(), "rep-1"); err != nil {
		t.Fatalf("ProcessByID() error = %v", err)
	}
	if len(repo.statusCalls) != 2 {
		t.Fatalf("expected 2 status calls, got %d", len(repo.statusCalls))
	}
	if repo.statusCalls[0].status != domain.StatusProcessing || repo.statusCalls[1].status != domain.StatusReady {
		t.Fatalf("unexpected status sequence: %+v", repo.statusCalls)
	}
	if repo.summary.TotalTests != 2 || repo.summary.PassedTests != 1 || repo.summary.FailedTests != 1 {
		t.Fatalf("unexpected summary: %+v", repo.summary)
	}
	if analyzer.calls != 1 {
		t.Fatalf("expected 1 analyzer call (FAIL records only), got %d", analyzer.calls)
	}
	failed := repo.records[1]
	if failed.FailureCategory != "timeout" || failed.FailureReason == "" || failed.SuggestedFix == "" {
		t.Fatalf("failure analysis not applied: %+v", failed)
	}
	passed := repo.records[0]
	if passed.FailureReason != "" || passed.SuggestedFix != "" {
		t.Fatalf("PASS record must stay unclassified: %+v", passed)
	}
}

func TestProcessByIDZeroTestsIsReady(t *testing.T) {
	repo := &processRepoFake{report: &domain.Report{ID: "rep-1", Filename: "empty.pdf"}}
	uc := NewProcessReportUseCase(
		repo,
		&extractorFake{lines: []string{"prose without any outcomes"}},
		&parserFake{records: []domain.TestRecord{}},
		&analyzerFake{},
	)

	if err := uc.ProcessByID(context.Background(), "rep-1"); err != nil {
		t.Fatalf("ProcessByID() error = %v", err)
	}
	if repo.statusCalls[len(repo.statusCalls)-1].status != domain.StatusReady {
		t.Fatalf("zero recognized tests must end ready, got %+v", repo.statusCalls)
	}
	if repo.summary.TotalTests != 0 {
		t.Fatalf("expected zero-count summary, got %+v", repo.summary)
	}
}

func TestProcessByIDNoTextLayerMarksFailed(t *testing.T) {
	repo := &processRepoFake{report: &domain.Report{ID: "rep-1"}}
	extractErr := domain.WrapError(domain.ErrNoTextLayer, "extract pdf", errors.New("image-only document"))
	uc := NewProcessReportUseCase(
		repo,
		&extractorFake{err: extractErr},
		&parserFake{},
		&analyzerFake{},
	)

	err := uc.ProcessByID(context.Background(), "rep-1")
	if err == nil {
		t.Fatalf("expected error")
	}
	if !domain.IsKind(err, domain.ErrNoTextLayer) {
		t.Fatalf("expected ErrNoTextLayer kind, got %v", err)
	}

	last := repo.statusCalls[len(repo.statusCalls)-1]
	if last.status != domain.StatusFailed {
		t.Fatalf("expected failed status, got %+v", last)
	}
	if !strings.HasPrefix(last.errMsg, "NO_TEXT_LAYER:") {
		t.Fatalf("expected NO_TEXT_LAYER marker, got %q", last.errMsg)
	}
}

func TestProcessByIDPersistErrorMarksFailed(t *testing.T) {
	repo := &processRepoFake{
		report:  &domain.Report{ID: "rep-1"},
		saveErr: errors.New("db down"),
	}
	uc := NewProcessReportUseCase(
		repo,
		&extractorFake{lines: []string{"Test: a - PASS"}},
		&parserFake{records: []domain.TestRecord{{Name: "a", Status: domain.TestPassed}}},
		&analyzerFake{},
	)

	if err := uc.ProcessByID(context.Background(), "rep-1"); err == nil {
		t.Fatalf("expected error")
	}
	last := repo.statusCalls[len(repo.statusCalls)-1]
	if last.status != domain.StatusFailed || strings.HasPrefix(last.errMsg, "NO_TEXT_LAYER:") {
		t.Fatalf("expected plain failed status, got %+v", last)
	}
}
