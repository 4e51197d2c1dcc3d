package usecase

import (
	"context"
	"errors"
	"fmt"

	"github.com/emrekaratas/test-report-analyzer/internal/core/domain"
	"github.com/emrekaratas/test-report-analyzer/internal/core/ports"
)

type CompareReportsUseCase struct {
	repo ports.ReportRepository
}

func NewCompareReportsUseCase(repo ports.ReportRepository) *CompareReportsUseCase {
	return &CompareReportsUseCase{repo: repo}
}

// Compare loads both reports and their persisted results and diffs them by
// test name. Comparing a report with itself is rejected.
func (uc *CompareReportsUseCase) Compare(ctx context.Context, firstID, secondID string) (*domain.ReportComparison, error) {
	if firstID == "" || secondID == "" {
		return nil, domain.WrapError(domain.ErrInvalidInput, "compare reports", errors.New("both report ids are required"))
	}
	if firstID == secondID {
		return nil, domain.WrapError(domain.ErrInvalidInput, "compare reports", errors.New("cannot compare a report with itself"))
	}

	first, err := uc.repo.GetByID(ctx, firstID)
	if err != nil {
		return nil, fmt.Errorf("load first report: %w", err)
	}
	second, err := uc.repo.GetByID(ctx, secondID)
	if err != nil {
		return nil, fmt.Errorf("load second report: %w", err)
	}

	firstResults, err := uc.repo.ListResults(ctx, firstID)
	if err != nil {
		return nil, fmt.Errorf("load first results: %w", err)
	}
	secondResults, err := uc.repo.ListResults(ctx, secondID)
	if err != nil {
		return nil, fmt.Errorf("load second results: %w", err)
	}

	comparison := domain.CompareReports(first, second, firstResults, secondResults)
	return &comparison, nil
}
