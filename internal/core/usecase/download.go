package usecase

import (
	"context"
	"fmt"
	"io"

	"github.com/emrekaratas/test-report-analyzer/internal/core/domain"
	"github.com/emrekaratas/test-report-analyzer/internal/core/ports"
)

type DownloadReportUseCase struct {
	repo    ports.ReportRepository
	storage ports.ObjectStorage
}

func NewDownloadReportUseCase(repo ports.ReportRepository, storage ports.ObjectStorage) *DownloadReportUseCase {
	return &DownloadReportUseCase{repo: repo, storage: storage}
}

// Download returns the report row and an open reader over the stored PDF.
// A report whose file has gone missing from storage reads as not found,
// matching what the caller can act on.
func (uc *DownloadReportUseCase) Download(ctx context.Context, id string) (*domain.Report, io.ReadCloser, error) {
	report, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, nil, fmt.Errorf("load report: %w", err)
	}

	file, err := uc.storage.Open(ctx, report.StoragePath)
	if err != nil {
		return nil, nil, domain.WrapError(domain.ErrReportNotFound, "open stored pdf", err)
	}
	return report, file, nil
}
