package usecase

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/emrekaratas/test-report-analyzer/internal/core/ports"
)

type DeleteReportUseCase struct {
	repo    ports.ReportRepository
	storage ports.ObjectStorage
}

func NewDeleteReportUseCase(repo ports.ReportRepository, storage ports.ObjectStorage) *DeleteReportUseCase {
	return &DeleteReportUseCase{repo: repo, storage: storage}
}

// Delete removes the report row (test results cascade with it) and then
// the stored PDF. A missing file is logged, not surfaced: the database
// row is already gone and the delete has succeeded from the caller's view.
func (uc *DeleteReportUseCase) Delete(ctx context.Context, id string) error {
	storagePath, err := uc.repo.Delete(ctx, id)
	if err != nil {
		return fmt.Errorf("delete report: %w", err)
	}
	if storagePath == "" {
		return nil
	}
	if err := uc.storage.Remove(ctx, storagePath); err != nil {
		slog.Warn("stored pdf cleanup failed", "report_id", id, "path", storagePath, "error", err)
	}
	return nil
}
