package usecase

import (
	"context"
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/emrekaratas/test-report-analyzer/internal/core/domain"
	"github.com/emrekaratas/test-report-analyzer/internal/core/ports"
)

type IngestReportUseCase struct {
	repo    ports.ReportRepository
	storage ports.ObjectStorage
	queue   ports.MessageQueue
}

func NewIngestReportUseCase(
	repo ports.ReportRepository,
	storage ports.ObjectStorage,
	queue ports.MessageQueue,
) *IngestReportUseCase {
	return &IngestReportUseCase{
		repo:    repo,
		storage: storage,
		queue:   queue,
	}
}

// Upload stores the PDF, records the report row and hands processing off
// to the worker via the queue. The report comes back in status "uploaded";
// parsing happens asynchronously.
func (uc *IngestReportUseCase) Upload(
	ctx context.Context,
	filename string,
	body io.Reader,
) (*domain.Report, error) {
	id := uuid.NewString()
	storageKey := fmt.Sprintf("%s_%s", id, sanitizeFilename(filename))
	now := time.Now().UTC()

	if err := uc.storage.Save(ctx, storageKey, body); err != nil {
		return nil, fmt.Errorf("save uploaded pdf: %w", err)
	}

	report := &domain.Report{
		ID:          id,
		Filename:    filename,
		StoragePath: storageKey,
		Status:      domain.StatusUploaded,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if err := uc.repo.Create(ctx, report); err != nil {
		return nil, fmt.Errorf("create report row: %w", err)
	}

	if err := uc.queue.PublishReportUploaded(ctx, report.ID); err != nil {
		return nil, fmt.Errorf("publish upload event: %w", err)
	}

	return report, nil
}

func sanitizeFilename(name string) string {
	base := filepath.Base(name)
	base = strings.ReplaceAll(base, " ", "_")
	base = strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z':
			return r
		case r >= 'A' && r <= 'Z':
			return r
		case r >= '0' && r <= '9':
			return r
		case r == '.', r == '-', r == '_':
			return r
		default:
			return '_'
		}
	}, base)
	if base == "" {
		return "report.pdf"
	}
	return base
}
