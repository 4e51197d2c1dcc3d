package ports

import (
	"context"
	"io"

	"github.com/emrekaratas/test-report-analyzer/internal/core/domain"
)

// ReportIngestor is the inbound contract for report upload orchestration.
type ReportIngestor interface {
	Upload(ctx context.Context, filename string, body io.Reader) (*domain.Report, error)
}

// ReportProcessor is the inbound contract for asynchronous report analysis.
type ReportProcessor interface {
	ProcessByID(ctx context.Context, reportID string) error
}

// ReportReader is the inbound read model for reports and their results.
type ReportReader interface {
	GetByID(ctx context.Context, id string) (*domain.Report, error)
	List(ctx context.Context, sortBy, order string) ([]domain.Report, error)
	ListResults(ctx context.Context, id string) ([]domain.TestRecord, error)
	ListFailures(ctx context.Context, id string) ([]domain.TestRecord, error)
}

// ReportDeleter removes a report, its test results and the stored PDF.
type ReportDeleter interface {
	Delete(ctx context.Context, id string) error
}

// ReportExporter renders a report and its results as a downloadable file.
type ReportExporter interface {
	ExportXLSX(ctx context.Context, report *domain.Report, records []domain.TestRecord) ([]byte, error)
}

// ReportDownloader streams back the originally uploaded PDF. The caller
// must close the returned reader.
type ReportDownloader interface {
	Download(ctx context.Context, id string) (*domain.Report, io.ReadCloser, error)
}

// ReportComparer diffs the persisted results of two reports.
type ReportComparer interface {
	Compare(ctx context.Context, firstID, secondID string) (*domain.ReportComparison, error)
}
