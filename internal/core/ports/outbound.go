package ports

import (
	"context"
	"io"

	"github.com/emrekaratas/test-report-analyzer/internal/core/domain"
)

// ReportRepository persists reports and their test results.
type ReportRepository interface {
	Create(ctx context.Context, report *domain.Report) error
	GetByID(ctx context.Context, id string) (*domain.Report, error)
	List(ctx context.Context, sortBy, order string) ([]domain.Report, error)
	UpdateStatus(ctx context.Context, id string, status domain.ReportStatus, errMessage string) error
	// SaveResults stores the record sequence and the aggregate counters in
	// one transaction.
	SaveResults(ctx context.Context, id string, summary domain.ReportSummary, records []domain.TestRecord) error
	ListResults(ctx context.Context, id string) ([]domain.TestRecord, error)
	ListFailures(ctx context.Context, id string) ([]domain.TestRecord, error)
	// Delete removes the report (test results cascade) and returns the
	// storage path of the uploaded PDF so the caller can remove the file.
	Delete(ctx context.Context, id string) (string, error)
}

// ObjectStorage stores uploaded PDF files.
type ObjectStorage interface {
	Save(ctx context.Context, key string, data io.Reader) error
	Open(ctx context.Context, key string) (io.ReadCloser, error)
	Remove(ctx context.Context, key string) error
}

// MessageQueue publishes/consumes report-uploaded events.
type MessageQueue interface {
	PublishReportUploaded(ctx context.Context, reportID string) error
	SubscribeReportUploaded(ctx context.Context, handler func(context.Context, string) error) error
}

// TextExtractor pulls the line-ordered text out of a stored PDF. A PDF
// without a text layer yields domain.ErrNoTextLayer.
type TextExtractor interface {
	ExtractLines(ctx context.Context, report *domain.Report) ([]string, error)
}

// ResultParser scans extracted lines for test entries. It is total: zero
// recognized entries is an empty slice, never an error.
type ResultParser interface {
	Parse(lines []string) []domain.TestRecord
}

// FailureAnalysis is a fully populated reason/fix assignment for one
// failed test.
type FailureAnalysis struct {
	Category string
	Reason   string
	Fix      string
	Provider string
}

// FailureAnalyzer assigns a failure reason and suggested fix to a failed
// test. Implementations must be total: any internal error degrades to a
// rule-based fallback rather than surfacing.
type FailureAnalyzer interface {
	Analyze(ctx context.Context, testName, errorMessage string) FailureAnalysis
	Status() domain.AnalyzerStatus
}
