package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"

	"github.com/emrekaratas/test-report-analyzer/internal/core/domain"
)

type ReportRepository struct {
	db *sql.DB
}

func NewReportRepository(db *sql.DB) *ReportRepository {
	return &ReportRepository{db: db}
}

func OpenDB(dsn string) (*sql.DB, error) {
	db, err := sql.Open("pgx", dsn)
	if err != nil {
		return nil, fmt.Errorf("sql open: %w", err)
	}
	db.SetMaxOpenConns(10)
	db.SetMaxIdleConns(10)
	db.SetConnMaxLifetime(30 * time.Minute)

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("db ping: %w", err)
	}
	return db, nil
}

func (r *ReportRepository) EnsureSchema(ctx context.Context) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin schema tx: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	// Serialize bootstrap DDL across api/worker startups.
	if _, err := tx.ExecContext(ctx, `SELECT pg_advisory_xact_lock($1)`, int64(2026082301)); err != nil {
		return fmt.Errorf("acquire schema lock: %w", err)
	}

	const query = `
CREATE TABLE IF NOT EXISTS reports (
	id TEXT PRIMARY KEY,
	filename TEXT NOT NULL,
	storage_path TEXT NOT NULL,
	status TEXT NOT NULL,
	error_message TEXT NOT NULL DEFAULT '',
	total_tests INTEGER NOT NULL DEFAULT 0,
	passed_tests INTEGER NOT NULL DEFAULT 0,
	failed_tests INTEGER NOT NULL DEFAULT 0,
	created_at TIMESTAMPTZ NOT NULL,
	updated_at TIMESTAMPTZ NOT NULL
);

CREATE TABLE IF NOT EXISTS test_results (
	id BIGSERIAL PRIMARY KEY,
	report_id TEXT NOT NULL REFERENCES reports(id) ON DELETE CASCADE,
	position INTEGER NOT NULL,
	test_name TEXT NOT NULL,
	status TEXT NOT NULL,
	error_message TEXT NOT NULL DEFAULT '',
	failure_category TEXT NOT NULL DEFAULT '',
	failure_reason TEXT NOT NULL DEFAULT '',
	suggested_fix TEXT NOT NULL DEFAULT '',
	ai_provider TEXT NOT NULL DEFAULT ''
);

CREATE INDEX IF NOT EXISTS idx_reports_status ON reports(status);
CREATE INDEX IF NOT EXISTS idx_reports_created_at ON reports(created_at DESC);
CREATE INDEX IF NOT EXISTS idx_test_results_report ON test_results(report_id, position);
`
	if _, err := tx.ExecContext(ctx, query); err != nil {
		return fmt.Errorf("execute schema ddl: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit schema tx: %w", err)
	}
	return nil
}

func (r *ReportRepository) Create(ctx context.Context, report *domain.Report) error {
	_, err := r.db.ExecContext(ctx, `
INSERT INTO reports (
	id, filename, storage_path, status, error_message, total_tests, passed_tests, failed_tests, created_at, updated_at
) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10)
`,
		report.ID, report.Filename, report.StoragePath, string(report.Status), report.Error,
		report.TotalTests, report.PassedTests, report.FailedTests, report.CreatedAt, report.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert report: %w", err)
	}
	return nil
}

func (r *ReportRepository) GetByID(ctx context.Context, id string) (*domain.Report, error) {
	row := r.db.QueryRowContext(ctx, `
SELECT id, filename, storage_path, status, error_message, total_tests, passed_tests, failed_tests, created_at, updated_at
FROM reports
WHERE id = $1
`, id)

	report, err := scanReport(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.WrapError(domain.ErrReportNotFound, "get report", fmt.Errorf("id %s", id))
		}
		return nil, fmt.Errorf("scan report: %w", err)
	}
	return report, nil
}

// sortColumns whitelists the user-facing sort keys; anything else falls
// back to upload date.
var sortColumns = map[string]string{
	"date":   "created_at",
	"name":   "filename",
	"total":  "total_tests",
	"passed": "passed_tests",
	"failed": "failed_tests",
}

func (r *ReportRepository) List(ctx context.Context, sortBy, order string) ([]domain.Report, error) {
	column, ok := sortColumns[strings.ToLower(sortBy)]
	if !ok {
		column = "created_at"
	}
	direction := "DESC"
	if strings.EqualFold(order, "asc") {
		direction = "ASC"
	}

	query := fmt.Sprintf(`
SELECT id, filename, storage_path, status, error_message, total_tests, passed_tests, failed_tests, created_at, updated_at
FROM reports
ORDER BY %s %s
`, column, direction)

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list reports: %w", err)
	}
	defer rows.Close()

	reports := []domain.Report{}
	for rows.Next() {
		report, err := scanReport(rows)
		if err != nil {
			return nil, fmt.Errorf("scan report row: %w", err)
		}
		reports = append(reports, *report)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate reports: %w", err)
	}
	return reports, nil
}

func (r *ReportRepository) UpdateStatus(ctx context.Context, id string, status domain.ReportStatus, errMessage string) error {
	result, err := r.db.ExecContext(ctx, `
UPDATE reports
SET status = $2, error_message = $3, updated_at = $4
WHERE id = $1
`, id, string(status), errMessage, time.Now().UTC())
	if err != nil {
		return fmt.Errorf("update report status: %w", err)
	}
	return requireRowAffected(result, "update report status", id)
}

func (r *ReportRepository) SaveResults(ctx context.Context, id string, summary domain.ReportSummary, records []domain.TestRecord) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin results tx: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	result, err := tx.ExecContext(ctx, `
UPDATE reports
SET total_tests = $2, passed_tests = $3, failed_tests = $4, updated_at = $5
WHERE id = $1
`, id, summary.TotalTests, summary.PassedTests, summary.FailedTests, time.Now().UTC())
	if err != nil {
		return fmt.Errorf("update report counters: %w", err)
	}
	if err := requireRowAffected(result, "update report counters", id); err != nil {
		return err
	}

	// Re-processing replaces the old results rather than appending.
	if _, err := tx.ExecContext(ctx, `DELETE FROM test_results WHERE report_id = $1`, id); err != nil {
		return fmt.Errorf("clear previous results: %w", err)
	}

	for position, record := range records {
		_, err := tx.ExecContext(ctx, `
INSERT INTO test_results (
	report_id, position, test_name, status, error_message, failure_category, failure_reason, suggested_fix, ai_provider
) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9)
`,
			id, position, record.Name, string(record.Status), record.ErrorMessage,
			record.FailureCategory, record.FailureReason, record.SuggestedFix, record.Analyzer,
		)
		if err != nil {
			return fmt.Errorf("insert test result %d: %w", position, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit results tx: %w", err)
	}
	return nil
}

func (r *ReportRepository) ListResults(ctx context.Context, id string) ([]domain.TestRecord, error) {
	return r.queryResults(ctx, `
SELECT test_name, status, error_message, failure_category, failure_reason, suggested_fix, ai_provider
FROM test_results
WHERE report_id = $1
ORDER BY position ASC
`, id)
}

func (r *ReportRepository) ListFailures(ctx context.Context, id string) ([]domain.TestRecord, error) {
	return r.queryResults(ctx, `
SELECT test_name, status, error_message, failure_category, failure_reason, suggested_fix, ai_provider
FROM test_results
WHERE report_id = $1 AND status = 'FAIL'
ORDER BY position ASC
`, id)
}

func (r *ReportRepository) queryResults(ctx context.Context, query, id string) ([]domain.TestRecord, error) {
	rows, err := r.db.QueryContext(ctx, query, id)
	if err != nil {
		return nil, fmt.Errorf("query test results: %w", err)
	}
	defer rows.Close()

	records := []domain.TestRecord{}
	for rows.Next() {
		var record domain.TestRecord
		var status string
		err := rows.Scan(
			&record.Name, &status, &record.ErrorMessage,
			&record.FailureCategory, &record.FailureReason, &record.SuggestedFix, &record.Analyzer,
		)
		if err != nil {
			return nil, fmt.Errorf("scan test result: %w", err)
		}
		record.Status = domain.TestStatus(status)
		records = append(records, record)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate test results: %w", err)
	}
	return records, nil
}

func (r *ReportRepository) Delete(ctx context.Context, id string) (string, error) {
	// test_results rows go with the report via ON DELETE CASCADE.
	row := r.db.QueryRowContext(ctx, `
DELETE FROM reports
WHERE id = $1
RETURNING storage_path
`, id)

	var storagePath string
	if err := row.Scan(&storagePath); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", domain.WrapError(domain.ErrReportNotFound, "delete report", fmt.Errorf("id %s", id))
		}
		return "", fmt.Errorf("delete report: %w", err)
	}
	return storagePath, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanReport(row rowScanner) (*domain.Report, error) {
	var report domain.Report
	var status string
	err := row.Scan(
		&report.ID, &report.Filename, &report.StoragePath, &status, &report.Error,
		&report.TotalTests, &report.PassedTests, &report.FailedTests, &report.CreatedAt, &report.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	report.Status = domain.ReportStatus(status)
	return &report, nil
}

func requireRowAffected(result sql.Result, operation, id string) error {
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%s: rows affected: %w", operation, err)
	}
	if affected == 0 {
		return domain.WrapError(domain.ErrReportNotFound, operation, fmt.Errorf("id %s", id))
	}
	return nil
}
