package domain

import (
	"fmt"
	"time"
)

type ReportStatus string

const (
	StatusUploaded   ReportStatus = "uploaded"
	StatusProcessing ReportStatus = "processing"
	StatusReady      ReportStatus = "ready"
	StatusFailed     ReportStatus = "failed"
)

type TestStatus string

const (
	TestPassed TestStatus = "PASS"
	TestFailed TestStatus = "FAIL"
)

// Report is one uploaded PDF test report and its aggregate counters.
type Report struct {
	ID          string       `json:"id"`
	Filename    string       `json:"filename"`
	StoragePath string       `json:"storage_path"`
	Status      ReportStatus `json:"status"`
	Error       string       `json:"error,omitempty"`
	TotalTests  int          `json:"total_tests"`
	PassedTests int          `json:"passed_tests"`
	FailedTests int          `json:"failed_tests"`
	CreatedAt   time.Time    `json:"created_at"`
	UpdatedAt   time.Time    `json:"updated_at"`
}

// TestRecord is one parsed test outcome. ErrorMessage, FailureReason,
// SuggestedFix and FailureCategory are set only for FAIL records.
type TestRecord struct {
	Name            string     `json:"test_name"`
	Status          TestStatus `json:"status"`
	ErrorMessage    string     `json:"error_message,omitempty"`
	FailureCategory string     `json:"failure_category,omitempty"`
	FailureReason   string     `json:"failure_reason,omitempty"`
	SuggestedFix    string     `json:"suggested_fix,omitempty"`
	Analyzer        string     `json:"ai_provider,omitempty"`
}

// ReportSummary holds the aggregate counters for one report.
type ReportSummary struct {
	Filename    string `json:"filename"`
	TotalTests  int    `json:"total_tests"`
	PassedTests int    `json:"passed_tests"`
	FailedTests int    `json:"failed_tests"`
}

// Summarize folds a record sequence into a summary. It returns an error
// only if a record carries a status outside PASS/FAIL, which would break
// the total = passed + failed invariant.
func Summarize(filename string, records []TestRecord) (ReportSummary, error) {
	summary := ReportSummary{Filename: filename, TotalTests: len(records)}
	for _, record := range records {
		switch record.Status {
		case TestPassed:
			summary.PassedTests++
		case TestFailed:
			summary.FailedTests++
		default:
			return ReportSummary{}, fmt.Errorf("record %q: unknown test status %q", record.Name, record.Status)
		}
	}
	return summary, nil
}

// AnalyzerStatus describes the optional AI failure analyzer.
type AnalyzerStatus struct {
	Provider  string `json:"provider"`
	Model     string `json:"model,omitempty"`
	Available bool   `json:"available"`
	Status    string `json:"status"`
}
