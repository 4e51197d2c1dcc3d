package domain

import "testing"

func TestSummarizeCountsByStatus(t *testing.T) {
	records := []TestRecord{
		{Name: "a", Status: TestPassed},
		{Name: "b", Status: TestFailed, ErrorMessage: "boom"},
		{Name: "c", Status: TestPassed},
	}

	summary, err := Summarize("report.pdf", records)
	if err != nil {
		t.Fatalf("Summarize() error = %v", err)
	}
	if summary.TotalTests != 3 || summary.PassedTests != 2 || summary.FailedTests != 1 {
		t.Fatalf("unexpected summary: %+v", summary)
	}
	if summary.TotalTests != summary.PassedTests+summary.FailedTests {
		t.Fatalf("invariant broken: %+v", summary)
	}
}

func TestSummarizeEmptyIsZeroNotError(t *testing.T) {
	summary, err := Summarize("empty.pdf", nil)
	if err != nil {
		t.Fatalf("Summarize() error = %v", err)
	}
	if summary.TotalTests != 0 || summary.PassedTests != 0 || summary.FailedTests != 0 {
		t.Fatalf("expected zero summary, got %+v", summary)
	}
}

func TestSummarizeRejectsUnknownStatus(t *testing.T) {
	if _, err := Summarize("bad.pdf", []TestRecord{{Name: "x", Status: "SKIPPED"}}); err == nil {
		t.Fatalf("expected error for unknown status")
	}
}
