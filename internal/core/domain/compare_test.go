package domain

import (
	"strings"
	"testing"
)

func TestCompareReportsCollectsDifferences(t *testing.T) {
	first := &Report{ID: "rep-1", Filename: "monday.pdf", TotalTests: 3, PassedTests: 2, FailedTests: 1}
	second := &Report{ID: "rep-2", Filename: "tuesday.pdf", TotalTests: 3, PassedTests: 3}

	firstResults := []TestRecord{
		{Name: "Login", Status: TestPassed},
		{Name: "Checkout", Status: TestFailed, ErrorMessage: "timeout", FailureReason: "Test zaman aşımına uğradı"},
		{Name: "Old Flow", Status: TestPassed},
	}
	secondResults := []TestRecord{
		{Name: "login", Status: TestPassed},
		{Name: "Checkout", Status: TestPassed},
		{Name: "New Flow", Status: TestPassed},
	}

	cmp := CompareReports(first, second, firstResults, secondResults)

	if len(cmp.Differences) != 3 {
		t.Fatalf("expected 3 differences, got %d: %+v", len(cmp.Differences), cmp.Differences)
	}

	byName := map[string]TestDifference{}
	for _, diff := range cmp.Differences {
		byName[diff.TestName] = diff
	}

	checkout := byName["Checkout"]
	if checkout.FirstStatus != "FAIL" || checkout.SecondStatus != "PASS" {
		t.Fatalf("unexpected checkout diff: %+v", checkout)
	}
	if checkout.FirstDetail != "Test zaman aşımına uğradı" {
		t.Fatalf("expected failure reason as detail, got %q", checkout.FirstDetail)
	}

	if byName["Old Flow"].SecondStatus != OutcomeMissing {
		t.Fatalf("expected Old Flow missing in second report: %+v", byName["Old Flow"])
	}
	if byName["New Flow"].FirstStatus != OutcomeMissing {
		t.Fatalf("expected New Flow missing in first report: %+v", byName["New Flow"])
	}

	// 4 distinct names, 1 agreeing (Login matched case-insensitively).
	if cmp.Agreement != 25.0 {
		t.Fatalf("expected 25%% agreement, got %v", cmp.Agreement)
	}
	if !strings.Contains(cmp.Summary, "monday.pdf") || !strings.Contains(cmp.Summary, "3 test") {
		t.Fatalf("unexpected summary: %q", cmp.Summary)
	}
}

func TestCompareReportsIdenticalResults(t *testing.T) {
	first := &Report{ID: "rep-1", Filename: "a.pdf"}
	second := &Report{ID: "rep-2", Filename: "b.pdf"}
	results := []TestRecord{
		{Name: "Login", Status: TestPassed},
		{Name: "Logout", Status: TestFailed, ErrorMessage: "boom"},
	}

	cmp := CompareReports(first, second, results, results)

	if len(cmp.Differences) != 0 {
		t.Fatalf("expected no differences, got %+v", cmp.Differences)
	}
	if cmp.Agreement != 100.0 {
		t.Fatalf("expected full agreement, got %v", cmp.Agreement)
	}
	if !strings.Contains(cmp.Summary, "fark tespit edilmedi") {
		t.Fatalf("unexpected summary: %q", cmp.Summary)
	}
}

func TestCompareReportsEmptyResults(t *testing.T) {
	cmp := CompareReports(&Report{ID: "rep-1"}, &Report{ID: "rep-2"}, nil, nil)

	if len(cmp.Differences) != 0 || cmp.Agreement != 100.0 {
		t.Fatalf("two empty reports must agree: %+v", cmp)
	}
}
