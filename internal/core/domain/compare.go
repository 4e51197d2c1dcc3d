package domain

import (
	"fmt"
	"sort"
	"strings"
	"time"
)

// OutcomeMissing marks a test present in only one of the two compared
// reports.
const OutcomeMissing = "MISSING"

// TestDifference records one test whose outcome diverges between two
// reports, including tests missing from either side.
type TestDifference struct {
	TestName     string `json:"test_name"`
	FirstStatus  string `json:"first_status"`
	SecondStatus string `json:"second_status"`
	FirstDetail  string `json:"first_detail,omitempty"`
	SecondDetail string `json:"second_detail,omitempty"`
}

// ComparisonSide identifies one of the two compared reports.
type ComparisonSide struct {
	ID          string    `json:"id"`
	Filename    string    `json:"filename"`
	TotalTests  int       `json:"total_tests"`
	PassedTests int       `json:"passed_tests"`
	FailedTests int       `json:"failed_tests"`
	CreatedAt   time.Time `json:"created_at"`
}

// ReportComparison is the structured diff of two reports' test results.
// Agreement is the percentage of tests, over the union of both result
// sets, whose outcome matches.
type ReportComparison struct {
	First       ComparisonSide   `json:"first_report"`
	Second      ComparisonSide   `json:"second_report"`
	Agreement   float64          `json:"agreement"`
	Differences []TestDifference `json:"test_differences"`
	Summary     string           `json:"summary"`
}

// CompareReports diffs the persisted results of two reports by test name.
// Names are matched case-insensitively with whitespace collapsed, so
// "Login  Test" and "login test" line up across reports.
func CompareReports(first, second *Report, firstResults, secondResults []TestRecord) ReportComparison {
	firstMap := resultsByName(firstResults)
	secondMap := resultsByName(secondResults)

	keys := make([]string, 0, len(firstMap)+len(secondMap))
	for key := range firstMap {
		keys = append(keys, key)
	}
	for key := range secondMap {
		if _, ok := firstMap[key]; !ok {
			keys = append(keys, key)
		}
	}
	sort.Strings(keys)

	differences := []TestDifference{}
	agreeing := 0
	for _, key := range keys {
		firstRecord, inFirst := firstMap[key]
		secondRecord, inSecond := secondMap[key]

		firstStatus, secondStatus := OutcomeMissing, OutcomeMissing
		if inFirst {
			firstStatus = string(firstRecord.Status)
		}
		if inSecond {
			secondStatus = string(secondRecord.Status)
		}

		if inFirst && inSecond && firstStatus == secondStatus {
			agreeing++
			continue
		}

		name := ""
		if inFirst {
			name = firstRecord.Name
		} else {
			name = secondRecord.Name
		}
		differences = append(differences, TestDifference{
			TestName:     name,
			FirstStatus:  firstStatus,
			SecondStatus: secondStatus,
			FirstDetail:  resultDetail(firstRecord, inFirst),
			SecondDetail: resultDetail(secondRecord, inSecond),
		})
	}

	agreement := 100.0
	if len(keys) > 0 {
		agreement = float64(agreeing) / float64(len(keys)) * 100.0
	}

	return ReportComparison{
		First:       comparisonSide(first),
		Second:      comparisonSide(second),
		Agreement:   agreement,
		Differences: differences,
		Summary:     comparisonSummary(first.Filename, second.Filename, agreement, len(differences)),
	}
}

func resultsByName(records []TestRecord) map[string]TestRecord {
	out := make(map[string]TestRecord, len(records))
	for _, record := range records {
		out[normalizeTestName(record.Name)] = record
	}
	return out
}

func normalizeTestName(name string) string {
	return strings.ToLower(strings.Join(strings.Fields(name), " "))
}

func resultDetail(record TestRecord, present bool) string {
	if !present || record.Status != TestFailed {
		return ""
	}
	if record.FailureReason != "" {
		return record.FailureReason
	}
	return record.ErrorMessage
}

func comparisonSide(report *Report) ComparisonSide {
	return ComparisonSide{
		ID:          report.ID,
		Filename:    report.Filename,
		TotalTests:  report.TotalTests,
		PassedTests: report.PassedTests,
		FailedTests: report.FailedTests,
		CreatedAt:   report.CreatedAt,
	}
}

func comparisonSummary(firstName, secondName string, agreement float64, differenceCount int) string {
	var verdict string
	switch {
	case agreement >= 85:
		verdict = "Raporlar büyük ölçüde aynı sonuçları içeriyor."
	case agreement >= 60:
		verdict = "Raporlar benzer ancak dikkate değer farklılıklar mevcut."
	default:
		verdict = "Raporlar arasında belirgin sonuç farkı var."
	}

	if differenceCount > 0 {
		verdict += fmt.Sprintf(" Karşılaştırmada %d test sonucunda ayrışma bulundu.", differenceCount)
	} else {
		verdict += " Test sonuçları arasında fark tespit edilmedi."
	}

	return fmt.Sprintf("%s ile %s arasındaki uyum oranı %%%.1f. %s", firstName, secondName, agreement, verdict)
}
