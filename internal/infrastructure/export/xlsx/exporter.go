package xlsx

import (
	"bytes"
	"context"
	"fmt"

	"github.com/xuri/excelize/v2"

	"github.com/emrekaratas/test-report-analyzer/internal/core/domain"
)

const (
	summarySheet = "Summary"
	resultsSheet = "Results"
)

// Exporter renders a report and its test results as an XLSX workbook
// with a summary sheet and a per-test results sheet.
type Exporter struct{}

func New() *Exporter {
	return &Exporter{}
}

func (e *Exporter) ExportXLSX(_ context.Context, report *domain.Report, records []domain.TestRecord) ([]byte, error) {
	workbook := excelize.NewFile()
	defer workbook.Close()

	if err := workbook.SetSheetName(workbook.GetSheetName(0), summarySheet); err != nil {
		return nil, fmt.Errorf("rename summary sheet: %w", err)
	}
	if err := writeSummary(workbook, report); err != nil {
		return nil, err
	}

	if _, err := workbook.NewSheet(resultsSheet); err != nil {
		return nil, fmt.Errorf("create results sheet: %w", err)
	}
	if err := writeResults(workbook, records); err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	if err := workbook.Write(&buf); err != nil {
		return nil, fmt.Errorf("write workbook: %w", err)
	}
	return buf.Bytes(), nil
}

func writeSummary(workbook *excelize.File, report *domain.Report) error {
	rows := [][]any{
		{"Report ID", report.ID},
		{"Filename", report.Filename},
		{"Status", string(report.Status)},
		{"Total Tests", report.TotalTests},
		{"Passed Tests", report.PassedTests},
		{"Failed Tests", report.FailedTests},
		{"Uploaded At", report.CreatedAt.Format("2006-01-02 15:04:05")},
	}
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			return fmt.Errorf("summary cell name: %w", err)
		}
		if err := workbook.SetSheetRow(summarySheet, cell, &row); err != nil {
			return fmt.Errorf("write summary row %d: %w", i+1, err)
		}
	}
	return nil
}

func writeResults(workbook *excelize.File, records []domain.TestRecord) error {
	header := []any{"Test Name", "Status", "Error Message", "Failure Category", "Failure Reason", "Suggested Fix", "Analyzer"}
	if err := workbook.SetSheetRow(resultsSheet, "A1", &header); err != nil {
		return fmt.Errorf("write results header: %w", err)
	}

	for i, record := range records {
		row := []any{
			record.Name,
			string(record.Status),
			record.ErrorMessage,
			record.FailureCategory,
			record.FailureReason,
			record.SuggestedFix,
			record.Analyzer,
		}
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return fmt.Errorf("results cell name: %w", err)
		}
		if err := workbook.SetSheetRow(resultsSheet, cell, &row); err != nil {
			return fmt.Errorf("write results row %d: %w", i+2, err)
		}
	}
	return nil
}
