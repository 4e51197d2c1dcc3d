package pdftext

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/ledongthuc/pdf"
	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"

	"github.com/emrekaratas/test-report-analyzer/internal/core/domain"
	"github.com/emrekaratas/test-report-analyzer/internal/core/ports"
)

// strategy pulls text lines out of an in-memory PDF. Strategies are tried
// in order; the first one returning any non-blank line wins.
type strategy interface {
	Name() string
	Extract(data []byte) ([]string, error)
}

// Extractor loads a report's PDF from object storage and extracts its
// text layer. Scanned or image-only PDFs have no text layer and surface
// as domain.ErrNoTextLayer so the caller can mark the report accordingly.
type Extractor struct {
	storage    ports.ObjectStorage
	strategies []strategy
	validate   func(rs io.ReadSeeker) error
}

func New(storage ports.ObjectStorage) *Extractor {
	return &Extractor{
		storage:    storage,
		strategies: []strategy{rowStrategy{}, plainStrategy{}},
		validate:   validatePDF,
	}
}

func (e *Extractor) ExtractLines(ctx context.Context, report *domain.Report) ([]string, error) {
	file, err := e.storage.Open(ctx, report.StoragePath)
	if err != nil {
		return nil, fmt.Errorf("open stored pdf: %w", err)
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		return nil, fmt.Errorf("read stored pdf: %w", err)
	}

	if err := e.validate(bytes.NewReader(data)); err != nil {
		return nil, domain.WrapError(domain.ErrInvalidInput, "validate pdf", err)
	}

	var lastErr error
	completed := false
	for _, s := range e.strategies {
		lines, err := s.Extract(data)
		if err != nil {
			lastErr = fmt.Errorf("%s: %w", s.Name(), err)
			continue
		}
		completed = true
		if len(lines) > 0 {
			return lines, nil
		}
	}
	// Any strategy that ran to completion and found nothing means the
	// document has no text layer, even if another strategy errored.
	if !completed && lastErr != nil {
		return nil, fmt.Errorf("extract pdf text: %w", lastErr)
	}
	return nil, domain.WrapError(domain.ErrNoTextLayer, "extract pdf text", fmt.Errorf("no extractable text in %s", report.Filename))
}

func validatePDF(rs io.ReadSeeker) error {
	cfg := model.NewDefaultConfiguration()
	cfg.ValidationMode = model.ValidationRelaxed
	return api.Validate(rs, cfg)
}

// rowStrategy keeps the page's row grouping, which preserves the
// line-per-test layout most report generators emit.
type rowStrategy struct{}

func (rowStrategy) Name() string { return "by-row" }

func (rowStrategy) Extract(data []byte) ([]string, error) {
	reader, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, fmt.Errorf("open pdf: %w", err)
	}

	var lines []string
	for pageNum := 1; pageNum <= reader.NumPage(); pageNum++ {
		page := reader.Page(pageNum)
		if page.V.IsNull() {
			continue
		}
		rows, err := page.GetTextByRow()
		if err != nil {
			return nil, fmt.Errorf("page %d text: %w", pageNum, err)
		}
		for _, row := range rows {
			var sb strings.Builder
			for _, text := range row.Content {
				sb.WriteString(text.S)
			}
			if line := strings.TrimSpace(sb.String()); line != "" {
				lines = append(lines, line)
			}
		}
	}
	return lines, nil
}

// plainStrategy is the fallback when row extraction chokes on the PDF's
// content streams.
type plainStrategy struct{}

func (plainStrategy) Name() string { return "plain" }

func (plainStrategy) Extract(data []byte) ([]string, error) {
	reader, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, fmt.Errorf("open pdf: %w", err)
	}
	text, err := reader.GetPlainText()
	if err != nil {
		return nil, fmt.Errorf("plain text: %w", err)
	}
	raw, err := io.ReadAll(text)
	if err != nil {
		return nil, fmt.Errorf("read plain text: %w", err)
	}

	var lines []string
	for _, line := range strings.Split(string(raw), "\n") {
		if line = strings.TrimSpace(line); line != "" {
			lines = append(lines, line)
		}
	}
	return lines, nil
}
