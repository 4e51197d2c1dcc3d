package pdftext

import (
	"bytes"
	"context"
	"errors"
	"io"
	"testing"

	"github.com/emrekaratas/test-report-analyzer/internal/core/domain"
)

type storageStub struct {
	data    []byte
	openErr error
}

func (s *storageStub) Save(context.Context, string, io.Reader) error { return nil }

func (s *storageStub) Open(context.Context, string) (io.ReadCloser, error) {
	if s.openErr != nil {
		return nil, s.openErr
	}
	return io.NopCloser(bytes.NewReader(s.data)), nil
}

func (s *storageStub) Remove(context.Context, string) error { return nil }

type strategyStub struct {
	name  string
	lines []string
	err   error
	calls int
}

func (s *strategyStub) Name() string { return s.name }

func (s *strategyStub) Extract([]byte) ([]string, error) {
	s.calls++
	return s.lines, s.err
}

func newTestExtractor(storage *storageStub, strategies ...strategy) *Extractor {
	return &Extractor{
		storage:    storage,
		strategies: strategies,
		validate:   func(io.ReadSeeker) error { return nil },
	}
}

func TestExtractLinesUsesFirstStrategyWithText(t *testing.T) {
	primary := &strategyStub{name: "primary", lines: []string{"Test: Login - PASS"}}
	fallback := &strategyStub{name: "fallback"}
	ext := newTestExtractor(&storageStub{data: []byte("pdf")}, primary, fallback)

	lines, err := ext.ExtractLines(context.Background(), &domain.Report{StoragePath: "rep-1_run.pdf"})
	if err != nil {
		t.Fatalf("ExtractLines() error = %v", err)
	}
	if len(lines) != 1 || lines[0] != "Test: Login - PASS" {
		t.Fatalf("unexpected lines: %v", lines)
	}
	if fallback.calls != 0 {
		t.Fatalf("fallback should not run when primary yields text")
	}
}

func TestExtractLinesFallsBackWhenPrimaryFails(t *testing.T) {
	primary := &strategyStub{name: "primary", err: errors.New("bad content stream")}
	fallback := &strategyStub{name: "fallback", lines: []string{"Senaryo: Giriş - Başarılı"}}
	ext := newTestExtractor(&storageStub{data: []byte("pdf")}, primary, fallback)

	lines, err := ext.ExtractLines(context.Background(), &domain.Report{StoragePath: "rep-1_run.pdf"})
	if err != nil {
		t.Fatalf("ExtractLines() error = %v", err)
	}
	if len(lines) != 1 || lines[0] != "Senaryo: Giriş - Başarılı" {
		t.Fatalf("unexpected lines: %v", lines)
	}
}

func TestExtractLinesReportsMissingTextLayer(t *testing.T) {
	ext := newTestExtractor(&storageStub{data: []byte("pdf")},
		&strategyStub{name: "primary"},
		&strategyStub{name: "fallback"},
	)

	_, err := ext.ExtractLines(context.Background(), &domain.Report{Filename: "scan.pdf", StoragePath: "rep-1_scan.pdf"})
	if !domain.IsKind(err, domain.ErrNoTextLayer) {
		t.Fatalf("expected ErrNoTextLayer, got %v", err)
	}
}

func TestExtractLinesPrefersNoTextLayerOverStrategyError(t *testing.T) {
	// Image-only scan with a malformed content stream: the row strategy
	// errors, the plain strategy completes with no text. The document
	// must still surface as missing its text layer.
	ext := newTestExtractor(&storageStub{data: []byte("pdf")},
		&strategyStub{name: "primary", err: errors.New("bad content stream")},
		&strategyStub{name: "fallback"},
	)

	_, err := ext.ExtractLines(context.Background(), &domain.Report{Filename: "scan.pdf", StoragePath: "rep-1_scan.pdf"})
	if !domain.IsKind(err, domain.ErrNoTextLayer) {
		t.Fatalf("expected ErrNoTextLayer, got %v", err)
	}
}

func TestExtractLinesReportsErrorWhenAllStrategiesFail(t *testing.T) {
	ext := newTestExtractor(&storageStub{data: []byte("pdf")},
		&strategyStub{name: "primary", err: errors.New("bad content stream")},
		&strategyStub{name: "fallback", err: errors.New("unreadable page tree")},
	)

	_, err := ext.ExtractLines(context.Background(), &domain.Report{StoragePath: "rep-1_bad.pdf"})
	if err == nil {
		t.Fatalf("expected error")
	}
	if domain.IsKind(err, domain.ErrNoTextLayer) {
		t.Fatalf("total extraction failure must not be reported as a missing text layer: %v", err)
	}
}

func TestExtractLinesRejectsInvalidPDF(t *testing.T) {
	ext := &Extractor{
		storage:    &storageStub{data: []byte("not a pdf")},
		strategies: []strategy{&strategyStub{name: "primary", lines: []string{"never"}}},
		validate:   func(io.ReadSeeker) error { return errors.New("corrupt xref table") },
	}

	_, err := ext.ExtractLines(context.Background(), &domain.Report{StoragePath: "rep-1_bad.pdf"})
	if !domain.IsKind(err, domain.ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}
}

func TestExtractLinesPropagatesStorageError(t *testing.T) {
	ext := newTestExtractor(&storageStub{openErr: errors.New("no such file")})

	_, err := ext.ExtractLines(context.Background(), &domain.Report{StoragePath: "gone.pdf"})
	if err == nil {
		t.Fatalf("expected error")
	}
}
