package usecase

import (
	"bytes"
	"context"
	"errors"
	"io"
	"strings"
	"testing"

	"github.com/emrekaratas/test-report-analyzer/internal/core/domain"
)

type ingestRepoFake struct {
	created *domain.Report
	err     error
}

func (f *ingestRepoFake) Create(_ context.Context, report *domain.Report) error {
	if f.err != nil {
		return f.err
	}
	copyReport := *report
	f.created = &copyReport
	return nil
}

func (f *ingestRepoFake) GetByID(context.Context, string) (*domain.Report, error) {
	return nil, errors.New("not implemented")
}
func (f *ingestRepoFake) List(context.Context, string, string) ([]domain.Report, error) {
	return nil, errors.New("not implemented")
}
func (f *ingestRepoFake) UpdateStatus(context.Context, string, domain.ReportStatus, string) error {
	return errors.New("not implemented")
}
func (f *ingestRepoFake) SaveResults(context.Context, string, domain.ReportSummary, []domain.TestRecord) error {
	return errors.New("not implemented")
}
func (f *ingestRepoFake) ListResults(context.Context, string) ([]domain.TestRecord, error) {
	return nil, errors.New("not implemented")
}
func (f *ingestRepoFake) ListFailures(context.Context, string) ([]domain.TestRecord, error) {
	return nil, errors.New("not implemented")
}
func (f *ingestRepoFake) Delete(context.Context, string) (string, error) {
	return "", errors.New("not implemented")
}

type storageFake struct {
	savedKey   string
	savedBody  string
	removedKey string
	openedKey  string
	openBody   string
	saveErr    error
	removeErr  error
	openErr    error
}

func (f *storageFake) Save(_ context.Context, key string, data io.Reader) error {
	if f.saveErr != nil {
		return f.saveErr
	}
	raw, err := io.ReadAll(data)
	if err != nil {
		return err
	}
	f.savedKey = key
	f.savedBody = string(raw)
	return nil
}

func (f *storageFake) Open(_ context.Context, key string) (io.ReadCloser, error) {
	if f.openErr != nil {
		return nil, f.openErr
	}
	f.openedKey = key
	return io.NopCloser(strings.NewReader(f.openBody)), nil
}

func (f *storageFake) Remove(_ context.Context, key string) error {
	if f.removeErr != nil {
		return f.removeErr
	}
	f.removedKey = key
	return nil
}

type queueFake struct {
	reportID string
	err      error
}

func (f *queueFake) PublishReportUploaded(_ context.Context, reportID string) error {
	if f.err != nil {
		return f.err
	}
	f.reportID = reportID
	return nil
}

func (f *queueFake) SubscribeReportUploaded(context.Context, func(context.Context, string) error) error {
	return errors.New("not implemented")
}

func TestIngestUploadSuccess(t *testing.T) {
	repo := &ingestRepoFake{}
	storage := &storageFake{}
	queue := &queueFake{}
	uc := NewIngestReportUseCase(repo, storage, queue)

	report, err := uc.Upload(context.Background(), "nightly run 3.pdf", bytes.NewBufferString("%PDF-1.7"))
	if err != nil {
		t.Fatalf("Upload() error = %v", err)
	}
	if report.ID == "" {
		t.Fatalf("expected report id")
	}
	if report.Status != domain.StatusUploaded {
		t.Fatalf("expected status uploaded, got %s", report.Status)
	}
	if repo.created == nil {
		t.Fatalf("expected repo.Create call")
	}
	if queue.reportID != report.ID {
		t.Fatalf("expected queued report id %s, got %s", report.ID, queue.reportID)
	}
	if !strings.Contains(storage.savedKey, "_nightly_run_3.pdf") {
		t.Fatalf("expected sanitized key suffix, got %s", storage.savedKey)
	}
	if storage.savedBody != "%PDF-1.7" {
		t.Fatalf("expected saved body, got %s", storage.savedBody)
	}
}

func TestIngestUploadQueueError(t *testing.T) {
	uc := NewIngestReportUseCase(&ingestRepoFake{}, &storageFake{}, &queueFake{err: errors.New("queue down")})

	_, err := uc.Upload(context.Background(), "run.pdf", bytes.NewBufferString("%PDF"))
	if err == nil {
		t.Fatalf("expected error")
	}
	if !strings.Contains(err.Error(), "publish upload event") {
		t.Fatalf("expected publish error, got %v", err)
	}
}

func TestIngestUploadStorageError(t *testing.T) {
	uc := NewIngestReportUseCase(&ingestRepoFake{}, &storageFake{saveErr: errors.New("disk full")}, &queueFake{})

	_, err := uc.Upload(context.Background(), "run.pdf", bytes.NewBufferString("%PDF"))
	if err == nil {
		t.Fatalf("expected error")
	}
	if !strings.Contains(err.Error(), "save uploaded pdf") {
		t.Fatalf("expected storage error, got %v", err)
	}
}
