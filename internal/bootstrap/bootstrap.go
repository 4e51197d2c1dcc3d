package bootstrap

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/emrekaratas/test-report-analyzer/internal/analysis"
	"github.com/emrekaratas/test-report-analyzer/internal/config"
	"github.com/emrekaratas/test-report-analyzer/internal/core/ports"
	"github.com/emrekaratas/test-report-analyzer/internal/core/usecase"
	"github.com/emrekaratas/test-report-analyzer/internal/infrastructure/export/xlsx"
	"github.com/emrekaratas/test-report-analyzer/internal/infrastructure/extractor/pdftext"
	"github.com/emrekaratas/test-report-analyzer/internal/infrastructure/llm/openaicompat"
	"github.com/emrekaratas/test-report-analyzer/internal/infrastructure/llm/rulebased"
	"github.com/emrekaratas/test-report-analyzer/internal/infrastructure/queue/nats"
	"github.com/emrekaratas/test-report-analyzer/internal/infrastructure/repository/postgres"
	"github.com/emrekaratas/test-report-analyzer/internal/infrastructure/resilience"
	"github.com/emrekaratas/test-report-analyzer/internal/infrastructure/storage/localfs"
)

type App struct {
	Config config.Config

	Queue ports.MessageQueue
	Repo  ports.ReportRepository

	IngestUC   ports.ReportIngestor
	ProcessUC  ports.ReportProcessor
	DeleteUC   ports.ReportDeleter
	DownloadUC ports.ReportDownloader
	CompareUC  ports.ReportComparer
	Reader     ports.ReportReader
	Exporter   ports.ReportExporter
	Analyzer   ports.FailureAnalyzer

	closeFn func()
}

func New(ctx context.Context, cfg config.Config) (*App, error) {
	db, err := postgres.OpenDB(cfg.PostgresDSN)
	if err != nil {
		return nil, fmt.Errorf("open postgres: %w", err)
	}
	repo := postgres.NewReportRepository(db)
	if err := repo.EnsureSchema(ctx); err != nil {
		return nil, fmt.Errorf("ensure schema: %w", err)
	}

	storage, err := localfs.New(cfg.StoragePath)
	if err != nil {
		return nil, fmt.Errorf("init object storage: %w", err)
	}

	executor := resilience.NewExecutor(resilience.DefaultPolicy())
	queue, err := nats.NewWithOptions(cfg.NATSURL, cfg.NATSSubject, nats.Options{
		ResilienceExecutor: executor,
	})
	if err != nil {
		return nil, fmt.Errorf("init message queue: %w", err)
	}

	classifier, err := buildClassifier(cfg)
	if err != nil {
		return nil, err
	}
	analyzer := buildAnalyzer(cfg, classifier, executor)

	parser := analysis.NewParser(analysis.Options{NameLookback: cfg.NameLookback})
	extractor := pdftext.New(storage)

	ingestUC := usecase.NewIngestReportUseCase(repo, storage, queue)
	processUC := usecase.NewProcessReportUseCase(repo, extractor, parser, analyzer)
	deleteUC := usecase.NewDeleteReportUseCase(repo, storage)
	downloadUC := usecase.NewDownloadReportUseCase(repo, storage)
	compareUC := usecase.NewCompareReportsUseCase(repo)

	return &App{
		Config: cfg,
		Queue:  queue,
		Repo:   repo,

		IngestUC:   ingestUC,
		ProcessUC:  processUC,
		DeleteUC:   deleteUC,
		DownloadUC: downloadUC,
		CompareUC:  compareUC,
		Reader:     repo,
		Exporter:   xlsx.New(),
		Analyzer:   analyzer,

		closeFn: func() {
			queue.Close()
			_ = db.Close()
		},
	}, nil
}

func buildClassifier(cfg config.Config) (*analysis.Classifier, error) {
	if cfg.SignaturesPath == "" {
		return analysis.NewDefaultClassifier(), nil
	}
	signatures, err := analysis.LoadSignatures(cfg.SignaturesPath)
	if err != nil {
		return nil, fmt.Errorf("load failure signatures: %w", err)
	}
	return analysis.NewClassifier(signatures), nil
}

func buildAnalyzer(cfg config.Config, classifier *analysis.Classifier, executor *resilience.Executor) ports.FailureAnalyzer {
	provider := strings.ToLower(strings.TrimSpace(cfg.AIProvider))
	if provider == "" || provider == "none" {
		return rulebased.New(classifier)
	}

	client := openaicompat.New(cfg.AIBaseURL, cfg.AIAPIKey, cfg.AIModel, time.Duration(cfg.AITimeoutSeconds)*time.Second)
	return openaicompat.NewAnalyzer(client, provider, classifier, executor)
}

func (a *App) Close() {
	if a.closeFn != nil {
		a.closeFn()
	}
}
