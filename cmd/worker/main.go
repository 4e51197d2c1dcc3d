package main

import (
	"context"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/emrekaratas/test-report-analyzer/internal/bootstrap"
	"github.com/emrekaratas/test-report-analyzer/internal/config"
	"github.com/emrekaratas/test-report-analyzer/internal/observability/logging"
	"github.com/emrekaratas/test-report-analyzer/internal/observability/metrics"
)

func main() {
	cfg := config.Load()
	slog.SetDefault(logging.NewJSONLogger("worker", cfg.LogLevel))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	app, err := bootstrap.New(ctx, cfg)
	if err != nil {
		log.Fatalf("bootstrap error: %v", err)
	}
	defer app.Close()

	workerMetrics := metrics.NewWorkerMetrics("worker")
	metricsServer := &http.Server{
		Addr:    ":" + cfg.WorkerMetricsPort,
		Handler: workerMetrics.Handler(),
	}
	go func() {
		slog.Info("worker_metrics_listening", "port", cfg.WorkerMetricsPort)
		if err := metricsServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("worker_metrics_server_error", "error", err)
		}
	}()
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = metricsServer.Shutdown(shutdownCtx)
	}()

	slog.Info("worker_subscribed", "subject", cfg.NATSSubject)
	err = app.Queue.SubscribeReportUploaded(ctx, func(handlerCtx context.Context, reportID string) error {
		processCtx, cancel := context.WithTimeout(handlerCtx, 5*time.Minute)
		defer cancel()

		if report, err := app.Repo.GetByID(processCtx, reportID); err == nil {
			workerMetrics.ObserveQueueLag("worker", time.Since(report.CreatedAt))
		}

		workerMetrics.StartReport()
		start := time.Now()
		processErr := app.ProcessUC.ProcessByID(processCtx, reportID)
		workerMetrics.FinishReport("worker", time.Since(start), processErr)

		if processErr == nil {
			if report, err := app.Repo.GetByID(processCtx, reportID); err == nil {
				workerMetrics.ObserveParsedReport("worker", report.PassedTests, report.FailedTests)
			}
		}
		return processErr
	})
	if err != nil {
		log.Fatalf("worker subscribe error: %v", err)
	}
}
