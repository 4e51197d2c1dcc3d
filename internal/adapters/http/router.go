package httpadapter

import (
	"encoding/json"
	"io"
	"net/http"
	"path/filepath"
	"strings"

	"github.com/emrekaratas/test-report-analyzer/internal/config"
	"github.com/emrekaratas/test-report-analyzer/internal/core/ports"
	"github.com/emrekaratas/test-report-analyzer/internal/observability/metrics"
)

type Router struct {
	cfg        config.Config
	ingestor   ports.ReportIngestor
	reader     ports.ReportReader
	deleter    ports.ReportDeleter
	exporter   ports.ReportExporter
	downloader ports.ReportDownloader
	comparer   ports.ReportComparer
	analyzer   ports.FailureAnalyzer
	metrics    *metrics.HTTPServerMetrics
}

func NewRouter(
	cfg config.Config,
	ingestor ports.ReportIngestor,
	reader ports.ReportReader,
	deleter ports.ReportDeleter,
	exporter ports.ReportExporter,
	downloader ports.ReportDownloader,
	comparer ports.ReportComparer,
	analyzer ports.FailureAnalyzer,
	httpMetrics *metrics.HTTPServerMetrics,
) *Router {
	return &Router{
		cfg:        cfg,
		ingestor:   ingestor,
		reader:     reader,
		deleter:    deleter,
		exporter:   exporter,
		downloader: downloader,
		comparer:   comparer,
		analyzer:   analyzer,
		metrics:    httpMetrics,
	}
}

func (rt *Router) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /healthz", rt.healthz)
	mux.HandleFunc("POST /v1/reports", rt.uploadReport)
	mux.HandleFunc("GET /v1/reports", rt.listReports)
	mux.HandleFunc("GET /v1/reports/{id}", rt.getReport)
	mux.HandleFunc("GET /v1/reports/{id}/failures", rt.listFailures)
	mux.HandleFunc("GET /v1/reports/{id}/export", rt.exportReport)
	mux.HandleFunc("GET /v1/reports/{id}/download", rt.downloadReport)
	mux.HandleFunc("POST /v1/reports/compare", rt.compareReports)
	mux.HandleFunc("DELETE /v1/reports/{id}", rt.deleteReport)
	mux.HandleFunc("GET /v1/analyzer/status", rt.analyzerStatus)

	var handler http.Handler = mux
	handler = backpressureMiddleware(handler, rt.cfg.APIMaxConcurrent, 0)
	handler = rateLimitMiddleware(handler, rt.cfg.APIRateLimitRPS, rt.cfg.APIRateLimitBurst)
	handler = accessLogMiddleware(handler)
	handler = requestIDMiddleware(handler)
	return handler
}

func (rt *Router) healthz(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (rt *Router) uploadReport(w http.ResponseWriter, r *http.Request) {
	if rt.cfg.MaxUploadBytes > 0 {
		r.Body = http.MaxBytesReader(w, r.Body, rt.cfg.MaxUploadBytes)
	}

	file, fileHeader, err := r.FormFile("file")
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "multipart field 'file' is required"})
		return
	}
	defer file.Close()

	if !strings.EqualFold(filepath.Ext(fileHeader.Filename), ".pdf") {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "only PDF files are accepted"})
		return
	}

	report, err := rt.ingestor.Upload(r.Context(), fileHeader.Filename, file)
	if err != nil {
		writeError(w, err)
		return
	}

	if rt.metrics != nil {
		rt.metrics.RecordReportUploaded("api")
	}
	writeJSON(w, http.StatusAccepted, report)
}

func (rt *Router) listReports(w http.ResponseWriter, r *http.Request) {
	reports, err := rt.reader.List(r.Context(), r.URL.Query().Get("sortBy"), r.URL.Query().Get("order"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"reports": reports})
}

func (rt *Router) getReport(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")

	report, err := rt.reader.GetByID(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}
	results, err := rt.reader.ListResults(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"report":  report,
		"results": results,
	})
}

func (rt *Router) listFailures(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")

	// A 404 for an unknown report instead of an empty failure list.
	if _, err := rt.reader.GetByID(r.Context(), id); err != nil {
		writeError(w, err)
		return
	}
	failures, err := rt.reader.ListFailures(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"report_id": id,
		"failures":  failures,
	})
}

func (rt *Router) exportReport(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")

	report, err := rt.reader.GetByID(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}
	results, err := rt.reader.ListResults(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}

	data, err := rt.exporter.ExportXLSX(r.Context(), report, results)
	if err != nil {
		writeError(w, err)
		return
	}

	if rt.metrics != nil {
		rt.metrics.RecordExport("api")
	}

	base := strings.TrimSuffix(report.Filename, filepath.Ext(report.Filename))
	w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	w.Header().Set("Content-Disposition", `attachment; filename="`+base+`.xlsx"`)
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(data)
}

func (rt *Router) downloadReport(w http.ResponseWriter, r *http.Request) {
	report, file, err := rt.downloader.Download(r.Context(), r.PathValue("id"))
	if err != nil {
		writeError(w, err)
		return
	}
	defer file.Close()

	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", `inline; filename="`+report.Filename+`"`)
	w.WriteHeader(http.StatusOK)
	_, _ = io.Copy(w, file)
}

func (rt *Router) compareReports(w http.ResponseWriter, r *http.Request) {
	var payload struct {
		ReportIDs []string `json:"report_ids"`
	}
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "request body must be JSON with a report_ids list"})
		return
	}
	if len(payload.ReportIDs) != 2 {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "exactly two report ids are required"})
		return
	}

	comparison, err := rt.comparer.Compare(r.Context(), payload.ReportIDs[0], payload.ReportIDs[1])
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, comparison)
}

func (rt *Router) deleteReport(w http.ResponseWriter, r *http.Request) {
	if err := rt.deleter.Delete(r.Context(), r.PathValue("id")); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (rt *Router) analyzerStatus(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, rt.analyzer.Status())
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func writeError(w http.ResponseWriter, err error) {
	writeJSON(w, mapErrorToHTTPStatus(err), map[string]string{"error": err.Error()})
}
