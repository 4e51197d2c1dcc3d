package metrics

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type HTTPServerMetrics struct {
	registry *prometheus.Registry

	requestTotal    *prometheus.CounterVec
	requestDuration *prometheus.HistogramVec
	requestInFlight prometheus.Gauge

	reportsUploadedTotal *prometheus.CounterVec
	exportsTotal         *prometheus.CounterVec
}

func NewHTTPServerMetrics(service string) *HTTPServerMetrics {
	registry := prometheus.NewRegistry()

	requestTotal := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "tra",
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "Total HTTP requests processed.",
		},
		[]string{"service", "method", "path", "status"},
	)
	requestDuration := prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "tra",
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "HTTP request duration in seconds.",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"service", "method", "path"},
	)
	requestInFlight := prometheus.NewGauge(
		prometheus.GaugeOpts{
			Namespace: "tra",
			Subsystem: "http",
			Name:      "in_flight_requests",
			Help:      "Number of in-flight HTTP requests.",
			ConstLabels: prometheus.Labels{
				"service": service,
			},
		},
	)
	reportsUploadedTotal := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "tra",
			Subsystem: "reports",
			Name:      "uploaded_total",
			Help:      "Total accepted report uploads.",
		},
		[]string{"service"},
	)
	exportsTotal := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "tra",
			Subsystem: "reports",
			Name:      "exports_total",
			Help:      "Total generated XLSX exports.",
		},
		[]string{"service"},
	)

	registry.MustRegister(
		requestTotal,
		requestDuration,
		requestInFlight,
		reportsUploadedTotal,
		exportsTotal,
	)

	return &HTTPServerMetrics{
		registry:             registry,
		requestTotal:         requestTotal,
		requestDuration:      requestDuration,
		requestInFlight:      requestInFlight,
		reportsUploadedTotal: reportsUploadedTotal,
		exportsTotal:         exportsTotal,
	}
}

func (m *HTTPServerMetrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

func (m *HTTPServerMetrics) Middleware(service string, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		path := normalizePath(r.URL.Path)
		recorder := &statusRecorder{
			ResponseWriter: w,
			statusCode:     http.StatusOK,
		}

		m.requestInFlight.Inc()
		defer m.requestInFlight.Dec()

		next.ServeHTTP(recorder, r)

		m.requestTotal.WithLabelValues(
			service,
			r.Method,
			path,
			strconv.Itoa(recorder.statusCode),
		).Inc()
		m.requestDuration.WithLabelValues(service, r.Method, path).Observe(time.Since(start).Seconds())
	})
}

// normalizePath collapses report ids so the path label stays low
// cardinality.
func normalizePath(path string) string {
	switch {
	case path == "/v1/reports/compare":
		return path
	case strings.HasPrefix(path, "/v1/reports/"):
		rest := strings.TrimPrefix(path, "/v1/reports/")
		if idx := strings.IndexByte(rest, '/'); idx >= 0 {
			return "/v1/reports/{id}/" + rest[idx+1:]
		}
		return "/v1/reports/{id}"
	default:
		return path
	}
}

func (m *HTTPServerMetrics) RecordReportUploaded(service string) {
	m.reportsUploadedTotal.WithLabelValues(service).Inc()
}

func (m *HTTPServerMetrics) RecordExport(service string) {
	m.exportsTotal.WithLabelValues(service).Inc()
}

type statusRecorder struct {
	http.ResponseWriter
	statusCode int
}

func (w *statusRecorder) WriteHeader(statusCode int) {
	w.statusCode = statusCode
	w.ResponseWriter.WriteHeader(statusCode)
}
