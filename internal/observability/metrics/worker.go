package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type WorkerMetrics struct {
	registry *prometheus.Registry

	processTotal    *prometheus.CounterVec
	processDuration *prometheus.HistogramVec
	processInFlight prometheus.Gauge
	queueLag        *prometheus.HistogramVec
	recognizedTests *prometheus.HistogramVec
	testOutcomes    *prometheus.CounterVec
}

func NewWorkerMetrics(service string) *WorkerMetrics {
	registry := prometheus.NewRegistry()

	processTotal := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "tra",
			Subsystem: "worker",
			Name:      "report_process_total",
			Help:      "Total processed reports by status.",
		},
		[]string{"service", "status"},
	)
	processDuration := prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "tra",
			Subsystem: "worker",
			Name:      "report_process_duration_seconds",
			Help:      "Report processing duration in seconds by status.",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"service", "status"},
	)
	processInFlight := prometheus.NewGauge(
		prometheus.GaugeOpts{
			Namespace: "tra",
			Subsystem: "worker",
			Name:      "report_process_in_flight",
			Help:      "Number of in-flight report processing tasks.",
			ConstLabels: prometheus.Labels{
				"service": service,
			},
		},
	)
	queueLag := prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "tra",
			Subsystem: "worker",
			Name:      "queue_lag_seconds",
			Help:      "Delay between report upload and processing start.",
			Buckets:   []float64{0.1, 0.5, 1, 2, 5, 10, 30, 60, 120, 300, 600},
		},
		[]string{"service"},
	)
	recognizedTests := prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "tra",
			Subsystem: "worker",
			Name:      "recognized_tests",
			Help:      "Distribution of recognized test entries per report.",
			Buckets:   []float64{0, 1, 2, 5, 10, 20, 50, 100, 200, 500},
		},
		[]string{"service"},
	)
	testOutcomes := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "tra",
			Subsystem: "worker",
			Name:      "test_outcomes_total",
			Help:      "Total parsed test entries by outcome.",
		},
		[]string{"service", "outcome"},
	)

	registry.MustRegister(processTotal, processDuration, processInFlight, queueLag, recognizedTests, testOutcomes)

	return &WorkerMetrics{
		registry:        registry,
		processTotal:    processTotal,
		processDuration: processDuration,
		processInFlight: processInFlight,
		queueLag:        queueLag,
		recognizedTests: recognizedTests,
		testOutcomes:    testOutcomes,
	}
}

func (m *WorkerMetrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

func (m *WorkerMetrics) StartReport() {
	m.processInFlight.Inc()
}

func (m *WorkerMetrics) FinishReport(service string, duration time.Duration, err error) {
	m.processInFlight.Dec()

	status := "success"
	if err != nil {
		status = "error"
	}

	m.processTotal.WithLabelValues(service, status).Inc()
	m.processDuration.WithLabelValues(service, status).Observe(duration.Seconds())
}

func (m *WorkerMetrics) ObserveQueueLag(service string, lag time.Duration) {
	if lag < 0 {
		return
	}
	m.queueLag.WithLabelValues(service).Observe(lag.Seconds())
}

func (m *WorkerMetrics) ObserveParsedReport(service string, passed, failed int) {
	m.recognizedTests.WithLabelValues(service).Observe(float64(passed + failed))
	if passed > 0 {
		m.testOutcomes.WithLabelValues(service, "pass").Add(float64(passed))
	}
	if failed > 0 {
		m.testOutcomes.WithLabelValues(service, "fail").Add(float64(failed))
	}
}
