package observability

import (
	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "timeturner"

// Outcome label values for SyncRuns.
const (
	OutcomeSuccess = "success"
	OutcomeError   = "error"
)

// Metrics holds the Prometheus counters, histograms, and gauges for the sync
// worker and the HTTP API.
type Metrics struct {
	SyncRuns     *prometheus.CounterVec // labels: outcome={success,error}
	SyncDuration prometheus.Histogram
	Profiles     prometheus.Gauge
	CalendarSize prometheus.Gauge

	APIRequests *prometheus.CounterVec // labels: route, code
}

func newMetrics() *Metrics {
	return &Metrics{
		SyncRuns: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "sync_runs_total",
			Help:      "Calendar synchronizations by outcome.",
		}, []string{"outcome"}),
		SyncDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "sync_duration_seconds",
			Help:      "Duration of a complete collect-and-render cycle.",
			Buckets:   []float64{0.01, 0.05, 0.1, 0.5, 1, 2.5, 5, 10, 30},
		}),
		Profiles: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "profiles",
			Help:      "Birth profiles loaded by the last successful sync.",
		}),
		CalendarSize: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "calendar_size_bytes",
			Help:      "Size of the cached iCalendar feed.",
		}),
		APIRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "api_requests_total",
			Help:      "HTTP requests by route and status code.",
		}, []string{"route", "code"}),
	}
}

// NewMetrics creates and registers all metrics with the default Prometheus registry.
func NewMetrics() *Metrics {
	m := newMetrics()
	prometheus.MustRegister(
		m.SyncRuns,
		m.SyncDuration,
		m.Profiles,
		m.CalendarSize,
		m.APIRequests,
	)
	return m
}

// NewMetricsForTesting creates unregistered Metrics to avoid
// "already registered" panics when called from multiple tests.
func NewMetricsForTesting() *Metrics {
	return newMetrics()
}
