package observability

import (
	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "gsod_weather"

// Metrics holds the Prometheus collectors for tool calls and dataset access.
type Metrics struct {
	// Tool metrics.
	ToolCalls    *prometheus.CounterVec   // labels: tool, outcome={found,not_found,invalid,error}
	ToolDuration *prometheus.HistogramVec // labels: tool

	// Dataset metrics.
	DatasetQueries       *prometheus.CounterVec   // labels: statement, status={ok,error}
	DatasetQueryDuration *prometheus.HistogramVec // labels: statement
	DatasetRows          *prometheus.HistogramVec // labels: statement
	DatasetRetries       *prometheus.CounterVec   // labels: statement
	BreakerState         prometheus.Gauge
	DatasetReady         prometheus.Gauge

	// Geocoding metrics.
	GeocodeRequests *prometheus.CounterVec // labels: outcome={success,error}
}

// NewMetrics creates and registers all metrics with the default Prometheus registry.
func NewMetrics() *Metrics {
	m := newMetrics()
	prometheus.MustRegister(
		m.ToolCalls,
		m.ToolDuration,
		m.DatasetQueries,
		m.DatasetQueryDuration,
		m.DatasetRows,
		m.DatasetRetries,
		m.BreakerState,
		m.DatasetReady,
		m.GeocodeRequests,
	)
	return m
}

// NewMetricsForTesting creates unregistered Metrics so tests can build as many
// as they like without "already registered" panics.
func NewMetricsForTesting() *Metrics {
	return newMetrics()
}

func newMetrics() *Metrics {
	return &Metrics{
		ToolCalls: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "tool_calls_total",
			Help:      "Tool invocations by tool and outcome.",
		}, []string{"tool", "outcome"}),
		ToolDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "tool_duration_seconds",
			Help:      "End-to-end tool invocation duration.",
			Buckets:   []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30},
		}, []string{"tool"}),
		DatasetQueries: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "dataset_queries_total",
			Help:      "Dataset statements executed by statement name and status.",
		}, []string{"statement", "status"}),
		DatasetQueryDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "dataset_query_duration_seconds",
			Help:      "Dataset statement latency including retries.",
			Buckets:   []float64{0.01, 0.05, 0.1, 0.5, 1, 2.5, 5, 10, 30},
		}, []string{"statement"}),
		DatasetRows: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "dataset_rows",
			Help:      "Rows returned per dataset statement.",
			Buckets:   []float64{0, 1, 10, 31, 100, 366, 1000, 3660},
		}, []string{"statement"}),
		DatasetRetries: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "dataset_retries_total",
			Help:      "Retried dataset attempts after a transient failure.",
		}, []string{"statement"}),
		BreakerState: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "dataset_breaker_state",
			Help:      "Dataset circuit breaker state: 0 closed, 1 half-open, 2 open.",
		}),
		DatasetReady: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "dataset_ready",
			Help:      "1 when the last dataset probe succeeded, 0 otherwise.",
		}),
		GeocodeRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "geocode_requests_total",
			Help:      "Geocoding lookups by outcome.",
		}, []string{"outcome"}),
	}
}
