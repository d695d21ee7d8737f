package prometheus

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var registry = prometheus.NewRegistry()

var (
	// Latency buckets in milliseconds; the pipeline is CPU-bound except
	// for the remote scorer, so the tail is short.
	latencyBuckets = []float64{
		0.5, 1, 2.5,
		5, 10, 25,
		50, 100, 250,
		500, 1000, 5000,
	}

	DecisionTotal = promauto.With(registry).NewCounterVec(
		prometheus.CounterOpts{
			Name: "promptwall_decisions_total",
			Help: "Total number of firewall decisions by action",
		},
		[]string{"action"},
	)

	DecisionLatency = promauto.With(registry).NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "promptwall_decision_latency_ms",
			Help:    "End-to-end check latency in milliseconds",
			Buckets: latencyBuckets,
		},
		[]string{"action"},
	)

	ThreatsDetected = promauto.With(registry).NewCounterVec(
		prometheus.CounterOpts{
			Name: "promptwall_threats_detected_total",
			Help: "Detections at high or critical severity",
		},
		[]string{"severity"},
	)

	PolicyLoadFailures = promauto.With(registry).NewCounter(
		prometheus.CounterOpts{
			Name: "promptwall_policy_load_failures_total",
			Help: "Rejected policy document loads",
		},
	)

	LedgerWriteFailures = promauto.With(registry).NewCounter(
		prometheus.CounterOpts{
			Name: "promptwall_ledger_write_failures_total",
			Help: "Best-effort audit appends that failed",
		},
	)
)

// Handler exposes the metrics registry for the metrics endpoint.
func Handler() http.Handler {
	return promhttp.HandlerFor(registry, promhttp.HandlerOpts{})
}
