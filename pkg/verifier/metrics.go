// Copyright 2025 Certen Protocol

package verifier

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Metrics exposes per-verify Prometheus counters and a latency
// histogram, grouped by attestation kind and outcome.
type Metrics struct {
	duration *prometheus.HistogramVec
	outcomes *prometheus.CounterVec
}

// NewMetrics constructs an unregistered Metrics. Callers register it
// with a prometheus.Registerer of their choosing; the core never
// reaches for the global default registry.
func NewMetrics() *Metrics {
	return &Metrics{
		duration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "ots",
			Subsystem: "verifier",
			Name:      "verify_duration_seconds",
			Help:      "Time spent verifying a single attestation.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"kind"}),
		outcomes: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "ots",
			Subsystem: "verifier",
			Name:      "verify_outcomes_total",
			Help:      "Count of verify outcomes by attestation kind and verdict.",
		}, []string{"kind", "verdict"}),
	}
}

// Collectors returns the metrics registerable with a
// prometheus.Registerer (prometheus.MustRegister(m.Collectors()...)).
func (m *Metrics) Collectors() []prometheus.Collector {
	return []prometheus.Collector{m.duration, m.outcomes}
}

// ObserveVerify records one verify call's latency and outcome.
func (m *Metrics) ObserveVerify(kind string, verdict interface{ String() string }, d time.Duration) {
	m.duration.WithLabelValues(kind).Observe(d.Seconds())
	m.outcomes.WithLabelValues(kind, verdict.String()).Inc()
}
