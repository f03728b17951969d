// Package metrics exposes Prometheus metrics for the governance engine.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"meridian-hq/minos/pkg/trace"
)

// GovernanceMetrics tracks compliance cycle outcomes and provider latency.
//
// Metrics:
//   - minos_cycles_total: completed cycles by terminal status
//   - minos_cycle_duration_seconds: wall-clock duration of a cycle
//   - minos_evaluation_rounds: evaluation rounds per cycle
//   - minos_sentinel_blocks_total: red-line blocks by law id
//   - minos_provider_call_duration_seconds: capability call latency by operation
//   - minos_provider_errors_total: capability failures by operation
//   - minos_law_snapshot_size: laws in the active snapshot
type GovernanceMetrics struct {
	cyclesTotal          *prometheus.CounterVec
	cycleDuration        prometheus.Histogram
	evaluationRounds     prometheus.Histogram
	sentinelBlocksTotal  *prometheus.CounterVec
	providerCallDuration *prometheus.HistogramVec
	providerErrorsTotal  *prometheus.CounterVec
	lawSnapshotSize      prometheus.Gauge
}

// New creates and registers the governance metrics with the given registry.
func New(registry *prometheus.Registry) *GovernanceMetrics {
	m := &GovernanceMetrics{
		cyclesTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "minos",
				Name:      "cycles_total",
				Help:      "Total number of completed compliance cycles",
			},
			[]string{"status"},
		),

		cycleDuration: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Namespace: "minos",
				Name:      "cycle_duration_seconds",
				Help:      "Wall-clock duration of a compliance cycle",
				Buckets:   prometheus.ExponentialBuckets(0.001, 4, 10), // 1ms to ~4m
			},
		),

		evaluationRounds: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Namespace: "minos",
				Name:      "evaluation_rounds",
				Help:      "Evaluation rounds executed per cycle",
				Buckets:   prometheus.LinearBuckets(0, 1, 11),
			},
		),

		sentinelBlocksTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "minos",
				Name:      "sentinel_blocks_total",
				Help:      "Red-line blocks by law id",
			},
			[]string{"law_id"},
		),

		providerCallDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: "minos",
				Name:      "provider_call_duration_seconds",
				Help:      "External capability call latency",
				Buckets:   prometheus.ExponentialBuckets(0.01, 2, 14), // 10ms to ~2.7m
			},
			[]string{"operation"},
		),

		providerErrorsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "minos",
				Name:      "provider_errors_total",
				Help:      "External capability failures",
			},
			[]string{"operation"},
		),

		lawSnapshotSize: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Namespace: "minos",
				Name:      "law_snapshot_size",
				Help:      "Laws in the active snapshot",
			},
		),
	}

	registry.MustRegister(
		m.cyclesTotal,
		m.cycleDuration,
		m.evaluationRounds,
		m.sentinelBlocksTotal,
		m.providerCallDuration,
		m.providerErrorsTotal,
		m.lawSnapshotSize,
	)

	return m
}

// ObserveCycle records a completed cycle. Safe on a nil receiver so callers
// can run without metrics wired.
func (m *GovernanceMetrics) ObserveCycle(status trace.Status, rounds int, duration time.Duration) {
	if m == nil {
		return
	}
	m.cyclesTotal.WithLabelValues(string(status)).Inc()
	m.cycleDuration.Observe(duration.Seconds())
	m.evaluationRounds.Observe(float64(rounds))
}

// ObserveSentinelBlock records a red-line block.
func (m *GovernanceMetrics) ObserveSentinelBlock(lawID string) {
	if m == nil {
		return
	}
	m.sentinelBlocksTotal.WithLabelValues(lawID).Inc()
}

// ObserveProviderCall records one capability call.
func (m *GovernanceMetrics) ObserveProviderCall(operation string, duration time.Duration, err error) {
	if m == nil {
		return
	}
	m.providerCallDuration.WithLabelValues(operation).Observe(duration.Seconds())
	if err != nil {
		m.providerErrorsTotal.WithLabelValues(operation).Inc()
	}
}

// SetSnapshotSize records the size of the active law snapshot.
func (m *GovernanceMetrics) SetSnapshotSize(n int) {
	if m == nil {
		return
	}
	m.lawSnapshotSize.Set(float64(n))
}
