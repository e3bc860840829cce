package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

// Metrics stores Prometheus collectors used across the service.
type Metrics struct {
	Mutations        *prometheus.CounterVec
	EventsPublished  *prometheus.CounterVec
	SnapshotWrites   *prometheus.CounterVec
	SnapshotDuration prometheus.Histogram
	SnapshotBytes    prometheus.Gauge
	Errors           *prometheus.CounterVec
}

var (
	regOnce         sync.Once
	metricsInstance *Metrics
)

// Registry builds and registers the metrics singleton with optional namespace.
func Registry(namespace string) *Metrics {
	regOnce.Do(func() {
		metricsInstance = &Metrics{
			Mutations: prometheus.NewCounterVec(prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "store_mutations_total",
				Help:      "Total store mutations by entity and operation.",
			}, []string{"entity", "op"}),
			EventsPublished: prometheus.NewCounterVec(prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "events_published_total",
				Help:      "Total change events published by type.",
			}, []string{"type"}),
			SnapshotWrites: prometheus.NewCounterVec(prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "snapshot_writes_total",
				Help:      "Total snapshot write attempts by outcome.",
			}, []string{"status"}),
			SnapshotDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "snapshot_write_duration_seconds",
				Help:      "Latency distribution for full snapshot writes.",
				Buckets:   prometheus.DefBuckets,
			}),
			SnapshotBytes: prometheus.NewGauge(prometheus.GaugeOpts{
				Namespace: namespace,
				Name:      "snapshot_bytes",
				Help:      "Size in bytes of the most recent snapshot.",
			}),
			Errors: prometheus.NewCounterVec(prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "errors_total",
				Help:      "Total errors grouped by component.",
			}, []string{"component"}),
		}

		prometheus.MustRegister(
			metricsInstance.Mutations,
			metricsInstance.EventsPublished,
			metricsInstance.SnapshotWrites,
			metricsInstance.SnapshotDuration,
			metricsInstance.SnapshotBytes,
			metricsInstance.Errors,
		)
	})
	return metricsInstance
}
