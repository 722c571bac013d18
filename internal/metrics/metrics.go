package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	globalMetrics *Metrics
	metricsOnce   sync.Once
)

// Metrics holds the Prometheus collectors of the resource navigator.
type Metrics struct {
	// Dataset pipeline
	DatasetLoadsTotal   *prometheus.CounterVec
	FetchFailuresTotal  *prometheus.CounterVec
	SkippedBlocks       *prometheus.GaugeVec
	DatasetRecords      *prometheus.GaugeVec
	DatasetLoadDuration *prometheus.HistogramVec

	// Conversation
	TurnsTotal        *prometheus.CounterVec
	CorrectionPrompts *prometheus.CounterVec
	ActiveSessions    prometheus.Gauge
}

// NewMetrics registers the collectors once per process. All names are
// prefixed with "resources_".
//
//   - resources_dataset_loads_total{category,source}
//   - resources_fetch_failures_total{category}
//   - resources_skipped_blocks{category}
//   - resources_dataset_records{category}
//   - resources_dataset_load_duration_seconds{category}
//   - resources_turns_total{category,kind}
//   - resources_correction_prompts_total{category}
//   - resources_active_sessions
func NewMetrics() *Metrics {
	metricsOnce.Do(func() {
		globalMetrics = &Metrics{
			DatasetLoadsTotal: promauto.NewCounterVec(
				prometheus.CounterOpts{
					Name: "resources_dataset_loads_total",
					Help: "Datasets built, by category and where the text came from",
				},
				[]string{"category", "source"}, // remote, cache, local-fallback, stale-cache
			),

			FetchFailuresTotal: promauto.NewCounterVec(
				prometheus.CounterOpts{
					Name: "resources_fetch_failures_total",
					Help: "Loads that found no remote, cached or local copy",
				},
				[]string{"category"},
			),

			SkippedBlocks: promauto.NewGaugeVec(
				prometheus.GaugeOpts{
					Name: "resources_skipped_blocks",
					Help: "Entry blocks skipped by the last parse for lack of a name",
				},
				[]string{"category"},
			),

			DatasetRecords: promauto.NewGaugeVec(
				prometheus.GaugeOpts{
					Name: "resources_dataset_records",
					Help: "Records in the current dataset",
				},
				[]string{"category"},
			),

			DatasetLoadDuration: promauto.NewHistogramVec(
				prometheus.HistogramOpts{
					Name:    "resources_dataset_load_duration_seconds",
					Help:    "Time to fetch and parse a dataset",
					Buckets: prometheus.ExponentialBuckets(0.001, 2, 15), // 1ms to ~16s
				},
				[]string{"category"},
			),

			TurnsTotal: promauto.NewCounterVec(
				prometheus.CounterOpts{
					Name: "resources_turns_total",
					Help: "Conversation turns by reply kind",
				},
				[]string{"category", "kind"},
			),

			CorrectionPrompts: promauto.NewCounterVec(
				prometheus.CounterOpts{
					Name: "resources_correction_prompts_total",
					Help: "Spelling suggestions offered",
				},
				[]string{"category"},
			),

			ActiveSessions: promauto.NewGauge(
				prometheus.GaugeOpts{
					Name: "resources_active_sessions",
					Help: "Sessions currently held in memory",
				},
			),
		}
	})
	return globalMetrics
}
