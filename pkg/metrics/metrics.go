package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Registry holds all metric instances for railyard components.
type Registry struct {
	// Runner Metrics
	RunsStarted    *prometheus.CounterVec
	RunsCompleted  *prometheus.CounterVec
	RunsFailed     *prometheus.CounterVec
	RunDuration    *prometheus.HistogramVec
	ItemsProcessed *prometheus.CounterVec
	ItemDuration   *prometheus.HistogramVec
	ContextsUsed   *prometheus.GaugeVec

	// Pool Metrics
	PoolCapacity *prometheus.GaugeVec
}

// DefaultRegistry is the default metrics registry used by railyard components.
var DefaultRegistry *Registry

func init() {
	DefaultRegistry = NewRegistry(prometheus.DefaultRegisterer)
}

// NewRegistry creates a new metrics registry with the given Prometheus registerer.
func NewRegistry(reg prometheus.Registerer) *Registry {
	factory := promauto.With(reg)

	return &Registry{
		RunsStarted: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "railyard",
				Subsystem: "runner",
				Name:      "runs_started_total",
				Help:      "Total number of pipeline runs started",
			},
			[]string{"runner_name", "strategy"},
		),

		RunsCompleted: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "railyard",
				Subsystem: "runner",
				Name:      "runs_completed_total",
				Help:      "Total number of pipeline runs completed successfully",
			},
			[]string{"runner_name", "strategy"},
		),

		RunsFailed: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "railyard",
				Subsystem: "runner",
				Name:      "runs_failed_total",
				Help:      "Total number of pipeline runs that failed",
			},
			[]string{"runner_name", "strategy"},
		),

		RunDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: "railyard",
				Subsystem: "runner",
				Name:      "run_duration_seconds",
				Help:      "Wall-clock duration of pipeline runs",
				Buckets:   prometheus.DefBuckets,
			},
			[]string{"runner_name", "strategy"},
		),

		ItemsProcessed: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "railyard",
				Subsystem: "runner",
				Name:      "items_processed_total",
				Help:      "Total number of work items processed",
			},
			[]string{"runner_name", "strategy"},
		),

		ItemDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: "railyard",
				Subsystem: "runner",
				Name:      "item_duration_seconds",
				Help:      "Time spent transforming individual work items",
				Buckets:   prometheus.DefBuckets,
			},
			[]string{"runner_name", "strategy"},
		),

		ContextsUsed: factory.NewGaugeVec(
			prometheus.GaugeOpts{
				Namespace: "railyard",
				Subsystem: "runner",
				Name:      "contexts_used",
				Help:      "Distinct execution contexts used by the most recent run",
			},
			[]string{"runner_name", "strategy"},
		),

		PoolCapacity: factory.NewGaugeVec(
			prometheus.GaugeOpts{
				Namespace: "railyard",
				Subsystem: "railpool",
				Name:      "capacity",
				Help:      "Configured execution context pool capacity",
			},
			[]string{"runner_name"},
		),
	}
}
