package runner

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/vnykmshr/railyard/pkg/common/validation"
	"github.com/vnykmshr/railyard/pkg/engine/observer"
	"github.com/vnykmshr/railyard/pkg/metrics"
)

// NewWithMetrics creates a Runner that records Prometheus metrics under the
// given name, using a dedicated registry to avoid collisions between
// metrics-enabled components.
func NewWithMetrics(config Config, name string) (*Runner, error) {
	registry := prometheus.NewRegistry()
	return NewWithConfigAndMetrics(config, name, metrics.Config{
		Enabled:  true,
		Registry: registry,
	})
}

// NewWithConfigAndMetrics creates a Runner with custom metrics configuration.
func NewWithConfigAndMetrics(config Config, name string, metricsConfig metrics.Config) (*Runner, error) {
	if err := validation.ValidateNotEmpty("runner", "name", name); err != nil {
		return nil, err
	}

	r, err := New(config)
	if err != nil {
		return nil, err
	}
	r.name = name

	if metricsConfig.Enabled {
		if err := r.EnableMetrics(metricsConfig); err != nil {
			r.Close()
			return nil, err
		}
	}
	return r, nil
}

// EnableMetrics enables metrics collection. Implements metrics.Instrumentable.
func (r *Runner) EnableMetrics(config metrics.Config) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	registry := metrics.DefaultRegistry
	if config.Registry != nil {
		registry = metrics.NewRegistry(config.Registry)
	}

	r.registry = registry
	r.metricsEnabled = config.Enabled

	if r.metricsEnabled {
		r.registry.PoolCapacity.WithLabelValues(r.name).Set(float64(r.pool.Capacity()))
	}
	return nil
}

// DisableMetrics disables metrics collection. Implements metrics.Instrumentable.
func (r *Runner) DisableMetrics() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.metricsEnabled = false
}

// MetricsEnabled returns true if metrics are currently enabled.
// Implements metrics.Instrumentable.
func (r *Runner) MetricsEnabled() bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.metricsEnabled
}

// registryIfEnabled returns the registry when collection is active, nil otherwise.
func (r *Runner) registryIfEnabled() *metrics.Registry {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if !r.metricsEnabled {
		return nil
	}
	return r.registry
}

// recordRunStart counts a run start.
func (r *Runner) recordRunStart(strategy Strategy) {
	if reg := r.registryIfEnabled(); reg != nil {
		reg.RunsStarted.WithLabelValues(r.name, string(strategy)).Inc()
	}
}

// recordRunEnd records a run's outcome, duration and context usage.
func (r *Runner) recordRunEnd(strategy Strategy, summary observer.Summary, duration time.Duration, err error) {
	reg := r.registryIfEnabled()
	if reg == nil {
		return
	}

	reg.RunDuration.WithLabelValues(r.name, string(strategy)).Observe(duration.Seconds())
	reg.ContextsUsed.WithLabelValues(r.name, string(strategy)).Set(float64(len(summary.DistinctContexts)))

	if err != nil {
		reg.RunsFailed.WithLabelValues(r.name, string(strategy)).Inc()
	} else {
		reg.RunsCompleted.WithLabelValues(r.name, string(strategy)).Inc()
	}
}

// recordItem records one item execution.
func (r *Runner) recordItem(strategy Strategy, duration time.Duration) {
	if reg := r.registryIfEnabled(); reg != nil {
		reg.ItemsProcessed.WithLabelValues(r.name, string(strategy)).Inc()
		reg.ItemDuration.WithLabelValues(r.name, string(strategy)).Observe(duration.Seconds())
	}
}
