package checkpoint

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/wassim-k/renderflow/pkg/metrics"
)

// MetricsScheduler wraps a Scheduler with Prometheus metrics collection.
type MetricsScheduler struct {
	scheduler Scheduler
	name      string
	registry  *metrics.Registry
	enabled   bool
}

// NewWithMetrics creates a scheduler with metrics enabled.
func NewWithMetrics(cfg Config, name string) Scheduler {
	// Use a separate registry for each metrics-enabled component to avoid conflicts
	registry := prometheus.NewRegistry()
	metricsConfig := metrics.Config{
		Enabled:  true,
		Registry: registry,
	}

	return NewWithConfigAndMetrics(cfg, name, metricsConfig)
}

// NewWithConfigAndMetrics creates a scheduler with custom config and metrics.
func NewWithConfigAndMetrics(cfg Config, name string, metricsConfig metrics.Config) Scheduler {
	base := New(cfg)

	if !metricsConfig.Enabled {
		return base
	}

	registry := metrics.DefaultRegistry
	if metricsConfig.Registry != nil {
		registry = metrics.NewRegistry(metricsConfig.Registry)
	}

	return &MetricsScheduler{
		scheduler: base,
		name:      name,
		registry:  registry,
		enabled:   true,
	}
}

// Now returns the wrapped scheduler's current time.
func (ms *MetricsScheduler) Now() time.Time {
	return ms.scheduler.Now()
}

// Schedule registers work on the wrapped scheduler and records scheduling,
// fire latency, work duration, and outcome metrics.
func (ms *MetricsScheduler) Schedule(work Work, delay time.Duration, state any) Handle {
	if !ms.enabled {
		return ms.scheduler.Schedule(work, delay, state)
	}

	ms.registry.TasksScheduled.WithLabelValues(ms.name).Inc()
	scheduledAt := ms.scheduler.Now()

	wrapped := func(state any) error {
		ms.registry.TaskFireLatency.WithLabelValues(ms.name).
			Observe(ms.scheduler.Now().Sub(scheduledAt).Seconds())
		ms.registry.TasksFired.WithLabelValues(ms.name).Inc()

		start := time.Now()
		err := work(state)
		ms.registry.TaskWorkDuration.WithLabelValues(ms.name).
			Observe(time.Since(start).Seconds())

		if err != nil {
			ms.registry.TasksFailed.WithLabelValues(ms.name).Inc()
		}
		return err
	}

	return &metricsHandle{
		Handle:   ms.scheduler.Schedule(wrapped, delay, state),
		registry: ms.registry,
		name:     ms.name,
	}
}

// EnableMetrics enables metrics collection for this scheduler.
func (ms *MetricsScheduler) EnableMetrics(config metrics.Config) error {
	if config.Registry != nil {
		ms.registry = metrics.NewRegistry(config.Registry)
	}
	ms.enabled = config.Enabled
	return nil
}

// DisableMetrics disables metrics collection for this scheduler.
func (ms *MetricsScheduler) DisableMetrics() {
	ms.enabled = false
}

// MetricsEnabled returns true if metrics are currently enabled.
func (ms *MetricsScheduler) MetricsEnabled() bool {
	return ms.enabled
}

// metricsHandle counts the first effective cancellation of a task.
type metricsHandle struct {
	Handle
	registry *metrics.Registry
	name     string
}

func (h *metricsHandle) Cancel() {
	if !h.Closed() {
		h.registry.TasksCancelled.WithLabelValues(h.name).Inc()
	}
	h.Handle.Cancel()
}

// MetricsProvider wraps a Provider with registration metrics.
type MetricsProvider struct {
	provider Provider
	name     string
	registry *metrics.Registry
}

// NewMetricsProvider wraps p with registration, pending, and callback-error
// metrics recorded against the given provider name.
func NewMetricsProvider(p Provider, name string, metricsConfig metrics.Config) Provider {
	if !metricsConfig.Enabled {
		return p
	}

	registry := metrics.DefaultRegistry
	if metricsConfig.Registry != nil {
		registry = metrics.NewRegistry(metricsConfig.Registry)
	}

	return &MetricsProvider{
		provider: p,
		name:     name,
		registry: registry,
	}
}

// RegisterOnce forwards to the wrapped provider, tracking the registration
// and the eventual firing of its callback.
func (mp *MetricsProvider) RegisterOnce(fn Callback) {
	mp.registry.CheckpointRegistrations.WithLabelValues(mp.name).Inc()
	mp.registry.CheckpointPending.WithLabelValues(mp.name).Inc()

	mp.provider.RegisterOnce(func() error {
		mp.registry.CheckpointPending.WithLabelValues(mp.name).Dec()
		mp.registry.CheckpointFirings.WithLabelValues(mp.name).Inc()

		err := fn()
		if err != nil {
			mp.registry.CheckpointErrors.WithLabelValues(mp.name).Inc()
		}
		return err
	})
}
