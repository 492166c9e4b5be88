package deferred

import (
	"context"

	"github.com/wassim-k/renderflow/pkg/metrics"
	"github.com/wassim-k/renderflow/pkg/scheduling/checkpoint"
)

// EmitWithMetrics is Emit with Prometheus instrumentation: every delivered
// value increments the deferred items counter under the operator label.
func EmitWithMetrics[T any](ctx context.Context, s checkpoint.Scheduler, in <-chan T, operator string, cfg metrics.Config) <-chan T {
	if !cfg.Enabled {
		return Emit(ctx, s, in)
	}
	registry := resolveRegistry(cfg)

	out := make(chan T)
	run(ctx, s, in, 0, out, nil, func(v T) (T, error) {
		registry.DeferredItems.WithLabelValues(operator).Inc()
		return v, nil
	})
	return out
}

// MapDeferredWithMetrics is MapDeferred with Prometheus instrumentation:
// successful transforms count as items, failed ones as errors.
func MapDeferredWithMetrics[T, U any](ctx context.Context, s checkpoint.Scheduler, in <-chan T, fn func(T) (U, error), operator string, cfg metrics.Config) (<-chan U, <-chan error) {
	if !cfg.Enabled {
		return MapDeferred(ctx, s, in, fn)
	}
	registry := resolveRegistry(cfg)

	out := make(chan U)
	errs := make(chan error)
	run(ctx, s, in, 0, out, errs, func(v T) (U, error) {
		u, err := fn(v)
		if err != nil {
			registry.DeferredErrors.WithLabelValues(operator).Inc()
			return u, err
		}
		registry.DeferredItems.WithLabelValues(operator).Inc()
		return u, nil
	})
	return out, errs
}

func resolveRegistry(cfg metrics.Config) *metrics.Registry {
	if cfg.Registry != nil {
		return metrics.NewRegistry(cfg.Registry)
	}
	return metrics.DefaultRegistry
}
