/*
Package renderflow provides a Go library for deferring work to external
checkpoint signals, with timer-based delays, cancellation, and streaming
integration.

Task Scheduling (pkg/scheduling):
  - checkpoint: Defer work to the next checkpoint opportunity
  - signal: Cron- and Redis-driven checkpoint providers

Streaming (pkg/streaming):
  - deferred: Channel operators paced by checkpoint opportunities

Metrics (pkg/metrics):
  - Prometheus instrumentation for schedulers and providers

Example usage:

	import (
		"github.com/wassim-k/renderflow/pkg/scheduling/checkpoint"
	)

	ticker := checkpoint.NewTickerWithConfig(checkpoint.TickerConfig{
		Interval: 16 * time.Millisecond, // ~60 opportunities per second
	})
	_ = ticker.Start()
	defer func() { <-ticker.Stop() }()

	scheduler := checkpoint.New(checkpoint.Config{Provider: ticker})

	handle := scheduler.Schedule(func(state any) error {
		render(state)
		return nil
	}, 0, frame)

	// Changed your mind before the next opportunity?
	handle.Cancel()
*/
package renderflow
