// Package scheduling provides task scheduling primitives for Go applications.
//
// This package offers components for deferring work to externally-driven
// checkpoint opportunities:
//
//   - checkpoint: the core scheduler, task handles, and in-process providers
//   - signal: cron- and redis-driven checkpoint providers
//
// Checkpoint Scheduler:
//
// The scheduler parks zero-delay work until the next checkpoint opportunity
// fires, and routes non-zero delays through a timer first:
//
//	provider := checkpoint.NewManualProvider()
//	sched := checkpoint.New(checkpoint.Config{Provider: provider})
//
//	handle := sched.Schedule(work, 0, state)
//	_ = provider.Fire() // work(state) runs here
//
//	handle.Cancel() // idempotent; a fired or cancelled task never runs again
//
// External Signals:
//
// Providers turn external events into opportunities:
//
//	ticker := checkpoint.NewTickerWithConfig(checkpoint.TickerConfig{
//		Interval: 16 * time.Millisecond,
//	})
//	_ = ticker.Start()
//	defer func() { <-ticker.Stop() }()
//
//	cronned, _ := signal.NewCron(signal.CronConfig{Expression: "*/5 * * * * *"})
//
// All scheduling components are safe for concurrent use; callbacks for one
// opportunity fire sequentially, in registration order.
package scheduling
