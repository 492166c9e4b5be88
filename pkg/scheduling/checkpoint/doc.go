/*
Package checkpoint provides a scheduler that defers zero-delay work to an
external one-shot "checkpoint opportunity" signal instead of a timer or an
inline call.

Stream-processing pipelines use it to run deferred side effects only once a
single externally-driven checkpoint fires (a render pass, a frame tick, a
flush cycle), while still supporting classic delay-based scheduling for
non-zero delays.

Scheduling:

	provider := checkpoint.NewManualProvider()
	sched := checkpoint.New(checkpoint.Config{Provider: provider})

	handle := sched.Schedule(func(state any) error {
		fmt.Println("deferred:", state)
		return nil
	}, 0, "payload")

	// Nothing has run yet; work is parked until the next opportunity.
	_ = provider.Fire() // prints "deferred: payload"
	_ = handle.Closed() // true

A non-zero delay waits on a timer first and then falls through to the
checkpoint path, so delayed work still lands on an opportunity boundary:

	sched.Schedule(work, 50*time.Millisecond, state)

Cancellation is idempotent and absorbing. It clears an armed timer but
cannot retract a provider registration; the pending callback simply finds a
closed task and does nothing:

	handle := sched.Schedule(work, 0, nil)
	handle.Cancel()
	_ = provider.Fire() // work never runs

Providers:

ManualProvider suits hosts that own their own frame or flush cycle and
tests. TickerProvider fires opportunities on a fixed interval. The signal
package contributes cron- and redis-driven providers. A provider can also
travel implicitly through a context:

	ctx := checkpoint.WithAmbientProvider(ctx, provider)
	sched, err := checkpoint.NewSafe(checkpoint.Config{Context: ctx})

Construction fails with ErrNoProvider when neither an explicit provider nor
an ambient one is available.

Work errors close the task and propagate to whoever drove the firing call
(ManualProvider.Fire returns them joined; TickerProvider hands them to its
OnError hook). They are never retried and never swallowed internally, and a
failing task does not stop sibling tasks registered for the same
opportunity.
*/
package checkpoint
