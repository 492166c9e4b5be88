/*
Package deferred provides channel operators that re-time a stream against
checkpoint opportunities.

Instead of passing values downstream the moment they arrive, each value is
handed to a checkpoint scheduler and delivered when the provider next
fires. A render loop, frame ticker, or any other external pacing signal
thereby controls when a pipeline's effects become visible:

	provider := checkpoint.NewTickerWithConfig(checkpoint.TickerConfig{
		Interval: 16 * time.Millisecond,
	})
	_ = provider.Start()
	defer func() { <-provider.Stop() }()

	scheduler := checkpoint.New(checkpoint.Config{Provider: provider})

	updates := make(chan Update)
	for u := range deferred.Emit(ctx, scheduler, updates) {
		apply(u)
	}

Emit preserves input order. MapDeferred additionally transforms values and
routes transform failures to a dedicated error channel, keeping the output
channel clean. Cancelling the context tears the stream down: values still
waiting for an opportunity are cancelled and both channels close.
*/
package deferred
