/*
Package streaming provides channel-based stream processing paced by
external signals.

This package currently provides one component:

  - deferred: operators that re-time a stream against checkpoint
    opportunities, so values become visible only when the driving signal
    (render loop, frame ticker, cron schedule) says so

Basic usage:

	scheduler := checkpoint.New(checkpoint.Config{Provider: provider})

	for v := range deferred.Emit(ctx, scheduler, in) {
		apply(v)
	}

All streaming components preserve input order and support cancellation
through context.Context.
*/
package streaming
