// Package signal provides externally-driven checkpoint providers.
//
// While the checkpoint package ships in-process providers (manual and
// ticker-based), this package sources checkpoint opportunities from outside
// the process:
//
//   - CronProvider fires opportunities on a cron schedule, including
//     second-level granularity ("*/5 * * * * *" fires every five seconds).
//   - RedisProvider fires an opportunity for every message published to a
//     Redis channel, letting one coordinator drive the schedulers of a whole
//     fleet.
//
// Both implement checkpoint.Provider and follow the same Start/Stop lifecycle
// as checkpoint.TickerProvider:
//
//	provider, err := signal.NewCron(signal.CronConfig{
//		Expression: "*/5 * * * * *",
//	})
//	if err != nil {
//		log.Fatal(err)
//	}
//	if err := provider.Start(); err != nil {
//		log.Fatal(err)
//	}
//	defer func() { <-provider.Stop() }()
//
//	scheduler := checkpoint.New(checkpoint.Config{Provider: provider})
//
// Work errors surface through the optional OnError hook; without it they are
// discarded.
package signal
