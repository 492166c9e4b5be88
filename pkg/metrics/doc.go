// Package metrics provides Prometheus instrumentation for renderflow components.
//
// The metrics package provides automatic instrumentation for:
//   - Scheduling (tasks scheduled, fired, cancelled, failed, fire latency)
//   - Checkpoint providers (registrations, opportunities, callback errors)
//   - Deferred streaming (items re-emitted, routed errors)
//
// # Quick Start
//
// Enable metrics by using the metrics-enabled constructors:
//
//	// Scheduler with metrics
//	sched := checkpoint.NewWithMetrics(cfg, "render_scheduler")
//
// Then expose metrics via HTTP:
//
//	http.Handle("/metrics", promhttp.Handler())
//	log.Fatal(http.ListenAndServe(":8080", nil))
//
// # Custom Registry
//
// Use a custom Prometheus registry for isolation:
//
//	registry := prometheus.NewRegistry()
//	config := metrics.Config{
//		Enabled:  true,
//		Registry: registry,
//	}
//
//	sched := checkpoint.NewWithConfigAndMetrics(cfg, "render_scheduler", config)
//
// # Available Metrics
//
// ## Scheduler Metrics
//
//   - renderflow_scheduler_tasks_scheduled_total: Tasks accepted by Schedule
//   - renderflow_scheduler_tasks_fired_total: Tasks whose work function ran
//   - renderflow_scheduler_tasks_failed_total: Tasks whose work returned an error
//   - renderflow_scheduler_tasks_cancelled_total: Tasks cancelled before firing
//   - renderflow_scheduler_task_fire_latency_seconds: Schedule-to-fire latency
//   - renderflow_scheduler_task_work_duration_seconds: Time inside the work function
//
// ## Checkpoint Provider Metrics
//
//   - renderflow_checkpoint_registrations_total: One-shot callback registrations
//   - renderflow_checkpoint_callbacks_fired_total: One-shot callbacks fired
//   - renderflow_checkpoint_callback_errors_total: Callback errors surfaced by opportunities
//   - renderflow_checkpoint_pending_registrations: Registrations awaiting the next opportunity
//
// ## Deferred Streaming Metrics
//
//   - renderflow_deferred_items_total: Items re-emitted on checkpoint opportunities
//   - renderflow_deferred_errors_total: Errors routed to deferred error channels
//
// # Labels
//
//   - scheduler_name: User-provided name for the scheduler instance
//   - provider_name: User-provided name for the checkpoint provider instance
//   - operator: Deferred operator name (e.g. "emit", "map")
//
// # Performance
//
// Metrics collection is designed for minimal overhead:
//   - Metrics are updated only when operations occur
//   - No background goroutines or timers
//   - Conditional metrics updates based on enabled state
package metrics
