// Package metrics provides Prometheus instrumentation for renderflow components.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Registry holds all metric instances for renderflow components.
type Registry struct {
	// Scheduler Metrics
	TasksScheduled   *prometheus.CounterVec
	TasksFired       *prometheus.CounterVec
	TasksFailed      *prometheus.CounterVec
	TasksCancelled   *prometheus.CounterVec
	TaskFireLatency  *prometheus.HistogramVec
	TaskWorkDuration *prometheus.HistogramVec

	// Checkpoint Provider Metrics
	CheckpointRegistrations *prometheus.CounterVec
	CheckpointFirings       *prometheus.CounterVec
	CheckpointErrors        *prometheus.CounterVec
	CheckpointPending       *prometheus.GaugeVec

	// Deferred Streaming Metrics
	DeferredItems  *prometheus.CounterVec
	DeferredErrors *prometheus.CounterVec
}

// DefaultRegistry is the default metrics registry used by renderflow components.
var DefaultRegistry *Registry

func init() {
	DefaultRegistry = NewRegistry(prometheus.DefaultRegisterer)
}

// NewRegistry creates a new metrics registry with the given Prometheus registerer.
func NewRegistry(reg prometheus.Registerer) *Registry {
	factory := promauto.With(reg)

	return &Registry{
		// Scheduler Metrics
		TasksScheduled: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "renderflow",
				Subsystem: "scheduler",
				Name:      "tasks_scheduled_total",
				Help:      "Total number of tasks accepted by Schedule",
			},
			[]string{"scheduler_name"},
		),

		TasksFired: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "renderflow",
				Subsystem: "scheduler",
				Name:      "tasks_fired_total",
				Help:      "Total number of tasks whose work function ran",
			},
			[]string{"scheduler_name"},
		),

		TasksFailed: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "renderflow",
				Subsystem: "scheduler",
				Name:      "tasks_failed_total",
				Help:      "Total number of tasks whose work function returned an error",
			},
			[]string{"scheduler_name"},
		),

		TasksCancelled: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "renderflow",
				Subsystem: "scheduler",
				Name:      "tasks_cancelled_total",
				Help:      "Total number of tasks cancelled before firing",
			},
			[]string{"scheduler_name"},
		),

		TaskFireLatency: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: "renderflow",
				Subsystem: "scheduler",
				Name:      "task_fire_latency_seconds",
				Help:      "Time between scheduling a task and its work function running",
				Buckets:   prometheus.DefBuckets,
			},
			[]string{"scheduler_name"},
		),

		TaskWorkDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: "renderflow",
				Subsystem: "scheduler",
				Name:      "task_work_duration_seconds",
				Help:      "Time spent inside the work function",
				Buckets:   prometheus.DefBuckets,
			},
			[]string{"scheduler_name"},
		),

		// Checkpoint Provider Metrics
		CheckpointRegistrations: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "renderflow",
				Subsystem: "checkpoint",
				Name:      "registrations_total",
				Help:      "Total number of one-shot callback registrations",
			},
			[]string{"provider_name"},
		),

		CheckpointFirings: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "renderflow",
				Subsystem: "checkpoint",
				Name:      "callbacks_fired_total",
				Help:      "Total number of one-shot callbacks fired",
			},
			[]string{"provider_name"},
		),

		CheckpointErrors: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "renderflow",
				Subsystem: "checkpoint",
				Name:      "callback_errors_total",
				Help:      "Total number of callback errors surfaced by opportunities",
			},
			[]string{"provider_name"},
		),

		CheckpointPending: factory.NewGaugeVec(
			prometheus.GaugeOpts{
				Namespace: "renderflow",
				Subsystem: "checkpoint",
				Name:      "pending_registrations",
				Help:      "Number of registrations waiting for the next opportunity",
			},
			[]string{"provider_name"},
		),

		// Deferred Streaming Metrics
		DeferredItems: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "renderflow",
				Subsystem: "deferred",
				Name:      "items_total",
				Help:      "Total number of items re-emitted on checkpoint opportunities",
			},
			[]string{"operator"},
		),

		DeferredErrors: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "renderflow",
				Subsystem: "deferred",
				Name:      "errors_total",
				Help:      "Total number of errors routed to deferred error channels",
			},
			[]string{"operator"},
		),
	}
}
