package checkpoint

import (
	"context"
	"time"
)

// Work is a caller-supplied work function. The state value is the one passed
// to Schedule, delivered unchanged.
type Work func(state any) error

// Handle is the cancellation handle returned by Schedule.
type Handle interface {
	// Cancel prevents the work function from running. It clears an armed
	// timer but does not retract a checkpoint registration; the pending
	// callback becomes a harmless no-op instead. Cancel is idempotent.
	Cancel()

	// Closed reports whether the task is finished: cancelled, fired, or
	// failed. A closed task never runs its work function again.
	Closed() bool
}

// Scheduler accepts (work, delay, state) triples and defers zero-delay work
// to the next checkpoint opportunity instead of running it inline. Non-zero
// delays first wait on a timer, then fall through to the checkpoint path.
type Scheduler interface {
	// Now returns the scheduler's current time.
	Now() time.Time

	// Schedule registers work to run with state once delay has elapsed and
	// the next checkpoint opportunity after that fires. A delay of zero (or
	// less) still routes through the checkpoint path; work is never invoked
	// synchronously. The returned handle cancels the task.
	Schedule(work Work, delay time.Duration, state any) Handle
}

// Config holds scheduler configuration. It is resolved once, at
// construction.
type Config struct {
	// Provider is the checkpoint provider to register zero-delay work with.
	// When nil, the provider is resolved from the ambient Context.
	Provider Provider

	// Context is the ambient context used to resolve a provider when none
	// is given explicitly. Construction fails when both are absent.
	Context context.Context

	// Clock supplies the scheduler's notion of now. Defaults to wall-clock
	// time.
	Clock Clock

	// Timers arms the timers backing non-zero delays. Defaults to
	// time.AfterFunc.
	Timers TimerFactory
}

type scheduler struct {
	provider Provider
	clock    Clock
	timers   TimerFactory
}

// New creates a scheduler or panics on a configuration error. Use NewSafe
// to handle the error instead.
func New(cfg Config) Scheduler {
	s, err := NewSafe(cfg)
	if err != nil {
		panic(err)
	}
	return s
}

// NewSafe creates a scheduler with the given configuration. The checkpoint
// provider is resolved once: the explicit Provider wins, otherwise the
// ambient Context is consulted. NewSafe returns ErrNoProvider when neither
// yields one.
func NewSafe(cfg Config) (Scheduler, error) {
	provider := cfg.Provider
	if provider == nil {
		resolved, err := AmbientProvider(cfg.Context)
		if err != nil {
			return nil, err
		}
		provider = resolved
	}

	clock := cfg.Clock
	if clock == nil {
		clock = systemClock
	}

	timers := cfg.Timers
	if timers == nil {
		timers = systemTimers
	}

	return &scheduler{
		provider: provider,
		clock:    clock,
		timers:   timers,
	}, nil
}

func (s *scheduler) Now() time.Time {
	return s.clock()
}

func (s *scheduler) Schedule(work Work, delay time.Duration, state any) Handle {
	t := &task{
		work:     work,
		provider: s.provider,
		timers:   s.timers,
	}
	t.schedule(state, delay)
	return t
}
