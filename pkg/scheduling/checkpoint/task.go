package checkpoint

import (
	"sync"
	"time"
)

// task is one scheduled unit of work with its own cancellation state.
//
// Lifecycle: a task starts pending. A non-zero delay arms a timer whose
// callback falls through to the zero-delay path; the zero-delay path
// registers a one-shot callback with the checkpoint provider. The first of
// Cancel or execute to run closes the task; both terminal states are
// absorbing. A provider callback firing against a closed task is a no-op,
// since registrations cannot be retracted.
type task struct {
	work     Work
	provider Provider
	timers   TimerFactory

	mu     sync.Mutex
	timer  Timer
	closed bool
}

// schedule routes the task onto the timer path or the checkpoint path.
// Called once by the scheduler and again by an elapsed timer's callback
// with a zero delay.
func (t *task) schedule(state any, delay time.Duration) {
	t.mu.Lock()
	if t.closed {
		t.mu.Unlock()
		return
	}

	if delay > 0 {
		t.timer = t.timers(delay, func() { t.rearm(state) })
		t.mu.Unlock()
		return
	}
	t.mu.Unlock()

	t.provider.RegisterOnce(func() error {
		return t.execute(state)
	})
}

// rearm is the elapsed-timer callback: clear the timer and fall through to
// the zero-delay path.
func (t *task) rearm(state any) {
	t.mu.Lock()
	t.timer = nil
	t.mu.Unlock()

	t.schedule(state, 0)
}

// execute runs the work function exactly once. Firing against a closed task
// is a no-op; this is what makes unretractable provider registrations safe
// after cancellation. A work error closes the task and is returned to the
// firing driver, never retried.
func (t *task) execute(state any) error {
	t.mu.Lock()
	if t.closed {
		t.mu.Unlock()
		return nil
	}
	t.closed = true
	t.mu.Unlock()

	return t.work(state)
}

// Cancel closes the task and clears any armed timer. It cannot retract a
// checkpoint registration; execute's closed-check neutralizes the pending
// callback instead. Idempotent.
func (t *task) Cancel() {
	t.mu.Lock()
	if t.closed {
		t.mu.Unlock()
		return
	}
	t.closed = true
	timer := t.timer
	t.timer = nil
	t.mu.Unlock()

	if timer != nil {
		timer.Stop()
	}
}

// Closed reports whether the task has fired, failed, or been cancelled.
func (t *task) Closed() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.closed
}
