package checkpoint

import "time"

// Clock provides the current time for scheduling.
type Clock func() time.Time

// Timer is a cancellable pending timer. Stop reports whether it prevented
// the timer from firing.
type Timer interface {
	Stop() bool
}

// TimerFactory arms a timer that invokes fn after d has elapsed.
type TimerFactory func(d time.Duration, fn func()) Timer

// systemClock returns wall-clock time.
func systemClock() time.Time {
	return time.Now()
}

// systemTimers arms a real timer via time.AfterFunc.
func systemTimers(d time.Duration, fn func()) Timer {
	return time.AfterFunc(d, fn)
}
