package testutil

import (
	"sort"
	"sync"
	"time"
)

// MockClock implements a controllable time source for tests that need
// deterministic scheduling behavior without real delays.
type MockClock struct {
	mu  sync.Mutex
	now time.Time
}

// NewMockClock creates a new MockClock starting at the given time.
// If zero time is provided, uses current time.
func NewMockClock(start time.Time) *MockClock {
	if start.IsZero() {
		start = time.Now()
	}
	return &MockClock{now: start}
}

// Now returns the current mock time.
func (m *MockClock) Now() time.Time {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.now
}

// Advance moves the mock clock forward by the given duration.
func (m *MockClock) Advance(d time.Duration) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.now = m.now.Add(d)
}

// Set sets the mock clock to a specific time.
func (m *MockClock) Set(t time.Time) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.now = t
}

// FakeTimers is a virtual-time timer factory. Timers created through
// AfterFunc never fire on their own; Advance moves the associated clock
// forward and runs the callbacks of every timer that has come due, in
// deadline order (registration order for equal deadlines).
type FakeTimers struct {
	mu     sync.Mutex
	clock  *MockClock
	seq    int
	timers []*FakeTimer
}

// NewFakeTimers creates a FakeTimers factory bound to the given clock.
// If clock is nil a fresh MockClock is created.
func NewFakeTimers(clock *MockClock) *FakeTimers {
	if clock == nil {
		clock = NewMockClock(time.Time{})
	}
	return &FakeTimers{clock: clock}
}

// Clock returns the clock driving this factory.
func (f *FakeTimers) Clock() *MockClock {
	return f.clock
}

// AfterFunc registers fn to run once the clock has advanced by d.
func (f *FakeTimers) AfterFunc(d time.Duration, fn func()) *FakeTimer {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.seq++
	timer := &FakeTimer{
		factory:  f,
		deadline: f.clock.Now().Add(d),
		seq:      f.seq,
		fn:       fn,
	}
	f.timers = append(f.timers, timer)
	return timer
}

// Pending returns the number of timers that have not fired or been stopped.
func (f *FakeTimers) Pending() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.timers)
}

// Advance moves the clock forward by d and fires all timers whose deadline
// has been reached. Callbacks run outside the factory lock, so they may
// register new timers; those fire too if their deadline falls within the
// advanced window.
func (f *FakeTimers) Advance(d time.Duration) {
	f.clock.Advance(d)
	now := f.clock.Now()

	for {
		timer := f.popDue(now)
		if timer == nil {
			return
		}
		timer.fn()
	}
}

// popDue removes and returns the earliest due timer, or nil if none are due.
func (f *FakeTimers) popDue(now time.Time) *FakeTimer {
	f.mu.Lock()
	defer f.mu.Unlock()

	sort.SliceStable(f.timers, func(i, j int) bool {
		if f.timers[i].deadline.Equal(f.timers[j].deadline) {
			return f.timers[i].seq < f.timers[j].seq
		}
		return f.timers[i].deadline.Before(f.timers[j].deadline)
	})

	if len(f.timers) == 0 || f.timers[0].deadline.After(now) {
		return nil
	}

	timer := f.timers[0]
	f.timers = f.timers[1:]
	return timer
}

// FakeTimer is a timer created by FakeTimers.
type FakeTimer struct {
	factory  *FakeTimers
	deadline time.Time
	seq      int
	fn       func()
}

// Stop removes the timer from its factory. It returns false if the timer
// already fired or was already stopped.
func (t *FakeTimer) Stop() bool {
	f := t.factory
	f.mu.Lock()
	defer f.mu.Unlock()

	for i, pending := range f.timers {
		if pending == t {
			f.timers = append(f.timers[:i], f.timers[i+1:]...)
			return true
		}
	}
	return false
}
