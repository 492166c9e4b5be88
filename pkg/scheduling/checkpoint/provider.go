package checkpoint

import (
	"errors"
	"fmt"
	"runtime/debug"
	"sync"
)

// Callback is a one-shot callback registered with a Provider. The returned
// error is whatever the scheduled work produced; it is the firing driver's
// to route.
type Callback func() error

// Provider delivers checkpoint opportunities. Each RegisterOnce call is a
// fresh, independent registration: the provider invokes the callback exactly
// once, at its next opportunity, in registration order. Providers are not
// required to support de-registration; schedulers guard cancelled tasks at
// execution time instead.
type Provider interface {
	RegisterOnce(fn Callback)
}

// ManualProvider is a driver-controlled Provider. Registrations accumulate
// until Fire is called, which makes one checkpoint opportunity: it runs the
// currently pending callbacks in registration order and returns their joined
// errors. Callbacks registered while an opportunity is firing land in the
// next one.
//
// ManualProvider is the reference provider for hosts that own their own
// frame or flush cycle, and for tests.
type ManualProvider struct {
	mu      sync.Mutex
	pending []Callback
}

// NewManualProvider creates an empty ManualProvider.
func NewManualProvider() *ManualProvider {
	return &ManualProvider{}
}

// RegisterOnce queues fn for the next opportunity.
func (p *ManualProvider) RegisterOnce(fn Callback) {
	if fn == nil {
		return
	}
	p.mu.Lock()
	p.pending = append(p.pending, fn)
	p.mu.Unlock()
}

// Pending returns the number of callbacks waiting for the next opportunity.
func (p *ManualProvider) Pending() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.pending)
}

// Fire makes one checkpoint opportunity. Every callback pending at the time
// of the call runs exactly once, in registration order; a failing callback
// does not stop its siblings. Fire returns the joined callback errors, or
// nil if every callback succeeded.
func (p *ManualProvider) Fire() error {
	p.mu.Lock()
	batch := p.pending
	p.pending = nil
	p.mu.Unlock()

	var errs []error
	for _, fn := range batch {
		if err := runCallback(fn); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// runCallback invokes fn, converting a panic into an error so that sibling
// callbacks in the same opportunity still fire.
func runCallback(fn Callback) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("callback panicked: %v\nStack trace:\n%s", r, debug.Stack())
		}
	}()

	return fn()
}
