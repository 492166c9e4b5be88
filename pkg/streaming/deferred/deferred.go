package deferred

import (
	"context"
	"sync"
	"time"

	"github.com/wassim-k/renderflow/pkg/scheduling/checkpoint"
)

// Emit re-emits every value from in on the returned channel, delivering
// each at the scheduler's next checkpoint opportunity. Input order is
// preserved. The returned channel closes once every value read before in
// closed has been delivered, or once ctx is cancelled; cancellation also
// cancels tasks still waiting for an opportunity.
func Emit[T any](ctx context.Context, s checkpoint.Scheduler, in <-chan T) <-chan T {
	return EmitAfter(ctx, s, in, 0)
}

// EmitAfter is Emit with a per-value delay: each value waits out the delay
// on a timer before being handed to the checkpoint path.
func EmitAfter[T any](ctx context.Context, s checkpoint.Scheduler, in <-chan T, delay time.Duration) <-chan T {
	out := make(chan T)
	run(ctx, s, in, delay, out, nil, func(v T) (T, error) { return v, nil })
	return out
}

// MapDeferred transforms every value from in with fn, delivering each
// result at the scheduler's next checkpoint opportunity. Values fn fails
// on are dropped from the output and their errors routed to the returned
// error channel instead. Both channels close together, under the same
// rules as Emit.
func MapDeferred[T, U any](ctx context.Context, s checkpoint.Scheduler, in <-chan T, fn func(T) (U, error)) (<-chan U, <-chan error) {
	out := make(chan U)
	errs := make(chan error)
	run(ctx, s, in, 0, out, errs, fn)
	return out, errs
}

// inflight tracks tasks scheduled but not yet delivered. Each task holds
// one WaitGroup slot; map membership under the mutex decides who releases
// it, so a task firing concurrently with cancellation (or before its
// handle is even recorded) settles exactly once.
type inflight struct {
	mu       sync.Mutex
	canceled bool
	next     uint64
	pending  map[uint64]checkpoint.Handle
	settled  map[uint64]struct{}
	wg       sync.WaitGroup
}

func newInflight() *inflight {
	return &inflight{
		pending: make(map[uint64]checkpoint.Handle),
		settled: make(map[uint64]struct{}),
	}
}

// add reserves a slot for a task about to be scheduled. It returns false
// when the stream has already been cancelled and nothing should schedule.
func (f *inflight) add() (uint64, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.canceled {
		return 0, false
	}
	id := f.next
	f.next++
	f.wg.Add(1)
	return id, true
}

// register records the task's handle so cancelAll can reach it. The task
// may have fired, or the stream been cancelled, between Schedule and here.
func (f *inflight) register(id uint64, h checkpoint.Handle) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, done := f.settled[id]; done {
		delete(f.settled, id)
		return
	}
	if f.canceled {
		h.Cancel()
		f.wg.Done()
		return
	}
	f.pending[id] = h
}

// claim is called by the firing task. It reports whether the task owns
// its WaitGroup slot and whether the stream was cancelled meanwhile.
func (f *inflight) claim(id uint64) (owned, canceled bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.pending[id]; ok {
		delete(f.pending, id)
		return true, false
	}
	if f.canceled {
		// register (or cancelAll) settles the slot.
		return false, true
	}
	// Fired before register ran; leave it a marker.
	f.settled[id] = struct{}{}
	return true, false
}

func (f *inflight) cancelAll() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.canceled = true
	for id, h := range f.pending {
		delete(f.pending, id)
		h.Cancel()
		f.wg.Done()
	}
}

func run[T, U any](ctx context.Context, s checkpoint.Scheduler, in <-chan T, delay time.Duration, out chan U, errs chan error, fn func(T) (U, error)) {
	f := newInflight()
	drained := make(chan struct{})

	// Watch for cancellation until every in-flight task has settled, not
	// just until the pump exits: tasks scheduled before the input closed
	// may still be parked waiting for an opportunity that never comes.
	go func() {
		select {
		case <-ctx.Done():
			f.cancelAll()
		case <-drained:
		}
	}()

	go func() {
		defer func() {
			f.wg.Wait()
			close(drained)
			close(out)
			if errs != nil {
				close(errs)
			}
		}()

		for {
			select {
			case <-ctx.Done():
				return
			case v, ok := <-in:
				if !ok {
					return
				}
				id, ok := f.add()
				if !ok {
					return
				}
				h := s.Schedule(func(state any) error {
					owned, canceled := f.claim(id)
					if !owned {
						return nil
					}
					defer f.wg.Done()
					if !canceled {
						deliver(ctx, out, errs, fn, state.(T))
					}
					return nil
				}, delay, v)
				f.register(id, h)
			}
		}
	}()
}

// deliver applies fn and routes the result or its error, giving up on
// cancellation rather than blocking on a stalled consumer forever.
func deliver[T, U any](ctx context.Context, out chan U, errs chan error, fn func(T) (U, error), v T) {
	u, err := fn(v)
	if err != nil {
		if errs == nil {
			return
		}
		select {
		case errs <- err:
		case <-ctx.Done():
		}
		return
	}
	select {
	case out <- u:
	case <-ctx.Done():
	}
}
