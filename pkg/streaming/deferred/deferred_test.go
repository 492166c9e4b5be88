package deferred

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/wassim-k/renderflow/internal/testutil"
	"github.com/wassim-k/renderflow/pkg/scheduling/checkpoint"
)

// drive fires the provider until the condition holds or the timeout
// elapses, mimicking an external render loop.
func drive(t *testing.T, p *checkpoint.ManualProvider, done <-chan struct{}) {
	t.Helper()
	deadline := time.After(testutil.TestTimeout)
	for {
		select {
		case <-done:
			return
		case <-deadline:
			t.Fatal("stream did not settle in time")
		case <-time.After(time.Millisecond):
			if err := p.Fire(); err != nil {
				t.Fatal(err)
			}
		}
	}
}

func TestEmit_PreservesOrderAndCloses(t *testing.T) {
	provider := checkpoint.NewManualProvider()
	scheduler := checkpoint.New(checkpoint.Config{Provider: provider})

	in := make(chan int)
	out := Emit(context.Background(), scheduler, in)

	go func() {
		for i := 1; i <= 5; i++ {
			in <- i
		}
		close(in)
	}()

	collected := make(chan []int, 1)
	streamDone := make(chan struct{})
	go func() {
		defer close(streamDone)
		var got []int
		for v := range out {
			got = append(got, v)
		}
		collected <- got
	}()

	drive(t, provider, streamDone)

	got := <-collected
	want := []int{1, 2, 3, 4, 5}
	if len(got) != len(want) {
		t.Fatalf("got %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("got %v, want %v", got, want)
		}
	}
}

func TestEmit_NothingBeforeCheckpoint(t *testing.T) {
	provider := checkpoint.NewManualProvider()
	scheduler := checkpoint.New(checkpoint.Config{Provider: provider})

	in := make(chan string)
	out := Emit(context.Background(), scheduler, in)

	in <- "parked"

	testutil.Eventually(t, func() bool {
		return provider.Pending() == 1
	}, time.Second, time.Millisecond)

	select {
	case v := <-out:
		t.Fatalf("received %q before any checkpoint fired", v)
	case <-time.After(20 * time.Millisecond):
	}

	go func() {
		if err := provider.Fire(); err != nil {
			t.Error(err)
		}
	}()

	if got := <-out; got != "parked" {
		t.Fatalf("got %q, want %q", got, "parked")
	}
	close(in)
}

func TestEmit_ContextCancelClosesOutput(t *testing.T) {
	provider := checkpoint.NewManualProvider()
	scheduler := checkpoint.New(checkpoint.Config{Provider: provider})

	ctx, cancel := context.WithCancel(context.Background())
	in := make(chan int)
	out := Emit(ctx, scheduler, in)

	in <- 1
	testutil.Eventually(t, func() bool {
		return provider.Pending() == 1
	}, time.Second, time.Millisecond)

	cancel()

	select {
	case _, ok := <-out:
		if ok {
			t.Fatal("received a value after cancellation")
		}
	case <-time.After(testutil.TestTimeout):
		t.Fatal("output did not close after cancellation")
	}

	// The parked task was cancelled; firing delivers nothing.
	if err := provider.Fire(); err != nil {
		t.Fatal(err)
	}
}

func TestEmit_CancelAfterInputClosed(t *testing.T) {
	provider := checkpoint.NewManualProvider()
	scheduler := checkpoint.New(checkpoint.Config{Provider: provider})

	ctx, cancel := context.WithCancel(context.Background())
	in := make(chan int)
	out := Emit(ctx, scheduler, in)

	in <- 1
	close(in)

	// The value is parked waiting for an opportunity; the input closing
	// must not disarm cancellation.
	testutil.Eventually(t, func() bool {
		return provider.Pending() == 1
	}, time.Second, time.Millisecond)

	cancel()

	select {
	case _, ok := <-out:
		if ok {
			t.Fatal("received a value after cancellation")
		}
	case <-time.After(testutil.TestTimeout):
		t.Fatal("output did not close after cancellation")
	}

	// The parked handle was cancelled, so the opportunity delivers nothing.
	if err := provider.Fire(); err != nil {
		t.Fatal(err)
	}
}

func TestEmitAfter_DelaysDelivery(t *testing.T) {
	provider := checkpoint.NewManualProvider()
	scheduler := checkpoint.New(checkpoint.Config{Provider: provider})

	in := make(chan int)
	out := EmitAfter(context.Background(), scheduler, in, 50*time.Millisecond)

	in <- 42
	close(in)

	// Until the delay elapses nothing registers with the provider.
	if got := provider.Pending(); got != 0 {
		t.Fatalf("Pending = %d before delay elapsed, want 0", got)
	}

	testutil.Eventually(t, func() bool {
		return provider.Pending() == 1
	}, time.Second, time.Millisecond)

	go func() {
		if err := provider.Fire(); err != nil {
			t.Error(err)
		}
	}()

	if got := <-out; got != 42 {
		t.Fatalf("got %d, want 42", got)
	}

	if _, ok := <-out; ok {
		t.Fatal("output should be closed")
	}
}

func TestMapDeferred_TransformsAndRoutesErrors(t *testing.T) {
	provider := checkpoint.NewManualProvider()
	scheduler := checkpoint.New(checkpoint.Config{Provider: provider})

	in := make(chan int)
	out, errs := MapDeferred(context.Background(), scheduler, in, func(v int) (string, error) {
		if v%2 != 0 {
			return "", fmt.Errorf("odd value %d", v)
		}
		return fmt.Sprintf("v%d", v), nil
	})

	go func() {
		for i := 1; i <= 4; i++ {
			in <- i
		}
		close(in)
	}()

	var got []string
	var gotErrs []error
	streamDone := make(chan struct{})
	go func() {
		defer close(streamDone)
		for out != nil || errs != nil {
			select {
			case v, ok := <-out:
				if !ok {
					out = nil
					continue
				}
				got = append(got, v)
			case err, ok := <-errs:
				if !ok {
					errs = nil
					continue
				}
				gotErrs = append(gotErrs, err)
			}
		}
	}()

	drive(t, provider, streamDone)

	if len(got) != 2 || got[0] != "v2" || got[1] != "v4" {
		t.Fatalf("got %v, want [v2 v4]", got)
	}
	if len(gotErrs) != 2 {
		t.Fatalf("got %d errors, want 2: %v", len(gotErrs), gotErrs)
	}
}

func TestMapDeferred_ErrorChannelCloses(t *testing.T) {
	provider := checkpoint.NewManualProvider()
	scheduler := checkpoint.New(checkpoint.Config{Provider: provider})

	in := make(chan int)
	close(in)

	out, errs := MapDeferred(context.Background(), scheduler, in, func(v int) (int, error) {
		return v, nil
	})

	select {
	case _, ok := <-out:
		if ok {
			t.Fatal("unexpected value")
		}
	case <-time.After(testutil.TestTimeout):
		t.Fatal("output did not close")
	}
	if _, ok := <-errs; ok {
		t.Fatal("unexpected error")
	}
}

func TestEmit_WorkErrorsNeverReachTheProvider(t *testing.T) {
	provider := checkpoint.NewManualProvider()
	scheduler := checkpoint.New(checkpoint.Config{Provider: provider})

	in := make(chan int)
	out, errs := MapDeferred(context.Background(), scheduler, in, func(int) (int, error) {
		return 0, errors.New("mapper failed")
	})

	in <- 1
	close(in)

	testutil.Eventually(t, func() bool {
		return provider.Pending() == 1
	}, time.Second, time.Millisecond)

	fireErr := make(chan error, 1)
	go func() { fireErr <- provider.Fire() }()

	if err := <-errs; err == nil {
		t.Fatal("mapper error was not routed")
	}
	if err := <-fireErr; err != nil {
		t.Fatalf("mapper errors must not propagate to the provider, got %v", err)
	}

	if _, ok := <-out; ok {
		t.Fatal("output should be closed")
	}
}
