package deferred_test

import (
	"context"
	"fmt"
	"time"

	"github.com/wassim-k/renderflow/pkg/scheduling/checkpoint"
	"github.com/wassim-k/renderflow/pkg/streaming/deferred"
)

// Demonstrates pacing a channel against manually fired checkpoints.
func Example() {
	provider := checkpoint.NewManualProvider()
	scheduler := checkpoint.New(checkpoint.Config{Provider: provider})

	in := make(chan int)
	out := deferred.Emit(context.Background(), scheduler, in)

	go func() {
		in <- 1
		in <- 2
		close(in)
	}()

	// Stand-in for a render loop driving the provider.
	stop := make(chan struct{})
	go func() {
		for {
			select {
			case <-stop:
				return
			default:
				_ = provider.Fire()
				time.Sleep(time.Millisecond)
			}
		}
	}()
	defer close(stop)

	for v := range out {
		fmt.Println("emitted:", v)
	}

	// Output:
	// emitted: 1
	// emitted: 2
}
