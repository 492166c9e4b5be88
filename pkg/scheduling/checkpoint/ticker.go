package checkpoint

import (
	"sync"
	"time"

	rferrors "github.com/wassim-k/renderflow/pkg/common/errors"
)

// TickerConfig holds TickerProvider configuration.
type TickerConfig struct {
	// Interval is the distance between checkpoint opportunities
	// (default: 50ms).
	Interval time.Duration

	// OnError receives the joined work errors of each opportunity that had
	// failures. When nil, errors are discarded; hosts that care about work
	// errors must set it.
	OnError func(error)
}

// TickerProvider fires a checkpoint opportunity on every tick of an
// interval timer. Callbacks registered between ticks fire, in registration
// order, on the next tick.
type TickerProvider struct {
	queue    *ManualProvider
	interval time.Duration
	onError  func(error)

	mu      sync.Mutex
	ticker  *time.Ticker
	done    chan struct{}
	stopped chan struct{}
	running bool
}

// NewTicker creates a TickerProvider with the default interval.
func NewTicker() *TickerProvider {
	return NewTickerWithConfig(TickerConfig{})
}

// NewTickerWithConfig creates a TickerProvider with custom configuration.
func NewTickerWithConfig(cfg TickerConfig) *TickerProvider {
	interval := cfg.Interval
	if interval <= 0 {
		interval = 50 * time.Millisecond // Reasonable default
	}

	return &TickerProvider{
		queue:    NewManualProvider(),
		interval: interval,
		onError:  cfg.OnError,
		done:     make(chan struct{}),
		stopped:  make(chan struct{}),
	}
}

// RegisterOnce queues fn for the next tick.
func (p *TickerProvider) RegisterOnce(fn Callback) {
	p.queue.RegisterOnce(fn)
}

// Pending returns the number of callbacks waiting for the next tick.
func (p *TickerProvider) Pending() int {
	return p.queue.Pending()
}

// Start begins firing opportunities. It fails if the provider is already
// running or has been stopped.
func (p *TickerProvider) Start() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.running {
		return rferrors.NewOperationError("checkpoint", "Start", rferrors.ErrClosed).
			WithContext("ticker provider already running")
	}

	select {
	case <-p.done:
		return rferrors.NewOperationError("checkpoint", "Start", rferrors.ErrClosed).
			WithContext("ticker provider was stopped")
	default:
	}

	p.running = true
	p.ticker = time.NewTicker(p.interval)

	go p.run()
	return nil
}

// Stop halts the provider permanently, whether or not it was started.
// Callbacks already registered never fire; tasks behind them stay pending
// forever, so stop schedulers before their provider. The returned channel
// closes once the firing loop has exited.
func (p *TickerProvider) Stop() <-chan struct{} {
	p.mu.Lock()
	wasRunning := p.running
	p.running = false
	select {
	case <-p.done:
	default:
		close(p.done)
	}
	if wasRunning && p.ticker != nil {
		p.ticker.Stop()
	}
	p.mu.Unlock()

	out := make(chan struct{})
	go func() {
		defer close(out)
		if wasRunning {
			<-p.stopped
		}
	}()
	return out
}

func (p *TickerProvider) run() {
	defer close(p.stopped)
	defer func() {
		if p.ticker != nil {
			p.ticker.Stop()
		}
	}()

	for {
		select {
		case <-p.done:
			return
		case <-p.ticker.C:
			if err := p.queue.Fire(); err != nil && p.onError != nil {
				p.onError(err)
			}
		}
	}
}
