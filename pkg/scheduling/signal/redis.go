package signal

import (
	"context"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
	commonctx "github.com/wassim-k/renderflow/pkg/common/context"
	rferrors "github.com/wassim-k/renderflow/pkg/common/errors"
	"github.com/wassim-k/renderflow/pkg/common/validation"
	"github.com/wassim-k/renderflow/pkg/scheduling/checkpoint"
)

// RedisConfig holds RedisProvider configuration.
type RedisConfig struct {
	// Client is the Redis client used to subscribe for opportunities.
	Client redis.UniversalClient

	// Channel is the pub/sub channel whose messages fire opportunities.
	Channel string

	// OnError receives the joined work errors of each opportunity that had
	// failures, and subscription errors. When nil, errors are discarded.
	OnError func(error)

	// ReconnectDelay is how long to wait before resubscribing after the
	// subscription drops (default: 1s). Stop interrupts the wait.
	ReconnectDelay time.Duration
}

// RedisProvider fires a checkpoint opportunity for every message published
// to a Redis channel. A single coordinator publishing to the channel can
// drive schedulers across a fleet of processes; message payloads are
// ignored, only arrival matters.
type RedisProvider struct {
	queue          *checkpoint.ManualProvider
	client         redis.UniversalClient
	channel        string
	onError        func(error)
	reconnectDelay time.Duration

	mu      sync.Mutex
	cancel  context.CancelFunc
	done    chan struct{}
	stopped chan struct{}
	running bool
}

// NewRedis creates a RedisProvider from the given configuration. It does
// not touch the network; the subscription is established by Start.
func NewRedis(cfg RedisConfig) (*RedisProvider, error) {
	if cfg.Client == nil {
		return nil, validation.ValidateNotNil("signal", "Client", nil)
	}
	if err := validation.ValidateNotEmpty("signal", "Channel", cfg.Channel); err != nil {
		return nil, err
	}
	if err := validation.ValidateNonNegativeDuration("signal", "ReconnectDelay", cfg.ReconnectDelay); err != nil {
		return nil, err
	}

	reconnectDelay := cfg.ReconnectDelay
	if reconnectDelay == 0 {
		reconnectDelay = time.Second
	}

	return &RedisProvider{
		queue:          checkpoint.NewManualProvider(),
		client:         cfg.Client,
		channel:        cfg.Channel,
		onError:        cfg.OnError,
		reconnectDelay: reconnectDelay,
		done:           make(chan struct{}),
		stopped:        make(chan struct{}),
	}, nil
}

// RegisterOnce queues fn for the next published message.
func (p *RedisProvider) RegisterOnce(fn checkpoint.Callback) {
	p.queue.RegisterOnce(fn)
}

// Pending returns the number of callbacks waiting for the next message.
func (p *RedisProvider) Pending() int {
	return p.queue.Pending()
}

// Start subscribes to the configured channel and begins firing
// opportunities. It fails if the provider is already running, has been
// stopped, or the subscription cannot be established.
func (p *RedisProvider) Start() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.running {
		return rferrors.NewOperationError("signal", "Start", rferrors.ErrClosed).
			WithContext("redis provider already running")
	}

	select {
	case <-p.done:
		return rferrors.NewOperationError("signal", "Start", rferrors.ErrClosed).
			WithContext("redis provider was stopped")
	default:
	}

	ctx, cancel := context.WithCancel(context.Background())
	pubsub := p.client.Subscribe(ctx, p.channel)

	// Confirm the subscription before declaring the provider running, so
	// Start fails fast on an unreachable server.
	if _, err := pubsub.Receive(ctx); err != nil {
		cancel()
		_ = pubsub.Close()
		return rferrors.NewOperationError("signal", "Start", err).
			WithContext("subscribe " + p.channel)
	}

	p.cancel = cancel
	p.running = true

	go p.run(ctx, pubsub)
	return nil
}

// Stop unsubscribes and halts the provider permanently, whether or not it
// was started. Callbacks already registered never fire. The returned
// channel closes once the receive loop has exited.
func (p *RedisProvider) Stop() <-chan struct{} {
	p.mu.Lock()
	wasRunning := p.running
	p.running = false
	select {
	case <-p.done:
	default:
		close(p.done)
	}
	if wasRunning {
		p.cancel()
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

func (p *RedisProvider) run(ctx context.Context, pubsub *redis.PubSub) {
	defer close(p.stopped)
	defer func() { _ = pubsub.Close() }()

	messages := pubsub.Channel()
	for {
		select {
		case <-p.done:
			return
		case _, ok := <-messages:
			if !ok {
				if commonctx.IsCanceled(ctx) {
					return
				}
				if p.onError != nil {
					p.onError(rferrors.NewOperationError("signal", "Receive", rferrors.ErrNotRunning).
						WithContext("subscription dropped, resubscribing"))
				}
				if err := commonctx.Sleep(ctx, p.reconnectDelay); err != nil {
					return
				}
				_ = pubsub.Close()
				pubsub = p.client.Subscribe(ctx, p.channel)
				messages = pubsub.Channel()
				continue
			}
			if err := p.queue.Fire(); err != nil && p.onError != nil {
				p.onError(err)
			}
		}
	}
}
