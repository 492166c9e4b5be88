package signal

import (
	"sync"
	"time"

	"github.com/robfig/cron/v3"
	rferrors "github.com/wassim-k/renderflow/pkg/common/errors"
	"github.com/wassim-k/renderflow/pkg/common/validation"
	"github.com/wassim-k/renderflow/pkg/scheduling/checkpoint"
)

// CronConfig holds CronProvider configuration.
type CronConfig struct {
	// Expression is the cron schedule driving checkpoint opportunities.
	// Supports six-field expressions with seconds ("*/5 * * * * *") and
	// descriptors ("@hourly").
	Expression string

	// Location evaluates the expression in a specific timezone
	// (default: time.Local).
	Location *time.Location

	// OnError receives the joined work errors of each opportunity that had
	// failures. When nil, errors are discarded.
	OnError func(error)
}

// CronProvider fires a checkpoint opportunity on every activation of a cron
// schedule. Callbacks registered between activations fire, in registration
// order, on the next activation.
type CronProvider struct {
	queue   *checkpoint.ManualProvider
	runner  *cron.Cron
	onError func(error)

	mu      sync.Mutex
	done    chan struct{}
	running bool
}

// NewCron creates a CronProvider from the given configuration. The
// expression is parsed eagerly so misconfiguration surfaces at construction
// rather than at Start.
func NewCron(cfg CronConfig) (*CronProvider, error) {
	if err := validation.ValidateNotEmpty("signal", "Expression", cfg.Expression); err != nil {
		return nil, err
	}

	parser := cron.NewParser(cron.Second | cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow | cron.Descriptor)
	if _, err := parser.Parse(cfg.Expression); err != nil {
		return nil, rferrors.NewValidationError("signal", "Expression", cfg.Expression, err.Error()).
			WithHint("use a six-field cron expression, e.g. \"*/5 * * * * *\"")
	}

	location := cfg.Location
	if location == nil {
		location = time.Local
	}

	p := &CronProvider{
		queue:   checkpoint.NewManualProvider(),
		onError: cfg.OnError,
		done:    make(chan struct{}),
	}

	p.runner = cron.New(cron.WithParser(parser), cron.WithLocation(location))
	if _, err := p.runner.AddFunc(cfg.Expression, p.fire); err != nil {
		return nil, rferrors.NewOperationError("signal", "NewCron", err)
	}

	return p, nil
}

// RegisterOnce queues fn for the next schedule activation.
func (p *CronProvider) RegisterOnce(fn checkpoint.Callback) {
	p.queue.RegisterOnce(fn)
}

// Pending returns the number of callbacks waiting for the next activation.
func (p *CronProvider) Pending() int {
	return p.queue.Pending()
}

// Start begins firing opportunities on the cron schedule. It fails if the
// provider is already running or has been stopped.
func (p *CronProvider) Start() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.running {
		return rferrors.NewOperationError("signal", "Start", rferrors.ErrClosed).
			WithContext("cron provider already running")
	}

	select {
	case <-p.done:
		return rferrors.NewOperationError("signal", "Start", rferrors.ErrClosed).
			WithContext("cron provider was stopped")
	default:
	}

	p.running = true
	p.runner.Start()
	return nil
}

// Stop halts the provider permanently, whether or not it was started.
// Callbacks already registered never fire. The returned channel closes
// once in-flight activations have completed.
func (p *CronProvider) Stop() <-chan struct{} {
	p.mu.Lock()
	wasRunning := p.running
	p.running = false
	select {
	case <-p.done:
	default:
		close(p.done)
	}
	p.mu.Unlock()

	out := make(chan struct{})
	go func() {
		defer close(out)
		if wasRunning {
			<-p.runner.Stop().Done()
		}
	}()
	return out
}

func (p *CronProvider) fire() {
	if err := p.queue.Fire(); err != nil && p.onError != nil {
		p.onError(err)
	}
}
