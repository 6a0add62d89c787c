package controller

import (
	"context"
	"encoding/json"
	"sync"

	"github.com/funnyzak/rinktap/internal/catalog"
	"github.com/funnyzak/rinktap/internal/dispatch"
	"github.com/funnyzak/rinktap/internal/logger"
)

// Phase is the lifecycle phase of the controller's current operation.
type Phase string

const (
	PhaseIdle     Phase = "idle"
	PhaseInFlight Phase = "in-flight"
	PhaseSuccess  Phase = "settled-success"
	PhaseError    Phase = "settled-error"
)

// State is a snapshot of the controller's visible operation state.
// After settlement exactly one of Envelope and Err is set, never both.
type State struct {
	Phase    Phase              `json:"phase"`
	Envelope *dispatch.Envelope `json:"envelope,omitempty"`
	Err      string             `json:"error,omitempty"`
	Epoch    uint64             `json:"epoch"`
}

// Options carries optional settlement hooks. Each fires at most once
// per applied settlement.
type Options struct {
	OnSuccess func(payload json.RawMessage)
	OnError   func(message string)
}

// Controller wraps a dispatcher in a stateful unit exposing
// loading/success/error state. One operation's result is live at a
// time; overlapping Invoke calls are fenced by a monotonically
// increasing epoch so only the latest-issued call settles into visible
// state. Superseded calls still return their own result to their
// caller but neither mutate state nor fire hooks.
type Controller struct {
	dispatcher *dispatch.Dispatcher
	hosts      catalog.Hosts
	logger     logger.Logger
	opts       Options

	mu       sync.Mutex
	phase    Phase
	envelope *dispatch.Envelope
	errMsg   string
	epoch    uint64
}

// New creates a controller in the idle phase.
func New(d *dispatch.Dispatcher, hosts catalog.Hosts, log logger.Logger, opts Options) *Controller {
	if log == nil {
		log = logger.Noop()
	}
	return &Controller{
		dispatcher: d,
		hosts:      hosts,
		logger:     log,
		opts:       opts,
		phase:      PhaseIdle,
	}
}

// Invoke resolves the path against the host family (primary when
// empty), transitions state to in-flight synchronously, then delegates
// to the dispatcher and settles. The raw JSON payload is returned on
// success; on relay exhaustion the returned error carries the
// "Failed to fetch data from <target>" message.
func (c *Controller) Invoke(ctx context.Context, path string, family catalog.HostFamily) (json.RawMessage, error) {
	if family == "" {
		family = catalog.HostPrimary
	}

	target, err := dispatch.NewTarget(c.hosts, family, path)
	if err != nil {
		return nil, err
	}

	c.mu.Lock()
	c.epoch++
	epoch := c.epoch
	c.phase = PhaseInFlight
	c.envelope = nil
	c.errMsg = ""
	c.mu.Unlock()

	env, err := c.dispatcher.Dispatch(ctx, target)
	if err != nil {
		c.settleError(epoch, err.Error())
		return nil, err
	}

	c.settleSuccess(epoch, env)
	return env.Payload, nil
}

func (c *Controller) settleSuccess(epoch uint64, env *dispatch.Envelope) {
	c.mu.Lock()
	if epoch != c.epoch {
		c.mu.Unlock()
		c.logger.Debug("Discarding superseded settlement",
			"epoch", int64(epoch),
			"latest", int64(c.epoch),
		)
		return
	}
	c.phase = PhaseSuccess
	c.envelope = env
	c.errMsg = ""
	c.mu.Unlock()

	if c.opts.OnSuccess != nil {
		c.opts.OnSuccess(env.Payload)
	}
}

func (c *Controller) settleError(epoch uint64, message string) {
	c.mu.Lock()
	if epoch != c.epoch {
		c.mu.Unlock()
		c.logger.Debug("Discarding superseded settlement",
			"epoch", int64(epoch),
			"latest", int64(c.epoch),
		)
		return
	}
	c.phase = PhaseError
	c.envelope = nil
	c.errMsg = message
	c.mu.Unlock()

	if c.opts.OnError != nil {
		c.opts.OnError(message)
	}
}

// State returns a snapshot of the visible operation state.
func (c *Controller) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return State{
		Phase:    c.phase,
		Envelope: c.envelope,
		Err:      c.errMsg,
		Epoch:    c.epoch,
	}
}

// Reset clears state to idle unconditionally. The epoch is bumped so
// settlements of calls issued before the reset cannot resurface.
func (c *Controller) Reset() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.epoch++
	c.phase = PhaseIdle
	c.envelope = nil
	c.errMsg = ""
}
