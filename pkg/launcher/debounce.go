package launcher

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/lidayx/lumina-sub000/pkg/intent"
	"github.com/lidayx/lumina-sub000/pkg/result"
)

// ControllerState is the debounce state machine position.
type ControllerState int

const (
	StateIdle ControllerState = iota
	StateScheduled
	StateResolving
)

const (
	// completion-style queries (">" or a feature keyword) re-render on
	// nearly every keystroke, so they get the short delay
	CompletionDelay = 150 * time.Millisecond
	NormalDelay     = 300 * time.Millisecond
)

// ResolveFunc performs one resolution pass. ctx is canceled when the query
// is superseded.
type ResolveFunc func(ctx context.Context, query string) []result.SearchResult

// DeliverFunc receives the results of a still-current query token.
type DeliverFunc func(token string, results []result.SearchResult)

// Controller debounces keystrokes into resolution passes and discards stale
// ones. Every Submit supersedes whatever was scheduled or in flight; only the
// latest token's results are ever delivered.
type Controller struct {
	resolve ResolveFunc
	deliver DeliverFunc

	completionDelay time.Duration
	normalDelay     time.Duration

	mu          sync.Mutex
	state       ControllerState
	token       string
	timer       *time.Timer
	cancel      context.CancelFunc
	modifyGuard bool
}

type ControllerOption func(*Controller)

// WithDelays overrides the stock debounce intervals.
func WithDelays(completion, normal time.Duration) ControllerOption {
	return func(c *Controller) {
		c.completionDelay = completion
		c.normalDelay = normal
	}
}

func NewController(resolve ResolveFunc, deliver DeliverFunc, opts ...ControllerOption) *Controller {
	c := &Controller{
		resolve:         resolve,
		deliver:         deliver,
		completionDelay: CompletionDelay,
		normalDelay:     NormalDelay,
	}
	for _, o := range opts {
		o(c)
	}
	return c
}

// Submit registers a keystroke-level query. It cancels any pending or
// in-flight resolution and schedules a new one after the classified delay.
// The returned token identifies the pass; a stale token's results are
// silently dropped.
func (c *Controller) Submit(query string) string {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.cancelPendingLocked()
	token := uuid.NewString()
	c.token = token

	// an in-flight todo mutation must not race a background search
	if c.modifyGuard {
		c.state = StateIdle
		return token
	}

	delay := c.normalDelay
	if isCompletionStyle(query) {
		delay = c.completionDelay
	}
	c.state = StateScheduled
	c.timer = time.AfterFunc(delay, func() { c.fire(token, query) })
	return token
}

func (c *Controller) fire(token string, query string) {
	c.mu.Lock()
	if token != c.token {
		c.mu.Unlock()
		return
	}
	c.state = StateResolving
	ctx, cancel := context.WithCancel(context.Background())
	c.cancel = cancel
	c.mu.Unlock()

	results := c.resolve(ctx, query)

	c.mu.Lock()
	still := token == c.token
	if still {
		c.state = StateIdle
		c.cancel = nil
	}
	c.mu.Unlock()
	cancel()
	if still && c.deliver != nil {
		c.deliver(token, results)
	}
}

// SetModifyGuard raises or clears the destructive-operation flag. While set,
// submitted queries issue tokens but nothing is scheduled.
func (c *Controller) SetModifyGuard(on bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.modifyGuard = on
	if on {
		c.cancelPendingLocked()
		c.state = StateIdle
	}
}

// CurrentToken returns the latest issued query token.
func (c *Controller) CurrentToken() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.token
}

// State reports the state machine position, for tests and introspection.
func (c *Controller) State() ControllerState {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// Stop cancels anything pending and returns the controller to idle.
func (c *Controller) Stop() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.cancelPendingLocked()
	c.token = ""
	c.state = StateIdle
}

func (c *Controller) cancelPendingLocked() {
	if c.timer != nil {
		c.timer.Stop()
		c.timer = nil
	}
	if c.cancel != nil {
		c.cancel()
		c.cancel = nil
	}
}

// isCompletionStyle classifies queries that deserve the short delay: command
// mode and feature-keyword prefixes drive live completion.
func isCompletionStyle(query string) bool {
	trimmed := strings.TrimSpace(query)
	if strings.HasPrefix(trimmed, ">") {
		return true
	}
	return len(intent.Detect(query, query).Features) > 0
}
