// Package kernel orchestrates one simulation step end to end: update
// enablement, partition the enabled set into discrete and continuous,
// resolve conflicts, commit the chosen discrete set atomically, then
// integrate the continuous set over the same timestep. Controller is
// grounded on engine.Engine's RWMutex-guarded, context-cancellable
// Run/Step/Stop shape, generalized from ODE-only to the full
// discrete+continuous pipeline.
package kernel

import (
	"context"
	"fmt"
	"log/slog"
	"math/rand"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/simao-eugenio/shypn-sub005/adapter"
	"github.com/simao-eugenio/shypn-sub005/behavior"
	"github.com/simao-eugenio/shypn-sub005/conflict"
	"github.com/simao-eugenio/shypn-sub005/integrate"
	"github.com/simao-eugenio/shypn-sub005/petri"
	"github.com/simao-eugenio/shypn-sub005/schedule"
	"github.com/simao-eugenio/shypn-sub005/stepexec"
)

// StepResult reports what happened during one Controller.Step call.
type StepResult struct {
	RunID string
	Time  float64
	Fired []string
	Err   error
}

// StepListener observes the outcome of every step. Implementations must
// not mutate the net from inside OnStep.
type StepListener interface {
	OnStep(StepResult)
}

// Option configures a Controller at construction time.
type Option func(*Controller)

// WithSeed fixes the controller's random source for reproducible
// stochastic runs.
func WithSeed(seed int64) Option {
	return func(c *Controller) { c.rng = rand.New(rand.NewSource(seed)) }
}

// WithDt sets the fixed integration/step timestep (default 0.1).
func WithDt(dt float64) Option {
	return func(c *Controller) { c.dt = dt }
}

// WithStrategy sets the maximal-set selection strategy (default largest).
func WithStrategy(s conflict.Strategy) Option {
	return func(c *Controller) { c.strategy = s }
}

// WithLogger overrides the controller's structured logger.
func WithLogger(l *slog.Logger) Option {
	return func(c *Controller) { c.log = l }
}

// Controller is the per-step pipeline orchestrator over a single net.
type Controller struct {
	mu sync.RWMutex

	net       *petri.Net
	adapter   *adapter.Adapter
	behaviors map[string]*behavior.Behavior
	tracker   *schedule.Tracker
	executor  *stepexec.Executor

	rng      *rand.Rand
	dt       float64
	strategy conflict.Strategy
	now      float64
	runID    string

	listeners []StepListener
	running   bool
	cancel    context.CancelFunc

	log         *slog.Logger
	warnedRates map[string]bool
}

// New builds a Controller over net. Every transition in net must compile
// successfully as a behavior.Behavior (a Continuous transition with an
// invalid rate_expr fails here, not on the first step).
func New(net *petri.Net, opts ...Option) (*Controller, error) {
	c := &Controller{
		net:         net,
		dt:          0.1,
		strategy:    conflict.StrategyLargest,
		runID:       uuid.NewString(),
		log:         slog.Default(),
		warnedRates: make(map[string]bool),
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.rng == nil {
		c.rng = rand.New(rand.NewSource(1))
	}
	c.tracker = schedule.New(c.rng)
	c.executor = stepexec.NewExecutor()
	c.adapter = adapter.New(net, c.logicalTime)

	c.behaviors = make(map[string]*behavior.Behavior, len(net.Transitions()))
	for _, t := range net.Transitions() {
		b, err := behavior.New(t)
		if err != nil {
			return nil, fmt.Errorf("kernel: %w", err)
		}
		c.behaviors[t.ID] = b
	}

	net.Subscribe(c.onStructuralEvent)
	return c, nil
}

func (c *Controller) logicalTime() float64 {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.now
}

func (c *Controller) onStructuralEvent(e petri.Event) {
	switch e.Kind {
	case petri.EventTransitionRemoved:
		delete(c.behaviors, e.ID)
		c.tracker.Forget(e.ID)
		delete(c.warnedRates, e.ID)
	case petri.EventTransitionAdded:
		if t, ok := c.net.Transition(e.ID); ok {
			if b, err := behavior.New(t); err == nil {
				c.behaviors[e.ID] = b
			} else {
				c.log.Warn("kernel: transition added with invalid behavior", "transition", e.ID, "error", err)
			}
		}
	}
}

// RegisterStepListener adds l to the set notified after every Step. The
// data collector package is expected to be among the first registered,
// per the controller pipeline's observer-ordering convention.
func (c *Controller) RegisterStepListener(l StepListener) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.listeners = append(c.listeners, l)
}

// RunID returns this controller's run identifier, stable for its
// lifetime.
func (c *Controller) RunID() string { return c.runID }

// Now returns the controller's current logical time.
func (c *Controller) Now() float64 {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.now
}

// Step runs exactly one pipeline iteration: schedule update, enablement
// partition, conflict resolution, atomic discrete commit, continuous
// integration, time advance, listener notification.
func (c *Controller) Step() StepResult {
	c.mu.Lock()
	defer c.mu.Unlock()
	result := c.stepLocked()
	for _, l := range c.listeners {
		l.OnStep(result)
	}
	return result
}

func (c *Controller) stepLocked() StepResult {
	now := c.now
	result := StepResult{RunID: c.runID, Time: now}

	c.tracker.Update(now, c.adapter, c.behaviors)
	discrete, continuous := c.tracker.Enabled(now, c.adapter, c.behaviors)

	// Snapshot the continuous set C before any discrete commit, per the
	// integrator's ordering requirement.
	flows := make([]integrate.Flow, 0, len(continuous))
	for _, t := range continuous {
		flows = append(flows, integrate.BuildFlow(c.adapter, c.behaviors[t.ID]))
	}

	if len(discrete) > 0 {
		g := conflict.Build(c.adapter, discrete)
		sets := conflict.MaximalSets(g)
		chosen, err := conflict.Select(c.strategy, sets, c.rng)
		if err != nil {
			result.Err = err
			c.log.Error("kernel: set selection failed", "run", c.runID, "error", err)
			return result
		}
		ordered := conflict.Order(chosen, c.tracker.EnablementTime, c.rng)

		burst := make(map[string]int, len(ordered))
		for _, t := range ordered {
			if t.Kind == petri.Stochastic {
				burst[t.ID] = c.behaviors[t.ID].BurstCount(c.rng, c.dt)
			}
		}

		_, fired, err := c.executor.Step(&stepexec.StepContext{
			Adapter:   c.adapter,
			Behaviors: c.behaviors,
			Ordered:   ordered,
			Now:       now,
			Burst:     burst,
		})
		if err != nil {
			result.Err = err
			c.log.Error("kernel: step commit failed", "run", c.runID, "error", err)
		} else {
			result.Fired = fired
		}
	}

	if len(flows) > 0 {
		shadow := make(integrate.Shadow)
		for _, p := range c.net.Places() {
			shadow[p.ID] = float64(p.Tokens)
		}
		onRateFail := func(transitionID string, err error) {
			if c.warnedRates[transitionID] {
				return
			}
			c.warnedRates[transitionID] = true
			c.log.Warn("kernel: rate evaluation failed, substituting 0 for this step", "run", c.runID, "transition", transitionID, "error", err)
		}
		next := integrate.RK4Step(c.dt, shadow, flows, now, onRateFail)
		for id, v := range next {
			if p, ok := c.net.Place(id); ok {
				p.Tokens = int(v + 0.5)
			}
		}
	}

	c.now = now + c.dt
	return result
}

// Run starts a background loop calling Step once per interval until ctx
// is cancelled or Stop is called.
func (c *Controller) Run(ctx context.Context, interval time.Duration) error {
	c.mu.Lock()
	if c.running {
		c.mu.Unlock()
		return ErrAlreadyRunning
	}
	c.running = true
	childCtx, cancel := context.WithCancel(ctx)
	c.cancel = cancel
	c.mu.Unlock()

	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-childCtx.Done():
				c.mu.Lock()
				c.running = false
				c.mu.Unlock()
				return
			case <-ticker.C:
				c.Step()
			}
		}
	}()
	return nil
}

// Stop halts a Run loop started on this controller.
func (c *Controller) Stop() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.cancel != nil {
		c.cancel()
		c.cancel = nil
	}
	c.running = false
}

// IsRunning reports whether a Run loop is active.
func (c *Controller) IsRunning() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.running
}

// Reset restores every place to its initial marking and the clock to
// zero. Calling Reset twice in a row is idempotent.
func (c *Controller) Reset() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.net.Reset()
	c.now = 0
	c.tracker = schedule.New(c.rng)
	c.warnedRates = make(map[string]bool)
}

// Net returns the underlying net. Callers must not mutate it
// concurrently with a running controller.
func (c *Controller) Net() *petri.Net { return c.net }
