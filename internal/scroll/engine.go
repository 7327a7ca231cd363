package scroll

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/dshills/inertia/internal/config"
)

// Source supplies the current scroll settings. Implementations must return a
// consistent, normalized snapshot on every call; the engine never caches it.
type Source interface {
	Current() config.ScrollConfig
}

// Scroller is the viewport operation the engine drives.
type Scroller interface {
	ScrollBy(pixels float64)
}

// Dispatcher runs fn on the goroutine that owns the viewport and waits for it
// to finish, or returns early with an error if ctx ends or the owner is gone.
type Dispatcher interface {
	Invoke(ctx context.Context, fn func()) error
}

// Clock provides monotonic time readings.
type Clock interface {
	Now() time.Time
}

type systemClock struct{}

func (systemClock) Now() time.Time { return time.Now() }

// Engine runs the periodic decay loop for one view.
type Engine struct {
	state      *State
	source     Source
	view       Scroller
	dispatcher Dispatcher
	clock      Clock
	logger     *zap.Logger

	// Limits how often skipped dispatches are logged.
	skipLog rate.Sometimes

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup

	mu      sync.Mutex
	started bool
}

// Option configures an Engine.
type Option func(*Engine)

// WithState shares an existing State, typically the one a wheel adapter
// writes to.
func WithState(s *State) Option {
	return func(e *Engine) {
		if s != nil {
			e.state = s
		}
	}
}

// WithClock replaces the system clock.
func WithClock(c Clock) Option {
	return func(e *Engine) {
		if c != nil {
			e.clock = c
		}
	}
}

// WithLogger sets the logger.
func WithLogger(l *zap.Logger) Option {
	return func(e *Engine) {
		if l != nil {
			e.logger = l
		}
	}
}

// New creates an engine that scrolls view through dispatcher using settings
// from source. The tick loop does not run until Start.
func New(source Source, view Scroller, dispatcher Dispatcher, opts ...Option) *Engine {
	ctx, cancel := context.WithCancel(context.Background())
	e := &Engine{
		state:      &State{},
		source:     source,
		view:       view,
		dispatcher: dispatcher,
		clock:      systemClock{},
		logger:     zap.NewNop(),
		skipLog:    rate.Sometimes{Interval: time.Second},
		ctx:        ctx,
		cancel:     cancel,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// State returns the velocity state driven by this engine.
func (e *Engine) State() *State {
	return e.state
}

// Velocity returns the current velocity.
func (e *Engine) Velocity() float64 {
	return e.state.Velocity()
}

// Start launches the tick loop. Calling Start more than once, or after
// Stop, has no effect.
func (e *Engine) Start() {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.started || e.ctx.Err() != nil {
		return
	}
	e.started = true

	e.wg.Add(1)
	go e.loop()
}

// Stop terminates the tick loop, cancels any scroll command still waiting on
// the owner, and waits for the loop goroutine to exit. It is idempotent and
// safe to call before Start. Stop must not be called from the tick goroutine.
func (e *Engine) Stop() {
	// Under mu so a concurrent Start either sees the cancellation or has
	// already called wg.Add.
	e.mu.Lock()
	e.cancel()
	e.mu.Unlock()
	e.wg.Wait()
}

// Done is closed once Stop has been called.
func (e *Engine) Done() <-chan struct{} {
	return e.ctx.Done()
}

// Tick runs one update: it measures the time since the previous tick, decays
// the velocity and emits a scroll command if motion continues. A disabled
// configuration leaves the state untouched.
func (e *Engine) Tick() {
	cfg := e.source.Current()
	if !cfg.Enabled {
		return
	}
	dt := e.state.advance(e.clock.Now())
	e.step(cfg, dt)
}

// Step runs the decay and emit phase with an explicit delta in seconds,
// bypassing the clock. dt is clamped like a measured delta.
func (e *Engine) Step(dt float64) {
	cfg := e.source.Current()
	if !cfg.Enabled {
		return
	}
	switch {
	case !(dt > 0):
		dt = 0
	case dt > MaxDeltaTime:
		dt = MaxDeltaTime
	}
	e.step(cfg, dt)
}

func (e *Engine) step(cfg config.ScrollConfig, dt float64) {
	velocity, moving := e.state.decay(dt, cfg.DecelerationSpeed, cfg.MinimumScrollValue)
	if !moving || dt == 0 {
		return
	}
	e.dispatch(velocity * dt)
}

// dispatch hands a scroll command to the viewport owner. The state lock is not
// held here.
func (e *Engine) dispatch(pixels float64) {
	err := e.dispatcher.Invoke(e.ctx, func() {
		e.view.ScrollBy(pixels)
	})
	if err != nil {
		e.skipLog.Do(func() {
			e.logger.Debug("scroll command skipped",
				zap.Float64("pixels", pixels),
				zap.Error(err),
			)
		})
	}
}

func (e *Engine) loop() {
	defer e.wg.Done()

	e.state.mark(e.clock.Now())
	e.logger.Debug("tick loop started")

	timer := time.NewTimer(e.source.Current().TickInterval())
	defer timer.Stop()

	for {
		select {
		case <-e.ctx.Done():
			e.logger.Debug("tick loop stopped")
			return
		case <-timer.C:
		}

		e.Tick()
		timer.Reset(e.source.Current().TickInterval())
	}
}
