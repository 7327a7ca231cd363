package wheel

import (
	"math"

	"go.uber.org/zap"

	"github.com/dshills/inertia/internal/config"
	"github.com/dshills/inertia/internal/scroll"
)

// Notch is the raw delta reported for one detent of a standard wheel.
const Notch = 120

// Source supplies the current scroll settings.
type Source interface {
	Current() config.ScrollConfig
}

// Event is a wheel event as delivered by the host's input hook, before the
// host's default scroll handling runs.
type Event struct {
	// Delta is the raw wheel delta. Positive scrolls down.
	Delta int

	// Modifiers are the keys held during the event.
	Modifiers Modifier

	// Handled is set when the adapter consumed the event. The host must
	// skip its default scrolling for handled events.
	Handled bool
}

// Adapter turns wheel events into velocity changes on a scroll.State.
type Adapter struct {
	state  *scroll.State
	source Source
	logger *zap.Logger
}

// Option configures an Adapter.
type Option func(*Adapter)

// WithLogger sets the logger.
func WithLogger(l *zap.Logger) Option {
	return func(a *Adapter) {
		if l != nil {
			a.logger = l
		}
	}
}

// NewAdapter creates an adapter feeding state.
func NewAdapter(state *scroll.State, source Source, opts ...Option) *Adapter {
	a := &Adapter{
		state:  state,
		source: source,
		logger: zap.NewNop(),
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Preprocess runs OnWheel for ev and records the outcome in ev.Handled.
func (a *Adapter) Preprocess(ev *Event) {
	ev.Handled = a.OnWheel(ev.Delta, ev.Modifiers)
}

// OnWheel applies one wheel event. It returns false when the event should
// fall through to default handling: inertial scrolling is disabled, or Ctrl
// is held and PauseOnCtrl is set. Otherwise the velocity either grows by
// rawDelta times the active intensity, or, when the wheel turned against
// the current motion, is reset to zero.
func (a *Adapter) OnWheel(rawDelta int, mods Modifier) bool {
	cfg := a.source.Current()
	if !cfg.Enabled {
		return false
	}
	if cfg.PauseOnCtrl && mods.HasCtrl() {
		return false
	}

	intensity := cfg.ScrollIntensity
	if cfg.ShiftScrollEnabled && mods.HasShift() {
		intensity = cfg.ShiftScrollIntensity
	}

	interrupted := false
	velocity := a.state.Update(func(v float64) float64 {
		if cfg.InterruptOnDirectionChange && ShouldInterrupt(v, rawDelta, cfg.MinimumScrollValue) {
			interrupted = true
			return 0
		}
		return v + float64(rawDelta)*intensity
	})

	if interrupted {
		a.logger.Debug("scroll interrupted", zap.Int("delta", rawDelta))
	} else if ce := a.logger.Check(zap.DebugLevel, "wheel"); ce != nil {
		ce.Write(
			zap.Int("delta", rawDelta),
			zap.Stringer("mods", mods),
			zap.Float64("velocity", velocity),
		)
	}
	return true
}

// ShouldInterrupt reports whether the adapter's current motion would be
// interrupted by a wheel delta, using the current settings.
func (a *Adapter) ShouldInterrupt(rawDelta int) bool {
	cfg := a.source.Current()
	return ShouldInterrupt(a.state.Velocity(), rawDelta, cfg.MinimumScrollValue)
}

// ShouldInterrupt reports whether rawDelta opposes velocity strongly enough
// to stop it. Motion slower than minimum is already settling and is never
// interrupted; the delta is added to it instead.
func ShouldInterrupt(velocity float64, rawDelta int, minimum float64) bool {
	if velocity == 0 || rawDelta == 0 {
		return false
	}
	if math.Abs(velocity) < minimum {
		return false
	}
	return velocity*float64(rawDelta) < 0
}
