package config

import (
	"math"
	"time"
)

// Limits applied by ScrollConfig.Normalize. Lower bounds follow the values the
// settings page has always enforced; upper bounds keep the decay arithmetic
// finite.
const (
	MinScrollIntensity    = 0.01
	MaxScrollIntensity    = 10000.0
	MinDecelerationSpeed  = 0.01
	MaxDecelerationSpeed  = 1000.0
	MinMinimumScrollValue = 0.01
	MaxMinimumScrollValue = 1000.0
	MinTickIntervalMs     = 1
	MaxTickIntervalMs     = 1000
)

// Default scroll settings.
const (
	DefaultScrollIntensity      = 4.0
	DefaultShiftScrollIntensity = 30.0
	DefaultDecelerationSpeed    = 6.0
	DefaultMinimumScrollValue   = 0.1
	DefaultTickIntervalMs       = 5
)

// ScrollConfig holds the tunables of inertial scrolling. Values obtained from
// Config are already normalized; callers constructing one by hand should call
// Normalize before handing it to the engine.
type ScrollConfig struct {
	// Enabled turns inertial scrolling on. When off, wheel events fall through
	// to the host's default handling.
	Enabled bool

	// ScrollIntensity is the velocity added per unit of raw wheel delta.
	ScrollIntensity float64

	// ShiftScrollEnabled selects ShiftScrollIntensity while Shift is held.
	ShiftScrollEnabled bool

	// ShiftScrollIntensity replaces ScrollIntensity while Shift is held.
	ShiftScrollIntensity float64

	// DecelerationSpeed is the decay rate; higher stops sooner.
	DecelerationSpeed float64

	// MinimumScrollValue is the velocity magnitude under which motion stops.
	MinimumScrollValue float64

	// InterruptOnDirectionChange stops motion when the wheel turns the other way.
	InterruptOnDirectionChange bool

	// PauseOnCtrl passes wheel events through while Ctrl is held.
	PauseOnCtrl bool

	// TickIntervalMs is the engine update period in milliseconds.
	TickIntervalMs int
}

// DefaultScrollConfig returns the built-in scroll settings.
func DefaultScrollConfig() ScrollConfig {
	return ScrollConfig{
		Enabled:                    true,
		ScrollIntensity:            DefaultScrollIntensity,
		ShiftScrollEnabled:         true,
		ShiftScrollIntensity:       DefaultShiftScrollIntensity,
		DecelerationSpeed:          DefaultDecelerationSpeed,
		MinimumScrollValue:         DefaultMinimumScrollValue,
		InterruptOnDirectionChange: true,
		PauseOnCtrl:                true,
		TickIntervalMs:             DefaultTickIntervalMs,
	}
}

// Normalize returns a copy with every numeric field clamped into its
// supported range. Non-finite values fall back to the default.
func (c ScrollConfig) Normalize() ScrollConfig {
	c.ScrollIntensity = clampFloat(c.ScrollIntensity, MinScrollIntensity, MaxScrollIntensity, DefaultScrollIntensity)
	c.ShiftScrollIntensity = clampFloat(c.ShiftScrollIntensity, MinScrollIntensity, MaxScrollIntensity, DefaultShiftScrollIntensity)
	c.DecelerationSpeed = clampFloat(c.DecelerationSpeed, MinDecelerationSpeed, MaxDecelerationSpeed, DefaultDecelerationSpeed)
	c.MinimumScrollValue = clampFloat(c.MinimumScrollValue, MinMinimumScrollValue, MaxMinimumScrollValue, DefaultMinimumScrollValue)

	if c.TickIntervalMs < MinTickIntervalMs {
		c.TickIntervalMs = MinTickIntervalMs
	}
	if c.TickIntervalMs > MaxTickIntervalMs {
		c.TickIntervalMs = MaxTickIntervalMs
	}
	return c
}

// TickInterval returns TickIntervalMs as a duration, clamped like Normalize.
func (c ScrollConfig) TickInterval() time.Duration {
	ms := c.TickIntervalMs
	if ms < MinTickIntervalMs {
		ms = MinTickIntervalMs
	}
	if ms > MaxTickIntervalMs {
		ms = MaxTickIntervalMs
	}
	return time.Duration(ms) * time.Millisecond
}

func clampFloat(v, lo, hi, fallback float64) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return fallback
	}
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
