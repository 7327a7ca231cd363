package wheel

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"github.com/dshills/inertia/internal/config"
	"github.com/dshills/inertia/internal/scroll"
)

type staticSource struct {
	cfg config.ScrollConfig
}

func (s staticSource) Current() config.ScrollConfig { return s.cfg }

func newAdapter(mutate func(*config.ScrollConfig)) (*Adapter, *scroll.State) {
	cfg := config.DefaultScrollConfig()
	if mutate != nil {
		mutate(&cfg)
	}
	state := &scroll.State{}
	return NewAdapter(state, staticSource{cfg: cfg.Normalize()}), state
}

func setVelocity(s *scroll.State, v float64) {
	s.Update(func(float64) float64 { return v })
}

func TestOnWheel_AddsScaledDelta(t *testing.T) {
	a, state := newAdapter(func(c *config.ScrollConfig) {
		c.ScrollIntensity = 4
	})

	require.True(t, a.OnWheel(3, ModNone))
	assert.Equal(t, 12.0, state.Velocity())
}

func TestOnWheel_ShiftUsesShiftIntensity(t *testing.T) {
	a, state := newAdapter(func(c *config.ScrollConfig) {
		c.ScrollIntensity = 4
		c.ShiftScrollIntensity = 30
	})

	require.True(t, a.OnWheel(2, ModShift))
	assert.Equal(t, 60.0, state.Velocity())
}

func TestOnWheel_ShiftDisabledUsesNormalIntensity(t *testing.T) {
	a, state := newAdapter(func(c *config.ScrollConfig) {
		c.ScrollIntensity = 4
		c.ShiftScrollIntensity = 30
		c.ShiftScrollEnabled = false
	})

	require.True(t, a.OnWheel(2, ModShift))
	assert.Equal(t, 8.0, state.Velocity())
}

func TestOnWheel_DisabledPassesThrough(t *testing.T) {
	a, state := newAdapter(func(c *config.ScrollConfig) {
		c.Enabled = false
	})
	setVelocity(state, 7)

	assert.False(t, a.OnWheel(Notch, ModNone))
	assert.Equal(t, 7.0, state.Velocity())
}

func TestOnWheel_PauseOnCtrl(t *testing.T) {
	tests := []struct {
		name        string
		pauseOnCtrl bool
		mods        Modifier
		handled     bool
		want        float64
	}{
		{"ctrl paused", true, ModCtrl, false, 0},
		{"ctrl shift paused", true, ModCtrl | ModShift, false, 0},
		{"ctrl not paused", false, ModCtrl, true, 4},
		{"no ctrl", true, ModAlt, true, 4},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a, state := newAdapter(func(c *config.ScrollConfig) {
				c.ScrollIntensity = 4
				c.PauseOnCtrl = tt.pauseOnCtrl
			})

			assert.Equal(t, tt.handled, a.OnWheel(1, tt.mods))
			assert.Equal(t, tt.want, state.Velocity())
		})
	}
}

func TestOnWheel_DirectionChangeInterrupts(t *testing.T) {
	a, state := newAdapter(func(c *config.ScrollConfig) {
		c.MinimumScrollValue = 0.1
	})
	setVelocity(state, 5)

	require.True(t, a.OnWheel(-1, ModNone))
	assert.Equal(t, 0.0, state.Velocity())

	// The next event in the new direction starts from rest.
	require.True(t, a.OnWheel(-1, ModNone))
	assert.Equal(t, -4.0, state.Velocity())
}

func TestOnWheel_InterruptDisabledAdds(t *testing.T) {
	a, state := newAdapter(func(c *config.ScrollConfig) {
		c.InterruptOnDirectionChange = false
	})
	setVelocity(state, 5)

	require.True(t, a.OnWheel(-1, ModNone))
	assert.Equal(t, 1.0, state.Velocity())
}

func TestOnWheel_SettlingVelocityNotInterrupted(t *testing.T) {
	a, state := newAdapter(func(c *config.ScrollConfig) {
		c.MinimumScrollValue = 0.1
	})
	setVelocity(state, 0.05)

	require.True(t, a.OnWheel(-1, ModNone))
	assert.InDelta(t, -3.95, state.Velocity(), 1e-12)
}

func TestOnWheel_SameDirectionAccumulates(t *testing.T) {
	a, state := newAdapter(nil)

	prev := 0.0
	for i := 0; i < 20; i++ {
		require.True(t, a.OnWheel(Notch, ModNone))
		v := state.Velocity()
		require.Greater(t, v, prev, "event %d did not increase velocity", i)
		prev = v
	}

	prev = 0
	setVelocity(state, 0)
	for i := 0; i < 20; i++ {
		require.True(t, a.OnWheel(-Notch, ModNone))
		v := state.Velocity()
		require.Less(t, v, prev, "event %d did not decrease velocity", i)
		prev = v
	}
}

func TestOnWheel_ZeroDeltaIsHandled(t *testing.T) {
	a, state := newAdapter(nil)
	setVelocity(state, 9)

	assert.True(t, a.OnWheel(0, ModNone))
	assert.Equal(t, 9.0, state.Velocity())
}

func TestPreprocess(t *testing.T) {
	a, state := newAdapter(nil)

	ev := Event{Delta: 2, Modifiers: ModNone}
	a.Preprocess(&ev)
	assert.True(t, ev.Handled)
	assert.Equal(t, 8.0, state.Velocity())

	ev = Event{Delta: 2, Modifiers: ModCtrl}
	a.Preprocess(&ev)
	assert.False(t, ev.Handled)
	assert.Equal(t, 8.0, state.Velocity())
}

func TestShouldInterrupt(t *testing.T) {
	tests := []struct {
		name     string
		velocity float64
		delta    int
		minimum  float64
		want     bool
	}{
		{"at rest", 0, -1, 0.1, false},
		{"zero delta", 5, 0, 0.1, false},
		{"same direction", 5, 3, 0.1, false},
		{"opposite down", 5, -1, 0.1, true},
		{"opposite up", -5, 1, 0.1, true},
		{"below minimum", 0.05, -1, 0.1, false},
		{"at minimum", 0.1, -1, 0.1, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ShouldInterrupt(tt.velocity, tt.delta, tt.minimum))
		})
	}
}

func TestAdapter_ShouldInterruptReadsState(t *testing.T) {
	a, state := newAdapter(nil)
	assert.False(t, a.ShouldInterrupt(-1))

	setVelocity(state, 12)
	assert.True(t, a.ShouldInterrupt(-1))
	assert.False(t, a.ShouldInterrupt(1))
}

func TestOnWheel_LogsInterrupt(t *testing.T) {
	core, logs := observer.New(zap.DebugLevel)
	cfg := config.DefaultScrollConfig()
	state := &scroll.State{}
	a := NewAdapter(state, staticSource{cfg: cfg}, WithLogger(zap.New(core)))

	a.OnWheel(1, ModNone)
	a.OnWheel(-1, ModNone)

	assert.Equal(t, 1, logs.FilterMessage("wheel").Len())
	require.Equal(t, 1, logs.FilterMessage("scroll interrupted").Len())
	assert.Equal(t, int64(-1), logs.FilterMessage("scroll interrupted").All()[0].ContextMap()["delta"])
}

func TestOnWheel_ConcurrentEventsAreNotLost(t *testing.T) {
	const goroutines, events = 8, 250

	a, state := newAdapter(func(c *config.ScrollConfig) {
		c.ScrollIntensity = 1
	})

	var wg sync.WaitGroup
	for g := 0; g < goroutines; g++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := 0; i < events; i++ {
				a.OnWheel(1, ModNone)
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, float64(goroutines*events), state.Velocity())
}
