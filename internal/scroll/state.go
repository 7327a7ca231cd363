package scroll

import (
	"math"
	"sync"
	"time"
)

// MaxDeltaTime caps the seconds a single tick may integrate over. A loop that
// was descheduled or disabled for a while resumes with a bounded step
// instead of jumping the viewport.
const MaxDeltaTime = 0.25

// State is the velocity shared between wheel input and the tick loop.
// The zero value is an idle state ready for use.
type State struct {
	mu sync.Mutex

	// Signed pixels per second of scroll. Positive scrolls down.
	velocity float64

	// Monotonic reading taken by the previous tick. Zero before the first.
	lastTick time.Time

	// Seconds between the two most recent ticks.
	deltaTime float64
}

// Snapshot is a consistent copy of a State.
type Snapshot struct {
	Velocity  float64
	LastTick  time.Time
	DeltaTime float64
}

// Velocity returns the current velocity.
func (s *State) Velocity() float64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.velocity
}

// DeltaTime returns the seconds elapsed between the last two ticks.
func (s *State) DeltaTime() float64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.deltaTime
}

// Snapshot returns all fields read under one lock acquisition.
func (s *State) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return Snapshot{
		Velocity:  s.velocity,
		LastTick:  s.lastTick,
		DeltaTime: s.deltaTime,
	}
}

// Update replaces the velocity with fn(velocity) while holding the lock and
// returns the new value. fn must not block or call back into the State.
func (s *State) Update(fn func(velocity float64) float64) float64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.velocity = fn(s.velocity)
	return s.velocity
}

// Reset stops all motion.
func (s *State) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.velocity = 0
}

// mark records now as the previous tick without producing a delta.
func (s *State) mark(now time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lastTick = now
	s.deltaTime = 0
}

// advance records a tick at now and returns the elapsed seconds since the
// previous one, clamped to [0, MaxDeltaTime]. The first tick yields 0.
func (s *State) advance(now time.Time) float64 {
	s.mu.Lock()
	defer s.mu.Unlock()

	dt := 0.0
	if !s.lastTick.IsZero() {
		dt = now.Sub(s.lastTick).Seconds()
	}
	switch {
	case dt < 0:
		dt = 0
	case dt > MaxDeltaTime:
		dt = MaxDeltaTime
	}

	s.lastTick = now
	s.deltaTime = dt
	return dt
}

// decay moves the velocity toward zero by dt*deceleration and snaps it to
// zero once its magnitude drops under minimum. It returns the velocity after
// decay and whether motion continues.
func (s *State) decay(dt, deceleration, minimum float64) (float64, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.velocity = Lerp(s.velocity, 0, clamp01(dt*deceleration))
	if math.Abs(s.velocity) < minimum || math.IsNaN(s.velocity) {
		s.velocity = 0
		return 0, false
	}
	return s.velocity, true
}
