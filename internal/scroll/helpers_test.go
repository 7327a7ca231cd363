package scroll

import (
	"context"
	"sync"
	"time"

	"github.com/dshills/inertia/internal/config"
)

type staticSource struct {
	mu  sync.Mutex
	cfg config.ScrollConfig
}

func newSource(mutate func(*config.ScrollConfig)) *staticSource {
	cfg := config.DefaultScrollConfig()
	if mutate != nil {
		mutate(&cfg)
	}
	return &staticSource{cfg: cfg.Normalize()}
}

func (s *staticSource) Current() config.ScrollConfig {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cfg
}

func (s *staticSource) set(mutate func(*config.ScrollConfig)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	mutate(&s.cfg)
	s.cfg = s.cfg.Normalize()
}

type recordingScroller struct {
	mu     sync.Mutex
	pixels []float64
}

func (r *recordingScroller) ScrollBy(pixels float64) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.pixels = append(r.pixels, pixels)
}

func (r *recordingScroller) calls() []float64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]float64, len(r.pixels))
	copy(out, r.pixels)
	return out
}

// inlineDispatcher runs commands on the calling goroutine.
type inlineDispatcher struct{}

func (inlineDispatcher) Invoke(ctx context.Context, fn func()) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	fn()
	return nil
}

type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func newFakeClock() *fakeClock {
	return &fakeClock{now: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)}
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}
