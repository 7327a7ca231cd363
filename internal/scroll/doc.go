// Package scroll implements the inertial scrolling engine.
//
// A State holds a signed scroll velocity in pixels. Wheel input (see package
// wheel) adds to it; the Engine decays it on a fixed interval and asks the
// viewport to move by velocity*deltaTime pixels each tick until the velocity
// falls under the configured minimum, at which point it snaps to zero.
//
// # Threads
//
// Two goroutines touch a State: whatever goroutine delivers wheel events, and
// the Engine's tick goroutine. Both go through the State's mutex, and the lock
// is never held while a scroll command is handed to the viewport owner.
//
// Scroll commands are delivered through a Dispatcher, normally an
// owner.Executor drained by the goroutine that owns the viewport:
//
//	exec := owner.New(64)
//	eng := scroll.New(cfg, view, exec, scroll.WithLogger(log))
//	eng.Start()
//	defer eng.Stop()
//
// # Decay
//
// Each tick computes
//
//	velocity = Lerp(velocity, 0, clamp(deltaTime*deceleration, 0, 1))
//
// so higher deceleration stops sooner and the result never crosses zero.
package scroll
