// Package wheel converts mouse wheel events into inertial scroll velocity.
//
// The host's input hook calls Adapter.OnWheel (or Preprocess) before its own
// scroll handling. A handled event has already been turned into velocity on
// the shared scroll.State and must not also scroll the view; an unhandled
// event falls through unchanged.
//
// # Intensity
//
// Each event adds rawDelta*ScrollIntensity to the velocity, or
// rawDelta*ShiftScrollIntensity while Shift is held and shift scrolling is
// enabled. With PauseOnCtrl, Ctrl+wheel is left to the host (commonly zoom).
//
// # Interruption
//
// With InterruptOnDirectionChange, a delta whose sign opposes a velocity of at
// least MinimumScrollValue resets the velocity to exactly zero instead of
// being added. The next event in the new direction starts from rest. A
// velocity already under the minimum is treated as settled, so a reversal
// there simply adds.
package wheel
