// Package viewport tracks the vertical scroll position of a line document
// with pixel precision.
//
// The position is an offset in scroll pixels from the top of the document.
// A line is LinePixels tall, so the first visible line is offset/LinePixels
// and the remainder is the sub-line offset that a renderer may use for
// smooth drawing. The offset is clamped to [0, MaxOffset] on every change.
package viewport

import (
	"math"
	"sync"
)

// DefaultLinePixels is the height of one line when none is configured.
const DefaultLinePixels = 16

// Viewport represents the visible portion of a document.
type Viewport struct {
	mu sync.RWMutex

	// Scroll position in pixels from the top of the document
	offset float64

	// Height of one line in pixels
	linePixels int

	// Size in screen cells
	width  int
	height int

	// Number of lines in the document
	maxLine uint32
}

// NewViewport creates a viewport with the given size.
// Width and height are clamped to a minimum of 1 to prevent underflow.
func NewViewport(width, height int) *Viewport {
	if width < 1 {
		width = 1
	}
	if height < 1 {
		height = 1
	}

	return &Viewport{
		width:      width,
		height:     height,
		linePixels: DefaultLinePixels,
	}
}

// Width returns the viewport width.
func (v *Viewport) Width() int {
	v.mu.RLock()
	defer v.mu.RUnlock()
	return v.width
}

// Height returns the viewport height.
func (v *Viewport) Height() int {
	v.mu.RLock()
	defer v.mu.RUnlock()
	return v.height
}

// LinePixels returns the height of one line in pixels.
func (v *Viewport) LinePixels() int {
	v.mu.RLock()
	defer v.mu.RUnlock()
	return v.linePixels
}

// SetLinePixels changes the line height. The top line stays in place and
// the sub-line offset is scaled to the new height.
func (v *Viewport) SetLinePixels(px int) {
	if px < 1 {
		px = 1
	}

	v.mu.Lock()
	defer v.mu.Unlock()

	if px == v.linePixels {
		return
	}
	lines := v.offset / float64(v.linePixels)
	v.linePixels = px
	v.setOffset(lines * float64(px))
}

// Resize updates the viewport size.
// Width and height are clamped to a minimum of 1 to prevent underflow.
func (v *Viewport) Resize(width, height int) {
	v.mu.Lock()
	defer v.mu.Unlock()

	if width < 1 {
		width = 1
	}
	if height < 1 {
		height = 1
	}

	v.width = width
	v.height = height
	v.setOffset(v.offset)
}

// SetMaxLine sets the number of lines in the document.
func (v *Viewport) SetMaxLine(maxLine uint32) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.maxLine = maxLine
	v.setOffset(v.offset)
}

// MaxLine returns the number of lines in the document.
func (v *Viewport) MaxLine() uint32 {
	v.mu.RLock()
	defer v.mu.RUnlock()
	return v.maxLine
}

// Offset returns the scroll position in pixels.
func (v *Viewport) Offset() float64 {
	v.mu.RLock()
	defer v.mu.RUnlock()
	return v.offset
}

// MaxOffset returns the largest scroll position, the one that puts the last
// line on the bottom row.
func (v *Viewport) MaxOffset() float64 {
	v.mu.RLock()
	defer v.mu.RUnlock()
	return v.maxOffset()
}

func (v *Viewport) maxOffset() float64 {
	if v.maxLine <= uint32(v.height) {
		return 0
	}
	return float64(v.maxLine-uint32(v.height)) * float64(v.linePixels)
}

// setOffset stores offset clamped to [0, maxOffset]. Caller holds the lock.
func (v *Viewport) setOffset(offset float64) {
	if math.IsNaN(offset) {
		return
	}
	if offset < 0 {
		offset = 0
	}
	if max := v.maxOffset(); offset > max {
		offset = max
	}
	v.offset = offset
}

// TopLine returns the first visible line.
func (v *Viewport) TopLine() uint32 {
	v.mu.RLock()
	defer v.mu.RUnlock()
	return v.topLine()
}

func (v *Viewport) topLine() uint32 {
	return uint32(v.offset / float64(v.linePixels))
}

// SubLineOffset returns how far the top line is scrolled out of view, in
// pixels, in [0, LinePixels).
func (v *Viewport) SubLineOffset() float64 {
	v.mu.RLock()
	defer v.mu.RUnlock()
	return v.offset - float64(v.topLine())*float64(v.linePixels)
}

// BottomLine returns the last visible line.
func (v *Viewport) BottomLine() uint32 {
	v.mu.RLock()
	defer v.mu.RUnlock()
	return v.bottomLine()
}

// bottomLine returns the last visible line (internal, no lock).
func (v *Viewport) bottomLine() uint32 {
	top := v.topLine()
	bottom := top + uint32(v.height) - 1
	if v.maxLine > 0 && bottom > v.maxLine-1 {
		bottom = v.maxLine - 1
	}
	return bottom
}

// VisibleLineRange returns the range of visible document lines.
func (v *Viewport) VisibleLineRange() (start, end uint32) {
	v.mu.RLock()
	defer v.mu.RUnlock()
	return v.topLine(), v.bottomLine()
}

// IsLineVisible returns true if the line is within the viewport.
func (v *Viewport) IsLineVisible(line uint32) bool {
	v.mu.RLock()
	defer v.mu.RUnlock()
	return line >= v.topLine() && line <= v.bottomLine()
}

// LineToScreenRow converts a document line to a screen row.
// Returns -1 if the line is not visible.
func (v *Viewport) LineToScreenRow(line uint32) int {
	v.mu.RLock()
	defer v.mu.RUnlock()

	top := v.topLine()
	if line < top || line > v.bottomLine() {
		return -1
	}
	return int(line - top)
}

// ScreenRowToLine converts a screen row to a document line.
func (v *Viewport) ScreenRowToLine(row int) uint32 {
	v.mu.RLock()
	defer v.mu.RUnlock()

	top := v.topLine()
	if row < 0 {
		return top
	}
	line := top + uint32(row)
	if v.maxLine > 0 && line >= v.maxLine {
		line = v.maxLine - 1
	}
	return line
}
