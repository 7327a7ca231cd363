package viewport

// ScrollState is a consistent snapshot of the scroll position.
type ScrollState struct {
	Offset     float64
	TopLine    uint32
	SubLine    float64
	LinePixels int
	AtTop      bool
	AtBottom   bool
}

// GetScrollState returns the current scroll state.
func (v *Viewport) GetScrollState() ScrollState {
	v.mu.RLock()
	defer v.mu.RUnlock()

	top := v.topLine()
	return ScrollState{
		Offset:     v.offset,
		TopLine:    top,
		SubLine:    v.offset - float64(top)*float64(v.linePixels),
		LinePixels: v.linePixels,
		AtTop:      v.offset == 0,
		AtBottom:   v.offset >= v.maxOffset(),
	}
}

// ScrollBy moves the position by pixels, positive toward the end of the
// document. The result is clamped; scrolling past either end stops there.
func (v *Viewport) ScrollBy(pixels float64) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.setOffset(v.offset + pixels)
}

// ScrollLines moves the position by whole lines and aligns it to a line
// boundary.
func (v *Viewport) ScrollLines(delta int) {
	v.mu.Lock()
	defer v.mu.Unlock()

	line := int64(v.topLine()) + int64(delta)
	if delta < 0 && v.offset > float64(v.topLine())*float64(v.linePixels) {
		// A partly hidden top line counts as the first step up.
		line++
	}
	if line < 0 {
		line = 0
	}
	v.setOffset(float64(line) * float64(v.linePixels))
}

// ScrollTo makes line the top line.
func (v *Viewport) ScrollTo(line uint32) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.setOffset(float64(line) * float64(v.linePixels))
}

// PageUp scrolls up by one page, keeping one line of context.
func (v *Viewport) PageUp() {
	v.ScrollLines(-v.pageLines())
}

// PageDown scrolls down by one page, keeping one line of context.
func (v *Viewport) PageDown() {
	v.ScrollLines(v.pageLines())
}

func (v *Viewport) pageLines() int {
	h := v.Height()
	if h > 1 {
		return h - 1
	}
	return 1
}

// ScrollToTop scrolls to the beginning of the document.
func (v *Viewport) ScrollToTop() {
	v.ScrollTo(0)
}

// ScrollToBottom scrolls so the last line is on the bottom row.
func (v *Viewport) ScrollToBottom() {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.setOffset(v.maxOffset())
}

// ScrollPercent returns how far through the document we've scrolled (0.0 to 1.0).
func (v *Viewport) ScrollPercent() float64 {
	v.mu.RLock()
	defer v.mu.RUnlock()

	max := v.maxOffset()
	if max == 0 {
		return 0
	}
	return v.offset / max
}

// ScrollToPercent scrolls to a fraction of the document.
func (v *Viewport) ScrollToPercent(percent float64) {
	if percent < 0 {
		percent = 0
	}
	if percent > 1 {
		percent = 1
	}

	v.mu.Lock()
	defer v.mu.Unlock()
	v.setOffset(v.maxOffset() * percent)
}
