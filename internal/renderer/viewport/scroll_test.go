package viewport

import (
	"math"
	"sync"
	"testing"
)

func newDocument(lines uint32) *Viewport {
	v := NewViewport(80, 10)
	v.SetMaxLine(lines)
	return v
}

func TestScrollBySubLine(t *testing.T) {
	v := newDocument(100)

	v.ScrollBy(0.1128)
	if v.TopLine() != 0 {
		t.Errorf("expected top line 0, got %d", v.TopLine())
	}
	if v.SubLineOffset() != 0.1128 {
		t.Errorf("expected sub-line offset 0.1128, got %v", v.SubLineOffset())
	}

	v.ScrollBy(20)
	if v.TopLine() != 1 {
		t.Errorf("expected top line 1, got %d", v.TopLine())
	}
	if got := v.SubLineOffset(); math.Abs(got-4.1128) > 1e-9 {
		t.Errorf("expected sub-line offset 4.1128, got %v", got)
	}
}

func TestScrollByClamps(t *testing.T) {
	v := newDocument(100)

	v.ScrollBy(-50)
	if v.Offset() != 0 {
		t.Errorf("expected offset 0, got %v", v.Offset())
	}

	v.ScrollBy(1e9)
	if v.Offset() != v.MaxOffset() {
		t.Errorf("expected offset %v, got %v", v.MaxOffset(), v.Offset())
	}
	if v.TopLine() != 90 {
		t.Errorf("expected top line 90, got %d", v.TopLine())
	}

	v.ScrollBy(math.Inf(1))
	if v.Offset() != v.MaxOffset() {
		t.Errorf("expected offset clamped for +Inf, got %v", v.Offset())
	}
	v.ScrollBy(math.NaN())
	if v.Offset() != v.MaxOffset() {
		t.Errorf("expected NaN ignored, got %v", v.Offset())
	}
}

func TestScrollByShortDocument(t *testing.T) {
	v := newDocument(3)

	v.ScrollBy(100)
	if v.Offset() != 0 {
		t.Errorf("expected a document that fits to stay at 0, got %v", v.Offset())
	}
}

func TestScrollLines(t *testing.T) {
	v := newDocument(100)

	v.ScrollLines(3)
	if v.TopLine() != 3 || v.SubLineOffset() != 0 {
		t.Errorf("expected line 3 aligned, got %d + %v", v.TopLine(), v.SubLineOffset())
	}

	v.ScrollBy(5)
	v.ScrollLines(1)
	if v.TopLine() != 4 || v.SubLineOffset() != 0 {
		t.Errorf("expected line 4 aligned, got %d + %v", v.TopLine(), v.SubLineOffset())
	}

	v.ScrollBy(5)
	v.ScrollLines(-1)
	if v.TopLine() != 4 || v.SubLineOffset() != 0 {
		t.Errorf("expected partly hidden line 4 revealed, got %d + %v", v.TopLine(), v.SubLineOffset())
	}

	v.ScrollLines(-100)
	if v.Offset() != 0 {
		t.Errorf("expected offset 0, got %v", v.Offset())
	}
}

func TestPageUpDown(t *testing.T) {
	v := newDocument(100)

	v.PageDown()
	if v.TopLine() != 9 {
		t.Errorf("expected top line 9, got %d", v.TopLine())
	}
	v.PageDown()
	if v.TopLine() != 18 {
		t.Errorf("expected top line 18, got %d", v.TopLine())
	}
	v.PageUp()
	if v.TopLine() != 9 {
		t.Errorf("expected top line 9, got %d", v.TopLine())
	}
}

func TestScrollToTopBottom(t *testing.T) {
	v := newDocument(100)

	v.ScrollToBottom()
	st := v.GetScrollState()
	if !st.AtBottom || st.AtTop {
		t.Errorf("expected at bottom, got %+v", st)
	}
	if st.TopLine != 90 {
		t.Errorf("expected top line 90, got %d", st.TopLine)
	}

	v.ScrollToTop()
	st = v.GetScrollState()
	if !st.AtTop || st.AtBottom {
		t.Errorf("expected at top, got %+v", st)
	}
}

func TestScrollPercent(t *testing.T) {
	v := newDocument(110)

	if v.ScrollPercent() != 0 {
		t.Errorf("expected 0, got %v", v.ScrollPercent())
	}
	v.ScrollToPercent(0.5)
	if v.TopLine() != 50 {
		t.Errorf("expected top line 50, got %d", v.TopLine())
	}
	if v.ScrollPercent() != 0.5 {
		t.Errorf("expected 0.5, got %v", v.ScrollPercent())
	}
	v.ScrollToPercent(7)
	if v.ScrollPercent() != 1 {
		t.Errorf("expected 1, got %v", v.ScrollPercent())
	}

	if p := newDocument(3).ScrollPercent(); p != 0 {
		t.Errorf("expected 0 for short document, got %v", p)
	}
}

func TestGetScrollState(t *testing.T) {
	v := newDocument(100)
	v.ScrollBy(40)

	st := v.GetScrollState()
	want := ScrollState{
		Offset:     40,
		TopLine:    2,
		SubLine:    8,
		LinePixels: 16,
	}
	if st != want {
		t.Errorf("GetScrollState() = %+v, want %+v", st, want)
	}
}

func TestScrollByConcurrent(t *testing.T) {
	v := newDocument(1000)

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				v.ScrollBy(1)
				_ = v.GetScrollState()
			}
		}()
	}
	wg.Wait()

	if v.Offset() != 800 {
		t.Errorf("expected offset 800, got %v", v.Offset())
	}
}
