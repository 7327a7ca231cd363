package renderer

import (
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/mattn/go-runewidth"

	"github.com/dshills/inertia/internal/renderer/backend"
	"github.com/dshills/inertia/internal/renderer/viewport"
)

// BufferReader provides read access to document content.
type BufferReader interface {
	// LineText returns the text content of a line (0-indexed).
	LineText(line uint32) string

	// LineCount returns the total number of lines in the document.
	LineCount() uint32
}

// Options configures the renderer.
type Options struct {
	ShowLineNumbers bool // Show line numbers in gutter
	TabWidth        int  // Columns per tab stop
	MaxFPS          int  // Maximum frames per second
}

// DefaultOptions returns sensible default options.
func DefaultOptions() Options {
	return Options{
		ShowLineNumbers: true,
		TabWidth:        4,
		MaxFPS:          60,
	}
}

var (
	gutterStyle = backend.Style{Fg: backend.ColorGray, Bg: backend.ColorDefault}
	fillerStyle = backend.Style{Fg: backend.ColorNavy, Bg: backend.ColorDefault}
	statusStyle = backend.Style{Fg: backend.ColorDefault, Bg: backend.ColorDefault, Reverse: true}
)

// Renderer is the rendering facade.
type Renderer struct {
	mu sync.Mutex

	opts    Options
	backend backend.Backend
	width   int
	height  int

	needsRedraw bool
	frameCount  uint64
}

// New creates a new renderer with the given backend and options.
func New(b backend.Backend, opts Options) *Renderer {
	if opts.TabWidth < 1 {
		opts.TabWidth = 1
	}
	if opts.MaxFPS < 1 {
		opts.MaxFPS = 60
	}
	width, height := b.Size()
	return &Renderer{
		opts:        opts,
		backend:     b,
		width:       width,
		height:      height,
		needsRedraw: true,
	}
}

// Resize handles terminal resize events.
func (r *Renderer) Resize(width, height int) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.width = width
	r.height = height
	r.needsRedraw = true
}

// TextHeight returns the number of rows available for document lines.
func (r *Renderer) TextHeight() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.height <= 1 {
		return 1
	}
	return r.height - 1
}

// MarkDirty marks the renderer as needing a redraw.
func (r *Renderer) MarkDirty() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.needsRedraw = true
}

// NeedsRedraw returns true if the renderer needs to redraw.
func (r *Renderer) NeedsRedraw() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.needsRedraw
}

// FrameInterval returns the minimum time between frames.
func (r *Renderer) FrameInterval() time.Duration {
	r.mu.Lock()
	defer r.mu.Unlock()
	return time.Second / time.Duration(r.opts.MaxFPS)
}

// FrameCount returns the number of frames drawn.
func (r *Renderer) FrameCount() uint64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.frameCount
}

// Render draws a frame if one is needed and reports whether it drew.
func (r *Renderer) Render(buf BufferReader, vp *viewport.Viewport, status string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	if !r.needsRedraw {
		return false
	}
	r.render(buf, vp, status)
	return true
}

// RenderNow draws a frame unconditionally.
func (r *Renderer) RenderNow(buf BufferReader, vp *viewport.Viewport, status string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.render(buf, vp, status)
}

func (r *Renderer) render(buf BufferReader, vp *viewport.Viewport, status string) {
	r.backend.Clear()

	textRows := r.height - 1
	if textRows < 0 {
		textRows = 0
	}

	if buf != nil && vp != nil {
		count := buf.LineCount()
		gutter := 0
		if r.opts.ShowLineNumbers {
			gutter = gutterWidth(count)
		}

		top := vp.TopLine()
		for row := 0; row < textRows; row++ {
			line := top + uint32(row)
			if line >= count {
				r.backend.SetCell(0, row, backend.Cell{Rune: '~', Width: 1, Style: fillerStyle})
				continue
			}
			if gutter > 0 {
				num := strconv.FormatUint(uint64(line)+1, 10)
				r.drawText(gutter-1-len(num), row, gutter-1, num, gutterStyle)
			}
			r.drawText(gutter, row, r.width, expandTabs(buf.LineText(line), r.opts.TabWidth), backend.DefaultStyle())
		}
	}

	if r.height > 0 {
		r.drawStatus(r.height-1, status)
	}

	r.backend.Show()
	r.needsRedraw = false
	r.frameCount++
}

// drawText draws s starting at column x, stopping before column limit.
// Zero-width runes are dropped; a wide rune that does not fit is not drawn.
func (r *Renderer) drawText(x, y, limit int, s string, style backend.Style) int {
	for _, ch := range s {
		w := runewidth.RuneWidth(ch)
		if w == 0 {
			continue
		}
		if x+w > limit {
			break
		}
		r.backend.SetCell(x, y, backend.Cell{Rune: ch, Width: w, Style: style})
		x += w
	}
	return x
}

func (r *Renderer) drawStatus(y int, status string) {
	status = runewidth.Truncate(status, r.width, "…")
	x := r.drawText(0, y, r.width, status, statusStyle)
	for ; x < r.width; x++ {
		r.backend.SetCell(x, y, backend.Cell{Rune: ' ', Width: 1, Style: statusStyle})
	}
}

// gutterWidth returns the columns used by line numbers plus one space.
func gutterWidth(lineCount uint32) int {
	if lineCount == 0 {
		lineCount = 1
	}
	return len(strconv.FormatUint(uint64(lineCount), 10)) + 1
}

// expandTabs replaces tabs with spaces up to the next tab stop.
func expandTabs(s string, tabWidth int) string {
	if !strings.ContainsRune(s, '\t') {
		return s
	}
	var sb strings.Builder
	col := 0
	for _, ch := range s {
		if ch == '\t' {
			n := tabWidth - col%tabWidth
			sb.WriteString(strings.Repeat(" ", n))
			col += n
			continue
		}
		sb.WriteRune(ch)
		col += runewidth.RuneWidth(ch)
	}
	return sb.String()
}
