package backend

import (
	"strings"
	"sync"
)

// NullBackend is an in-memory backend for testing. Events are delivered
// through PostEvent and cells can be read back with GetCell or Row.
type NullBackend struct {
	mu            sync.Mutex
	width, height int
	cells         [][]Cell
	shows         int

	events chan Event
	done   chan struct{}
	once   sync.Once
}

// NewNullBackend creates a null backend with the given dimensions.
func NewNullBackend(width, height int) *NullBackend {
	return &NullBackend{
		width:  width,
		height: height,
		events: make(chan Event, 100),
		done:   make(chan struct{}),
	}
}

func (b *NullBackend) Init() error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.allocate()
	return nil
}

func (b *NullBackend) allocate() {
	b.cells = make([][]Cell, b.height)
	for i := range b.cells {
		b.cells[i] = make([]Cell, b.width)
		for j := range b.cells[i] {
			b.cells[i][j] = EmptyCell()
		}
	}
}

func (b *NullBackend) Shutdown() {
	b.once.Do(func() { close(b.done) })
}

func (b *NullBackend) Size() (int, int) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.width, b.height
}

func (b *NullBackend) SetCell(x, y int, cell Cell) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if y >= 0 && y < len(b.cells) && x >= 0 && x < len(b.cells[y]) {
		b.cells[y][x] = cell
	}
}

// GetCell returns the cell at the given position, or an empty cell outside
// the screen.
func (b *NullBackend) GetCell(x, y int) Cell {
	b.mu.Lock()
	defer b.mu.Unlock()
	if y >= 0 && y < len(b.cells) && x >= 0 && x < len(b.cells[y]) {
		return b.cells[y][x]
	}
	return EmptyCell()
}

// Row returns the text of row y with trailing blanks removed.
func (b *NullBackend) Row(y int) string {
	b.mu.Lock()
	defer b.mu.Unlock()
	if y < 0 || y >= len(b.cells) {
		return ""
	}
	var sb strings.Builder
	row := b.cells[y]
	for x := 0; x < len(row); x++ {
		sb.WriteRune(row[x].Rune)
		if row[x].Width == 2 {
			x++
		}
	}
	return strings.TrimRight(sb.String(), " ")
}

func (b *NullBackend) Clear() {
	b.mu.Lock()
	defer b.mu.Unlock()
	empty := EmptyCell()
	for y := range b.cells {
		for x := range b.cells[y] {
			b.cells[y][x] = empty
		}
	}
}

func (b *NullBackend) Show() {
	b.mu.Lock()
	b.shows++
	b.mu.Unlock()
}

// Shows returns how many frames were shown.
func (b *NullBackend) Shows() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.shows
}

func (b *NullBackend) PollEvent() Event {
	select {
	case ev := <-b.events:
		if ev.Type == EventResize {
			b.mu.Lock()
			b.width, b.height = ev.Width, ev.Height
			b.allocate()
			b.mu.Unlock()
		}
		return ev
	case <-b.done:
		return Event{Type: EventNone}
	}
}

func (b *NullBackend) PostEvent(event Event) {
	select {
	case b.events <- event:
	default:
		// Event dropped if queue is full (non-blocking for testing)
	}
}

// Interrupt posts an EventInterrupt.
func (b *NullBackend) Interrupt() {
	b.PostEvent(Event{Type: EventInterrupt})
}

// IsShutdown reports whether Shutdown has been called.
func (b *NullBackend) IsShutdown() bool {
	select {
	case <-b.done:
		return true
	default:
		return false
	}
}

// Resize simulates a terminal resize. The event is delivered by PollEvent,
// which applies the new size.
func (b *NullBackend) Resize(width, height int) {
	b.PostEvent(Event{Type: EventResize, Width: width, Height: height})
}
