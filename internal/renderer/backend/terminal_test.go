package backend

import (
	"testing"
	"time"

	"github.com/gdamore/tcell/v2"
)

func newSimTerminal(t *testing.T) (*Terminal, tcell.SimulationScreen) {
	t.Helper()
	screen := tcell.NewSimulationScreen("UTF-8")
	term := NewTerminalWithScreen(screen)
	if err := term.Init(); err != nil {
		t.Fatalf("Init failed: %v", err)
	}
	screen.SetSize(40, 10)
	t.Cleanup(term.Shutdown)
	return term, screen
}

// pollType returns the first event of type want, skipping others.
func pollType(t *testing.T, term *Terminal, want EventType) Event {
	t.Helper()
	for i := 0; i < 10; i++ {
		ev := term.PollEvent()
		if ev.Type == want {
			return ev
		}
	}
	t.Fatalf("no event of type %d", want)
	return Event{}
}

func TestTerminalDraw(t *testing.T) {
	term, screen := newSimTerminal(t)

	term.SetCell(2, 1, Cell{Rune: 'A', Width: 1, Style: Style{Fg: ColorGreen, Bg: ColorDefault, Bold: true}})
	term.Show()

	cells, w, _ := screen.GetContents()
	cell := cells[1*w+2]
	if len(cell.Runes) == 0 || cell.Runes[0] != 'A' {
		t.Fatalf("expected 'A' at (2,1), got %v", cell.Runes)
	}
	fg, _, attrs := cell.Style.Decompose()
	if fg != tcell.PaletteColor(int(ColorGreen)) {
		t.Errorf("expected green foreground, got %v", fg)
	}
	if attrs&tcell.AttrBold == 0 {
		t.Error("expected bold attribute")
	}

	if w, h := term.Size(); w != 40 || h != 10 {
		t.Errorf("expected size (40, 10), got (%d, %d)", w, h)
	}
}

func TestTerminalWheelEvent(t *testing.T) {
	term, screen := newSimTerminal(t)

	screen.InjectMouse(5, 3, tcell.WheelDown, tcell.ModShift)
	ev := pollType(t, term, EventMouse)

	if ev.MouseButton != MouseWheelDown {
		t.Errorf("expected wheel down, got %d", ev.MouseButton)
	}
	if !ev.Mod.Has(ModShift) {
		t.Error("expected shift modifier")
	}
	if ev.MouseX != 5 || ev.MouseY != 3 {
		t.Errorf("expected position (5, 3), got (%d, %d)", ev.MouseX, ev.MouseY)
	}
}

func TestTerminalKeyEvent(t *testing.T) {
	term, screen := newSimTerminal(t)

	screen.InjectKey(tcell.KeyPgDn, 0, tcell.ModNone)
	ev := pollType(t, term, EventKey)

	if ev.Key != KeyPageDown {
		t.Errorf("expected page down, got %d", ev.Key)
	}
}

func TestTerminalInterrupt(t *testing.T) {
	term, _ := newSimTerminal(t)

	done := make(chan Event, 1)
	go func() {
		for {
			if ev := term.PollEvent(); ev.Type == EventInterrupt || ev.Type == EventNone {
				done <- ev
				return
			}
		}
	}()

	term.Interrupt()
	select {
	case ev := <-done:
		if ev.Type != EventInterrupt {
			t.Errorf("expected EventInterrupt, got %+v", ev)
		}
	case <-time.After(time.Second):
		t.Fatal("Interrupt did not wake PollEvent")
	}
}

func TestConvertMouseButton(t *testing.T) {
	tests := []struct {
		mask tcell.ButtonMask
		want MouseButton
	}{
		{tcell.ButtonNone, MouseNone},
		{tcell.Button1, MouseLeft},
		{tcell.Button2, MouseRight},
		{tcell.Button3, MouseMiddle},
		{tcell.WheelUp, MouseWheelUp},
		{tcell.WheelDown, MouseWheelDown},
		{tcell.WheelLeft, MouseWheelLeft},
		{tcell.WheelRight, MouseWheelRight},
		{tcell.Button1 | tcell.WheelDown, MouseWheelDown},
	}
	for _, tt := range tests {
		if got := convertMouseButton(tt.mask); got != tt.want {
			t.Errorf("convertMouseButton(%v) = %d, want %d", tt.mask, got, tt.want)
		}
	}
}

func TestConvertMod(t *testing.T) {
	tests := []struct {
		in   tcell.ModMask
		want ModMask
	}{
		{tcell.ModNone, ModNone},
		{tcell.ModShift, ModShift},
		{tcell.ModCtrl, ModCtrl},
		{tcell.ModAlt | tcell.ModMeta, ModAlt | ModMeta},
		{tcell.ModShift | tcell.ModCtrl | tcell.ModAlt | tcell.ModMeta, ModShift | ModCtrl | ModAlt | ModMeta},
	}
	for _, tt := range tests {
		if got := convertMod(tt.in); got != tt.want {
			t.Errorf("convertMod(%v) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestConvertKey(t *testing.T) {
	tests := []struct {
		in   tcell.Key
		want Key
	}{
		{tcell.KeyRune, KeyRune},
		{tcell.KeyEscape, KeyEscape},
		{tcell.KeyEnter, KeyEnter},
		{tcell.KeyTab, KeyTab},
		{tcell.KeyBacktab, KeyBacktab},
		{tcell.KeyHome, KeyHome},
		{tcell.KeyEnd, KeyEnd},
		{tcell.KeyPgUp, KeyPageUp},
		{tcell.KeyPgDn, KeyPageDown},
		{tcell.KeyUp, KeyUp},
		{tcell.KeyDown, KeyDown},
		{tcell.KeyLeft, KeyLeft},
		{tcell.KeyRight, KeyRight},
		{tcell.KeyCtrlC, KeyCtrlC},
		{tcell.KeyCtrlL, KeyCtrlL},
		{tcell.KeyF12, KeyNone},
	}
	for _, tt := range tests {
		if got := convertKey(tt.in); got != tt.want {
			t.Errorf("convertKey(%v) = %d, want %d", tt.in, got, tt.want)
		}
	}
}

func TestConvertEventUnknown(t *testing.T) {
	if ev := convertEvent(tcell.NewEventFocus(true)); ev.Type != EventNone {
		t.Errorf("expected EventNone for focus event, got %+v", ev)
	}
}
