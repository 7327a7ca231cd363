package app

import (
	"github.com/dshills/inertia/internal/input/wheel"
	"github.com/dshills/inertia/internal/renderer/backend"
)

// defaultWheelLines is how far one wheel notch scrolls when inertial
// scrolling passes the event through.
const defaultWheelLines = 3

// HandleMouse feeds a vertical wheel event to the active view's adapter.
// It returns true when the adapter consumed the event; the caller must then
// skip its own scrolling. Buttons and horizontal wheel events are never
// consumed.
func (app *Application) HandleMouse(ev backend.Event) bool {
	var delta int
	switch ev.MouseButton {
	case backend.MouseWheelUp:
		delta = -wheel.Notch
	case backend.MouseWheelDown:
		delta = wheel.Notch
	default:
		return false
	}

	v := app.ActiveView()
	if v == nil {
		return false
	}
	app.logEvent("wheel event", ev)
	return v.adapter.OnWheel(delta, wheelModifiers(ev.Mod))
}

// wheelModifiers converts terminal modifiers to wheel modifiers.
func wheelModifiers(m backend.ModMask) wheel.Modifier {
	mods := wheel.ModNone
	if m.Has(backend.ModShift) {
		mods = mods.With(wheel.ModShift)
	}
	if m.Has(backend.ModCtrl) {
		mods = mods.With(wheel.ModCtrl)
	}
	if m.Has(backend.ModAlt) {
		mods = mods.With(wheel.ModAlt)
	}
	if m.Has(backend.ModMeta) {
		mods = mods.With(wheel.ModMeta)
	}
	return mods
}

// handleKey runs the key bindings. Keyboard scrolling stops any inertial
// motion in the active view first, so the two never fight.
func (app *Application) handleKey(ev backend.Event) error {
	app.logEvent("key event", ev)

	switch ev.Key {
	case backend.KeyCtrlC:
		return ErrQuit
	case backend.KeyRune:
		return app.handleRune(ev.Rune)
	case backend.KeyTab:
		app.cycle(1)
		return nil
	case backend.KeyBacktab:
		app.cycle(-1)
		return nil
	case backend.KeyCtrlL:
		app.render(true)
		return nil
	}

	v := app.ActiveView()
	if v == nil {
		return nil
	}
	vp := v.viewport
	var scroll func()
	switch ev.Key {
	case backend.KeyUp:
		scroll = func() { vp.ScrollLines(-1) }
	case backend.KeyDown:
		scroll = func() { vp.ScrollLines(1) }
	case backend.KeyPageUp:
		scroll = vp.PageUp
	case backend.KeyPageDown:
		scroll = vp.PageDown
	case backend.KeyHome:
		scroll = vp.ScrollToTop
	case backend.KeyEnd:
		scroll = vp.ScrollToBottom
	default:
		return nil
	}
	v.engine.State().Reset()
	scroll()
	app.markDirty()
	return nil
}

// handleRune runs single-character commands.
func (app *Application) handleRune(r rune) error {
	switch r {
	case 'q':
		return ErrQuit
	case 'w':
		v := app.ActiveView()
		if v == nil {
			return ErrQuit
		}
		if err := app.CloseView(v.ID); err != nil {
			return err
		}
		if len(app.Views()) == 0 {
			return ErrQuit
		}
	case 'j':
		return app.handleKey(backend.Event{Type: backend.EventKey, Key: backend.KeyDown})
	case 'k':
		return app.handleKey(backend.Event{Type: backend.EventKey, Key: backend.KeyUp})
	case 'i':
		enabled := app.config.Scroll().Enabled
		if err := app.config.Set("scroll.enabled", !enabled); err != nil {
			return NewOperationError("toggle", "scroll.enabled", err)
		}
	}
	return nil
}
