package app

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/dshills/inertia/internal/renderer/backend"
)

// eventLoop is the owner loop. It handles terminal events, runs closures
// queued on the owner executor, and draws at most one frame per interval.
func (app *Application) eventLoop(ctx context.Context, events <-chan backend.Event) error {
	app.mu.RLock()
	r := app.renderer
	app.mu.RUnlock()

	ticker := time.NewTicker(r.FrameInterval())
	defer ticker.Stop()

	app.render(true)
	var lastVelocity float64

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-app.done:
			return nil
		case ev := <-events:
			if err := app.handleBackendEvent(ev); err != nil {
				return err
			}
		case fn := <-app.exec.C():
			fn()
		case <-ticker.C:
			if v := app.ActiveView(); v != nil {
				if vel := v.Velocity(); vel != lastVelocity {
					lastVelocity = vel
					r.MarkDirty()
				}
			}
			app.render(false)
		}
	}
}

// render draws the active view. Without force it draws only when dirty.
func (app *Application) render(force bool) {
	app.mu.RLock()
	r := app.renderer
	views := len(app.views)
	index := app.active
	app.mu.RUnlock()

	v := app.ActiveView()
	if r == nil || v == nil {
		return
	}
	status := v.status(index, views, app.config.Scroll().Enabled)
	if force {
		r.RenderNow(v.Doc, v.viewport, status)
		return
	}
	r.Render(v.Doc, v.viewport, status)
}

// handleBackendEvent processes a backend event and routes it appropriately.
// Returns ErrQuit if the application should exit.
func (app *Application) handleBackendEvent(ev backend.Event) error {
	switch ev.Type {
	case backend.EventResize:
		app.resize(ev.Width, ev.Height)
		app.render(true)
		return nil
	case backend.EventKey:
		return app.handleKey(ev)
	case backend.EventMouse:
		app.handleMouseEvent(ev)
		return nil
	default:
		return nil
	}
}

// handleMouseEvent gives wheel events to the active view's adapter and
// scrolls by whole lines when the adapter passes the event through.
func (app *Application) handleMouseEvent(ev backend.Event) {
	if app.HandleMouse(ev) {
		return
	}
	v := app.ActiveView()
	if v == nil {
		return
	}
	switch ev.MouseButton {
	case backend.MouseWheelUp:
		v.viewport.ScrollLines(-defaultWheelLines)
	case backend.MouseWheelDown:
		v.viewport.ScrollLines(defaultWheelLines)
	default:
		return
	}
	app.markDirty()
}

// logEvent records an event at debug level without building fields when
// debug is off.
func (app *Application) logEvent(msg string, ev backend.Event) {
	if ce := app.logger.Check(zap.DebugLevel, msg); ce != nil {
		ce.Write(
			zap.Int("type", int(ev.Type)),
			zap.Int("key", int(ev.Key)),
			zap.Int("button", int(ev.MouseButton)),
			zap.Int("mod", int(ev.Mod)),
		)
	}
}
