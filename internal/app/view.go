package app

import (
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/dshills/inertia/internal/input/wheel"
	"github.com/dshills/inertia/internal/renderer/viewport"
	"github.com/dshills/inertia/internal/scroll"
)

// View is an open document with its own scroll position and inertia
// engine.
type View struct {
	ID  uuid.UUID
	Doc *Document

	viewport *viewport.Viewport
	engine   *scroll.Engine
	adapter  *wheel.Adapter

	// onScroll runs on the owner goroutine after every scroll command.
	onScroll func()
}

func (app *Application) newView(doc *Document, width, height int) *View {
	id := uuid.New()
	v := &View{
		ID:       id,
		Doc:      doc,
		viewport: viewport.NewViewport(width, height),
		onScroll: app.markDirty,
	}
	v.viewport.SetMaxLine(doc.LineCount())
	v.viewport.SetLinePixels(app.config.Viewport().LinePixels)

	logger := app.logger.With(zap.String("view", id.String()), zap.String("doc", doc.Name))
	state := &scroll.State{}
	v.engine = scroll.New(app.config, v, app.exec,
		scroll.WithState(state),
		scroll.WithLogger(logger.Named("scroll")),
	)
	v.adapter = wheel.NewAdapter(state, app.config, wheel.WithLogger(logger.Named("wheel")))
	return v
}

// ScrollBy applies an engine scroll command. It runs on the owner goroutine.
func (v *View) ScrollBy(pixels float64) {
	v.viewport.ScrollBy(pixels)
	if v.onScroll != nil {
		v.onScroll()
	}
}

// Viewport returns the view's scroll position.
func (v *View) Viewport() *viewport.Viewport {
	return v.viewport
}

// Engine returns the view's inertia engine.
func (v *View) Engine() *scroll.Engine {
	return v.engine
}

// Adapter returns the view's wheel adapter.
func (v *View) Adapter() *wheel.Adapter {
	return v.adapter
}

// Velocity returns the current scroll velocity in pixels per second.
func (v *View) Velocity() float64 {
	return v.engine.Velocity()
}

// status formats the status line text.
func (v *View) status(index, count int, enabled bool) string {
	st := v.viewport.GetScrollState()
	mode := "off"
	if enabled {
		mode = "on"
	}
	return fmt.Sprintf(" %s [%d/%d]  line %d/%d  %3.0f%%  v=%.1f  inertia:%s",
		v.Doc.Name, index+1, count,
		st.TopLine+1, v.Doc.LineCount(),
		v.viewport.ScrollPercent()*100,
		v.Velocity(), mode)
}
