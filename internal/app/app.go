// Package app is the reference host for inertial scrolling: a terminal
// pager that opens text files in views, feeds mouse-wheel events to each
// view's inertia engine, and runs scroll commands on its event loop.
package app

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/dshills/inertia/internal/config"
	"github.com/dshills/inertia/internal/config/notify"
	"github.com/dshills/inertia/internal/owner"
	"github.com/dshills/inertia/internal/renderer"
	"github.com/dshills/inertia/internal/renderer/backend"
)

// Application owns the views, the terminal and the event loop. The
// goroutine running Run is the owner of every viewport; scroll commands
// from the engines reach it through the owner executor.
type Application struct {
	mu sync.RWMutex

	config  *config.Config
	logging *Logging
	logger  *zap.Logger
	exec    *owner.Executor

	backend  backend.Backend
	renderer *renderer.Renderer

	views  []*View
	active int

	running atomic.Bool
	done    chan struct{}

	shutdownOnce sync.Once
	inputOnce    sync.Once
	inputDone    chan struct{}

	configSub *notify.Subscription

	opts Options
}

// Options configures the application.
type Options struct {
	// ConfigPath is the settings file. Empty uses defaults and environment.
	ConfigPath string

	// Files are opened as views on startup.
	Files []string

	// LogLevel overrides logging.level from the settings.
	LogLevel string

	// LogFile overrides logging.file from the settings.
	LogFile string

	// NoWatch disables live reload of the settings file.
	NoWatch bool

	// Logger replaces the logger built from the settings.
	Logger *zap.Logger

	// Renderer configures drawing.
	Renderer renderer.Options
}

// New loads the configuration, builds the logger and opens the initial
// files. A file that cannot be opened is reported in the returned error
// alongside a usable Application; a configuration error is fatal.
func New(opts Options) (*Application, error) {
	if opts.Renderer == (renderer.Options{}) {
		opts.Renderer = renderer.DefaultOptions()
	}

	app := &Application{
		opts: opts,
		done:      make(chan struct{}),
		inputDone: make(chan struct{}),
		exec: owner.New(owner.DefaultQueueSize),
	}

	if err := app.setupLogging(); err != nil {
		return nil, &InitError{Component: "logging", Err: err}
	}

	configOpts := []config.Option{
		config.WithWatcher(!opts.NoWatch),
		config.WithLogger(app.logger.Named("config")),
	}
	if opts.ConfigPath != "" {
		configOpts = append(configOpts, config.WithFile(opts.ConfigPath))
	}
	app.config = config.New(configOpts...)
	if err := app.config.Load(context.Background()); err != nil {
		app.config.Close()
		_ = app.logging.Close()
		return nil, &InitError{Component: "config", Err: err}
	}
	app.configSub = app.config.Subscribe(app.onConfigChange)

	var errs ErrorList
	for _, path := range opts.Files {
		if _, err := app.Open(path); err != nil {
			app.logger.Warn("open failed", zap.String("path", path), zap.Error(err))
			errs.Add(err)
		}
	}
	if len(app.views) == 0 {
		app.openDocument(helpDocument())
	}

	app.logger.Info("application started",
		zap.Int("views", len(app.views)),
		zap.String("config", opts.ConfigPath),
	)
	return app, errs.AsError()
}

// setupLogging builds the logger from the settings file and the command-line
// overrides. The settings are read once here, before the live configuration
// exists, so the configuration itself can log.
func (app *Application) setupLogging() error {
	if app.opts.Logger != nil {
		app.logging = &Logging{Logger: app.opts.Logger, Level: zap.NewAtomicLevel()}
		app.logger = app.opts.Logger
		return nil
	}

	opts := []config.Option{config.WithWatcher(false)}
	if app.opts.ConfigPath != "" {
		opts = append(opts, config.WithFile(app.opts.ConfigPath))
	}
	cfg := config.New(opts...)
	defer cfg.Close()
	// Errors here resurface from the real load below.
	_ = cfg.Load(context.Background())

	settings := cfg.Logging()
	if app.opts.LogLevel != "" {
		settings.Level = app.opts.LogLevel
	}
	if app.opts.LogFile != "" {
		settings.File = app.opts.LogFile
	}

	logging, err := NewLogging(settings)
	if err != nil {
		return err
	}
	app.logging = logging
	app.logger = logging.Logger
	return nil
}

// SetBackend sets the terminal backend.
// Must be called before Run().
func (app *Application) SetBackend(b backend.Backend) error {
	app.mu.Lock()
	defer app.mu.Unlock()

	if app.running.Load() {
		return ErrAlreadyRunning
	}
	app.backend = b
	return nil
}

// Config returns the configuration system.
func (app *Application) Config() *config.Config {
	return app.config
}

// Logger returns the application logger.
func (app *Application) Logger() *zap.Logger {
	return app.logger
}

// Open loads a file into a new view, makes it active and starts its engine.
// Call it from the goroutine running Run, or before Run.
func (app *Application) Open(path string) (*View, error) {
	if app.exec.Closed() {
		return nil, ErrClosed
	}
	doc, err := LoadDocument(path)
	if err != nil {
		return nil, err
	}
	return app.openDocument(doc), nil
}

func (app *Application) openDocument(doc *Document) *View {
	width, height := app.viewSize()
	v := app.newView(doc, width, height)

	app.mu.Lock()
	app.views = append(app.views, v)
	app.active = len(app.views) - 1
	app.mu.Unlock()

	v.engine.Start()
	app.markDirty()
	app.logger.Debug("view opened", zap.Stringer("id", v.ID), zap.String("path", doc.Path))
	return v
}

// viewSize returns the text area size for new views.
func (app *Application) viewSize() (int, int) {
	app.mu.RLock()
	defer app.mu.RUnlock()
	if app.renderer != nil && app.backend != nil {
		w, _ := app.backend.Size()
		return w, app.renderer.TextHeight()
	}
	if app.backend != nil {
		w, h := app.backend.Size()
		return w, h - 1
	}
	return 80, 23
}

// CloseView stops the view's engine and removes it. The engine is stopped
// before the view is dropped so no scroll command reaches a closed view.
func (app *Application) CloseView(id uuid.UUID) error {
	app.mu.Lock()
	idx := app.indexOf(id)
	if idx < 0 {
		app.mu.Unlock()
		return NewOperationError("close", id.String(), ErrViewNotFound)
	}
	v := app.views[idx]
	app.mu.Unlock()

	v.engine.Stop()

	app.mu.Lock()
	if idx = app.indexOf(id); idx >= 0 {
		app.views = append(app.views[:idx], app.views[idx+1:]...)
		if app.active >= len(app.views) {
			app.active = len(app.views) - 1
		}
		if app.active < 0 {
			app.active = 0
		}
	}
	app.mu.Unlock()

	app.markDirty()
	app.logger.Debug("view closed", zap.Stringer("id", id))
	return nil
}

func (app *Application) indexOf(id uuid.UUID) int {
	for i, v := range app.views {
		if v.ID == id {
			return i
		}
	}
	return -1
}

// Views returns the open views in order.
func (app *Application) Views() []*View {
	app.mu.RLock()
	defer app.mu.RUnlock()
	out := make([]*View, len(app.views))
	copy(out, app.views)
	return out
}

// ActiveView returns the active view, or nil when none is open.
func (app *Application) ActiveView() *View {
	app.mu.RLock()
	defer app.mu.RUnlock()
	if len(app.views) == 0 {
		return nil
	}
	return app.views[app.active]
}

// cycle moves the active view by delta, wrapping around.
func (app *Application) cycle(delta int) {
	app.mu.Lock()
	n := len(app.views)
	if n > 0 {
		app.active = ((app.active+delta)%n + n) % n
	}
	app.mu.Unlock()
	app.markDirty()
}

// Run initializes the backend and runs the event loop until ctx ends, the
// user quits, or Shutdown is called. The calling goroutine owns every
// viewport for the duration.
func (app *Application) Run(ctx context.Context) error {
	if !app.running.CompareAndSwap(false, true) {
		return ErrAlreadyRunning
	}
	defer app.running.Store(false)

	app.mu.Lock()
	b := app.backend
	app.mu.Unlock()
	if b == nil {
		return ErrNoBackend
	}
	if err := b.Init(); err != nil {
		return &InitError{Component: "backend", Err: err}
	}

	app.mu.Lock()
	app.renderer = renderer.New(b, app.opts.Renderer)
	app.mu.Unlock()
	w, h := b.Size()
	app.resize(w, h)

	events := make(chan backend.Event)
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		return app.pumpEvents(gctx, b, events)
	})
	g.Go(func() error {
		// Unblock PollEvent once the loop is done for any reason.
		defer app.stopInput()
		return app.eventLoop(gctx, events)
	})

	err := g.Wait()
	// The pump has returned, so nothing is left in PollEvent.
	b.Shutdown()
	app.Shutdown()
	if errors.Is(err, ErrQuit) || errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}

// pumpEvents forwards backend events to the loop. It returns once stopInput
// has been called.
func (app *Application) pumpEvents(ctx context.Context, b backend.Backend, events chan<- backend.Event) error {
	for {
		ev := b.PollEvent()
		if ev.Type == backend.EventNone || ev.Type == backend.EventInterrupt {
			select {
			case <-app.inputDone:
				return nil
			default:
			}
			continue
		}
		select {
		case events <- ev:
		case <-app.inputDone:
			return nil
		case <-ctx.Done():
			return nil
		case <-app.done:
			return nil
		}
	}
}

// stopInput tells the pump to exit and interrupts a pending PollEvent.
func (app *Application) stopInput() {
	app.inputOnce.Do(func() {
		close(app.inputDone)
		app.mu.RLock()
		b := app.backend
		app.mu.RUnlock()
		if b != nil {
			b.Interrupt()
		}
	})
}

// Shutdown stops every engine, then closes the owner executor, the
// configuration and the logger. It is idempotent and safe to call from any
// goroutine.
func (app *Application) Shutdown() {
	app.shutdownOnce.Do(func() {
		close(app.done)

		for _, v := range app.Views() {
			v.engine.Stop()
		}
		app.exec.Close()

		app.configSub.Unsubscribe()
		app.config.Close()
		app.logger.Info("application stopped")
		_ = app.logging.Close()
	})
}

// IsRunning returns true if the event loop is running.
func (app *Application) IsRunning() bool {
	return app.running.Load()
}

// markDirty requests a redraw on the next frame.
func (app *Application) markDirty() {
	app.mu.RLock()
	r := app.renderer
	app.mu.RUnlock()
	if r != nil {
		r.MarkDirty()
	}
}

// resize applies a new terminal size to the renderer and every viewport.
func (app *Application) resize(width, height int) {
	app.mu.RLock()
	r := app.renderer
	app.mu.RUnlock()
	if r == nil {
		return
	}
	r.Resize(width, height)
	textHeight := r.TextHeight()
	for _, v := range app.Views() {
		v.viewport.Resize(width, textHeight)
	}
}

// onConfigChange runs synchronously on whichever goroutine changed the
// settings: the owner loop (the reload key), the file watcher, or any caller
// of Set. View updates are queued without blocking, because blocking on a
// full queue from the owner loop would never return.
func (app *Application) onConfigChange(change notify.Change) {
	switch change.Path {
	case "logging.level":
		if level, ok := change.NewValue.(string); ok && !app.logging.SetLevel(level) {
			app.logger.Warn("unknown log level", zap.String("level", level))
		}
	case "viewport.linePixels":
		px := app.config.Viewport().LinePixels
		app.postViewUpdate(change.Path, func() {
			for _, v := range app.Views() {
				v.viewport.SetLinePixels(px)
			}
		})
	}
	if change.Type == notify.ChangeReload {
		app.logger.Info("settings applied", zap.String("source", change.Source))
	}
	app.markDirty()
}

// postViewUpdate queues fn on the owner. A full queue hands the post to a
// goroutine so the caller never waits on the owner.
func (app *Application) postViewUpdate(path string, fn func()) {
	err := app.exec.TryPost(fn)
	if errors.Is(err, owner.ErrFull) {
		go func() {
			if err := app.exec.Post(fn); err != nil {
				app.logger.Debug("config change skipped", zap.String("path", path), zap.Error(err))
			}
		}()
		return
	}
	if err != nil {
		app.logger.Debug("config change skipped", zap.String("path", path), zap.Error(err))
	}
}
