package config

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"go.uber.org/zap"

	"github.com/dshills/inertia/internal/config/layer"
	"github.com/dshills/inertia/internal/config/loader"
	"github.com/dshills/inertia/internal/config/notify"
	"github.com/dshills/inertia/internal/config/watcher"
)

// Config provides unified access to the inertia configuration. It manages
// loading, live reloading and change notification, and publishes a
// normalized snapshot after every change.
type Config struct {
	mu sync.RWMutex

	// Layer stack for merged configuration
	layers *layer.Stack

	// Last published merged map, guarded by mu
	merged map[string]any

	// Typed snapshot read without locking
	current atomic.Pointer[sections]

	// File watcher for live reload
	watcher *watcher.Watcher

	// Change notifier
	notifier *notify.Notifier

	logger *zap.Logger

	// Options
	path          string
	envPrefix     string
	enableWatcher bool
	debounce      time.Duration

	ready     chan struct{}
	readyOnce sync.Once
	closeOnce sync.Once

	// configErrors stores type mismatches found in the last publish.
	configErrors map[string]error
}

// Option configures a Config instance.
type Option func(*Config)

// WithFile sets the settings file. The format follows the extension:
// .toml, .yaml or .yml. A missing file leaves the defaults in place.
func WithFile(path string) Option {
	return func(c *Config) {
		c.path = path
	}
}

// WithWatcher enables file watching for live reload.
func WithWatcher(enable bool) Option {
	return func(c *Config) {
		c.enableWatcher = enable
	}
}

// WithDebounce sets the quiet period before a file change is reloaded.
func WithDebounce(d time.Duration) Option {
	return func(c *Config) {
		c.debounce = d
	}
}

// WithEnvPrefix sets the environment variable prefix. An empty prefix
// disables the environment layer.
func WithEnvPrefix(prefix string) Option {
	return func(c *Config) {
		c.envPrefix = prefix
	}
}

// WithLogger sets the logger.
func WithLogger(l *zap.Logger) Option {
	return func(c *Config) {
		if l != nil {
			c.logger = l
		}
	}
}

// New creates a Config holding the built-in defaults. Call Load to read the
// settings file and environment.
func New(opts ...Option) *Config {
	c := &Config{
		layers:        layer.NewStack(),
		logger:        zap.NewNop(),
		envPrefix:     loader.DefaultEnvPrefix,
		enableWatcher: true,
		debounce:      watcher.DefaultDebounce,
		ready:         make(chan struct{}),
	}
	for _, opt := range opts {
		opt(c)
	}

	c.notifier = notify.New(notify.WithLogger(c.logger))
	c.layers.Put(layer.New(layer.SourceDefaults, defaultConfig()))
	c.publishLocked("defaults")
	return c
}

// Load reads the settings file and environment, publishes the result, and
// starts the file watcher. Ready is closed once Load succeeds.
func (c *Config) Load(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	c.mu.Lock()
	if c.path != "" {
		if err := c.loadFileLocked(); err != nil {
			c.mu.Unlock()
			return err
		}
	}
	if err := c.loadEnvironmentLocked(); err != nil {
		c.mu.Unlock()
		return err
	}
	changes := c.publishLocked("load")
	startWatcher := c.enableWatcher && c.path != "" && c.watcher == nil
	if startWatcher {
		c.watcher = watcher.New(
			watcher.WithDebounce(c.debounce),
			watcher.WithLogger(c.logger.Named("watcher")),
		)
	}
	w := c.watcher
	c.mu.Unlock()

	c.notifier.Notify(changes...)
	c.readyOnce.Do(func() { close(c.ready) })

	// Started outside the lock: watcher callbacks acquire it.
	if startWatcher {
		w.OnChange(c.handleFileChange)
		if err := w.Watch(c.path); err != nil {
			c.logger.Warn("config hot reload unavailable", zap.String("path", c.path), zap.Error(err))
		} else if err := w.Start(); err != nil {
			c.logger.Warn("config hot reload unavailable", zap.String("path", c.path), zap.Error(err))
		}
	}
	return nil
}

// Reload re-reads the settings file. On error the previous configuration
// stays in effect.
func (c *Config) Reload() error {
	if c.path == "" {
		return ErrNoFile
	}

	c.mu.Lock()
	if err := c.loadFileLocked(); err != nil {
		c.mu.Unlock()
		c.logger.Warn("config reload failed, keeping previous settings",
			zap.String("path", c.path),
			zap.Error(err),
		)
		return err
	}
	changes := c.publishLocked(layer.SourceFile.String())
	c.mu.Unlock()

	c.notifier.Notify(changes...)
	c.notifier.NotifyReload(c.path)
	c.logger.Info("config reloaded", zap.String("path", c.path), zap.Int("changed", len(changes)))
	return nil
}

// Close shuts down the watcher and notifier. It is safe to call Close
// multiple times.
func (c *Config) Close() {
	c.closeOnce.Do(func() {
		c.mu.RLock()
		w := c.watcher
		c.mu.RUnlock()
		if w != nil {
			w.Stop()
		}
		c.notifier.Close()
	})
}

// Ready is closed after the first successful Load.
func (c *Config) Ready() <-chan struct{} {
	return c.ready
}

// Path returns the settings file path, if any.
func (c *Config) Path() string {
	return c.path
}

// Scroll returns the current scroll settings. The result is normalized.
func (c *Config) Scroll() ScrollConfig {
	return c.current.Load().scroll
}

// Current returns the current scroll settings. It lets a Config serve as
// the settings source of the scroll engine and wheel adapter.
func (c *Config) Current() ScrollConfig {
	return c.Scroll()
}

// Logging returns the current logging settings.
func (c *Config) Logging() LoggingConfig {
	return c.current.Load().logging
}

// Viewport returns the current viewport settings.
func (c *Config) Viewport() ViewportConfig {
	return c.current.Load().viewport
}

// Get returns the value at the given path from the merged configuration.
func (c *Config) Get(path string) (any, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return layer.GetByPath(c.merged, path)
}

// GetString returns a string value at the given path.
func (c *Config) GetString(path string) (string, error) {
	v, ok := c.Get(path)
	if !ok {
		return "", ErrSettingNotFound
	}
	return asString(path, v)
}

// GetInt returns an integer value at the given path.
func (c *Config) GetInt(path string) (int, error) {
	v, ok := c.Get(path)
	if !ok {
		return 0, ErrSettingNotFound
	}
	return asInt(path, v)
}

// GetBool returns a boolean value at the given path.
func (c *Config) GetBool(path string) (bool, error) {
	v, ok := c.Get(path)
	if !ok {
		return false, ErrSettingNotFound
	}
	return asBool(path, v)
}

// GetFloat returns a float64 value at the given path.
func (c *Config) GetFloat(path string) (float64, error) {
	v, ok := c.Get(path)
	if !ok {
		return 0, ErrSettingNotFound
	}
	return asFloat(path, v)
}

// Set stores value at path in the runtime layer, which overrides every
// other source. A value whose kind differs from the built-in default for a
// known path is rejected with a *TypeError.
func (c *Config) Set(path string, value any) error {
	if !validPath(path) {
		return ErrInvalidPath
	}
	if def, ok := layer.GetByPath(defaultConfig(), path); ok && kindOf(def) != kindOf(value) {
		return &TypeError{Path: path, Expected: typeName(def), Actual: typeName(value)}
	}

	c.mu.Lock()
	if err := c.layers.Set(layer.SourceRuntime, path, value); err != nil {
		c.mu.Unlock()
		return fmt.Errorf("%w: %s", ErrInvalidPath, path)
	}
	changes := c.publishLocked(layer.SourceRuntime.String())
	c.mu.Unlock()

	c.notifier.Notify(changes...)
	return nil
}

// Origin returns the name of the layer supplying the effective value at
// path: defaults, file, environment or runtime.
func (c *Config) Origin(path string) (string, bool) {
	src, ok := c.layers.Origin(path)
	if !ok {
		return "", false
	}
	return src.String(), true
}

// Merged returns a copy of the fully merged configuration.
func (c *Config) Merged() map[string]any {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return layer.CloneMap(c.merged)
}

// Subscribe registers an observer for all configuration changes.
func (c *Config) Subscribe(observer notify.Observer) *notify.Subscription {
	return c.notifier.Subscribe(observer)
}

// SubscribePath registers an observer for changes at or below path.
func (c *Config) SubscribePath(path string, observer notify.Observer) *notify.Subscription {
	return c.notifier.SubscribePath(path, observer)
}

// ConfigErrors returns the type mismatches found in the current
// configuration, keyed by setting path. Mismatched values fall back to
// their defaults.
func (c *Config) ConfigErrors() map[string]error {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.configErrors == nil {
		return nil
	}
	result := make(map[string]error, len(c.configErrors))
	for k, v := range c.configErrors {
		result[k] = v
	}
	return result
}

// loadFileLocked reads the settings file into the file layer. A missing
// file removes the layer.
func (c *Config) loadFileLocked() error {
	l, err := loader.ForFile(c.path)
	if err != nil {
		return err
	}
	data, err := l.Load()
	if err != nil {
		return fmt.Errorf("loading settings: %w", err)
	}
	if data == nil {
		c.layers.Remove(layer.SourceFile)
		return nil
	}
	c.layers.Put(layer.NewFile(c.path, data))
	return nil
}

// loadEnvironmentLocked loads configuration from environment variables.
func (c *Config) loadEnvironmentLocked() error {
	if c.envPrefix == "" {
		return nil
	}
	data, err := loader.NewEnvLoader(c.envPrefix).Load()
	if err != nil {
		return fmt.Errorf("loading environment: %w", err)
	}
	if len(data) == 0 {
		c.layers.Remove(layer.SourceEnv)
		return nil
	}
	c.layers.Put(layer.New(layer.SourceEnv, data))
	return nil
}

// publishLocked merges the layers, stores the typed snapshot and returns
// one change per setting that moved.
func (c *Config) publishLocked(source string) []notify.Change {
	merged := c.layers.Merge()
	old := c.merged

	r := &sectionReader{data: merged}
	snap := r.sections()
	c.current.Store(&snap)
	c.merged = merged
	c.configErrors = r.errs
	for path, err := range r.errs {
		c.logger.Warn("invalid config value, using default", zap.String("path", path), zap.Error(err))
	}

	if old == nil {
		return nil
	}
	var changes []notify.Change
	for _, path := range layer.Diff(old, merged) {
		ov, _ := layer.GetByPath(old, path)
		nv, ok := layer.GetByPath(merged, path)
		change := notify.Change{
			Path:     path,
			Type:     notify.ChangeSet,
			OldValue: ov,
			NewValue: nv,
			Source:   source,
		}
		if !ok {
			change.Type = notify.ChangeDelete
		}
		changes = append(changes, change)
	}
	return changes
}

// handleFileChange handles file change events from the watcher.
func (c *Config) handleFileChange(event watcher.Event) {
	if event.Op != watcher.OpRemove {
		_ = c.Reload()
		return
	}

	c.mu.Lock()
	c.layers.Remove(layer.SourceFile)
	changes := c.publishLocked(layer.SourceFile.String())
	c.mu.Unlock()

	c.logger.Info("settings file removed, using remaining layers", zap.String("path", event.Path))
	c.notifier.Notify(changes...)
	c.notifier.NotifyReload(event.Path)
}

// validPath reports whether path is a non-empty dot-separated path with no
// empty segments.
func validPath(path string) bool {
	if path == "" {
		return false
	}
	start := 0
	for i := 0; i <= len(path); i++ {
		if i == len(path) || path[i] == '.' {
			if i == start {
				return false
			}
			start = i + 1
		}
	}
	return true
}
