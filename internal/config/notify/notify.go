// Package notify delivers configuration change events to subscribers.
//
// Observers subscribe to every change or to a path prefix. A reload is
// published as one event per changed setting followed by a ChangeReload
// event, so path observers see exactly the settings that moved. Observers
// run synchronously on the publishing goroutine.
package notify

import (
	"sync"

	"go.uber.org/zap"
)

// ChangeType represents the type of configuration change.
type ChangeType int

const (
	// ChangeSet indicates a value was set or updated.
	ChangeSet ChangeType = iota

	// ChangeDelete indicates a value was removed.
	ChangeDelete

	// ChangeReload indicates a configuration source was reloaded.
	ChangeReload
)

// String returns the change type name.
func (c ChangeType) String() string {
	switch c {
	case ChangeSet:
		return "set"
	case ChangeDelete:
		return "delete"
	case ChangeReload:
		return "reload"
	default:
		return "unknown"
	}
}

// Change represents a configuration change event.
type Change struct {
	// Path is the dot-separated setting path. Empty for reload events.
	Path string

	// Type is the type of change.
	Type ChangeType

	// OldValue is the previous effective value (nil if unset).
	OldValue any

	// NewValue is the new effective value (nil for deletes).
	NewValue any

	// Source names the layer or file that caused the change.
	Source string
}

// Observer is called when configuration changes occur.
type Observer func(change Change)

// Subscription represents an active observer subscription.
type Subscription struct {
	id       uint64
	notifier *Notifier
}

// Unsubscribe removes this subscription. It is safe to call more than once.
func (s *Subscription) Unsubscribe() {
	if s != nil && s.notifier != nil {
		s.notifier.unsubscribe(s.id)
	}
}

// Notifier manages configuration change subscriptions.
type Notifier struct {
	mu sync.RWMutex

	global map[uint64]Observer
	paths  map[string]map[uint64]Observer
	nextID uint64
	closed bool

	logger *zap.Logger
}

// Option configures a Notifier.
type Option func(*Notifier)

// WithLogger sets the logger used to report panicking observers.
func WithLogger(l *zap.Logger) Option {
	return func(n *Notifier) {
		if l != nil {
			n.logger = l
		}
	}
}

// New creates a new Notifier.
func New(opts ...Option) *Notifier {
	n := &Notifier{
		global: make(map[uint64]Observer),
		paths:  make(map[string]map[uint64]Observer),
		logger: zap.NewNop(),
	}
	for _, opt := range opts {
		opt(n)
	}
	return n
}

// Subscribe registers an observer for all changes.
func (n *Notifier) Subscribe(observer Observer) *Subscription {
	n.mu.Lock()
	defer n.mu.Unlock()

	id := n.nextID
	n.nextID++
	n.global[id] = observer
	return &Subscription{id: id, notifier: n}
}

// SubscribePath registers an observer for changes at path or below it.
// Subscribing to "scroll" receives changes to "scroll.intensity". Path
// observers also receive reload events.
func (n *Notifier) SubscribePath(path string, observer Observer) *Subscription {
	n.mu.Lock()
	defer n.mu.Unlock()

	id := n.nextID
	n.nextID++
	if n.paths[path] == nil {
		n.paths[path] = make(map[uint64]Observer)
	}
	n.paths[path][id] = observer
	return &Subscription{id: id, notifier: n}
}

// Notify delivers changes in order and returns once every observer has run.
func (n *Notifier) Notify(changes ...Change) {
	if len(changes) == 0 {
		return
	}

	n.mu.RLock()
	closed := n.closed
	n.mu.RUnlock()
	if closed {
		return
	}
	n.deliver(changes)
}

// NotifyReload publishes a reload event for source.
func (n *Notifier) NotifyReload(source string) {
	n.Notify(Change{Type: ChangeReload, Source: source})
}

// Close stops delivery; later Notify calls are dropped. It is safe to call
// Close multiple times.
func (n *Notifier) Close() {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.closed = true
}

func (n *Notifier) unsubscribe(id uint64) {
	n.mu.Lock()
	defer n.mu.Unlock()

	delete(n.global, id)
	for path, observers := range n.paths {
		delete(observers, id)
		if len(observers) == 0 {
			delete(n.paths, path)
		}
	}
}

func (n *Notifier) deliver(changes []Change) {
	for _, change := range changes {
		for _, obs := range n.observersFor(change) {
			n.call(obs, change)
		}
	}
}

// observersFor collects matching observers so they run outside the lock.
func (n *Notifier) observersFor(change Change) []Observer {
	n.mu.RLock()
	defer n.mu.RUnlock()

	observers := make([]Observer, 0, len(n.global))
	for _, obs := range n.global {
		observers = append(observers, obs)
	}
	for path, pathObs := range n.paths {
		if change.Path != "" && path != change.Path && !isParentPath(path, change.Path) {
			continue
		}
		for _, obs := range pathObs {
			observers = append(observers, obs)
		}
	}
	return observers
}

func (n *Notifier) call(obs Observer, change Change) {
	defer func() {
		if r := recover(); r != nil {
			n.logger.Error("config observer panicked",
				zap.String("path", change.Path),
				zap.Stringer("type", change.Type),
				zap.Any("panic", r),
			)
		}
	}()
	obs(change)
}

// isParentPath reports whether parent is a proper prefix of child on a
// segment boundary: "scroll" is a parent of "scroll.intensity".
func isParentPath(parent, child string) bool {
	if parent == "" {
		return true
	}
	return len(child) > len(parent) && child[:len(parent)] == parent && child[len(parent)] == '.'
}
