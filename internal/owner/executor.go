// Package owner provides an executor that runs closures on a single owning
// goroutine.
//
// Viewports, screens and similar UI state may only be touched by the
// goroutine that owns them. Other goroutines queue work with Post or Invoke;
// the owner drains the queue from its event loop, either by selecting on C
// and calling the received closures, by calling Drain, or by handing a
// goroutine to Run. Closures run in the order they were queued.
package owner

import (
	"context"
	"errors"
	"sync"
)

// ErrClosed is returned when work is queued on a closed executor.
var ErrClosed = errors.New("owner executor closed")

// ErrFull is returned by TryPost when the queue has no free slot.
var ErrFull = errors.New("owner executor queue full")

// DefaultQueueSize is the queue capacity used when New is given a size < 1.
const DefaultQueueSize = 64

// Executor is a FIFO queue of closures consumed by one owner goroutine.
type Executor struct {
	queue chan func()
	done  chan struct{}
	wake  func()

	closeOnce sync.Once
}

// Option configures an Executor.
type Option func(*Executor)

// WithWake registers a hook called after each successful enqueue. Hosts whose
// loop blocks elsewhere (for example on terminal input) use it to wake up.
// The hook runs on the queuing goroutine and must not block.
func WithWake(fn func()) Option {
	return func(x *Executor) {
		x.wake = fn
	}
}

// New creates an executor with the given queue capacity.
func New(size int, opts ...Option) *Executor {
	if size < 1 {
		size = DefaultQueueSize
	}
	x := &Executor{
		queue: make(chan func(), size),
		done:  make(chan struct{}),
	}
	for _, opt := range opts {
		opt(x)
	}
	return x
}

// Post queues fn without waiting for it to run. It blocks while the queue is
// full and fails with ErrClosed once the executor is closed.
func (x *Executor) Post(fn func()) error {
	return x.enqueue(context.Background(), fn)
}

// TryPost queues fn if a slot is free and never blocks. Callers that may be
// running on the owner goroutine use it, since a blocking Post there would
// wait on itself.
func (x *Executor) TryPost(fn func()) error {
	select {
	case <-x.done:
		return ErrClosed
	default:
	}

	select {
	case x.queue <- fn:
	default:
		return ErrFull
	}

	if x.wake != nil {
		x.wake()
	}
	return nil
}

// Invoke queues fn and waits until the owner has run it. If ctx ends first,
// Invoke returns ctx.Err() and fn will be skipped when the owner dequeues it,
// so a caller that gave up never has its closure run afterwards.
func (x *Executor) Invoke(ctx context.Context, fn func()) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	ran := make(chan struct{})
	wrapped := func() {
		defer close(ran)
		if ctx.Err() != nil {
			return
		}
		fn()
	}
	if err := x.enqueue(ctx, wrapped); err != nil {
		return err
	}

	select {
	case <-ran:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	case <-x.done:
		return ErrClosed
	}
}

func (x *Executor) enqueue(ctx context.Context, fn func()) error {
	select {
	case <-x.done:
		return ErrClosed
	default:
	}

	select {
	case x.queue <- fn:
	case <-ctx.Done():
		return ctx.Err()
	case <-x.done:
		return ErrClosed
	}

	if x.wake != nil {
		x.wake()
	}
	return nil
}

// C returns the queue for owners that multiplex it into their own select.
// Each received closure must be called on the owner goroutine.
func (x *Executor) C() <-chan func() {
	return x.queue
}

// Drain runs every closure currently queued and returns how many ran.
// It must be called from the owner goroutine. A closed executor runs nothing.
func (x *Executor) Drain() int {
	n := 0
	for {
		if x.Closed() {
			return n
		}
		select {
		case fn := <-x.queue:
			fn()
			n++
		default:
			return n
		}
	}
}

// Run makes the calling goroutine the owner and processes work until ctx
// ends or the executor is closed.
func (x *Executor) Run(ctx context.Context) error {
	for {
		select {
		case fn := <-x.queue:
			fn()
		case <-ctx.Done():
			return ctx.Err()
		case <-x.done:
			return nil
		}
	}
}

// Close rejects further work and releases waiters. Closures still queued are
// discarded. Close is idempotent.
func (x *Executor) Close() {
	x.closeOnce.Do(func() {
		close(x.done)
	})
}

// Closed reports whether Close has been called.
func (x *Executor) Closed() bool {
	select {
	case <-x.done:
		return true
	default:
		return false
	}
}
