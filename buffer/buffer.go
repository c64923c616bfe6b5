// Package buffer provides the bounded, thread-safe blocking buffer at the
// heart of ProdCon: fixed-capacity FIFO storage, blocking put/take with
// context-bounded waits, and one-way close propagation.
package buffer

import (
	"context"
	"sync"
	"time"

	"github.com/c360/prodcon/errors"
)

// Bounded is a fixed-capacity FIFO buffer with blocking insert and remove.
// Producers block while the buffer is full; consumers block while it is
// empty. A single mutex guards the ring storage, the closed flag, and the
// counters; two condition variables (notFull / notEmpty) keyed to that mutex
// wake exactly the waiters whose predicate may have changed. The closed flag
// is checked under the same lock as the queue contents so a producer can
// never observe "open" while a consumer concurrently closes.
type Bounded[T any] struct {
	mu       sync.Mutex
	items    []T
	capacity int
	size     int
	head     int // next write position
	tail     int // next read position

	notFull  *sync.Cond
	notEmpty *sync.Cond
	closed   bool

	stats   *Statistics    // always initialized
	metrics *bufferMetrics // optional Prometheus metrics
	opts    *bufferOptions[T]
}

// New creates a bounded buffer with the given capacity. A non-positive
// capacity is a contract violation and is rejected with a classified invalid
// error. Statistics are always collected; Prometheus metrics are optional
// via WithMetrics.
func New[T any](capacity int, options ...Option[T]) (*Bounded[T], error) {
	if capacity <= 0 {
		return nil, errors.WrapInvalid(errors.ErrInvalidCapacity, "Bounded", "New", "buffer construction")
	}

	opts := applyOptions(options...)
	stats := NewStatistics()

	var metrics *bufferMetrics
	if opts.metricsReg != nil && opts.name != "" {
		var err error
		metrics, err = newBufferMetrics(opts.metricsReg, opts.name)
		if err != nil {
			return nil, errors.WrapTransient(err, "Bounded", "New", "metrics registration")
		}
	}

	b := &Bounded[T]{
		items:    make([]T, capacity),
		capacity: capacity,
		stats:    stats,
		metrics:  metrics,
		opts:     opts,
	}
	b.notFull = sync.NewCond(&b.mu)
	b.notEmpty = sync.NewCond(&b.mu)

	return b, nil
}

// Put appends item to the tail, blocking while the buffer is full and open.
// A closed buffer, whether observed on entry or while waiting, is a contract
// violation and yields a classified invalid error wrapping ErrBufferClosed.
// If ctx expires or is cancelled while the buffer is still full, Put returns
// ctx.Err() and leaves the buffer unchanged. On success exactly one waiter
// blocked on "not empty" is woken.
func (b *Bounded[T]) Put(ctx context.Context, item T) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.closed {
		b.stats.reject()
		if b.metrics != nil {
			b.metrics.recordReject()
		}
		return errors.WrapInvalid(errors.ErrBufferClosed, "Bounded", "Put", "item insert")
	}

	if b.size == b.capacity {
		stop := b.wakeOnDone(ctx, b.notFull)
		defer stop()

		for b.size == b.capacity && !b.closed {
			if err := ctx.Err(); err != nil {
				b.stats.putTimeout()
				if b.metrics != nil {
					b.metrics.recordPutTimeout()
				}
				return err
			}
			b.notFull.Wait()
		}

		if b.closed {
			b.stats.reject()
			if b.metrics != nil {
				b.metrics.recordReject()
			}
			return errors.WrapInvalid(errors.ErrBufferClosed, "Bounded", "Put",
				"buffer closed during blocking wait")
		}
	}

	b.items[b.head] = item
	b.head = (b.head + 1) % b.capacity
	b.size++

	b.stats.put()
	b.stats.updateSize(int64(b.size))
	if b.metrics != nil {
		b.metrics.recordPut(b.size, b.capacity)
	}

	b.notEmpty.Signal()
	return nil
}

// PutTimeout is a convenience wrapper around Put with a deadline. A
// non-positive timeout waits indefinitely (until room or close).
func (b *Bounded[T]) PutTimeout(item T, timeout time.Duration) error {
	if timeout <= 0 {
		return b.Put(context.Background(), item)
	}
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()
	return b.Put(ctx, item)
}

// Take removes and returns the head item, blocking while the buffer is empty
// and open. The three outcomes stay distinguishable:
//
//	(item, true, nil)       success; one "not full" waiter is woken
//	(zero, false, nil)      closed and drained; no item will ever arrive
//	(zero, false, ctx.Err()) deadline expired or cancelled while empty
func (b *Bounded[T]) Take(ctx context.Context) (T, bool, error) {
	var zero T

	b.mu.Lock()
	defer b.mu.Unlock()

	if b.size == 0 && !b.closed {
		stop := b.wakeOnDone(ctx, b.notEmpty)
		defer stop()

		for b.size == 0 && !b.closed {
			if err := ctx.Err(); err != nil {
				b.stats.takeTimeout()
				if b.metrics != nil {
					b.metrics.recordTakeTimeout()
				}
				return zero, false, err
			}
			b.notEmpty.Wait()
		}
	}

	if b.size == 0 {
		// Closed and drained.
		return zero, false, nil
	}

	item := b.items[b.tail]
	b.items[b.tail] = zero // clear for GC
	b.tail = (b.tail + 1) % b.capacity
	b.size--

	b.stats.take()
	b.stats.updateSize(int64(b.size))
	if b.metrics != nil {
		b.metrics.recordTake(b.size, b.capacity)
	}

	b.notFull.Signal()
	return item, true, nil
}

// TakeTimeout is a convenience wrapper around Take with a deadline. A
// non-positive timeout waits indefinitely (until an item or close).
func (b *Bounded[T]) TakeTimeout(timeout time.Duration) (T, bool, error) {
	if timeout <= 0 {
		return b.Take(context.Background())
	}
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()
	return b.Take(ctx)
}

// Close marks the buffer closed and wakes all waiters on both conditions.
// Blocked producers fail with the closed-buffer violation; blocked consumers
// drain whatever is queued and then observe "closed and drained". Close is
// idempotent and never discards queued items.
func (b *Bounded[T]) Close() {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.closed {
		return
	}
	b.closed = true

	b.notFull.Broadcast()
	b.notEmpty.Broadcast()
}

// Size returns the current number of items in the buffer.
func (b *Bounded[T]) Size() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.size
}

// Capacity returns the maximum number of items the buffer can hold.
func (b *Bounded[T]) Capacity() int {
	return b.capacity // immutable, no lock needed
}

// IsFull reports whether the buffer is at capacity.
func (b *Bounded[T]) IsFull() bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.size == b.capacity
}

// IsEmpty reports whether the buffer holds no items.
func (b *Bounded[T]) IsEmpty() bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.size == 0
}

// IsClosed reports whether Close has been called.
func (b *Bounded[T]) IsClosed() bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.closed
}

// Drained reports whether the buffer is closed and empty, i.e. no item will
// ever be available again.
func (b *Bounded[T]) Drained() bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.closed && b.size == 0
}

// Stats returns the buffer's always-on statistics.
func (b *Bounded[T]) Stats() *Statistics {
	return b.stats
}

// wakeOnDone broadcasts cond when ctx is cancelled so that a waiter sleeping
// in cond.Wait re-checks its predicate. The broadcast takes the buffer mutex
// first: the waiter holds it at all times except while parked in Wait, so the
// wakeup cannot slip between its predicate check and the park. The returned
// stop function must be called once the wait loop exits.
func (b *Bounded[T]) wakeOnDone(ctx context.Context, cond *sync.Cond) func() {
	if ctx.Done() == nil {
		return func() {}
	}

	done := make(chan struct{})
	go func() {
		select {
		case <-ctx.Done():
			b.mu.Lock()
			cond.Broadcast()
			b.mu.Unlock()
		case <-done:
		}
	}()

	return func() { close(done) }
}
