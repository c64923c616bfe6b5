// Package buffer provides a bounded, thread-safe FIFO buffer with blocking
// put/take semantics, context-bounded waits, close propagation, built-in
// statistics, and optional Prometheus metrics integration.
//
// # Overview
//
// Bounded[T] is the coordination point between producer and consumer
// goroutines. Producers calling Put suspend while the buffer is full;
// consumers calling Take suspend while it is empty. Both waits can be
// bounded with a context deadline. Closing the buffer is the sole
// cooperative shutdown signal: it refuses further insertions, lets
// consumers drain what is already queued, and wakes every blocked party.
//
// # Quick Start
//
//	buf, err := buffer.New[string](5)
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	// Producer side
//	err = buf.Put(ctx, "work")
//
//	// Consumer side
//	item, ok, err := buf.Take(ctx)
//
// Bounded waits with the timeout helpers:
//
//	if err := buf.PutTimeout("work", 100*time.Millisecond); err != nil {
//	    // errors.Is(err, context.DeadlineExceeded): still full, unchanged
//	}
//
//	item, ok, err := buf.TakeTimeout(time.Second)
//	switch {
//	case err != nil: // timed out while empty; retry or give up
//	case !ok:        // closed and drained; terminate
//	default:         // got an item
//	}
//
// # Synchronization Design
//
// One mutex guards the ring storage, the closed flag, and all counters. Two
// condition variables keyed to that mutex (not-full and not-empty) let Put
// and Take wake exactly one waiter whose predicate changed, while Close
// broadcasts on both so every blocked goroutine re-evaluates. Checking the
// closed flag under the same lock as the queue contents rules out the lost
// wakeup where a producer observes "open" while a consumer concurrently
// closes.
//
// # Observability
//
// Statistics (always on) count successful puts and takes, abandoned waits,
// closed-buffer rejections, and the occupancy high-water mark; a snapshot is
// available via Stats().Summary(). Prometheus export is opt-in:
//
//	buf, err := buffer.New[Item](capacity,
//	    buffer.WithName[Item]("work-queue"),
//	    buffer.WithMetrics[Item](registry),
//	)
package buffer
