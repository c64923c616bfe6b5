package sim

import (
	"context"
	"fmt"
	"log/slog"
	"sync/atomic"
	"time"

	"golang.org/x/time/rate"

	"github.com/c360/prodcon/buffer"
	"github.com/c360/prodcon/errors"
)

// maxConsecutiveTimeouts bounds a consumer's lifetime when no target count
// is configured and no close signal ever arrives: after this many take
// timeouts in a row the consumer gives up. A liveness safeguard, not an
// error path.
const maxConsecutiveTimeouts = 3

// DefaultTakeTimeout is the per-take deadline used when none is configured.
const DefaultTakeTimeout = time.Second

// ConsumerConfig describes one consumer worker.
type ConsumerConfig struct {
	Index       int
	Buffer      *buffer.Bounded[Item]
	Sink        *Sink
	Target      int           // stop after this many items; 0 = run until drained
	TakeTimeout time.Duration // per-take deadline; 0 = DefaultTakeTimeout
	Delay       time.Duration // pacing after each consumed item; 0 = unpaced
	Logger      *slog.Logger
	Trace       TraceFunc
}

// Consumer pulls items from the shared buffer into the shared sink until a
// target count is reached, the buffer is closed and drained, or the
// consecutive-timeout safeguard fires. Statistics fields are owned by the
// worker during Run and read-only afterwards.
type Consumer struct {
	id          string
	buf         *buffer.Bounded[Item]
	sink        *Sink
	target      int
	takeTimeout time.Duration
	limiter     *rate.Limiter
	logger      *slog.Logger
	trace       TraceFunc

	started   atomic.Bool
	consumed  int
	waits     int
	startTime time.Time
	endTime   time.Time
	reason    StopReason
	runErr    error
}

// StopReason records why a consumer's loop terminated.
type StopReason string

const (
	// StopTarget means the configured target item count was reached.
	StopTarget StopReason = "target-reached"
	// StopDrained means the buffer was closed and fully drained.
	StopDrained StopReason = "closed-and-drained"
	// StopGaveUp means the consecutive-timeout safeguard fired.
	StopGaveUp StopReason = "gave-up"
	// StopError means an unexpected failure ended the loop early.
	StopError StopReason = "error"
)

// ConsumerStats is the terminal snapshot of one consumer's run.
type ConsumerStats struct {
	ID       string        `json:"consumer_id"`
	Items    int           `json:"items_consumed"`
	Waits    int           `json:"waits_encountered"`
	Target   int           `json:"target_items,omitempty"`
	Duration time.Duration `json:"duration"`
	Reason   StopReason    `json:"stop_reason"`
	Err      string        `json:"error,omitempty"`
}

// NewConsumer creates a consumer bound to the shared buffer and sink.
func NewConsumer(cfg ConsumerConfig) *Consumer {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	timeout := cfg.TakeTimeout
	if timeout <= 0 {
		timeout = DefaultTakeTimeout
	}

	var limiter *rate.Limiter
	if cfg.Delay > 0 {
		limiter = rate.NewLimiter(rate.Every(cfg.Delay), 1)
	}

	id := fmt.Sprintf("C%d", cfg.Index)
	return &Consumer{
		id:          id,
		buf:         cfg.Buffer,
		sink:        cfg.Sink,
		target:      cfg.Target,
		takeTimeout: timeout,
		limiter:     limiter,
		logger:      logger.With("worker", id),
		trace:       cfg.Trace,
	}
}

// ID returns the consumer's worker identifier.
func (c *Consumer) ID() string {
	return c.id
}

// Run drains the buffer into the sink. All failure modes are recorded
// locally; the orchestrator must always be able to join this worker.
func (c *Consumer) Run(ctx context.Context) {
	// Workers are single-use: their stats fields have no lock, so a second
	// Run must not touch the terminal state of the first.
	if !c.started.CompareAndSwap(false, true) {
		c.logger.Warn("consumer run rejected", "error", errors.ErrAlreadyStarted)
		return
	}

	c.startTime = time.Now()
	defer func() {
		if r := recover(); r != nil {
			c.runErr = fmt.Errorf("panic: %v", r)
			c.reason = StopError
			c.logger.Error("consumer panicked", "panic", r)
		}
		c.endTime = time.Now()
		c.logger.Debug("consumer finished",
			"consumed", c.consumed,
			"waits", c.waits,
			"reason", c.reason,
			"duration", c.endTime.Sub(c.startTime))
		c.tracef("Finished. Consumed %d items in %.3fs (waited %d times)",
			c.consumed, c.endTime.Sub(c.startTime).Seconds(), c.waits)
	}()

	consecutiveTimeouts := 0
	for {
		if c.target > 0 && c.consumed >= c.target {
			c.reason = StopTarget
			return
		}
		if c.buf.Drained() {
			c.reason = StopDrained
			return
		}

		// Advisory check, racy by design: it only feeds the wait
		// counter. The authoritative blocking happens inside Take.
		if c.buf.IsEmpty() && !c.buf.IsClosed() {
			c.waits++
			c.tracef("Waiting, queue is empty...")
		}

		item, ok, err := c.takeOne(ctx)
		if err != nil {
			if ctx.Err() != nil {
				// The run itself was cancelled, not just one take.
				c.runErr = ctx.Err()
				c.reason = StopError
				return
			}
			consecutiveTimeouts++
			if c.target == 0 && consecutiveTimeouts >= maxConsecutiveTimeouts {
				c.reason = StopGaveUp
				c.logger.Debug("consumer giving up after consecutive timeouts",
					"timeouts", consecutiveTimeouts)
				return
			}
			continue
		}
		if !ok {
			c.reason = StopDrained
			return
		}

		consecutiveTimeouts = 0
		c.sink.Append(item)
		c.consumed++

		size := c.buf.Size()
		capacity := c.buf.Capacity()
		status := ""
		if size == 0 {
			status = " (EMPTY, consumers may block)"
		}
		c.tracef("Consumed item=%s   | queue size: %d/%d%s", item.ID, size, capacity, status)

		if c.limiter != nil {
			if err := c.limiter.Wait(ctx); err != nil {
				c.runErr = err
				c.reason = StopError
				return
			}
		}
	}
}

// takeOne performs one bounded take, deriving the deadline from the run
// context so cancellation still cuts the wait short.
func (c *Consumer) takeOne(ctx context.Context) (Item, bool, error) {
	takeCtx, cancel := context.WithTimeout(ctx, c.takeTimeout)
	defer cancel()
	return c.buf.Take(takeCtx)
}

// Stats returns the terminal snapshot. Only meaningful after Run returned.
func (c *Consumer) Stats() ConsumerStats {
	stats := ConsumerStats{
		ID:     c.id,
		Items:  c.consumed,
		Waits:  c.waits,
		Target: c.target,
		Reason: c.reason,
	}
	if !c.startTime.IsZero() && !c.endTime.IsZero() {
		stats.Duration = c.endTime.Sub(c.startTime)
	}
	if c.runErr != nil {
		stats.Err = c.runErr.Error()
	}
	return stats
}

func (c *Consumer) tracef(format string, args ...any) {
	if c.trace == nil {
		return
	}
	elapsed := time.Since(c.startTime).Seconds()
	c.trace(fmt.Sprintf("[%07.3fs] [%s] %s", elapsed, c.id, fmt.Sprintf(format, args...)))
}
