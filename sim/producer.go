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

// TraceFunc receives one timestamped, tagged text line per worker event.
// It is only invoked when verbose tracing is enabled.
type TraceFunc func(line string)

// ProducerConfig describes one producer worker.
type ProducerConfig struct {
	Index  int
	Source []Item
	Buffer *buffer.Bounded[Item]
	Delay  time.Duration // pacing after each successful insert; 0 = unpaced
	Logger *slog.Logger
	Trace  TraceFunc
}

// Producer pushes a fixed, pre-generated item sequence into the shared
// buffer. Its statistics fields are owned exclusively by the worker during
// Run and are read-only once Run returns.
type Producer struct {
	id      string
	source  []Item
	buf     *buffer.Bounded[Item]
	limiter *rate.Limiter
	logger  *slog.Logger
	trace   TraceFunc

	started   atomic.Bool
	produced  int
	blocks    int
	startTime time.Time
	endTime   time.Time
	runErr    error
}

// ProducerStats is the terminal snapshot of one producer's run.
type ProducerStats struct {
	ID       string        `json:"producer_id"`
	Items    int           `json:"items_produced"`
	Blocks   int           `json:"blocks_encountered"`
	Expected int           `json:"expected_items"`
	Duration time.Duration `json:"duration"`
	Err      string        `json:"error,omitempty"`
}

// NewProducer creates a producer bound to the shared buffer.
func NewProducer(cfg ProducerConfig) *Producer {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	var limiter *rate.Limiter
	if cfg.Delay > 0 {
		// Burst 1 with a full initial bucket: the first insert is
		// immediate, every later one is spaced by Delay.
		limiter = rate.NewLimiter(rate.Every(cfg.Delay), 1)
	}

	id := fmt.Sprintf("P%d", cfg.Index)
	return &Producer{
		id:      id,
		source:  cfg.Source,
		buf:     cfg.Buffer,
		limiter: limiter,
		logger:  logger.With("worker", id),
		trace:   cfg.Trace,
	}
}

// ID returns the producer's worker identifier.
func (p *Producer) ID() string {
	return p.id
}

// Run pushes every source item into the buffer in order, stopping early on
// the first failure. Failures (including panics out of the buffer layer) are
// recorded in the producer's stats and never propagate: the orchestrator
// must always be able to join this worker.
func (p *Producer) Run(ctx context.Context) {
	// Workers are single-use: their stats fields have no lock, so a second
	// Run must not touch the terminal state of the first.
	if !p.started.CompareAndSwap(false, true) {
		p.logger.Warn("producer run rejected", "error", errors.ErrAlreadyStarted)
		return
	}

	p.startTime = time.Now()
	defer func() {
		if r := recover(); r != nil {
			p.runErr = fmt.Errorf("panic: %v", r)
			p.logger.Error("producer panicked", "panic", r)
		}
		p.endTime = time.Now()
		p.logger.Debug("producer finished",
			"produced", p.produced,
			"blocks", p.blocks,
			"duration", p.endTime.Sub(p.startTime))
		p.tracef("Finished. Produced %d items in %.3fs (blocked %d times)",
			p.produced, p.endTime.Sub(p.startTime).Seconds(), p.blocks)
	}()

	for _, item := range p.source {
		// Advisory check, racy by design: it only feeds the blocked
		// counter. The authoritative blocking happens inside Put.
		if p.buf.IsFull() {
			p.blocks++
			p.tracef("Waiting, queue is full...")
		}

		if err := p.buf.Put(ctx, item); err != nil {
			p.runErr = err
			p.logger.Warn("producer stopping early", "error", err)
			p.tracef("ERROR: %v", err)
			return
		}
		p.produced++

		size := p.buf.Size()
		capacity := p.buf.Capacity()
		status := ""
		if size == capacity {
			status = " (FULL, producers may block)"
		}
		p.tracef("Produced item=%s   | queue size: %d/%d%s", item.ID, size, capacity, status)

		if p.limiter != nil {
			if err := p.limiter.Wait(ctx); err != nil {
				p.runErr = err
				return
			}
		}
	}
}

// Stats returns the terminal snapshot. Only meaningful after Run returned.
func (p *Producer) Stats() ProducerStats {
	stats := ProducerStats{
		ID:       p.id,
		Items:    p.produced,
		Blocks:   p.blocks,
		Expected: len(p.source),
	}
	if !p.startTime.IsZero() && !p.endTime.IsZero() {
		stats.Duration = p.endTime.Sub(p.startTime)
	}
	if p.runErr != nil {
		stats.Err = p.runErr.Error()
	}
	return stats
}

func (p *Producer) tracef(format string, args ...any) {
	if p.trace == nil {
		return
	}
	elapsed := time.Since(p.startTime).Seconds()
	p.trace(fmt.Sprintf("[%07.3fs] [%s] %s", elapsed, p.id, fmt.Sprintf(format, args...)))
}
