package buffer

import (
	"sync"
	"sync/atomic"
	"time"
)

// Statistics tracks buffer performance counters. Operation counts use atomic
// updates; size tracking is guarded by a mutex because the high-water mark
// must move together with the current size.
type Statistics struct {
	puts         int64
	takes        int64
	putTimeouts  int64
	takeTimeouts int64
	rejects      int64 // puts refused because the buffer was closed

	mu          sync.RWMutex
	startTime   time.Time
	currentSize int64
	highWater   int64
}

// NewStatistics creates a new statistics tracker.
func NewStatistics() *Statistics {
	return &Statistics{
		startTime: time.Now(),
	}
}

func (s *Statistics) put() {
	atomic.AddInt64(&s.puts, 1)
}

func (s *Statistics) take() {
	atomic.AddInt64(&s.takes, 1)
}

func (s *Statistics) putTimeout() {
	atomic.AddInt64(&s.putTimeouts, 1)
}

func (s *Statistics) takeTimeout() {
	atomic.AddInt64(&s.takeTimeouts, 1)
}

func (s *Statistics) reject() {
	atomic.AddInt64(&s.rejects, 1)
}

func (s *Statistics) updateSize(size int64) {
	s.mu.Lock()
	s.currentSize = size
	if size > s.highWater {
		s.highWater = size
	}
	s.mu.Unlock()
}

// Puts returns the total number of successful insertions.
func (s *Statistics) Puts() int64 {
	return atomic.LoadInt64(&s.puts)
}

// Takes returns the total number of successful removals.
func (s *Statistics) Takes() int64 {
	return atomic.LoadInt64(&s.takes)
}

// PutTimeouts returns how many Put calls gave up on a deadline.
func (s *Statistics) PutTimeouts() int64 {
	return atomic.LoadInt64(&s.putTimeouts)
}

// TakeTimeouts returns how many Take calls gave up on a deadline.
func (s *Statistics) TakeTimeouts() int64 {
	return atomic.LoadInt64(&s.takeTimeouts)
}

// Rejects returns how many Put calls were refused because the buffer was closed.
func (s *Statistics) Rejects() int64 {
	return atomic.LoadInt64(&s.rejects)
}

// CurrentSize returns the number of items in the buffer at the last update.
func (s *Statistics) CurrentSize() int64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.currentSize
}

// HighWater returns the maximum occupancy observed over the buffer's lifetime.
func (s *Statistics) HighWater() int64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.highWater
}

// Throughput returns the average number of successful puts per second.
func (s *Statistics) Throughput() float64 {
	s.mu.RLock()
	elapsed := time.Since(s.startTime)
	s.mu.RUnlock()

	if elapsed == 0 {
		return 0.0
	}
	return float64(s.Puts()) / elapsed.Seconds()
}

// TakeThroughput returns the average number of successful takes per second.
func (s *Statistics) TakeThroughput() float64 {
	s.mu.RLock()
	elapsed := time.Since(s.startTime)
	s.mu.RUnlock()

	if elapsed == 0 {
		return 0.0
	}
	return float64(s.Takes()) / elapsed.Seconds()
}

// Uptime returns how long the buffer has existed.
func (s *Statistics) Uptime() time.Duration {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return time.Since(s.startTime)
}

// StatsSummary is a point-in-time snapshot of all statistics.
type StatsSummary struct {
	Puts           int64         `json:"puts"`
	Takes          int64         `json:"takes"`
	PutTimeouts    int64         `json:"put_timeouts"`
	TakeTimeouts   int64         `json:"take_timeouts"`
	Rejects        int64         `json:"rejects"`
	CurrentSize    int64         `json:"current_size"`
	HighWater      int64         `json:"high_water"`
	Throughput     float64       `json:"throughput"`
	TakeThroughput float64       `json:"take_throughput"`
	Uptime         time.Duration `json:"uptime"`
}

// Summary returns a snapshot of all statistics.
func (s *Statistics) Summary() StatsSummary {
	return StatsSummary{
		Puts:           s.Puts(),
		Takes:          s.Takes(),
		PutTimeouts:    s.PutTimeouts(),
		TakeTimeouts:   s.TakeTimeouts(),
		Rejects:        s.Rejects(),
		CurrentSize:    s.CurrentSize(),
		HighWater:      s.HighWater(),
		Throughput:     s.Throughput(),
		TakeThroughput: s.TakeThroughput(),
		Uptime:         s.Uptime(),
	}
}
