package sim

import (
	"context"
	"fmt"
	"os"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"

	"github.com/c360/prodcon/buffer"
	"github.com/c360/prodcon/errors"
)

// Simulation orchestrates one producer/consumer run: it builds the shared
// buffer and sink, pre-generates every producer's source, executes all
// workers concurrently, closes the buffer once producers are done, and
// certifies data integrity from the terminal state. A Simulation is
// single-use; a second Run returns ErrAlreadyRun.
type Simulation struct {
	cfg   Config
	runID string

	buf       *buffer.Bounded[Item]
	sink      *Sink
	producers []*Producer
	consumers []*Consumer

	producedIDs []string
	ran         atomic.Bool
	result      atomic.Pointer[Result]
}

// New validates the configuration and prepares a simulation.
func New(cfg Config) (*Simulation, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &Simulation{
		cfg:   cfg.withDefaults(),
		runID: uuid.NewString(),
	}, nil
}

// RunID returns the unique identifier assigned to this run.
func (s *Simulation) RunID() string {
	return s.runID
}

// Result returns the record of a completed run. Before Run has finished it
// fails with ErrNotRun.
func (s *Simulation) Result() (*Result, error) {
	result := s.result.Load()
	if result == nil {
		return nil, errors.WrapInvalid(errors.ErrNotRun, "Simulation", "Result",
			"result requested before run completed")
	}
	return result, nil
}

// Run executes the three phases (setup, execution, analysis) and returns the
// immutable result record. Worker failures never surface here as errors;
// they appear in the result's error list. Run itself only fails on misuse.
func (s *Simulation) Run(ctx context.Context) (*Result, error) {
	if !s.ran.CompareAndSwap(false, true) {
		return nil, errors.WrapInvalid(errors.ErrAlreadyRun, "Simulation", "Run", "re-run attempt")
	}

	start := time.Now()
	if err := s.setup(); err != nil {
		return nil, err
	}

	s.cfg.Logger.Info("simulation starting",
		"run_id", s.runID,
		"scenario", s.cfg.ScenarioName,
		"producers", s.cfg.NumProducers,
		"consumers", s.cfg.NumConsumers,
		"capacity", s.cfg.Capacity,
		"items_per_producer", s.cfg.ItemsPerProducer)

	s.execute(ctx)

	result := s.analyze(start, time.Now())
	s.result.Store(result)
	s.recordMetrics(result)

	s.cfg.Logger.Info("simulation finished",
		"run_id", s.runID,
		"produced", result.TotalProduced,
		"consumed", result.TotalConsumed,
		"lost", result.ItemsLost,
		"duplicated", result.ItemsDuplicated,
		"success", result.Success(),
		"duration", result.Duration)

	return result, nil
}

// setup builds the buffer, the sink, and every worker. Item sources are
// generated synchronously here so the produced identifiers are known before
// any goroutine starts.
func (s *Simulation) setup() error {
	// Name per run so repeated runs against one registry don't collide.
	bufOpts := []buffer.Option[Item]{
		buffer.WithName[Item](fmt.Sprintf("%s-%s", s.cfg.ScenarioName, s.runID[:8])),
	}
	if s.cfg.Metrics != nil {
		bufOpts = append(bufOpts, buffer.WithMetrics[Item](s.cfg.Metrics))
	}

	buf, err := buffer.New[Item](s.cfg.Capacity, bufOpts...)
	if err != nil {
		return err
	}
	s.buf = buf
	s.sink = NewSink()

	trace := s.cfg.Trace
	if !s.cfg.Verbose {
		trace = nil
	} else if trace == nil {
		trace = func(line string) { fmt.Fprintln(os.Stdout, line) }
	}

	for i := 0; i < s.cfg.NumProducers; i++ {
		source := Source(i, s.cfg.ItemsPerProducer)
		for _, item := range source {
			s.producedIDs = append(s.producedIDs, item.ID)
		}
		s.producers = append(s.producers, NewProducer(ProducerConfig{
			Index:  i,
			Source: source,
			Buffer: s.buf,
			Delay:  s.cfg.ProducerDelay,
			Logger: s.cfg.Logger,
			Trace:  trace,
		}))
	}

	for i := 0; i < s.cfg.NumConsumers; i++ {
		s.consumers = append(s.consumers, NewConsumer(ConsumerConfig{
			Index:       i,
			Buffer:      s.buf,
			Sink:        s.sink,
			Target:      s.cfg.ConsumerTarget,
			TakeTimeout: s.cfg.TakeTimeout,
			Delay:       s.cfg.ConsumerDelay,
			Logger:      s.cfg.Logger,
			Trace:       trace,
		}))
	}

	return nil
}

// execute runs all workers concurrently. The ordering contract: every
// producer finishes before the buffer closes, so no producer ever observes a
// premature close; the close then guarantees consumers terminate once the
// buffer drains.
func (s *Simulation) execute(ctx context.Context) {
	workersActive := func(role string, delta float64) {
		if s.cfg.Metrics != nil {
			s.cfg.Metrics.CoreMetrics().WorkersActive.WithLabelValues(role).Add(delta)
		}
	}

	var producerWg sync.WaitGroup
	for _, p := range s.producers {
		producerWg.Add(1)
		workersActive("producer", 1)
		go func(p *Producer) {
			defer producerWg.Done()
			defer workersActive("producer", -1)
			p.Run(ctx)
		}(p)
	}

	var consumerWg sync.WaitGroup
	for _, c := range s.consumers {
		consumerWg.Add(1)
		workersActive("consumer", 1)
		go func(c *Consumer) {
			defer consumerWg.Done()
			defer workersActive("consumer", -1)
			c.Run(ctx)
		}(c)
	}

	producerWg.Wait()
	s.buf.Close()
	consumerWg.Wait()
}

// analyze computes the integrity report from terminal worker and buffer state.
func (s *Simulation) analyze(start, end time.Time) *Result {
	result := &Result{
		RunID:        s.runID,
		ScenarioName: s.cfg.ScenarioName,
		Config:       s.cfg,
		StartTime:    start,
		EndTime:      end,
		Duration:     end.Sub(start),
	}

	for _, p := range s.producers {
		stats := p.Stats()
		result.ProducerStats = append(result.ProducerStats, stats)
		result.TotalProduced += stats.Items
		if stats.Err != "" {
			result.Errors = append(result.Errors,
				fmt.Sprintf("producer %s failed: %s", stats.ID, stats.Err))
		}
	}
	for _, c := range s.consumers {
		stats := c.Stats()
		result.ConsumerStats = append(result.ConsumerStats, stats)
		result.TotalConsumed += stats.Items
		if stats.Err != "" {
			result.Errors = append(result.Errors,
				fmt.Sprintf("consumer %s failed: %s", stats.ID, stats.Err))
		}
	}

	result.ExpectedTotal = s.cfg.ExpectedTotal()
	result.ProducedIDs = append([]string(nil), s.producedIDs...)
	result.ConsumedIDs = s.sink.IDs()

	bufStats := s.buf.Stats()
	result.MaxQueueSize = int(bufStats.HighWater())
	result.BufferFinalSize = s.buf.Size()

	// Identity analysis: loss, duplication, and impossible arrivals.
	producedSet := make(map[string]struct{}, len(result.ProducedIDs))
	for _, id := range result.ProducedIDs {
		producedSet[id] = struct{}{}
	}
	consumedSet := make(map[string]struct{}, len(result.ConsumedIDs))
	for _, id := range result.ConsumedIDs {
		consumedSet[id] = struct{}{}
	}

	for id := range producedSet {
		if _, ok := consumedSet[id]; !ok {
			result.ItemsLost++
		}
	}
	result.ItemsDuplicated = len(result.ConsumedIDs) - len(consumedSet)

	unexpected := 0
	for id := range consumedSet {
		if _, ok := producedSet[id]; !ok {
			unexpected++
		}
	}
	if unexpected > 0 {
		result.Errors = append(result.Errors,
			fmt.Sprintf("found %d items consumed but never produced", unexpected))
	}

	return result
}

// recordMetrics exports run-level outcomes when a registry is configured.
func (s *Simulation) recordMetrics(result *Result) {
	if s.cfg.Metrics == nil {
		return
	}

	core := s.cfg.Metrics.CoreMetrics()
	scenario := s.cfg.ScenarioName

	status := "success"
	if !result.Success() {
		status = "failure"
	}
	core.RunsTotal.WithLabelValues(scenario, status).Inc()
	core.RunDuration.WithLabelValues(scenario).Observe(result.Duration.Seconds())
	core.ItemsProduced.WithLabelValues(scenario).Add(float64(result.TotalProduced))
	core.ItemsConsumed.WithLabelValues(scenario).Add(float64(result.TotalConsumed))
	if result.ItemsLost > 0 {
		core.IntegrityViolations.WithLabelValues(scenario, "lost").Add(float64(result.ItemsLost))
	}
	if result.ItemsDuplicated > 0 {
		core.IntegrityViolations.WithLabelValues(scenario, "duplicated").Add(float64(result.ItemsDuplicated))
	}
}
