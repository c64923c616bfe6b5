package sim

import (
	"fmt"
	"strings"
	"time"
)

// Result is the immutable record produced at the end of a simulation run.
// It aggregates terminal worker and buffer state plus the derived integrity
// fields; a run is successful only when every produced item was consumed
// exactly once and nothing impossible was observed.
type Result struct {
	RunID        string `json:"run_id"`
	ScenarioName string `json:"scenario_name"`
	Config       Config `json:"-"`

	StartTime time.Time     `json:"start_time"`
	EndTime   time.Time     `json:"end_time"`
	Duration  time.Duration `json:"duration"`

	TotalProduced int `json:"total_produced"`
	TotalConsumed int `json:"total_consumed"`
	ExpectedTotal int `json:"expected_total"`

	ProducedIDs []string `json:"produced_ids"`
	ConsumedIDs []string `json:"consumed_ids"`

	MaxQueueSize    int `json:"max_queue_size"`
	BufferFinalSize int `json:"buffer_final_size"`

	ProducerStats []ProducerStats `json:"producer_stats"`
	ConsumerStats []ConsumerStats `json:"consumer_stats"`

	ItemsLost       int      `json:"items_lost"`
	ItemsDuplicated int      `json:"items_duplicated"`
	Errors          []string `json:"errors,omitempty"`
}

// Success reports whether the run moved every expected item exactly once
// with no anomalies.
func (r *Result) Success() bool {
	return r.TotalProduced == r.ExpectedTotal &&
		r.TotalConsumed == r.ExpectedTotal &&
		r.ItemsLost == 0 &&
		r.ItemsDuplicated == 0 &&
		len(r.Errors) == 0
}

// Throughput returns consumed items per second over the run.
func (r *Result) Throughput() float64 {
	if r.Duration <= 0 {
		return 0.0
	}
	return float64(r.TotalConsumed) / r.Duration.Seconds()
}

// TotalBlocks sums the producers' blocked-on-full counters.
func (r *Result) TotalBlocks() int {
	total := 0
	for _, s := range r.ProducerStats {
		total += s.Blocks
	}
	return total
}

// TotalWaits sums the consumers' waited-on-empty counters.
func (r *Result) TotalWaits() int {
	total := 0
	for _, s := range r.ConsumerStats {
		total += s.Waits
	}
	return total
}

// Summary renders the human-readable multi-line report for the run.
func (r *Result) Summary() string {
	status := "FAILURE"
	if r.Success() {
		status = "SUCCESS"
	}

	rule := strings.Repeat("=", 70)
	lines := []string{
		"",
		rule,
		fmt.Sprintf("Scenario: %s", r.ScenarioName),
		rule,
		"",
		"Configuration:",
		fmt.Sprintf("  Producers: %d, Consumers: %d", r.Config.NumProducers, r.Config.NumConsumers),
		fmt.Sprintf("  Queue capacity: %d", r.Config.Capacity),
		fmt.Sprintf("  Items per producer: %d", r.Config.ItemsPerProducer),
		fmt.Sprintf("  Producer delay: %s, Consumer delay: %s", r.Config.ProducerDelay, r.Config.ConsumerDelay),
		"",
		"Results:",
		fmt.Sprintf("  Total produced: %d", r.TotalProduced),
		fmt.Sprintf("  Total consumed: %d", r.TotalConsumed),
		fmt.Sprintf("  Items lost: %d", r.ItemsLost),
		fmt.Sprintf("  Items duplicated: %d", r.ItemsDuplicated),
		fmt.Sprintf("  Max queue size reached: %d/%d", r.MaxQueueSize, r.Config.Capacity),
		fmt.Sprintf("  Simulation time: %.3fs", r.Duration.Seconds()),
		fmt.Sprintf("  Throughput: %.2f items/sec", r.Throughput()),
		fmt.Sprintf("  Status: %s", status),
		"",
	}

	if len(r.Errors) > 0 {
		lines = append(lines, "Errors:")
		for _, e := range r.Errors {
			lines = append(lines, fmt.Sprintf("  - %s", e))
		}
		lines = append(lines, "")
	}

	lines = append(lines, rule)
	return strings.Join(lines, "\n")
}
