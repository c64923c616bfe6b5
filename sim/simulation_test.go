package sim

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/c360/prodcon/errors"
	"github.com/c360/prodcon/metric"
)

func TestSimulationBalancedRun(t *testing.T) {
	s, err := New(Config{
		ScenarioName:     "balanced-test",
		NumProducers:     2,
		NumConsumers:     2,
		Capacity:         5,
		ItemsPerProducer: 10,
		Logger:           discardLogger(),
	})
	require.NoError(t, err)

	result, err := s.Run(context.Background())
	require.NoError(t, err)

	assert.True(t, result.Success(), "run should be all green: %v", result.Errors)
	assert.Equal(t, 20, result.TotalProduced)
	assert.Equal(t, 20, result.TotalConsumed)
	assert.Equal(t, 20, result.ExpectedTotal)
	assert.Zero(t, result.ItemsLost)
	assert.Zero(t, result.ItemsDuplicated)
	assert.Zero(t, result.BufferFinalSize)
	assert.Empty(t, result.Errors)

	require.Len(t, result.ProducerStats, 2)
	for _, ps := range result.ProducerStats {
		assert.Equal(t, 10, ps.Items)
		assert.Empty(t, ps.Err)
	}
	require.Len(t, result.ConsumerStats, 2)
	assert.Equal(t, s.RunID(), result.RunID)
}

func TestSimulationHighContention(t *testing.T) {
	s, err := New(Config{
		ScenarioName:     "contention-test",
		NumProducers:     3,
		NumConsumers:     3,
		Capacity:         1,
		ItemsPerProducer: 20,
		Logger:           discardLogger(),
	})
	require.NoError(t, err)

	result, err := s.Run(context.Background())
	require.NoError(t, err)

	assert.True(t, result.Success(), "run should survive capacity 1: %v", result.Errors)
	assert.Equal(t, 60, result.TotalProduced)
	assert.Equal(t, 60, result.TotalConsumed)
	assert.Equal(t, 1, result.MaxQueueSize)
	assert.Positive(t, result.TotalBlocks())
	assert.Positive(t, result.TotalWaits())
}

func TestSimulationSingleStreamOrder(t *testing.T) {
	s, err := New(Config{
		ScenarioName:     "order-test",
		NumProducers:     1,
		NumConsumers:     1,
		Capacity:         3,
		ItemsPerProducer: 50,
		ConsumerTarget:   50,
		Logger:           discardLogger(),
	})
	require.NoError(t, err)

	result, err := s.Run(context.Background())
	require.NoError(t, err)
	require.True(t, result.Success(), "run errors: %v", result.Errors)

	want := make([]string, 50)
	for i := range want {
		want[i] = fmt.Sprintf("P0-%d", i)
	}
	if diff := cmp.Diff(want, result.ConsumedIDs); diff != "" {
		t.Errorf("consumed order mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff(result.ProducedIDs, result.ConsumedIDs); diff != "" {
		t.Errorf("consumed differs from produced (-produced +consumed):\n%s", diff)
	}
}

func TestSimulationRunIsSingleUse(t *testing.T) {
	s, err := New(Config{
		NumProducers:     1,
		NumConsumers:     1,
		Capacity:         2,
		ItemsPerProducer: 1,
		Logger:           discardLogger(),
	})
	require.NoError(t, err)

	_, err = s.Run(context.Background())
	require.NoError(t, err)

	_, err = s.Run(context.Background())
	require.Error(t, err)
	assert.ErrorIs(t, err, errors.ErrAlreadyRun)
	assert.True(t, errors.IsInvalid(err))
}

func TestSimulationResultAccessor(t *testing.T) {
	s, err := New(Config{
		NumProducers:     1,
		NumConsumers:     1,
		Capacity:         2,
		ItemsPerProducer: 3,
		Logger:           discardLogger(),
	})
	require.NoError(t, err)

	_, err = s.Result()
	require.Error(t, err)
	assert.ErrorIs(t, err, errors.ErrNotRun)
	assert.True(t, errors.IsInvalid(err))

	ran, err := s.Run(context.Background())
	require.NoError(t, err)

	got, err := s.Result()
	require.NoError(t, err)
	assert.Same(t, ran, got)
}

func TestNewRejectsInvalidConfig(t *testing.T) {
	tests := []struct {
		name string
		cfg  Config
	}{
		{"zero producers", Config{NumConsumers: 1, Capacity: 1, ItemsPerProducer: 1}},
		{"zero consumers", Config{NumProducers: 1, Capacity: 1, ItemsPerProducer: 1}},
		{"zero capacity", Config{NumProducers: 1, NumConsumers: 1, ItemsPerProducer: 1}},
		{"negative items", Config{NumProducers: 1, NumConsumers: 1, Capacity: 1, ItemsPerProducer: -1}},
		{"negative delay", Config{NumProducers: 1, NumConsumers: 1, Capacity: 1, ProducerDelay: -time.Second}},
		{"negative timeout", Config{NumProducers: 1, NumConsumers: 1, Capacity: 1, TakeTimeout: -time.Second}},
		{"negative target", Config{NumProducers: 1, NumConsumers: 1, Capacity: 1, ConsumerTarget: -1}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := New(tt.cfg)
			require.Error(t, err)
			assert.True(t, errors.IsInvalid(err))
		})
	}
}

func TestSimulationVerboseTrace(t *testing.T) {
	var mu sync.Mutex
	var lines []string

	s, err := New(Config{
		NumProducers:     1,
		NumConsumers:     1,
		Capacity:         2,
		ItemsPerProducer: 3,
		Verbose:          true,
		Trace: func(line string) {
			mu.Lock()
			lines = append(lines, line)
			mu.Unlock()
		},
		Logger: discardLogger(),
	})
	require.NoError(t, err)

	result, err := s.Run(context.Background())
	require.NoError(t, err)
	require.True(t, result.Success())

	mu.Lock()
	defer mu.Unlock()
	require.NotEmpty(t, lines)

	joined := ""
	for _, line := range lines {
		joined += line + "\n"
	}
	assert.Contains(t, joined, "[P0]")
	assert.Contains(t, joined, "[C0]")
	assert.Contains(t, joined, "Produced item=P0-0")
	assert.Contains(t, joined, "Consumed item=P0-0")
}

func TestSimulationMetrics(t *testing.T) {
	reg := metric.NewMetricsRegistry()

	s, err := New(Config{
		ScenarioName:     "metrics-test",
		NumProducers:     2,
		NumConsumers:     1,
		Capacity:         4,
		ItemsPerProducer: 5,
		Metrics:          reg,
		Logger:           discardLogger(),
	})
	require.NoError(t, err)

	result, err := s.Run(context.Background())
	require.NoError(t, err)
	require.True(t, result.Success())

	families, err := reg.PrometheusRegistry().Gather()
	require.NoError(t, err)

	byName := make(map[string]bool, len(families))
	for _, mf := range families {
		byName[mf.GetName()] = true
	}
	assert.True(t, byName["prodcon_simulation_runs_total"])
	assert.True(t, byName["prodcon_simulation_items_produced_total"])
	assert.True(t, byName["prodcon_buffer_puts_total"])
}

func TestResultSummary(t *testing.T) {
	s, err := New(Config{
		ScenarioName:     "summary-test",
		NumProducers:     1,
		NumConsumers:     1,
		Capacity:         2,
		ItemsPerProducer: 4,
		Logger:           discardLogger(),
	})
	require.NoError(t, err)

	result, err := s.Run(context.Background())
	require.NoError(t, err)

	summary := result.Summary()
	assert.Contains(t, summary, "Scenario: summary-test")
	assert.Contains(t, summary, "Total produced: 4")
	assert.Contains(t, summary, "Total consumed: 4")
	assert.Contains(t, summary, "Status: SUCCESS")
	assert.NotContains(t, summary, "Errors:")
}
