package metric

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/c360/prodcon/errors"
)

func TestNewMetricsRegistry(t *testing.T) {
	registry := NewMetricsRegistry()
	require.NotNil(t, registry)
	require.NotNil(t, registry.PrometheusRegistry())
	require.NotNil(t, registry.CoreMetrics())

	// Core metrics should be gatherable without error
	_, err := registry.PrometheusRegistry().Gather()
	require.NoError(t, err)
}

func TestRegisterCounter(t *testing.T) {
	registry := NewMetricsRegistry()

	counter := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "test_counter_total",
		Help: "Test counter",
	})

	err := registry.RegisterCounter("work-queue", "test_counter", counter)
	require.NoError(t, err)

	// Same key again is a duplicate
	err = registry.RegisterCounter("work-queue", "test_counter", counter)
	require.Error(t, err)
	assert.True(t, errors.IsInvalid(err))
}

func TestRegisterGaugeAndHistogram(t *testing.T) {
	registry := NewMetricsRegistry()

	gauge := prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "test_gauge",
		Help: "Test gauge",
	})
	require.NoError(t, registry.RegisterGauge("work-queue", "test_gauge", gauge))

	histogram := prometheus.NewHistogram(prometheus.HistogramOpts{
		Name: "test_histogram_seconds",
		Help: "Test histogram",
	})
	require.NoError(t, registry.RegisterHistogram("work-queue", "test_histogram", histogram))
}

func TestRegisterPrometheusConflict(t *testing.T) {
	registry := NewMetricsRegistry()

	first := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "conflicting_total",
		Help: "Test counter",
	})
	second := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "conflicting_total",
		Help: "Test counter",
	})

	require.NoError(t, registry.RegisterCounter("a", "first", first))

	// Different registry key, same prometheus identity
	err := registry.RegisterCounter("b", "second", second)
	require.Error(t, err)
	assert.True(t, errors.IsInvalid(err))
}

func TestUnregister(t *testing.T) {
	registry := NewMetricsRegistry()

	counter := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "unregister_total",
		Help: "Test counter",
	})
	require.NoError(t, registry.RegisterCounter("work-queue", "unregister", counter))

	assert.True(t, registry.Unregister("work-queue", "unregister"))
	assert.False(t, registry.Unregister("work-queue", "unregister"))
	assert.False(t, registry.Unregister("work-queue", "never-registered"))

	// Slot is free again after unregistering
	require.NoError(t, registry.RegisterCounter("work-queue", "unregister", counter))
}

func TestCoreMetricsUsable(t *testing.T) {
	registry := NewMetricsRegistry()
	core := registry.CoreMetrics()

	core.RunsTotal.WithLabelValues("balanced", "success").Inc()
	core.ItemsProduced.WithLabelValues("balanced").Add(20)
	core.ItemsConsumed.WithLabelValues("balanced").Add(20)
	core.IntegrityViolations.WithLabelValues("balanced", "lost").Add(0)
	core.WorkersActive.WithLabelValues("producer").Set(2)
	core.RunDuration.WithLabelValues("balanced").Observe(0.42)

	families, err := registry.PrometheusRegistry().Gather()
	require.NoError(t, err)

	names := make(map[string]bool, len(families))
	for _, mf := range families {
		names[mf.GetName()] = true
	}
	assert.True(t, names["prodcon_simulation_runs_total"])
	assert.True(t, names["prodcon_simulation_items_produced_total"])
	assert.True(t, names["prodcon_simulation_run_duration_seconds"])
}
