package scenario

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/c360/prodcon/errors"
	"github.com/c360/prodcon/sim"
)

func TestGetKnownScenarios(t *testing.T) {
	for _, name := range Names() {
		t.Run(name, func(t *testing.T) {
			s, err := Get(name)
			require.NoError(t, err)
			assert.Equal(t, name, s.Name)
			assert.Equal(t, name, s.Config.ScenarioName)
			assert.NotEmpty(t, s.Description)
			assert.NoError(t, s.Config.Validate())
		})
	}
}

func TestGetUnknownScenario(t *testing.T) {
	_, err := Get("does-not-exist")
	require.Error(t, err)
	assert.ErrorIs(t, err, errors.ErrUnknownScenario)
	assert.True(t, errors.IsInvalid(err))
	assert.Contains(t, err.Error(), "balanced")
}

func TestPresetShapes(t *testing.T) {
	tests := []struct {
		name      string
		producers int
		consumers int
		capacity  int
		items     int
	}{
		{"balanced", 2, 2, 5, 10},
		{"fast-producer", 2, 1, 3, 10},
		{"fast-consumer", 1, 2, 3, 10},
		{"many-producers-few-consumers", 5, 1, 5, 10},
		{"high-contention", 3, 3, 1, 20},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, err := Get(tt.name)
			require.NoError(t, err)
			assert.Equal(t, tt.producers, s.Config.NumProducers)
			assert.Equal(t, tt.consumers, s.Config.NumConsumers)
			assert.Equal(t, tt.capacity, s.Config.Capacity)
			assert.Equal(t, tt.items, s.Config.ItemsPerProducer)
		})
	}
}

func TestGetReturnsCopy(t *testing.T) {
	s, err := Get("balanced")
	require.NoError(t, err)
	s.Config.Capacity = 999

	again, err := Get("balanced")
	require.NoError(t, err)
	assert.Equal(t, 5, again.Config.Capacity)
}

func TestNamesSorted(t *testing.T) {
	names := Names()
	require.Len(t, names, 5)
	for i := 1; i < len(names); i++ {
		assert.Less(t, names[i-1], names[i])
	}
}

func TestDescribeListsEveryPreset(t *testing.T) {
	out := Describe()
	for _, name := range Names() {
		assert.Contains(t, out, name+":")
	}
	assert.Contains(t, out, "Available Scenarios:")
	assert.Contains(t, out, "capacity=1")
}

func TestLoadFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "burst.yaml")
	content := `name: burst
description: Short burst with a tight buffer.
producers: 4
consumers: 2
capacity: 2
items_per_producer: 25
producer_delay: 5ms
consumer_delay: 15ms
take_timeout: 500ms
consumer_target: 0
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	s, err := LoadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "burst", s.Name)
	assert.Equal(t, "Short burst with a tight buffer.", s.Description)

	want := sim.Config{
		ScenarioName:     "burst",
		NumProducers:     4,
		NumConsumers:     2,
		Capacity:         2,
		ItemsPerProducer: 25,
		ProducerDelay:    5 * time.Millisecond,
		ConsumerDelay:    15 * time.Millisecond,
		TakeTimeout:      500 * time.Millisecond,
	}
	assert.Equal(t, want, s.Config)
	assert.NoError(t, s.Config.Validate())
}

func TestLoadFileErrors(t *testing.T) {
	dir := t.TempDir()

	t.Run("missing file", func(t *testing.T) {
		_, err := LoadFile(filepath.Join(dir, "nope.yaml"))
		require.Error(t, err)
		assert.True(t, errors.IsInvalid(err))
	})

	t.Run("bad yaml", func(t *testing.T) {
		path := filepath.Join(dir, "bad.yaml")
		require.NoError(t, os.WriteFile(path, []byte("name: [unclosed"), 0o644))
		_, err := LoadFile(path)
		require.Error(t, err)
	})

	t.Run("missing name", func(t *testing.T) {
		path := filepath.Join(dir, "anon.yaml")
		require.NoError(t, os.WriteFile(path, []byte("producers: 1\nconsumers: 1\ncapacity: 1\n"), 0o644))
		_, err := LoadFile(path)
		require.Error(t, err)
		assert.ErrorIs(t, err, errors.ErrMissingConfig)
	})

	t.Run("bad duration", func(t *testing.T) {
		path := filepath.Join(dir, "dur.yaml")
		require.NoError(t, os.WriteFile(path, []byte("name: d\nproducer_delay: fast\n"), 0o644))
		_, err := LoadFile(path)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "producer_delay")
	})
}
