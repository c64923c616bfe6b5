package sim

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/c360/prodcon/buffer"
)

func prefilled(t *testing.T, capacity, n int) *buffer.Bounded[Item] {
	t.Helper()
	buf, err := buffer.New[Item](capacity)
	require.NoError(t, err)
	for _, item := range Source(0, n) {
		require.NoError(t, buf.PutTimeout(item, time.Second))
	}
	return buf
}

func TestConsumerDrainsClosedBuffer(t *testing.T) {
	buf := prefilled(t, 8, 4)
	buf.Close()
	sink := NewSink()

	c := NewConsumer(ConsumerConfig{
		Index:  0,
		Buffer: buf,
		Sink:   sink,
		Logger: discardLogger(),
	})
	c.Run(context.Background())

	stats := c.Stats()
	assert.Equal(t, "C0", stats.ID)
	assert.Equal(t, 4, stats.Items)
	assert.Equal(t, StopDrained, stats.Reason)
	assert.Empty(t, stats.Err)
	assert.Equal(t, []string{"P0-0", "P0-1", "P0-2", "P0-3"}, sink.IDs())
}

func TestConsumerStopsAtTarget(t *testing.T) {
	buf := prefilled(t, 8, 5)
	sink := NewSink()

	c := NewConsumer(ConsumerConfig{
		Index:  1,
		Buffer: buf,
		Sink:   sink,
		Target: 3,
		Logger: discardLogger(),
	})
	c.Run(context.Background())

	stats := c.Stats()
	assert.Equal(t, 3, stats.Items)
	assert.Equal(t, StopTarget, stats.Reason)
	assert.Equal(t, 2, buf.Size())
}

func TestConsumerRunIsSingleUse(t *testing.T) {
	buf := prefilled(t, 4, 2)
	buf.Close()
	sink := NewSink()

	c := NewConsumer(ConsumerConfig{
		Index:  0,
		Buffer: buf,
		Sink:   sink,
		Logger: discardLogger(),
	})
	c.Run(context.Background())
	first := c.Stats()
	require.Equal(t, StopDrained, first.Reason)

	c.Run(context.Background())

	assert.Equal(t, first, c.Stats())
	assert.Equal(t, 2, sink.Len())
}

func TestConsumerGivesUpAfterConsecutiveTimeouts(t *testing.T) {
	buf, err := buffer.New[Item](4)
	require.NoError(t, err)
	sink := NewSink()

	c := NewConsumer(ConsumerConfig{
		Index:       0,
		Buffer:      buf,
		Sink:        sink,
		TakeTimeout: 20 * time.Millisecond,
		Logger:      discardLogger(),
	})

	start := time.Now()
	c.Run(context.Background())
	elapsed := time.Since(start)

	stats := c.Stats()
	assert.Equal(t, StopGaveUp, stats.Reason)
	assert.Zero(t, stats.Items)
	assert.Equal(t, maxConsecutiveTimeouts, stats.Waits)
	assert.Empty(t, stats.Err)
	assert.GreaterOrEqual(t, elapsed, 3*20*time.Millisecond)
}

func TestConsumerTargetSuppressesGiveUp(t *testing.T) {
	buf, err := buffer.New[Item](4)
	require.NoError(t, err)
	sink := NewSink()

	c := NewConsumer(ConsumerConfig{
		Index:       0,
		Buffer:      buf,
		Sink:        sink,
		Target:      2,
		TakeTimeout: 20 * time.Millisecond,
		Logger:      discardLogger(),
	})

	done := make(chan struct{})
	go func() {
		defer close(done)
		c.Run(context.Background())
	}()

	// Stay empty long enough for several timeouts, then deliver.
	time.Sleep(120 * time.Millisecond)
	for _, item := range Source(0, 2) {
		require.NoError(t, buf.PutTimeout(item, time.Second))
	}

	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("consumer did not finish after items arrived")
	}

	stats := c.Stats()
	assert.Equal(t, 2, stats.Items)
	assert.Equal(t, StopTarget, stats.Reason)
}

func TestConsumerStopsOnCancelledContext(t *testing.T) {
	buf, err := buffer.New[Item](4)
	require.NoError(t, err)
	sink := NewSink()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	c := NewConsumer(ConsumerConfig{
		Index:  0,
		Buffer: buf,
		Sink:   sink,
		Logger: discardLogger(),
	})
	c.Run(ctx)

	stats := c.Stats()
	assert.Equal(t, StopError, stats.Reason)
	assert.Contains(t, stats.Err, context.Canceled.Error())
}
