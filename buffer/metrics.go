package buffer

import (
	"github.com/prometheus/client_golang/prometheus"

	"github.com/c360/prodcon/metric"
)

// bufferMetrics holds Prometheus metrics for buffer operations.
type bufferMetrics struct {
	puts         prometheus.Counter
	takes        prometheus.Counter
	putTimeouts  prometheus.Counter
	takeTimeouts prometheus.Counter
	rejects      prometheus.Counter

	size        prometheus.Gauge
	utilization prometheus.Gauge
	highWater   prometheus.Gauge

	// maxSeen ratchets the high-water gauge; only touched under the
	// owning buffer's mutex.
	maxSeen int
}

// newBufferMetrics creates and registers buffer metrics with the provided registry.
func newBufferMetrics(registry *metric.MetricsRegistry, name string) (*bufferMetrics, error) {
	m := &bufferMetrics{
		puts: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace:   "prodcon",
			Subsystem:   "buffer",
			Name:        "puts_total",
			ConstLabels: prometheus.Labels{"buffer": name},
			Help:        "Total number of successful buffer insertions",
		}),
		takes: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace:   "prodcon",
			Subsystem:   "buffer",
			Name:        "takes_total",
			ConstLabels: prometheus.Labels{"buffer": name},
			Help:        "Total number of successful buffer removals",
		}),
		putTimeouts: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace:   "prodcon",
			Subsystem:   "buffer",
			Name:        "put_timeouts_total",
			ConstLabels: prometheus.Labels{"buffer": name},
			Help:        "Total number of insertions abandoned on a deadline",
		}),
		takeTimeouts: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace:   "prodcon",
			Subsystem:   "buffer",
			Name:        "take_timeouts_total",
			ConstLabels: prometheus.Labels{"buffer": name},
			Help:        "Total number of removals abandoned on a deadline",
		}),
		rejects: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace:   "prodcon",
			Subsystem:   "buffer",
			Name:        "rejects_total",
			ConstLabels: prometheus.Labels{"buffer": name},
			Help:        "Total number of insertions refused because the buffer was closed",
		}),
		size: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace:   "prodcon",
			Subsystem:   "buffer",
			Name:        "size",
			ConstLabels: prometheus.Labels{"buffer": name},
			Help:        "Current number of items in the buffer",
		}),
		utilization: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace:   "prodcon",
			Subsystem:   "buffer",
			Name:        "utilization",
			ConstLabels: prometheus.Labels{"buffer": name},
			Help:        "Buffer occupancy as a fraction of capacity (0.0 to 1.0)",
		}),
		highWater: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace:   "prodcon",
			Subsystem:   "buffer",
			Name:        "high_water",
			ConstLabels: prometheus.Labels{"buffer": name},
			Help:        "Maximum occupancy observed over the buffer's lifetime",
		}),
	}

	// Register all metrics with the registry
	if err := registry.RegisterCounter(name, "buffer_puts", m.puts); err != nil {
		return nil, err
	}
	if err := registry.RegisterCounter(name, "buffer_takes", m.takes); err != nil {
		return nil, err
	}
	if err := registry.RegisterCounter(name, "buffer_put_timeouts", m.putTimeouts); err != nil {
		return nil, err
	}
	if err := registry.RegisterCounter(name, "buffer_take_timeouts", m.takeTimeouts); err != nil {
		return nil, err
	}
	if err := registry.RegisterCounter(name, "buffer_rejects", m.rejects); err != nil {
		return nil, err
	}
	if err := registry.RegisterGauge(name, "buffer_size", m.size); err != nil {
		return nil, err
	}
	if err := registry.RegisterGauge(name, "buffer_utilization", m.utilization); err != nil {
		return nil, err
	}
	if err := registry.RegisterGauge(name, "buffer_high_water", m.highWater); err != nil {
		return nil, err
	}

	return m, nil
}

// recordPut increments the put counter and updates occupancy gauges.
func (m *bufferMetrics) recordPut(size, capacity int) {
	m.puts.Inc()
	m.updateSize(size, capacity)
}

// recordTake increments the take counter and updates occupancy gauges.
func (m *bufferMetrics) recordTake(size, capacity int) {
	m.takes.Inc()
	m.updateSize(size, capacity)
}

func (m *bufferMetrics) recordPutTimeout() {
	m.putTimeouts.Inc()
}

func (m *bufferMetrics) recordTakeTimeout() {
	m.takeTimeouts.Inc()
}

func (m *bufferMetrics) recordReject() {
	m.rejects.Inc()
}

// updateSize sets the current size and utilization, ratcheting high water.
func (m *bufferMetrics) updateSize(size, capacity int) {
	m.size.Set(float64(size))
	m.utilization.Set(float64(size) / float64(capacity))
	if size > m.maxSeen {
		m.maxSeen = size
		m.highWater.Set(float64(size))
	}
}
