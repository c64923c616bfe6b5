package metric

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics contains all platform-level metrics (not per-buffer)
type Metrics struct {
	// Simulation metrics
	RunsTotal           *prometheus.CounterVec
	RunDuration         *prometheus.HistogramVec
	ItemsProduced       *prometheus.CounterVec
	ItemsConsumed       *prometheus.CounterVec
	IntegrityViolations *prometheus.CounterVec
	WorkersActive       *prometheus.GaugeVec
}

// NewMetrics creates a new Metrics instance with all platform metrics
func NewMetrics() *Metrics {
	return &Metrics{
		RunsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "prodcon",
				Subsystem: "simulation",
				Name:      "runs_total",
				Help:      "Total number of simulation runs by terminal status",
			},
			[]string{"scenario", "status"},
		),

		RunDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: "prodcon",
				Subsystem: "simulation",
				Name:      "run_duration_seconds",
				Help:      "Wall-clock duration of simulation runs",
				Buckets:   []float64{0.01, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30},
			},
			[]string{"scenario"},
		),

		ItemsProduced: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "prodcon",
				Subsystem: "simulation",
				Name:      "items_produced_total",
				Help:      "Total number of items inserted into buffers by producers",
			},
			[]string{"scenario"},
		),

		ItemsConsumed: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "prodcon",
				Subsystem: "simulation",
				Name:      "items_consumed_total",
				Help:      "Total number of items removed from buffers by consumers",
			},
			[]string{"scenario"},
		),

		IntegrityViolations: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "prodcon",
				Subsystem: "simulation",
				Name:      "integrity_violations_total",
				Help:      "Items lost, duplicated, or consumed without being produced",
			},
			[]string{"scenario", "kind"},
		),

		WorkersActive: prometheus.NewGaugeVec(
			prometheus.GaugeOpts{
				Namespace: "prodcon",
				Subsystem: "simulation",
				Name:      "workers_active",
				Help:      "Number of currently running workers by role",
			},
			[]string{"role"},
		),
	}
}
