package buffer

import (
	"github.com/c360/prodcon/metric"
)

// Option configures buffer behavior using the functional options pattern.
type Option[T any] func(*bufferOptions[T])

// bufferOptions holds internal configuration for buffer instances.
// Statistics are always collected; Prometheus metrics are opt-in.
type bufferOptions[T any] struct {
	name string

	// metricsReg is optional - if provided, buffer stats are also exposed
	// as Prometheus metrics labeled with the buffer name
	metricsReg *metric.MetricsRegistry
}

// WithName sets the buffer name used to label metrics and log lines.
// Defaults to "buffer" if not specified.
func WithName[T any](name string) Option[T] {
	return func(opts *bufferOptions[T]) {
		if name != "" {
			opts.name = name
		}
	}
}

// WithMetrics enables Prometheus metrics export for buffer statistics.
// Metrics are labeled with the buffer name, so pair this with WithName when
// more than one buffer shares a registry. If registry is nil, this option
// is ignored.
func WithMetrics[T any](registry *metric.MetricsRegistry) Option[T] {
	return func(opts *bufferOptions[T]) {
		if registry != nil {
			opts.metricsReg = registry
		}
	}
}

// applyOptions applies functional options to create the final configuration.
func applyOptions[T any](options ...Option[T]) *bufferOptions[T] {
	opts := &bufferOptions[T]{
		name: "buffer",
	}

	for _, opt := range options {
		if opt != nil {
			opt(opts)
		}
	}

	return opts
}
