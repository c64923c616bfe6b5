package sim

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/c360/prodcon/errors"
	"github.com/c360/prodcon/metric"
)

// Config is the full configuration surface for one simulation run.
type Config struct {
	ScenarioName     string
	NumProducers     int
	NumConsumers     int
	Capacity         int
	ItemsPerProducer int
	ProducerDelay    time.Duration
	ConsumerDelay    time.Duration
	TakeTimeout      time.Duration // per-take deadline; 0 = DefaultTakeTimeout

	// ConsumerTarget stops each consumer after that many items. 0 means
	// consumers run until the buffer is closed and drained.
	ConsumerTarget int

	// Verbose enables per-event tracing through Trace. When Verbose is set
	// and Trace is nil, trace lines go to standard output.
	Verbose bool
	Trace   TraceFunc

	// Logger receives structured worker lifecycle events. Defaults to
	// slog.Default().
	Logger *slog.Logger

	// Metrics optionally exports buffer and run metrics. Nil disables
	// Prometheus export; in-process statistics are always collected.
	Metrics *metric.MetricsRegistry
}

// Validate checks the contract rules for a run configuration.
func (c Config) Validate() error {
	if c.NumProducers <= 0 {
		return errors.WrapInvalid(errors.ErrInvalidConfig, "Config", "Validate",
			fmt.Sprintf("producer count %d must be positive", c.NumProducers))
	}
	if c.NumConsumers <= 0 {
		return errors.WrapInvalid(errors.ErrInvalidConfig, "Config", "Validate",
			fmt.Sprintf("consumer count %d must be positive", c.NumConsumers))
	}
	if c.Capacity <= 0 {
		return errors.WrapInvalid(errors.ErrInvalidCapacity, "Config", "Validate",
			fmt.Sprintf("buffer capacity %d must be positive", c.Capacity))
	}
	if c.ItemsPerProducer < 0 {
		return errors.WrapInvalid(errors.ErrInvalidConfig, "Config", "Validate",
			fmt.Sprintf("items per producer %d must not be negative", c.ItemsPerProducer))
	}
	if c.ProducerDelay < 0 || c.ConsumerDelay < 0 {
		return errors.WrapInvalid(errors.ErrInvalidConfig, "Config", "Validate",
			"delays must not be negative")
	}
	if c.TakeTimeout < 0 {
		return errors.WrapInvalid(errors.ErrInvalidConfig, "Config", "Validate",
			"take timeout must not be negative")
	}
	if c.ConsumerTarget < 0 {
		return errors.WrapInvalid(errors.ErrInvalidConfig, "Config", "Validate",
			fmt.Sprintf("consumer target %d must not be negative", c.ConsumerTarget))
	}
	return nil
}

// withDefaults fills in the optional fields.
func (c Config) withDefaults() Config {
	if c.ScenarioName == "" {
		c.ScenarioName = "custom"
	}
	if c.TakeTimeout <= 0 {
		c.TakeTimeout = DefaultTakeTimeout
	}
	if c.Logger == nil {
		c.Logger = slog.Default()
	}
	return c
}

// ExpectedTotal returns the number of items the run should move end to end.
func (c Config) ExpectedTotal() int {
	return c.NumProducers * c.ItemsPerProducer
}
