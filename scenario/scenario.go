package scenario

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/c360/prodcon/errors"
	"github.com/c360/prodcon/sim"
)

// Scenario pairs a named workload shape with its run configuration.
type Scenario struct {
	Name        string
	Description string
	Config      sim.Config
}

// presets are the built-in workload shapes. Delays are per-item pacing for
// the corresponding worker role.
var presets = map[string]Scenario{
	"balanced": {
		Name:        "balanced",
		Description: "Balanced workload - producers and consumers at similar speeds. Queue fluctuates but rarely full or empty.",
		Config: sim.Config{
			ScenarioName:     "balanced",
			NumProducers:     2,
			NumConsumers:     2,
			Capacity:         5,
			ItemsPerProducer: 10,
			ProducerDelay:    100 * time.Millisecond,
			ConsumerDelay:    100 * time.Millisecond,
		},
	},
	"fast-producer": {
		Name:        "fast-producer",
		Description: "Fast producers, slow consumer. Demonstrates backpressure - producers frequently block when queue is full.",
		Config: sim.Config{
			ScenarioName:     "fast-producer",
			NumProducers:     2,
			NumConsumers:     1,
			Capacity:         3,
			ItemsPerProducer: 10,
			ProducerDelay:    10 * time.Millisecond,
			ConsumerDelay:    200 * time.Millisecond,
		},
	},
	"fast-consumer": {
		Name:        "fast-consumer",
		Description: "Slow producer, fast consumers. Demonstrates wait-on-empty - consumers frequently block waiting for items.",
		Config: sim.Config{
			ScenarioName:     "fast-consumer",
			NumProducers:     1,
			NumConsumers:     2,
			Capacity:         3,
			ItemsPerProducer: 10,
			ProducerDelay:    200 * time.Millisecond,
			ConsumerDelay:    10 * time.Millisecond,
		},
	},
	"many-producers-few-consumers": {
		Name:        "many-producers-few-consumers",
		Description: "Multiple producers (5), single consumer. Stress tests synchronization and fairness.",
		Config: sim.Config{
			ScenarioName:     "many-producers-few-consumers",
			NumProducers:     5,
			NumConsumers:     1,
			Capacity:         5,
			ItemsPerProducer: 10,
			ProducerDelay:    50 * time.Millisecond,
			ConsumerDelay:    100 * time.Millisecond,
		},
	},
	"high-contention": {
		Name:        "high-contention",
		Description: "Capacity=1 forces maximum context switching. Every put/take causes a goroutine to wake up.",
		Config: sim.Config{
			ScenarioName:     "high-contention",
			NumProducers:     3,
			NumConsumers:     3,
			Capacity:         1,
			ItemsPerProducer: 20,
			ProducerDelay:    50 * time.Millisecond,
			ConsumerDelay:    50 * time.Millisecond,
		},
	},
}

// Get returns the named preset. The returned config is a copy, so callers
// can adjust fields without affecting the preset table.
func Get(name string) (Scenario, error) {
	s, ok := presets[name]
	if !ok {
		return Scenario{}, errors.WrapInvalid(errors.ErrUnknownScenario, "scenario", "Get",
			fmt.Sprintf("%q is not a known scenario (available: %s)", name, strings.Join(Names(), ", ")))
	}
	return s, nil
}

// Names returns the preset names in sorted order.
func Names() []string {
	names := make([]string, 0, len(presets))
	for name := range presets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Describe renders a human-readable listing of every preset.
func Describe() string {
	lines := []string{"Available Scenarios:", ""}
	for _, name := range Names() {
		s := presets[name]
		lines = append(lines,
			fmt.Sprintf("  %s:", s.Name),
			fmt.Sprintf("    %s", s.Description),
			fmt.Sprintf("    Config: %dP/%dC, capacity=%d, items_per_producer=%d",
				s.Config.NumProducers, s.Config.NumConsumers, s.Config.Capacity, s.Config.ItemsPerProducer),
			fmt.Sprintf("    Delays: producer=%s, consumer=%s",
				s.Config.ProducerDelay, s.Config.ConsumerDelay),
			"")
	}
	return strings.Join(lines, "\n")
}
