package scenario

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/c360/prodcon/errors"
	"github.com/c360/prodcon/sim"
)

// fileScenario is the on-disk YAML schema for a custom scenario. Durations
// are Go duration strings ("100ms", "1.5s").
type fileScenario struct {
	Name             string `yaml:"name"`
	Description      string `yaml:"description"`
	Producers        int    `yaml:"producers"`
	Consumers        int    `yaml:"consumers"`
	Capacity         int    `yaml:"capacity"`
	ItemsPerProducer int    `yaml:"items_per_producer"`
	ProducerDelay    string `yaml:"producer_delay"`
	ConsumerDelay    string `yaml:"consumer_delay"`
	TakeTimeout      string `yaml:"take_timeout"`
	ConsumerTarget   int    `yaml:"consumer_target"`
}

// LoadFile reads a custom scenario definition from a YAML file. The result
// is validated the same way preset and CLI configurations are, at run
// construction time.
func LoadFile(path string) (Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Scenario{}, errors.WrapInvalid(err, "scenario", "LoadFile",
			fmt.Sprintf("reading %s failed", path))
	}

	var fs fileScenario
	if err := yaml.Unmarshal(data, &fs); err != nil {
		return Scenario{}, errors.WrapInvalid(err, "scenario", "LoadFile",
			fmt.Sprintf("parsing %s failed", path))
	}
	if fs.Name == "" {
		return Scenario{}, errors.WrapInvalid(errors.ErrMissingConfig, "scenario", "LoadFile",
			fmt.Sprintf("%s has no scenario name", path))
	}

	producerDelay, err := parseDelay(fs.ProducerDelay)
	if err != nil {
		return Scenario{}, errors.WrapInvalid(err, "scenario", "LoadFile", "invalid producer_delay")
	}
	consumerDelay, err := parseDelay(fs.ConsumerDelay)
	if err != nil {
		return Scenario{}, errors.WrapInvalid(err, "scenario", "LoadFile", "invalid consumer_delay")
	}
	takeTimeout, err := parseDelay(fs.TakeTimeout)
	if err != nil {
		return Scenario{}, errors.WrapInvalid(err, "scenario", "LoadFile", "invalid take_timeout")
	}

	return Scenario{
		Name:        fs.Name,
		Description: fs.Description,
		Config: sim.Config{
			ScenarioName:     fs.Name,
			NumProducers:     fs.Producers,
			NumConsumers:     fs.Consumers,
			Capacity:         fs.Capacity,
			ItemsPerProducer: fs.ItemsPerProducer,
			ProducerDelay:    producerDelay,
			ConsumerDelay:    consumerDelay,
			TakeTimeout:      takeTimeout,
			ConsumerTarget:   fs.ConsumerTarget,
		},
	}, nil
}

func parseDelay(s string) (time.Duration, error) {
	if s == "" {
		return 0, nil
	}
	return time.ParseDuration(s)
}
