// Package scenario provides the named workload shapes a simulation can run.
//
// Five presets cover the interesting regions of the producer/consumer
// parameter space: balanced, fast-producer (backpressure), fast-consumer
// (wait-on-empty), many-producers-few-consumers (fan-in fairness), and
// high-contention (capacity 1). Custom shapes can be loaded from YAML files
// with LoadFile.
//
// A Scenario only carries configuration. Validation happens when the
// configuration is handed to sim.New, so presets and file-loaded scenarios
// go through the same contract checks.
package scenario
