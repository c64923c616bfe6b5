// Package sim provides the producer and consumer workers, the run
// orchestrator, and the data-integrity analysis for ProdCon simulations.
//
// # Overview
//
// A simulation run moves a known set of tagged items through one shared
// bounded buffer and certifies that nothing was lost, duplicated, or
// invented along the way:
//
//	Simulation pre-generates item sources
//	    → Producers put items into buffer.Bounded[Item]
//	    → Consumers take items and append to a shared Sink
//	    → Simulation compares produced vs. consumed identities
//
// # Lifecycle
//
// Run executes three sequential phases. Setup constructs the buffer and
// synchronously pre-generates every producer's source, so the full set of
// produced identifiers exists before any goroutine starts. Execution runs
// one goroutine per worker, joins all producers, closes the buffer (the
// sole cooperative shutdown signal), and then joins all consumers, which
// drain whatever is still queued. Analysis derives the integrity report
// from terminal worker and buffer state.
//
//	simulation, err := sim.New(sim.Config{
//	    NumProducers:     2,
//	    NumConsumers:     2,
//	    Capacity:         5,
//	    ItemsPerProducer: 10,
//	})
//	if err != nil {
//	    return err
//	}
//	result, err := simulation.Run(ctx)
//	fmt.Println(result.Summary())
//
// # Failure Containment
//
// Workers catch everything, including panics, record the failure in their
// terminal statistics, and end their own loop early. Sibling workers and
// the orchestrator are never affected; anomalies surface only in the
// result's error list. A consumer with no target count additionally gives
// up after three consecutive take timeouts, bounding its lifetime even if a
// producer dies without the buffer ever closing.
//
// # Ordering Guarantees
//
// The buffer preserves global arrival order (FIFO), and one producer's puts
// are strictly sequential, so per-producer sequence order is guaranteed on
// the consumer side. Relative order across producers is whatever the
// scheduler made of it.
package sim
