// Package prodcon is a producer/consumer coordination lab built around a
// bounded, blocking buffer with explicit wait/notify synchronization.
//
// # Philosophy
//
// ProdCon exists to demonstrate and certify correct multi-producer /
// multi-consumer coordination over shared memory. It deliberately uses a
// mutex with two condition variables (not-full / not-empty) rather than
// channels or lock-free structures, because the point is the classic
// blocking discipline: producers suspend while the buffer is full,
// consumers suspend while it is empty, and a one-way close signal wakes
// every blocked party without losing queued data.
//
// Every simulation run ends with an integrity analysis: the set of item
// identifiers that went in is compared against the set that came out.
// A run succeeds only when nothing was lost, nothing was duplicated, and
// nothing appeared that was never produced.
//
// # Architecture
//
//	┌─────────────────────────────────────┐
//	│          Simulation                 │  Worker lifecycle, close
//	│  (setup, execute, analyze)          │  ordering, integrity report
//	└─────────────────────────────────────┘
//	           ↓ orchestrates
//	┌─────────────────────────────────────┐
//	│     Producers / Consumers           │  One goroutine per worker,
//	│   (pre-generated item sources)      │  per-worker statistics
//	└─────────────────────────────────────┘
//	           ↓ coordinate via
//	┌─────────────────────────────────────┐
//	│         buffer.Bounded[T]           │  Mutex + two conds, timeouts,
//	│  (blocking put/take, close)         │  close propagation, stats
//	└─────────────────────────────────────┘
//
// # Packages
//
//   - buffer: the bounded blocking buffer core
//   - sim: producer/consumer workers, orchestration, integrity analysis
//   - scenario: named preset configurations and YAML scenario files
//   - errors: classified error handling shared across packages
//   - metric: Prometheus metrics registry and HTTP exposure
//
// The cmd/prodcon binary wires these together behind a small CLI.
package prodcon
