package sim

import (
	"fmt"
)

// Item is one opaque unit of work moving from a producer to a consumer.
// Identity is the basis for all correctness checks: the ID is globally
// unique across a run, built from the originating producer's index and a
// per-producer monotonic sequence number. Payload content is irrelevant to
// the integrity analysis.
type Item struct {
	ID       string `json:"id"`
	Producer int    `json:"producer"`
	Sequence int    `json:"sequence"`
	Payload  string `json:"payload"`
}

// itemID builds the canonical identifier for an item.
func itemID(producer, sequence int) string {
	return fmt.Sprintf("P%d-%d", producer, sequence)
}

// Source pre-generates the n items for one producer. Sources are generated
// synchronously before any worker starts, so the full set of produced
// identifiers is known up front for the loss/duplication analysis, and each
// source is read-only with a single owner afterwards.
func Source(producer, n int) []Item {
	items := make([]Item, 0, n)
	for i := 0; i < n; i++ {
		items = append(items, Item{
			ID:       itemID(producer, i),
			Producer: producer,
			Sequence: i,
			Payload:  fmt.Sprintf("item %d from producer %d", i, producer),
		})
	}
	return items
}
