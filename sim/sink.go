package sim

import (
	"sync"
)

// Sink is the shared destination sequence that all consumers append to.
// It carries its own mutex, scoped to append operations only, so consumer
// appends never contend with the buffer's internal lock.
type Sink struct {
	mu    sync.Mutex
	items []Item
}

// NewSink creates an empty sink.
func NewSink() *Sink {
	return &Sink{}
}

// Append adds one consumed item. Safe for concurrent use by many consumers.
func (s *Sink) Append(item Item) {
	s.mu.Lock()
	s.items = append(s.items, item)
	s.mu.Unlock()
}

// Len returns the number of items appended so far.
func (s *Sink) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.items)
}

// Items returns a copy of the appended items in arrival order.
func (s *Sink) Items() []Item {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]Item, len(s.items))
	copy(out, s.items)
	return out
}

// IDs returns the identifiers of the appended items in arrival order.
func (s *Sink) IDs() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	ids := make([]string, len(s.items))
	for i, item := range s.items {
		ids[i] = item.ID
	}
	return ids
}
