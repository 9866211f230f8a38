package events

import (
	"context"
	"sync"
)

// MemoryBus records published events.
type MemoryBus struct {
	mu     sync.Mutex
	events []Event
	Err    error
}

func (b *MemoryBus) Publish(_ context.Context, event Event) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.Err != nil {
		return b.Err
	}
	b.events = append(b.events, event)
	return nil
}

func (b *MemoryBus) Events() []Event {
	b.mu.Lock()
	defer b.mu.Unlock()
	out := make([]Event, len(b.events))
	copy(out, b.events)
	return out
}

// OfType returns the recorded events of type t.
func (b *MemoryBus) OfType(t Type) []Event {
	var out []Event
	for _, e := range b.Events() {
		if e.Type == t {
			out = append(out, e)
		}
	}
	return out
}
