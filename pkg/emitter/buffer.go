package emitter

import "sync"

// EventBuffer is a thread-safe holder of pending serialized events.
// Order of appended events is preserved within each drained sequence.
type EventBuffer struct {
	mu     sync.Mutex
	events [][]byte
}

// NewEventBuffer creates an empty buffer.
func NewEventBuffer() *EventBuffer {
	return &EventBuffer{}
}

// Append adds one serialized event at the tail.
func (b *EventBuffer) Append(data []byte) {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.events = append(b.events, data)
}

// DrainAndReset atomically takes the current sequence and leaves the buffer
// empty. An event appended concurrently lands either in the returned sequence
// or in the fresh one, never both and never neither.
func (b *EventBuffer) DrainAndReset() [][]byte {
	b.mu.Lock()
	defer b.mu.Unlock()

	events := b.events
	b.events = nil
	return events
}

// Requeue appends an entire sequence back at the tail.
// Used by failure paths to retry a drained batch on the next cycle.
func (b *EventBuffer) Requeue(events [][]byte) {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.events = append(b.events, events...)
}

// Len returns the current number of pending events.
func (b *EventBuffer) Len() int {
	b.mu.Lock()
	defer b.mu.Unlock()

	return len(b.events)
}
