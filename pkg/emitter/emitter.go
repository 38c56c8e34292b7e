// Package emitter buffers telemetry events and ships them to configured
// backends. The HTTP emitter batches events in memory and periodically posts
// the batch to a remote collector, re-queueing the batch on failure.
// Delivery is at-least-once, best-effort: nothing survives a process restart.
package emitter

import "errors"

// ErrClosed is returned by Emit when the emitter has not been started
// or has already been closed.
var ErrClosed = errors.New("emitter is closed")

// Emitter is the interface for event backends.
type Emitter interface {
	// Emit submits one event. It never blocks on network I/O. The only
	// errors returned are caller errors (emitter closed, event failed to
	// serialize); delivery failures are handled internally.
	Emit(event Event) error

	// Close gracefully shuts down the emitter, draining pending events
	// best-effort first.
	Close() error
}

// Flusher is implemented by emitters that can ship pending events on demand.
type Flusher interface {
	// Flush blocks until events buffered before the call have been
	// processed, regardless of delivery outcome.
	Flush() error
}

// NoopEmitter is a no-op implementation for testing and disabled event output.
type NoopEmitter struct{}

// Emit does nothing.
func (n *NoopEmitter) Emit(event Event) error { return nil }

// Close returns nil.
func (n *NoopEmitter) Close() error { return nil }
