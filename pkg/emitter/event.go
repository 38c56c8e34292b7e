package emitter

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// Event is a unit of telemetry data submitted to an emitter.
// The emitter never inspects event contents; it only consumes the
// buffering hint and the serialized bytes.
type Event interface {
	// SafeToBuffer reports whether delaying transmission of this event
	// (batching) is acceptable. Events that return false force an
	// immediate flush.
	SafeToBuffer() bool
}

// Serializer converts an event to bytes. For the HTTP emitter the result
// must be a single valid JSON value, since batches are framed as a JSON
// array by byte concatenation.
type Serializer interface {
	Serialize(event Event) ([]byte, error)
}

// JSONSerializer serializes events with encoding/json.
type JSONSerializer struct{}

// Serialize marshals the event value to JSON.
func (JSONSerializer) Serialize(event Event) ([]byte, error) {
	return json.Marshal(event)
}

// FeedEvent is a generic telemetry event routed by feed name.
type FeedEvent struct {
	ID        string         `json:"id"`
	Feed      string         `json:"feed"`
	Timestamp time.Time      `json:"timestamp"`
	Payload   map[string]any `json:"payload,omitempty"`

	// Urgent events bypass batching and trigger an immediate flush
	Urgent bool `json:"-"`
}

// NewFeedEvent creates a buffered event for the given feed.
func NewFeedEvent(feed string, payload map[string]any) *FeedEvent {
	return &FeedEvent{
		ID:        uuid.New().String(),
		Feed:      feed,
		Timestamp: time.Now().UTC(),
		Payload:   payload,
	}
}

// SafeToBuffer implements Event.
func (e *FeedEvent) SafeToBuffer() bool {
	return !e.Urgent
}
