// internal/notify/event.go
package notify

import (
	"maps"
	"time"

	"github.com/google/uuid"
)

// Event is the value delivered to listeners. It carries the EventID it was
// sent under, an optional payload and a small dictionary of named fields.
// Events are immutable once built.
type Event struct {
	id         EventID
	payload    any
	fields     map[string]any
	timestamp  time.Time
	instanceID uuid.UUID
}

// EventOption configures an Event built by NewEvent.
type EventOption func(*Event)

// WithPayload attaches an arbitrary payload value.
func WithPayload(payload any) EventOption {
	return func(e *Event) {
		e.payload = payload
	}
}

// WithField sets a single dictionary entry.
func WithField(key string, value any) EventOption {
	return func(e *Event) {
		if e.fields == nil {
			e.fields = make(map[string]any)
		}
		e.fields[key] = value
	}
}

// WithFields copies every entry of fields into the event dictionary.
func WithFields(fields map[string]any) EventOption {
	return func(e *Event) {
		if len(fields) == 0 {
			return
		}
		if e.fields == nil {
			e.fields = make(map[string]any, len(fields))
		}
		maps.Copy(e.fields, fields)
	}
}

// WithTimestamp overrides the creation time.
func WithTimestamp(t time.Time) EventOption {
	return func(e *Event) {
		e.timestamp = t
	}
}

// NewEvent builds an event for id.
func NewEvent(id EventID, opts ...EventOption) Event {
	e := Event{
		id:         id,
		timestamp:  time.Now(),
		instanceID: uuid.New(),
	}
	for _, opt := range opts {
		opt(&e)
	}
	return e
}

// ID returns the id the event is sent under.
func (e Event) ID() EventID {
	return e.id
}

// Payload returns the payload, or nil if none was attached.
func (e Event) Payload() any {
	return e.payload
}

// Field returns a dictionary entry.
func (e Event) Field(key string) (any, bool) {
	v, ok := e.fields[key]
	return v, ok
}

// Fields returns a copy of the dictionary.
func (e Event) Fields() map[string]any {
	return maps.Clone(e.fields)
}

// Timestamp returns when the event was created.
func (e Event) Timestamp() time.Time {
	return e.timestamp
}

// InstanceID uniquely identifies this event value. Log lines written while
// the event is dispatched carry it.
func (e Event) InstanceID() uuid.UUID {
	return e.instanceID
}
