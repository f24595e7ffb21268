// Package events provides an in-process event bus used for decoupled
// communication between modules.
// This is part of the platform layer and contains no business logic.
package events

import (
	"context"
	"time"
)

// Event is implemented by every domain event carried on the bus.
type Event interface {
	// EventName identifies the event type, e.g. "leads.lead.scored".
	EventName() string
	// OccurredAt reports when the event happened.
	OccurredAt() time.Time
}

// Bus publishes domain events and registers handlers for them.
type Bus interface {
	// Publish delivers an event to every handler subscribed to its name.
	// Delivery is asynchronous; publishers never wait.
	Publish(ctx context.Context, event Event)

	// PublishSync delivers an event and blocks until all handlers return.
	PublishSync(ctx context.Context, event Event) error

	// Subscribe registers a handler under an event name. The name must
	// match what the event's EventName returns.
	Subscribe(eventName string, handler Handler)
}

// Handler consumes events of a subscribed type.
type Handler interface {
	Handle(ctx context.Context, event Event) error
}

// HandlerFunc adapts a plain function into a Handler.
type HandlerFunc func(ctx context.Context, event Event) error

// Handle calls the underlying function.
func (f HandlerFunc) Handle(ctx context.Context, event Event) error {
	return f(ctx, event)
}

// BaseEvent carries the fields shared by every event.
type BaseEvent struct {
	Timestamp time.Time `json:"timestamp"`
}

// OccurredAt reports when the event happened.
func (e BaseEvent) OccurredAt() time.Time {
	return e.Timestamp
}

// NewBaseEvent stamps a base event with the current time.
func NewBaseEvent() BaseEvent {
	return BaseEvent{Timestamp: time.Now()}
}
