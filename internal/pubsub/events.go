// Package pubsub provides a generic publish/subscribe event system used to
// fan state changes out to the Bubble Tea update loop.
package pubsub

import (
	"context"
	"time"
)

// EventType names the kind of change carried by an Event.
type EventType string

const (
	CreatedEvent EventType = "created"
	UpdatedEvent EventType = "updated"
	DeletedEvent EventType = "deleted"
	// ReloadedEvent signals that a whole collection was replaced.
	ReloadedEvent EventType = "reloaded"
	// ErrorEvent carries a failure from a background producer.
	ErrorEvent EventType = "error"
)

// Event represents a published event with a typed payload.
type Event[T any] struct {
	Type      EventType
	Payload   T
	Timestamp time.Time
}

// Subscriber provides a subscription channel for events.
type Subscriber[T any] interface {
	Subscribe(ctx context.Context) <-chan Event[T]
}

// Publisher allows publishing events with a typed payload.
type Publisher[T any] interface {
	Publish(eventType EventType, payload T)
}
