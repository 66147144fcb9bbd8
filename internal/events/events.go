package events

import (
	"context"
	"time"
)

// Collections that publish change events.
const (
	Users    = "users"
	Products = "products"
	Sales    = "sales"
)

// Change types.
const (
	Created = "created"
	Updated = "updated"
	Deleted = "deleted"
)

// Event is a document change notification, the server-side counterpart of
// a realtime snapshot listener.
type Event struct {
	Collection string    `json:"collection"`
	Type       string    `json:"type"`
	ID         string    `json:"id"`
	Data       any       `json:"data,omitempty"`
	At         time.Time `json:"at"`
}

// Publisher emits change events.
type Publisher interface {
	Publish(ctx context.Context, ev Event) error
}

// Broker fans change events out to subscribers. The returned cancel func
// must be called to release the subscription.
type Broker interface {
	Publisher
	Subscribe(ctx context.Context) (<-chan Event, func())
	Close() error
}

// Nop discards every event.
type Nop struct{}

func (Nop) Publish(context.Context, Event) error { return nil }
