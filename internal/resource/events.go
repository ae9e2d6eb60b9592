package resource

import "time"

// EventAction names a resource change.
type EventAction string

const (
	EventCreated EventAction = "created"
	EventUpdated EventAction = "updated"
	EventDeleted EventAction = "deleted"
)

// Event describes a committed resource change.
type Event struct {
	Action    EventAction `json:"action"`
	Type      string      `json:"type"`
	ID        string      `json:"id"`
	Timestamp time.Time   `json:"timestamp"`
}

// Publisher receives change events after the store call succeeded.
// Publish must not block.
type Publisher interface {
	Publish(Event)
}

type nopPublisher struct{}

func (nopPublisher) Publish(Event) {}
