package storage

import "time"

// Action names the trip mutation an event records.
type Action string

const (
	ActionCreate Action = "create"
	ActionDelete Action = "delete"
)

// Event is one completed mutation of the trip collection.
// Events are appended in chronological order and never rewritten.
type Event struct {
	Timestamp   time.Time `json:"timestamp"`
	Action      Action    `json:"action"`
	TripID      int64     `json:"trip_id"`
	Destination string    `json:"destination"`
}

// Recorder abstracts persistence of audit events.
// LoadEvents should return events in chronological order.
// Implementations must be safe for concurrent use.
type Recorder interface {
	AppendEvent(event Event) error
	LoadEvents() ([]Event, error)
}
