package domain

import "time"

// EventType represents the type of lead event.
type EventType string

const (
	EventTypeCreated   EventType = "created"
	EventTypeAdvanced  EventType = "advanced"
	EventTypeAssigned  EventType = "assigned"
	EventTypeCommented EventType = "commented"
	EventTypeWon       EventType = "won"
	EventTypeLost      EventType = "lost"
)

// LeadEvent represents an append-only history entry for a lead.
type LeadEvent struct {
	ID        string
	LeadID    string
	ActorID   *string // nil for system events
	Type      EventType
	FromStep  *string
	ToStep    *string
	Comment   string
	CreatedAt time.Time
}

// IsSystemEvent returns true if the event was created by the system.
func (e *LeadEvent) IsSystemEvent() bool {
	return e.ActorID == nil
}
