package events

import (
	"time"

	"fleetalloc/pkg/model"
)

const (
	TypeAllocationCreated = "allocation.created"
	TypeAllocationUpdated = "allocation.updated"
	TypeAllocationDeleted = "allocation.deleted"
)

// Header keys shared with downstream consumers.
const (
	HeaderEventID   = "event-id"
	HeaderEventType = "event-type"
	HeaderSource    = "source"
)

// AllocationEvent is the payload published after each successful
// lifecycle operation. Deletion events carry the last known state of
// the removed record.
type AllocationEvent struct {
	EventID    string           `json:"event_id"`
	Type       string           `json:"type"`
	OccurredAt time.Time        `json:"occurred_at"`
	Allocation model.Allocation `json:"allocation"`
}
