package domain

import "time"

// Event types
const (
	EventTypeTripCreated        = "trip.created"
	EventTypeTripUpdated        = "trip.updated"
	EventTypeTripDeleted        = "trip.deleted"
	EventTypeParticipantAdded   = "participant.added"
	EventTypeParticipantUpdated = "participant.updated"
	EventTypeParticipantRemoved = "participant.removed"
	EventTypeExpenseAdded       = "expense.added"
	EventTypeExpenseUpdated     = "expense.updated"
	EventTypeExpenseRemoved     = "expense.removed"
)

// ChangeEvent notifies listeners that a trip changed.
type ChangeEvent struct {
	Type       string    `json:"type"`
	TripID     string    `json:"trip_id"`
	EntityID   string    `json:"entity_id,omitempty"`
	OccurredAt time.Time `json:"occurred_at"`
}

