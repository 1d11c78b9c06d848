package entities

import (
	"time"

	"github.com/google/uuid"
)

// MutationAction is the kind of change a MutationEvent describes
type MutationAction string

const (
	MutationActionCreated MutationAction = "created"
	MutationActionUpdated MutationAction = "updated"
	MutationActionDeleted MutationAction = "deleted"
)

// Collection names as exposed by the Data Access API
const (
	CollectionAccommodations = "accommodations"
	CollectionFacilities     = "facilities"
	CollectionUsers          = "users"
	CollectionBookings       = "bookings"
	CollectionComments       = "comments"
	CollectionFavorites      = "favorites"
)

// MutationEvent is published whenever a collection record changes
type MutationEvent struct {
	ID              string         `json:"id"`
	Collection      string         `json:"collection"`
	Action          MutationAction `json:"action"`
	EntityID        string         `json:"entityId"`
	UserID          string         `json:"userId,omitempty"`
	AccommodationID string         `json:"accommodationId,omitempty"`
	Timestamp       time.Time      `json:"timestamp"`
}

// NewMutationEvent creates a new mutation event
func NewMutationEvent(collection string, action MutationAction, entityID string) *MutationEvent {
	return &MutationEvent{
		ID:         uuid.NewString(),
		Collection: collection,
		Action:     action,
		EntityID:   entityID,
		Timestamp:  time.Now().UTC(),
	}
}

// WithRefs sets the user and accommodation references carried by the event
func (e *MutationEvent) WithRefs(userID, accommodationID string) *MutationEvent {
	e.UserID = userID
	e.AccommodationID = accommodationID
	return e
}
