package repositories

// OwnershipFilter narrows join-entity listings by equality on their references.
// Empty fields match everything.
type OwnershipFilter struct {
	UserID          string
	AccommodationID string
}

// Matches reports whether the given references satisfy the filter
func (f OwnershipFilter) Matches(userID, accommodationID string) bool {
	if f.UserID != "" && f.UserID != userID {
		return false
	}
	if f.AccommodationID != "" && f.AccommodationID != accommodationID {
		return false
	}
	return true
}

// UserFilter narrows user listings by contact fields
type UserFilter struct {
	Email        string
	MobileNumber string
}
