package entities

// Favorite marks that a user favorited an accommodation.
// At most one exists per (UserID, AccommodationID) pair.
type Favorite struct {
	ID              string `json:"id" db:"id"`
	UserID          string `json:"userId" db:"user_id" validate:"required"`
	AccommodationID string `json:"accommodationId" db:"accommodation_id" validate:"required"`
}

// Validate checks the favorite's field constraints
func (f *Favorite) Validate() error {
	return validatorInstance().Struct(f)
}

// Matches reports whether f links the given user and accommodation
func (f Favorite) Matches(userID, accommodationID string) bool {
	return f.UserID == userID && f.AccommodationID == accommodationID
}

func (f Favorite) OwnerID() string { return f.UserID }
func (f Favorite) AccommodationRef() string { return f.AccommodationID }
