package entities

// Comment is a user review of an accommodation. Never updated or deleted.
type Comment struct {
	ID              string `json:"id" db:"id"`
	UserID          string `json:"userId" db:"user_id" validate:"required"`
	AccommodationID string `json:"accommodationId" db:"accommodation_id" validate:"required"`
	Text            string `json:"text" db:"text"`
	Rating          int    `json:"rating" db:"rating" validate:"min=1,max=5"` // 1-5
}

// Validate checks the comment's field constraints
func (c *Comment) Validate() error {
	return validatorInstance().Struct(c)
}

func (c Comment) OwnerID() string { return c.UserID }
func (c Comment) AccommodationRef() string { return c.AccommodationID }
