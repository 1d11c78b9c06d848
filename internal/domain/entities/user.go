package entities

import "strings"

// User represents a registered user
type User struct {
	ID           string `json:"id" db:"id"`
	MobileNumber string `json:"mobileNumber" db:"mobile_number"`
	Email        string `json:"email" db:"email" validate:"omitempty,email"`
	Password     string `json:"password" db:"password"`
	FirstName    string `json:"firstName" db:"first_name"`
	LastName     string `json:"lastName" db:"last_name"`
	ProfileImage string `json:"profileImage" db:"profile_image"`
}

// Validate checks the user's field constraints
func (u *User) Validate() error {
	return validatorInstance().Struct(u)
}

// FullName returns the display name
func (u *User) FullName() string {
	return strings.TrimSpace(u.FirstName + " " + u.LastName)
}
