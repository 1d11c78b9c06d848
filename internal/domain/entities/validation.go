package entities

import (
	"sync"

	"github.com/go-playground/validator/v10"
)

var (
	validate     *validator.Validate
	validateOnce sync.Once
)

func validatorInstance() *validator.Validate {
	validateOnce.Do(func() {
		validate = validator.New(validator.WithRequiredStructEnabled())
	})
	return validate
}

// UserOwned is implemented by join entities that reference a user
type UserOwned interface {
	OwnerID() string
}

// AccommodationScoped is implemented by join entities that reference an accommodation
type AccommodationScoped interface {
	AccommodationRef() string
}
