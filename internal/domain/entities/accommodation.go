package entities

// Accommodation is a bookable listing. Read-only for clients.
type Accommodation struct {
	ID          string   `json:"id" db:"id"`
	Title       string   `json:"title" db:"title" validate:"required"`
	Description string   `json:"description" db:"description"`
	Location    string   `json:"location" db:"location"`
	Price       float64  `json:"price" db:"price" validate:"gt=0"`
	Rating      float64  `json:"rating" db:"rating" validate:"gte=0,lte=5"`
	Category    string   `json:"typeOfPlace" db:"category"`
	Capacity    int      `json:"numberOfGuest" db:"capacity" validate:"gt=0"`
	Image       string   `json:"image" db:"image"`
	FacilityIDs []string `json:"facilityIds" db:"-"`
}

// Validate checks the accommodation's field constraints
func (a *Accommodation) Validate() error {
	return validatorInstance().Struct(a)
}

// Facility is static reference data describing an amenity
type Facility struct {
	ID       string `json:"id" db:"id"`
	Name     string `json:"name" db:"name" validate:"required"`
	Category string `json:"category" db:"category"`
}

// Validate checks the facility's field constraints
func (f *Facility) Validate() error {
	return validatorInstance().Struct(f)
}
