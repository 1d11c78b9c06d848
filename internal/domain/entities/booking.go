package entities

// Payment methods accepted at checkout
const (
	PaymentMethodCash = "cash"
	PaymentMethodCard = "card"
)

// Layouts used for the client-stamped booking date and time
const (
	BookingDateLayout = "02/01/2006"
	BookingTimeLayout = "03:04 PM"
)

// Booking is a reservation created at checkout. It may be cancelled by its owner.
type Booking struct {
	ID              string  `json:"id" db:"id"`
	UserID          string  `json:"userId" db:"user_id" validate:"required"`
	AccommodationID string  `json:"accommodationId" db:"accommodation_id" validate:"required"`
	BookingDate     string  `json:"bookingDate" db:"booking_date"`
	BookingTime     string  `json:"bookingTime" db:"booking_time"`
	PaymentMethod   string  `json:"paymentMethod" db:"payment_method" validate:"required,oneof=cash card"`
	TotalPrice      float64 `json:"totalPrice" db:"total_price" validate:"gt=0"`
}

// Validate checks the booking's field constraints
func (b *Booking) Validate() error {
	return validatorInstance().Struct(b)
}

func (b Booking) OwnerID() string { return b.UserID }
func (b Booking) AccommodationRef() string { return b.AccommodationID }
