package entities

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBookingValidate(t *testing.T) {
	valid := Booking{UserID: "u1", AccommodationID: "a1", PaymentMethod: PaymentMethodCash, TotalPrice: 110}
	assert.NoError(t, valid.Validate())

	noPrice := valid
	noPrice.TotalPrice = 0
	assert.Error(t, noPrice.Validate())

	badMethod := valid
	badMethod.PaymentMethod = "crypto"
	assert.Error(t, badMethod.Validate())
}

func TestCommentValidate_RatingRange(t *testing.T) {
	c := Comment{UserID: "u1", AccommodationID: "a1", Text: "ok", Rating: 5}
	assert.NoError(t, c.Validate())

	c.Rating = 0
	assert.Error(t, c.Validate())
	c.Rating = 6
	assert.Error(t, c.Validate())
}

func TestAccommodationValidate(t *testing.T) {
	a := Accommodation{Title: "Beach Villa", Price: 200, Rating: 4.5, Capacity: 4}
	assert.NoError(t, a.Validate())

	a.Price = -1
	assert.Error(t, a.Validate())
}

func TestFavoriteMatches(t *testing.T) {
	f := Favorite{ID: "f1", UserID: "u1", AccommodationID: "a2"}
	assert.True(t, f.Matches("u1", "a2"))
	assert.False(t, f.Matches("u1", "a1"))
	assert.False(t, f.Matches("u2", "a2"))
}

func TestUserFullName(t *testing.T) {
	u := User{FirstName: "Lan", LastName: "Tran"}
	assert.Equal(t, "Lan Tran", u.FullName())
	assert.Equal(t, "Lan", (&User{FirstName: "Lan"}).FullName())
}
