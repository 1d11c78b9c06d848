package main

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/zatekoja/staybook/internal/application/join"
	"github.com/zatekoja/staybook/internal/application/optimistic"
	"github.com/zatekoja/staybook/internal/domain/entities"
	"github.com/zatekoja/staybook/pkg/config"
)

func TestRenderAccommodations_MarksFavorites(t *testing.T) {
	var buf bytes.Buffer
	renderAccommodations(&buf, []join.AccommodationWithFavorite{
		{Accommodation: entities.Accommodation{ID: "1", Title: "Sea View", Location: "Lagos"}, IsFavorite: true},
		{Accommodation: entities.Accommodation{ID: "2", Title: "Hill Top", Location: "Jos"}},
	})

	out := buf.String()
	assert.Contains(t, out, "*  1")
	assert.Contains(t, out, "Hill Top")
}

func TestRenderAccommodations_Empty(t *testing.T) {
	var buf bytes.Buffer
	renderAccommodations(&buf, nil)
	assert.Equal(t, "No accommodations found\n", buf.String())
}

func TestRenderCharges_PartialShowsDueNow(t *testing.T) {
	charges := optimistic.Charges{
		NightlyPrice: 101,
		Fees:         []config.Fee{{Name: "Service fee", Amount: 10}},
		Total:        111,
	}

	var full, partial bytes.Buffer
	renderCharges(&full, charges, optimistic.PaymentFull)
	renderCharges(&partial, charges, optimistic.PaymentPartial)

	assert.NotContains(t, full.String(), "Due now")
	assert.Contains(t, partial.String(), "Service fee")
	assert.Contains(t, partial.String(), "56.00")
}

func TestDisplayName_FallsBack(t *testing.T) {
	assert.Equal(t, "Ada Obi", displayName(entities.User{FirstName: "Ada", LastName: "Obi"}))
	assert.Equal(t, "ada@example.com", displayName(entities.User{Email: "ada@example.com"}))
	assert.Equal(t, "0800", displayName(entities.User{MobileNumber: "0800"}))
}
