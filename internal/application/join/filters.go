package join

import (
	"slices"
	"strings"

	"github.com/zatekoja/staybook/internal/domain/entities"
)

// Filters are the listing refinements offered by the filter screen.
// Zero values disable the corresponding check.
type Filters struct {
	MinPrice    float64
	MaxPrice    float64
	MinRating   float64
	Types       []string
	FacilityIDs []string
}

// DefaultMaxPrice is the upper bound of the price slider
const DefaultMaxPrice = 500

// FilterByLocation keeps accommodations whose location contains location, case-insensitively
func FilterByLocation(accommodations []entities.Accommodation, location string) []entities.Accommodation {
	needle := strings.ToLower(location)
	out := make([]entities.Accommodation, 0)
	for _, a := range accommodations {
		if strings.Contains(strings.ToLower(a.Location), needle) {
			out = append(out, a)
		}
	}
	return out
}

// FilterByPriceRange keeps accommodations priced within [minPrice, maxPrice]
func FilterByPriceRange(accommodations []entities.Accommodation, minPrice, maxPrice float64) []entities.Accommodation {
	out := make([]entities.Accommodation, 0)
	for _, a := range accommodations {
		if a.Price >= minPrice && a.Price <= maxPrice {
			out = append(out, a)
		}
	}
	return out
}

// ApplyFilters keeps accommodations satisfying every enabled filter
func ApplyFilters(accommodations []entities.Accommodation, f Filters) []entities.Accommodation {
	out := make([]entities.Accommodation, 0)
	for _, a := range accommodations {
		if f.matches(a) {
			out = append(out, a)
		}
	}
	return out
}

func (f Filters) matches(a entities.Accommodation) bool {
	if a.Price < f.MinPrice {
		return false
	}
	if f.MaxPrice > 0 && a.Price > f.MaxPrice {
		return false
	}
	if a.Rating < f.MinRating {
		return false
	}
	if len(f.Types) > 0 && !containsFold(f.Types, a.Category) {
		return false
	}
	for _, want := range f.FacilityIDs {
		if !slices.Contains(a.FacilityIDs, want) {
			return false
		}
	}
	return true
}

func containsFold(values []string, s string) bool {
	for _, v := range values {
		if strings.EqualFold(v, s) {
			return true
		}
	}
	return false
}
