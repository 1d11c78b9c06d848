package handlers

import (
	"context"
	"net/http"
	"strconv"
	"strings"

	"github.com/zatekoja/staybook/internal/application/join"
	"github.com/zatekoja/staybook/internal/domain/entities"
	"github.com/zatekoja/staybook/internal/domain/repositories"
	apperrors "github.com/zatekoja/staybook/pkg/errors"
)

// AccommodationService is the catalog behaviour the handler depends on
type AccommodationService interface {
	List(ctx context.Context, params repositories.SearchParams) ([]entities.Accommodation, error)
	GetByID(ctx context.Context, id string) (*entities.Accommodation, error)
	ListFacilities(ctx context.Context) ([]entities.Facility, error)
}

// AccommodationHandler handles accommodation and facility requests
type AccommodationHandler struct {
	service AccommodationService
}

// NewAccommodationHandler creates a new accommodation handler
func NewAccommodationHandler(service AccommodationService) *AccommodationHandler {
	return &AccommodationHandler{service: service}
}

// ListAccommodations handles GET /accommodations
//
// Supported query parameters: q, category, location, minPrice, maxPrice,
// minRating, type (repeatable) and facilityId (repeatable).
func (h *AccommodationHandler) ListAccommodations(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()

	filters, err := parseFilters(query)
	if err != nil {
		respondWithAppError(w, r, err)
		return
	}

	accommodations, err := h.service.List(r.Context(), repositories.SearchParams{
		Query:    query.Get("q"),
		Category: query.Get("category"),
	})
	if err != nil {
		respondWithAppError(w, r, err)
		return
	}

	if location := strings.TrimSpace(query.Get("location")); location != "" {
		accommodations = join.FilterByLocation(accommodations, location)
	}
	accommodations = join.ApplyFilters(accommodations, filters)

	respondWithJSON(w, http.StatusOK, accommodations)
}

// GetAccommodation handles GET /accommodations/{id}
func (h *AccommodationHandler) GetAccommodation(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if id == "" {
		respondWithError(w, http.StatusBadRequest, "accommodation ID is required")
		return
	}

	accommodation, err := h.service.GetByID(r.Context(), id)
	if err != nil {
		respondWithAppError(w, r, err)
		return
	}

	respondWithJSON(w, http.StatusOK, accommodation)
}

// ListFacilities handles GET /facilities
func (h *AccommodationHandler) ListFacilities(w http.ResponseWriter, r *http.Request) {
	facilities, err := h.service.ListFacilities(r.Context())
	if err != nil {
		respondWithAppError(w, r, err)
		return
	}

	respondWithJSON(w, http.StatusOK, facilities)
}

func parseFilters(query map[string][]string) (join.Filters, error) {
	var f join.Filters
	var err error

	get := func(key string) string {
		if v := query[key]; len(v) > 0 {
			return strings.TrimSpace(v[0])
		}
		return ""
	}

	if f.MinPrice, err = parseFloat("minPrice", get("minPrice")); err != nil {
		return f, err
	}
	if f.MaxPrice, err = parseFloat("maxPrice", get("maxPrice")); err != nil {
		return f, err
	}
	if f.MinRating, err = parseFloat("minRating", get("minRating")); err != nil {
		return f, err
	}
	if f.MaxPrice > 0 && f.MinPrice > f.MaxPrice {
		return f, apperrors.NewInvalidInputError("minPrice must not exceed maxPrice")
	}

	f.Types = nonEmpty(query["type"])
	f.FacilityIDs = nonEmpty(query["facilityId"])
	return f, nil
}

func parseFloat(name, raw string) (float64, error) {
	if raw == "" {
		return 0, nil
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil || v < 0 {
		return 0, apperrors.NewInvalidInputError(name + " must be a non-negative number")
	}
	return v, nil
}

func nonEmpty(values []string) []string {
	var out []string
	for _, v := range values {
		if v = strings.TrimSpace(v); v != "" {
			out = append(out, v)
		}
	}
	return out
}
