package handlers

import (
	"context"
	"net/http"

	"github.com/zatekoja/staybook/internal/adapters/wire"
	"github.com/zatekoja/staybook/internal/domain/entities"
	"github.com/zatekoja/staybook/internal/domain/repositories"
)

// FavoriteService is the favorites behaviour the handler depends on
type FavoriteService interface {
	List(ctx context.Context, filter repositories.OwnershipFilter) ([]entities.Favorite, error)
	Create(ctx context.Context, favorite *entities.Favorite) error
	Delete(ctx context.Context, id string) error
}

// FavoriteHandler handles favorite requests
type FavoriteHandler struct {
	service FavoriteService
}

// NewFavoriteHandler creates a new favorite handler
func NewFavoriteHandler(service FavoriteService) *FavoriteHandler {
	return &FavoriteHandler{service: service}
}

// ListFavorites handles GET /favorites
func (h *FavoriteHandler) ListFavorites(w http.ResponseWriter, r *http.Request) {
	favorites, err := h.service.List(r.Context(), ownershipFilter(r))
	if err != nil {
		respondWithAppError(w, r, err)
		return
	}

	if !expandsAccommodation(r) {
		respondWithJSON(w, http.StatusOK, favorites)
		return
	}

	views, err := expandAccommodations(r.Context(), favorites, entities.Favorite.AccommodationRef, favoriteView)
	if err != nil {
		respondWithAppError(w, r, err)
		return
	}
	respondWithJSON(w, http.StatusOK, views)
}

// CreateFavorite handles POST /favorites
func (h *FavoriteHandler) CreateFavorite(w http.ResponseWriter, r *http.Request) {
	favorite, err := decodeBody(w, r, wire.DecodeFavorite)
	if err != nil {
		respondWithAppError(w, r, err)
		return
	}

	if err := h.service.Create(r.Context(), &favorite); err != nil {
		respondWithAppError(w, r, err)
		return
	}

	respondWithJSON(w, http.StatusCreated, favorite)
}

// DeleteFavorite handles DELETE /favorites/{id}
func (h *FavoriteHandler) DeleteFavorite(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if id == "" {
		respondWithError(w, http.StatusBadRequest, "favorite ID is required")
		return
	}

	if err := h.service.Delete(r.Context(), id); err != nil {
		respondWithAppError(w, r, err)
		return
	}

	respondWithJSON(w, http.StatusOK, map[string]string{})
}

func ownershipFilter(r *http.Request) repositories.OwnershipFilter {
	query := r.URL.Query()
	return repositories.OwnershipFilter{
		UserID:          query.Get("userId"),
		AccommodationID: firstNonEmpty(query.Get("accommodationId"), query.Get("accomodationId")),
	}
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
