package handlers

import (
	"context"
	"net/http"

	"github.com/zatekoja/staybook/internal/adapters/wire"
	"github.com/zatekoja/staybook/internal/domain/entities"
	"github.com/zatekoja/staybook/internal/domain/repositories"
)

// UserService is the user behaviour the handler depends on
type UserService interface {
	List(ctx context.Context, filter repositories.UserFilter) ([]entities.User, error)
	GetByID(ctx context.Context, id string) (*entities.User, error)
	Register(ctx context.Context, user *entities.User) error
	Update(ctx context.Context, user *entities.User) error
}

// UserHandler handles user requests
type UserHandler struct {
	service UserService
}

// NewUserHandler creates a new user handler
func NewUserHandler(service UserService) *UserHandler {
	return &UserHandler{service: service}
}

// ListUsers handles GET /users, optionally filtered by email or mobileNumber
func (h *UserHandler) ListUsers(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	users, err := h.service.List(r.Context(), repositories.UserFilter{
		Email:        query.Get("email"),
		MobileNumber: query.Get("mobileNumber"),
	})
	if err != nil {
		respondWithAppError(w, r, err)
		return
	}
	respondWithJSON(w, http.StatusOK, users)
}

// GetUser handles GET /users/{id}
func (h *UserHandler) GetUser(w http.ResponseWriter, r *http.Request) {
	user, err := h.service.GetByID(r.Context(), r.PathValue("id"))
	if err != nil {
		respondWithAppError(w, r, err)
		return
	}
	respondWithJSON(w, http.StatusOK, user)
}

// RegisterUser handles POST /users
func (h *UserHandler) RegisterUser(w http.ResponseWriter, r *http.Request) {
	user, err := decodeBody(w, r, wire.DecodeUser)
	if err != nil {
		respondWithAppError(w, r, err)
		return
	}

	if err := h.service.Register(r.Context(), &user); err != nil {
		respondWithAppError(w, r, err)
		return
	}
	respondWithJSON(w, http.StatusCreated, user)
}

// UpdateUser handles PUT /users/{id}. The path id wins over any id in the body.
func (h *UserHandler) UpdateUser(w http.ResponseWriter, r *http.Request) {
	user, err := decodeBody(w, r, wire.DecodeUser)
	if err != nil {
		respondWithAppError(w, r, err)
		return
	}
	user.ID = r.PathValue("id")

	if err := h.service.Update(r.Context(), &user); err != nil {
		respondWithAppError(w, r, err)
		return
	}
	respondWithJSON(w, http.StatusOK, user)
}
