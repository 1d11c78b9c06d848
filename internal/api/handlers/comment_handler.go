package handlers

import (
	"context"
	"net/http"

	"github.com/zatekoja/staybook/internal/adapters/wire"
	"github.com/zatekoja/staybook/internal/domain/entities"
	"github.com/zatekoja/staybook/internal/domain/repositories"
)

// CommentService is the comments behaviour the handler depends on
type CommentService interface {
	List(ctx context.Context, filter repositories.OwnershipFilter) ([]entities.Comment, error)
	Create(ctx context.Context, comment *entities.Comment) error
}

// CommentHandler handles comment requests
type CommentHandler struct {
	service CommentService
}

// NewCommentHandler creates a new comment handler
func NewCommentHandler(service CommentService) *CommentHandler {
	return &CommentHandler{service: service}
}

// ListComments handles GET /comments
func (h *CommentHandler) ListComments(w http.ResponseWriter, r *http.Request) {
	comments, err := h.service.List(r.Context(), ownershipFilter(r))
	if err != nil {
		respondWithAppError(w, r, err)
		return
	}
	respondWithJSON(w, http.StatusOK, comments)
}

// CreateComment handles POST /comments
func (h *CommentHandler) CreateComment(w http.ResponseWriter, r *http.Request) {
	comment, err := decodeBody(w, r, wire.DecodeComment)
	if err != nil {
		respondWithAppError(w, r, err)
		return
	}

	if err := h.service.Create(r.Context(), &comment); err != nil {
		respondWithAppError(w, r, err)
		return
	}

	respondWithJSON(w, http.StatusCreated, comment)
}
