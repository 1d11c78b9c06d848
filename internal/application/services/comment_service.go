package services

import (
	"context"
	"strings"

	"github.com/google/uuid"

	"github.com/zatekoja/staybook/internal/domain/entities"
	"github.com/zatekoja/staybook/internal/domain/providers"
	"github.com/zatekoja/staybook/internal/domain/repositories"
	apperrors "github.com/zatekoja/staybook/pkg/errors"
)

// CommentService handles business logic for comments
type CommentService struct {
	repo           repositories.CommentRepository
	accommodations repositories.AccommodationRepository
	events         publisher
}

// NewCommentService creates a new comment service
func NewCommentService(
	repo repositories.CommentRepository,
	accommodations repositories.AccommodationRepository,
	events providers.EventBus,
) *CommentService {
	return &CommentService{
		repo:           repo,
		accommodations: accommodations,
		events:         publisher{bus: events},
	}
}

// List retrieves comments matching the filter
func (s *CommentService) List(ctx context.Context, filter repositories.OwnershipFilter) ([]entities.Comment, error) {
	return s.repo.List(ctx, filter)
}

// Create validates and stores a comment
func (s *CommentService) Create(ctx context.Context, comment *entities.Comment) error {
	comment.Text = strings.TrimSpace(comment.Text)
	if err := comment.Validate(); err != nil {
		return apperrors.NewInvalidInputError(err.Error())
	}
	if err := requireAccommodation(ctx, s.accommodations, comment.AccommodationID); err != nil {
		return err
	}

	comment.ID = uuid.NewString()
	if err := s.repo.Create(ctx, comment); err != nil {
		return err
	}

	s.events.publish(ctx, entities.NewMutationEvent(entities.CollectionComments, entities.MutationActionCreated, comment.ID).
		WithRefs(comment.UserID, comment.AccommodationID))
	return nil
}
