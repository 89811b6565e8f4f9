package ratings

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/feen1e/recipe-app-backend/pkg/authz"
	"github.com/feen1e/recipe-app-backend/pkg/db/models"
	pkgerrors "github.com/feen1e/recipe-app-backend/pkg/errors"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type ratingRepository interface {
	ListAll(ctx context.Context) ([]models.Rating, error)
	ListByUser(ctx context.Context, userID uuid.UUID) ([]models.Rating, error)
	FindByID(ctx context.Context, id uuid.UUID) (models.Rating, error)
	Create(ctx context.Context, rating *models.Rating) error
	Save(ctx context.Context, rating *models.Rating) error
	Delete(ctx context.Context, id uuid.UUID) error
}

type userFinder interface {
	FindByUsername(ctx context.Context, username string) (models.User, error)
}

// Service exposes rating operations.
type Service interface {
	List(ctx context.Context) ([]RatingDTO, error)
	ListByUsername(ctx context.Context, username string) ([]RatingDTO, error)
	GetByID(ctx context.Context, id uuid.UUID) (RatingDTO, error)
	Create(ctx context.Context, authorID uuid.UUID, input CreateRatingInput) (RatingDTO, error)
	Update(ctx context.Context, actor authz.Actor, id uuid.UUID, input UpdateRatingInput) (RatingDTO, error)
	Delete(ctx context.Context, actor authz.Actor, id uuid.UUID) (DeletedDTO, error)
}

// ServiceParams groups dependencies for the rating service.
type ServiceParams struct {
	RatingRepo ratingRepository
	UserRepo   userFinder
}

type service struct {
	ratingRepo ratingRepository
	userRepo   userFinder
}

// NewService builds a rating service with the required dependencies.
func NewService(params ServiceParams) (Service, error) {
	if params.RatingRepo == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "rating repo is required")
	}
	if params.UserRepo == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "user repo is required")
	}
	return &service{ratingRepo: params.RatingRepo, userRepo: params.UserRepo}, nil
}

// List returns every rating.
func (s *service) List(ctx context.Context) ([]RatingDTO, error) {
	ratings, err := s.ratingRepo.ListAll(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list ratings")
	}
	return toDTOs(ratings), nil
}

// ListByUsername returns every rating authored by the named user.
func (s *service) ListByUsername(ctx context.Context, username string) ([]RatingDTO, error) {
	user, err := s.userRepo.FindByUsername(ctx, strings.TrimSpace(username))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.Wrap(pkgerrors.CodeNotFound, err, fmt.Sprintf("User with username %s not found", username))
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load user")
	}

	ratings, err := s.ratingRepo.ListByUser(ctx, user.ID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list ratings")
	}
	return toDTOs(ratings), nil
}

// GetByID returns one rating.
func (s *service) GetByID(ctx context.Context, id uuid.UUID) (RatingDTO, error) {
	rating, err := s.loadRating(ctx, id)
	if err != nil {
		return RatingDTO{}, err
	}
	return toRatingDTO(rating), nil
}

// Create persists a new rating authored by authorID.
func (s *service) Create(ctx context.Context, authorID uuid.UUID, input CreateRatingInput) (RatingDTO, error) {
	if input.Stars < 1 || input.Stars > 5 {
		return RatingDTO{}, pkgerrors.New(pkgerrors.CodeValidation, "stars must be between 1 and 5")
	}
	if input.RecipeID == uuid.Nil {
		return RatingDTO{}, pkgerrors.New(pkgerrors.CodeValidation, "recipeId is required")
	}

	rating := models.Rating{
		UserID:   authorID,
		RecipeID: input.RecipeID,
		Stars:    input.Stars,
		Review:   input.Review,
	}
	if err := s.ratingRepo.Create(ctx, &rating); err != nil {
		return RatingDTO{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create rating")
	}
	return toRatingDTO(rating), nil
}

// Update merges the provided fields onto the rating. Only the rating's author
// or an admin may update.
func (s *service) Update(ctx context.Context, actor authz.Actor, id uuid.UUID, input UpdateRatingInput) (RatingDTO, error) {
	rating, err := s.loadRating(ctx, id)
	if err != nil {
		return RatingDTO{}, err
	}
	if !authz.CanMutate(actor, rating.UserID) {
		return RatingDTO{}, pkgerrors.New(pkgerrors.CodeForbidden, "You do not have permission to update this rating")
	}

	if input.Stars != nil {
		if *input.Stars < 1 || *input.Stars > 5 {
			return RatingDTO{}, pkgerrors.New(pkgerrors.CodeValidation, "stars must be between 1 and 5")
		}
		rating.Stars = *input.Stars
	}
	if input.Review != nil {
		rating.Review = input.Review
	}
	if input.UserID != nil {
		rating.UserID = *input.UserID
	}
	if input.RecipeID != nil {
		rating.RecipeID = *input.RecipeID
	}

	if err := s.ratingRepo.Save(ctx, &rating); err != nil {
		return RatingDTO{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "save rating")
	}
	return toRatingDTO(rating), nil
}

// Delete removes the rating. Only the rating's author or an admin may delete.
func (s *service) Delete(ctx context.Context, actor authz.Actor, id uuid.UUID) (DeletedDTO, error) {
	rating, err := s.loadRating(ctx, id)
	if err != nil {
		return DeletedDTO{}, err
	}
	if !authz.CanMutate(actor, rating.UserID) {
		return DeletedDTO{}, pkgerrors.New(pkgerrors.CodeForbidden, "You do not have permission to delete this rating")
	}

	if err := s.ratingRepo.Delete(ctx, id); err != nil {
		return DeletedDTO{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "delete rating")
	}
	return DeletedDTO{Message: fmt.Sprintf("Rating with ID %s has been deleted", id)}, nil
}

func (s *service) loadRating(ctx context.Context, id uuid.UUID) (models.Rating, error) {
	rating, err := s.ratingRepo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return models.Rating{}, pkgerrors.Wrap(pkgerrors.CodeNotFound, err, fmt.Sprintf("Rating with ID %s not found", id))
		}
		return models.Rating{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load rating")
	}
	return rating, nil
}

func toDTOs(ratings []models.Rating) []RatingDTO {
	out := make([]RatingDTO, 0, len(ratings))
	for _, rating := range ratings {
		out = append(out, toRatingDTO(rating))
	}
	return out
}
