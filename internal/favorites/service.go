package favorites

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/feen1e/recipe-app-backend/internal/recipes"
	"github.com/feen1e/recipe-app-backend/pkg/db"
	"github.com/feen1e/recipe-app-backend/pkg/db/models"
	pkgerrors "github.com/feen1e/recipe-app-backend/pkg/errors"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type favoriteRepository interface {
	ListRecipesByUser(ctx context.Context, userID uuid.UUID) ([]models.Recipe, error)
	Find(ctx context.Context, userID, recipeID uuid.UUID) (models.Favorite, error)
	Create(ctx context.Context, favorite *models.Favorite) error
	Delete(ctx context.Context, userID, recipeID uuid.UUID) error
}

type userFinder interface {
	FindByID(ctx context.Context, id uuid.UUID) (models.User, error)
	FindByUsername(ctx context.Context, username string) (models.User, error)
}

type recipeFinder interface {
	FindByID(ctx context.Context, id uuid.UUID) (models.Recipe, error)
}

// FavoriteDTO is the link row returned when a recipe is favorited.
type FavoriteDTO struct {
	ID        uuid.UUID `json:"id"`
	UserID    uuid.UUID `json:"userId"`
	RecipeID  uuid.UUID `json:"recipeId"`
	CreatedAt time.Time `json:"createdAt"`
}

// Service exposes favorite operations. Favorites are always acted on for the
// authenticated caller; there is no way to edit another user's favorites.
type Service interface {
	ListByUsername(ctx context.Context, username string) ([]recipes.RecipeDTO, error)
	Add(ctx context.Context, userID, recipeID uuid.UUID) (FavoriteDTO, error)
	Remove(ctx context.Context, userID, recipeID uuid.UUID) error
}

// ServiceParams groups dependencies for the favorite service.
type ServiceParams struct {
	FavoriteRepo favoriteRepository
	UserRepo     userFinder
	RecipeRepo   recipeFinder
	BaseURL      string
}

type service struct {
	favoriteRepo favoriteRepository
	userRepo     userFinder
	recipeRepo   recipeFinder
	baseURL      string
}

// NewService builds a favorite service with the required dependencies.
func NewService(params ServiceParams) (Service, error) {
	if params.FavoriteRepo == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "favorite repo is required")
	}
	if params.UserRepo == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "user repo is required")
	}
	if params.RecipeRepo == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "recipe repo is required")
	}
	return &service{
		favoriteRepo: params.FavoriteRepo,
		userRepo:     params.UserRepo,
		recipeRepo:   params.RecipeRepo,
		baseURL:      params.BaseURL,
	}, nil
}

// ListByUsername returns the recipes the named user has favorited.
func (s *service) ListByUsername(ctx context.Context, username string) ([]recipes.RecipeDTO, error) {
	user, err := s.userRepo.FindByUsername(ctx, strings.TrimSpace(username))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.Wrap(pkgerrors.CodeNotFound, err, fmt.Sprintf("User with username %s not found", username))
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load user")
	}

	rows, err := s.favoriteRepo.ListRecipesByUser(ctx, user.ID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list favorites")
	}

	out := make([]recipes.RecipeDTO, 0, len(rows))
	for _, row := range rows {
		out = append(out, recipes.NewRecipeDTO(row, s.baseURL))
	}
	return out, nil
}

// Add favorites the recipe for the caller. Favoriting the same recipe twice
// is a conflict.
func (s *service) Add(ctx context.Context, userID, recipeID uuid.UUID) (FavoriteDTO, error) {
	if _, err := s.userRepo.FindByID(ctx, userID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return FavoriteDTO{}, pkgerrors.Wrap(pkgerrors.CodeNotFound, err, fmt.Sprintf("User with ID %s not found", userID))
		}
		return FavoriteDTO{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load user")
	}
	if _, err := s.recipeRepo.FindByID(ctx, recipeID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return FavoriteDTO{}, pkgerrors.Wrap(pkgerrors.CodeNotFound, err, fmt.Sprintf("Recipe with ID %s not found", recipeID))
		}
		return FavoriteDTO{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load recipe")
	}

	favorite := models.Favorite{UserID: userID, RecipeID: recipeID}
	if err := s.favoriteRepo.Create(ctx, &favorite); err != nil {
		if db.IsUniqueViolation(err, "favorites_user_recipe_key") {
			return FavoriteDTO{}, pkgerrors.Wrap(pkgerrors.CodeConflict, err, "Recipe is already in favorites")
		}
		return FavoriteDTO{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create favorite")
	}
	return FavoriteDTO{
		ID:        favorite.ID,
		UserID:    favorite.UserID,
		RecipeID:  favorite.RecipeID,
		CreatedAt: favorite.CreatedAt,
	}, nil
}

// Remove unfavorites the recipe for the caller.
func (s *service) Remove(ctx context.Context, userID, recipeID uuid.UUID) error {
	if _, err := s.favoriteRepo.Find(ctx, userID, recipeID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return pkgerrors.Wrap(pkgerrors.CodeNotFound, err, "Favorite not found")
		}
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load favorite")
	}
	if err := s.favoriteRepo.Delete(ctx, userID, recipeID); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "delete favorite")
	}
	return nil
}
