package favorites

import (
	"context"

	"github.com/feen1e/recipe-app-backend/pkg/db/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Repository encapsulates favorite persistence.
type Repository struct {
	db *gorm.DB
}

// NewRepository constructs a favorite repository bound to the provided gorm DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// ListRecipesByUser returns the recipes the user has favorited, oldest
// favorite first.
func (r *Repository) ListRecipesByUser(ctx context.Context, userID uuid.UUID) ([]models.Recipe, error) {
	var recipes []models.Recipe
	err := r.db.WithContext(ctx).
		Table("recipes").
		Select("recipes.*").
		Joins("JOIN favorites f ON f.recipe_id = recipes.id").
		Where("f.user_id = ?", userID).
		Order("f.created_at ASC").
		Scan(&recipes).Error
	return recipes, err
}

// Find loads the favorite link for a user and recipe pair.
func (r *Repository) Find(ctx context.Context, userID, recipeID uuid.UUID) (models.Favorite, error) {
	var favorite models.Favorite
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND recipe_id = ?", userID, recipeID).
		First(&favorite).Error
	return favorite, err
}

// Create inserts a new favorite link.
func (r *Repository) Create(ctx context.Context, favorite *models.Favorite) error {
	return r.db.WithContext(ctx).Create(favorite).Error
}

// Delete removes the favorite link for a user and recipe pair.
func (r *Repository) Delete(ctx context.Context, userID, recipeID uuid.UUID) error {
	return r.db.WithContext(ctx).
		Where("user_id = ? AND recipe_id = ?", userID, recipeID).
		Delete(&models.Favorite{}).Error
}
