package collections

import (
	"context"

	"github.com/feen1e/recipe-app-backend/pkg/db/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Repository encapsulates collection persistence.
type Repository struct {
	db *gorm.DB
}

// NewRepository constructs a collection repository bound to the provided gorm DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// ListAll returns every collection row.
func (r *Repository) ListAll(ctx context.Context) ([]models.Collection, error) {
	var collections []models.Collection
	err := r.db.WithContext(ctx).Find(&collections).Error
	return collections, err
}

// ListByUser returns every collection owned by the given user.
func (r *Repository) ListByUser(ctx context.Context, userID uuid.UUID) ([]models.Collection, error) {
	var collections []models.Collection
	err := r.db.WithContext(ctx).Where("user_id = ?", userID).Find(&collections).Error
	return collections, err
}

// FindByID loads one collection row.
func (r *Repository) FindByID(ctx context.Context, id uuid.UUID) (models.Collection, error) {
	var collection models.Collection
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&collection).Error
	return collection, err
}

// ListRecipes returns the recipes shelved in the collection, oldest link
// first.
func (r *Repository) ListRecipes(ctx context.Context, collectionID uuid.UUID) ([]models.Recipe, error) {
	var recipes []models.Recipe
	err := r.db.WithContext(ctx).
		Table("recipes").
		Select("recipes.*").
		Joins("JOIN collection_recipes cr ON cr.recipe_id = recipes.id").
		Where("cr.collection_id = ?", collectionID).
		Order("cr.created_at ASC").
		Scan(&recipes).Error
	return recipes, err
}

// Create inserts a new collection row.
func (r *Repository) Create(ctx context.Context, collection *models.Collection) error {
	return r.db.WithContext(ctx).Create(collection).Error
}

// Save persists all fields of an existing collection row.
func (r *Repository) Save(ctx context.Context, collection *models.Collection) error {
	return r.db.WithContext(ctx).Save(collection).Error
}

// Delete removes the collection and its recipe links.
func (r *Repository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("collection_id = ?", id).Delete(&models.CollectionRecipe{}).Error; err != nil {
			return err
		}
		return tx.Where("id = ?", id).Delete(&models.Collection{}).Error
	})
}

// AddRecipe links a recipe into the collection. The unique pair constraint
// rejects duplicates.
func (r *Repository) AddRecipe(ctx context.Context, link *models.CollectionRecipe) error {
	return r.db.WithContext(ctx).Create(link).Error
}
