package ratings

import (
	"context"

	"github.com/feen1e/recipe-app-backend/pkg/db/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Repository encapsulates rating persistence.
type Repository struct {
	db *gorm.DB
}

// NewRepository constructs a rating repository bound to the provided gorm DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// ListAll returns every rating row.
func (r *Repository) ListAll(ctx context.Context) ([]models.Rating, error) {
	var ratings []models.Rating
	err := r.db.WithContext(ctx).Find(&ratings).Error
	return ratings, err
}

// ListByUser returns every rating authored by the given user.
func (r *Repository) ListByUser(ctx context.Context, userID uuid.UUID) ([]models.Rating, error) {
	var ratings []models.Rating
	err := r.db.WithContext(ctx).Where("user_id = ?", userID).Find(&ratings).Error
	return ratings, err
}

// FindByID loads one rating row.
func (r *Repository) FindByID(ctx context.Context, id uuid.UUID) (models.Rating, error) {
	var rating models.Rating
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&rating).Error
	return rating, err
}

// Create inserts a new rating row.
func (r *Repository) Create(ctx context.Context, rating *models.Rating) error {
	return r.db.WithContext(ctx).Create(rating).Error
}

// Save persists all fields of an existing rating row.
func (r *Repository) Save(ctx context.Context, rating *models.Rating) error {
	return r.db.WithContext(ctx).Save(rating).Error
}

// Delete removes a rating row.
func (r *Repository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Where("id = ?", id).Delete(&models.Rating{}).Error
}
