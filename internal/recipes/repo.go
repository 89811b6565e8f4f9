package recipes

import (
	"context"
	"time"

	"github.com/feen1e/recipe-app-backend/pkg/db/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// recipeWithAuthor carries a recipe row joined with its author summary.
type recipeWithAuthor struct {
	Recipe          models.Recipe
	AuthorUsername  string
	AuthorAvatarURL *string
}

type joinedRecipeRecord struct {
	models.Recipe
	AuthorUsername  string  `gorm:"column:author_username"`
	AuthorAvatarURL *string `gorm:"column:author_avatar_url"`
}

func (r joinedRecipeRecord) toRow() recipeWithAuthor {
	return recipeWithAuthor{
		Recipe:          r.Recipe,
		AuthorUsername:  r.AuthorUsername,
		AuthorAvatarURL: r.AuthorAvatarURL,
	}
}

// Repository encapsulates recipe persistence.
type Repository struct {
	db *gorm.DB
}

// NewRepository constructs a recipe repository bound to the provided gorm DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// ListAll returns every recipe row.
func (r *Repository) ListAll(ctx context.Context) ([]models.Recipe, error) {
	var recipes []models.Recipe
	err := r.db.WithContext(ctx).Find(&recipes).Error
	return recipes, err
}

// ListByAuthor returns every recipe authored by the given user.
func (r *Repository) ListByAuthor(ctx context.Context, authorID uuid.UUID) ([]models.Recipe, error) {
	var recipes []models.Recipe
	err := r.db.WithContext(ctx).Where("author_id = ?", authorID).Find(&recipes).Error
	return recipes, err
}

// FindByID loads one recipe row.
func (r *Repository) FindByID(ctx context.Context, id uuid.UUID) (models.Recipe, error) {
	var recipe models.Recipe
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&recipe).Error
	return recipe, err
}

// FindUpdatedAt resolves a cursor id to its sort key.
func (r *Repository) FindUpdatedAt(ctx context.Context, id uuid.UUID) (time.Time, error) {
	var row struct {
		UpdatedAt time.Time
	}
	err := r.db.WithContext(ctx).
		Model(&models.Recipe{}).
		Select("updated_at").
		Where("id = ?", id).
		First(&row).Error
	return row.UpdatedAt, err
}

// Create inserts a new recipe row.
func (r *Repository) Create(ctx context.Context, recipe *models.Recipe) error {
	return r.db.WithContext(ctx).Create(recipe).Error
}

// Save persists all fields of an existing recipe row.
func (r *Repository) Save(ctx context.Context, recipe *models.Recipe) error {
	return r.db.WithContext(ctx).Save(recipe).Error
}

// DeleteCascade removes the recipe and every dependent row referencing it.
// Orphaned favorites, ratings or collection links are not a valid state, so
// the whole removal runs in one transaction.
func (r *Repository) DeleteCascade(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("recipe_id = ?", id).Delete(&models.Favorite{}).Error; err != nil {
			return err
		}
		if err := tx.Where("recipe_id = ?", id).Delete(&models.Rating{}).Error; err != nil {
			return err
		}
		if err := tx.Where("recipe_id = ?", id).Delete(&models.CollectionRecipe{}).Error; err != nil {
			return err
		}
		return tx.Where("id = ?", id).Delete(&models.Recipe{}).Error
	})
}

// ListLatest returns up to fetch recipes joined with their authors, newest
// update first. When cursorUpdatedAt is set only strictly older rows qualify.
func (r *Repository) ListLatest(ctx context.Context, cursorUpdatedAt *time.Time, fetch int) ([]recipeWithAuthor, error) {
	query := r.db.WithContext(ctx).
		Table("recipes").
		Select("recipes.*, users.username AS author_username, users.avatar_url AS author_avatar_url").
		Joins("JOIN users ON users.id = recipes.author_id")

	if cursorUpdatedAt != nil {
		query = query.Where("recipes.updated_at < ?", *cursorUpdatedAt)
	}

	var records []joinedRecipeRecord
	if err := query.Order("recipes.updated_at DESC").Limit(fetch).Scan(&records).Error; err != nil {
		return nil, err
	}

	rows := make([]recipeWithAuthor, 0, len(records))
	for _, record := range records {
		rows = append(rows, record.toRow())
	}
	return rows, nil
}

// ExcludedRecipeIDs returns every recipe id the user already has a
// relationship with: their favorites plus the contents of their collections.
func (r *Repository) ExcludedRecipeIDs(ctx context.Context, userID uuid.UUID) ([]uuid.UUID, error) {
	var ids []uuid.UUID
	err := r.db.WithContext(ctx).Raw(`
SELECT recipe_id FROM favorites WHERE user_id = ?
UNION
SELECT cr.recipe_id
FROM collection_recipes cr
JOIN collections c ON c.id = cr.collection_id
WHERE c.user_id = ?`, userID, userID).Scan(&ids).Error
	return ids, err
}

// ListDiscoverCandidates returns up to fetch recipes not authored by the
// caller and not in the excluded set, newest first.
func (r *Repository) ListDiscoverCandidates(ctx context.Context, callerID uuid.UUID, excluded []uuid.UUID, fetch int) ([]recipeWithAuthor, error) {
	query := r.db.WithContext(ctx).
		Table("recipes").
		Select("recipes.*, users.username AS author_username, users.avatar_url AS author_avatar_url").
		Joins("JOIN users ON users.id = recipes.author_id").
		Where("recipes.author_id <> ?", callerID)

	if len(excluded) > 0 {
		query = query.Where("recipes.id NOT IN ?", excluded)
	}

	var records []joinedRecipeRecord
	if err := query.Order("recipes.created_at DESC").Limit(fetch).Scan(&records).Error; err != nil {
		return nil, err
	}

	rows := make([]recipeWithAuthor, 0, len(records))
	for _, record := range records {
		rows = append(rows, record.toRow())
	}
	return rows, nil
}
