package users

import (
	"context"
	"strings"

	"github.com/feen1e/recipe-app-backend/pkg/db/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Repository encapsulates user persistence.
type Repository struct {
	db *gorm.DB
}

// NewRepository constructs a user repository bound to the provided gorm DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// FindByID loads a user row by primary key.
func (r *Repository) FindByID(ctx context.Context, id uuid.UUID) (models.User, error) {
	var user models.User
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&user).Error
	return user, err
}

// FindByIDAndEmail loads a user matching both identifiers. Tokens minted
// before an email change must stop resolving, so both fields are compared.
func (r *Repository) FindByIDAndEmail(ctx context.Context, id uuid.UUID, email string) (models.User, error) {
	var user models.User
	err := r.db.WithContext(ctx).Where("id = ? AND email = ?", id, email).First(&user).Error
	return user, err
}

// FindByEmail loads a user row by email.
func (r *Repository) FindByEmail(ctx context.Context, email string) (models.User, error) {
	var user models.User
	err := r.db.WithContext(ctx).Where("email = ?", email).First(&user).Error
	return user, err
}

// FindByUsername loads a user row by username.
func (r *Repository) FindByUsername(ctx context.Context, username string) (models.User, error) {
	var user models.User
	err := r.db.WithContext(ctx).Where("username = ?", username).First(&user).Error
	return user, err
}

// FindByIdentifier dispatches on the identifier shape: emails contain "@",
// everything else is treated as a username.
func (r *Repository) FindByIdentifier(ctx context.Context, identifier string) (models.User, error) {
	if strings.Contains(identifier, "@") {
		return r.FindByEmail(ctx, identifier)
	}
	return r.FindByUsername(ctx, identifier)
}

// Create inserts a new user row.
func (r *Repository) Create(ctx context.Context, user *models.User) error {
	return r.db.WithContext(ctx).Create(user).Error
}

// Save persists all fields of an existing user row.
func (r *Repository) Save(ctx context.Context, user *models.User) error {
	return r.db.WithContext(ctx).Save(user).Error
}

// UsernameTakenByOther reports whether another user already holds the username.
func (r *Repository) UsernameTakenByOther(ctx context.Context, username string, selfID uuid.UUID) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.User{}).
		Where("username = ? AND id <> ?", username, selfID).
		Count(&count).Error
	return count > 0, err
}

// EmailTakenByOther reports whether another user already holds the email.
func (r *Repository) EmailTakenByOther(ctx context.Context, email string, selfID uuid.UUID) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.User{}).
		Where("email = ? AND id <> ?", email, selfID).
		Count(&count).Error
	return count > 0, err
}
