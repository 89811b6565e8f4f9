package users

import (
	"time"

	"github.com/feen1e/recipe-app-backend/internal/uploads"
	"github.com/feen1e/recipe-app-backend/pkg/db/models"
	"github.com/google/uuid"
)

// ProfileDTO is the public projection of a user row. The password hash never
// leaves the service layer.
type ProfileDTO struct {
	ID        uuid.UUID `json:"id"`
	Username  string    `json:"username"`
	Email     string    `json:"email"`
	Bio       *string   `json:"bio,omitempty"`
	AvatarURL *string   `json:"avatarUrl,omitempty"`
	Role      string    `json:"role"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// UpdateProfileInput carries the self-service partial update fields.
type UpdateProfileInput struct {
	Username *string `json:"username" validate:"omitempty,min=3,max=64"`
	Bio      *string `json:"bio" validate:"omitempty,max=1000"`
	Avatar   *string `json:"avatar" validate:"omitempty,max=512"`
}

// AdminUpdateInput additionally allows changing email and role.
type AdminUpdateInput struct {
	Username *string `json:"username" validate:"omitempty,min=3,max=64"`
	Email    *string `json:"email" validate:"omitempty,email"`
	Bio      *string `json:"bio" validate:"omitempty,max=1000"`
	Avatar   *string `json:"avatar" validate:"omitempty,max=512"`
	Role     *string `json:"role" validate:"omitempty,oneof=USER ADMIN"`
}

// AdminCreateInput mirrors registration but is reserved for admins.
type AdminCreateInput struct {
	Username string `json:"username" validate:"required,min=3,max=64"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8,max=128"`
}

func toProfileDTO(user models.User, baseURL string) ProfileDTO {
	return ProfileDTO{
		ID:        user.ID,
		Username:  user.Username,
		Email:     user.Email,
		Bio:       user.Bio,
		AvatarURL: uploads.PublicURL(baseURL, user.AvatarURL),
		Role:      user.Role.String(),
		CreatedAt: user.CreatedAt,
		UpdatedAt: user.UpdatedAt,
	}
}
