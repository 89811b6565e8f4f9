package ratings

import (
	"time"

	"github.com/feen1e/recipe-app-backend/pkg/db/models"
	"github.com/google/uuid"
)

// RatingDTO is the public projection of a rating row.
type RatingDTO struct {
	ID        uuid.UUID `json:"id"`
	Stars     int       `json:"stars"`
	Review    *string   `json:"review,omitempty"`
	UserID    uuid.UUID `json:"userId"`
	RecipeID  uuid.UUID `json:"recipeId"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// CreateRatingInput carries a new rating for a recipe. The author is always
// the authenticated caller, never a field of the payload.
type CreateRatingInput struct {
	Stars    int       `json:"stars" validate:"required,min=1,max=5"`
	Review   *string   `json:"review" validate:"omitempty,max=2000"`
	RecipeID uuid.UUID `json:"recipeId" validate:"required"`
}

// UpdateRatingInput carries a partial update; nil fields are left untouched.
// Reassigning userId and recipeId is allowed, matching the historical API.
type UpdateRatingInput struct {
	Stars    *int       `json:"stars" validate:"omitempty,min=1,max=5"`
	Review   *string    `json:"review" validate:"omitempty,max=2000"`
	UserID   *uuid.UUID `json:"userId"`
	RecipeID *uuid.UUID `json:"recipeId"`
}

// DeletedDTO confirms a removal.
type DeletedDTO struct {
	Message string `json:"message"`
}

func toRatingDTO(rating models.Rating) RatingDTO {
	return RatingDTO{
		ID:        rating.ID,
		Stars:     rating.Stars,
		Review:    rating.Review,
		UserID:    rating.UserID,
		RecipeID:  rating.RecipeID,
		CreatedAt: rating.CreatedAt,
		UpdatedAt: rating.UpdatedAt,
	}
}
