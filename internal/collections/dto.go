package collections

import (
	"time"

	"github.com/feen1e/recipe-app-backend/internal/recipes"
	"github.com/feen1e/recipe-app-backend/pkg/db/models"
	"github.com/google/uuid"
)

// CollectionDTO is the public projection of a collection row.
type CollectionDTO struct {
	ID          uuid.UUID `json:"id"`
	Name        string    `json:"name"`
	Description *string   `json:"description,omitempty"`
	UserID      uuid.UUID `json:"userId"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// CollectionWithRecipesDTO is a collection expanded with its recipes.
type CollectionWithRecipesDTO struct {
	CollectionDTO
	Recipes []recipes.RecipeDTO `json:"recipes"`
}

// CollectionRecipeDTO is the link row returned when a recipe is shelved.
type CollectionRecipeDTO struct {
	ID           uuid.UUID `json:"id"`
	CollectionID uuid.UUID `json:"collectionId"`
	RecipeID     uuid.UUID `json:"recipeId"`
	CreatedAt    time.Time `json:"createdAt"`
}

// CreateCollectionInput carries a new collection.
type CreateCollectionInput struct {
	Name        string  `json:"name" validate:"required,max=200"`
	Description *string `json:"description" validate:"omitempty,max=2000"`
}

// UpdateCollectionInput carries a partial update; nil fields are left
// untouched.
type UpdateCollectionInput struct {
	Name        *string `json:"name" validate:"omitempty,max=200"`
	Description *string `json:"description" validate:"omitempty,max=2000"`
}

// AddRecipeInput names the recipe to shelve.
type AddRecipeInput struct {
	RecipeID uuid.UUID `json:"recipeId" validate:"required"`
}

// DeletedDTO confirms a removal.
type DeletedDTO struct {
	Message string `json:"message"`
}

func toCollectionDTO(collection models.Collection) CollectionDTO {
	return CollectionDTO{
		ID:          collection.ID,
		Name:        collection.Name,
		Description: collection.Description,
		UserID:      collection.UserID,
		CreatedAt:   collection.CreatedAt,
		UpdatedAt:   collection.UpdatedAt,
	}
}

func toLinkDTO(link models.CollectionRecipe) CollectionRecipeDTO {
	return CollectionRecipeDTO{
		ID:           link.ID,
		CollectionID: link.CollectionID,
		RecipeID:     link.RecipeID,
		CreatedAt:    link.CreatedAt,
	}
}
