package recipes

import (
	"time"

	"github.com/feen1e/recipe-app-backend/internal/uploads"
	"github.com/feen1e/recipe-app-backend/pkg/db/models"
	"github.com/google/uuid"
)

// RecipeDTO is the public projection of a recipe row. The stored image
// reference is rewritten to an absolute URL; blank references disappear.
type RecipeDTO struct {
	ID          uuid.UUID `json:"id"`
	AuthorID    uuid.UUID `json:"authorId"`
	Title       string    `json:"title"`
	Description *string   `json:"description,omitempty"`
	Ingredients []string  `json:"ingredients"`
	Steps       []string  `json:"steps"`
	ImageURL    *string   `json:"imageUrl,omitempty"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// AuthorDTO is the embedded author summary on feed items.
type AuthorDTO struct {
	Username  string  `json:"username"`
	AvatarURL *string `json:"avatarUrl,omitempty"`
}

// LatestRecipeDTO is a feed item: full recipe fields plus the author.
type LatestRecipeDTO struct {
	RecipeDTO
	Author AuthorDTO `json:"author"`
}

// LatestRecipesDTO is one page of the cursor-paginated latest feed.
type LatestRecipesDTO struct {
	Recipes    []LatestRecipeDTO `json:"recipes"`
	NextCursor *string           `json:"nextCursor,omitempty"`
	HasMore    bool              `json:"hasMore"`
}

// DiscoverRecipeDTO is a discovery item; ingredients and steps are omitted.
type DiscoverRecipeDTO struct {
	ID          uuid.UUID `json:"id"`
	Title       string    `json:"title"`
	Description *string   `json:"description,omitempty"`
	ImageURL    *string   `json:"imageUrl,omitempty"`
	Author      AuthorDTO `json:"author"`
}

// DiscoverRecipesDTO is the randomized discovery response.
type DiscoverRecipesDTO struct {
	Recipes []DiscoverRecipeDTO `json:"recipes"`
	Count   int                 `json:"count"`
}

// CreateRecipeInput carries a new recipe. Ingredients and steps must be
// non-empty sequences of non-empty strings.
type CreateRecipeInput struct {
	Title       string   `json:"title" validate:"required"`
	Description *string  `json:"description"`
	Ingredients []string `json:"ingredients" validate:"required,min=1,dive,required"`
	Steps       []string `json:"steps" validate:"required,min=1,dive,required"`
	ImageURL    *string  `json:"imageUrl"`
}

// UpdateRecipeInput carries a partial update; nil fields are left untouched.
type UpdateRecipeInput struct {
	Title       *string  `json:"title"`
	Description *string  `json:"description"`
	Ingredients []string `json:"ingredients"`
	Steps       []string `json:"steps"`
	ImageURL    *string  `json:"imageUrl"`
}

func NewRecipeDTO(recipe models.Recipe, baseURL string) RecipeDTO {
	return RecipeDTO{
		ID:          recipe.ID,
		AuthorID:    recipe.AuthorID,
		Title:       recipe.Title,
		Description: recipe.Description,
		Ingredients: recipe.Ingredients,
		Steps:       recipe.Steps,
		ImageURL:    uploads.PublicURL(baseURL, recipe.ImageURL),
		CreatedAt:   recipe.CreatedAt,
		UpdatedAt:   recipe.UpdatedAt,
	}
}

func toLatestDTO(row recipeWithAuthor, baseURL string) LatestRecipeDTO {
	return LatestRecipeDTO{
		RecipeDTO: NewRecipeDTO(row.Recipe, baseURL),
		Author: AuthorDTO{
			Username:  row.AuthorUsername,
			AvatarURL: uploads.PublicURL(baseURL, row.AuthorAvatarURL),
		},
	}
}

func toDiscoverDTO(row recipeWithAuthor, baseURL string) DiscoverRecipeDTO {
	return DiscoverRecipeDTO{
		ID:          row.Recipe.ID,
		Title:       row.Recipe.Title,
		Description: row.Recipe.Description,
		ImageURL:    uploads.PublicURL(baseURL, row.Recipe.ImageURL),
		Author: AuthorDTO{
			Username:  row.AuthorUsername,
			AvatarURL: uploads.PublicURL(baseURL, row.AuthorAvatarURL),
		},
	}
}
