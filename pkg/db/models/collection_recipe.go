package models

import (
	"time"

	"github.com/google/uuid"
)

// CollectionRecipe links a recipe into a collection; a recipe appears at most
// once per collection.
type CollectionRecipe struct {
	ID           uuid.UUID `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	CollectionID uuid.UUID `gorm:"column:collection_id;type:uuid;not null;index:collection_recipes_collection_id_idx;uniqueIndex:collection_recipes_collection_recipe_key"`
	RecipeID     uuid.UUID `gorm:"column:recipe_id;type:uuid;not null;index:collection_recipes_recipe_id_idx;uniqueIndex:collection_recipes_collection_recipe_key"`
	CreatedAt    time.Time `gorm:"column:created_at;autoCreateTime"`
}
