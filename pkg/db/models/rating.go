package models

import (
	"time"

	"github.com/google/uuid"
)

// Rating is a user's star rating of a recipe. There is deliberately no unique
// constraint on (user_id, recipe_id); a user may rate the same recipe more
// than once.
type Rating struct {
	ID        uuid.UUID `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	UserID    uuid.UUID `gorm:"column:user_id;type:uuid;not null;index:ratings_user_id_idx"`
	RecipeID  uuid.UUID `gorm:"column:recipe_id;type:uuid;not null;index:ratings_recipe_id_idx"`
	Stars     int       `gorm:"column:stars;not null"`
	Review    *string   `gorm:"column:review"`
	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt time.Time `gorm:"column:updated_at;autoUpdateTime"`
}
