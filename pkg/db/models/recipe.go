package models

import (
	"time"

	dbtypes "github.com/feen1e/recipe-app-backend/pkg/db/types"
	"github.com/google/uuid"
)

// Recipe is an authored recipe. Ingredients and steps are ordered lists
// serialized as JSON columns.
type Recipe struct {
	ID          uuid.UUID          `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	AuthorID    uuid.UUID          `gorm:"column:author_id;type:uuid;not null;index:recipes_author_id_idx"`
	Title       string             `gorm:"column:title;type:text;not null"`
	Description *string            `gorm:"column:description"`
	Ingredients dbtypes.StringList `gorm:"column:ingredients;type:jsonb;not null"`
	Steps       dbtypes.StringList `gorm:"column:steps;type:jsonb;not null"`
	ImageURL    *string            `gorm:"column:image_url"`
	CreatedAt   time.Time          `gorm:"column:created_at;autoCreateTime;index:recipes_created_at_idx"`
	UpdatedAt   time.Time          `gorm:"column:updated_at;autoUpdateTime;index:recipes_updated_at_idx"`
}
