package models

import (
	"time"

	"github.com/google/uuid"
)

// Collection is a user-owned grouping of recipes.
type Collection struct {
	ID          uuid.UUID `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	UserID      uuid.UUID `gorm:"column:user_id;type:uuid;not null;index:collections_user_id_idx"`
	Name        string    `gorm:"column:name;type:text;not null"`
	Description *string   `gorm:"column:description"`
	CreatedAt   time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt   time.Time `gorm:"column:updated_at;autoUpdateTime"`
}
