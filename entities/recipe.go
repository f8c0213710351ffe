package entities

import (
	"github.com/google/uuid"
	"github.com/lib/pq"
)

type Recipe struct {
	ID           uuid.UUID      `gorm:"type:uuid;primary_key;default:uuid_generate_v4()" json:"id"`
	Title        string         `json:"title"`
	Category     string         `json:"category"`
	Instructions pq.StringArray `gorm:"type:text[]" json:"instructions"`
	Ingredients  pq.StringArray `gorm:"type:text[]" json:"ingredients"`
	Image        string         `json:"image"`
	Views        int64          `gorm:"default:0" json:"views"`

	Timestamp
}
