package model

import (
	"time"

	"github.com/google/uuid"
)

// Category classifies products. Name is unique case-insensitively; the
// backing index on lower(name) is created in infra.NewDatabase.
type Category struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey"`
	Name        string    `gorm:"not null"`
	Description *string
	Active      bool `gorm:"not null;default:true"`
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

func (Category) TableName() string { return "categories" }
