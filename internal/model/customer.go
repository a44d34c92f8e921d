package model

import (
	"time"

	"github.com/google/uuid"
)

// Customer mirrors User without a role and with a BLOCKED status
// variant. The source carried three divergent customer schemas; this is
// the canonical one.
type Customer struct {
	ID           uuid.UUID `gorm:"type:uuid;primaryKey"`
	RUN          string    `gorm:"column:run;not null"`
	FirstName    string    `gorm:"not null"`
	LastName     string    `gorm:"not null"`
	Email        string    `gorm:"not null"`
	PasswordHash string    `gorm:"not null"`
	Phone        *string
	Address      *string
	Region       *string
	Commune      *string
	BirthDate    *time.Time     `gorm:"type:date"`
	Status       CustomerStatus `gorm:"type:varchar(20);not null;default:'ACTIVE'"`
	Active       bool           `gorm:"not null;default:true"`
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

func (Customer) TableName() string { return "customers" }
