package model

import (
	"time"

	"github.com/google/uuid"
)

// User is a back-office account (ADMIN or SELLER). RUN and Email are
// unique case-insensitively. PasswordHash holds a bcrypt hash and is
// never serialized into responses.
type User struct {
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
	BirthDate    *time.Time `gorm:"type:date"`
	Role         UserRole   `gorm:"type:varchar(20);not null"`
	Status       UserStatus `gorm:"type:varchar(20);not null;default:'ACTIVE'"`
	Active       bool       `gorm:"not null;default:true"`
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

func (User) TableName() string { return "users" }
