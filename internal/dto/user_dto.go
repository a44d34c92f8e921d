package dto

import (
	"time"

	"github.com/google/uuid"
)

// ── Request DTOs ─────────────────────────────────────────────────────────────

// UserRequest is used by both POST and PUT. BirthDate travels as an ISO
// date string and is parsed in the service.
type UserRequest struct {
	RUN       string  `json:"run"       validate:"required,min=8,max=10"`
	FirstName string  `json:"firstName" validate:"required,max=50"`
	LastName  string  `json:"lastName"  validate:"required,max=100"`
	Email     string  `json:"email"     validate:"required,email,max=100"`
	Password  string  `json:"password"  validate:"required,min=6"`
	Phone     *string `json:"phone"`
	Address   *string `json:"address"   validate:"omitempty,max=300"`
	Region    *string `json:"region"    validate:"omitempty,max=100"`
	Commune   *string `json:"commune"   validate:"omitempty,max=100"`
	BirthDate *string `json:"birthDate" validate:"omitempty,datetime=2006-01-02"`
	Role      string  `json:"role"      validate:"required"`
}

type ChangePasswordRequest struct {
	NewPassword string `json:"newPassword" validate:"required,min=6"`
}

type AuthenticateRequest struct {
	Email    string `json:"email"    validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// ── Response DTOs ────────────────────────────────────────────────────────────

// UserResponse never carries password material.
type UserResponse struct {
	ID        uuid.UUID `json:"id"`
	RUN       string    `json:"run"`
	FirstName string    `json:"firstName"`
	LastName  string    `json:"lastName"`
	Email     string    `json:"email"`
	Phone     *string   `json:"phone,omitempty"`
	Address   *string   `json:"address,omitempty"`
	Region    *string   `json:"region,omitempty"`
	Commune   *string   `json:"commune,omitempty"`
	BirthDate *string   `json:"birthDate,omitempty"`
	Role      string    `json:"role"`
	Status    string    `json:"status"`
	Active    bool      `json:"isActive"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// AuthResponse is returned by POST /authenticate.
type AuthResponse struct {
	AccessToken string       `json:"accessToken"`
	TokenType   string       `json:"tokenType"`
	ExpiresIn   int          `json:"expiresIn"`
	User        UserResponse `json:"user"`
}
