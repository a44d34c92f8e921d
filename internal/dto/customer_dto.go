package dto

import (
	"time"

	"github.com/google/uuid"
)

// ── Request DTOs ─────────────────────────────────────────────────────────────

// CustomerRequest is used by both POST and PUT. Unlike users, the initial
// status comes from the request.
type CustomerRequest struct {
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
	Status    string  `json:"status"    validate:"required"`
}

// ── Response DTOs ────────────────────────────────────────────────────────────

type CustomerResponse struct {
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
	Status    string    `json:"status"`
	Active    bool      `json:"isActive"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// CustomerAuthResponse is returned by POST /api/customers/authenticate.
type CustomerAuthResponse struct {
	AccessToken string           `json:"accessToken"`
	TokenType   string           `json:"tokenType"`
	ExpiresIn   int              `json:"expiresIn"`
	Customer    CustomerResponse `json:"customer"`
}
