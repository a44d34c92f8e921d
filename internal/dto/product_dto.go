package dto

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ── Request DTOs ─────────────────────────────────────────────────────────────

// ProductRequest is used by both POST and PUT.
type ProductRequest struct {
	SKU           string          `json:"sku"           validate:"required,min=2,max=50"`
	Name          string          `json:"name"          validate:"required,min=2,max=120"`
	Description   *string         `json:"description"`
	Price         decimal.Decimal `json:"price"         validate:"required"`
	Stock         int             `json:"stock"         validate:"min=0"`
	CriticalStock *int            `json:"criticalStock" validate:"omitempty,min=0"`
	ImageURL      *string         `json:"imageUrl"`
	Status        string          `json:"status"        validate:"required"`
	CategoryID    string          `json:"categoryId"    validate:"required,uuid"`
}

// Stock is a pointer so that an explicit 0 survives the required check.
type UpdateStockRequest struct {
	Stock *int `json:"stock" validate:"required,min=0"`
}

type UpdatePriceRequest struct {
	Price decimal.Decimal `json:"price" validate:"required,gt=0"`
}

type ChangeStatusRequest struct {
	Status string `json:"status" validate:"required"`
}

// ── Response DTOs ────────────────────────────────────────────────────────────

type ProductResponse struct {
	ID            uuid.UUID       `json:"id"`
	SKU           string          `json:"sku"`
	Name          string          `json:"name"`
	Description   *string         `json:"description,omitempty"`
	Price         decimal.Decimal `json:"price"`
	Stock         int             `json:"stock"`
	CriticalStock *int            `json:"criticalStock,omitempty"`
	ImageURL      *string         `json:"imageUrl,omitempty"`
	Status        string          `json:"status"`
	CategoryID    uuid.UUID       `json:"categoryId"`
	CategoryName  string          `json:"categoryName,omitempty"`
	StockCritical bool            `json:"isStockCritical"`
	Active        bool            `json:"isActive"`
	CreatedAt     time.Time       `json:"createdAt"`
	UpdatedAt     time.Time       `json:"updatedAt"`
}
