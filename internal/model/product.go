package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Product is a catalog item tied to exactly one category. SKU is unique
// case-insensitively (index on lower(sku), see infra.NewDatabase).
type Product struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey"`
	SKU         string    `gorm:"column:sku;not null"`
	Name        string    `gorm:"index;not null"`
	Description *string
	Price       decimal.Decimal `gorm:"type:decimal(10,2);not null"`
	Stock       int             `gorm:"not null;default:0"`
	// CriticalStock is the low-stock threshold; nil disables the alert.
	CriticalStock *int
	ImageURL      *string
	Status        ProductStatus `gorm:"type:varchar(20);not null;default:'ACTIVE'"`
	CategoryID    uuid.UUID     `gorm:"type:uuid;index;not null"`
	Active        bool          `gorm:"not null;default:true"`
	CreatedAt     time.Time
	UpdatedAt     time.Time

	Category *Category `gorm:"foreignKey:CategoryID"`
}

func (Product) TableName() string { return "products" }

// StockCritical is derived, never stored.
func (p Product) StockCritical() bool {
	return p.CriticalStock != nil && p.Stock <= *p.CriticalStock
}
