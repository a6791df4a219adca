package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Product is a sellable catalog entry. Deletion is a soft delete: the row
// stays so order item snapshots keep a valid reference.
type Product struct {
	ID        int64           `json:"id" gorm:"primaryKey"`
	Name      string          `json:"name" gorm:"type:text;not null"`
	Price     decimal.Decimal `json:"price" gorm:"type:numeric(14,2);not null"`
	Active    bool            `json:"is_active" gorm:"column:is_active;not null;default:true"`
	CreatedAt time.Time       `json:"created_at" gorm:"not null;default:CURRENT_TIMESTAMP"`
	UpdatedAt time.Time       `json:"updated_at" gorm:"not null;default:CURRENT_TIMESTAMP"`
}

func (Product) TableName() string { return "products" }
