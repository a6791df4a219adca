package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Order is the header row for one placed order. Total and item snapshots
// are frozen at placement time and never recomputed from the catalog.
type Order struct {
	ID              int64           `json:"id" gorm:"primaryKey"`
	UserID          *int64          `json:"user_id,omitempty" gorm:"index"`
	Status          Status          `json:"status" gorm:"type:text;not null;default:pending"`
	Total           decimal.Decimal `json:"total" gorm:"type:numeric(14,2);not null"`
	ShippingAddress *string         `json:"shipping_address,omitempty" gorm:"column:shipping_address;type:text"`
	PointsAwarded   bool            `json:"points_awarded" gorm:"column:points_awarded;not null;default:false"`
	PaidAt          *time.Time      `json:"paid_at,omitempty" gorm:"column:paid_at"`
	CreatedAt       time.Time       `json:"created_at" gorm:"not null;default:CURRENT_TIMESTAMP"`
	UpdatedAt       time.Time       `json:"updated_at" gorm:"not null;default:CURRENT_TIMESTAMP"`
}

func (Order) TableName() string { return "orders" }

// OrderItem snapshots a product's name and price at placement time so a
// later catalog edit cannot change what the customer agreed to pay.
type OrderItem struct {
	ID        int64           `json:"id" gorm:"primaryKey"`
	OrderID   int64           `json:"order_id" gorm:"not null;index"`
	ProductID int64           `json:"product_id" gorm:"not null"`
	Name      string          `json:"name" gorm:"type:text;not null"`
	Price     decimal.Decimal `json:"price" gorm:"type:numeric(14,2);not null"`
	Qty       int             `json:"qty" gorm:"not null"`
}

func (OrderItem) TableName() string { return "order_items" }
