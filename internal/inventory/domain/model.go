package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// MoveDirection is the direction of a stock movement.
type MoveDirection string

const (
	MoveIn  MoveDirection = "in"
	MoveOut MoveDirection = "out"
)

// Ingredient is a raw material tracked by quantity on hand. Quantity must
// never go negative; every change is mirrored by a StockMove row.
type Ingredient struct {
	ID        int64           `json:"id" gorm:"primaryKey"`
	Name      string          `json:"name" gorm:"type:text;not null"`
	Unit      string          `json:"unit" gorm:"type:text;not null"`
	QtyOnHand decimal.Decimal `json:"qty_on_hand" gorm:"column:qty_on_hand;type:numeric(14,3);not null"`
	MinLevel  decimal.Decimal `json:"min_level" gorm:"column:min_level;type:numeric(14,3);not null"`
	Active    bool            `json:"is_active" gorm:"column:is_active;not null;default:true"`
	CreatedAt time.Time       `json:"created_at" gorm:"not null;default:CURRENT_TIMESTAMP"`
	UpdatedAt time.Time       `json:"updated_at" gorm:"not null;default:CURRENT_TIMESTAMP"`
}

func (Ingredient) TableName() string { return "ingredients" }

// StockMove is an append-only ledger row for one inventory change. Quantity
// and direction are immutable once written; only the note may be rewritten,
// once, to attach the order reference that caused the move.
type StockMove struct {
	ID           int64           `json:"id" gorm:"primaryKey"`
	IngredientID int64           `json:"ingredient_id" gorm:"not null;index"`
	Direction    MoveDirection   `json:"type" gorm:"column:type;type:text;not null"`
	Qty          decimal.Decimal `json:"qty" gorm:"type:numeric(14,3);not null"`
	Note         *string         `json:"note,omitempty" gorm:"type:text;index"`
	CreatedAt    time.Time       `json:"created_at" gorm:"not null;default:CURRENT_TIMESTAMP"`
}

func (StockMove) TableName() string { return "stock_moves" }

// Recipe maps one product to the quantity of one ingredient consumed per
// unit sold. Read-only at order time.
type Recipe struct {
	ProductID    int64           `json:"product_id" gorm:"primaryKey;autoIncrement:false"`
	IngredientID int64           `json:"ingredient_id" gorm:"primaryKey;autoIncrement:false"`
	QtyPerUnit   decimal.Decimal `json:"qty_per_unit" gorm:"column:qty_per_unit;type:numeric(14,3);not null"`
}

func (Recipe) TableName() string { return "product_recipes" }
