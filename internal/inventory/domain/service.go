package domain

import (
	"context"
	"errors"
	"time"

	"github.com/shopspring/decimal"
)

type Service interface {
	ListIngredients(ctx context.Context, req ListRequest) ([]IngredientResponse, error)
	CreateIngredient(ctx context.Context, req CreateIngredientRequest) (*IngredientResponse, error)
	UpdateIngredient(ctx context.Context, req UpdateIngredientRequest) (*IngredientResponse, error)
	DeactivateIngredient(ctx context.Context, id string) (*IngredientResponse, error)
	Move(ctx context.Context, req MoveRequest) (*MoveResponse, error)
	ListMoves(ctx context.Context, req ListMovesRequest) ([]StockMoveResponse, error)
	GetRecipe(ctx context.Context, productID string) ([]RecipeLine, error)
	ReplaceRecipe(ctx context.Context, productID string, lines []RecipeLine) ([]RecipeLine, error)
}

type ListRequest struct {
	Query  string
	Active *bool
}

type CreateIngredientRequest struct {
	Name      string           `json:"name"`
	Unit      string           `json:"unit"`
	MinLevel  *decimal.Decimal `json:"min_level"`
	QtyOnHand *decimal.Decimal `json:"qty_on_hand"`
}

type UpdateIngredientRequest struct {
	ID        string
	Name      *string          `json:"name"`
	Unit      *string          `json:"unit"`
	MinLevel  *decimal.Decimal `json:"min_level"`
	QtyOnHand *decimal.Decimal `json:"qty_on_hand"`
	Active    *bool            `json:"is_active"`
}

type MoveRequest struct {
	IngredientID string           `json:"ingredient_id"`
	Direction    string           `json:"type"`
	Qty          *decimal.Decimal `json:"qty"`
	Note         *string          `json:"note"`
}

type ListMovesRequest struct {
	IngredientID string
	Limit        int
}

type IngredientResponse struct {
	ID        string          `json:"id"`
	Name      string          `json:"name"`
	Unit      string          `json:"unit"`
	QtyOnHand decimal.Decimal `json:"qty_on_hand"`
	MinLevel  decimal.Decimal `json:"min_level"`
	Active    bool            `json:"is_active"`
	CreatedAt time.Time       `json:"created_at"`
	UpdatedAt time.Time       `json:"updated_at"`
}

type MoveResponse struct {
	Ingredient IngredientResponse `json:"ingredient"`
	QtyAfter   decimal.Decimal    `json:"qty_after"`
}

type StockMoveResponse struct {
	ID           string          `json:"id"`
	IngredientID string          `json:"ingredient_id"`
	Direction    string          `json:"type"`
	Qty          decimal.Decimal `json:"qty"`
	Note         *string         `json:"note,omitempty"`
	CreatedAt    time.Time       `json:"created_at"`
}

type RecipeLine struct {
	IngredientID string          `json:"ingredient_id"`
	QtyPerUnit   decimal.Decimal `json:"qty_per_unit"`
}

var (
	ErrInvalidName      = errors.New("invalid_name")
	ErrInvalidUnit      = errors.New("invalid_unit")
	ErrInvalidID        = errors.New("invalid_id")
	ErrInvalidMove      = errors.New("invalid_move")
	ErrInvalidRecipe    = errors.New("invalid_recipe")
	ErrNothingToSet     = errors.New("nothing_to_update")
	ErrNotFound         = errors.New("not_found")
	ErrNegativeQuantity = errors.New("insufficient_on_hand")
)
