package domain

import (
	"context"

	"gorm.io/gorm"
)

type ListFilter struct {
	Query  string
	Active *bool
}

type MovesFilter struct {
	IngredientID int64
	Limit        int
}

type Repository interface {
	CreateIngredient(ctx context.Context, db *gorm.DB, ing *Ingredient) error
	FindIngredientByID(ctx context.Context, db *gorm.DB, id int64) (*Ingredient, error)
	ListIngredients(ctx context.Context, db *gorm.DB, filter ListFilter) ([]Ingredient, error)
	UpdateIngredient(ctx context.Context, db *gorm.DB, ing *Ingredient) error
	CreateMove(ctx context.Context, db *gorm.DB, move *StockMove) error
	ListMoves(ctx context.Context, db *gorm.DB, filter MovesFilter) ([]StockMove, error)
	FindRecipe(ctx context.Context, db *gorm.DB, productID int64) ([]Recipe, error)
	ReplaceRecipe(ctx context.Context, db *gorm.DB, productID int64, rows []Recipe) error
}
