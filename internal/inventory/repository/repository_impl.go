package repository

import (
	"context"
	"strings"

	"github.com/smallbiznis/brewhaus/internal/inventory/domain"
	"gorm.io/gorm"
)

type repo struct{}

func Provide() domain.Repository {
	return &repo{}
}

func (r *repo) CreateIngredient(ctx context.Context, db *gorm.DB, ing *domain.Ingredient) error {
	return db.WithContext(ctx).Create(ing).Error
}

func (r *repo) FindIngredientByID(ctx context.Context, db *gorm.DB, id int64) (*domain.Ingredient, error) {
	var ing domain.Ingredient
	err := db.WithContext(ctx).First(&ing, "id = ?", id).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, err
	}
	return &ing, nil
}

func (r *repo) ListIngredients(ctx context.Context, db *gorm.DB, filter domain.ListFilter) ([]domain.Ingredient, error) {
	stmt := db.WithContext(ctx).Model(&domain.Ingredient{})

	if q := strings.TrimSpace(filter.Query); q != "" {
		like := "%" + strings.ToLower(q) + "%"
		stmt = stmt.Where("lower(name) LIKE ? OR lower(unit) LIKE ?", like, like)
	}
	if filter.Active != nil {
		stmt = stmt.Where("is_active = ?", *filter.Active)
	}

	var items []domain.Ingredient
	if err := stmt.Order("created_at DESC").Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}

func (r *repo) UpdateIngredient(ctx context.Context, db *gorm.DB, ing *domain.Ingredient) error {
	if ing == nil {
		return gorm.ErrInvalidData
	}
	return db.WithContext(ctx).Exec(
		`UPDATE ingredients
		 SET name = ?, unit = ?, qty_on_hand = ?, min_level = ?, is_active = ?, updated_at = ?
		 WHERE id = ?`,
		ing.Name,
		ing.Unit,
		ing.QtyOnHand,
		ing.MinLevel,
		ing.Active,
		ing.UpdatedAt,
		ing.ID,
	).Error
}

func (r *repo) CreateMove(ctx context.Context, db *gorm.DB, move *domain.StockMove) error {
	return db.WithContext(ctx).Create(move).Error
}

func (r *repo) ListMoves(ctx context.Context, db *gorm.DB, filter domain.MovesFilter) ([]domain.StockMove, error) {
	stmt := db.WithContext(ctx).Model(&domain.StockMove{})
	if filter.IngredientID != 0 {
		stmt = stmt.Where("ingredient_id = ?", filter.IngredientID)
	}
	limit := filter.Limit
	if limit <= 0 || limit > 500 {
		limit = 50
	}

	var moves []domain.StockMove
	if err := stmt.Order("created_at DESC").Limit(limit).Find(&moves).Error; err != nil {
		return nil, err
	}
	return moves, nil
}

func (r *repo) FindRecipe(ctx context.Context, db *gorm.DB, productID int64) ([]domain.Recipe, error) {
	var rows []domain.Recipe
	err := db.WithContext(ctx).Where("product_id = ?", productID).Find(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *repo) ReplaceRecipe(ctx context.Context, db *gorm.DB, productID int64, rows []domain.Recipe) error {
	return db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Exec(`DELETE FROM product_recipes WHERE product_id = ?`, productID).Error; err != nil {
			return err
		}
		if len(rows) == 0 {
			return nil
		}
		return tx.Create(&rows).Error
	})
}
