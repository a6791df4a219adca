package service

import (
	"context"
	"fmt"
	"testing"

	"github.com/bwmarrin/snowflake"
	"github.com/glebarez/sqlite"
	"github.com/shopspring/decimal"
	"github.com/smallbiznis/brewhaus/internal/inventory/domain"
	"github.com/smallbiznis/brewhaus/internal/inventory/repository"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

func setup(t *testing.T) (domain.Service, *gorm.DB) {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	sqlDB.SetMaxIdleConns(1)

	require.NoError(t, db.AutoMigrate(&domain.Ingredient{}, &domain.StockMove{}, &domain.Recipe{}))

	node, err := snowflake.NewNode(1)
	require.NoError(t, err)

	svc := New(Params{
		DB:    db,
		Log:   zap.NewNop(),
		GenID: node,
		Repo:  repository.Provide(),
	})
	return svc, db
}

func dec(t *testing.T, raw string) *decimal.Decimal {
	t.Helper()
	d, err := decimal.NewFromString(raw)
	require.NoError(t, err)
	return &d
}

func TestCreateIngredient(t *testing.T) {
	svc, _ := setup(t)
	ctx := context.Background()

	resp, err := svc.CreateIngredient(ctx, domain.CreateIngredientRequest{
		Name:      "  Coffee beans  ",
		Unit:      "g",
		QtyOnHand: dec(t, "500"),
	})
	require.NoError(t, err)
	assert.Equal(t, "Coffee beans", resp.Name)
	assert.Equal(t, "g", resp.Unit)
	assert.True(t, resp.Active)
	assert.True(t, dec(t, "500").Equal(resp.QtyOnHand))

	// Unit falls back to a default when omitted.
	resp, err = svc.CreateIngredient(ctx, domain.CreateIngredientRequest{Name: "Sugar"})
	require.NoError(t, err)
	assert.Equal(t, "unit", resp.Unit)
	assert.True(t, resp.QtyOnHand.IsZero())

	_, err = svc.CreateIngredient(ctx, domain.CreateIngredientRequest{Name: "   "})
	assert.ErrorIs(t, err, domain.ErrInvalidName)

	_, err = svc.CreateIngredient(ctx, domain.CreateIngredientRequest{Name: "Salt", QtyOnHand: dec(t, "-1")})
	assert.ErrorIs(t, err, domain.ErrNegativeQuantity)
}

func TestMove_InAndOut(t *testing.T) {
	svc, db := setup(t)
	ctx := context.Background()

	ing, err := svc.CreateIngredient(ctx, domain.CreateIngredientRequest{
		Name:      "Milk",
		Unit:      "ml",
		QtyOnHand: dec(t, "100"),
	})
	require.NoError(t, err)

	in, err := svc.Move(ctx, domain.MoveRequest{
		IngredientID: ing.ID,
		Direction:    "in",
		Qty:          dec(t, "50"),
	})
	require.NoError(t, err)
	assert.True(t, dec(t, "150").Equal(in.QtyAfter))

	out, err := svc.Move(ctx, domain.MoveRequest{
		IngredientID: ing.ID,
		Direction:    "out",
		Qty:          dec(t, "30"),
	})
	require.NoError(t, err)
	assert.True(t, dec(t, "120").Equal(out.QtyAfter))

	var moves []domain.StockMove
	require.NoError(t, db.Order("created_at").Find(&moves).Error)
	require.Len(t, moves, 2)
	assert.Equal(t, domain.MoveIn, moves[0].Direction)
	assert.Equal(t, domain.MoveOut, moves[1].Direction)
}

func TestMove_RejectsBelowZero(t *testing.T) {
	svc, db := setup(t)
	ctx := context.Background()

	ing, err := svc.CreateIngredient(ctx, domain.CreateIngredientRequest{
		Name:      "Cocoa",
		Unit:      "g",
		QtyOnHand: dec(t, "20"),
	})
	require.NoError(t, err)

	_, err = svc.Move(ctx, domain.MoveRequest{
		IngredientID: ing.ID,
		Direction:    "out",
		Qty:          dec(t, "25"),
	})
	assert.ErrorIs(t, err, domain.ErrNegativeQuantity)

	// The failed move leaves no ledger row and no quantity change.
	var count int64
	require.NoError(t, db.Model(&domain.StockMove{}).Count(&count).Error)
	assert.Zero(t, count)

	list, err := svc.ListIngredients(ctx, domain.ListRequest{})
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.True(t, dec(t, "20").Equal(list[0].QtyOnHand))
}

func TestMove_Validation(t *testing.T) {
	svc, _ := setup(t)
	ctx := context.Background()

	_, err := svc.Move(ctx, domain.MoveRequest{IngredientID: "abc", Direction: "in", Qty: dec(t, "1")})
	assert.ErrorIs(t, err, domain.ErrInvalidID)

	_, err = svc.Move(ctx, domain.MoveRequest{IngredientID: "1", Direction: "sideways", Qty: dec(t, "1")})
	assert.ErrorIs(t, err, domain.ErrInvalidMove)

	_, err = svc.Move(ctx, domain.MoveRequest{IngredientID: "1", Direction: "in", Qty: dec(t, "0")})
	assert.ErrorIs(t, err, domain.ErrInvalidMove)

	_, err = svc.Move(ctx, domain.MoveRequest{IngredientID: "999", Direction: "in", Qty: dec(t, "1")})
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestUpdateIngredient(t *testing.T) {
	svc, _ := setup(t)
	ctx := context.Background()

	ing, err := svc.CreateIngredient(ctx, domain.CreateIngredientRequest{Name: "Vanilla", Unit: "ml"})
	require.NoError(t, err)

	_, err = svc.UpdateIngredient(ctx, domain.UpdateIngredientRequest{ID: ing.ID})
	assert.ErrorIs(t, err, domain.ErrNothingToSet)

	name := "Vanilla extract"
	updated, err := svc.UpdateIngredient(ctx, domain.UpdateIngredientRequest{ID: ing.ID, Name: &name})
	require.NoError(t, err)
	assert.Equal(t, "Vanilla extract", updated.Name)
	assert.Equal(t, "ml", updated.Unit)

	deactivated, err := svc.DeactivateIngredient(ctx, ing.ID)
	require.NoError(t, err)
	assert.False(t, deactivated.Active)
}

func TestReplaceRecipe(t *testing.T) {
	svc, db := setup(t)
	ctx := context.Background()

	a, err := svc.CreateIngredient(ctx, domain.CreateIngredientRequest{Name: "Beans", Unit: "g"})
	require.NoError(t, err)
	b, err := svc.CreateIngredient(ctx, domain.CreateIngredientRequest{Name: "Water", Unit: "ml"})
	require.NoError(t, err)

	productID := "777"
	lines := []domain.RecipeLine{
		{IngredientID: a.ID, QtyPerUnit: *dec(t, "18")},
		{IngredientID: b.ID, QtyPerUnit: *dec(t, "200")},
	}
	_, err = svc.ReplaceRecipe(ctx, productID, lines)
	require.NoError(t, err)

	got, err := svc.GetRecipe(ctx, productID)
	require.NoError(t, err)
	assert.Len(t, got, 2)

	// Replacing swaps the whole recipe.
	_, err = svc.ReplaceRecipe(ctx, productID, lines[:1])
	require.NoError(t, err)

	var count int64
	require.NoError(t, db.Model(&domain.Recipe{}).Where("product_id = ?", 777).Count(&count).Error)
	assert.Equal(t, int64(1), count)

	// Duplicate ingredient rows are rejected.
	_, err = svc.ReplaceRecipe(ctx, productID, []domain.RecipeLine{
		{IngredientID: a.ID, QtyPerUnit: *dec(t, "1")},
		{IngredientID: a.ID, QtyPerUnit: *dec(t, "2")},
	})
	assert.ErrorIs(t, err, domain.ErrInvalidRecipe)

	_, err = svc.ReplaceRecipe(ctx, productID, []domain.RecipeLine{
		{IngredientID: b.ID, QtyPerUnit: *dec(t, "0")},
	})
	assert.ErrorIs(t, err, domain.ErrInvalidRecipe)
}
