package service

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/glebarez/sqlite"
	"github.com/shopspring/decimal"
	catalogdomain "github.com/smallbiznis/brewhaus/internal/catalog/domain"
	invdomain "github.com/smallbiznis/brewhaus/internal/inventory/domain"
	loyaltydomain "github.com/smallbiznis/brewhaus/internal/loyalty/domain"
	loyaltyservice "github.com/smallbiznis/brewhaus/internal/loyalty/service"
	"github.com/smallbiznis/brewhaus/internal/order/domain"
	profiledomain "github.com/smallbiznis/brewhaus/internal/profile/domain"
	profilerepo "github.com/smallbiznis/brewhaus/internal/profile/repository"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type fixture struct {
	db      *gorm.DB
	node    *snowflake.Node
	svc     domain.Service
	loyalty loyaltydomain.Service
}

func setup(t *testing.T) *fixture {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	sqlDB.SetMaxIdleConns(1)

	require.NoError(t, db.AutoMigrate(
		&profiledomain.Profile{},
		&catalogdomain.Product{},
		&invdomain.Ingredient{},
		&invdomain.StockMove{},
		&invdomain.Recipe{},
		&domain.Order{},
		&domain.OrderItem{},
		&loyaltydomain.Entry{},
	))

	node, err := snowflake.NewNode(1)
	require.NoError(t, err)

	loyaltySvc := loyaltyservice.New(loyaltyservice.Params{
		DB:       db,
		Log:      zap.NewNop(),
		GenID:    node,
		Profiles: profilerepo.Provide(),
	})

	svc := New(Params{
		DB:      db,
		Log:     zap.NewNop(),
		GenID:   node,
		Loyalty: loyaltySvc,
	})

	return &fixture{db: db, node: node, svc: svc, loyalty: loyaltySvc}
}

func (f *fixture) seedProduct(t *testing.T, name string, price string) *catalogdomain.Product {
	t.Helper()
	p := &catalogdomain.Product{
		ID:        f.node.Generate().Int64(),
		Name:      name,
		Price:     mustDecimal(t, price),
		Active:    true,
		CreatedAt: time.Now().UTC(),
		UpdatedAt: time.Now().UTC(),
	}
	require.NoError(t, f.db.Create(p).Error)
	return p
}

func (f *fixture) seedIngredient(t *testing.T, name string, onHand string) *invdomain.Ingredient {
	t.Helper()
	ing := &invdomain.Ingredient{
		ID:        f.node.Generate().Int64(),
		Name:      name,
		Unit:      "g",
		QtyOnHand: mustDecimal(t, onHand),
		Active:    true,
		CreatedAt: time.Now().UTC(),
		UpdatedAt: time.Now().UTC(),
	}
	require.NoError(t, f.db.Create(ing).Error)
	return ing
}

func (f *fixture) seedRecipe(t *testing.T, productID, ingredientID int64, qtyPerUnit string) {
	t.Helper()
	require.NoError(t, f.db.Create(&invdomain.Recipe{
		ProductID:    productID,
		IngredientID: ingredientID,
		QtyPerUnit:   mustDecimal(t, qtyPerUnit),
	}).Error)
}

func (f *fixture) seedCustomer(t *testing.T, points int64) *profiledomain.Profile {
	t.Helper()
	p := &profiledomain.Profile{
		ID:           f.node.Generate().Int64(),
		Email:        fmt.Sprintf("user%d@test.local", f.node.Generate().Int64()),
		PasswordHash: "x",
		Role:         profiledomain.RoleCustomer,
		Points:       points,
		CreatedAt:    time.Now().UTC(),
		UpdatedAt:    time.Now().UTC(),
	}
	require.NoError(t, f.db.Create(p).Error)
	return p
}

func mustDecimal(t *testing.T, raw string) decimal.Decimal {
	t.Helper()
	d, err := decimal.NewFromString(raw)
	require.NoError(t, err)
	return d
}

func itemID(id int64) string { return fmt.Sprintf("%d", id) }

func TestPlaceOrder_Success(t *testing.T) {
	f := setup(t)
	ctx := context.Background()

	coffee := f.seedProduct(t, "Latte", "45000")
	beans := f.seedIngredient(t, "Coffee beans", "1000")
	milk := f.seedIngredient(t, "Milk", "2000")
	f.seedRecipe(t, coffee.ID, beans.ID, "18")
	f.seedRecipe(t, coffee.ID, milk.ID, "150")

	resp, err := f.svc.PlaceOrder(ctx, domain.PlaceOrderRequest{
		Items: []domain.PlaceOrderItem{{ProductID: itemID(coffee.ID), Qty: 2}},
	})
	require.NoError(t, err)
	assert.True(t, resp.OK)
	assert.True(t, mustDecimal(t, "90000").Equal(resp.Total))

	var order domain.Order
	require.NoError(t, f.db.First(&order, "id = ?", resp.OrderID).Error)
	assert.Equal(t, domain.StatusPending, order.Status)
	assert.False(t, order.PointsAwarded)
	assert.Nil(t, order.PaidAt)

	var items []domain.OrderItem
	require.NoError(t, f.db.Where("order_id = ?", order.ID).Find(&items).Error)
	require.Len(t, items, 1)
	assert.Equal(t, "Latte", items[0].Name)
	assert.True(t, mustDecimal(t, "45000").Equal(items[0].Price))
	assert.Equal(t, 2, items[0].Qty)

	var gotBeans invdomain.Ingredient
	require.NoError(t, f.db.First(&gotBeans, "id = ?", beans.ID).Error)
	assert.True(t, mustDecimal(t, "964").Equal(gotBeans.QtyOnHand), "got %s", gotBeans.QtyOnHand)

	var gotMilk invdomain.Ingredient
	require.NoError(t, f.db.First(&gotMilk, "id = ?", milk.ID).Error)
	assert.True(t, mustDecimal(t, "1700").Equal(gotMilk.QtyOnHand), "got %s", gotMilk.QtyOnHand)

	var moves []invdomain.StockMove
	require.NoError(t, f.db.Find(&moves).Error)
	require.Len(t, moves, 2)
	reference := fmt.Sprintf("Order #%d", order.ID)
	for _, move := range moves {
		assert.Equal(t, invdomain.MoveOut, move.Direction)
		require.NotNil(t, move.Note)
		assert.Equal(t, reference, *move.Note)
	}
}

func TestPlaceOrder_MergesDuplicateLines(t *testing.T) {
	f := setup(t)
	ctx := context.Background()

	tea := f.seedProduct(t, "Tea", "20000")
	leaves := f.seedIngredient(t, "Tea leaves", "100")
	f.seedRecipe(t, tea.ID, leaves.ID, "5")

	resp, err := f.svc.PlaceOrder(ctx, domain.PlaceOrderRequest{
		Items: []domain.PlaceOrderItem{
			{ProductID: itemID(tea.ID), Qty: 1},
			{ProductID: itemID(tea.ID), Qty: 2},
		},
	})
	require.NoError(t, err)
	assert.True(t, mustDecimal(t, "60000").Equal(resp.Total))

	var got invdomain.Ingredient
	require.NoError(t, f.db.First(&got, "id = ?", leaves.ID).Error)
	assert.True(t, mustDecimal(t, "85").Equal(got.QtyOnHand))
}

func TestPlaceOrder_InsufficientStock(t *testing.T) {
	f := setup(t)
	ctx := context.Background()

	coffee := f.seedProduct(t, "Espresso", "30000")
	beans := f.seedIngredient(t, "Coffee beans", "10")
	f.seedRecipe(t, coffee.ID, beans.ID, "18")

	_, err := f.svc.PlaceOrder(ctx, domain.PlaceOrderRequest{
		Items: []domain.PlaceOrderItem{{ProductID: itemID(coffee.ID), Qty: 1}},
	})
	require.Error(t, err)

	var insufficient *domain.InsufficientStockError
	require.ErrorAs(t, err, &insufficient)
	assert.Equal(t, "Coffee beans", insufficient.Ingredient)

	// Nothing committed.
	var got invdomain.Ingredient
	require.NoError(t, f.db.First(&got, "id = ?", beans.ID).Error)
	assert.True(t, mustDecimal(t, "10").Equal(got.QtyOnHand))

	var orderCount, moveCount int64
	require.NoError(t, f.db.Model(&domain.Order{}).Count(&orderCount).Error)
	require.NoError(t, f.db.Model(&invdomain.StockMove{}).Count(&moveCount).Error)
	assert.Zero(t, orderCount)
	assert.Zero(t, moveCount)
}

func TestPlaceOrder_UnknownProduct(t *testing.T) {
	f := setup(t)
	ctx := context.Background()

	_, err := f.svc.PlaceOrder(ctx, domain.PlaceOrderRequest{
		Items: []domain.PlaceOrderItem{{ProductID: "12345", Qty: 1}},
	})
	require.Error(t, err)

	var unknown *domain.UnknownProductError
	assert.ErrorAs(t, err, &unknown)
}

func TestPlaceOrder_InactiveProductRejected(t *testing.T) {
	f := setup(t)
	ctx := context.Background()

	p := f.seedProduct(t, "Retired blend", "10000")
	require.NoError(t, f.db.Model(&catalogdomain.Product{}).Where("id = ?", p.ID).Update("is_active", false).Error)

	_, err := f.svc.PlaceOrder(ctx, domain.PlaceOrderRequest{
		Items: []domain.PlaceOrderItem{{ProductID: itemID(p.ID), Qty: 1}},
	})

	var unknown *domain.UnknownProductError
	assert.ErrorAs(t, err, &unknown)
}

func TestPlaceOrder_Validation(t *testing.T) {
	f := setup(t)
	ctx := context.Background()

	_, err := f.svc.PlaceOrder(ctx, domain.PlaceOrderRequest{})
	assert.ErrorIs(t, err, domain.ErrEmptyItems)

	p := f.seedProduct(t, "Mocha", "50000")
	_, err = f.svc.PlaceOrder(ctx, domain.PlaceOrderRequest{
		Items: []domain.PlaceOrderItem{{ProductID: itemID(p.ID), Qty: 0}},
	})
	assert.ErrorIs(t, err, domain.ErrInvalidQty)
}

func TestPlaceOrder_SnapshotSurvivesCatalogEdit(t *testing.T) {
	f := setup(t)
	ctx := context.Background()

	p := f.seedProduct(t, "Cold brew", "40000")
	resp, err := f.svc.PlaceOrder(ctx, domain.PlaceOrderRequest{
		Items: []domain.PlaceOrderItem{{ProductID: itemID(p.ID), Qty: 1}},
	})
	require.NoError(t, err)

	require.NoError(t, f.db.Model(&catalogdomain.Product{}).Where("id = ?", p.ID).
		Updates(map[string]any{"name": "Cold Brew Deluxe", "price": "55000"}).Error)

	got, err := f.svc.Get(ctx, resp.OrderID)
	require.NoError(t, err)
	require.Len(t, got.Items, 1)
	assert.Equal(t, "Cold brew", got.Items[0].Name)
	assert.True(t, mustDecimal(t, "40000").Equal(got.Items[0].Price))
	assert.True(t, mustDecimal(t, "40000").Equal(got.Total))
}

func placeOrderForUser(t *testing.T, f *fixture, userID int64, price string) string {
	t.Helper()
	p := f.seedProduct(t, "Combo", price)
	resp, err := f.svc.PlaceOrder(context.Background(), domain.PlaceOrderRequest{
		UserID: &userID,
		Items:  []domain.PlaceOrderItem{{ProductID: itemID(p.ID), Qty: 1}},
	})
	require.NoError(t, err)
	return resp.OrderID
}

func advance(t *testing.T, f *fixture, orderID string, statuses ...string) *domain.OrderResponse {
	t.Helper()
	var last *domain.OrderResponse
	for _, status := range statuses {
		resp, err := f.svc.UpdateStatus(context.Background(), domain.UpdateStatusRequest{ID: orderID, Status: status})
		require.NoError(t, err)
		last = resp
	}
	return last
}

func TestUpdateStatus_DeliveredAccruesPoints(t *testing.T) {
	f := setup(t)
	user := f.seedCustomer(t, 0)
	orderID := placeOrderForUser(t, f, user.ID, "250000")

	resp := advance(t, f, orderID, "confirmed", "shipping", "delivered")
	assert.Equal(t, "delivered", resp.Status)
	assert.True(t, resp.PointsAwarded)
	assert.NotNil(t, resp.PaidAt)

	var profile profiledomain.Profile
	require.NoError(t, f.db.First(&profile, "id = ?", user.ID).Error)
	assert.Equal(t, int64(2), profile.Points)

	var entries []loyaltydomain.Entry
	require.NoError(t, f.db.Where("user_id = ?", user.ID).Find(&entries).Error)
	require.Len(t, entries, 1)
	assert.Equal(t, int64(2), entries[0].Delta)
}

func TestUpdateStatus_SmallTotalAwardsNoPoints(t *testing.T) {
	f := setup(t)
	user := f.seedCustomer(t, 0)
	orderID := placeOrderForUser(t, f, user.ID, "99999")

	resp := advance(t, f, orderID, "confirmed", "shipping", "delivered")
	assert.True(t, resp.PointsAwarded)

	var profile profiledomain.Profile
	require.NoError(t, f.db.First(&profile, "id = ?", user.ID).Error)
	assert.Zero(t, profile.Points)

	var count int64
	require.NoError(t, f.db.Model(&loyaltydomain.Entry{}).Count(&count).Error)
	assert.Zero(t, count)
}

func TestUpdateStatus_AnonymousOrderAwardsNothing(t *testing.T) {
	f := setup(t)
	p := f.seedProduct(t, "Americano", "300000")

	resp, err := f.svc.PlaceOrder(context.Background(), domain.PlaceOrderRequest{
		Items: []domain.PlaceOrderItem{{ProductID: itemID(p.ID), Qty: 1}},
	})
	require.NoError(t, err)

	got := advance(t, f, resp.OrderID, "confirmed", "shipping", "delivered")
	assert.False(t, got.PointsAwarded)

	var count int64
	require.NoError(t, f.db.Model(&loyaltydomain.Entry{}).Count(&count).Error)
	assert.Zero(t, count)
}

func TestUpdateStatus_RejectsInvalidTransition(t *testing.T) {
	f := setup(t)
	user := f.seedCustomer(t, 0)
	orderID := placeOrderForUser(t, f, user.ID, "100000")

	_, err := f.svc.UpdateStatus(context.Background(), domain.UpdateStatusRequest{ID: orderID, Status: "delivered"})
	var invalid *domain.InvalidTransitionError
	require.ErrorAs(t, err, &invalid)
	assert.Equal(t, domain.StatusPending, invalid.From)
	assert.Equal(t, domain.StatusDelivered, invalid.To)

	_, err = f.svc.UpdateStatus(context.Background(), domain.UpdateStatusRequest{ID: orderID, Status: "brewed"})
	assert.ErrorIs(t, err, domain.ErrInvalidStatus)

	_, err = f.svc.UpdateStatus(context.Background(), domain.UpdateStatusRequest{ID: orderID, Status: "pending"})
	assert.ErrorIs(t, err, domain.ErrInvalidStatus)
}

func TestUpdateStatus_TerminalStatesAreFinal(t *testing.T) {
	f := setup(t)
	user := f.seedCustomer(t, 0)

	cancelled := placeOrderForUser(t, f, user.ID, "100000")
	advance(t, f, cancelled, "cancelled")
	_, err := f.svc.UpdateStatus(context.Background(), domain.UpdateStatusRequest{ID: cancelled, Status: "confirmed"})
	var invalid *domain.InvalidTransitionError
	assert.ErrorAs(t, err, &invalid)

	paid := placeOrderForUser(t, f, user.ID, "100000")
	advance(t, f, paid, "confirmed", "paid")
	_, err = f.svc.UpdateStatus(context.Background(), domain.UpdateStatusRequest{ID: paid, Status: "cancelled"})
	assert.ErrorAs(t, err, &invalid)
}

func TestUpdateStatus_PaidAtStampedOnce(t *testing.T) {
	f := setup(t)
	user := f.seedCustomer(t, 0)
	orderID := placeOrderForUser(t, f, user.ID, "150000")

	delivered := advance(t, f, orderID, "confirmed", "shipping", "delivered")
	require.NotNil(t, delivered.PaidAt)
	stamped := *delivered.PaidAt

	paid := advance(t, f, orderID, "paid")
	require.NotNil(t, paid.PaidAt)
	assert.Equal(t, stamped.Unix(), paid.PaidAt.Unix())
}

func TestUpdateStatus_NotFound(t *testing.T) {
	f := setup(t)

	_, err := f.svc.UpdateStatus(context.Background(), domain.UpdateStatusRequest{ID: "999", Status: "confirmed"})
	assert.ErrorIs(t, err, domain.ErrNotFound)

	_, err = f.svc.UpdateStatus(context.Background(), domain.UpdateStatusRequest{ID: "abc", Status: "confirmed"})
	assert.ErrorIs(t, err, domain.ErrInvalidID)
}

func TestListByUser(t *testing.T) {
	f := setup(t)
	user := f.seedCustomer(t, 0)
	other := f.seedCustomer(t, 0)

	placeOrderForUser(t, f, user.ID, "100000")
	placeOrderForUser(t, f, user.ID, "200000")
	placeOrderForUser(t, f, other.ID, "300000")

	orders, err := f.svc.ListByUser(context.Background(), user.ID)
	require.NoError(t, err)
	require.Len(t, orders, 2)
	for _, o := range orders {
		require.Len(t, o.Items, 1)
	}
}
