package service

import (
	"context"
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	catalogdomain "github.com/smallbiznis/brewhaus/internal/catalog/domain"
	invdomain "github.com/smallbiznis/brewhaus/internal/inventory/domain"
	loyaltydomain "github.com/smallbiznis/brewhaus/internal/loyalty/domain"
	"github.com/smallbiznis/brewhaus/internal/observability/metrics"
	"github.com/smallbiznis/brewhaus/internal/order/domain"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// pointsPerUnit is the revenue needed to earn one loyalty point.
var pointsPerUnit = decimal.NewFromInt(100000)

type Params struct {
	fx.In

	DB      *gorm.DB
	Log     *zap.Logger
	GenID   *snowflake.Node
	Loyalty loyaltydomain.Service
	Metrics *metrics.Metrics `optional:"true"`
}

type Service struct {
	db      *gorm.DB
	log     *zap.Logger
	genID   *snowflake.Node
	loyalty loyaltydomain.Service
	metrics *metrics.Metrics
}

func New(p Params) domain.Service {
	return &Service{
		db:      p.DB,
		log:     p.Log.Named("order.service"),
		genID:   p.GenID,
		loyalty: p.Loyalty,
		metrics: p.Metrics,
	}
}

func (s *Service) PlaceOrder(ctx context.Context, req domain.PlaceOrderRequest) (*domain.PlaceOrderResponse, error) {
	if len(req.Items) == 0 {
		return nil, domain.ErrEmptyItems
	}

	qtyByProduct := make(map[int64]int, len(req.Items))
	productIDs := make([]int64, 0, len(req.Items))
	for _, item := range req.Items {
		if item.Qty <= 0 {
			return nil, domain.ErrInvalidQty
		}
		id, err := strconv.ParseInt(strings.TrimSpace(item.ProductID), 10, 64)
		if err != nil {
			return nil, &domain.UnknownProductError{ProductID: item.ProductID}
		}
		if _, ok := qtyByProduct[id]; !ok {
			productIDs = append(productIDs, id)
		}
		qtyByProduct[id] += item.Qty
	}

	var resp domain.PlaceOrderResponse
	var deducted []string
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var products []catalogdomain.Product
		if err := tx.Where("id IN ? AND is_active = ?", productIDs, true).Find(&products).Error; err != nil {
			return err
		}
		productByID := make(map[int64]*catalogdomain.Product, len(products))
		for i := range products {
			productByID[products[i].ID] = &products[i]
		}
		for _, id := range productIDs {
			if productByID[id] == nil {
				return &domain.UnknownProductError{ProductID: strconv.FormatInt(id, 10)}
			}
		}

		var recipes []invdomain.Recipe
		if err := tx.Where("product_id IN ?", productIDs).Find(&recipes).Error; err != nil {
			return err
		}

		needs := make(map[int64]decimal.Decimal)
		for _, recipe := range recipes {
			qty := decimal.NewFromInt(int64(qtyByProduct[recipe.ProductID]))
			need := recipe.QtyPerUnit.Mul(qty)
			needs[recipe.IngredientID] = needs[recipe.IngredientID].Add(need)
		}

		ingredientIDs := make([]int64, 0, len(needs))
		for id := range needs {
			ingredientIDs = append(ingredientIDs, id)
		}
		// Stable lock order across concurrent orders.
		sort.Slice(ingredientIDs, func(i, j int) bool { return ingredientIDs[i] < ingredientIDs[j] })

		ingredientByID := make(map[int64]*invdomain.Ingredient, len(ingredientIDs))
		if len(ingredientIDs) > 0 {
			stmt := tx.Where("id IN ?", ingredientIDs)
			if tx.Dialector.Name() == "postgres" {
				stmt = stmt.Clauses(clause.Locking{Strength: "UPDATE"})
			}
			var ingredients []invdomain.Ingredient
			if err := stmt.Find(&ingredients).Error; err != nil {
				return err
			}
			for i := range ingredients {
				ingredientByID[ingredients[i].ID] = &ingredients[i]
			}
		}

		for _, id := range ingredientIDs {
			ing := ingredientByID[id]
			if ing == nil {
				return &domain.InsufficientStockError{Ingredient: strconv.FormatInt(id, 10)}
			}
			if ing.QtyOnHand.LessThan(needs[id]) {
				return &domain.InsufficientStockError{Ingredient: ing.Name}
			}
		}

		// Correlates the stock moves with the order before its ID exists.
		token := uuid.NewString()
		now := time.Now().UTC()
		deducted = deducted[:0]
		for _, id := range ingredientIDs {
			ing := ingredientByID[id]
			ing.QtyOnHand = ing.QtyOnHand.Sub(needs[id])
			if err := tx.Exec(
				`UPDATE ingredients SET qty_on_hand = ?, updated_at = ? WHERE id = ?`,
				ing.QtyOnHand, now, ing.ID,
			).Error; err != nil {
				return err
			}

			note := token
			move := &invdomain.StockMove{
				ID:           s.genID.Generate().Int64(),
				IngredientID: ing.ID,
				Direction:    invdomain.MoveOut,
				Qty:          needs[id],
				Note:         &note,
				CreatedAt:    now,
			}
			if err := tx.Create(move).Error; err != nil {
				return err
			}
			deducted = append(deducted, ing.Name)
		}

		total := decimal.Zero
		for _, id := range productIDs {
			product := productByID[id]
			total = total.Add(product.Price.Mul(decimal.NewFromInt(int64(qtyByProduct[id]))))
		}
		total = total.Round(2)

		order := &domain.Order{
			ID:              s.genID.Generate().Int64(),
			UserID:          req.UserID,
			Status:          domain.StatusPending,
			Total:           total,
			ShippingAddress: req.ShippingAddress,
			CreatedAt:       now,
			UpdatedAt:       now,
		}
		if err := tx.Create(order).Error; err != nil {
			return err
		}

		items := make([]domain.OrderItem, 0, len(productIDs))
		for _, id := range productIDs {
			product := productByID[id]
			items = append(items, domain.OrderItem{
				ID:        s.genID.Generate().Int64(),
				OrderID:   order.ID,
				ProductID: product.ID,
				Name:      product.Name,
				Price:     product.Price,
				Qty:       qtyByProduct[id],
			})
		}
		if err := tx.Create(&items).Error; err != nil {
			return err
		}

		reference := fmt.Sprintf("Order #%d", order.ID)
		if err := tx.Exec(
			`UPDATE stock_moves SET note = ? WHERE note = ?`,
			reference, token,
		).Error; err != nil {
			return err
		}

		resp = domain.PlaceOrderResponse{
			OK:      true,
			OrderID: strconv.FormatInt(order.ID, 10),
			Total:   total,
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.metrics.RecordOrderPlaced()
	for _, name := range deducted {
		s.metrics.RecordStockDeduction(name)
	}
	s.log.Info("order placed",
		zap.String("order_id", resp.OrderID),
		zap.String("total", resp.Total.String()),
		zap.Int("items", len(req.Items)),
	)
	return &resp, nil
}

func (s *Service) UpdateStatus(ctx context.Context, req domain.UpdateStatusRequest) (*domain.OrderResponse, error) {
	orderID, err := parseID(req.ID)
	if err != nil {
		return nil, domain.ErrInvalidID
	}

	next := domain.Status(strings.TrimSpace(req.Status))
	if !next.Valid() || next == domain.StatusPending {
		return nil, domain.ErrInvalidStatus
	}

	var order domain.Order
	var accruePoints int64
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&order, "id = ?", orderID).Error; err != nil {
			if err == gorm.ErrRecordNotFound {
				return domain.ErrNotFound
			}
			return err
		}

		if !order.Status.CanTransitionTo(next) {
			return &domain.InvalidTransitionError{From: order.Status, To: next}
		}

		now := time.Now().UTC()
		order.Status = next
		order.UpdatedAt = now
		if (next == domain.StatusDelivered || next == domain.StatusPaid) && order.PaidAt == nil {
			order.PaidAt = &now
		}
		if next == domain.StatusDelivered && !order.PointsAwarded && order.UserID != nil {
			accruePoints = order.Total.Div(pointsPerUnit).Floor().IntPart()
			order.PointsAwarded = true
		}

		return tx.Exec(
			`UPDATE orders SET status = ?, paid_at = ?, points_awarded = ?, updated_at = ? WHERE id = ?`,
			order.Status, order.PaidAt, order.PointsAwarded, order.UpdatedAt, order.ID,
		).Error
	})
	if err != nil {
		return nil, err
	}

	s.metrics.RecordStatusChange(string(next))

	// Accrual failure must not undo an already committed status change.
	if accruePoints > 0 {
		accrueErr := s.loyalty.Accrue(ctx, loyaltydomain.AccrueRequest{
			UserID:  *order.UserID,
			OrderID: order.ID,
			Points:  accruePoints,
		})
		if accrueErr != nil {
			s.log.Error("loyalty accrual failed",
				zap.Int64("order_id", order.ID),
				zap.Int64("user_id", *order.UserID),
				zap.Int64("points", accruePoints),
				zap.Error(accrueErr),
			)
		}
	}

	resp := toResponse(&order, nil)
	return &resp, nil
}

func (s *Service) Get(ctx context.Context, id string) (*domain.OrderResponse, error) {
	orderID, err := parseID(id)
	if err != nil {
		return nil, domain.ErrInvalidID
	}

	var order domain.Order
	if err := s.db.WithContext(ctx).First(&order, "id = ?", orderID).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}

	items, err := s.loadItems(ctx, []int64{order.ID})
	if err != nil {
		return nil, err
	}

	resp := toResponse(&order, items[order.ID])
	return &resp, nil
}

func (s *Service) List(ctx context.Context, req domain.ListRequest) ([]domain.OrderResponse, error) {
	stmt := s.db.WithContext(ctx).Model(&domain.Order{})

	if raw := strings.TrimSpace(req.Status); raw != "" {
		status := domain.Status(raw)
		if !status.Valid() {
			return nil, domain.ErrInvalidStatus
		}
		stmt = stmt.Where("status = ?", status)
	}

	limit := req.Limit
	if limit <= 0 {
		limit = 100
	}
	if limit > 500 {
		limit = 500
	}

	var orders []domain.Order
	if err := stmt.Order("created_at DESC").Limit(limit).Find(&orders).Error; err != nil {
		return nil, err
	}

	resp := make([]domain.OrderResponse, 0, len(orders))
	for i := range orders {
		resp = append(resp, toResponse(&orders[i], nil))
	}
	return resp, nil
}

func (s *Service) ListByUser(ctx context.Context, userID int64) ([]domain.OrderResponse, error) {
	var orders []domain.Order
	err := s.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&orders).Error
	if err != nil {
		return nil, err
	}

	orderIDs := make([]int64, 0, len(orders))
	for i := range orders {
		orderIDs = append(orderIDs, orders[i].ID)
	}
	items, err := s.loadItems(ctx, orderIDs)
	if err != nil {
		return nil, err
	}

	resp := make([]domain.OrderResponse, 0, len(orders))
	for i := range orders {
		resp = append(resp, toResponse(&orders[i], items[orders[i].ID]))
	}
	return resp, nil
}

func (s *Service) loadItems(ctx context.Context, orderIDs []int64) (map[int64][]domain.OrderItem, error) {
	byOrder := make(map[int64][]domain.OrderItem, len(orderIDs))
	if len(orderIDs) == 0 {
		return byOrder, nil
	}

	var items []domain.OrderItem
	if err := s.db.WithContext(ctx).Where("order_id IN ?", orderIDs).Find(&items).Error; err != nil {
		return nil, err
	}
	for _, item := range items {
		byOrder[item.OrderID] = append(byOrder[item.OrderID], item)
	}
	return byOrder, nil
}

func parseID(raw string) (int64, error) {
	return strconv.ParseInt(strings.TrimSpace(raw), 10, 64)
}

func toResponse(order *domain.Order, items []domain.OrderItem) domain.OrderResponse {
	resp := domain.OrderResponse{
		ID:              strconv.FormatInt(order.ID, 10),
		Status:          string(order.Status),
		Total:           order.Total,
		ShippingAddress: order.ShippingAddress,
		PointsAwarded:   order.PointsAwarded,
		PaidAt:          order.PaidAt,
		CreatedAt:       order.CreatedAt,
	}
	if order.UserID != nil {
		userID := strconv.FormatInt(*order.UserID, 10)
		resp.UserID = &userID
	}
	for _, item := range items {
		resp.Items = append(resp.Items, domain.OrderItemResponse{
			ProductID: strconv.FormatInt(item.ProductID, 10),
			Name:      item.Name,
			Price:     item.Price,
			Qty:       item.Qty,
		})
	}
	return resp
}
