package domain

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

type Service interface {
	// PlaceOrder validates the cart, deducts ingredient stock and writes the
	// order with item snapshots, all inside one transaction.
	PlaceOrder(ctx context.Context, req PlaceOrderRequest) (*PlaceOrderResponse, error)
	// UpdateStatus moves an order along the lifecycle graph. Reaching
	// delivered triggers the one-time loyalty accrual.
	UpdateStatus(ctx context.Context, req UpdateStatusRequest) (*OrderResponse, error)
	Get(ctx context.Context, id string) (*OrderResponse, error)
	List(ctx context.Context, req ListRequest) ([]OrderResponse, error)
	ListByUser(ctx context.Context, userID int64) ([]OrderResponse, error)
}

type PlaceOrderItem struct {
	ProductID string `json:"product_id"`
	Qty       int    `json:"qty"`
}

type PlaceOrderRequest struct {
	UserID          *int64           `json:"-"`
	ShippingAddress *string          `json:"shipping_address"`
	Items           []PlaceOrderItem `json:"items"`
}

type PlaceOrderResponse struct {
	OK      bool            `json:"ok"`
	OrderID string          `json:"order_id"`
	Total   decimal.Decimal `json:"total"`
}

type UpdateStatusRequest struct {
	ID     string
	Status string `json:"status"`
}

type ListRequest struct {
	Status string
	Limit  int
}

type OrderItemResponse struct {
	ProductID string          `json:"product_id"`
	Name      string          `json:"name"`
	Price     decimal.Decimal `json:"price"`
	Qty       int             `json:"qty"`
}

type OrderResponse struct {
	ID              string              `json:"id"`
	UserID          *string             `json:"user_id,omitempty"`
	Status          string              `json:"status"`
	Total           decimal.Decimal     `json:"total"`
	ShippingAddress *string             `json:"shipping_address,omitempty"`
	PointsAwarded   bool                `json:"points_awarded"`
	PaidAt          *time.Time          `json:"paid_at,omitempty"`
	CreatedAt       time.Time           `json:"created_at"`
	Items           []OrderItemResponse `json:"items,omitempty"`
}

var (
	ErrEmptyItems    = errors.New("order_needs_items")
	ErrInvalidQty    = errors.New("invalid_qty")
	ErrInvalidID     = errors.New("invalid_id")
	ErrInvalidStatus = errors.New("invalid_status")
	ErrNotFound      = errors.New("not_found")
)

// UnknownProductError reports a cart line naming a product that does not
// exist or is no longer sold.
type UnknownProductError struct {
	ProductID string
}

func (e *UnknownProductError) Error() string {
	return fmt.Sprintf("unknown product %s", e.ProductID)
}

// InsufficientStockError names the first ingredient that cannot cover the
// order's recipe needs.
type InsufficientStockError struct {
	Ingredient string
}

func (e *InsufficientStockError) Error() string {
	return fmt.Sprintf("insufficient ingredient: %s", e.Ingredient)
}

// InvalidTransitionError reports a status change the lifecycle graph does
// not allow.
type InvalidTransitionError struct {
	From Status
	To   Status
}

func (e *InvalidTransitionError) Error() string {
	return fmt.Sprintf("cannot move order from %s to %s", e.From, e.To)
}
