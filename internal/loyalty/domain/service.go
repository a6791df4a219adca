package domain

import (
	"context"
	"errors"
	"time"
)

type Service interface {
	// Adjust applies a manual balance change. The resulting balance never
	// goes below zero; the ledger keeps the requested delta as-is.
	Adjust(ctx context.Context, req AdjustRequest) (*AdjustResponse, error)
	// Accrue credits points earned by a delivered order.
	Accrue(ctx context.Context, req AccrueRequest) error
	ListEntries(ctx context.Context, req ListEntriesRequest) ([]EntryResponse, error)
	ListCustomers(ctx context.Context) ([]CustomerResponse, error)
}

type AdjustRequest struct {
	UserID string `json:"user_id"`
	Points int64  `json:"points"`
	Reason string `json:"reason"`
}

type AdjustResponse struct {
	OK           bool  `json:"ok"`
	PointsBefore int64 `json:"points_before"`
	PointsAfter  int64 `json:"points_after"`
}

type AccrueRequest struct {
	UserID  int64
	OrderID int64
	Points  int64
}

type ListEntriesRequest struct {
	UserID string
	Limit  int
}

type EntryResponse struct {
	ID        string    `json:"id"`
	UserID    string    `json:"user_id"`
	OrderID   *string   `json:"order_id,omitempty"`
	Delta     int64     `json:"delta"`
	Reason    string    `json:"reason"`
	CreatedAt time.Time `json:"created_at"`
}

type CustomerResponse struct {
	ID          string  `json:"id"`
	Email       string  `json:"email"`
	DisplayName *string `json:"display_name,omitempty"`
	Points      int64   `json:"points"`
}

var (
	ErrInvalidID     = errors.New("invalid_id")
	ErrInvalidPoints = errors.New("invalid_points")
	ErrNotFound      = errors.New("not_found")
)
