package domain

import (
	"context"
	"errors"
	"time"
)

type Service interface {
	List(ctx context.Context, req ListRequest) ([]ProfileResponse, error)
	Get(ctx context.Context, id string) (*ProfileResponse, error)
	SetRole(ctx context.Context, req SetRoleRequest) (*ProfileResponse, error)
	UpdateDisplayName(ctx context.Context, req UpdateDisplayNameRequest) (*ProfileResponse, error)
}

type ListRequest struct {
	Role  string
	Query string
}

type SetRoleRequest struct {
	ID   string
	Role string `json:"role"`
}

type UpdateDisplayNameRequest struct {
	ID          string
	DisplayName string `json:"display_name"`
}

type ProfileResponse struct {
	ID          string    `json:"id"`
	Email       string    `json:"email"`
	Role        string    `json:"role"`
	DisplayName *string   `json:"display_name,omitempty"`
	Points      int64     `json:"points"`
	CreatedAt   time.Time `json:"created_at"`
}

var (
	ErrInvalidID   = errors.New("invalid_id")
	ErrInvalidRole = errors.New("invalid_role")
	ErrNotFound    = errors.New("not_found")
)
