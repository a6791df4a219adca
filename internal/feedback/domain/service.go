package domain

import (
	"context"
	"errors"
	"time"
)

type Service interface {
	// Create stores a new entry hidden from the public list.
	Create(ctx context.Context, req CreateRequest) (*FeedbackResponse, error)
	ListPublic(ctx context.Context) ([]FeedbackResponse, error)
	ListAll(ctx context.Context) ([]FeedbackResponse, error)
	Moderate(ctx context.Context, req ModerateRequest) (*FeedbackResponse, error)
}

// CreateRequest carries a new testimonial. Content is the only required
// field; a rating of zero means none was given.
type CreateRequest struct {
	UserID  *int64 `json:"-"`
	Rating  int    `json:"rating"`
	Content string `json:"content"`
}

type ModerateRequest struct {
	ID     string
	Active bool `json:"is_active"`
}

type FeedbackResponse struct {
	ID        string    `json:"id"`
	UserID    *string   `json:"user_id,omitempty"`
	Rating    int       `json:"rating,omitempty"`
	Content   string    `json:"content"`
	Active    bool      `json:"is_active"`
	CreatedAt time.Time `json:"created_at"`
}

var (
	ErrInvalidRating  = errors.New("invalid_rating")
	ErrContentMissing = errors.New("content_required")
	ErrInvalidID      = errors.New("invalid_id")
	ErrNotFound       = errors.New("not_found")
)
