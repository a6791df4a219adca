package domain

import (
	"context"

	"gorm.io/gorm"
)

type ListFilter struct {
	Role  Role
	Query string
}

type Repository interface {
	Create(ctx context.Context, db *gorm.DB, profile *Profile) error
	FindByID(ctx context.Context, db *gorm.DB, id int64) (*Profile, error)
	FindByEmail(ctx context.Context, db *gorm.DB, email string) (*Profile, error)
	List(ctx context.Context, db *gorm.DB, filter ListFilter) ([]Profile, error)
	Update(ctx context.Context, db *gorm.DB, profile *Profile) error
}
