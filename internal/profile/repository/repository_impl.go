package repository

import (
	"context"
	"strings"

	"github.com/smallbiznis/brewhaus/internal/profile/domain"
	"gorm.io/gorm"
)

type repo struct{}

func Provide() domain.Repository {
	return &repo{}
}

func (r *repo) Create(ctx context.Context, db *gorm.DB, profile *domain.Profile) error {
	return db.WithContext(ctx).Create(profile).Error
}

func (r *repo) FindByID(ctx context.Context, db *gorm.DB, id int64) (*domain.Profile, error) {
	var p domain.Profile
	err := db.WithContext(ctx).First(&p, "id = ?", id).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, err
	}
	return &p, nil
}

func (r *repo) FindByEmail(ctx context.Context, db *gorm.DB, email string) (*domain.Profile, error) {
	var p domain.Profile
	err := db.WithContext(ctx).First(&p, "lower(email) = ?", strings.ToLower(strings.TrimSpace(email))).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, err
	}
	return &p, nil
}

func (r *repo) List(ctx context.Context, db *gorm.DB, filter domain.ListFilter) ([]domain.Profile, error) {
	stmt := db.WithContext(ctx).Model(&domain.Profile{})

	if filter.Role != "" {
		stmt = stmt.Where("role = ?", filter.Role)
	}
	if q := strings.TrimSpace(filter.Query); q != "" {
		stmt = stmt.Where("lower(email) LIKE ?", "%"+strings.ToLower(q)+"%")
	}

	var items []domain.Profile
	if err := stmt.Order("created_at DESC").Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}

func (r *repo) Update(ctx context.Context, db *gorm.DB, profile *domain.Profile) error {
	if profile == nil {
		return gorm.ErrInvalidData
	}
	return db.WithContext(ctx).Exec(
		`UPDATE users SET email = ?, password_hash = ?, role = ?, display_name = ?, points = ?, updated_at = ? WHERE id = ?`,
		profile.Email,
		profile.PasswordHash,
		profile.Role,
		profile.DisplayName,
		profile.Points,
		profile.UpdatedAt,
		profile.ID,
	).Error
}
