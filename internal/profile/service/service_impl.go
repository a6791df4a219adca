package service

import (
	"context"
	"strconv"
	"strings"
	"time"

	"github.com/smallbiznis/brewhaus/internal/profile/domain"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type Params struct {
	fx.In

	DB   *gorm.DB
	Log  *zap.Logger
	Repo domain.Repository
}

type Service struct {
	db   *gorm.DB
	log  *zap.Logger
	repo domain.Repository
}

func New(p Params) domain.Service {
	return &Service{
		db:   p.DB,
		log:  p.Log.Named("profile.service"),
		repo: p.Repo,
	}
}

func (s *Service) List(ctx context.Context, req domain.ListRequest) ([]domain.ProfileResponse, error) {
	filter := domain.ListFilter{Query: req.Query}
	if raw := strings.TrimSpace(req.Role); raw != "" {
		role := domain.Role(raw)
		if !role.Valid() {
			return nil, domain.ErrInvalidRole
		}
		filter.Role = role
	}

	items, err := s.repo.List(ctx, s.db, filter)
	if err != nil {
		return nil, err
	}

	resp := make([]domain.ProfileResponse, 0, len(items))
	for i := range items {
		resp = append(resp, toResponse(&items[i]))
	}
	return resp, nil
}

func (s *Service) Get(ctx context.Context, id string) (*domain.ProfileResponse, error) {
	profileID, err := parseID(id)
	if err != nil {
		return nil, domain.ErrInvalidID
	}

	profile, err := s.repo.FindByID(ctx, s.db, profileID)
	if err != nil {
		return nil, err
	}
	if profile == nil {
		return nil, domain.ErrNotFound
	}

	resp := toResponse(profile)
	return &resp, nil
}

func (s *Service) SetRole(ctx context.Context, req domain.SetRoleRequest) (*domain.ProfileResponse, error) {
	profileID, err := parseID(req.ID)
	if err != nil {
		return nil, domain.ErrInvalidID
	}

	role := domain.Role(strings.TrimSpace(req.Role))
	if !role.Valid() {
		return nil, domain.ErrInvalidRole
	}

	profile, err := s.repo.FindByID(ctx, s.db, profileID)
	if err != nil {
		return nil, err
	}
	if profile == nil {
		return nil, domain.ErrNotFound
	}

	profile.Role = role
	profile.UpdatedAt = time.Now().UTC()
	if err := s.repo.Update(ctx, s.db, profile); err != nil {
		return nil, err
	}

	resp := toResponse(profile)
	return &resp, nil
}

func (s *Service) UpdateDisplayName(ctx context.Context, req domain.UpdateDisplayNameRequest) (*domain.ProfileResponse, error) {
	profileID, err := parseID(req.ID)
	if err != nil {
		return nil, domain.ErrInvalidID
	}

	profile, err := s.repo.FindByID(ctx, s.db, profileID)
	if err != nil {
		return nil, err
	}
	if profile == nil {
		return nil, domain.ErrNotFound
	}

	name := strings.TrimSpace(req.DisplayName)
	if name == "" {
		profile.DisplayName = nil
	} else {
		profile.DisplayName = &name
	}
	profile.UpdatedAt = time.Now().UTC()
	if err := s.repo.Update(ctx, s.db, profile); err != nil {
		return nil, err
	}

	resp := toResponse(profile)
	return &resp, nil
}

func parseID(raw string) (int64, error) {
	return strconv.ParseInt(strings.TrimSpace(raw), 10, 64)
}

func toResponse(p *domain.Profile) domain.ProfileResponse {
	return domain.ProfileResponse{
		ID:          strconv.FormatInt(p.ID, 10),
		Email:       p.Email,
		Role:        string(p.Role),
		DisplayName: p.DisplayName,
		Points:      p.Points,
		CreatedAt:   p.CreatedAt,
	}
}
