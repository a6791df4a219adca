package service

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/smallbiznis/brewhaus/internal/loyalty/domain"
	"github.com/smallbiznis/brewhaus/internal/observability/metrics"
	profiledomain "github.com/smallbiznis/brewhaus/internal/profile/domain"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

const defaultAdjustReason = "Admin adjustment"

type Params struct {
	fx.In

	DB       *gorm.DB
	Log      *zap.Logger
	GenID    *snowflake.Node
	Profiles profiledomain.Repository
	Metrics  *metrics.Metrics `optional:"true"`
}

type Service struct {
	db       *gorm.DB
	log      *zap.Logger
	genID    *snowflake.Node
	profiles profiledomain.Repository
	metrics  *metrics.Metrics
}

func New(p Params) domain.Service {
	return &Service{
		db:       p.DB,
		log:      p.Log.Named("loyalty.service"),
		genID:    p.GenID,
		profiles: p.Profiles,
		metrics:  p.Metrics,
	}
}

func (s *Service) Adjust(ctx context.Context, req domain.AdjustRequest) (*domain.AdjustResponse, error) {
	userID, err := parseID(req.UserID)
	if err != nil {
		return nil, domain.ErrInvalidID
	}
	if req.Points == 0 {
		return nil, domain.ErrInvalidPoints
	}

	reason := strings.TrimSpace(req.Reason)
	if reason == "" {
		reason = defaultAdjustReason
	}

	var resp domain.AdjustResponse
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		profile, err := s.profiles.FindByID(ctx, tx, userID)
		if err != nil {
			return err
		}
		if profile == nil {
			return domain.ErrNotFound
		}

		before := profile.Points
		after := before + req.Points
		if after < 0 {
			after = 0
		}

		profile.Points = after
		profile.UpdatedAt = time.Now().UTC()
		if err := s.profiles.Update(ctx, tx, profile); err != nil {
			return err
		}

		entry := &domain.Entry{
			ID:        s.genID.Generate().Int64(),
			UserID:    userID,
			Delta:     req.Points,
			Reason:    reason,
			CreatedAt: time.Now().UTC(),
		}
		if err := tx.Create(entry).Error; err != nil {
			return err
		}

		resp = domain.AdjustResponse{
			OK:           true,
			PointsBefore: before,
			PointsAfter:  after,
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.log.Info("loyalty balance adjusted",
		zap.Int64("user_id", userID),
		zap.Int64("delta", req.Points),
		zap.Int64("points_before", resp.PointsBefore),
		zap.Int64("points_after", resp.PointsAfter),
	)
	return &resp, nil
}

func (s *Service) Accrue(ctx context.Context, req domain.AccrueRequest) error {
	if req.Points <= 0 {
		return domain.ErrInvalidPoints
	}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		profile, err := s.profiles.FindByID(ctx, tx, req.UserID)
		if err != nil {
			return err
		}
		if profile == nil {
			return domain.ErrNotFound
		}

		profile.Points += req.Points
		profile.UpdatedAt = time.Now().UTC()
		if err := s.profiles.Update(ctx, tx, profile); err != nil {
			return err
		}

		orderID := req.OrderID
		entry := &domain.Entry{
			ID:        s.genID.Generate().Int64(),
			UserID:    req.UserID,
			OrderID:   &orderID,
			Delta:     req.Points,
			Reason:    fmt.Sprintf("Order #%d reward", req.OrderID),
			CreatedAt: time.Now().UTC(),
		}
		return tx.Create(entry).Error
	})
	if err != nil {
		return err
	}

	s.metrics.RecordLoyaltyAccrual()
	s.log.Info("loyalty points accrued",
		zap.Int64("user_id", req.UserID),
		zap.Int64("order_id", req.OrderID),
		zap.Int64("points", req.Points),
	)
	return nil
}

func (s *Service) ListEntries(ctx context.Context, req domain.ListEntriesRequest) ([]domain.EntryResponse, error) {
	userID, err := parseID(req.UserID)
	if err != nil {
		return nil, domain.ErrInvalidID
	}

	limit := req.Limit
	if limit <= 0 {
		limit = 50
	}
	if limit > 500 {
		limit = 500
	}

	var entries []domain.Entry
	err = s.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Limit(limit).
		Find(&entries).Error
	if err != nil {
		return nil, err
	}

	resp := make([]domain.EntryResponse, 0, len(entries))
	for i := range entries {
		resp = append(resp, toEntryResponse(&entries[i]))
	}
	return resp, nil
}

func (s *Service) ListCustomers(ctx context.Context) ([]domain.CustomerResponse, error) {
	var profiles []profiledomain.Profile
	err := s.db.WithContext(ctx).
		Where("role = ?", profiledomain.RoleCustomer).
		Order("points DESC").
		Find(&profiles).Error
	if err != nil {
		return nil, err
	}

	resp := make([]domain.CustomerResponse, 0, len(profiles))
	for i := range profiles {
		resp = append(resp, domain.CustomerResponse{
			ID:          strconv.FormatInt(profiles[i].ID, 10),
			Email:       profiles[i].Email,
			DisplayName: profiles[i].DisplayName,
			Points:      profiles[i].Points,
		})
	}
	return resp, nil
}

func parseID(raw string) (int64, error) {
	return strconv.ParseInt(strings.TrimSpace(raw), 10, 64)
}

func toEntryResponse(e *domain.Entry) domain.EntryResponse {
	resp := domain.EntryResponse{
		ID:        strconv.FormatInt(e.ID, 10),
		UserID:    strconv.FormatInt(e.UserID, 10),
		Delta:     e.Delta,
		Reason:    e.Reason,
		CreatedAt: e.CreatedAt,
	}
	if e.OrderID != nil {
		orderID := strconv.FormatInt(*e.OrderID, 10)
		resp.OrderID = &orderID
	}
	return resp
}
