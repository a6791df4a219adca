package service

import (
	"context"
	"strconv"
	"strings"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/smallbiznis/brewhaus/internal/feedback/domain"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type Params struct {
	fx.In

	DB    *gorm.DB
	Log   *zap.Logger
	GenID *snowflake.Node
}

type Service struct {
	db    *gorm.DB
	log   *zap.Logger
	genID *snowflake.Node
}

func New(p Params) domain.Service {
	return &Service{
		db:    p.DB,
		log:   p.Log.Named("feedback.service"),
		genID: p.GenID,
	}
}

func (s *Service) Create(ctx context.Context, req domain.CreateRequest) (*domain.FeedbackResponse, error) {
	content := strings.TrimSpace(req.Content)
	if content == "" {
		return nil, domain.ErrContentMissing
	}
	// Rating is optional; zero means the customer left none.
	if req.Rating != 0 && (req.Rating < 1 || req.Rating > 5) {
		return nil, domain.ErrInvalidRating
	}

	row := &domain.Feedback{
		ID:        s.genID.Generate().Int64(),
		UserID:    req.UserID,
		Rating:    req.Rating,
		Content:   content,
		Active:    false,
		CreatedAt: time.Now().UTC(),
	}
	if err := s.db.WithContext(ctx).Create(row).Error; err != nil {
		return nil, err
	}

	resp := toResponse(row)
	return &resp, nil
}

func (s *Service) ListPublic(ctx context.Context) ([]domain.FeedbackResponse, error) {
	return s.list(ctx, true)
}

func (s *Service) ListAll(ctx context.Context) ([]domain.FeedbackResponse, error) {
	return s.list(ctx, false)
}

func (s *Service) list(ctx context.Context, activeOnly bool) ([]domain.FeedbackResponse, error) {
	stmt := s.db.WithContext(ctx).Model(&domain.Feedback{})
	if activeOnly {
		stmt = stmt.Where("is_active = ?", true)
	}

	var rows []domain.Feedback
	if err := stmt.Order("created_at DESC").Find(&rows).Error; err != nil {
		return nil, err
	}

	resp := make([]domain.FeedbackResponse, 0, len(rows))
	for i := range rows {
		resp = append(resp, toResponse(&rows[i]))
	}
	return resp, nil
}

func (s *Service) Moderate(ctx context.Context, req domain.ModerateRequest) (*domain.FeedbackResponse, error) {
	id, err := strconv.ParseInt(strings.TrimSpace(req.ID), 10, 64)
	if err != nil {
		return nil, domain.ErrInvalidID
	}

	var row domain.Feedback
	if err := s.db.WithContext(ctx).First(&row, "id = ?", id).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}

	row.Active = req.Active
	err = s.db.WithContext(ctx).Exec(
		`UPDATE site_feedback SET is_active = ? WHERE id = ?`,
		row.Active, row.ID,
	).Error
	if err != nil {
		return nil, err
	}

	resp := toResponse(&row)
	return &resp, nil
}

func toResponse(row *domain.Feedback) domain.FeedbackResponse {
	resp := domain.FeedbackResponse{
		ID:        strconv.FormatInt(row.ID, 10),
		Rating:    row.Rating,
		Content:   row.Content,
		Active:    row.Active,
		CreatedAt: row.CreatedAt,
	}
	if row.UserID != nil {
		userID := strconv.FormatInt(*row.UserID, 10)
		resp.UserID = &userID
	}
	return resp
}
