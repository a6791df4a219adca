package service

import (
	"context"
	"time"

	orderdomain "github.com/smallbiznis/brewhaus/internal/order/domain"
	"github.com/smallbiznis/brewhaus/internal/reporting/domain"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

const defaultWindowDays = 7

type Params struct {
	fx.In

	DB  *gorm.DB
	Log *zap.Logger
}

type Service struct {
	db  *gorm.DB
	log *zap.Logger
}

func New(p Params) domain.Service {
	return &Service{
		db:  p.DB,
		log: p.Log.Named("reporting.service"),
	}
}

func (s *Service) DailyRevenue(ctx context.Context, days int) ([]domain.DailyRevenueRow, error) {
	if days <= 0 {
		days = defaultWindowDays
	}
	since := time.Now().UTC().AddDate(0, 0, -days)

	var rows []domain.DailyRevenueRow
	err := s.db.WithContext(ctx).Raw(
		`SELECT date(created_at) AS day,
		        COUNT(*) AS orders,
		        SUM(total) AS revenue
		   FROM orders
		  WHERE created_at >= ?
		    AND status <> ?
		  GROUP BY date(created_at)
		  ORDER BY day`,
		since, orderdomain.StatusCancelled,
	).Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}
