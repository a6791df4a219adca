package domain

import (
	"context"

	"github.com/shopspring/decimal"
)

type Service interface {
	// DailyRevenue sums order totals per calendar day over the trailing
	// window, skipping cancelled orders.
	DailyRevenue(ctx context.Context, days int) ([]DailyRevenueRow, error)
}

type DailyRevenueRow struct {
	Day     string          `json:"day"`
	Orders  int64           `json:"orders"`
	Revenue decimal.Decimal `json:"revenue"`
}
