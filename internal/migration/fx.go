package migration

import (
	"strings"

	catalogdomain "github.com/smallbiznis/brewhaus/internal/catalog/domain"
	"github.com/smallbiznis/brewhaus/internal/config"
	feedbackdomain "github.com/smallbiznis/brewhaus/internal/feedback/domain"
	invdomain "github.com/smallbiznis/brewhaus/internal/inventory/domain"
	loyaltydomain "github.com/smallbiznis/brewhaus/internal/loyalty/domain"
	orderdomain "github.com/smallbiznis/brewhaus/internal/order/domain"
	profiledomain "github.com/smallbiznis/brewhaus/internal/profile/domain"
	"github.com/smallbiznis/brewhaus/internal/seed"
	"go.uber.org/fx"
	"gorm.io/gorm"
)

var Module = fx.Module("migrations",
	fx.Invoke(func(conn *gorm.DB, cfg config.Config) error {
		if strings.EqualFold(cfg.DBType, "postgres") {
			sqlDB, err := conn.DB()
			if err != nil {
				return err
			}
			if err := RunMigrations(sqlDB); err != nil {
				return err
			}
		} else {
			// Versioned migrations are postgres-only; other dialects get
			// the schema straight from the models.
			if err := conn.AutoMigrate(
				&profiledomain.Profile{},
				&catalogdomain.Product{},
				&invdomain.Ingredient{},
				&invdomain.StockMove{},
				&invdomain.Recipe{},
				&orderdomain.Order{},
				&orderdomain.OrderItem{},
				&loyaltydomain.Entry{},
				&feedbackdomain.Feedback{},
			); err != nil {
				return err
			}
		}

		return seed.EnsureDefaultAdmin(conn, cfg)
	}),
)
