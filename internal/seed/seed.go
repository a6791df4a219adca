package seed

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/smallbiznis/brewhaus/internal/config"
	profiledomain "github.com/smallbiznis/brewhaus/internal/profile/domain"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

const defaultAdminDisplay = "Brewhaus Admin"

// EnsureDefaultAdmin creates the bootstrap admin account when no admin
// exists yet. Existing admins are left untouched.
func EnsureDefaultAdmin(db *gorm.DB, cfg config.Config) error {
	if db == nil {
		return errors.New("seed database handle is required")
	}

	email := strings.ToLower(strings.TrimSpace(cfg.SeedAdminEmail))
	if email == "" {
		return nil
	}

	node, err := snowflake.NewNode(1)
	if err != nil {
		return err
	}

	ctx := context.Background()
	return db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var count int64
		err := tx.Model(&profiledomain.Profile{}).
			Where("role = ?", profiledomain.RoleAdmin).
			Count(&count).Error
		if err != nil {
			return err
		}
		if count > 0 {
			return nil
		}

		hash, err := bcrypt.GenerateFromPassword([]byte(cfg.SeedAdminPassword), bcrypt.DefaultCost)
		if err != nil {
			return err
		}

		display := defaultAdminDisplay
		now := time.Now().UTC()
		return tx.Create(&profiledomain.Profile{
			ID:           node.Generate().Int64(),
			Email:        email,
			PasswordHash: string(hash),
			Role:         profiledomain.RoleAdmin,
			DisplayName:  &display,
			CreatedAt:    now,
			UpdatedAt:    now,
		}).Error
	})
}
