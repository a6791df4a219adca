package service

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/glebarez/sqlite"
	"github.com/smallbiznis/brewhaus/internal/auth/domain"
	"github.com/smallbiznis/brewhaus/internal/auth/token"
	"github.com/smallbiznis/brewhaus/internal/config"
	profiledomain "github.com/smallbiznis/brewhaus/internal/profile/domain"
	profilerepo "github.com/smallbiznis/brewhaus/internal/profile/repository"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

func setup(t *testing.T) domain.Service {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	sqlDB.SetMaxIdleConns(1)

	require.NoError(t, db.AutoMigrate(&profiledomain.Profile{}))

	node, err := snowflake.NewNode(1)
	require.NoError(t, err)

	return New(Params{
		Config: config.Config{
			AuthJWTSecret: "test-secret",
			AuthTokenTTL:  1,
		},
		DB:       db,
		Log:      zap.NewNop(),
		GenID:    node,
		Profiles: profilerepo.Provide(),
	})
}

func TestRegisterAndLogin(t *testing.T) {
	svc := setup(t)
	ctx := context.Background()

	registered, err := svc.Register(ctx, domain.RegisterRequest{
		Email:       " Alice@Example.COM ",
		Password:    "s3cret-pass",
		DisplayName: "Alice",
	})
	require.NoError(t, err)
	assert.Equal(t, "alice@example.com", registered.Profile.Email)
	assert.Equal(t, "customer", registered.Profile.Role)
	assert.NotEmpty(t, registered.Token)

	claims, err := token.Parse("test-secret", registered.Token)
	require.NoError(t, err)
	assert.Equal(t, registered.Profile.ID, claims.UserID)
	assert.Equal(t, "customer", claims.Role)

	logged, err := svc.Login(ctx, domain.LoginRequest{
		Email:    "alice@example.com",
		Password: "s3cret-pass",
	})
	require.NoError(t, err)
	assert.Equal(t, registered.Profile.ID, logged.Profile.ID)
}

func TestRegister_Validation(t *testing.T) {
	svc := setup(t)
	ctx := context.Background()

	_, err := svc.Register(ctx, domain.RegisterRequest{Email: "not-an-email", Password: "longenough"})
	assert.ErrorIs(t, err, domain.ErrInvalidEmail)

	_, err = svc.Register(ctx, domain.RegisterRequest{Email: "bob@example.com", Password: "short"})
	assert.ErrorIs(t, err, domain.ErrWeakPassword)
}

func TestRegister_DuplicateEmail(t *testing.T) {
	svc := setup(t)
	ctx := context.Background()

	_, err := svc.Register(ctx, domain.RegisterRequest{Email: "carol@example.com", Password: "s3cret-pass"})
	require.NoError(t, err)

	_, err = svc.Register(ctx, domain.RegisterRequest{Email: "CAROL@example.com", Password: "s3cret-pass"})
	assert.ErrorIs(t, err, domain.ErrEmailTaken)
}

func TestLogin_InvalidCredentials(t *testing.T) {
	svc := setup(t)
	ctx := context.Background()

	_, err := svc.Register(ctx, domain.RegisterRequest{Email: "dave@example.com", Password: "s3cret-pass"})
	require.NoError(t, err)

	_, err = svc.Login(ctx, domain.LoginRequest{Email: "dave@example.com", Password: "wrong-pass"})
	assert.ErrorIs(t, err, domain.ErrInvalidCredentials)

	_, err = svc.Login(ctx, domain.LoginRequest{Email: "nobody@example.com", Password: "s3cret-pass"})
	assert.ErrorIs(t, err, domain.ErrInvalidCredentials)
}

func TestTokenParse_RejectsTampering(t *testing.T) {
	signed, err := token.Issue("secret-a", time.Hour, "42", "admin")
	require.NoError(t, err)

	_, err = token.Parse("secret-b", signed)
	assert.ErrorIs(t, err, token.ErrInvalidToken)

	_, err = token.Parse("secret-a", signed+"x")
	assert.ErrorIs(t, err, token.ErrInvalidToken)

	claims, err := token.Parse("secret-a", signed)
	require.NoError(t, err)
	assert.Equal(t, "42", claims.UserID)
	assert.Equal(t, "admin", claims.Role)
}
