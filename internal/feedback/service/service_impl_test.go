package service

import (
	"context"
	"fmt"
	"testing"

	"github.com/bwmarrin/snowflake"
	"github.com/glebarez/sqlite"
	"github.com/smallbiznis/brewhaus/internal/feedback/domain"
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

	require.NoError(t, db.AutoMigrate(&domain.Feedback{}))

	node, err := snowflake.NewNode(1)
	require.NoError(t, err)

	return New(Params{DB: db, Log: zap.NewNop(), GenID: node})
}

func TestCreateStartsHidden(t *testing.T) {
	svc := setup(t)
	ctx := context.Background()

	userID := int64(42)
	created, err := svc.Create(ctx, domain.CreateRequest{
		UserID:  &userID,
		Content: "  Great coffee!  ",
	})
	require.NoError(t, err)
	assert.False(t, created.Active)
	assert.Equal(t, "Great coffee!", created.Content)

	public, err := svc.ListPublic(ctx)
	require.NoError(t, err)
	assert.Empty(t, public)

	all, err := svc.ListAll(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 1)
}

func TestCreateNeedsOnlyContent(t *testing.T) {
	svc := setup(t)
	ctx := context.Background()

	created, err := svc.Create(ctx, domain.CreateRequest{Content: "Friendly staff"})
	require.NoError(t, err)
	assert.Equal(t, 0, created.Rating)
	assert.Equal(t, "Friendly staff", created.Content)

	rated, err := svc.Create(ctx, domain.CreateRequest{Content: "Best espresso in town", Rating: 5})
	require.NoError(t, err)
	assert.Equal(t, 5, rated.Rating)
}

func TestModerateRevealsEntry(t *testing.T) {
	svc := setup(t)
	ctx := context.Background()

	created, err := svc.Create(ctx, domain.CreateRequest{Content: "Cozy place"})
	require.NoError(t, err)

	moderated, err := svc.Moderate(ctx, domain.ModerateRequest{ID: created.ID, Active: true})
	require.NoError(t, err)
	assert.True(t, moderated.Active)

	public, err := svc.ListPublic(ctx)
	require.NoError(t, err)
	require.Len(t, public, 1)
	assert.Equal(t, "Cozy place", public[0].Content)

	hidden, err := svc.Moderate(ctx, domain.ModerateRequest{ID: created.ID, Active: false})
	require.NoError(t, err)
	assert.False(t, hidden.Active)
}

func TestCreateValidation(t *testing.T) {
	svc := setup(t)
	ctx := context.Background()

	_, err := svc.Create(ctx, domain.CreateRequest{Content: "   "})
	assert.ErrorIs(t, err, domain.ErrContentMissing)

	_, err = svc.Create(ctx, domain.CreateRequest{Content: ""})
	assert.ErrorIs(t, err, domain.ErrContentMissing)

	_, err = svc.Create(ctx, domain.CreateRequest{Content: "hi", Rating: 6})
	assert.ErrorIs(t, err, domain.ErrInvalidRating)

	_, err = svc.Create(ctx, domain.CreateRequest{Content: "hi", Rating: -1})
	assert.ErrorIs(t, err, domain.ErrInvalidRating)

	_, err = svc.Moderate(ctx, domain.ModerateRequest{ID: "999", Active: true})
	assert.ErrorIs(t, err, domain.ErrNotFound)

	_, err = svc.Moderate(ctx, domain.ModerateRequest{ID: "abc", Active: true})
	assert.ErrorIs(t, err, domain.ErrInvalidID)
}
