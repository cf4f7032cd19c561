package service

import (
	"context"
	"errors"
	"testing"

	"friendlyvoice/internal/database"
	"friendlyvoice/internal/models"
	"friendlyvoice/internal/repository"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func setupServiceDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(database.Models()...))
	return db
}

func createTestUser(t *testing.T, db *gorm.DB, name, email string) *models.User {
	t.Helper()
	u := &models.User{Name: name, Email: email, AvatarURL: "https://i.pravatar.cc/150?u=" + email}
	require.NoError(t, db.Create(u).Error)
	return u
}

func assertAppErrorCode(t *testing.T, err error, code string) {
	t.Helper()
	var appErr *models.AppError
	require.True(t, errors.As(err, &appErr), "expected AppError, got %v", err)
	assert.Equal(t, code, appErr.Code)
}

func newFollowFixture(t *testing.T) (*FollowService, *gorm.DB) {
	db := setupServiceDB(t)
	followRepo := repository.NewFollowRepository(db)
	userRepo := repository.NewUserRepository(db)
	return NewFollowService(followRepo, userRepo), db
}

func TestFollowService_FollowAndCounts(t *testing.T) {
	t.Parallel()
	svc, db := newFollowFixture(t)
	ctx := context.Background()

	ana := createTestUser(t, db, "Ana Pérez", "ana@example.com")
	carlos := createTestUser(t, db, "Carlos López", "carlos@example.com")

	require.NoError(t, svc.Follow(ctx, ana.ID, carlos.ID))
	// Repeated follow is a no-op, not an error.
	require.NoError(t, svc.Follow(ctx, ana.ID, carlos.ID))

	following, err := svc.IsFollowing(ctx, ana.ID, carlos.ID)
	require.NoError(t, err)
	assert.True(t, following)

	followers, err := svc.Followers(ctx, carlos.ID)
	require.NoError(t, err)
	require.Len(t, followers, 1)
	assert.Equal(t, ana.ID, followers[0].ID)

	followed, err := svc.Following(ctx, ana.ID)
	require.NoError(t, err)
	require.Len(t, followed, 1)
	assert.Equal(t, carlos.ID, followed[0].ID)
}

func TestFollowService_SelfFollowRejected(t *testing.T) {
	t.Parallel()
	svc, db := newFollowFixture(t)
	ana := createTestUser(t, db, "Ana Pérez", "ana@example.com")

	err := svc.Follow(context.Background(), ana.ID, ana.ID)
	assertAppErrorCode(t, err, "VALIDATION_ERROR")
}

func TestFollowService_FollowUnknownTarget(t *testing.T) {
	t.Parallel()
	svc, db := newFollowFixture(t)
	ana := createTestUser(t, db, "Ana Pérez", "ana@example.com")

	err := svc.Follow(context.Background(), ana.ID, 999)
	assertAppErrorCode(t, err, "NOT_FOUND")
}

func TestFollowService_MutualsRequireBothDirections(t *testing.T) {
	t.Parallel()
	svc, db := newFollowFixture(t)
	ctx := context.Background()

	ana := createTestUser(t, db, "Ana Pérez", "ana@example.com")
	carlos := createTestUser(t, db, "Carlos López", "carlos@example.com")
	laura := createTestUser(t, db, "Laura García", "laura@example.com")

	require.NoError(t, svc.Follow(ctx, ana.ID, carlos.ID))
	require.NoError(t, svc.Follow(ctx, carlos.ID, ana.ID))
	require.NoError(t, svc.Follow(ctx, ana.ID, laura.ID))

	mutual, err := svc.IsMutual(ctx, ana.ID, carlos.ID)
	require.NoError(t, err)
	assert.True(t, mutual)

	oneWay, err := svc.IsMutual(ctx, ana.ID, laura.ID)
	require.NoError(t, err)
	assert.False(t, oneWay)

	mutuals, err := svc.Mutuals(ctx, ana.ID)
	require.NoError(t, err)
	require.Len(t, mutuals, 1)
	assert.Equal(t, carlos.ID, mutuals[0].ID)
}

func TestFollowService_UnfollowBreaksMutual(t *testing.T) {
	t.Parallel()
	svc, db := newFollowFixture(t)
	ctx := context.Background()

	ana := createTestUser(t, db, "Ana Pérez", "ana@example.com")
	carlos := createTestUser(t, db, "Carlos López", "carlos@example.com")

	require.NoError(t, svc.Follow(ctx, ana.ID, carlos.ID))
	require.NoError(t, svc.Follow(ctx, carlos.ID, ana.ID))
	require.NoError(t, svc.Unfollow(ctx, ana.ID, carlos.ID))

	mutual, err := svc.IsMutual(ctx, ana.ID, carlos.ID)
	require.NoError(t, err)
	assert.False(t, mutual)

	// The reverse edge survives on its own.
	stillFollowing, err := svc.IsFollowing(ctx, carlos.ID, ana.ID)
	require.NoError(t, err)
	assert.True(t, stillFollowing)
}
