package seed

import (
	"context"
	"testing"

	"friendlyvoice/internal/database"
	"friendlyvoice/internal/models"
	"friendlyvoice/internal/repository"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func setupSeedDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(database.Models()...))
	return db
}

func TestFixtureCreatesDemoCast(t *testing.T) {
	db := setupSeedDB(t)
	// bcrypt dominates seeding time, skip it here.
	seeder := NewSeeder(db, Options{SkipBcrypt: true})

	users, err := seeder.Fixture()
	require.NoError(t, err)
	require.Len(t, users, 4)

	var ana models.User
	require.NoError(t, db.Where("email = ?", "ana@friendlyvoice.app").First(&ana).Error)
	assert.Equal(t, "Ana Pérez", ana.Name)
	assert.NotEmpty(t, ana.Interests)

	// The named trio is fully mutual so direct messages work out of the box.
	followRepo := repository.NewFollowRepository(db)
	ctx := context.Background()
	for _, a := range users[:3] {
		for _, b := range users[:3] {
			if a.ID == b.ID {
				continue
			}
			mutual, err := followRepo.IsFollowing(ctx, a.ID, b.ID)
			require.NoError(t, err)
			assert.True(t, mutual, "%s should follow %s", a.Name, b.Name)
		}
	}

	var vozCount int64
	require.NoError(t, db.Model(&models.Voz{}).Count(&vozCount).Error)
	assert.Equal(t, int64(3), vozCount)

	// The demo account stays in onboarding state.
	var demo models.User
	require.NoError(t, db.Where("email = ?", "demo@friendlyvoice.app").First(&demo).Error)
	assert.True(t, demo.NeedsOnboarding())
}

func TestFixtureIsRepeatableAfterClearAll(t *testing.T) {
	db := setupSeedDB(t)
	seeder := NewSeeder(db, Options{SkipBcrypt: true})

	_, err := seeder.Fixture()
	require.NoError(t, err)
	require.NoError(t, seeder.ClearAll())

	var count int64
	require.NoError(t, db.Unscoped().Model(&models.User{}).Count(&count).Error)
	assert.Zero(t, count)

	_, err = seeder.Fixture()
	require.NoError(t, err)
}

func TestSeedSocialMeshAndEngagement(t *testing.T) {
	db := setupSeedDB(t)
	seeder := NewSeeder(db, Options{SkipBcrypt: true})

	users, err := seeder.SeedSocialMesh(8)
	require.NoError(t, err)
	require.Len(t, users, 8)

	var followCount int64
	require.NoError(t, db.Model(&models.Follow{}).Count(&followCount).Error)
	assert.Positive(t, followCount)

	voces, err := seeder.SeedEngagement(users, 12)
	require.NoError(t, err)
	require.Len(t, voces, 12)

	// Every voz carries its author snapshot.
	for _, v := range voces {
		assert.NotZero(t, v.UserID)
		assert.NotEmpty(t, v.UserName)
		assert.NotEmpty(t, v.AudioURL)
	}
}
