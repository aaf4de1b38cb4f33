package seed

import (
	"testing"

	"devconnector/internal/database"
	"devconnector/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func setupSeedDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, database.Migrate(db))
	return db
}

func TestSeedUsers(t *testing.T) {
	t.Parallel()
	db := setupSeedDB(t)
	s := NewSeeder(db)

	users, err := s.SeedUsers(10)
	require.NoError(t, err)
	require.Len(t, users, 10)

	// Emails are unique and avatars derived.
	seen := map[string]bool{}
	for _, u := range users {
		assert.False(t, seen[u.Email], u.Email)
		seen[u.Email] = true
		assert.Contains(t, u.Avatar, "gravatar.com")
		assert.NotEqual(t, "password123", u.Password)
	}
}

func TestSeedProfilesAndPosts(t *testing.T) {
	t.Parallel()
	db := setupSeedDB(t)
	s := NewSeeder(db)

	users, err := s.SeedUsers(8)
	require.NoError(t, err)
	require.NoError(t, s.SeedProfiles(users))
	require.NoError(t, s.SeedPosts(users, 20))

	var posts int64
	db.Model(&models.Post{}).Count(&posts)
	assert.EqualValues(t, 20, posts)

	// Every like respects the one-per-user constraint.
	var likes []models.Like
	require.NoError(t, db.Find(&likes).Error)
	pairs := map[[2]uint]bool{}
	for _, l := range likes {
		key := [2]uint{l.PostID, l.UserID}
		assert.False(t, pairs[key])
		pairs[key] = true
	}
}

func TestClearAll(t *testing.T) {
	t.Parallel()
	db := setupSeedDB(t)
	s := NewSeeder(db)

	users, err := s.SeedUsers(5)
	require.NoError(t, err)
	require.NoError(t, s.SeedProfiles(users))
	require.NoError(t, s.SeedPosts(users, 5))

	require.NoError(t, s.ClearAll())

	for _, model := range []interface{}{&models.User{}, &models.Profile{}, &models.Post{}, &models.Like{}, &models.Comment{}} {
		var count int64
		db.Unscoped().Model(model).Count(&count)
		assert.Zero(t, count)
	}
}
