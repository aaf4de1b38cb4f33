package repository

import (
	"context"
	"regexp"
	"testing"

	"devconnector/internal/models"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{TranslateError: true})
	require.NoError(t, err)

	require.NoError(t, db.AutoMigrate(
		&models.User{},
		&models.Profile{},
		&models.Experience{},
		&models.Education{},
		&models.Post{},
		&models.Like{},
		&models.Comment{},
	))
	return db
}

func createTestUser(t *testing.T, db *gorm.DB, email string) *models.User {
	t.Helper()
	user := &models.User{Name: "Test User", Email: email, Password: "hash", Avatar: "a"}
	require.NoError(t, db.Create(user).Error)
	return user
}

func TestUserRepository_GetByEmail(t *testing.T) {
	t.Parallel()
	db := setupTestDB(t)
	repo := NewUserRepository(db)
	ctx := context.Background()

	created := createTestUser(t, db, "jane@example.com")

	user, err := repo.GetByEmail(ctx, "jane@example.com")
	require.NoError(t, err)
	require.NotNil(t, user)
	assert.Equal(t, created.ID, user.ID)

	// Unknown email is not an error.
	user, err = repo.GetByEmail(ctx, "nobody@example.com")
	require.NoError(t, err)
	assert.Nil(t, user)
}

func TestUserRepository_DeleteAccount(t *testing.T) {
	t.Parallel()
	db := setupTestDB(t)
	users := NewUserRepository(db)
	ctx := context.Background()

	jane := createTestUser(t, db, "jane@example.com")
	bob := createTestUser(t, db, "bob@example.com")

	require.NoError(t, db.Create(&models.Profile{UserID: jane.ID, Status: "Developer", Skills: []string{"Go"}}).Error)
	var profile models.Profile
	require.NoError(t, db.Where("user_id = ?", jane.ID).First(&profile).Error)
	require.NoError(t, db.Create(&models.Experience{ProfileID: profile.ID, Title: "Dev", Company: "Acme"}).Error)

	janePost := &models.Post{UserID: jane.ID, Name: jane.Name, Text: "mine"}
	bobPost := &models.Post{UserID: bob.ID, Name: bob.Name, Text: "bobs"}
	require.NoError(t, db.Create(janePost).Error)
	require.NoError(t, db.Create(bobPost).Error)

	// Bob likes Jane's post; Jane comments on Bob's post.
	require.NoError(t, db.Create(&models.Like{PostID: janePost.ID, UserID: bob.ID}).Error)
	require.NoError(t, db.Create(&models.Comment{PostID: bobPost.ID, UserID: jane.ID, Text: "hi"}).Error)

	require.NoError(t, users.DeleteAccount(ctx, jane.ID))

	var count int64
	db.Model(&models.User{}).Count(&count)
	assert.EqualValues(t, 1, count)
	db.Model(&models.Profile{}).Count(&count)
	assert.Zero(t, count)
	db.Model(&models.Experience{}).Count(&count)
	assert.Zero(t, count)
	// Jane's post went away along with Bob's like on it, and so did Jane's
	// comment on Bob's post. Bob's own post survives.
	db.Model(&models.Post{}).Count(&count)
	assert.EqualValues(t, 1, count)
	db.Model(&models.Like{}).Count(&count)
	assert.Zero(t, count)
	db.Model(&models.Comment{}).Count(&count)
	assert.Zero(t, count)
}

func TestUserRepository_DeleteAccountFreesEmail(t *testing.T) {
	t.Parallel()
	db := setupTestDB(t)
	users := NewUserRepository(db)
	ctx := context.Background()

	jane := createTestUser(t, db, "jane@example.com")
	require.NoError(t, db.Create(&models.Profile{UserID: jane.ID, Status: "Developer", Skills: []string{"Go"}}).Error)
	require.NoError(t, users.DeleteAccount(ctx, jane.ID))

	// No tombstone survives to occupy the unique indexes.
	var count int64
	db.Unscoped().Model(&models.User{}).Where("email = ?", "jane@example.com").Count(&count)
	assert.Zero(t, count)
	db.Unscoped().Model(&models.Profile{}).Count(&count)
	assert.Zero(t, count)

	// The address can register again, and the new user can hold a profile.
	reborn := createTestUser(t, db, "jane@example.com")
	require.NoError(t, db.Create(&models.Profile{UserID: reborn.ID, Status: "Developer", Skills: []string{"Go"}}).Error)
}

func TestUserRepository_CreateDuplicateEmail(t *testing.T) {
	t.Parallel()
	db := setupTestDB(t)
	users := NewUserRepository(db)
	ctx := context.Background()

	createTestUser(t, db, "jane@example.com")

	err := users.Create(ctx, &models.User{Name: "Imposter", Email: "jane@example.com", Password: "hash"})
	assert.ErrorIs(t, err, gorm.ErrDuplicatedKey)
}

func TestPostRepository_LikeIsAtomicPerUser(t *testing.T) {
	t.Parallel()
	db := setupTestDB(t)
	posts := NewPostRepository(db)
	ctx := context.Background()

	user := createTestUser(t, db, "jane@example.com")
	post := &models.Post{UserID: user.ID, Name: user.Name, Text: "like me"}
	require.NoError(t, posts.Create(ctx, post))

	require.NoError(t, posts.Like(ctx, post.ID, user.ID))
	assert.ErrorIs(t, posts.Like(ctx, post.ID, user.ID), ErrAlreadyLiked)

	require.NoError(t, posts.Unlike(ctx, post.ID, user.ID))
	assert.ErrorIs(t, posts.Unlike(ctx, post.ID, user.ID), ErrNotLiked)

	// A fresh like after unliking is allowed again.
	require.NoError(t, posts.Like(ctx, post.ID, user.ID))
}

func TestPostRepository_GetByIDNormalizesEmptyLists(t *testing.T) {
	t.Parallel()
	db := setupTestDB(t)
	posts := NewPostRepository(db)
	ctx := context.Background()

	user := createTestUser(t, db, "jane@example.com")
	post := &models.Post{UserID: user.ID, Name: user.Name, Text: "bare"}
	require.NoError(t, posts.Create(ctx, post))

	got, err := posts.GetByID(ctx, post.ID)
	require.NoError(t, err)
	assert.NotNil(t, got.Likes)
	assert.NotNil(t, got.Comments)
	assert.Empty(t, got.Likes)
}

func TestPostRepository_DeleteRemovesInteractions(t *testing.T) {
	t.Parallel()
	db := setupTestDB(t)
	posts := NewPostRepository(db)
	ctx := context.Background()

	user := createTestUser(t, db, "jane@example.com")
	post := &models.Post{UserID: user.ID, Name: user.Name, Text: "doomed"}
	require.NoError(t, posts.Create(ctx, post))
	require.NoError(t, posts.Like(ctx, post.ID, user.ID))
	require.NoError(t, posts.AddComment(ctx, &models.Comment{PostID: post.ID, UserID: user.ID, Text: "c"}))

	require.NoError(t, posts.Delete(ctx, post.ID))

	_, err := posts.GetByID(ctx, post.ID)
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)

	var count int64
	db.Model(&models.Like{}).Count(&count)
	assert.Zero(t, count)
	db.Model(&models.Comment{}).Count(&count)
	assert.Zero(t, count)
}

func TestProfileRepository_EntriesNewestFirst(t *testing.T) {
	t.Parallel()
	db := setupTestDB(t)
	profiles := NewProfileRepository(db)
	ctx := context.Background()

	user := createTestUser(t, db, "jane@example.com")
	profile := &models.Profile{UserID: user.ID, Status: "Developer", Skills: []string{"Go"}}
	require.NoError(t, profiles.Create(ctx, profile))

	require.NoError(t, profiles.AddExperience(ctx, profile.ID, &models.Experience{Title: "First", Company: "A"}))
	require.NoError(t, profiles.AddExperience(ctx, profile.ID, &models.Experience{Title: "Second", Company: "B"}))

	got, err := profiles.GetByUserID(ctx, user.ID)
	require.NoError(t, err)
	require.Len(t, got.Experience, 2)
	assert.Equal(t, "Second", got.Experience[0].Title)
	assert.Equal(t, "First", got.Experience[1].Title)
	assert.Equal(t, user.Name, got.User.Name)
	// The join is restricted to public columns.
	assert.Empty(t, got.User.Email)
}

func TestProfileRepository_RemoveMissingEntryIsNoop(t *testing.T) {
	t.Parallel()
	db := setupTestDB(t)
	profiles := NewProfileRepository(db)
	ctx := context.Background()

	user := createTestUser(t, db, "jane@example.com")
	profile := &models.Profile{UserID: user.ID, Status: "Developer", Skills: []string{"Go"}}
	require.NoError(t, profiles.Create(ctx, profile))

	assert.NoError(t, profiles.RemoveExperience(ctx, profile.ID, 12345))
	assert.NoError(t, profiles.RemoveEducation(ctx, profile.ID, 12345))
}

func TestProfileRepository_SaveLeavesEntriesAlone(t *testing.T) {
	t.Parallel()
	db := setupTestDB(t)
	profiles := NewProfileRepository(db)
	ctx := context.Background()

	user := createTestUser(t, db, "jane@example.com")
	profile := &models.Profile{UserID: user.ID, Status: "Developer", Skills: []string{"Go"}}
	require.NoError(t, profiles.Create(ctx, profile))
	require.NoError(t, profiles.AddExperience(ctx, profile.ID, &models.Experience{Title: "Dev", Company: "A"}))

	loaded, err := profiles.GetByUserID(ctx, user.ID)
	require.NoError(t, err)
	loaded.Status = "Manager"
	loaded.Skills = []string{"Go", "SQL"}
	require.NoError(t, profiles.Save(ctx, loaded))

	got, err := profiles.GetByUserID(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, "Manager", got.Status)
	assert.Equal(t, []string{"Go", "SQL"}, got.Skills)
	assert.Len(t, got.Experience, 1)
}

func TestUserRepository_GetByEmail_DBError(t *testing.T) {
	t.Parallel()

	sqlDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	db, err := gorm.Open(postgres.New(postgres.Config{Conn: sqlDB}), &gorm.Config{})
	require.NoError(t, err)

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT * FROM "users"`)).
		WillReturnError(assert.AnError)

	repo := NewUserRepository(db)
	user, err := repo.GetByEmail(context.Background(), "jane@example.com")
	assert.Error(t, err)
	assert.Nil(t, user)
	assert.NoError(t, mock.ExpectationsWereMet())
}
