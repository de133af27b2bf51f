package repository_test

import (
	"testing"
	"time"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/stablemate/stablemate/internal/db"
)

// setupTestDB opens an in-memory sqlite DB with the full schema.
func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	database, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		NowFunc:        func() time.Time { return time.Now().UTC().Truncate(time.Millisecond) },
		TranslateError: true,
	})
	if err != nil {
		t.Fatalf("failed to open sqlite: %v", err)
	}
	if err := db.Migrate(database); err != nil {
		t.Fatalf("failed to migrate: %v", err)
	}
	return database
}

// seedUser inserts a user with placeholder credentials.
func seedUser(t *testing.T, database *gorm.DB, username string) *db.User {
	t.Helper()
	user := &db.User{
		Username:     username,
		Email:        username + "@test.com",
		PasswordHash: "x",
	}
	if err := database.Create(user).Error; err != nil {
		t.Fatalf("failed to seed user %s: %v", username, err)
	}
	return user
}

// seedHorse inserts a horse owned by the given user.
func seedHorse(t *testing.T, database *gorm.DB, ownerID uint64, name string) *db.Horse {
	t.Helper()
	horse := &db.Horse{
		Name:     name,
		Breed:    "Arabian",
		Age:      6,
		Color:    "bay",
		Location: "Kentucky",
		OwnerID:  ownerID,
	}
	if err := database.Create(horse).Error; err != nil {
		t.Fatalf("failed to seed horse %s: %v", name, err)
	}
	return horse
}
