package services

import (
	"context"
	"testing"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/T-Man-05/diacare-sub000/internal/database"
)

// testNow is a fixed Wednesday morning used wherever services need a clock.
var testNow = time.Date(2024, 8, 14, 10, 30, 0, 0, time.Local)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)

	// The in-memory database exists per connection, so the pool must not
	// open a second one.
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, db.AutoMigrate(
		&database.User{},
		&database.Session{},
		&database.DiabeticProfile{},
		&database.Settings{},
		&database.Reminder{},
		&database.GlucoseReading{},
		&database.HealthCardMetric{},
	))
	return db
}

func createTestUser(t *testing.T, db *gorm.DB, email string) *database.User {
	t.Helper()

	user, err := NewAccountService(db).Register(context.Background(), email, "secret123", "testuser")
	require.NoError(t, err)
	return user
}
