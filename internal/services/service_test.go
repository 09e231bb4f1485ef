// internal/services/service_test.go
package services

import (
	"fmt"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/ratepoint/storeratings-backend/internal/config"
	"github.com/ratepoint/storeratings-backend/internal/models"
)

// testAppConfig carries no AWS credentials, so storage falls back to
// the local filesystem.
func testAppConfig() *config.Config {
	return &config.Config{
		Environment: "test",
		Server:      config.ServerConfig{Host: "localhost", Port: "8080"},
		JWT: config.JWTConfig{
			SecretKey:       "test-secret",
			AccessTokenTTL:  1,
			RefreshTokenTTL: 24,
		},
	}
}

// setupTestDB opens an isolated in-memory database per test. IDs are
// generated in the application, so the schema migrates cleanly here
// and on Postgres alike.
func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	require.NoError(t, err)

	require.NoError(t, db.AutoMigrate(
		&models.User{},
		&models.Store{},
		&models.Rating{},
		&models.AuditLog{},
	))

	return db
}

func createTestUser(t *testing.T, db *gorm.DB, role models.UserRole, email string) *models.User {
	t.Helper()

	user := &models.User{
		Name:    "Test Account With A Long Enough Name",
		Email:   email,
		Address: "1 Test Street, Test City",
		Role:    role,
	}
	require.NoError(t, user.SetPassword("Passw0rd!"))
	require.NoError(t, db.Create(user).Error)
	return user
}

func createTestStore(t *testing.T, db *gorm.DB, name string, ownerID *uuid.UUID) *models.Store {
	t.Helper()

	store := &models.Store{
		Name:    name,
		Address: "2 Market Street, Test City",
		OwnerID: ownerID,
	}
	require.NoError(t, db.Create(store).Error)
	return store
}

func createTestRating(t *testing.T, db *gorm.DB, userID, storeID uuid.UUID, value int, comment string) *models.Rating {
	t.Helper()

	rating := &models.Rating{
		UserID:  userID,
		StoreID: storeID,
		Rating:  value,
		Comment: comment,
	}
	require.NoError(t, db.Create(rating).Error)
	return rating
}
