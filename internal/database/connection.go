// internal/database/connection.go
package database

import (
	"fmt"
	"time"

	"github.com/sirupsen/logrus"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/ratepoint/storeratings-backend/internal/config"
	"github.com/ratepoint/storeratings-backend/internal/models"
)

func Initialize(cfg config.DatabaseConfig) (*gorm.DB, error) {
	var gormConfig *gorm.Config

	// Configure GORM logger; TranslateError turns driver unique
	// violations into gorm.ErrDuplicatedKey for the service layer.
	if cfg.LogLevel == "silent" {
		gormConfig = &gorm.Config{
			Logger:         logger.Default.LogMode(logger.Silent),
			TranslateError: true,
		}
	} else {
		gormConfig = &gorm.Config{
			Logger:         logger.Default.LogMode(logger.Info),
			TranslateError: true,
		}
	}

	// Connect to database
	db, err := gorm.Open(postgres.Open(cfg.DSN()), gormConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	// Get underlying sql.DB
	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get underlying sql.DB: %w", err)
	}

	// Configure connection pool
	sqlDB.SetMaxOpenConns(cfg.MaxOpenConns)
	sqlDB.SetMaxIdleConns(cfg.MaxIdleConns)
	sqlDB.SetConnMaxLifetime(time.Duration(cfg.MaxLifetime) * time.Second)

	// Test connection
	if err := sqlDB.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	logrus.Info("Database connection established")
	return db, nil
}

func Close(db *gorm.DB) {
	sqlDB, err := db.DB()
	if err != nil {
		logrus.WithError(err).Error("Error getting underlying sql.DB")
		return
	}

	if err := sqlDB.Close(); err != nil {
		logrus.WithError(err).Error("Error closing database connection")
	} else {
		logrus.Info("Database connection closed")
	}
}

func RunMigrations(db *gorm.DB) error {
	logrus.Info("Running database migrations...")

	err := db.AutoMigrate(
		&models.User{},
		&models.Store{},
		&models.Rating{},
		&models.AuditLog{},
	)

	if err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	// Create indexes
	if err := createIndexes(db); err != nil {
		return fmt.Errorf("failed to create indexes: %w", err)
	}

	logrus.Info("Database migrations completed")
	return nil
}

func createIndexes(db *gorm.DB) error {
	indexes := []string{
		// User indexes
		"CREATE INDEX IF NOT EXISTS idx_users_name_lower ON users(LOWER(name))",
		"CREATE INDEX IF NOT EXISTS idx_users_email_lower ON users(LOWER(email))",
		"CREATE INDEX IF NOT EXISTS idx_users_created_at ON users(created_at DESC)",

		// Store indexes
		"CREATE INDEX IF NOT EXISTS idx_stores_name_lower ON stores(LOWER(name))",
		"CREATE INDEX IF NOT EXISTS idx_stores_address_lower ON stores(LOWER(address))",
		"CREATE INDEX IF NOT EXISTS idx_stores_created_at ON stores(created_at DESC)",

		// Rating indexes; the unique pair index is the storage-level
		// guarantee behind the one-rating-per-(user,store) invariant.
		"CREATE UNIQUE INDEX IF NOT EXISTS idx_ratings_user_store ON ratings(user_id, store_id)",
		"CREATE INDEX IF NOT EXISTS idx_ratings_created_at ON ratings(created_at DESC)",

		// Audit log indexes
		"CREATE INDEX IF NOT EXISTS idx_audit_logs_user_action ON audit_logs(user_id, action)",
		"CREATE INDEX IF NOT EXISTS idx_audit_logs_created ON audit_logs(created_at DESC)",
	}

	for _, index := range indexes {
		if err := db.Exec(index).Error; err != nil {
			logrus.WithError(err).Warnf("Failed to create index: %s", index)
			// Continue with other indexes instead of failing completely
		}
	}

	return nil
}

// SeedDemoData creates the demo accounts and sample stores used by the
// frontend's demo login buttons. Safe to call repeatedly.
func SeedDemoData(db *gorm.DB) error {
	logrus.Info("Seeding demo data...")

	type demoAccount struct {
		name     string
		email    string
		password string
		address  string
		role     models.UserRole
	}

	accounts := []demoAccount{
		{
			name:     "System Administrator Demo Account",
			email:    "admin@store.com",
			password: "Admin123!",
			address:  "123 Admin Street, Admin City, AC 12345",
			role:     models.RoleSystemAdmin,
		},
		{
			name:     "Store Owner Demo Account User",
			email:    "owner@store.com",
			password: "Owner123!",
			address:  "456 Owner Street, Owner City, OC 67890",
			role:     models.RoleStoreOwner,
		},
		{
			name:     "Normal User Demo Account User",
			email:    "user@store.com",
			password: "User123!",
			address:  "789 User Street, User City, UC 13579",
			role:     models.RoleNormalUser,
		},
	}

	for _, account := range accounts {
		var count int64
		db.Model(&models.User{}).Where("email = ?", account.email).Count(&count)
		if count > 0 {
			continue
		}

		user := &models.User{
			Name:    account.name,
			Email:   account.email,
			Address: account.address,
			Role:    account.role,
		}
		if err := user.SetPassword(account.password); err != nil {
			return fmt.Errorf("failed to set demo password: %w", err)
		}
		if err := db.Create(user).Error; err != nil {
			return fmt.Errorf("failed to create demo account %s: %w", account.email, err)
		}
		logrus.Infof("Created demo %s: %s", account.role, account.email)
	}

	// Sample stores for the demo store owner
	var owner models.User
	if err := db.Where("email = ?", "owner@store.com").First(&owner).Error; err != nil {
		return nil
	}

	var storeCount int64
	db.Model(&models.Store{}).Where("owner_id = ?", owner.ID).Count(&storeCount)
	if storeCount > 0 {
		return nil
	}

	stores := []models.Store{
		{Name: "EcoMart", Email: strPtr("ecomart@store.com"), Address: "123 Green Street, Eco City, EC 12345", OwnerID: &owner.ID},
		{Name: "Organic Foods", Email: strPtr("organic@store.com"), Address: "456 Nature Road, Organic City, OC 67890", OwnerID: &owner.ID},
		{Name: "Sustainable Living", Email: strPtr("sustainable@store.com"), Address: "789 Eco Avenue, Green City, GC 13579", OwnerID: &owner.ID},
	}
	for i := range stores {
		if err := db.Create(&stores[i]).Error; err != nil {
			return fmt.Errorf("failed to create demo store %s: %w", stores[i].Name, err)
		}
	}

	// A couple of sample ratings from the demo user
	var user models.User
	if err := db.Where("email = ?", "user@store.com").First(&user).Error; err == nil {
		ratings := []models.Rating{
			{UserID: user.ID, StoreID: stores[0].ID, Rating: 5, Comment: "Great eco-friendly products!"},
			{UserID: user.ID, StoreID: stores[1].ID, Rating: 4, Comment: "Good selection of organic items"},
		}
		for i := range ratings {
			if err := db.Create(&ratings[i]).Error; err != nil {
				logrus.WithError(err).Warn("Failed to create demo rating")
			}
		}
	}

	logrus.Info("Demo data seeding completed")
	return nil
}

func strPtr(s string) *string {
	return &s
}

// Transaction helper
func WithTransaction(db *gorm.DB, fn func(*gorm.DB) error) error {
	tx := db.Begin()
	if tx.Error != nil {
		return tx.Error
	}

	defer func() {
		if r := recover(); r != nil {
			tx.Rollback()
			panic(r)
		}
	}()

	if err := fn(tx); err != nil {
		tx.Rollback()
		return err
	}

	return tx.Commit().Error
}
