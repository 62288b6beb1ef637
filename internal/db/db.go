// Package db provides database connection management
package db

import (
	"time"

	"github.com/humanid-dev/humanid/internal/config"
	"github.com/humanid-dev/humanid/internal/issuer"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// Connect establishes a connection to PostgreSQL using GORM
// Configures connection pooling for production use
func Connect(cfg config.DatabaseConfig) (*gorm.DB, error) {
	// Configure GORM. TranslateError maps driver unique-violation errors to
	// gorm.ErrDuplicatedKey, which the issuer relies on for collision retry.
	gormConfig := &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Warn),
		TranslateError: true,
		NowFunc: func() time.Time {
			return time.Now().UTC()
		},
	}

	// Open connection
	db, err := gorm.Open(postgres.Open(cfg.URL), gormConfig)
	if err != nil {
		return nil, err
	}

	// Get underlying sql.DB for connection pool configuration
	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}

	// Configure connection pool
	sqlDB.SetMaxOpenConns(25)
	sqlDB.SetMaxIdleConns(5)
	sqlDB.SetConnMaxLifetime(5 * time.Minute)
	sqlDB.SetConnMaxIdleTime(10 * time.Minute)

	// Verify connection
	if err := sqlDB.Ping(); err != nil {
		return nil, err
	}

	return db, nil
}

// Migrate creates or updates the issuance ledger schema
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(&issuer.Issuance{})
}

// HealthCheck verifies the database connection is alive
func HealthCheck(db *gorm.DB) error {
	sqlDB, err := db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Ping()
}
