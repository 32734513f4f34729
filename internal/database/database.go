// Package database opens the GORM connection and prepares the schema.
package database

import (
	"fmt"
	"time"

	"storefront/internal/models"

	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

const (
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
)

// Open connects to the database selected by driver and migrates the schema.
func Open(driver, dsn string) (*gorm.DB, error) {
	var dialector gorm.Dialector
	switch driver {
	case DriverSQLite:
		dialector = sqlite.Open(dsn)
	case DriverPostgres:
		dialector = postgres.Open(dsn)
	default:
		return nil, fmt.Errorf("unsupported database driver %q", driver)
	}

	db, err := gorm.Open(dialector, &gorm.Config{
		TranslateError: true,
		NowFunc:        func() time.Time { return time.Now().UTC() },
		Logger:         logger.Default.LogMode(logger.Warn),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to %s database: %w", driver, err)
	}

	if err := Migrate(db); err != nil {
		return nil, err
	}
	return db, nil
}

// Migrate registers the junction tables and auto-migrates every model.
func Migrate(db *gorm.DB) error {
	if err := db.SetupJoinTable(&models.Collection{}, "Products", &models.CollectionProduct{}); err != nil {
		return fmt.Errorf("failed to set up collection_products join table: %w", err)
	}
	err := db.AutoMigrate(
		&models.User{},
		&models.Product{},
		&models.Review{},
		&models.Order{},
		&models.OrderPosition{},
		&models.Collection{},
		&models.CollectionProduct{},
	)
	if err != nil {
		return fmt.Errorf("failed to auto-migrate database: %w", err)
	}
	return nil
}
