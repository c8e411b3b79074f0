package repository

import (
	"fmt"

	"github.com/example/storefront/pkg/config"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"

	"github.com/example/storefront/pkg/models"
)

// OpenMySQL connects to MySQL and migrates the schema.
func OpenMySQL(cfg *config.MySQLConfig) (*gorm.DB, error) {
	db, err := gorm.Open(mysql.Open(cfg.DSN()), &gorm.Config{
		TranslateError: true,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to MySQL: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to access connection pool: %w", err)
	}
	if cfg.MaxIdleConns > 0 {
		sqlDB.SetMaxIdleConns(cfg.MaxIdleConns)
	}
	if cfg.MaxOpenConns > 0 {
		sqlDB.SetMaxOpenConns(cfg.MaxOpenConns)
	}

	if err := db.AutoMigrate(
		&models.User{},
		&models.UserAddress{},
		&models.Product{},
		&models.Order{},
		&models.OrderItem{},
		&models.OrderNote{},
	); err != nil {
		return nil, fmt.Errorf("failed to migrate: %w", err)
	}

	return db, nil
}
