package db

import (
	"fmt"

	"github.com/ikkim/stores-rest-api/config"
	appLogger "github.com/ikkim/stores-rest-api/pkg/logger"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

var DB *gorm.DB

// Initialize opens the database for the configured driver
func Initialize(cfg *config.DatabaseConfig) error {
	appLogger.Info("Connecting to database", map[string]interface{}{
		"driver":   cfg.Driver,
		"host":     cfg.Host,
		"port":     cfg.Port,
		"database": cfg.DBName,
	})

	var dialector gorm.Dialector
	switch cfg.Driver {
	case "sqlite":
		dialector = sqlite.Open(cfg.DSN())
	default:
		dialector = postgres.Open(cfg.DSN())
	}

	conn, err := Open(dialector)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	DB = conn

	sqlDB, err := DB.DB()
	if err != nil {
		return fmt.Errorf("failed to get database instance: %w", err)
	}

	if cfg.Driver == "sqlite" {
		// sqlite allows a single writer
		sqlDB.SetMaxOpenConns(1)
	} else {
		sqlDB.SetMaxIdleConns(10)
		sqlDB.SetMaxOpenConns(100)
	}

	appLogger.Info("Database connection established successfully", map[string]interface{}{
		"driver": cfg.Driver,
	})
	return nil
}

// Open returns a gorm handle with the settings shared by the server and tests.
// TranslateError lets repositories match gorm.ErrDuplicatedKey.
func Open(dialector gorm.Dialector) (*gorm.DB, error) {
	return gorm.Open(dialector, &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
}

// Close closes the database connection
func Close() error {
	sqlDB, err := DB.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

// GetDB returns the database instance
func GetDB() *gorm.DB {
	return DB
}
