package db

import (
	"github.com/ikkim/stores-rest-api/internal/app/model"
	"github.com/ikkim/stores-rest-api/pkg/logger"
	"gorm.io/gorm"
)

// Models lists every table owned by the API. The items_tags join table is
// created through the Item/Tag many2many association.
func Models() []interface{} {
	return []interface{}{
		&model.User{},
		&model.Store{},
		&model.Item{},
		&model.Tag{},
		&model.RevokedToken{},
	}
}

// Migrate runs database migrations on the global connection
func Migrate() error {
	return MigrateDB(DB)
}

func MigrateDB(conn *gorm.DB) error {
	logger.Info("Running database migrations...")

	models := Models()
	if err := conn.AutoMigrate(models...); err != nil {
		logger.Error("Failed to run migrations", err)
		return err
	}

	logger.Info("Database migrations completed successfully", map[string]interface{}{
		"models_count": len(models),
	})
	return nil
}
