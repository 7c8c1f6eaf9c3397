package database

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"github.com/foodgram/backend/internal/log"
	"github.com/foodgram/backend/internal/models"
)

// Migrate creates or updates every table through gorm. Production postgres
// deployments may use cmd/migrate instead; the resulting schema is the same.
func Migrate(db *gorm.DB) error {
	log.Info(context.Background(), "running auto-migration", "dialect", db.Dialector.Name())
	if err := db.AutoMigrate(models.All()...); err != nil {
		return fmt.Errorf("failed to migrate database: %w", err)
	}
	return nil
}
