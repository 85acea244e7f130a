package database

import (
	"fmt"
	"log/slog"

	"gorm.io/gorm"

	"github.com/pageza/smartmeal/backend/internal/model"
)

// RunMigrations creates or updates the meal tables with GORM auto-migration.
// Production postgres schemas are managed by cmd/migrate instead.
func RunMigrations(db *gorm.DB) error {
	slog.Debug("running auto-migration", "dialect", db.Dialector.Name())
	if err := db.AutoMigrate(&model.Meal{}, &model.MealFavorite{}); err != nil {
		return fmt.Errorf("failed to migrate meal tables: %w", err)
	}
	return nil
}
