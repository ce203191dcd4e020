package migration

import (
	"Recipe-Platform/entities"
	"Recipe-Platform/internal/utils/logging"
	"fmt"

	"gorm.io/gorm"
)

func Migrate(db *gorm.DB) error {
	if err := db.Exec(`CREATE EXTENSION IF NOT EXISTS "uuid-ossp";`).Error; err != nil {
		return fmt.Errorf("error creating uuid-ossp extension: %w", err)
	}

	models := []struct {
		name  string
		model any
	}{
		{"user", &entities.User{}},
		{"session", &entities.Session{}},
		{"recipe", &entities.Recipe{}},
		{"saved recipe", &entities.SavedRecipe{}},
		{"recipe view", &entities.RecipeView{}},
		{"comment", &entities.Comment{}},
		{"rating", &entities.Rating{}},
		{"notification", &entities.Notification{}},
		{"notification preference", &entities.NotificationPreference{}},
		{"audit log", &entities.AuditLog{}},
	}
	for _, m := range models {
		if err := db.AutoMigrate(m.model); err != nil {
			return fmt.Errorf("error migrating %s table: %w", m.name, err)
		}
	}

	logging.Info().Int("tables", len(models)).Msg("database migration complete")
	return nil
}
