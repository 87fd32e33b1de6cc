package db

import (
	"fmt"

	"gorm.io/gorm"

	"github.com/sentinelbot/sentinel/internal/models"
)

// Migrate applies schema migrations for all persisted models.
func Migrate(conn *gorm.DB) error {
	if conn == nil {
		return fmt.Errorf("db: nil connection")
	}
	if err := conn.AutoMigrate(&models.SettingsDocument{}); err != nil {
		return fmt.Errorf("db: migrate: %w", err)
	}
	return nil
}
