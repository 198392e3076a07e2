package database

import (
	"fmt"

	"fundflow/internal/models"

	"gorm.io/gorm"
)

// AutoMigrate runs database schema migrations for all models.
func AutoMigrate(db *gorm.DB) error {
	if err := db.AutoMigrate(
		&models.Transaction{},
		&models.ImportBatch{},
	); err != nil {
		return fmt.Errorf("auto migrate: %w", err)
	}
	return nil
}
