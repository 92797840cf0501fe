package db

import (
	"fmt"

	"gorm.io/gorm"

	"realestate/internal/model"
)

// models are listed parents first so foreign keys resolve on create.
func models() []interface{} {
	return []interface{}{
		&model.User{},
		&model.Category{},
		&model.Property{},
		&model.PropertyImage{},
		&model.Favorite{},
	}
}

// Migrate creates or updates every table.
func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(models()...); err != nil {
		return fmt.Errorf("auto-migrate: %w", err)
	}
	return nil
}

// Reset drops every table, children first. Missing tables are skipped.
func Reset(db *gorm.DB) error {
	tables := models()
	for i := len(tables) - 1; i >= 0; i-- {
		if !db.Migrator().HasTable(tables[i]) {
			continue
		}
		if err := db.Migrator().DropTable(tables[i]); err != nil {
			return fmt.Errorf("drop table: %w", err)
		}
	}
	return nil
}
