package database

import (
	"fmt"

	"github.com/rpupo63/blog-admin-backend/models"
	"gorm.io/gorm"
)

// Migrate creates or updates every table, including the explicit join tables.
func Migrate(db *gorm.DB) error {
	joins := []struct {
		model     interface{}
		field     string
		joinTable interface{}
	}{
		{&models.Blog{}, "Tags", &models.BlogMapTag{}},
		{&models.Blog{}, "Categories", &models.BlogMapCategory{}},
	}
	for _, j := range joins {
		if err := db.SetupJoinTable(j.model, j.field, j.joinTable); err != nil {
			return fmt.Errorf("setup join table for %s: %w", j.field, err)
		}
	}

	if err := db.AutoMigrate(models.All()...); err != nil {
		return fmt.Errorf("error during models migration: %w", err)
	}
	return nil
}
