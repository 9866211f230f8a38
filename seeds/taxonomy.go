package seeds

import (
	"context"
	_ "embed"
	"fmt"

	"github.com/rpupo63/blog-admin-backend/models"
	"gopkg.in/yaml.v3"
	"gorm.io/gorm"
)

//go:embed data/taxonomy.yaml
var taxonomyYAML []byte

type taxonomyData struct {
	Tags       []string `yaml:"tags"`
	Categories []string `yaml:"categories"`
}

// BlogTaxonomySeeder loads the default tags and categories.
type BlogTaxonomySeeder struct{}

func (BlogTaxonomySeeder) Name() string { return "BlogTaxonomySeeder" }

func (BlogTaxonomySeeder) Run(ctx context.Context, db *gorm.DB) error {
	var data taxonomyData
	if err := yaml.Unmarshal(taxonomyYAML, &data); err != nil {
		return fmt.Errorf("parse taxonomy seed data: %w", err)
	}

	if err := truncate(db, "blog_tags", "blog_categories"); err != nil {
		return err
	}

	for _, name := range data.Tags {
		tag := models.BlogTag{Name: name, Status: models.TaxonomyStatusActive, CreatedBy: 1}
		if err := db.Create(&tag).Error; err != nil {
			return err
		}
	}
	for _, name := range data.Categories {
		category := models.BlogCategory{Name: name, Status: models.TaxonomyStatusActive, CreatedBy: 1}
		if err := db.Create(&category).Error; err != nil {
			return err
		}
	}
	return nil
}
