package database

import (
	"context"

	"github.com/rpupo63/blog-admin-backend/models"
	"gorm.io/gorm"
)

type BlogCategoryRepo struct {
	db *gorm.DB
}

func NewBlogCategoryRepo(db *gorm.DB) *BlogCategoryRepo {
	return &BlogCategoryRepo{db}
}

// FindAll returns all blog categories ordered by name
func (r *BlogCategoryRepo) FindAll(ctx context.Context) ([]*models.BlogCategory, error) {
	var categories []*models.BlogCategory
	err := r.db.WithContext(ctx).Order("name").Find(&categories).Error
	return categories, err
}

// Add inserts a new blog category and fills its id
func (r *BlogCategoryRepo) Add(ctx context.Context, category *models.BlogCategory) error {
	return r.db.WithContext(ctx).Create(category).Error
}

// Count returns the number of category rows
func (r *BlogCategoryRepo) Count(ctx context.Context) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&models.BlogCategory{}).Count(&n).Error
	return n, err
}
