package database

import (
	"context"

	"github.com/rpupo63/blog-admin-backend/models"
	"gorm.io/gorm"
)

type BlogTagRepo struct {
	db *gorm.DB
}

func NewBlogTagRepo(db *gorm.DB) *BlogTagRepo {
	return &BlogTagRepo{db}
}

// FindAll returns all blog tags ordered by name
func (r *BlogTagRepo) FindAll(ctx context.Context) ([]*models.BlogTag, error) {
	var blogTags []*models.BlogTag
	err := r.db.WithContext(ctx).Order("name").Find(&blogTags).Error
	return blogTags, err
}

// Add inserts a new blog tag and fills its id
func (r *BlogTagRepo) Add(ctx context.Context, blogTag *models.BlogTag) error {
	return r.db.WithContext(ctx).Create(blogTag).Error
}

// Count returns the number of tag rows
func (r *BlogTagRepo) Count(ctx context.Context) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&models.BlogTag{}).Count(&n).Error
	return n, err
}
