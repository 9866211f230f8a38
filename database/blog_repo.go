package database

import (
	"context"
	"strings"

	"github.com/rpupo63/blog-admin-backend/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

const (
	DefaultPerPage = 25
	MaxPerPage     = 100
)

// sortable maps accepted order_by values to projection columns.
var sortable = map[string]clause.Column{
	"id":               {Table: "blogs", Name: "id"},
	"name":             {Table: "blogs", Name: "name"},
	"publish_datetime": {Table: "blogs", Name: "publish_datetime"},
	"status":           {Table: "blogs", Name: "status"},
	"created_by":       {Table: "blogs", Name: "created_by"},
	"created_at":       {Table: "blogs", Name: "created_at"},
	"user_name":        {Table: "users", Name: "first_name"},
}

// ListParams selects one page of the blog listing.
type ListParams struct {
	Page    int
	PerPage int
	OrderBy string
	Sort    string
}

// Normalize fills defaults and clamps values the listing cannot honor.
func (p ListParams) Normalize() ListParams {
	if p.Page < 1 {
		p.Page = 1
	}
	if p.PerPage < 1 {
		p.PerPage = DefaultPerPage
	}
	if p.PerPage > MaxPerPage {
		p.PerPage = MaxPerPage
	}
	if _, ok := sortable[p.OrderBy]; !ok {
		p.OrderBy = "created_at"
	}
	p.Sort = strings.ToLower(p.Sort)
	if p.Sort != "asc" {
		p.Sort = "desc"
	}
	return p
}

type BlogPage struct {
	Items    []models.BlogListItem `json:"data"`
	Total    int64                 `json:"total"`
	Page     int                   `json:"current_page"`
	PerPage  int                   `json:"per_page"`
	LastPage int                   `json:"last_page"`
}

// SyncResult reports the association changes made by a sync.
type SyncResult struct {
	Attached []uint `json:"attached"`
	Detached []uint `json:"detached"`
}

type BlogRepo struct {
	db *gorm.DB
}

func NewBlogRepo(db *gorm.DB) *BlogRepo {
	return &BlogRepo{db}
}

// FindByID returns a blog with its tags and categories
func (r *BlogRepo) FindByID(ctx context.Context, id uint) (*models.Blog, error) {
	var blog models.Blog
	err := r.db.WithContext(ctx).
		Preload("Tags").
		Preload("Categories").
		First(&blog, id).Error
	if err != nil {
		return nil, err
	}
	return &blog, nil
}

// Create inserts the blog row only; associations are handled by the sync methods
func (r *BlogRepo) Create(ctx context.Context, blog *models.Blog) error {
	return r.db.WithContext(ctx).Omit(clause.Associations).Create(blog).Error
}

// Update saves every column of the blog row
func (r *BlogRepo) Update(ctx context.Context, blog *models.Blog) error {
	return r.db.WithContext(ctx).Omit(clause.Associations).Save(blog).Error
}

// Delete soft deletes the blog and reports how many rows were affected
func (r *BlogRepo) Delete(ctx context.Context, id uint) (int64, error) {
	result := r.db.WithContext(ctx).Delete(&models.Blog{}, id)
	return result.RowsAffected, result.Error
}

// DeleteMappings removes every tag and category edge of the blog
func (r *BlogRepo) DeleteMappings(ctx context.Context, blogID uint) error {
	db := r.db.WithContext(ctx)
	if err := db.Where("blog_id = ?", blogID).Delete(&models.BlogMapCategory{}).Error; err != nil {
		return err
	}
	return db.Where("blog_id = ?", blogID).Delete(&models.BlogMapTag{}).Error
}

func (r *BlogRepo) listQuery(ctx context.Context) *gorm.DB {
	return r.db.WithContext(ctx).
		Model(&models.Blog{}).
		Select("blogs.id, blogs.name, blogs.publish_datetime, blogs.status, blogs.created_by, blogs.created_at, users.first_name AS user_name").
		Joins("LEFT JOIN users ON users.id = blogs.created_by")
}

// Paginate returns one ordered page of the listing projection
func (r *BlogRepo) Paginate(ctx context.Context, params ListParams) (*BlogPage, error) {
	params = params.Normalize()

	var total int64
	if err := r.db.WithContext(ctx).Model(&models.Blog{}).Count(&total).Error; err != nil {
		return nil, err
	}

	items := []models.BlogListItem{}
	err := r.listQuery(ctx).
		Order(clause.OrderByColumn{Column: sortable[params.OrderBy], Desc: params.Sort == "desc"}).
		Offset((params.Page - 1) * params.PerPage).
		Limit(params.PerPage).
		Scan(&items).Error
	if err != nil {
		return nil, err
	}

	lastPage := int((total + int64(params.PerPage) - 1) / int64(params.PerPage))
	if lastPage < 1 {
		lastPage = 1
	}

	return &BlogPage{
		Items:    items,
		Total:    total,
		Page:     params.Page,
		PerPage:  params.PerPage,
		LastPage: lastPage,
	}, nil
}

// ListForTable returns the whole listing projection, newest first
func (r *BlogRepo) ListForTable(ctx context.Context) ([]models.BlogListItem, error) {
	items := []models.BlogListItem{}
	err := r.listQuery(ctx).
		Order(clause.OrderByColumn{Column: sortable["created_at"], Desc: true}).
		Scan(&items).Error
	return items, err
}

// SyncTags makes the blog's tag set equal to ids
func (r *BlogRepo) SyncTags(ctx context.Context, blogID uint, ids []uint) (SyncResult, error) {
	db := r.db.WithContext(ctx)

	var current []uint
	if err := db.Model(&models.BlogMapTag{}).Where("blog_id = ?", blogID).Pluck("tag_id", &current).Error; err != nil {
		return SyncResult{}, err
	}

	result := diffIDs(current, ids)
	if len(result.Detached) > 0 {
		err := db.Where("blog_id = ? AND tag_id IN ?", blogID, result.Detached).Delete(&models.BlogMapTag{}).Error
		if err != nil {
			return SyncResult{}, err
		}
	}
	if len(result.Attached) > 0 {
		rows := make([]models.BlogMapTag, 0, len(result.Attached))
		for _, id := range result.Attached {
			rows = append(rows, models.BlogMapTag{BlogID: blogID, TagID: id})
		}
		if err := db.Create(&rows).Error; err != nil {
			return SyncResult{}, err
		}
	}
	return result, nil
}

// SyncCategories makes the blog's category set equal to ids
func (r *BlogRepo) SyncCategories(ctx context.Context, blogID uint, ids []uint) (SyncResult, error) {
	db := r.db.WithContext(ctx)

	var current []uint
	if err := db.Model(&models.BlogMapCategory{}).Where("blog_id = ?", blogID).Pluck("category_id", &current).Error; err != nil {
		return SyncResult{}, err
	}

	result := diffIDs(current, ids)
	if len(result.Detached) > 0 {
		err := db.Where("blog_id = ? AND category_id IN ?", blogID, result.Detached).Delete(&models.BlogMapCategory{}).Error
		if err != nil {
			return SyncResult{}, err
		}
	}
	if len(result.Attached) > 0 {
		rows := make([]models.BlogMapCategory, 0, len(result.Attached))
		for _, id := range result.Attached {
			rows = append(rows, models.BlogMapCategory{BlogID: blogID, CategoryID: id})
		}
		if err := db.Create(&rows).Error; err != nil {
			return SyncResult{}, err
		}
	}
	return result, nil
}

// diffIDs compares the current and desired id sets. Duplicates in desired are ignored.
func diffIDs(current, desired []uint) SyncResult {
	have := make(map[uint]bool, len(current))
	for _, id := range current {
		have[id] = true
	}

	want := make(map[uint]bool, len(desired))
	result := SyncResult{Attached: []uint{}, Detached: []uint{}}
	for _, id := range desired {
		if want[id] {
			continue
		}
		want[id] = true
		if !have[id] {
			result.Attached = append(result.Attached, id)
		}
	}
	for _, id := range current {
		if !want[id] {
			result.Detached = append(result.Detached, id)
		}
	}
	return result
}
