package models

import "time"

// Status value of active tags and categories.
const TaxonomyStatusActive = 1

// BlogTag is a free-form label attached to blogs through blog_map_tags.
type BlogTag struct {
	ID        uint      `json:"id" db:"id" gorm:"primaryKey"`
	Name      string    `json:"name" db:"name" gorm:"type:varchar(191);not null"`
	Status    int       `json:"status" db:"status" gorm:"not null;default:1"`
	CreatedBy uint      `json:"created_by" db:"created_by" gorm:"not null"`
	UpdatedBy *uint     `json:"updated_by,omitempty" db:"updated_by"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
}

// BlogCategory groups blogs through blog_map_categories.
type BlogCategory struct {
	ID        uint      `json:"id" db:"id" gorm:"primaryKey"`
	Name      string    `json:"name" db:"name" gorm:"type:varchar(191);not null"`
	Status    int       `json:"status" db:"status" gorm:"not null;default:1"`
	CreatedBy uint      `json:"created_by" db:"created_by" gorm:"not null"`
	UpdatedBy *uint     `json:"updated_by,omitempty" db:"updated_by"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
}

// BlogMapTag is one edge of the blog/tag relation.
type BlogMapTag struct {
	BlogID uint `json:"blog_id" db:"blog_id" gorm:"primaryKey;autoIncrement:false"`
	TagID  uint `json:"tag_id" db:"tag_id" gorm:"primaryKey;autoIncrement:false"`
}

// BlogMapCategory is one edge of the blog/category relation.
type BlogMapCategory struct {
	BlogID     uint `json:"blog_id" db:"blog_id" gorm:"primaryKey;autoIncrement:false"`
	CategoryID uint `json:"category_id" db:"category_id" gorm:"primaryKey;autoIncrement:false"`
}
