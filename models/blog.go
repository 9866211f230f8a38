package models

import (
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type BlogStatus string

const (
	BlogStatusPublished BlogStatus = "Published"
	BlogStatusDraft     BlogStatus = "Draft"
	BlogStatusInActive  BlogStatus = "InActive"
	BlogStatusScheduled BlogStatus = "Scheduled"
)

// Blog is the aggregate root managed by the admin panel.
// Extra holds scalar form fields without a dedicated column.
type Blog struct {
	ID              uint              `json:"id" db:"id" gorm:"primaryKey"`
	Name            string            `json:"name" db:"name" gorm:"type:varchar(191);not null"`
	Slug            string            `json:"slug" db:"slug" gorm:"type:varchar(191);index:idx_blogs_slug"`
	PublishDatetime *time.Time        `json:"publish_datetime,omitempty" db:"publish_datetime"`
	Content         string            `json:"content" db:"content" gorm:"type:text"`
	MetaTitle       *string           `json:"meta_title,omitempty" db:"meta_title" gorm:"type:varchar(191)"`
	CannonicalLink  *string           `json:"cannonical_link,omitempty" db:"cannonical_link" gorm:"type:varchar(191)"`
	MetaKeywords    *string           `json:"meta_keywords,omitempty" db:"meta_keywords" gorm:"type:varchar(191)"`
	MetaDescription *string           `json:"meta_description,omitempty" db:"meta_description" gorm:"type:text"`
	Status          BlogStatus        `json:"status" db:"status" gorm:"type:varchar(20);not null;default:Published"`
	FeaturedImage   *string           `json:"featured_image,omitempty" db:"featured_image" gorm:"type:varchar(191)"`
	Extra           datatypes.JSONMap `json:"extra,omitempty" db:"extra"`
	CreatedBy       uint              `json:"created_by" db:"created_by" gorm:"not null"`
	UpdatedBy       *uint             `json:"updated_by,omitempty" db:"updated_by"`
	CreatedAt       time.Time         `json:"created_at" db:"created_at"`
	UpdatedAt       time.Time         `json:"updated_at" db:"updated_at"`
	DeletedAt       gorm.DeletedAt    `json:"-" db:"deleted_at" gorm:"index"`

	Tags       []BlogTag      `json:"tags,omitempty" gorm:"many2many:blog_map_tags;joinForeignKey:BlogID;joinReferences:TagID"`
	Categories []BlogCategory `json:"categories,omitempty" gorm:"many2many:blog_map_categories;joinForeignKey:BlogID;joinReferences:CategoryID"`
}

// TagIDs returns the ids of the preloaded tags.
func (b *Blog) TagIDs() []uint {
	ids := make([]uint, 0, len(b.Tags))
	for _, t := range b.Tags {
		ids = append(ids, t.ID)
	}
	return ids
}

// CategoryIDs returns the ids of the preloaded categories.
func (b *Blog) CategoryIDs() []uint {
	ids := make([]uint, 0, len(b.Categories))
	for _, c := range b.Categories {
		ids = append(ids, c.ID)
	}
	return ids
}

// BlogListItem is the listing projection joined with the creator's name.
type BlogListItem struct {
	ID              uint       `json:"id"`
	Name            string     `json:"name"`
	PublishDatetime *time.Time `json:"publish_datetime"`
	Status          BlogStatus `json:"status"`
	CreatedBy       uint       `json:"created_by"`
	CreatedAt       time.Time  `json:"created_at"`
	UserName        *string    `json:"user_name"`
}
