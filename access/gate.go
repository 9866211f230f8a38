// Package access answers whether a user holds a capability.
package access

import (
	"context"

	"github.com/rpupo63/blog-admin-backend/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// ManageBlogs is required for every blog admin route.
const ManageBlogs = "view-blog"

type Gate struct {
	db *gorm.DB
}

func NewGate(db *gorm.DB) *Gate {
	return &Gate{db: db}
}

// Allow reports whether any role of the user grants the capability,
// either through an attached permission or the role's all flag.
func (g *Gate) Allow(ctx context.Context, userID uint, capability string) (bool, error) {
	if userID == 0 {
		return false, nil
	}

	grantsAll := clause.Eq{Column: clause.Column{Table: "roles", Name: "all"}, Value: true}
	viaPermission := g.db.Table("permission_role").
		Select("permission_role.role_id").
		Joins("JOIN permissions ON permissions.id = permission_role.permission_id").
		Where("permissions.name = ?", capability)

	var n int64
	err := g.db.WithContext(ctx).
		Model(&models.Role{}).
		Joins("JOIN role_user ON role_user.role_id = roles.id").
		Where("role_user.user_id = ?", userID).
		Where(g.db.Where(grantsAll).Or("roles.id IN (?)", viaPermission)).
		Count(&n).Error
	if err != nil {
		return false, err
	}
	return n > 0, nil
}
