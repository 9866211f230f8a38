package models

import "time"

type User struct {
	ID        uint      `json:"id" db:"id" gorm:"primaryKey"`
	FirstName string    `json:"first_name" db:"first_name" gorm:"type:varchar(191);not null"`
	LastName  string    `json:"last_name" db:"last_name" gorm:"type:varchar(191)"`
	Email     string    `json:"email" db:"email" gorm:"type:varchar(191);not null;uniqueIndex"`
	Status    int       `json:"status" db:"status" gorm:"not null;default:1"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`

	Roles []Role `json:"roles,omitempty" gorm:"many2many:role_user"`
}

// Role grants its permissions to every user linked through role_user.
// A role with All set grants every capability.
type Role struct {
	ID   uint   `json:"id" db:"id" gorm:"primaryKey"`
	Name string `json:"name" db:"name" gorm:"type:varchar(191);not null;uniqueIndex"`
	All  bool   `json:"all" db:"all" gorm:"not null;default:false"`
	Sort int    `json:"sort" db:"sort" gorm:"not null;default:0"`

	Permissions []Permission `json:"permissions,omitempty" gorm:"many2many:permission_role"`
}

type Permission struct {
	ID          uint   `json:"id" db:"id" gorm:"primaryKey"`
	Name        string `json:"name" db:"name" gorm:"type:varchar(191);not null;uniqueIndex"`
	DisplayName string `json:"display_name" db:"display_name" gorm:"type:varchar(191)"`
}
