package seeds

import (
	"context"
	_ "embed"
	"fmt"

	"github.com/rpupo63/blog-admin-backend/models"
	"gopkg.in/yaml.v3"
	"gorm.io/gorm"
)

//go:embed data/auth.yaml
var authYAML []byte

type authData struct {
	Permissions []struct {
		Name        string `yaml:"name"`
		DisplayName string `yaml:"display_name"`
	} `yaml:"permissions"`
	Roles []struct {
		Name        string   `yaml:"name"`
		All         bool     `yaml:"all"`
		Sort        int      `yaml:"sort"`
		Permissions []string `yaml:"permissions"`
	} `yaml:"roles"`
	Users []struct {
		FirstName string   `yaml:"first_name"`
		LastName  string   `yaml:"last_name"`
		Email     string   `yaml:"email"`
		Roles     []string `yaml:"roles"`
	} `yaml:"users"`
}

// AuthTableSeeder loads permissions, roles and users. The first user becomes id 1,
// the owner of implicitly created tags and categories.
type AuthTableSeeder struct{}

func (AuthTableSeeder) Name() string { return "AuthTableSeeder" }

func (AuthTableSeeder) Run(ctx context.Context, db *gorm.DB) error {
	var data authData
	if err := yaml.Unmarshal(authYAML, &data); err != nil {
		return fmt.Errorf("parse auth seed data: %w", err)
	}

	if err := truncate(db, "role_user", "permission_role", "users", "roles", "permissions"); err != nil {
		return err
	}

	permissions := make(map[string]models.Permission, len(data.Permissions))
	for _, p := range data.Permissions {
		permission := models.Permission{Name: p.Name, DisplayName: p.DisplayName}
		if err := db.Create(&permission).Error; err != nil {
			return err
		}
		permissions[p.Name] = permission
	}

	roles := make(map[string]models.Role, len(data.Roles))
	for _, r := range data.Roles {
		role := models.Role{Name: r.Name, All: r.All, Sort: r.Sort}
		for _, name := range r.Permissions {
			p, ok := permissions[name]
			if !ok {
				return fmt.Errorf("role %s: unknown permission %s", r.Name, name)
			}
			role.Permissions = append(role.Permissions, p)
		}
		if err := db.Create(&role).Error; err != nil {
			return err
		}
		roles[r.Name] = role
	}

	for _, u := range data.Users {
		user := models.User{FirstName: u.FirstName, LastName: u.LastName, Email: u.Email, Status: 1}
		for _, name := range u.Roles {
			r, ok := roles[name]
			if !ok {
				return fmt.Errorf("user %s: unknown role %s", u.Email, name)
			}
			user.Roles = append(user.Roles, r)
		}
		if err := db.Create(&user).Error; err != nil {
			return err
		}
	}
	return nil
}
