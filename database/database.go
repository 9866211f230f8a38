package database

import (
	"context"

	"gorm.io/gorm"
)

type Database struct {
	db               *gorm.DB
	blogRepo         *BlogRepo
	blogTagRepo      *BlogTagRepo
	blogCategoryRepo *BlogCategoryRepo
	userRepo         *UserRepo
}

// New initializes a new Database struct with each repository using a shared GORM database instance
func New(db *gorm.DB) Database {
	return Database{
		db:               db,
		blogRepo:         NewBlogRepo(db),
		blogTagRepo:      NewBlogTagRepo(db),
		blogCategoryRepo: NewBlogCategoryRepo(db),
		userRepo:         NewUserRepo(db),
	}
}

// Accessor methods for each repository

func (d Database) BlogRepo() *BlogRepo {
	return d.blogRepo
}

func (d Database) BlogTagRepo() *BlogTagRepo {
	return d.blogTagRepo
}

func (d Database) BlogCategoryRepo() *BlogCategoryRepo {
	return d.blogCategoryRepo
}

func (d Database) UserRepo() *UserRepo {
	return d.userRepo
}

// DB returns the shared connection.
func (d Database) DB() *gorm.DB {
	return d.db
}

// Transaction runs fn against repositories bound to a single transaction.
// The transaction commits when fn returns nil and rolls back otherwise.
func (d Database) Transaction(ctx context.Context, fn func(tx Database) error) error {
	return d.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(New(tx))
	})
}

// Ping checks the primary connection.
func (d Database) Ping(ctx context.Context) error {
	sqlDB, err := d.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}
