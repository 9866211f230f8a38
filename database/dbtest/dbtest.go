// Package dbtest opens migrated sqlite databases for tests.
package dbtest

import (
	"path/filepath"
	"testing"

	"github.com/rpupo63/blog-admin-backend/database"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// Open returns a migrated database in a temp dir that is removed when the test ends.
func Open(t testing.TB) *gorm.DB {
	t.Helper()

	path := filepath.Join(t.TempDir(), "test.db")
	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	require.NoError(t, database.Migrate(db))

	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			sqlDB.Close()
		}
	})
	return db
}

// OpenDatabase wraps Open in the repository aggregate.
func OpenDatabase(t testing.TB) database.Database {
	t.Helper()
	return database.New(Open(t))
}
