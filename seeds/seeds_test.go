package seeds

import (
	"context"
	"testing"

	"github.com/rpupo63/blog-admin-backend/access"
	"github.com/rpupo63/blog-admin-backend/database/dbtest"
	"github.com/rpupo63/blog-admin-backend/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func count(t *testing.T, db *gorm.DB, model interface{}) int64 {
	t.Helper()
	var n int64
	require.NoError(t, db.Model(model).Count(&n).Error)
	return n
}

func TestDatabaseSeeder_Run(t *testing.T) {
	db := dbtest.Open(t)
	ctx := context.Background()

	blog := models.Blog{Name: "leftover", Slug: "leftover", CreatedBy: 1, Status: models.BlogStatusDraft}
	require.NoError(t, db.Create(&blog).Error)
	require.NoError(t, db.Create(&models.BlogMapTag{BlogID: blog.ID, TagID: 9}).Error)

	require.NoError(t, NewDatabaseSeeder(db).Run(ctx))

	assert.Zero(t, count(t, db.Unscoped(), &models.Blog{}))
	assert.Zero(t, count(t, db, &models.BlogMapTag{}))
	assert.Equal(t, int64(3), count(t, db, &models.User{}))
	assert.Equal(t, int64(3), count(t, db, &models.BlogTag{}))
	assert.Equal(t, int64(3), count(t, db, &models.BlogCategory{}))

	var admin models.User
	require.NoError(t, db.Where("email = ?", "admin@admin.com").First(&admin).Error)
	assert.Equal(t, uint(1), admin.ID)

	gate := access.NewGate(db)
	for email, want := range map[string]bool{
		"admin@admin.com":         true,
		"executive@executive.com": true,
		"user@user.com":           false,
	} {
		var u models.User
		require.NoError(t, db.Where("email = ?", email).First(&u).Error)
		allowed, err := gate.Allow(ctx, u.ID, access.ManageBlogs)
		require.NoError(t, err)
		assert.Equal(t, want, allowed, email)
	}
}

func TestDatabaseSeeder_IsRepeatable(t *testing.T) {
	db := dbtest.Open(t)
	ctx := context.Background()

	require.NoError(t, NewDatabaseSeeder(db).Run(ctx))
	require.NoError(t, NewDatabaseSeeder(db).Run(ctx))

	assert.Equal(t, int64(3), count(t, db, &models.User{}))
	assert.Equal(t, int64(4), count(t, db, &models.Permission{}))

	var admin models.User
	require.NoError(t, db.Where("email = ?", "admin@admin.com").First(&admin).Error)
	assert.Equal(t, uint(1), admin.ID)
}

func TestTruncate_SkipsMissingTables(t *testing.T) {
	db := dbtest.Open(t)
	assert.NoError(t, truncate(db, "does_not_exist", "blogs"))
}
