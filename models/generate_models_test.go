package models_test

import (
	"bytes"
	"testing"

	"github.com/rpupo63/blog-admin-backend/database/dbtest"
	"github.com/rpupo63/blog-admin-backend/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestColumnMismatchReport(t *testing.T) {
	db := dbtest.Open(t)
	require.NoError(t, db.Exec("ALTER TABLE blogs ADD COLUMN legacy_views integer").Error)

	var out bytes.Buffer
	total, err := models.GenerateColumnMismatchReport(db, &out)
	require.NoError(t, err)

	assert.Equal(t, 1, total)
	assert.Contains(t, out.String(), "--- Table: blogs ---")
	assert.Contains(t, out.String(), "  - legacy_views")
	assert.Contains(t, out.String(), "--- Table: blog_map_tags ---")
}

func TestBlogIDs(t *testing.T) {
	blog := models.Blog{
		Tags:       []models.BlogTag{{ID: 3}, {ID: 9}},
		Categories: []models.BlogCategory{{ID: 5}},
	}
	assert.Equal(t, []uint{3, 9}, blog.TagIDs())
	assert.Equal(t, []uint{5}, blog.CategoryIDs())
	assert.Empty(t, (&models.Blog{}).TagIDs())
}
