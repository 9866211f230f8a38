package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/rpupo63/blog-admin-backend/access"
	"github.com/rpupo63/blog-admin-backend/database"
	"github.com/rpupo63/blog-admin-backend/database/dbtest"
	"github.com/rpupo63/blog-admin-backend/events"
	"github.com/rpupo63/blog-admin-backend/models"
	"github.com/rpupo63/blog-admin-backend/services"
	"github.com/rpupo63/blog-admin-backend/storage"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

const testSecret = "test-secret"

type apiFixture struct {
	router      http.Handler
	db          database.Database
	storage     *storage.Memory
	bus         *events.MemoryBus
	adminToken  string
	readerToken string
}

func newAPIFixture(t *testing.T, cfg map[string]string) *apiFixture {
	t.Helper()

	db := dbtest.OpenDatabase(t)
	viewBlog := models.Permission{Name: access.ManageBlogs, DisplayName: "View Blog Management"}
	require.NoError(t, db.DB().Create(&viewBlog).Error)
	adminRole := models.Role{Name: "Administrator", All: true}
	readerRole := models.Role{Name: "Reader"}
	require.NoError(t, db.DB().Create(&[]*models.Role{&adminRole, &readerRole}).Error)
	admin := models.User{FirstName: "Admin", Email: "admin@example.com", Roles: []models.Role{adminRole}}
	reader := models.User{FirstName: "Reader", Email: "reader@example.com", Roles: []models.Role{readerRole}}
	require.NoError(t, db.DB().Create(&[]*models.User{&admin, &reader}).Error)

	c := map[string]string{"JWT_SECRET": testSecret, "RATE_LIMIT_PER_SECOND": "1000"}
	for k, v := range cfg {
		c[k] = v
	}

	f := &apiFixture{db: db, storage: storage.NewMemory(), bus: &events.MemoryBus{}}
	blogService := services.NewBlogService(db, f.storage, f.bus)
	f.router = newRouter(db, blogService, access.NewGate(db.DB()), withConfig(c), withStartupTime(time.Now()))

	var err error
	f.adminToken, err = IssueToken(testSecret, admin.ID, time.Hour)
	require.NoError(t, err)
	f.readerToken, err = IssueToken(testSecret, reader.ID, time.Hour)
	require.NoError(t, err)
	return f
}

func (f *apiFixture) do(t *testing.T, req *http.Request, token string) *httptest.ResponseRecorder {
	t.Helper()
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	f.router.ServeHTTP(rec, req)
	return rec
}

func jsonRequest(t *testing.T, method, url string, body interface{}) *http.Request {
	t.Helper()
	b, err := json.Marshal(body)
	require.NoError(t, err)
	req := httptest.NewRequest(method, url, bytes.NewReader(b))
	req.Header.Set("Content-Type", "application/json")
	return req
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var out T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out), rec.Body.String())
	return out
}

func TestAuthentication(t *testing.T) {
	f := newAPIFixture(t, nil)

	rec := f.do(t, httptest.NewRequest(http.MethodGet, "/admin/blogs", nil), "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = f.do(t, httptest.NewRequest(http.MethodGet, "/admin/blogs", nil), "not-a-jwt")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	forged, err := IssueToken("other-secret", 1, time.Hour)
	require.NoError(t, err)
	rec = f.do(t, httptest.NewRequest(http.MethodGet, "/admin/blogs", nil), forged)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	expired, err := IssueToken(testSecret, 1, -time.Minute)
	require.NoError(t, err)
	rec = f.do(t, httptest.NewRequest(http.MethodGet, "/admin/blogs", nil), expired)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestGateDeniesWithoutCapability(t *testing.T) {
	f := newAPIFixture(t, nil)

	req := httptest.NewRequest(http.MethodGet, "/admin/blogs", nil)
	req.Header.Set("Accept-Language", "es")
	rec := f.do(t, req, f.readerToken)

	assert.Equal(t, http.StatusForbidden, rec.Code)
	resp := decode[ErrorResponse](t, rec)
	assert.Equal(t, "No tiene acceso para hacer eso.", resp.Message)
}

func TestCreateBlogMultipart(t *testing.T) {
	f := newAPIFixture(t, nil)

	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	require.NoError(t, mw.WriteField("name", "Hello World"))
	require.NoError(t, mw.WriteField("content", "<p>hi</p>"))
	require.NoError(t, mw.WriteField("publish_datetime", "2024-03-01 10:00:00"))
	require.NoError(t, mw.WriteField("status", "Draft"))
	require.NoError(t, mw.WriteField("tags[]", "news"))
	require.NoError(t, mw.WriteField("tags[]", "3"))
	require.NoError(t, mw.WriteField("categories[]", "5"))
	require.NoError(t, mw.WriteField("author_note", "imported"))
	fw, err := mw.CreateFormFile("featured_image", "cover.png")
	require.NoError(t, err)
	_, err = fw.Write([]byte("png-bytes"))
	require.NoError(t, err)
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, "/admin/blogs", &body)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	rec := f.do(t, req, f.adminToken)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	blog := decode[models.Blog](t, rec)
	assert.Equal(t, "hello-world", blog.Slug)
	assert.Equal(t, models.BlogStatusDraft, blog.Status)
	assert.Equal(t, "imported", blog.Extra["author_note"])
	require.NotNil(t, blog.FeaturedImage)
	assert.True(t, strings.HasSuffix(*blog.FeaturedImage, "cover.png"))

	content, ok := f.storage.Get(services.UploadPath + *blog.FeaturedImage)
	require.True(t, ok)
	assert.Equal(t, "png-bytes", string(content))
	assert.Len(t, f.bus.OfType(events.BlogCreated), 1)
}

func TestBlogLifecycleJSON(t *testing.T) {
	f := newAPIFixture(t, nil)

	rec := f.do(t, jsonRequest(t, http.MethodPost, "/admin/blogs", map[string]interface{}{
		"name":       "First Post",
		"content":    "body",
		"tags":       []interface{}{"go", 2},
		"categories": []interface{}{1},
		"pinned":     true,
	}), f.adminToken)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	created := decode[models.Blog](t, rec)
	assert.Equal(t, true, created.Extra["pinned"])

	rec = f.do(t, httptest.NewRequest(http.MethodGet, "/admin/blogs?per_page=10&order_by=name&sort=asc", nil), f.adminToken)
	require.Equal(t, http.StatusOK, rec.Code)
	page := decode[database.BlogPage](t, rec)
	assert.Equal(t, int64(1), page.Total)
	require.Len(t, page.Items, 1)
	require.NotNil(t, page.Items[0].UserName)
	assert.Equal(t, "Admin", *page.Items[0].UserName)

	rec = f.do(t, httptest.NewRequest(http.MethodGet, "/admin/blogs/table", nil), f.adminToken)
	require.Equal(t, http.StatusOK, rec.Code)
	table := decode[TableResponse](t, rec)
	assert.Len(t, table.Data, 1)

	url := "/admin/blogs/" + jsonID(created.ID)
	rec = f.do(t, jsonRequest(t, http.MethodPut, url, map[string]interface{}{
		"name":    "First Post Edited",
		"content": "body",
		"tags":    []interface{}{"rust"},
	}), f.adminToken)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	updated := decode[models.Blog](t, rec)
	assert.Equal(t, "first-post-edited", updated.Slug)
	require.Len(t, updated.Tags, 1)
	assert.Equal(t, "rust", updated.Tags[0].Name)

	rec = f.do(t, httptest.NewRequest(http.MethodGet, url, nil), f.adminToken)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = f.do(t, httptest.NewRequest(http.MethodDelete, url, nil), f.adminToken)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	rec = f.do(t, httptest.NewRequest(http.MethodGet, url, nil), f.adminToken)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestFormOptions(t *testing.T) {
	f := newAPIFixture(t, nil)
	ctx := context.Background()
	blogService := services.NewBlogService(f.db, f.storage, f.bus)
	_, err := blogService.CreateTags(ctx, []string{"zig", "go"})
	require.NoError(t, err)
	_, err = blogService.CreateCategories(ctx, []string{"Engineering"})
	require.NoError(t, err)

	rec := f.do(t, httptest.NewRequest(http.MethodGet, "/admin/blogs/tags", nil), f.adminToken)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	tags := decode[OptionsResponse[models.BlogTag]](t, rec)
	assert.Equal(t, int64(2), tags.Total)
	require.Len(t, tags.Data, 2)
	assert.Equal(t, "go", tags.Data[0].Name)

	rec = f.do(t, httptest.NewRequest(http.MethodGet, "/admin/blogs/categories", nil), f.adminToken)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	categories := decode[OptionsResponse[models.BlogCategory]](t, rec)
	assert.Equal(t, int64(1), categories.Total)
	require.Len(t, categories.Data, 1)
	assert.Equal(t, "Engineering", categories.Data[0].Name)

	rec = f.do(t, httptest.NewRequest(http.MethodGet, "/admin/blogs/tags", nil), f.readerToken)
	assert.Equal(t, http.StatusForbidden, rec.Code)
}

func TestCreateBlogValidation(t *testing.T) {
	f := newAPIFixture(t, nil)

	rec := f.do(t, jsonRequest(t, http.MethodPost, "/admin/blogs", map[string]interface{}{"content": "x"}), f.adminToken)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "name", decode[ErrorResponse](t, rec).Field)

	rec = f.do(t, jsonRequest(t, http.MethodPost, "/admin/blogs", map[string]interface{}{
		"name": "x", "content": "x", "status": "Archived",
	}), f.adminToken)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "status", decode[ErrorResponse](t, rec).Field)

	req := httptest.NewRequest(http.MethodPost, "/admin/blogs", strings.NewReader("name=x"))
	req.Header.Set("Content-Type", "text/plain")
	rec = f.do(t, req, f.adminToken)
	assert.Equal(t, http.StatusUnsupportedMediaType, rec.Code)

	rec = f.do(t, httptest.NewRequest(http.MethodGet, "/admin/blogs/abc", nil), f.adminToken)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestDeleteFailureIsLocalized(t *testing.T) {
	f := newAPIFixture(t, nil)

	rec := f.do(t, jsonRequest(t, http.MethodPost, "/admin/blogs", map[string]interface{}{
		"name": "Doomed", "content": "x",
	}), f.adminToken)
	require.Equal(t, http.StatusCreated, rec.Code)
	created := decode[models.Blog](t, rec)

	require.NoError(t, f.db.DB().Callback().Delete().Before("gorm:delete").Register("test:fail_delete", func(db *gorm.DB) {
		db.AddError(errors.New("disk I/O error"))
	}))

	req := httptest.NewRequest(http.MethodDelete, "/admin/blogs/"+jsonID(created.ID), nil)
	req.Header.Set("Accept-Language", "es-ES,es;q=0.9,en;q=0.5")
	rec = f.do(t, req, f.adminToken)

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	resp := decode[ErrorResponse](t, rec)
	assert.Equal(t, "Hubo un problema al eliminar este blog. Por favor, inténtelo de nuevo.", resp.Message)
	assert.Empty(t, f.bus.OfType(events.BlogDeleted))
}

func TestRateLimit(t *testing.T) {
	f := newAPIFixture(t, map[string]string{"RATE_LIMIT_PER_SECOND": "1"})

	first := f.do(t, httptest.NewRequest(http.MethodGet, "/admin/blogs", nil), f.adminToken)
	second := f.do(t, httptest.NewRequest(http.MethodGet, "/admin/blogs", nil), f.adminToken)

	assert.Equal(t, http.StatusOK, first.Code)
	assert.Equal(t, http.StatusTooManyRequests, second.Code)
}

func TestProbes(t *testing.T) {
	f := newAPIFixture(t, nil)

	rec := f.do(t, httptest.NewRequest(http.MethodGet, "/healthz", nil), "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "ok", decode[HealthResponse](t, rec).Database)

	rec = f.do(t, httptest.NewRequest(http.MethodGet, "/metrics", nil), "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "blog_admin_unexpected_errors_total")
}

func TestCORSPreflightFromUnknownOrigin(t *testing.T) {
	f := newAPIFixture(t, map[string]string{"ACCEPTED_ORIGINS": "https://admin.example.com"})

	req := httptest.NewRequest(http.MethodOptions, "/admin/blogs", nil)
	req.Header.Set("Origin", "https://evil.example.com")
	req.Header.Set("Access-Control-Request-Method", "GET")
	rec := f.do(t, req, "")
	assert.Equal(t, http.StatusForbidden, rec.Code)

	req = httptest.NewRequest(http.MethodOptions, "/admin/blogs", nil)
	req.Header.Set("Origin", "https://admin.example.com")
	req.Header.Set("Access-Control-Request-Method", "GET")
	rec = f.do(t, req, "")
	assert.Equal(t, "https://admin.example.com", rec.Header().Get("Access-Control-Allow-Origin"))
}

func jsonID(id uint) string {
	b, _ := json.Marshal(id)
	return string(b)
}
