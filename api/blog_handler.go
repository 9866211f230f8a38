package api

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/rpupo63/blog-admin-backend/database"
	"github.com/rpupo63/blog-admin-backend/errs"
	"github.com/rpupo63/blog-admin-backend/models"
	"github.com/rpupo63/blog-admin-backend/services"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

type blogHandler struct {
	responder   Responder
	logger      zerolog.Logger
	blogService *services.BlogService
}

func newBlogHandler(blogService *services.BlogService) blogHandler {
	logger := log.With().Str("handlerName", "blogHandler").Logger()

	return blogHandler{
		responder:   NewResponder(logger),
		logger:      logger,
		blogService: blogService,
	}
}

// TableResponse wraps the unpaginated listing for server side tables
type TableResponse struct {
	Data []models.BlogListItem `json:"data"`
}

// listBlogs returns one page of the blog listing
// @Summary List blogs
// @Tags Blogs
// @Produce json
// @Param page query int false "Page number" default(1)
// @Param per_page query int false "Page size" default(25)
// @Param order_by query string false "Sort column" default(created_at)
// @Param sort query string false "asc or desc" default(desc)
// @Success 200 {object} database.BlogPage
// @Router /admin/blogs [get]
func (h blogHandler) listBlogs() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		params := database.ListParams{
			OrderBy: q.Get("order_by"),
			Sort:    q.Get("sort"),
		}
		params.Page, _ = strconv.Atoi(q.Get("page"))
		params.PerPage, _ = strconv.Atoi(q.Get("per_page"))

		page, err := h.blogService.Paginate(r.Context(), params)
		if err != nil {
			h.responder.WriteError(w, r, wrapDatabaseError("list", "blogs", err))
			return
		}

		h.responder.WriteJSON(w, page)
	}
}

// listBlogsForTable returns the whole listing
// @Summary List blogs for table rendering
// @Tags Blogs
// @Produce json
// @Success 200 {object} TableResponse
// @Router /admin/blogs/table [get]
func (h blogHandler) listBlogsForTable() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		items, err := h.blogService.ListForTable(r.Context())
		if err != nil {
			h.responder.WriteError(w, r, wrapDatabaseError("list", "blogs", err))
			return
		}

		h.responder.WriteJSON(w, TableResponse{Data: items})
	}
}

// OptionsResponse lists the tags or categories offered by the blog form
type OptionsResponse[T any] struct {
	Data  []T   `json:"data"`
	Total int64 `json:"total"`
}

// listTags returns the tag options for the blog form
// @Summary List blog tags
// @Tags Blogs
// @Produce json
// @Success 200 {object} OptionsResponse
// @Router /admin/blogs/tags [get]
func (h blogHandler) listTags() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		tags, total, err := h.blogService.ListTags(r.Context())
		if err != nil {
			h.responder.WriteError(w, r, wrapDatabaseError("list", "blog tags", err))
			return
		}

		h.responder.WriteJSON(w, OptionsResponse[*models.BlogTag]{Data: tags, Total: total})
	}
}

// listCategories returns the category options for the blog form
// @Router /admin/blogs/categories [get]
func (h blogHandler) listCategories() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		categories, total, err := h.blogService.ListCategories(r.Context())
		if err != nil {
			h.responder.WriteError(w, r, wrapDatabaseError("list", "blog categories", err))
			return
		}

		h.responder.WriteJSON(w, OptionsResponse[*models.BlogCategory]{Data: categories, Total: total})
	}
}

// getBlog returns a blog with its tags and categories
// @Summary Get blog
// @Tags Blogs
// @Produce json
// @Param blogID path int true "Blog ID"
// @Success 200 {object} models.Blog
// @Failure 404 {object} ErrorResponse
// @Router /admin/blogs/{blogID} [get]
func (h blogHandler) getBlog() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		blog, ok := h.findBlog(w, r)
		if !ok {
			return
		}

		h.responder.WriteJSON(w, blog)
	}
}

// createBlog creates a blog from a multipart form or JSON body
// @Summary Create blog
// @Tags Blogs
// @Accept multipart/form-data,json
// @Produce json
// @Success 201 {object} models.Blog
// @Failure 400 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse "exceptions.backend.blogs.create_error"
// @Router /admin/blogs [post]
func (h blogHandler) createBlog() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, err := ctxGetUserID(r.Context())
		if err != nil {
			h.responder.WriteError(w, r, errs.Unauthorized)
			return
		}

		form, err := parseBlogForm(w, r)
		if err != nil {
			h.responder.WriteError(w, r, err)
			return
		}

		blog, err := h.blogService.Create(r.Context(), userID, form.input())
		if err != nil {
			h.responder.WriteError(w, r, err)
			return
		}

		h.logger.Info().Uint("blogID", blog.ID).Uint("userID", userID).Msg("blog created")
		h.responder.WriteJSONStatus(w, http.StatusCreated, blog)
	}
}

// updateBlog replaces the blog's fields, associations and optionally its image
// @Summary Update blog
// @Tags Blogs
// @Accept multipart/form-data,json
// @Produce json
// @Param blogID path int true "Blog ID"
// @Success 200 {object} models.Blog
// @Failure 400 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse "exceptions.backend.blogs.update_error"
// @Router /admin/blogs/{blogID} [put]
func (h blogHandler) updateBlog() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, err := ctxGetUserID(r.Context())
		if err != nil {
			h.responder.WriteError(w, r, errs.Unauthorized)
			return
		}

		blog, ok := h.findBlog(w, r)
		if !ok {
			return
		}

		form, err := parseBlogForm(w, r)
		if err != nil {
			h.responder.WriteError(w, r, err)
			return
		}

		updated, err := h.blogService.Update(r.Context(), userID, blog, form.input())
		if err != nil {
			h.responder.WriteError(w, r, err)
			return
		}

		h.logger.Info().Uint("blogID", updated.ID).Uint("userID", userID).Msg("blog updated")
		h.responder.WriteJSON(w, updated)
	}
}

// deleteBlog soft deletes the blog and its tag and category links
// @Summary Delete blog
// @Tags Blogs
// @Produce json
// @Param blogID path int true "Blog ID"
// @Success 200 {object} StatusResponse
// @Failure 404 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse "exceptions.backend.blogs.delete_error"
// @Router /admin/blogs/{blogID} [delete]
func (h blogHandler) deleteBlog() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		blog, ok := h.findBlog(w, r)
		if !ok {
			return
		}

		if err := h.blogService.Delete(r.Context(), blog); err != nil {
			h.responder.WriteError(w, r, err)
			return
		}

		h.responder.WriteJSON(w, StatusResponse{Status: "ok", Message: "The blog was successfully deleted."})
	}
}

// findBlog loads the blog named by the blogID path parameter or writes the error response.
func (h blogHandler) findBlog(w http.ResponseWriter, r *http.Request) (*models.Blog, bool) {
	blogID, err := strconv.ParseUint(chi.URLParam(r, "blogID"), 10, 64)
	if err != nil || blogID == 0 {
		h.responder.WriteError(w, r, errs.NewBadRequestError("invalid blogID"))
		return nil, false
	}

	blog, err := h.blogService.Find(r.Context(), uint(blogID))
	if err != nil {
		h.responder.WriteError(w, r, wrapDatabaseError("find", "blog", err))
		return nil, false
	}
	return blog, true
}
