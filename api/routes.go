package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rpupo63/blog-admin-backend/access"
)

// setupAdminRoutes mounts the public probes and the authenticated blog admin routes
func setupAdminRoutes(r chi.Router, handlers *routeHandlers, auth authMiddleware, gate gateMiddleware, limit, timeout func(http.Handler) http.Handler) {
	r.Get("/healthz", handlers.healthHandler.health())
	r.Handle("/metrics", promhttp.Handler())

	r.Route("/admin", func(r chi.Router) {
		r.Use(limit)
		r.Use(timeout)
		r.Use(auth.authenticate)
		r.Use(gate.require(access.ManageBlogs))

		r.Route("/blogs", func(r chi.Router) {
			r.Get("/", handlers.blogHandler.listBlogs())
			r.Get("/table", handlers.blogHandler.listBlogsForTable())
			r.Get("/tags", handlers.blogHandler.listTags())
			r.Get("/categories", handlers.blogHandler.listCategories())
			r.Post("/", handlers.blogHandler.createBlog())
			r.Get("/{blogID}", handlers.blogHandler.getBlog())
			r.Put("/{blogID}", handlers.blogHandler.updateBlog())
			r.Delete("/{blogID}", handlers.blogHandler.deleteBlog())
		})
	})
}
