package api

import (
	"time"

	"github.com/rpupo63/blog-admin-backend/database"
	"github.com/rpupo63/blog-admin-backend/services"
)

// initializeHandlers creates and returns all handlers organized in a routeHandlers struct
func initializeHandlers(database database.Database, blogService *services.BlogService, startupTime time.Time) *routeHandlers {
	return &routeHandlers{
		blogHandler:   newBlogHandler(blogService),
		healthHandler: newHealthHandler(database, startupTime),
	}
}
