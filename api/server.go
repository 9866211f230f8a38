package api

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
	"github.com/rpupo63/blog-admin-backend/access"
	"github.com/rpupo63/blog-admin-backend/config"
	"github.com/rpupo63/blog-admin-backend/database"
	"github.com/rpupo63/blog-admin-backend/errs"
	"github.com/rpupo63/blog-admin-backend/events"
	"github.com/rpupo63/blog-admin-backend/services"
	"github.com/rpupo63/blog-admin-backend/storage"
	"github.com/rs/zerolog/log"
)

type Server struct {
	*http.Server
	startupTime time.Time
}

func NewServer(c map[string]string, database database.Database, store storage.Storage, bus events.Bus) (Server, error) {
	if config.GetString(c, "JWT_SECRET", "") == "" {
		return Server{}, errs.NewConfigMissingError("JWT_SECRET")
	}

	port := config.GetString(c, "PORT", "8080")
	address := fmt.Sprintf("0.0.0.0:%s", port) // Bind to 0.0.0.0 for external access

	startupTime := time.Now()

	blogService := services.NewBlogService(database, store, bus)
	gate := access.NewGate(database.DB())

	router := newRouter(database, blogService, gate, withConfig(c), withStartupTime(startupTime))

	server := &http.Server{
		Addr:         address,
		Handler:      router,
		ReadTimeout:  config.GetSeconds(c, "READ_TIMEOUT_SECONDS", 180),
		WriteTimeout: config.GetSeconds(c, "WRITE_TIMEOUT_SECONDS", 180),
		IdleTimeout:  config.GetSeconds(c, "IDLE_TIMEOUT_SECONDS", 180),
	}

	return Server{server, startupTime}, nil
}

type router struct {
	config      map[string]string
	startupTime time.Time
}

func withConfig(c map[string]string) func(*router) {
	return func(r *router) {
		r.config = c
	}
}

func withStartupTime(startupTime time.Time) func(*router) {
	return func(r *router) {
		r.startupTime = startupTime
	}
}

func newRouter(database database.Database, blogService *services.BlogService, gate capabilityChecker, opts ...func(*router)) *chi.Mux {
	var router router
	for _, opt := range opts {
		opt(&router)
	}

	chiRouter := chi.NewRouter()
	chiRouter.Use(LogInternalServerErrors)
	chiRouter.Use(ColoredHTTPLoggingMiddleware)

	acceptedOrigins := config.GetList(router.config, "ACCEPTED_ORIGINS")
	chiRouter.Use(CORSCheckMiddleware(acceptedOrigins))
	// an empty list would make cors allow every origin
	if len(acceptedOrigins) > 0 {
		chiRouter.Use(cors.Handler(cors.Options{
			AllowedOrigins:   acceptedOrigins,
			AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
			AllowedHeaders:   []string{"Accept", "Accept-Language", "Authorization", "Content-Type"},
			AllowCredentials: true,
			MaxAge:           300,
		}))
	}

	handlers := initializeHandlers(database, blogService, router.startupTime)
	auth := newAuthMiddleware(config.GetString(router.config, "JWT_SECRET", ""))
	gateCheck := newGateMiddleware(gate)
	limit := rateLimit(config.GetFloat(router.config, "RATE_LIMIT_PER_SECOND", 10))
	timeout := requestTimeout(config.GetSeconds(router.config, "REQUEST_TIMEOUT_SECONDS", 30))

	setupAdminRoutes(chiRouter, handlers, auth, gateCheck, limit, timeout)

	return chiRouter
}

func (s Server) Start(errChannel chan<- error) {
	log.Info().Msgf("Server started on: %s", s.Addr)
	errChannel <- s.ListenAndServe()
}

func (s Server) ShutdownGracefully(timeout time.Duration) {
	log.Info().Msg("Gracefully shutting down...")

	gracefullCtx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	if err := s.Shutdown(gracefullCtx); err != nil {
		log.Error().Msgf("Error shutting down the server: %v", err)
	} else {
		log.Info().Msg("HttpServer gracefully shut down")
	}
}
