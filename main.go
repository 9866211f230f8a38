package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/rpupo63/blog-admin-backend/api"
	"github.com/rpupo63/blog-admin-backend/config"
	"github.com/rpupo63/blog-admin-backend/database"
	"github.com/rpupo63/blog-admin-backend/events"
	"github.com/rpupo63/blog-admin-backend/models"
	"github.com/rpupo63/blog-admin-backend/storage"
)

func main() {
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stdout, TimeFormat: time.RFC3339})
	log.Info().Msg("Initializing app...")

	// Load environment variables from .env file
	if err := godotenv.Load(); err != nil {
		log.Warn().Err(err).Msg("error loading .env file")
	}

	c := config.New()
	if strings.ToLower(config.GetString(c, "LOG_LEVEL", "info")) == "debug" {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	} else {
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
	}

	ctx := context.Background()

	if config.GetString(c, "JWT_SECRET", "") == "" && config.GetString(c, "JWT_SECRET_SSM_PARAM", "") != "" {
		secrets, err := config.NewSSMSecrets(ctx, config.GetString(c, "AWS_REGION", ""))
		if err != nil {
			log.Fatal().Err(err).Msg("error loading aws configuration")
		}
		secret, err := config.ResolveSecret(ctx, c, "JWT_SECRET", "JWT_SECRET_SSM_PARAM", secrets)
		if err != nil {
			log.Fatal().Err(err).Msg("error resolving JWT secret")
		}
		c["JWT_SECRET"] = secret
	}

	db, err := database.Open(c)
	if err != nil {
		log.Fatal().Err(err).Msg("error connecting to database")
	}

	// If generating models, run generation and exit
	if config.GetBool(c, "GENERATE_MODELS", false) {
		log.Info().Msg("Generating models and query helpers...")
		if err := models.GenerateModels(db, "./generated"); err != nil {
			log.Fatal().Err(err).Msg("error generating models")
		}
		return
	}

	// If generating column mismatch report, run report and exit
	if config.GetBool(c, "GENERATE_COLUMN_REPORT", false) {
		log.Info().Msg("Generating column mismatch report...")
		if _, err := models.GenerateColumnMismatchReport(db, os.Stdout); err != nil {
			log.Fatal().Err(err).Msg("error generating column report")
		}
		return
	}

	if config.GetBool(c, "AUTO_MIGRATE", false) {
		if err := database.Migrate(db); err != nil {
			log.Fatal().Err(err).Msg("error migrating database")
		}
	}

	store, err := storage.New(ctx, c)
	if err != nil {
		log.Fatal().Err(err).Msg("error initializing storage")
	}

	bus, err := events.New(c)
	if err != nil {
		log.Fatal().Err(err).Msg("error initializing event bus")
	}
	defer bus.Close()

	errChannel := newErrChannel()

	server, err := api.NewServer(c, database.New(db), store, bus)
	if err != nil {
		log.Error().Err(err).Msg("error initializing server")
		return
	}

	go server.Start(errChannel)

	// Listen for interrupt signals to gracefully shutdown the server
	go listenToInterrupt(errChannel)

	fatalErr := <-errChannel
	log.Info().Err(fatalErr).Msg("Closing server")

	server.ShutdownGracefully(30 * time.Second)
}

// newErrChannel has one slot per sender (server and signal listener) so neither
// blocks once main stops receiving. It is never closed.
func newErrChannel() chan error {
	return make(chan error, 2)
}

// listenToInterrupt waits for SIGINT or SIGTERM and then sends an error to the error channel.
func listenToInterrupt(errChannel chan<- error) {
	c := make(chan os.Signal, 1)
	signal.Notify(c, syscall.SIGINT, syscall.SIGTERM)
	errChannel <- fmt.Errorf("%s", <-c)
}
