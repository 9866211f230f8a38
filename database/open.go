package database

import (
	"fmt"
	"log"
	"os"
	"time"

	"github.com/rpupo63/blog-admin-backend/config"
	"github.com/rpupo63/blog-admin-backend/errs"
	"github.com/rs/zerolog"
	zlog "github.com/rs/zerolog/log"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
	"gorm.io/plugin/dbresolver"
)

// Open connects to DATABASE_URL and registers DATABASE_REPLICA_URLS as read replicas.
func Open(cfg map[string]string) (*gorm.DB, error) {
	dsn := config.GetString(cfg, "DATABASE_URL", "")
	if dsn == "" {
		return nil, errs.NewConfigMissingError("DATABASE_URL")
	}

	db, err := gorm.Open(postgres.New(postgres.Config{
		DSN:                  dsn,
		PreferSimpleProtocol: true,
	}), &gorm.Config{
		PrepareStmt: false,
		Logger:      newGormLogger(),
	})
	if err != nil {
		return nil, fmt.Errorf("error connecting to database: %w", err)
	}

	replicas := config.GetList(cfg, "DATABASE_REPLICA_URLS")
	if len(replicas) > 0 {
		dialectors := make([]gorm.Dialector, 0, len(replicas))
		for _, replica := range replicas {
			dialectors = append(dialectors, postgres.New(postgres.Config{
				DSN:                  replica,
				PreferSimpleProtocol: true,
			}))
		}

		resolver := dbresolver.Register(dbresolver.Config{
			Replicas: dialectors,
			Policy:   dbresolver.RandomPolicy{},
		}).
			SetMaxIdleConns(config.GetInt(cfg, "DATABASE_MAX_IDLE_CONNS", 5)).
			SetMaxOpenConns(config.GetInt(cfg, "DATABASE_MAX_OPEN_CONNS", 20)).
			SetConnMaxLifetime(time.Hour)

		if err := db.Use(resolver); err != nil {
			return nil, fmt.Errorf("error registering read replicas: %w", err)
		}
		zlog.Info().Int("replicas", len(replicas)).Msg("read replicas registered")
	}

	var result int
	if err := db.Raw("SELECT 1").Scan(&result).Error; err != nil {
		return nil, fmt.Errorf("error testing database connection: %w", err)
	}

	return db, nil
}

func newGormLogger() logger.Interface {
	level := logger.Warn
	if zerolog.GlobalLevel() <= zerolog.DebugLevel {
		level = logger.Info
	}

	return logger.New(
		log.New(os.Stdout, "\r\n", log.LstdFlags),
		logger.Config{
			SlowThreshold:             10 * time.Second,
			LogLevel:                  level,
			IgnoreRecordNotFoundError: true,
			Colorful:                  true,
		},
	)
}
