// Package seeds resets operational tables and loads the bootstrap data.
package seeds

import (
	"context"
	"fmt"

	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type Seeder interface {
	Name() string
	Run(ctx context.Context, db *gorm.DB) error
}

// operationalTables are emptied before any seeder runs. Missing tables are skipped.
var operationalTables = []string{
	"cache",
	"failed_jobs",
	"ledgers",
	"jobs",
	"sessions",
	"blog_map_tags",
	"blog_map_categories",
	"blogs",
}

type DatabaseSeeder struct {
	db      *gorm.DB
	tables  []string
	seeders []Seeder
}

// NewDatabaseSeeder runs the auth seeder then the blog taxonomy seeder.
func NewDatabaseSeeder(db *gorm.DB) *DatabaseSeeder {
	return &DatabaseSeeder{
		db:      db,
		tables:  operationalTables,
		seeders: []Seeder{AuthTableSeeder{}, BlogTaxonomySeeder{}},
	}
}

func (s *DatabaseSeeder) Run(ctx context.Context) error {
	db := s.db.WithContext(ctx)

	if err := truncate(db, s.tables...); err != nil {
		return err
	}

	for _, seeder := range s.seeders {
		log.Info().Str("seeder", seeder.Name()).Msg("seeding")
		err := db.Transaction(func(tx *gorm.DB) error {
			return seeder.Run(ctx, tx)
		})
		if err != nil {
			return fmt.Errorf("%s: %w", seeder.Name(), err)
		}
	}

	log.Info().Int("seeders", len(s.seeders)).Msg("database seeded")
	return nil
}

// truncate empties each existing table and resets its id sequence.
func truncate(db *gorm.DB, tables ...string) error {
	for _, table := range tables {
		if !db.Migrator().HasTable(table) {
			log.Debug().Str("table", table).Msg("skipping missing table")
			continue
		}

		var err error
		switch db.Dialector.Name() {
		case "postgres":
			err = db.Exec("TRUNCATE TABLE ? RESTART IDENTITY CASCADE", clause.Table{Name: table}).Error
		case "sqlite":
			err = db.Exec("DELETE FROM ?", clause.Table{Name: table}).Error
			if err == nil && db.Migrator().HasTable("sqlite_sequence") {
				err = db.Exec("DELETE FROM sqlite_sequence WHERE name = ?", table).Error
			}
		default:
			err = db.Exec("DELETE FROM ?", clause.Table{Name: table}).Error
		}
		if err != nil {
			return fmt.Errorf("truncate %s: %w", table, err)
		}
	}
	return nil
}
