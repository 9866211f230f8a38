package models

import (
	"fmt"
	"io"
	"log"
	"os"
	"sort"
	"sync"

	"gorm.io/gen"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
	"gorm.io/gorm/schema"
)

/*
Column Mismatch Report Usage:

Reports database columns that no field of the corresponding Go model maps to.

To generate the report:

1. Set the environment variable: GENERATE_COLUMN_REPORT=true and start the server, or
2. Run: blogctl report

Example output:
=== COLUMN MISMATCH REPORT ===
--- Table: blogs ---
Found 1 columns not accounted for in model:
  - legacy_views

--- Table: blog_tags ---
All columns are accounted for in the model.

=== SUMMARY ===
Total mismatched columns across all tables: 1
*/

// All returns every persisted model in migration order.
func All() []interface{} {
	return []interface{}{
		&User{},
		&Role{},
		&Permission{},
		&BlogTag{},
		&BlogCategory{},
		&Blog{},
	}
}

// GenerateModels writes gorm/gen query code for the blog models into outPath.
func GenerateModels(db *gorm.DB, outPath string) error {
	if err := db.Exec("SELECT 1").Error; err != nil {
		return fmt.Errorf("error connecting to database: %w", err)
	}

	verbose := logger.New(
		log.New(os.Stdout, "\r\n", log.LstdFlags),
		logger.Config{
			LogLevel:                  logger.Info,
			IgnoreRecordNotFoundError: true,
			Colorful:                  true,
		},
	)
	db = db.Session(&gorm.Session{
		Logger:                 verbose,
		SkipDefaultTransaction: true,
	})

	g := gen.NewGenerator(gen.Config{
		OutPath:           outPath,
		Mode:              gen.WithDefaultQuery | gen.WithQueryInterface,
		FieldNullable:     true,
		FieldCoverable:    true,
		FieldWithIndexTag: true,
		FieldWithTypeTag:  true,
	})
	g.UseDB(db)

	g.ApplyBasic(
		Blog{},
		BlogTag{},
		BlogCategory{},
		BlogMapTag{},
		BlogMapCategory{},
		User{},
		Role{},
		Permission{},
	)

	g.Execute()
	return nil
}

// GenerateColumnMismatchReport writes the column mismatch report for every model to w
// and returns the total number of unmapped columns.
func GenerateColumnMismatchReport(db *gorm.DB, w io.Writer) (int, error) {
	fmt.Fprintln(w, "=== COLUMN MISMATCH REPORT ===")

	models := append(All(), &BlogMapTag{}, &BlogMapCategory{})
	cache := &sync.Map{}
	total := 0

	for _, model := range models {
		s, err := schema.Parse(model, cache, db.NamingStrategy)
		if err != nil {
			return total, fmt.Errorf("parse model %T: %w", model, err)
		}
		fmt.Fprintf(w, "\n--- Table: %s ---\n", s.Table)

		if !db.Migrator().HasTable(s.Table) {
			fmt.Fprintln(w, "Table does not exist yet (run blogctl migrate)")
			continue
		}

		dbColumns, err := getTableColumns(db, s.Table)
		if err != nil {
			return total, err
		}

		mismatches := findColumnMismatches(dbColumns, s.DBNames)
		if len(mismatches) == 0 {
			fmt.Fprintln(w, "All columns are accounted for in the model.")
			continue
		}

		fmt.Fprintf(w, "Found %d columns not accounted for in model:\n", len(mismatches))
		for _, col := range mismatches {
			fmt.Fprintf(w, "  - %s\n", col)
		}
		total += len(mismatches)
	}

	fmt.Fprintf(w, "\n=== SUMMARY ===\n")
	fmt.Fprintf(w, "Total mismatched columns across all tables: %d\n", total)
	return total, nil
}

func getTableColumns(db *gorm.DB, tableName string) ([]string, error) {
	columnTypes, err := db.Migrator().ColumnTypes(tableName)
	if err != nil {
		return nil, fmt.Errorf("error querying columns for table %s: %w", tableName, err)
	}

	columns := make([]string, 0, len(columnTypes))
	for _, ct := range columnTypes {
		columns = append(columns, ct.Name())
	}
	return columns, nil
}

// findColumnMismatches finds columns that exist in the database but not in the model
func findColumnMismatches(dbColumns, modelFields []string) []string {
	modelFieldSet := make(map[string]bool, len(modelFields))
	for _, field := range modelFields {
		modelFieldSet[field] = true
	}

	var mismatches []string
	for _, col := range dbColumns {
		if !modelFieldSet[col] {
			mismatches = append(mismatches, col)
		}
	}
	sort.Strings(mismatches)

	return mismatches
}
