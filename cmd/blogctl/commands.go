package main

import (
	"fmt"
	"time"

	"github.com/rpupo63/blog-admin-backend/api"
	"github.com/rpupo63/blog-admin-backend/database"
	"github.com/rpupo63/blog-admin-backend/models"
	"github.com/rpupo63/blog-admin-backend/seeds"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Create or update every table",
	RunE: func(cmd *cobra.Command, args []string) error {
		db, err := openDB()
		if err != nil {
			return err
		}
		if err := database.Migrate(db); err != nil {
			return err
		}
		log.Info().Msg("database migration completed")
		return nil
	},
}

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Empty operational tables and load bootstrap users, roles, tags and categories",
	Long: `seed truncates the operational tables (blogs and their tag and category links
among them) and then runs AuthTableSeeder followed by BlogTaxonomySeeder.
All existing blogs are removed.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		force, _ := cmd.Flags().GetBool("force")
		if !force {
			return fmt.Errorf("seed deletes existing data; rerun with --force")
		}

		db, err := openDB()
		if err != nil {
			return err
		}
		if migrate, _ := cmd.Flags().GetBool("migrate"); migrate {
			if err := database.Migrate(db); err != nil {
				return err
			}
		}
		return seeds.NewDatabaseSeeder(db).Run(cmd.Context())
	},
}

var generateCmd = &cobra.Command{
	Use:   "generate",
	Short: "Generate gorm/gen query code for the models",
	RunE: func(cmd *cobra.Command, args []string) error {
		out, _ := cmd.Flags().GetString("out")
		db, err := openDB()
		if err != nil {
			return err
		}
		if err := models.GenerateModels(db, out); err != nil {
			return err
		}
		log.Info().Str("out", out).Msg("model generation complete")
		return nil
	},
}

var reportCmd = &cobra.Command{
	Use:   "report",
	Short: "Report database columns that no model field maps to",
	RunE: func(cmd *cobra.Command, args []string) error {
		db, err := openDB()
		if err != nil {
			return err
		}
		total, err := models.GenerateColumnMismatchReport(db, cmd.OutOrStdout())
		if err != nil {
			return err
		}
		if strict, _ := cmd.Flags().GetBool("strict"); strict && total > 0 {
			return fmt.Errorf("%d unmapped columns", total)
		}
		return nil
	},
}

var tokenCmd = &cobra.Command{
	Use:   "token",
	Short: "Issue an admin API bearer token for a user id",
	RunE: func(cmd *cobra.Command, args []string) error {
		userID, _ := cmd.Flags().GetUint("user")
		ttl, _ := cmd.Flags().GetDuration("ttl")

		secret, err := resolveJWTSecret(cmd.Context(), loadConfig())
		if err != nil {
			return err
		}
		if secret == "" {
			return fmt.Errorf("JWT_SECRET is not configured")
		}

		token, err := api.IssueToken(secret, userID, ttl)
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), token)
		return nil
	},
}

func init() {
	seedCmd.Flags().Bool("force", false, "confirm that existing data may be deleted")
	seedCmd.Flags().Bool("migrate", false, "run migrations before seeding")

	generateCmd.Flags().String("out", "./generated", "output directory")

	reportCmd.Flags().Bool("strict", false, "exit non-zero when unmapped columns are found")

	tokenCmd.Flags().Uint("user", 1, "user id placed in the token subject")
	tokenCmd.Flags().Duration("ttl", 24*time.Hour, "token lifetime")
}
