package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/rpupo63/blog-admin-backend/config"
	"github.com/rpupo63/blog-admin-backend/database"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"gorm.io/gorm"
)

var (
	databaseURL string
	verbose     bool
)

var rootCmd = &cobra.Command{
	Use:   "blogctl",
	Short: "Operator commands for the blog admin backend",
	Long: `blogctl migrates the schema, seeds bootstrap data, generates query code
and reports drift between the database and the Go models.

Configuration is read from the environment and an optional .env file.`,
	SilenceUsage: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
		if verbose {
			zerolog.SetGlobalLevel(zerolog.DebugLevel)
		}
	},
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&databaseURL, "database-url", "", "overrides DATABASE_URL")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "debug logging")

	rootCmd.AddCommand(migrateCmd)
	rootCmd.AddCommand(seedCmd)
	rootCmd.AddCommand(generateCmd)
	rootCmd.AddCommand(reportCmd)
	rootCmd.AddCommand(tokenCmd)
}

// loadConfig reads .env and the environment, applying flag overrides.
func loadConfig() map[string]string {
	if err := godotenv.Load(); err != nil {
		log.Debug().Err(err).Msg("no .env file loaded")
	}
	c := config.New()
	if databaseURL != "" {
		c["DATABASE_URL"] = databaseURL
	}
	return c
}

func openDB() (*gorm.DB, error) {
	return database.Open(loadConfig())
}

// resolveJWTSecret returns JWT_SECRET, falling back to the SSM parameter named by JWT_SECRET_SSM_PARAM.
func resolveJWTSecret(ctx context.Context, c map[string]string) (string, error) {
	var secrets *config.SSMSecrets
	if config.GetString(c, "JWT_SECRET", "") == "" && config.GetString(c, "JWT_SECRET_SSM_PARAM", "") != "" {
		var err error
		secrets, err = config.NewSSMSecrets(ctx, config.GetString(c, "AWS_REGION", ""))
		if err != nil {
			return "", err
		}
	}
	return config.ResolveSecret(ctx, c, "JWT_SECRET", "JWT_SECRET_SSM_PARAM", secrets)
}
