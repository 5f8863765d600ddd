// Package cmd contains the dochubctl commands
package cmd

import (
	"context"
	"fmt"

	"github.com/dochub-api/internal/config"
	"github.com/dochub-api/internal/database"
	"github.com/dochub-api/pkg/logger"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
)

var (
	verbose bool
	cfg     *config.Config
	log     zerolog.Logger
	version = "dev"
)

var rootCmd = &cobra.Command{
	Use:   "dochubctl",
	Short: "Operations CLI for the DocHub API",
	Long: `dochubctl manages the DocHub database outside the server process.

Configuration is read from the same environment variables (and .env file)
as the server.

Example usage:
  dochubctl migrate up          # Apply all pending migrations
  dochubctl migrate down -n 1   # Roll back the last migration
  dochubctl migrate to 3        # Migrate to schema version 3
  dochubctl seed                # Create the default author and category`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		return initConfig()
	},
}

// Execute runs the root command; ctx is cancelled on interrupt
func Execute(ctx context.Context) error {
	return rootCmd.ExecuteContext(ctx)
}

// SetVersion sets the version string for the CLI
func SetVersion(v string) {
	version = v
	rootCmd.Version = v
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
}

func initConfig() error {
	var err error
	cfg, err = config.Load()
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	level := cfg.Log.Level
	if verbose {
		level = "debug"
	}
	log = logger.New(level, "pretty").With().Str("component", "dochubctl").Logger()
	log.Debug().Str("version", version).Str("db_host", cfg.Database.Host).Msg("Configuration loaded")
	return nil
}

func openDB(ctx context.Context) (*database.DB, error) {
	db, err := database.New(ctx, &cfg.Database, log)
	if err != nil {
		return nil, fmt.Errorf("connecting to database: %w", err)
	}
	return db, nil
}
