package cmd

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"
)

var downSteps int

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Manage the database schema",
	Long: `Apply or roll back schema migrations from MIGRATIONS_PATH.

Example usage:
  dochubctl migrate up
  dochubctl migrate down --steps 2
  dochubctl migrate to 4`,
}

var migrateUpCmd = &cobra.Command{
	Use:   "up",
	Short: "Apply all pending migrations",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		db, err := openDB(cmd.Context())
		if err != nil {
			return err
		}
		defer db.Close()
		return db.RunMigrations(cfg.Database.MigrationsPath)
	},
}

var migrateDownCmd = &cobra.Command{
	Use:   "down",
	Short: "Roll back migrations",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if downSteps <= 0 {
			return fmt.Errorf("--steps must be positive")
		}
		db, err := openDB(cmd.Context())
		if err != nil {
			return err
		}
		defer db.Close()
		return db.MigrateDown(cfg.Database.MigrationsPath, downSteps)
	},
}

var migrateToCmd = &cobra.Command{
	Use:   "to <version>",
	Short: "Migrate up or down to a specific version",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		target, err := strconv.ParseUint(args[0], 10, 32)
		if err != nil {
			return fmt.Errorf("invalid version %q: %w", args[0], err)
		}
		db, err := openDB(cmd.Context())
		if err != nil {
			return err
		}
		defer db.Close()
		return db.MigrateToVersion(cfg.Database.MigrationsPath, uint(target))
	},
}

func init() {
	migrateDownCmd.Flags().IntVarP(&downSteps, "steps", "n", 1, "number of migrations to roll back")

	migrateCmd.AddCommand(migrateUpCmd, migrateDownCmd, migrateToCmd)
	rootCmd.AddCommand(migrateCmd)
}
