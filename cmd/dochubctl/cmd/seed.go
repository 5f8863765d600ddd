package cmd

import (
	"github.com/dochub-api/internal/repository"
	"github.com/dochub-api/internal/service"
	"github.com/spf13/cobra"
)

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Create the default author and category",
	Long: `Ensure the default author (DEFAULT_AUTHOR_ID) and the default category exist.
Running it more than once is safe.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		db, err := openDB(cmd.Context())
		if err != nil {
			return err
		}
		defer db.Close()

		seeder := service.NewSeeder(repository.New(db), cfg.Wiki, log)
		if err := seeder.SeedDefaults(cmd.Context()); err != nil {
			return err
		}
		log.Info().Msg("Default data is in place")
		return nil
	},
}

func init() {
	rootCmd.AddCommand(seedCmd)
}
