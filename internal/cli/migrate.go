package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/magabrotheeeer/awfixer-portal/internal/config"
	"github.com/magabrotheeeer/awfixer-portal/internal/migrations"
	"github.com/magabrotheeeer/awfixer-portal/internal/storage/repository"
)

func newMigrateCommand() *cobra.Command {
	var configPath string

	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Apply database migrations and print the schema version",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.Load(configPath)
			if err != nil {
				return err
			}
			db, err := repository.New(cmd.Context(), cfg.Storage.ConnectionString)
			if err != nil {
				return err
			}
			defer db.Close()

			if err := migrations.Run(db.DB, cfg.Storage.MigrationsPath); err != nil {
				return err
			}
			version, dirty, err := migrations.Version(db.DB, cfg.Storage.MigrationsPath)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "schema version %d (dirty: %t)\n", version, dirty)
			return nil
		},
	}
	cmd.Flags().StringVar(&configPath, "config", os.Getenv("CONFIG_PATH"), "path to the config file")
	return cmd
}
