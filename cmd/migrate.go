package cmd

import (
	"github.com/frahmantamala/payraise-portal/internal/database"
	"github.com/frahmantamala/payraise-portal/pkg/logger"
	"github.com/spf13/cobra"
)

var (
	migrateCmd = &cobra.Command{
		RunE:  runMigration,
		Use:   "migrate",
		Short: "to run the embedded db migrations for the configured driver",
	}
	migrateRollback bool
)

func init() {
	migrateCmd.Flags().BoolVarP(&migrateRollback, "rollback", "r", false, "to rollback the latest version of sql migration")
}

func runMigration(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()
	cfg, err := loadConfig(configPath)
	if err != nil {
		return err
	}

	lg := logger.L()
	db, err := database.Open(ctx, cfg.Database, lg)
	if err != nil {
		return err
	}
	defer db.Close()

	if err := db.Migrate(ctx, migrateRollback); err != nil {
		return err
	}

	lg.Info("migrations applied", "driver", cfg.Database.Driver, "rollback", migrateRollback)
	return nil
}
