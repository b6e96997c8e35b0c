package cmd

import (
	"fmt"

	"github.com/frahmantamala/payraise-portal/internal/seed"
	"github.com/spf13/cobra"
)

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Seed the database with sample data",
	Long: `Seed the database with demo employees, the admin1, manager and staff
logins and one pay raise for admin1. Existing rows are left alone.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		cfg, err := loadConfig(configPath)
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}

		app, err := newApplication(ctx, cfg)
		if err != nil {
			return err
		}
		defer app.Close()

		seeder := seed.NewSeeder(app.DB.Gorm, app.Users, app.Auth, app.PayRaises, app.Logger)
		if clearData {
			if err := seeder.Clear(ctx); err != nil {
				return fmt.Errorf("failed to clear data: %w", err)
			}
			app.Logger.Warn("existing portal data cleared")
		}

		report, err := seeder.Run(ctx)
		if err != nil {
			return err
		}

		fmt.Fprintf(cmd.OutOrStdout(), "Seeded %d employees, %d users, %d pay raises\n",
			report.Employees, report.Users, report.Raises)
		return nil
	},
}
