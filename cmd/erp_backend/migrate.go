package main

import (
	"fmt"
	"log/slog"

	"github.com/ALANAK777/erp_finance_system/internal/platform/config"
	"github.com/ALANAK777/erp_finance_system/pkg/database"
	"github.com/spf13/cobra"
)

func newMigrateCmd(logger *slog.Logger, load func() (*config.Config, error)) *cobra.Command {
	var steps int

	cmd := &cobra.Command{
		Use:       "migrate [up|down]",
		Short:     "Apply or revert database migrations",
		Args:      cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
		ValidArgs: []string{string(database.MigrateUp), string(database.MigrateDown)},
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := load()
			if err != nil {
				return fmt.Errorf("load config: %w", err)
			}
			direction := database.MigrationDirection(args[0])
			if direction == database.MigrateDown && steps == 0 {
				// reverting everything must be explicit
				return fmt.Errorf("migrate down requires --steps")
			}
			return database.Migrate(cfg.DatabaseURL, cfg.MigrationsPath, direction, steps, logger)
		},
	}
	cmd.Flags().IntVar(&steps, "steps", 0, "Number of migrations to apply or revert (0 = all pending, up only)")
	return cmd
}
