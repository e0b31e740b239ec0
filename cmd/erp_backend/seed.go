package main

import (
	"fmt"
	"log/slog"

	"github.com/ALANAK777/erp_finance_system/internal/core/services"
	"github.com/ALANAK777/erp_finance_system/internal/platform/chart"
	"github.com/ALANAK777/erp_finance_system/internal/platform/config"
	"github.com/ALANAK777/erp_finance_system/internal/repositories/database/pgsql"
	"github.com/ALANAK777/erp_finance_system/pkg/database"
	"github.com/spf13/cobra"
)

// seedActorID is recorded as creator of seeded accounts.
const seedActorID = "system:seed"

func newSeedCmd(logger *slog.Logger, load func() (*config.Config, error)) *cobra.Command {
	var chartFile string

	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Create the chart of accounts from a YAML file",
		Long:  "Creates every account listed in the chart file that does not exist yet. Existing accounts are not modified.",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := load()
			if err != nil {
				return fmt.Errorf("load config: %w", err)
			}
			if chartFile == "" {
				chartFile = cfg.ChartOfAccountsFile
			}

			coa, err := chart.LoadFile(chartFile)
			if err != nil {
				return err
			}
			if err := coa.RequireCodes(services.PostingCodes(cfg).All()...); err != nil {
				return err
			}

			ctx := cmd.Context()
			dbPool, err := database.NewPgxPool(ctx, cfg.DatabaseURL, database.PoolOptions{MaxConns: 2})
			if err != nil {
				return fmt.Errorf("initialize database pool: %w", err)
			}
			defer database.ClosePgxPool(dbPool)

			repos := pgsql.NewRepositoryProvider(dbPool)
			container, err := services.NewServiceContainer(cfg, repos, nil)
			if err != nil {
				return err
			}

			res, err := chart.Seed(ctx, container.Account, coa, seedActorID)
			if err != nil {
				return err
			}
			logger.Info("Chart of accounts seeded",
				slog.String("file", chartFile),
				slog.Int("created", res.Created),
				slog.Int("existing", res.Existing))
			return nil
		},
	}
	cmd.Flags().StringVar(&chartFile, "file", "", "Chart of accounts YAML (defaults to CHART_OF_ACCOUNTS_FILE)")
	return cmd
}
