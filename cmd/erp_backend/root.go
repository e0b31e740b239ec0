package main

import (
	"log/slog"

	"github.com/ALANAK777/erp_finance_system/internal/platform/config"
	"github.com/spf13/cobra"
)

func newRootCmd(logger *slog.Logger) *cobra.Command {
	root := &cobra.Command{
		Use:           "erp_backend",
		Short:         "Construction ERP finance service",
		Long:          "Double-entry general ledger with journal approval, invoice and payment posting, and financial statements, backed by PostgreSQL.",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	// each subcommand loads config when it runs
	load := func() (*config.Config, error) {
		return config.LoadConfig()
	}

	root.AddCommand(
		newServeCmd(logger, load),
		newMigrateCmd(logger, load),
		newSeedCmd(logger, load),
		newTokenCmd(logger, load),
		newAPIKeyCmd(),
	)
	return root
}
