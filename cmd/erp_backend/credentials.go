package main

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/ALANAK777/erp_finance_system/internal/platform/config"
	"github.com/ALANAK777/erp_finance_system/internal/utils/credentials"
	"github.com/spf13/cobra"
)

func newTokenCmd(logger *slog.Logger, load func() (*config.Config, error)) *cobra.Command {
	var (
		userID string
		ttl    time.Duration
	)

	cmd := &cobra.Command{
		Use:   "token",
		Short: "Print a signed bearer token for a user (development and operator use)",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := load()
			if err != nil {
				return fmt.Errorf("load config: %w", err)
			}
			if cfg.IsProduction {
				logger.Warn("Issuing a token with the production secret", slog.String("user_id", userID))
			}
			signed, err := credentials.IssueToken(userID, cfg.JWTSecret, cfg.JWTIssuer, ttl)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), signed)
			return nil
		},
	}
	cmd.Flags().StringVar(&userID, "user", "", "User ID placed in the token subject")
	cmd.Flags().DurationVar(&ttl, "ttl", time.Hour, "Token lifetime")
	_ = cmd.MarkFlagRequired("user")
	return cmd
}

func newAPIKeyCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "apikey",
		Short: "Generate a service API key and the hash to configure as SERVICE_API_KEY_HASH",
		RunE: func(cmd *cobra.Command, args []string) error {
			key, hash, err := credentials.NewAPIKey()
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "key:  %s\n", key)
			fmt.Fprintf(out, "hash: %s\n", hash)
			return nil
		},
	}
}
