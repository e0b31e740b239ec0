package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/ALANAK777/erp_finance_system/internal/audit"
	portssvc "github.com/ALANAK777/erp_finance_system/internal/core/ports/services"
	"github.com/ALANAK777/erp_finance_system/internal/core/services"
	"github.com/ALANAK777/erp_finance_system/internal/handlers"
	"github.com/ALANAK777/erp_finance_system/internal/middleware"
	"github.com/ALANAK777/erp_finance_system/internal/platform/analytics"
	"github.com/ALANAK777/erp_finance_system/internal/platform/config"
	"github.com/ALANAK777/erp_finance_system/internal/repositories/database/pgsql"
	"github.com/ALANAK777/erp_finance_system/pkg/database"
	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"
)

const shutdownTimeout = 15 * time.Second

func newServeCmd(logger *slog.Logger, load func() (*config.Config, error)) *cobra.Command {
	var skipMigrations bool

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP API",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := load()
			if err != nil {
				return fmt.Errorf("load config: %w", err)
			}
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return serve(ctx, cfg, logger, !skipMigrations)
		},
	}
	cmd.Flags().BoolVar(&skipMigrations, "skip-migrations", false, "Do not apply pending migrations on startup")
	return cmd
}

func serve(ctx context.Context, cfg *config.Config, logger *slog.Logger, runMigrations bool) error {
	if runMigrations {
		logger.Info("Running database migrations...")
		if err := database.Migrate(cfg.DatabaseURL, cfg.MigrationsPath, database.MigrateUp, 0, logger); err != nil {
			return err
		}
	}

	dbPool, err := database.NewPgxPool(ctx, cfg.DatabaseURL, database.PoolOptions{})
	if err != nil {
		return fmt.Errorf("initialize database pool: %w", err)
	}
	defer database.ClosePgxPool(dbPool)

	posthogClient := analytics.NewPosthogClient(cfg.PostHogAPIKey, cfg.PostHogEndpoint, logger)
	defer posthogClient.Close()

	repos := pgsql.NewRepositoryProvider(dbPool)

	sinks := []portssvc.AuditSink{audit.NewRepositorySink(repos.AuditRepo)}
	if posthogClient.IsInitialized() {
		sinks = append(sinks, audit.NewPosthogSink(posthogClient))
	}
	if cfg.AuditDynamoDBTable != "" {
		dynamoSink, err := audit.NewDynamoDBSinkFromEnv(ctx, cfg.AWSRegion, cfg.AuditDynamoDBTable)
		if err != nil {
			return fmt.Errorf("initialize dynamodb audit sink: %w", err)
		}
		sinks = append(sinks, dynamoSink)
	}
	fanOut := audit.NewMultiSink(sinks...)
	logger.Info("Audit sinks configured", slog.Int("count", fanOut.Len()), slog.Int("queue_size", cfg.AuditQueueSize))
	auditSink := audit.NewAsyncSink(fanOut, cfg.AuditQueueSize)
	// Runs before the pool closes so queued records still reach Postgres.
	defer func() {
		drainCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := auditSink.Close(drainCtx); err != nil {
			logger.Warn("Audit queue not fully drained", slog.String("error", err.Error()))
		}
	}()

	serviceContainer, err := services.NewServiceContainer(cfg, repos, auditSink)
	if err != nil {
		return fmt.Errorf("initialize services: %w", err)
	}

	if cfg.EnableDBCheck {
		checkLedger(ctx, serviceContainer.Reporting, logger)
	}

	if cfg.IsProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	limiter, err := middleware.NewRateLimiter(cfg.RateLimit)
	if err != nil {
		return fmt.Errorf("initialize rate limiter: %w", err)
	}

	r := gin.New()
	r.Use(
		middleware.StructuredLoggingMiddleware(logger),
		gin.Recovery(),
		middleware.CORS(cfg.CORSAllowedOrigins),
		middleware.RateLimit(limiter),
	)
	if err := r.SetTrustedProxies(nil); err != nil {
		return fmt.Errorf("set trusted proxies: %w", err)
	}

	handlers.RegisterRoutes(r, cfg, serviceContainer, posthogClient)

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("Server starting", slog.String("port", cfg.Port))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return fmt.Errorf("server failed: %w", err)
	case <-ctx.Done():
	}

	logger.Info("Shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

// checkLedger logs cached balances that disagree with posting history. It
// never blocks startup.
func checkLedger(ctx context.Context, reporting portssvc.ReportingService, logger *slog.Logger) {
	report, err := reporting.ReconcileBalances(ctx)
	if err != nil {
		logger.Error("Ledger consistency check failed", slog.String("error", err.Error()))
		return
	}
	if report.IsConsistent {
		logger.Info("Ledger consistency check passed", slog.Int("accounts", report.CheckedAccounts))
		return
	}
	for _, d := range report.Discrepancies {
		logger.Warn("Account balance drift", slog.Any("discrepancy", d))
	}
}
