package handlers

import (
	"net/http"

	"github.com/ALANAK777/erp_finance_system/cmd/docs"
	portssvc "github.com/ALANAK777/erp_finance_system/internal/core/ports/services"
	"github.com/ALANAK777/erp_finance_system/internal/middleware"
	"github.com/ALANAK777/erp_finance_system/internal/platform/analytics"
	"github.com/ALANAK777/erp_finance_system/internal/platform/config"
	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

// RegisterRoutes sets up all application routes, injecting dependencies using interfaces.
// A nil analytics client disables usage tracking.
func RegisterRoutes(
	r *gin.Engine,
	cfg *config.Config,
	services *portssvc.ServiceContainer,
	posthog *analytics.Client,
) {
	RegisterValidators()

	// Add health check route
	r.GET("/health", func(c *gin.Context) {
		c.String(http.StatusOK, "OK")
	})

	setupAPIV1Routes(r, cfg, services, posthog)

	setupSwaggerRoutes(r, cfg)
}

// setupAPIV1Routes configures the /api/v1 group and delegates to specific entity route registrations
func setupAPIV1Routes(
	r *gin.Engine,
	cfg *config.Config,
	service *portssvc.ServiceContainer,
	posthog *analytics.Client,
) {
	// API key first so that service callers skip JWT validation
	v1 := r.Group("/api/v1",
		middleware.APIKeyAuth(cfg.ServiceAPIKeyHash),
		middleware.AuthMiddleware(cfg.JWTSecret, cfg.JWTIssuer),
		middleware.PosthogMiddleware(posthog),
	)

	registerAccountRoutes(v1, service.Account, service.Journal)
	registerJournalRoutes(v1, service.Journal)
	registerInvoiceRoutes(v1, service.Invoice, service.Payment)
	registerProjectRoutes(v1, service.Project)
	registerCashFlowRoutes(v1, service.CashFlow)
	registerReportingRoutes(v1, service.Reporting)
}

// setupSwaggerRoutes configures the swagger documentation routes
func setupSwaggerRoutes(r *gin.Engine, cfg *config.Config) {
	if cfg.IsProduction {
		//no swagger in prod
		return
	}
	docs.SwaggerInfo.BasePath = "/api/v1"
	swagger := r.Group("/swagger")
	swagger.GET("/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
}
