package handlers

import (
	"net/http"

	"github.com/SscSPs/shop_finance_ledger/cmd/docs"
	portssvc "github.com/SscSPs/shop_finance_ledger/internal/core/ports/services"
	"github.com/SscSPs/shop_finance_ledger/internal/middleware"
	"github.com/SscSPs/shop_finance_ledger/internal/platform/cache"
	"github.com/SscSPs/shop_finance_ledger/internal/platform/config"
	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

// RegisterRoutes sets up all application routes, injecting dependencies using interfaces.
// A nil idempotencyStore disables Idempotency-Key checks.
func RegisterRoutes(
	r *gin.Engine,
	cfg *config.Config,
	services *portssvc.ServiceContainer,
	idempotencyStore cache.IdempotencyStore,
) {
	registerValidators()

	r.GET("/health", getHealth)

	setupAPIV1Routes(r, cfg, services, idempotencyStore)

	setupSwaggerRoutes(r, cfg)
}

// setupAPIV1Routes configures the /api/v1 group and delegates to specific entity route registrations
func setupAPIV1Routes(
	r *gin.Engine,
	cfg *config.Config,
	service *portssvc.ServiceContainer,
	idempotencyStore cache.IdempotencyStore,
) {
	v1 := r.Group("/api/v1", middleware.AuthMiddleware(cfg.JWTSecret))
	idempotent := middleware.Idempotency(idempotencyStore, cfg.IdempotencyTTL)

	registerAccountRoutes(v1, service.Account)
	registerJournalRoutes(v1, service.Journal, idempotent)
	registerInvoiceRoutes(v1, service.Invoice, idempotent)
	registerBudgetRoutes(v1, service.Budget)
	registerReportingRoutes(v1, service.Reporting)
	registerAuditRoutes(v1, service.Audit)
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

// getHealth godoc
// @Summary Show the status of server.
// @Tags root
// @Produce plain
// @Success 200 {string} string "OK"
// @Router /health [get]
func getHealth(c *gin.Context) {
	c.String(http.StatusOK, "OK")
}
