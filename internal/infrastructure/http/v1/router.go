// Package v1 provides HTTP API version 1.
package v1

import (
	"github.com/gin-gonic/gin"

	"fieldops/internal/core/tenant"
	"fieldops/internal/domain/numbering"
	"fieldops/internal/infrastructure/http/v1/handlers"
	"fieldops/internal/infrastructure/http/v1/middleware"
	"fieldops/pkg/logger"
)

// RouterConfig holds router dependencies.
type RouterConfig struct {
	// Registry resolves and manages tenants
	Registry tenant.Registry

	// Numbering issues and configures sequential numbers
	Numbering *numbering.Service

	// DB is used by health checks
	DB handlers.Pinger

	// Driver names the active storage backend ("postgres" or "sqlite")
	Driver string

	// Logger for request logging
	Logger *logger.Logger

	// Version is reported by /health/info
	Version string
}

// NewRouter creates and configures the Gin router.
func NewRouter(cfg RouterConfig) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)

	router := gin.New()

	// Global middleware (order matters!)
	router.Use(middleware.Recovery())
	router.Use(middleware.Trace())
	router.Use(middleware.Logger(cfg.Logger))
	router.Use(middleware.ErrorHandler())

	baseHandler := handlers.NewBaseHandler()

	// Health endpoints (no tenant required)
	healthHandler := handlers.NewHealthHandler(cfg.DB, cfg.Driver, cfg.Version)
	health := router.Group("/health")
	{
		health.GET("/live", healthHandler.Live)
		health.GET("/ready", healthHandler.Ready)
		health.GET("/info", healthHandler.Info)
	}

	// Admin endpoints (no tenant header; operate on the registry itself)
	tenantHandler := handlers.NewTenantHandler(baseHandler, cfg.Registry)
	admin := router.Group("/admin/tenants")
	{
		admin.POST("", tenantHandler.Create)
		admin.GET("", tenantHandler.List)
		admin.GET("/:id", tenantHandler.Get)
		admin.PUT("/:id/status", tenantHandler.UpdateStatus)
	}

	// Tenant-scoped API
	numberingHandler := handlers.NewNumberingHandler(baseHandler, cfg.Numbering)
	apiV1 := router.Group("/api/v1")
	apiV1.Use(middleware.Tenant(cfg.Registry))
	{
		settings := apiV1.Group("/settings/number-formats")
		{
			settings.GET("", numberingHandler.GetFormats)
			settings.PUT("", numberingHandler.UpdateFormats)
			settings.GET("/defaults", numberingHandler.Defaults)
			settings.POST("/preview", numberingHandler.Preview)
		}

		apiV1.POST("/numbers/:type", numberingHandler.Generate)
	}

	return router
}
