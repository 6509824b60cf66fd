// Package v1 provides the gateway HTTP API version 1.
package v1

import (
	"github.com/gin-gonic/gin"

	"logoobjects/internal/domain"
	"logoobjects/internal/infrastructure/http/v1/handlers"
	"logoobjects/internal/infrastructure/http/v1/middleware"
	"logoobjects/internal/metadata"
	"logoobjects/pkg/logger"
)

// RouterConfig holds router configuration.
type RouterConfig struct {
	// Registry lists the entities the gateway exposes.
	Registry *metadata.Registry

	// Requester performs the upstream Logo Objects calls.
	Requester domain.Requester

	// Logger for request logging
	Logger *logger.Logger

	// APIKeyHash is the bcrypt hash of the gateway key; empty disables the check.
	APIKeyHash string

	// HealthChecks are probed by /health/ready.
	HealthChecks map[string]handlers.Pinger

	// Debug switches Gin to debug mode.
	Debug bool
}

// NewRouter creates and configures the Gin router.
func NewRouter(cfg RouterConfig) *gin.Engine {
	if cfg.Debug {
		gin.SetMode(gin.DebugMode)
	} else {
		gin.SetMode(gin.ReleaseMode)
	}
	if cfg.Logger == nil {
		cfg.Logger = logger.Default()
	}

	router := gin.New()

	// Global middleware (order matters!)
	router.Use(middleware.Recovery())
	router.Use(middleware.Trace())
	router.Use(middleware.Logger(cfg.Logger))
	router.Use(middleware.ErrorHandler())

	// Health endpoints (no auth)
	healthHandler := handlers.NewHealthHandler(cfg.HealthChecks)
	health := router.Group("/health")
	{
		health.GET("/live", healthHandler.Live)
		health.GET("/ready", healthHandler.Ready)
	}

	base := handlers.NewBaseHandler(cfg.Registry)

	v1 := router.Group("/api/v1")
	v1.Use(middleware.APIKey(cfg.APIKeyHash))
	{
		meta := handlers.NewMetadataHandler(base)
		v1.GET("/entities", meta.ListEntities)
		v1.GET("/entities/:entity", meta.GetEntity)

		query := handlers.NewQueryHandler(base)
		v1.POST("/query/compile", query.Compile)

		RegisterEntityRoutes(v1, handlers.NewEntityHandler(base, cfg.Requester))
	}

	return router
}
