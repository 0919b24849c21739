package http

import (
	"github.com/foodanalyzer/backend/config"
	"github.com/gin-gonic/gin"
)

// SetupRouter creates and configures the Gin router
func SetupRouter(cfg *config.Config, handler *Handler) *gin.Engine {
	// Set Gin mode based on environment
	if cfg.Server.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()

	// Global middleware
	router.Use(RecoveryMiddleware())
	router.Use(RequestIDMiddleware())
	router.Use(LoggerMiddleware())
	router.Use(CORSMiddleware(cfg.Server.AllowedOrigins))

	// Health check endpoint
	router.GET("/health", handler.HealthCheck)

	api := router.Group("/api")
	if cfg.RateLimit.Enabled {
		api.Use(RateLimitMiddleware(cfg.RateLimit.RequestsPerSecond, cfg.RateLimit.Burst))
	}
	{
		api.POST("/analyze-product", handler.AnalyzeProduct)
		api.POST("/analyze-batch", handler.AnalyzeBatch)
		api.GET("/product/:barcode", handler.GetProduct)
		api.GET("/scan-history", handler.ScanHistory)
		api.POST("/score", handler.ScoreProduct)
	}

	return router
}
