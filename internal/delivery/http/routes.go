package http

import (
	"log/slog"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/glowadvisor/backend/config"
	"github.com/glowadvisor/backend/internal/infrastructure/metrics"
)

// SetupRouter creates and configures the Gin router. recorder may be nil to
// run without metrics.
func SetupRouter(cfg *config.Config, handler *Handler, recorder *metrics.Recorder, logger *slog.Logger) *gin.Engine {
	// Set Gin mode based on environment
	if cfg.Server.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	if logger == nil {
		logger = slog.Default()
	}

	router := gin.New()
	router.SetHTMLTemplate(loadTemplates())

	// Global middleware
	router.Use(RecoveryMiddleware())
	router.Use(LoggerMiddleware(logger))
	if recorder != nil {
		router.Use(MetricsMiddleware(recorder))
	}
	router.Use(CORSMiddleware(cfg.Server.AllowedOrigins))

	// Health check and metrics endpoints
	router.GET("/health", handler.HealthCheck)
	if recorder != nil {
		router.GET("/metrics", gin.WrapH(recorder.Handler()))
	}

	// A local catalog file is served as-is for clients that fetch it directly
	if source := cfg.Catalog.Source; source != "" && !isRemoteSource(source) {
		router.StaticFile("/products.json", source)
	}

	limited := router.Group("/", RateLimitMiddleware(cfg.RateLimit.PerIP))

	// Server-rendered page and its form posts
	limited.GET("/", handler.Index)
	limited.POST("/selection/toggle", handler.ToggleForm)
	limited.POST("/selection/remove", handler.RemoveForm)
	limited.POST("/selection/clear", handler.ClearForm)
	limited.POST("/chat", handler.ChatForm)
	limited.POST("/routine", handler.RoutineForm)
	limited.POST("/transcript/clear", handler.ClearTranscriptForm)

	// API v1 routes
	v1 := limited.Group("/api/v1")
	{
		v1.GET("/products", handler.ListProducts)
		v1.GET("/categories", handler.ListCategories)

		selection := v1.Group("/selection")
		{
			selection.GET("", handler.GetSelection)
			selection.POST("", handler.ToggleSelection)
			selection.DELETE("", handler.ClearSelection)
			selection.DELETE("/:index", handler.RemoveSelectionAt)
		}

		v1.POST("/chat", handler.SendChat)
		v1.POST("/routine", handler.GenerateRoutine)
		v1.GET("/transcript", handler.GetTranscript)
		v1.DELETE("/transcript", handler.ClearTranscript)
	}

	return router
}

func isRemoteSource(source string) bool {
	return strings.HasPrefix(source, "http://") || strings.HasPrefix(source, "https://")
}
