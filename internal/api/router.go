package api

import (
	"context"
	"net/http"
	"time"

	"github.com/dochub-api/internal/config"
	"github.com/dochub-api/internal/service"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
	"golang.org/x/time/rate"
)

const healthCheckTimeout = 3 * time.Second

// NewRouter creates and configures the Gin router
func NewRouter(services *service.Services, cfg *config.Config, log zerolog.Logger) *gin.Engine {
	router := gin.New()

	// Middleware
	router.Use(recoveryMiddleware(log))
	router.Use(requestIDMiddleware())
	router.Use(otelgin.Middleware(cfg.Telemetry.ServiceName))
	router.Use(metricsMiddleware())
	router.Use(loggingMiddleware(log))
	router.Use(corsMiddleware(cfg.Server.AllowedOrigins))

	limit := rate.Limit(cfg.RateLimit.RequestsPerSecond)
	uploadLimiter := NewRateLimiter("uploads", limit, cfg.RateLimit.Burst)
	pdfLimiter := NewRateLimiter("pdf", limit, cfg.RateLimit.Burst)

	// Handlers
	articleHandler := NewArticleHandler(services, log)
	commentHandler := NewCommentHandler(services, log)
	categoryHandler := NewCategoryHandler(services, log)
	tagHandler := NewTagHandler(services, log)
	articleTagHandler := NewArticleTagHandler(services, log)
	userHandler := NewUserHandler(services, log)
	uploadHandler := NewUploadHandler(services, cfg, log)

	// Health check and metrics
	router.GET("/api/health", healthCheck(services))
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	// Uploaded images
	router.Static(cfg.Upload.PublicPath, services.Upload.Dir())

	// API v1
	v1 := router.Group("/api/v1")
	{
		articles := v1.Group("/articles")
		{
			articles.POST("", articleHandler.Create)
			articles.GET("", articleHandler.List)
			articles.GET("/statistics", articleHandler.Statistics)
			articles.GET("/:id", articleHandler.Get)
			articles.PUT("/:id", articleHandler.Update)
			articles.DELETE("/:id", articleHandler.Delete)
			articles.PATCH("/:id/favorite", articleHandler.ToggleFavorite)
			articles.GET("/:id/versions", articleHandler.ListVersions)
			articles.GET("/:id/versions/:versionNumber", articleHandler.GetVersion)
			articles.POST("/:id/versions/:versionNumber/restore", articleHandler.RestoreVersion)
			articles.GET("/:id/pdf", pdfLimiter.Middleware(), articleHandler.ExportPDF)
		}

		comments := v1.Group("/comments")
		{
			comments.GET("/article/:articleId", commentHandler.ListByArticle)
			comments.POST("/article/:articleId", commentHandler.Create)
			comments.GET("/:commentId", commentHandler.Get)
			comments.PUT("/:commentId", commentHandler.Update)
			comments.DELETE("/:commentId", commentHandler.Delete)
		}

		categories := v1.Group("/categories")
		{
			categories.POST("", categoryHandler.Create)
			categories.GET("", categoryHandler.List)
			categories.GET("/:id", categoryHandler.Get)
			categories.PUT("/:id", categoryHandler.Update)
			categories.DELETE("/:id", categoryHandler.Delete)
		}

		tags := v1.Group("/tags")
		{
			tags.POST("", tagHandler.Create)
			tags.GET("", tagHandler.List)
			tags.GET("/:id", tagHandler.Get)
			tags.PUT("/:id", tagHandler.Update)
			tags.DELETE("/:id", tagHandler.Delete)
		}

		articleTags := v1.Group("/article-tags")
		{
			articleTags.POST("", articleTagHandler.Link)
			articleTags.DELETE("", articleTagHandler.Unlink)
			articleTags.GET("", articleTagHandler.List)
			articleTags.GET("/:id", articleTagHandler.Get)
		}

		users := v1.Group("/users")
		{
			users.POST("", userHandler.Create)
			users.GET("", userHandler.List)
			users.GET("/:id", userHandler.Get)
		}

		uploads := v1.Group("/uploads", uploadLimiter.Middleware())
		{
			uploads.POST("/image", uploadHandler.UploadImage)
			uploads.POST("/images", uploadHandler.UploadImages)
			uploads.DELETE("/image/:filename", uploadHandler.DeleteImage)
		}
	}

	return router
}

// healthCheck reports service and database status
func healthCheck(services *service.Services) gin.HandlerFunc {
	return func(c *gin.Context) {
		body := gin.H{
			"status":    "ok",
			"timestamp": time.Now().Format(time.RFC3339),
			"database":  "connected",
		}
		if services.Health != nil {
			stats := services.Health.Stats()
			body["pool"] = gin.H{
				"open":    stats.OpenConnections,
				"inUse":   stats.InUse,
				"idle":    stats.Idle,
				"maxOpen": stats.MaxOpenConnections,
			}

			ctx, cancel := contextWithTimeout(c, healthCheckTimeout)
			defer cancel()
			if err := services.Health.HealthCheck(ctx); err != nil {
				body["status"] = "unavailable"
				body["database"] = "disconnected"
				c.JSON(http.StatusServiceUnavailable, body)
				return
			}
		}
		c.JSON(http.StatusOK, body)
	}
}

// contextWithTimeout creates a context with timeout for handlers
func contextWithTimeout(c *gin.Context, timeout time.Duration) (context.Context, context.CancelFunc) {
	return context.WithTimeout(c.Request.Context(), timeout)
}
