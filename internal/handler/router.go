package handler

import (
	"net/http"

	"github.com/SergeiKhy/shortlink-analytics/internal/middleware"
	"github.com/SergeiKhy/shortlink-analytics/internal/service"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
)

func NewRouter(
	urlService service.URLService,
	analyticsService service.AnalyticsService,
	rateLimiter *middleware.RateLimiter,
	authMiddleware gin.HandlerFunc,
	logger *zap.Logger,
) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.RequestLogger(logger))

	urlHandler := NewURLHandler(urlService, logger)
	analyticsHandler := NewAnalyticsHandler(analyticsService, logger)

	api := router.Group("/api")
	{
		api.POST("/shorten", rateLimiter.Middleware(), authMiddleware, urlHandler.CreateShortURL)
		// Редирект публичный, без аутентификации
		api.GET("/shorten/:alias", rateLimiter.Middleware(), urlHandler.Redirect)

		analytics := api.Group("/analytics", authMiddleware)
		{
			analytics.GET("/overall", analyticsHandler.OverallAnalytics)
			analytics.GET("/topic/:topic", analyticsHandler.TopicAnalytics)
			analytics.GET("/:alias", analyticsHandler.AliasAnalytics)
		}
	}

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	return router
}
