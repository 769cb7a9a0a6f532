package handler

import (
	"errors"
	"net/http"

	"github.com/SergeiKhy/shortlink-analytics/internal/middleware"
	"github.com/SergeiKhy/shortlink-analytics/internal/service"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type AnalyticsHandler struct {
	service service.AnalyticsService
	logger  *zap.Logger
}

func NewAnalyticsHandler(service service.AnalyticsService, logger *zap.Logger) *AnalyticsHandler {
	return &AnalyticsHandler{
		service: service,
		logger:  logger,
	}
}

// AliasAnalytics godoc
// @Summary Click analytics for one alias
// @Tags analytics
// @Produce json
// @Param alias path string true "Alias"
// @Success 200 {object} models.AliasAnalytics
// @Failure 404 {object} map[string]string
// @Router /api/analytics/{alias} [get]
func (h *AnalyticsHandler) AliasAnalytics(c *gin.Context) {
	alias := c.Param("alias")
	userID, ok := middleware.UserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"message": "Unauthorized"})
		return
	}

	stats, err := h.service.AliasAnalytics(c.Request.Context(), userID, alias)
	if err != nil {
		if errors.Is(err, service.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"message": "Short URL not found for this user"})
			return
		}
		h.logger.Error("Failed to get alias analytics", zap.String("alias", alias), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Internal server error"})
		return
	}

	c.JSON(http.StatusOK, stats)
}

// TopicAnalytics godoc
// @Summary Click analytics for all aliases under a topic
// @Tags analytics
// @Produce json
// @Param topic path string true "Topic"
// @Success 200 {object} models.TopicAnalytics
// @Failure 404 {object} map[string]string
// @Router /api/analytics/topic/{topic} [get]
func (h *AnalyticsHandler) TopicAnalytics(c *gin.Context) {
	topic := c.Param("topic")
	userID, ok := middleware.UserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"message": "Unauthorized"})
		return
	}

	stats, err := h.service.TopicAnalytics(c.Request.Context(), userID, topic)
	if err != nil {
		if errors.Is(err, service.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"message": "No URLs found for this topic"})
			return
		}
		h.logger.Error("Failed to get topic analytics", zap.String("topic", topic), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Internal server error"})
		return
	}

	c.JSON(http.StatusOK, stats)
}

// OverallAnalytics godoc
// @Summary Click analytics across the whole account
// @Tags analytics
// @Produce json
// @Success 200 {object} models.OverallAnalytics
// @Failure 404 {object} map[string]string
// @Router /api/analytics/overall [get]
func (h *AnalyticsHandler) OverallAnalytics(c *gin.Context) {
	userID, ok := middleware.UserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"message": "Unauthorized"})
		return
	}

	stats, err := h.service.OverallAnalytics(c.Request.Context(), userID)
	if err != nil {
		if errors.Is(err, service.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"message": "No URLs found for this user"})
			return
		}
		h.logger.Error("Failed to get overall analytics", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Internal server error"})
		return
	}

	c.JSON(http.StatusOK, stats)
}
