package handler

import (
	"errors"
	"net/http"
	"time"

	"github.com/SergeiKhy/shortlink-analytics/internal/middleware"
	"github.com/SergeiKhy/shortlink-analytics/internal/models"
	"github.com/SergeiKhy/shortlink-analytics/internal/service"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type URLHandler struct {
	service service.URLService
	logger  *zap.Logger
}

func NewURLHandler(service service.URLService, logger *zap.Logger) *URLHandler {
	return &URLHandler{
		service: service,
		logger:  logger,
	}
}

type ShortenRequest struct {
	LongURL     string `json:"longUrl"`
	CustomAlias string `json:"customAlias,omitempty"`
	Topic       string `json:"topic,omitempty"`
}

type ShortenResponse struct {
	ShortURL  string    `json:"shortUrl"`
	CreatedAt time.Time `json:"createdAt"`
}

// CreateShortURL godoc
// @Summary Create a short URL
// @Description Create a new shortened URL for the authenticated user
// @Tags shorten
// @Accept json
// @Produce json
// @Param request body ShortenRequest true "Shorten request"
// @Success 201 {object} ShortenResponse
// @Failure 400 {object} map[string]string
// @Failure 500 {object} map[string]string
// @Router /api/shorten [post]
func (h *URLHandler) CreateShortURL(c *gin.Context) {
	var req ShortenRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "longUrl is required."})
		return
	}

	userID, ok := middleware.UserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"message": "Unauthorized"})
		return
	}

	input := &models.CreateShortURLInput{
		LongURL: req.LongURL,
		UserID:  userID,
	}
	if req.CustomAlias != "" {
		input.CustomAlias = &req.CustomAlias
	}
	if req.Topic != "" {
		input.Topic = &req.Topic
	}

	url, err := h.service.CreateShortURL(c.Request.Context(), input)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrLongURLRequired):
			c.JSON(http.StatusBadRequest, gin.H{"error": "longUrl is required."})
		case errors.Is(err, service.ErrAliasTaken):
			c.JSON(http.StatusBadRequest, gin.H{"error": "Custom alias already exists."})
		default:
			h.logger.Error("Failed to create short url", zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Error creating short URL"})
		}
		return
	}

	c.JSON(http.StatusCreated, ShortenResponse{
		ShortURL:  url.ShortURL,
		CreatedAt: url.CreatedAt,
	})
}

// Redirect godoc
// @Summary Redirect to the destination URL
// @Description Resolve an alias and redirect, recording one click event
// @Tags shorten
// @Produce json
// @Param alias path string true "Alias"
// @Success 302 {object} nil
// @Failure 404 {object} map[string]string
// @Failure 500 {object} map[string]string
// @Router /api/shorten/{alias} [get]
func (h *URLHandler) Redirect(c *gin.Context) {
	alias := c.Param("alias")

	longURL, err := h.service.ResolveAlias(c.Request.Context(), alias, service.ClickContext{
		IPAddress: c.ClientIP(),
		UserAgent: c.Request.UserAgent(),
	})
	if err != nil {
		if errors.Is(err, service.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Short URL not found"})
			return
		}
		h.logger.Error("Failed to resolve alias", zap.String("alias", alias), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}

	c.Redirect(http.StatusFound, longURL)
}
