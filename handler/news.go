package handler

import (
	"context"
	"log"
	"net/http"
	"strconv"
	"strings"

	"github.com/Serg1oA/news-now-quick/middleware"
	"github.com/Serg1oA/news-now-quick/model"
	"github.com/gin-gonic/gin"
)

const (
	DefaultMaxArticles = 10
	MinMaxArticles     = 1
	MaxMaxArticles     = 100
)

type NewsService interface {
	News(ctx context.Context, req model.FilterRequest, requestID string) (model.Envelope, int)
	Search(ctx context.Context, req model.FilterRequest, requestID string) (model.Envelope, int)
}

type NewsHandler struct {
	service NewsService
}

func NewNewsHandler(s NewsService) *NewsHandler {
	return &NewsHandler{service: s}
}

// GetNews handles GET /api/news
func (h *NewsHandler) GetNews(c *gin.Context) {
	req := model.FilterRequest{
		Topic:       c.DefaultQuery("topic", "all"),
		Language:    c.DefaultQuery("language", "en"),
		Country:     c.DefaultQuery("country", "all"),
		DateRange:   c.DefaultQuery("dateRange", "week"),
		SearchQuery: strings.TrimSpace(c.Query("q")),
		MaxArticles: parseMax(c.Query("max")),
	}

	log.Printf("[INFO] GetNews called with topic=%s, language=%s, country=%s, dateRange=%s, max=%d",
		req.Topic, req.Language, req.Country, req.DateRange, req.MaxArticles)

	env, status := h.service.News(c.Request.Context(), req, c.GetString(middleware.RequestIDKey))
	c.JSON(status, env)
}

// SearchNews handles GET /api/search
func (h *NewsHandler) SearchNews(c *gin.Context) {
	query := strings.TrimSpace(c.Query("q"))
	if query == "" {
		log.Printf("[WARN] Missing search query")
		c.JSON(http.StatusBadRequest, model.ErrorEnvelope("Search query is required"))
		return
	}

	req := model.FilterRequest{
		Language:    c.DefaultQuery("language", "en"),
		Country:     c.DefaultQuery("country", "all"),
		DateRange:   c.DefaultQuery("dateRange", "week"),
		SearchQuery: query,
		MaxArticles: parseMax(c.Query("max")),
	}

	log.Printf("[INFO] SearchNews called with query='%s', language=%s, country=%s, dateRange=%s, max=%d",
		req.SearchQuery, req.Language, req.Country, req.DateRange, req.MaxArticles)

	env, status := h.service.Search(c.Request.Context(), req, c.GetString(middleware.RequestIDKey))
	c.JSON(status, env)
}

// parseMax clamps the client's max into [1, 100]. Missing or non-numeric
// values use the default.
func parseMax(raw string) int {
	if raw == "" {
		return DefaultMaxArticles
	}
	n, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil {
		log.Printf("[WARN] Invalid max: %s, using %d", raw, DefaultMaxArticles)
		return DefaultMaxArticles
	}
	if n < MinMaxArticles {
		return MinMaxArticles
	}
	if n > MaxMaxArticles {
		return MaxMaxArticles
	}
	return n
}
