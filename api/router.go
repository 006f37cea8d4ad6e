package api

import (
	"log"
	"net/http"

	"github.com/Serg1oA/news-now-quick/config"
	"github.com/Serg1oA/news-now-quick/handler"
	"github.com/Serg1oA/news-now-quick/middleware"
	"github.com/Serg1oA/news-now-quick/web"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Setup builds the engine. limiter may be nil.
func Setup(cfg *config.Config, newsHandler *handler.NewsHandler, limiter *middleware.RateLimiter) *gin.Engine {
	r := gin.New()
	r.Use(gin.Logger())
	r.Use(gin.CustomRecovery(handler.Recovery))
	r.Use(middleware.RequestID())
	r.Use(middleware.PrometheusMiddleware(handler.ServiceName))
	r.Use(cors.New(corsConfig(cfg.AllowedOrigins)))

	index, err := web.IndexHTML()
	if err != nil {
		log.Printf("[WARN] Static index missing: %v", err)
	}

	r.GET("/", func(c *gin.Context) {
		if index == nil {
			handler.NotFound(c)
			return
		}
		c.Data(http.StatusOK, "text/html; charset=utf-8", index)
	})
	r.StaticFS("/static", http.FS(web.Static()))

	r.GET("/health", handler.HealthCheck)
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	api := r.Group("/api")
	if limiter != nil {
		api.Use(limiter.Middleware())
	}
	{
		api.GET("/news", newsHandler.GetNews)
		api.GET("/search", newsHandler.SearchNews)
	}

	r.NoRoute(handler.NotFound)

	return r
}

func corsConfig(origins []string) cors.Config {
	config := cors.DefaultConfig()
	config.AllowMethods = []string{"GET", "OPTIONS"}
	config.AllowHeaders = []string{"Origin", "Content-Type", "Accept", middleware.RequestIDHeader}
	config.ExposeHeaders = []string{"Content-Length", middleware.RequestIDHeader}

	if len(origins) == 0 {
		config.AllowAllOrigins = true
		return config
	}
	for _, o := range origins {
		if o == "*" {
			config.AllowAllOrigins = true
			return config
		}
	}
	config.AllowOrigins = origins
	return config
}
