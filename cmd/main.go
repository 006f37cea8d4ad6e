package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Serg1oA/news-now-quick/api"
	"github.com/Serg1oA/news-now-quick/config"
	"github.com/Serg1oA/news-now-quick/events"
	"github.com/Serg1oA/news-now-quick/fetcher"
	"github.com/Serg1oA/news-now-quick/handler"
	"github.com/Serg1oA/news-now-quick/metrics"
	"github.com/Serg1oA/news-now-quick/middleware"
	"github.com/Serg1oA/news-now-quick/service"
	"github.com/Serg1oA/news-now-quick/translate"
	"github.com/gin-gonic/gin"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Printf("[ERROR] Configuration error: %v", err)
		os.Exit(1)
	}

	if cfg.Debug {
		gin.SetMode(gin.DebugMode)
	} else {
		gin.SetMode(gin.ReleaseMode)
	}

	metrics.Init(handler.ServiceName, cfg.Version, cfg.Environment)

	var publisher events.Publisher = events.Nop{}
	if cfg.NATSUrl != "" {
		np, err := events.NewNATSPublisher(cfg.NATSUrl)
		if err != nil {
			log.Printf("[WARN] NATS unavailable, fetch events disabled: %v", err)
		} else {
			publisher = np
			log.Printf("[INFO] Publishing fetch events to %s", events.FetchResultSubject)
		}
	}
	defer publisher.Close()

	tr := translate.Translator{FromDateUTC: cfg.FromDateUTC}
	newsService := service.NewNewsService(fetcher.NewFetcher(cfg), publisher, tr)
	newsHandler := handler.NewNewsHandler(newsService)

	stop := make(chan struct{})
	var limiter *middleware.RateLimiter
	if cfg.RateLimitRPS > 0 {
		limiter = middleware.NewRateLimiter(cfg.RateLimitRPS, cfg.RateLimitBurst)
		limiter.StartCleanup(stop)
	}

	r := api.Setup(cfg, newsHandler, limiter)

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Port),
		Handler:      r,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: cfg.UpstreamTimeout + 15*time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Printf("[INFO] Starting News Now Quick %s on port %d (environment: %s)", cfg.Version, cfg.Port, cfg.Environment)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("[ERROR] Failed to start server: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("[INFO] Shutting down server...")
	close(stop)

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Printf("[ERROR] Server forced to shutdown: %v", err)
	}

	log.Println("[INFO] Server stopped")
}
