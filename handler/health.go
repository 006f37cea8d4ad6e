package handler

import (
	"log"
	"net/http"

	"github.com/Serg1oA/news-now-quick/model"
	"github.com/gin-gonic/gin"
)

const ServiceName = "news-now-quick"

func HealthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "healthy", "service": ServiceName})
}

func NotFound(c *gin.Context) {
	c.JSON(http.StatusNotFound, gin.H{"error": "Endpoint not found"})
}

// Recovery turns a handler panic into the generic 500 body. The panic
// value is logged, never returned.
func Recovery(c *gin.Context, recovered any) {
	log.Printf("[ERROR] Unhandled error in %s %s: %v", c.Request.Method, c.Request.URL.Path, recovered)
	c.AbortWithStatusJSON(http.StatusInternalServerError, model.ErrorEnvelope("Internal server error"))
}
