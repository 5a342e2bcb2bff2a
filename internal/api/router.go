// Package api wires the HTTP routes of the payload-manager service.
package api

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/jonesrussell/payload-manager/internal/handlers"
	"github.com/jonesrussell/payload-manager/internal/logger"
	"github.com/jonesrussell/payload-manager/internal/payload"
)

// BasePath is the root of the versioned API. Handler paths returned by
// Publish live under BasePath + "/handlers".
const BasePath = "/api/v1"

// NewRouter builds the gin engine with middleware and all routes.
func NewRouter(registry *payload.Registry, store handlers.AttachmentStore, log logger.Logger, corsOrigins []string) *gin.Engine {
	router := gin.New()

	router.Use(corsMiddleware(corsOrigins))
	router.Use(ginLogger(log))
	router.Use(gin.Recovery())

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	v1 := router.Group(BasePath)
	payloadHandler := handlers.NewPayloadHandler(registry, store, log)

	hs := v1.Group("/handlers")
	hs.GET("", payloadHandler.List)
	hs.GET("/:name", payloadHandler.GetByName)
	hs.GET("/:name/sources", payloadHandler.GetSources)
	hs.PUT("/:name/sources", payloadHandler.SetSources)
	hs.DELETE("/:name/sources", payloadHandler.ClearSources)
	hs.POST("/:name/sources/setup", payloadHandler.SetupSources)
	hs.POST("/:name/sources/teardown", payloadHandler.TeardownSources)

	return router
}

func corsMiddleware(origins []string) gin.HandlerFunc {
	allowAll := len(origins) == 0
	allowed := make(map[string]bool, len(origins))
	for _, o := range origins {
		allowed[o] = true
	}

	return func(c *gin.Context) {
		origin := c.Request.Header.Get("Origin")
		if origin != "" && (allowAll || allowed[origin]) {
			c.Header("Access-Control-Allow-Origin", origin)
			c.Header("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
			c.Header("Access-Control-Allow-Headers", "Origin, Content-Type, Accept, Authorization")
		}

		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}

		c.Next()
	}
}

func ginLogger(log logger.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.Request.URL.Path
		method := c.Request.Method

		c.Next()

		if strings.HasPrefix(path, "/health") {
			return
		}

		log.Info("HTTP request",
			logger.String("method", method),
			logger.String("path", path),
			logger.Int("status_code", c.Writer.Status()),
			logger.String("client_ip", c.ClientIP()),
			logger.Duration("duration", time.Since(start)),
		)
	}
}
