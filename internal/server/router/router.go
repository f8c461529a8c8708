package router

import (
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/agritrace/agritrace/internal/server/handlers"
)

// New wires the Gin engine with required routes and middlewares.
func New(roleHandler *handlers.RoleHandler, cartHandler *handlers.CartHandler, batchHandler *handlers.BatchHandler, allowedOrigins []string, logger *zap.Logger) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(zapLoggerMiddleware(logger))
	r.Use(corsMiddleware(allowedOrigins))

	// Role store keeps the original backend's route shapes.
	r.POST("/save-role", roleHandler.SaveRole)
	r.GET("/get-role/:userId", roleHandler.GetRole)

	api := r.Group("/api")
	{
		api.GET("/catalog", cartHandler.ListCatalog)
		api.GET("/catalog/verified", cartHandler.ListVerifiedCatalog)

		api.GET("/cart/:sessionId", cartHandler.Get)
		api.POST("/cart/:sessionId/items", cartHandler.AddItem)
		api.PATCH("/cart/:sessionId/items/:itemId", cartHandler.UpdateItem)
		api.DELETE("/cart/:sessionId/items/:itemId", cartHandler.RemoveItem)

		api.GET("/batches", batchHandler.List)
		api.POST("/batches", batchHandler.Submit)
		api.POST("/batches/:id/verify", batchHandler.Verify)
		api.POST("/batches/:id/status", batchHandler.UpdateStatus)

		api.GET("/trace/:batchId", batchHandler.Trace)
	}

	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	if logger != nil {
		logger.Info("router initialized")
	}

	return r
}

func corsMiddleware(allowedOrigins []string) gin.HandlerFunc {
	cfg := cors.DefaultConfig()
	if len(allowedOrigins) == 1 && allowedOrigins[0] == "*" {
		cfg.AllowAllOrigins = true
	} else {
		cfg.AllowOrigins = allowedOrigins
	}
	cfg.AllowMethods = []string{"GET", "POST", "PATCH", "DELETE", "OPTIONS"}
	return cors.New(cfg)
}

func zapLoggerMiddleware(logger *zap.Logger) gin.HandlerFunc {
	if logger == nil {
		logger = zap.NewNop()
	}

	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		logger.Info("request completed",
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("duration", time.Since(start)),
			zap.String("client_ip", c.ClientIP()))
	}
}
