package router

import (
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/the3rafas/cr7system/internal/server/handlers"
)

// New wires the Gin engine with required routes and middlewares. Everything
// under /api except the auth endpoints sits behind the device-token gate.
func New(authHandler *handlers.AuthHandler, catalogHandler *handlers.CatalogHandler, registryHandler *handlers.RegistryHandler, logger *zap.Logger) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(zapLoggerMiddleware(logger))

	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	r.POST("/api/auth", authHandler.Login)
	r.GET("/api/auth", authHandler.Check)

	api := r.Group("/api", authHandler.RequireDevice)
	{
		api.GET("/products", catalogHandler.List)
		api.POST("/products", catalogHandler.Create)
		api.DELETE("/products", catalogHandler.Delete)

		api.GET("/registry", registryHandler.List)
		api.POST("/registry", registryHandler.Create)
		api.PATCH("/registry", registryHandler.Update)
		api.DELETE("/registry", registryHandler.Delete)
		api.GET("/registry/receipt", registryHandler.Receipt)
	}

	if logger != nil {
		logger.Info("router initialized")
	}

	return r
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
