// Package router wires the admin API routes onto a gin engine.
package router

import (
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/orderbridge/backend/internal/interfaces/http/handler"
	"github.com/orderbridge/backend/internal/interfaces/http/middleware"
)

// Config holds the handlers the router exposes
type Config struct {
	System *handler.SystemHandler
	Sync   *handler.SyncHandler
	Logger *zap.Logger
}

// New builds the gin engine with all admin routes registered
func New(cfg Config) *gin.Engine {
	engine := gin.New()
	engine.Use(gin.Recovery())
	if cfg.Logger != nil {
		engine.Use(middleware.RequestLogger(cfg.Logger))
	}

	engine.GET("/health", cfg.System.Health)

	api := engine.Group("/api/v1")
	{
		api.GET("/system/info", cfg.System.GetSystemInfo)
		api.POST("/sync/run", cfg.Sync.TriggerSync)
		api.GET("/sync/report", cfg.Sync.GetLastReport)
	}

	return engine
}
