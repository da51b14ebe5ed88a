package router

import (
	"github.com/findash/backend/internal/infrastructure/logger"
	"github.com/findash/backend/internal/interfaces/http/handler"
	"github.com/findash/backend/internal/interfaces/http/middleware"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// New builds the gin engine with the standard middleware chain and all
// dashboard routes registered.
func New(dashboard *handler.DashboardHandler, log *zap.Logger) *gin.Engine {
	engine := gin.New()
	engine.Use(
		middleware.RequestID(),
		logger.GinMiddleware(log),
		logger.Recovery(log),
	)

	engine.GET("/health", dashboard.Health)

	api := engine.Group("/api/v1")
	{
		api.GET("/dashboard", dashboard.GetDashboard)
		api.GET("/kpis", dashboard.GetKPIs)
		api.GET("/aggregates/:name", dashboard.GetAggregate)
		api.POST("/refresh", dashboard.Refresh)
	}

	return engine
}
