package api

import (
	"log"

	"github.com/gin-gonic/gin"
	"github.com/playpool/kolkhoz/internal/api/handlers"
	"github.com/playpool/kolkhoz/internal/config"
	"github.com/playpool/kolkhoz/internal/middleware"
	"github.com/playpool/kolkhoz/internal/store"
	"github.com/playpool/kolkhoz/internal/ws"
)

// SetupRoutes configures all API routes
func SetupRoutes(router *gin.Engine, reg *store.Registry, hub *ws.Hub, cfg *config.Config) {
	router.Use(middleware.CORSMiddleware(cfg))

	if cfg.Environment != "production" {
		router.Use(func(c *gin.Context) {
			c.Header("Cache-Control", "no-store, no-cache, must-revalidate, max-age=0")
			c.Header("Pragma", "no-cache")
			c.Header("Expires", "0")
			c.Next()
		})
		log.Println("[DEV MODE] no-cache headers enabled for all routes")
	}

	v1 := router.Group("/api/v1")
	{
		v1.GET("/health", handlers.HealthCheck(reg))
		v1.GET("/config", handlers.GetConfig(cfg))

		v1.GET("/tables", handlers.ListTables(reg))
		v1.POST("/tables", handlers.CreateTable(reg, cfg))

		table := v1.Group("/tables/:id")
		{
			table.GET("", handlers.GetTable(reg))
			table.DELETE("", handlers.DeleteTable(reg))

			table.POST("/shots", handlers.AddShot(reg))
			table.POST("/penalties", handlers.AddPenalty(reg))
			table.POST("/settlement", handlers.CompleteSettlement(reg))
			table.POST("/settlement/preview", handlers.PreviewSettlement(reg))
			table.POST("/next", handlers.NextGame(reg))
			table.POST("/reverse", handlers.ReverseGame(reg))
			table.POST("/shuffle", handlers.ShuffleOrder(reg))
			table.POST("/timer/start", handlers.StartTimer(reg))
			table.POST("/timer/end", handlers.EndTimer(reg))
			table.DELETE("/error", handlers.ClearError(reg))

			table.GET("/series/stats", handlers.GetSeriesStats(reg))
			table.GET("/ws", middleware.WebSocketCORSCheck(cfg), handlers.HandleTableWebSocket(reg, hub))
		}
	}
}
