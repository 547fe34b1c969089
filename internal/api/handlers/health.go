package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/playpool/kolkhoz/internal/store"
)

var startTime = time.Now()

const version = "1.0.0-kolkhoz"

// HealthCheck returns server health status
func HealthCheck(reg *store.Registry) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":  "ok",
			"service": "kolkhoz-api",
			"version": version,
			"uptime":  time.Since(startTime).String(),
			"tables":  reg.Count(),
		})
	}
}
