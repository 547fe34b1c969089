package handlers

import (
	"encoding/json"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/playpool/kolkhoz/internal/store"
	"github.com/playpool/kolkhoz/internal/ws"
)

// HandleTableWebSocket streams a table's snapshots to a read-only watcher,
// starting with the current one
func HandleTableWebSocket(reg *store.Registry, hub *ws.Hub) gin.HandlerFunc {
	return func(c *gin.Context) {
		table, ok := lookupTable(c, reg)
		if !ok {
			return
		}

		initial, err := json.Marshal(table.Snapshot("connected"))
		if err != nil {
			log.Printf("[WS] error marshaling snapshot for table %s: %v", table.ID, err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to build table snapshot"})
			return
		}

		if err := hub.ServeTable(c.Writer, c.Request, table.ID, initial); err != nil {
			log.Printf("[WS] upgrade failed for table %s: %v", table.ID, err)
		}
	}
}
