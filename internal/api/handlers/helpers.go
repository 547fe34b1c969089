package handlers

import (
	"errors"
	"io"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/playpool/kolkhoz/internal/game"
	"github.com/playpool/kolkhoz/internal/store"
)

// unprocessable are errors caused by the request content itself
var unprocessable = []error{
	game.ErrUnknownSource,
	game.ErrMissingBall,
	game.ErrUnknownPlayer,
	game.ErrUnknownBall,
	game.ErrColoredModeDisabled,
	game.ErrColoredDelta,
	game.ErrPenaltyDelta,
	game.ErrZeroDelta,
	game.ErrTooFewPlayers,
	game.ErrTooManyPlayers,
	game.ErrInvalidPlayers,
	store.ErrInvalidSettlement,
	store.ErrNotEnoughBalls,
	store.ErrUnknownScorer,
}

// conflicts are errors caused by the table not being in the right phase
var conflicts = []error{
	store.ErrNoActiveGame,
	store.ErrNoActiveSeries,
	store.ErrGameSettled,
	store.ErrGameNotSettled,
	store.ErrPenaltyImbalance,
	store.ErrNetScoreImbalance,
	store.ErrSeriesImbalance,
}

func isAny(err error, targets []error) bool {
	for _, target := range targets {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}

// statusFor maps a domain error to an HTTP status
func statusFor(err error) int {
	switch {
	case errors.Is(err, store.ErrTableNotFound):
		return http.StatusNotFound
	case errors.Is(err, store.ErrTableLimit):
		return http.StatusTooManyRequests
	case isAny(err, unprocessable):
		return http.StatusUnprocessableEntity
	case isAny(err, conflicts):
		return http.StatusConflict
	}
	return http.StatusInternalServerError
}

// lookupTable resolves :id or writes a 404
func lookupTable(c *gin.Context, reg *store.Registry) (*store.Table, bool) {
	table, err := reg.Get(c.Param("id"))
	if err != nil {
		c.JSON(statusFor(err), gin.H{"error": err.Error()})
		return nil, false
	}
	return table, true
}

// errorResponse is a table snapshot with the reason the action failed
type errorResponse struct {
	Error string `json:"error"`
	store.Update
}

// respondError writes err together with the table's current snapshot
func respondError(c *gin.Context, table *store.Table, action string, err error) {
	status := statusFor(err)
	if status == http.StatusInternalServerError {
		log.Printf("[ERROR] %s on table %s: %v", action, table.ID, err)
	}
	c.JSON(status, errorResponse{Error: err.Error(), Update: table.Snapshot(action)})
}

// respondTransition writes the table snapshot after an action
func respondTransition(c *gin.Context, table *store.Table, action string, err error) {
	if err != nil {
		respondError(c, table, action, err)
		return
	}
	c.JSON(http.StatusOK, table.Snapshot(action))
}

// bindOptionalJSON decodes the body when one is sent. An empty body leaves
// req at its zero value.
func bindOptionalJSON(c *gin.Context, req any) error {
	if err := c.ShouldBindJSON(req); err != nil && !errors.Is(err, io.EOF) {
		return err
	}
	return nil
}

// badRequest reports a body that could not be decoded
func badRequest(c *gin.Context, err error) {
	c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body: " + err.Error()})
}

// generatePlayerID returns an id for a player created without one
func generatePlayerID() game.PlayerID {
	return game.PlayerID("player-" + uuid.NewString())
}
