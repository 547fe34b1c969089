package handlers

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/playpool/kolkhoz/internal/config"
	"github.com/playpool/kolkhoz/internal/game"
	"github.com/playpool/kolkhoz/internal/store"
)

type playerRequest struct {
	ID       string      `json:"id"`
	Name     string      `json:"name"`
	Handicap numberField `json:"handicap"`
}

type coloredBallRequest struct {
	Label      string      `json:"label"`
	Nominal    numberField `json:"nominal"`
	Multiplier numberField `json:"multiplier"`
	Color      string      `json:"color"`
}

type createTableRequest struct {
	Players            []playerRequest      `json:"players" binding:"required"`
	BallPrice          numberField          `json:"ball_price"`
	PenaltyNominal     numberField          `json:"penalty_nominal"`
	ColoredModeEnabled bool                 `json:"colored_mode_enabled"`
	ColoredBalls       []coloredBallRequest `json:"colored_balls"`
	ShuffleSeed        *numberField         `json:"shuffle_seed"`
}

// gameConfig turns the request into a game config. Blank ids are generated,
// a missing penalty nominal uses the configured default, unparsable numbers
// count as 0.
func (req createTableRequest) gameConfig(cfg *config.Config) game.GameConfig {
	players := make([]game.Player, len(req.Players))
	for i, p := range req.Players {
		id := game.PlayerID(strings.TrimSpace(p.ID))
		if id == "" {
			id = generatePlayerID()
		}
		players[i] = game.Player{ID: id, Name: p.Name, Handicap: game.ParseHandicap(p.Handicap.Text())}
	}

	nominal := req.PenaltyNominal.Int()
	if nominal == 0 {
		nominal = game.DefaultPenaltyNominal
		if cfg != nil && cfg.DefaultPenaltyNominal > 0 {
			nominal = cfg.DefaultPenaltyNominal
		}
	}

	balls := make([]game.ColoredBall, len(req.ColoredBalls))
	for i, b := range req.ColoredBalls {
		ballNominal := b.Nominal.Int()
		if multiplier := b.Multiplier.Int(); ballNominal <= 0 && multiplier > 0 {
			ballNominal = game.ColoredBallNominalByMultiplier(1, multiplier)
		}
		color := b.Color
		if strings.TrimSpace(color) == "" {
			color = game.RandomDefaultColor()
		}
		balls[i] = game.ColoredBall{Label: b.Label, Nominal: ballNominal, Color: color}
	}

	return game.GameConfig{
		Players:            players,
		BallPrice:          req.BallPrice.Int(),
		PenaltyNominal:     nominal,
		ColoredModeEnabled: req.ColoredModeEnabled,
		ColoredBalls:       balls,
	}
}

// CreateTable opens a table and starts its series
func CreateTable(reg *store.Registry, cfg *config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req createTableRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			badRequest(c, err)
			return
		}
		if !game.ValidatePlayerCount(len(req.Players)) {
			err := fmt.Errorf("%w: got %d", game.ErrTooManyPlayers, len(req.Players))
			c.JSON(statusFor(err), gin.H{"error": err.Error()})
			return
		}

		table, err := reg.Create(req.gameConfig(cfg))
		if err != nil {
			c.JSON(statusFor(err), gin.H{"error": err.Error()})
			return
		}

		if req.ShuffleSeed != nil {
			if _, err := table.Shuffle(game.SeededRandom(req.ShuffleSeed.Int64())); err != nil {
				respondError(c, table, "randomize_order", err)
				return
			}
		}

		c.Header("X-Table-ID", table.ID)
		c.JSON(http.StatusCreated, table.Snapshot("start_series"))
	}
}

// GetTable returns the current snapshot and derived views
func GetTable(reg *store.Registry) gin.HandlerFunc {
	return func(c *gin.Context) {
		table, ok := lookupTable(c, reg)
		if !ok {
			return
		}
		c.JSON(http.StatusOK, table.Snapshot("get"))
	}
}

// DeleteTable clears the session and closes the table
func DeleteTable(reg *store.Registry) gin.HandlerFunc {
	return func(c *gin.Context) {
		if err := reg.Delete(c.Param("id")); err != nil {
			c.JSON(statusFor(err), gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "deleted"})
	}
}

// ListTables returns the ids of open tables
func ListTables(reg *store.Registry) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"tables": reg.IDs()})
	}
}

// GetSeriesStats returns per-game, reverse-game and aggregate stats
func GetSeriesStats(reg *store.Registry) gin.HandlerFunc {
	return func(c *gin.Context) {
		table, ok := lookupTable(c, reg)
		if !ok {
			return
		}

		state := table.State()
		if state.ActiveSeries == nil {
			c.JSON(http.StatusConflict, gin.H{"error": store.ErrNoActiveSeries.Error()})
			return
		}
		c.JSON(http.StatusOK, game.ComputeSeriesStats(*state.ActiveSeries))
	}
}
