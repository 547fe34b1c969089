package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/playpool/kolkhoz/internal/game"
	"github.com/playpool/kolkhoz/internal/store"
)

type shotRequest struct {
	PlayerID      string       `json:"player_id" binding:"required"`
	Source        string       `json:"source" binding:"required"`
	Delta         numberField  `json:"delta"`
	ColoredBallID string       `json:"colored_ball_id"`
	Count         *numberField `json:"count"`
}

type penaltyRequest struct {
	PlayerID string `json:"player_id" binding:"required"`
	Positive bool   `json:"positive"`
}

type settlementRequest struct {
	Input map[game.PlayerID]numberField `json:"input" binding:"required"`
}

type reverseRequest struct {
	LastScorerID string `json:"last_scorer_id"`
}

type shuffleRequest struct {
	Seed *numberField `json:"seed"`
}

// shotEvent builds the event for req. A colored shot may be given as a ball
// count instead of a raw delta.
func (req shotRequest) shotEvent(state store.State) (game.ShotEvent, error) {
	source, err := game.ParseSource(req.Source)
	if err != nil {
		return nil, err
	}
	pid := game.PlayerID(req.PlayerID)

	if source == game.SourceColored && req.Count != nil {
		if state.ActiveGame == nil {
			return nil, store.ErrNoActiveGame
		}
		ball, ok := state.ActiveGame.Ball(req.ColoredBallID)
		if !ok {
			return nil, game.ErrUnknownBall
		}
		return game.NewColoredEvent(pid, ball, req.Count.Int()), nil
	}
	return game.NewDeltaEvent(pid, req.Delta.Float(), source, req.ColoredBallID)
}

// AddShot appends a white, colored or penalty delta to the active game
func AddShot(reg *store.Registry) gin.HandlerFunc {
	return func(c *gin.Context) {
		table, ok := lookupTable(c, reg)
		if !ok {
			return
		}

		var req shotRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			badRequest(c, err)
			return
		}

		event, err := req.shotEvent(table.State())
		if err != nil {
			respondError(c, table, "add_shot", err)
			return
		}

		_, err = table.AddShot(event)
		respondTransition(c, table, "add_shot", err)
	}
}

// AddPenalty records +nominal or -nominal against a player
func AddPenalty(reg *store.Registry) gin.HandlerFunc {
	return func(c *gin.Context) {
		table, ok := lookupTable(c, reg)
		if !ok {
			return
		}

		var req penaltyRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			badRequest(c, err)
			return
		}

		state := table.State()
		if state.ActiveGame == nil {
			respondError(c, table, "add_penalty", store.ErrNoActiveGame)
			return
		}

		event := game.NewPenaltyEvent(game.PlayerID(req.PlayerID), req.Positive, state.ActiveGame.Rules.PenaltyNominal)
		_, err := table.AddShot(event)
		respondTransition(c, table, "add_penalty", err)
	}
}

// CompleteSettlement settles the active game from the reported ball counts
func CompleteSettlement(reg *store.Registry) gin.HandlerFunc {
	return func(c *gin.Context) {
		table, ok := lookupTable(c, reg)
		if !ok {
			return
		}

		var req settlementRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			badRequest(c, err)
			return
		}

		_, err := table.Settle(counts(req.Input))
		respondTransition(c, table, "complete_settlement", err)
	}
}

// PreviewSettlement returns the net scores the input would produce
func PreviewSettlement(reg *store.Registry) gin.HandlerFunc {
	return func(c *gin.Context) {
		table, ok := lookupTable(c, reg)
		if !ok {
			return
		}

		var req settlementRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			badRequest(c, err)
			return
		}

		net, total, err := table.Preview(counts(req.Input))
		if err != nil {
			c.JSON(statusFor(err), gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, gin.H{"net_scores": net, "total_balls": total})
	}
}

// NextGame advances the series in alternating base order
func NextGame(reg *store.Registry) gin.HandlerFunc {
	return func(c *gin.Context) {
		table, ok := lookupTable(c, reg)
		if !ok {
			return
		}
		_, err := table.NextGame()
		respondTransition(c, table, "next_game", err)
	}
}

// ReverseGame advances the series with the last scorer breaking
func ReverseGame(reg *store.Registry) gin.HandlerFunc {
	return func(c *gin.Context) {
		table, ok := lookupTable(c, reg)
		if !ok {
			return
		}

		var req reverseRequest
		if err := bindOptionalJSON(c, &req); err != nil {
			badRequest(c, err)
			return
		}

		_, err := table.ReverseGame(game.PlayerID(req.LastScorerID))
		respondTransition(c, table, "reverse_game", err)
	}
}

// ShuffleOrder randomizes the seating, reproducibly when a seed is given
func ShuffleOrder(reg *store.Registry) gin.HandlerFunc {
	return func(c *gin.Context) {
		table, ok := lookupTable(c, reg)
		if !ok {
			return
		}

		var req shuffleRequest
		if err := bindOptionalJSON(c, &req); err != nil {
			badRequest(c, err)
			return
		}

		var random func() float64
		if req.Seed != nil {
			random = game.SeededRandom(req.Seed.Int64())
		}
		_, err := table.Shuffle(random)
		respondTransition(c, table, "randomize_order", err)
	}
}

// StartTimer starts the session clock
func StartTimer(reg *store.Registry) gin.HandlerFunc {
	return func(c *gin.Context) {
		table, ok := lookupTable(c, reg)
		if !ok {
			return
		}
		_, err := table.StartTimer()
		respondTransition(c, table, "start_timer", err)
	}
}

// EndTimer stops the session clock
func EndTimer(reg *store.Registry) gin.HandlerFunc {
	return func(c *gin.Context) {
		table, ok := lookupTable(c, reg)
		if !ok {
			return
		}
		_, err := table.EndTimer()
		respondTransition(c, table, "end_timer", err)
	}
}

// ClearError dismisses the table's transition error
func ClearError(reg *store.Registry) gin.HandlerFunc {
	return func(c *gin.Context) {
		table, ok := lookupTable(c, reg)
		if !ok {
			return
		}
		table.ClearError()
		respondTransition(c, table, "clear_error", nil)
	}
}
