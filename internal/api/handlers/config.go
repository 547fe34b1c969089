package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/playpool/kolkhoz/internal/config"
	"github.com/playpool/kolkhoz/internal/game"
)

// GetConfig returns the table rules the frontend needs to build its forms
func GetConfig(cfg *config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"min_players":                 game.MinPlayersPerGame,
			"max_players":                 game.MaxPlayersPerGame,
			"min_total_balls":             game.MinTotalBalls,
			"min_penalty_nominal":         game.MinPenaltyNominal,
			"max_penalty_nominal":         game.MaxPenaltyNominal,
			"default_penalty_nominal":     cfg.DefaultPenaltyNominal,
			"max_colored_balls":           game.MaxColoredBalls,
			"max_colored_ball_multiplier": game.MaxColoredBallMultiplier,
			"penalty_scope":               cfg.PenaltyScope,
			"table_limit":                 cfg.TableLimit,
		})
	}
}
