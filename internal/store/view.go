package store

import (
	"time"

	"github.com/playpool/kolkhoz/internal/game"
)

// View is everything a table screen renders that is derived from State.
// It is recomputed on demand and never stored.
type View struct {
	Seating        []game.Player           `json:"seating"`
	Stats          []game.PlayerStats      `json:"stats"`
	Prompts        []game.SettlementPrompt `json:"settlement_prompts"`
	NetScores      *game.NetScores         `json:"net_scores,omitempty"`
	LastScorer     game.PlayerID           `json:"last_scorer,omitempty"`
	SessionElapsed string                  `json:"session_elapsed"`
	SessionRunning bool                    `json:"session_running"`
	CanSettle      bool                    `json:"can_settle"`
	CanAdvance     bool                    `json:"can_advance"`
}

// BuildView derives the screen data for s at the given time
func BuildView(s State, now time.Time) View {
	view := View{
		Seating:        []game.Player{},
		Stats:          []game.PlayerStats{},
		Prompts:        []game.SettlementPrompt{},
		SessionElapsed: game.FormatSessionTime(0),
	}

	if s.ActiveSeries != nil {
		view.SessionElapsed = game.FormatSessionTime(game.SessionElapsed(*s.ActiveSeries, now))
		view.SessionRunning = game.IsSessionRunning(*s.ActiveSeries)
	}

	g := s.ActiveGame
	if g == nil {
		return view
	}

	view.Seating = g.OrderedPlayers()
	view.Stats = game.ComputePlayerStats(g.Players, g.ColoredBalls, g.ShotEvents)
	view.Prompts = game.SettlementPrompts(g.Players, g.PlayerOrder)
	if scorer, ok := game.LastScoringPlayer(g.ShotEvents); ok {
		view.LastScorer = scorer
	}

	balanced := game.IsPenaltyBalanced(g.Penalties)
	switch g.Phase {
	case game.PhaseActive:
		view.CanSettle = balanced && s.ActiveSeries != nil
	case game.PhaseSettled:
		net := game.CalculateNetScores(g.PlayerOrder, g.SettlementInput, g.Penalties)
		view.NetScores = &net
		view.CanAdvance = balanced && net.IsBalanced && s.ActiveSeries != nil
	}
	return view
}
