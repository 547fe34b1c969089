package game

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

var (
	ErrTooFewPlayers  = errors.New("at least 2 players are required to create a game")
	ErrTooManyPlayers = errors.New("a game seats at most 8 players")
	ErrInvalidPlayers = errors.New("player ids must be non-empty and unique")
)

// GameConfig is the validated table setup a game is built from
type GameConfig struct {
	Players            []Player
	BallPrice          int
	PenaltyNominal     int
	CreatedAt          time.Time
	ColoredModeEnabled bool
	ColoredBalls       []ColoredBall
}

func createGameID(createdAt time.Time, playerCount int) string {
	return fmt.Sprintf("game-%d-%d", createdAt.UnixMilli(), playerCount)
}

// CreateGameFromConfig builds the first game of a table. Fewer than two
// players or a broken roster is a caller error.
func CreateGameFromConfig(cfg GameConfig) (Game, error) {
	players := ClampPlayers(cfg.Players)
	if len(players) < MinPlayersPerGame {
		return Game{}, ErrTooFewPlayers
	}

	seen := make(map[PlayerID]bool, len(players))
	for i, p := range players {
		if strings.TrimSpace(string(p.ID)) == "" || seen[p.ID] {
			return Game{}, fmt.Errorf("%w: %q", ErrInvalidPlayers, p.ID)
		}
		seen[p.ID] = true
		players[i].Name = strings.TrimSpace(p.Name)
		players[i].Handicap = NormalizeHandicap(p.Handicap)
	}

	var balls []ColoredBall
	if cfg.ColoredModeEnabled {
		balls = NormalizeColoredBalls(cfg.ColoredBalls)
	}

	ids := PlayerIDs(players)
	return Game{
		ID:                 createGameID(cfg.CreatedAt, len(players)),
		Players:            players,
		PlayerOrder:        ids,
		ShotEvents:         []ShotEvent{},
		Penalties:          NewBalances(ids),
		SettlementInput:    Balances{},
		BallPrice:          cfg.BallPrice,
		CreatedAt:          cfg.CreatedAt,
		ColoredModeEnabled: cfg.ColoredModeEnabled,
		ColoredBalls:       balls,
		Rules:              GameRules{PenaltyNominal: NormalizePenaltyNominal(cfg.PenaltyNominal)},
		Phase:              PhaseActive,
	}, nil
}
