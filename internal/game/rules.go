package game

import (
	"math"
	"strconv"
	"strings"
)

// Table rules for the kolkhoz variant.
const (
	MaxPlayersPerGame        = 8
	MinPlayersPerGame        = 2
	MinTotalBalls            = 16 // balls racked for the variant
	MinPenaltyNominal        = 1
	MaxPenaltyNominal        = 5
	DefaultPenaltyNominal    = 2
	MaxColoredBalls          = 10
	MaxColoredBallMultiplier = 8

	// MaxInputValue bounds every integer coerced from client input
	MaxInputValue = math.MaxInt32
)

// ToInt truncates v toward zero and clamps it to ±MaxInputValue.
// Non-finite values are 0.
func ToInt(v float64) int {
	switch {
	case math.IsNaN(v) || math.IsInf(v, 0):
		return 0
	case v > MaxInputValue:
		return MaxInputValue
	case v < -MaxInputValue:
		return -MaxInputValue
	}
	return int(math.Trunc(v))
}

// ValidatePlayerCount reports whether count fits a table
func ValidatePlayerCount(count int) bool {
	return count >= 0 && count <= MaxPlayersPerGame
}

// ClampPlayers keeps the first MaxPlayersPerGame players
func ClampPlayers(players []Player) []Player {
	if len(players) <= MaxPlayersPerGame {
		return append([]Player(nil), players...)
	}
	return append([]Player(nil), players[:MaxPlayersPerGame]...)
}

// NormalizePenaltyNominal clamps the penalty value to the allowed range
func NormalizePenaltyNominal(value int) int {
	if value < MinPenaltyNominal {
		return MinPenaltyNominal
	}
	if value > MaxPenaltyNominal {
		return MaxPenaltyNominal
	}
	return value
}

// NormalizeHandicap floors negative handicaps to 0
func NormalizeHandicap(value int) int {
	if value < 0 {
		return 0
	}
	return value
}

// ParseHandicap reads a handicap typed into a form field. Blank or
// unparsable input is 0.
func ParseHandicap(raw string) int {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return 0
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0
	}
	return NormalizeHandicap(ToInt(math.Floor(v)))
}
