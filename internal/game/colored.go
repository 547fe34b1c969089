package game

import (
	"errors"
	"math"
	"math/rand/v2"
	"regexp"
	"strconv"
	"strings"
)

const fallbackColor = "#ffffff"

var (
	ErrInvalidNominal = errors.New("nominal must be greater than 0")
	ErrInvalidCount   = errors.New("count must be an integer greater than or equal to 0")
)

var (
	colorPalette = []string{"#f97316", "#22c55e", "#3b82f6", "#a855f7", "#eab308", "#ef4444"}
	hexColorRE   = regexp.MustCompile(`^#[0-9a-f]{6}$`)
)

// ColoredBall is a bonus ball worth Nominal white balls
type ColoredBall struct {
	ID      string `json:"id"`
	Label   string `json:"label"`
	Nominal int    `json:"nominal"`
	Color   string `json:"color"`
}

func coloredBallID(label string, nominal int) string {
	base := strings.Join(strings.Fields(strings.ToLower(strings.TrimSpace(label))), "-")
	if base == "" {
		base = "ball"
	}
	return "colored-" + base + "-" + strconv.Itoa(nominal)
}

// IsValidHexColor accepts #rrggbb in any case, surrounding spaces ignored
func IsValidHexColor(color string) bool {
	return hexColorRE.MatchString(strings.ToLower(strings.TrimSpace(color)))
}

// NormalizeColor lowercases a valid color or falls back to white
func NormalizeColor(value string) string {
	normalized := strings.ToLower(strings.TrimSpace(value))
	if !IsValidHexColor(normalized) {
		return fallbackColor
	}
	return normalized
}

// RandomDefaultColor picks a color from the default palette
func RandomDefaultColor() string {
	return colorPalette[rand.IntN(len(colorPalette))]
}

// NormalizeNominalBase clamps a base nominal to at least 1
func NormalizeNominalBase(value int) int {
	if value < 1 {
		return 1
	}
	return value
}

// NormalizeColoredBallMultiplier clamps a multiplier to [1, MaxColoredBallMultiplier]
func NormalizeColoredBallMultiplier(value int) int {
	switch {
	case value < 1:
		return 1
	case value > MaxColoredBallMultiplier:
		return MaxColoredBallMultiplier
	}
	return value
}

// ColoredBallNominalByMultiplier returns base*multiplier after clamping both
func ColoredBallNominalByMultiplier(baseNominal, multiplier int) int {
	return NormalizeNominalBase(baseNominal) * NormalizeColoredBallMultiplier(multiplier)
}

// ColoredBallNominalMultiplier recovers the multiplier of a nominal against a base
func ColoredBallNominalMultiplier(nominal, baseNominal int) int {
	base := NormalizeNominalBase(baseNominal)
	raw := int(math.Round(float64(nominal) / float64(base)))
	return NormalizeColoredBallMultiplier(raw)
}

// CreateColoredBall builds a ball with a deterministic id. An empty color
// falls back to white.
func CreateColoredBall(label string, nominal int, color string) ColoredBall {
	return ColoredBall{
		ID:      coloredBallID(label, nominal),
		Label:   strings.TrimSpace(label),
		Nominal: nominal,
		Color:   NormalizeColor(color),
	}
}

// ValidateColoredBall checks id, label, nominal and color
func ValidateColoredBall(ball ColoredBall) bool {
	color := NormalizeColor(ball.Color)
	return strings.TrimSpace(ball.ID) != "" &&
		strings.TrimSpace(ball.Label) != "" &&
		ball.Nominal > 0 &&
		IsValidHexColor(color)
}

// CalculateColoredBallScore returns nominal*count. Invalid arguments are a
// caller bug, not user input.
func CalculateColoredBallScore(nominal, count int) (int, error) {
	if nominal <= 0 {
		return 0, ErrInvalidNominal
	}
	if count < 0 {
		return 0, ErrInvalidCount
	}
	return nominal * count, nil
}

// NormalizeColoredBalls rebuilds drafts into valid, label-unique balls
// (case-insensitive, first wins), capped at MaxColoredBalls.
func NormalizeColoredBalls(drafts []ColoredBall) []ColoredBall {
	seen := make(map[string]bool)
	normalized := make([]ColoredBall, 0, len(drafts))

	for _, draft := range drafts {
		if len(normalized) >= MaxColoredBalls {
			break
		}

		candidate := CreateColoredBall(draft.Label, draft.Nominal, draft.Color)
		key := strings.ToLower(candidate.Label)
		if !ValidateColoredBall(candidate) || seen[key] {
			continue
		}

		seen[key] = true
		normalized = append(normalized, candidate)
	}

	return normalized
}
