package handlers

import (
	"encoding/json"
	"strconv"
	"strings"

	"github.com/playpool/kolkhoz/internal/game"
)

// numberField is a numeric form value sent either as a JSON number or as
// text. Anything that does not parse reads as 0.
type numberField struct {
	text string
}

func (n *numberField) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		n.text = s
		return nil
	}
	n.text = string(data)
	return nil
}

// Text is the raw value as sent
func (n numberField) Text() string {
	return n.text
}

func (n numberField) Float() float64 {
	v, err := strconv.ParseFloat(strings.TrimSpace(n.text), 64)
	if err != nil {
		return 0
	}
	return v
}

func (n numberField) Int() int {
	return game.ToInt(n.Float())
}

// Int64 keeps full precision for integer text such as shuffle seeds
func (n numberField) Int64() int64 {
	if v, err := strconv.ParseInt(strings.TrimSpace(n.text), 10, 64); err == nil {
		return v
	}
	return int64(n.Int())
}

// counts converts a player -> number map for the settlement engine
func counts(raw map[game.PlayerID]numberField) map[game.PlayerID]float64 {
	out := make(map[game.PlayerID]float64, len(raw))
	for id, n := range raw {
		out[id] = n.Float()
	}
	return out
}
