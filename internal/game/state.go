package game

import "time"

// Phase represents the current state of a single game in a series
type Phase string

const (
	PhaseActive  Phase = "ACTIVE"
	PhaseSettled Phase = "SETTLED"
)

// PlayerID identifies a player within a table session
type PlayerID string

// Player is a table participant. Handicap is display-only.
type Player struct {
	ID       PlayerID `json:"id"`
	Name     string   `json:"name"`
	Handicap int      `json:"handicap"`
}

// GameRules holds the per-game rule knobs
type GameRules struct {
	PenaltyNominal int `json:"penalty_nominal"`
}

// SeriesMeta tags a game with its position in the series
type SeriesMeta struct {
	GameIndex int  `json:"game_index"`
	IsReverse bool `json:"is_reverse"`
}

// Game is one rack played by the table. A successor game is always a new
// value built by NextGameFromPrevious, never a mutation of the previous one.
type Game struct {
	ID                 string        `json:"id"`
	Players            []Player      `json:"players"`
	PlayerOrder        []PlayerID    `json:"player_order"`
	ShotEvents         []ShotEvent   `json:"shot_events"`
	Penalties          Balances      `json:"penalties"`
	SettlementInput    Balances      `json:"settlement_input"`
	BallPrice          int           `json:"ball_price"`
	CreatedAt          time.Time     `json:"created_at"`
	ColoredModeEnabled bool          `json:"colored_mode_enabled"`
	ColoredBalls       []ColoredBall `json:"colored_balls,omitempty"`
	Rules              GameRules     `json:"rules"`
	Phase              Phase         `json:"phase"`
	SeriesMeta         *SeriesMeta   `json:"series_meta,omitempty"`
}

// SessionTimer tracks wall-clock time spent at the table
type SessionTimer struct {
	StartedAt *time.Time `json:"started_at"`
	EndedAt   *time.Time `json:"ended_at"`
}

// Series is the ordered list of games played by one fixed roster
type Series struct {
	ID               string       `json:"id"`
	Games            []Game       `json:"games"`
	BaseOrder        []PlayerID   `json:"base_order"`
	CurrentIndex     int          `json:"current_index"`
	SessionTimer     SessionTimer `json:"session_timer"`
	CumulativeScore  Balances     `json:"cumulative_score"`
	SessionPenalties Balances     `json:"session_penalties"`
}

// PlayerIDs returns the ids of players in the given order
func PlayerIDs(players []Player) []PlayerID {
	ids := make([]PlayerID, len(players))
	for i, p := range players {
		ids[i] = p.ID
	}
	return ids
}

// IsPermutation reports whether order contains every player id exactly once
func IsPermutation(order []PlayerID, players []Player) bool {
	if len(order) != len(players) {
		return false
	}
	seen := make(map[PlayerID]bool, len(order))
	for _, p := range players {
		seen[p.ID] = false
	}
	for _, id := range order {
		used, known := seen[id]
		if !known || used {
			return false
		}
		seen[id] = true
	}
	return true
}

// HasPlayer reports whether id belongs to this game's roster
func (g Game) HasPlayer(id PlayerID) bool {
	for _, p := range g.Players {
		if p.ID == id {
			return true
		}
	}
	return false
}

// Ball looks up a colored ball by id
func (g Game) Ball(id string) (ColoredBall, bool) {
	for _, b := range g.ColoredBalls {
		if b.ID == id {
			return b, true
		}
	}
	return ColoredBall{}, false
}

// OrderedPlayers returns the roster sorted by PlayerOrder
func (g Game) OrderedPlayers() []Player {
	byID := make(map[PlayerID]Player, len(g.Players))
	for _, p := range g.Players {
		byID[p.ID] = p
	}
	out := make([]Player, 0, len(g.PlayerOrder))
	for _, id := range g.PlayerOrder {
		if p, ok := byID[id]; ok {
			out = append(out, p)
		}
	}
	return out
}

// Clone returns a deep copy safe to modify
func (g Game) Clone() Game {
	c := g
	c.Players = append([]Player(nil), g.Players...)
	c.PlayerOrder = append([]PlayerID(nil), g.PlayerOrder...)
	c.ShotEvents = append([]ShotEvent(nil), g.ShotEvents...)
	c.Penalties = g.Penalties.Clone()
	c.SettlementInput = g.SettlementInput.Clone()
	if g.ColoredBalls != nil {
		c.ColoredBalls = append([]ColoredBall(nil), g.ColoredBalls...)
	}
	if g.SeriesMeta != nil {
		meta := *g.SeriesMeta
		c.SeriesMeta = &meta
	}
	return c
}

// Clone returns a deep copy safe to modify
func (s Series) Clone() Series {
	c := s
	c.Games = make([]Game, len(s.Games))
	for i, g := range s.Games {
		c.Games[i] = g.Clone()
	}
	c.BaseOrder = append([]PlayerID(nil), s.BaseOrder...)
	c.CumulativeScore = s.CumulativeScore.Clone()
	c.SessionPenalties = s.SessionPenalties.Clone()
	c.SessionTimer = SessionTimer{
		StartedAt: cloneTime(s.SessionTimer.StartedAt),
		EndedAt:   cloneTime(s.SessionTimer.EndedAt),
	}
	return c
}

func cloneTime(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	v := *t
	return &v
}
