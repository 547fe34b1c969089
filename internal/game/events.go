package game

import (
	"encoding/json"
	"errors"
	"fmt"
)

// Source is the origin of a shot delta
type Source string

const (
	SourceWhite   Source = "white"
	SourceColored Source = "colored"
	SourcePenalty Source = "penalty"
)

var (
	ErrUnknownSource       = errors.New("unknown shot source")
	ErrMissingBall         = errors.New("colored shot requires a colored ball id")
	ErrUnknownPlayer       = errors.New("player is not part of this game")
	ErrUnknownBall         = errors.New("colored ball is not part of this game")
	ErrColoredModeDisabled = errors.New("colored balls are disabled for this game")
	ErrColoredDelta        = errors.New("colored delta must be a multiple of the ball nominal")
	ErrPenaltyDelta        = errors.New("penalty delta must equal the penalty nominal")
	ErrZeroDelta           = errors.New("shot delta is zero")
)

// ShotEvent is one entry in a game's append-only log. The concrete type is
// one of WhiteShot, ColoredShot or PenaltyShot.
type ShotEvent interface {
	Player() PlayerID
	Delta() int
	Source() Source
	shot()
}

// WhiteShot is a plain ball delta
type WhiteShot struct {
	PlayerID PlayerID
	Value    int
}

// ColoredShot is a colored ball delta; Value is count*nominal
type ColoredShot struct {
	PlayerID PlayerID
	BallID   string
	Value    int
}

// PenaltyShot is a ±penalty nominal recorded against a player
type PenaltyShot struct {
	PlayerID PlayerID
	Value    int
}

func (e WhiteShot) Player() PlayerID   { return e.PlayerID }
func (e WhiteShot) Delta() int         { return e.Value }
func (e WhiteShot) Source() Source     { return SourceWhite }
func (WhiteShot) shot()                {}
func (e ColoredShot) Player() PlayerID { return e.PlayerID }
func (e ColoredShot) Delta() int       { return e.Value }
func (e ColoredShot) Source() Source   { return SourceColored }
func (ColoredShot) shot()              {}
func (e PenaltyShot) Player() PlayerID { return e.PlayerID }
func (e PenaltyShot) Delta() int       { return e.Value }
func (e PenaltyShot) Source() Source   { return SourcePenalty }
func (PenaltyShot) shot()              {}

type eventJSON struct {
	PlayerID      PlayerID `json:"player_id"`
	Delta         int      `json:"delta"`
	Source        Source   `json:"source"`
	ColoredBallID string   `json:"colored_ball_id,omitempty"`
}

func (e WhiteShot) MarshalJSON() ([]byte, error) {
	return json.Marshal(eventJSON{PlayerID: e.PlayerID, Delta: e.Value, Source: SourceWhite})
}

func (e ColoredShot) MarshalJSON() ([]byte, error) {
	return json.Marshal(eventJSON{PlayerID: e.PlayerID, Delta: e.Value, Source: SourceColored, ColoredBallID: e.BallID})
}

func (e PenaltyShot) MarshalJSON() ([]byte, error) {
	return json.Marshal(eventJSON{PlayerID: e.PlayerID, Delta: e.Value, Source: SourcePenalty})
}

// ParseSource validates a source name coming from a client
func ParseSource(s string) (Source, error) {
	switch Source(s) {
	case SourceWhite, SourceColored, SourcePenalty:
		return Source(s), nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownSource, s)
}

// NewDeltaEvent builds a typed event from a raw UI delta. The delta is
// truncated; non-finite values count as 0.
func NewDeltaEvent(playerID PlayerID, delta float64, source Source, coloredBallID string) (ShotEvent, error) {
	value := ToInt(delta)
	switch source {
	case SourceWhite:
		return WhiteShot{PlayerID: playerID, Value: value}, nil
	case SourceColored:
		if coloredBallID == "" {
			return nil, ErrMissingBall
		}
		return ColoredShot{PlayerID: playerID, BallID: coloredBallID, Value: value}, nil
	case SourcePenalty:
		return PenaltyShot{PlayerID: playerID, Value: value}, nil
	}
	return nil, fmt.Errorf("%w: %q", ErrUnknownSource, source)
}

// NewPenaltyEvent records +nominal or -nominal against a player
func NewPenaltyEvent(playerID PlayerID, positive bool, penaltyNominal int) ShotEvent {
	value := NormalizePenaltyNominal(penaltyNominal)
	if !positive {
		value = -value
	}
	return PenaltyShot{PlayerID: playerID, Value: value}
}

// NewColoredEvent records count balls of a colored ball (negative count undoes)
func NewColoredEvent(playerID PlayerID, ball ColoredBall, count int) ShotEvent {
	return ColoredShot{PlayerID: playerID, BallID: ball.ID, Value: count * ball.Nominal}
}

// ValidateEvent checks an event against the game it is about to be appended to
func ValidateEvent(g Game, event ShotEvent) error {
	if !g.HasPlayer(event.Player()) {
		return fmt.Errorf("%w: %s", ErrUnknownPlayer, event.Player())
	}
	if event.Delta() == 0 {
		return ErrZeroDelta
	}

	switch e := event.(type) {
	case WhiteShot:
		return nil
	case ColoredShot:
		if !g.ColoredModeEnabled {
			return ErrColoredModeDisabled
		}
		ball, ok := g.Ball(e.BallID)
		if !ok {
			return fmt.Errorf("%w: %s", ErrUnknownBall, e.BallID)
		}
		if ball.Nominal <= 0 || e.Value%ball.Nominal != 0 {
			return fmt.Errorf("%w: delta=%d nominal=%d", ErrColoredDelta, e.Value, ball.Nominal)
		}
		return nil
	case PenaltyShot:
		nominal := NormalizePenaltyNominal(g.Rules.PenaltyNominal)
		if e.Value != nominal && e.Value != -nominal {
			return fmt.Errorf("%w: delta=%d nominal=%d", ErrPenaltyDelta, e.Value, nominal)
		}
		return nil
	}
	return ErrUnknownSource
}
