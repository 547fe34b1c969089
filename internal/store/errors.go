package store

import "errors"

// Transition gate failures. Each one leaves the committed state untouched
// apart from State.TransitionError.
var (
	ErrNoActiveGame      = errors.New("no active game")
	ErrNoActiveSeries    = errors.New("no active series")
	ErrGameSettled       = errors.New("game is already settled")
	ErrGameNotSettled    = errors.New("game is not settled yet")
	ErrInvalidSettlement = errors.New("settlement input is invalid")
	ErrNotEnoughBalls    = errors.New("not enough balls in settlement")
	ErrPenaltyImbalance  = errors.New("penalties do not balance")
	ErrNetScoreImbalance = errors.New("net scores do not balance")
	ErrSeriesImbalance   = errors.New("series score does not balance")
	ErrUnknownScorer     = errors.New("last scorer is not in the ending order")
)

// Registry errors
var (
	ErrTableNotFound = errors.New("table not found")
	ErrTableLimit    = errors.New("table limit reached")
)
