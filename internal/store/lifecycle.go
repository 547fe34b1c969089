package store

import (
	"fmt"
	"time"

	"github.com/playpool/kolkhoz/internal/game"
)

// State is one immutable snapshot of a table. Transitions never modify a
// State in place; they return a new one.
type State struct {
	ActiveGame       *game.Game     `json:"active_game"`
	ActiveSeries     *game.Series   `json:"active_series"`
	TransitionError  string         `json:"transition_error,omitempty"`
	PenaltyImbalance game.Imbalance `json:"penalty_imbalance"`
}

// EmptyState is the state of a table with no game
func EmptyState() State {
	return State{PenaltyImbalance: game.Imbalance{IsBalanced: true}}
}

// Lifecycle holds the series/game state machine. Every method takes the
// current snapshot and returns the next one, or the current one with
// TransitionError set together with the reason.
type Lifecycle struct {
	Scope game.PenaltyScope
	Now   func() time.Time
}

// NewLifecycle returns a lifecycle using the given penalty scope
func NewLifecycle(scope game.PenaltyScope, now func() time.Time) *Lifecycle {
	if now == nil {
		now = time.Now
	}
	if scope == "" {
		scope = game.ScopeSeries
	}
	return &Lifecycle{Scope: scope, Now: now}
}

func reject(s State, err error) (State, error) {
	s.TransitionError = err.Error()
	return s, err
}

// commit writes g back into series at CurrentIndex and builds the snapshot
func commit(g game.Game, series game.Series, transitionError string) State {
	series.Games[series.CurrentIndex] = g.Clone()
	return State{
		ActiveGame:       &g,
		ActiveSeries:     &series,
		TransitionError:  transitionError,
		PenaltyImbalance: game.PenaltyImbalance(series.SessionPenalties),
	}
}

func (s State) current() (game.Game, game.Series, error) {
	if s.ActiveGame == nil {
		return game.Game{}, game.Series{}, ErrNoActiveGame
	}
	if s.ActiveSeries == nil {
		return game.Game{}, game.Series{}, ErrNoActiveSeries
	}
	return s.ActiveGame.Clone(), s.ActiveSeries.Clone(), nil
}

// StartSeries wraps a freshly created game into a new series
func (l *Lifecycle) StartSeries(g game.Game) State {
	series := game.CreateSeries(g)
	return commit(series.Games[0].Clone(), series, "")
}

// AddShotEvent appends an event to the active game's log. Penalty events
// also move the game and session penalty ledgers.
func (l *Lifecycle) AddShotEvent(s State, event game.ShotEvent) (State, error) {
	if s.ActiveGame == nil {
		return reject(s, ErrNoActiveGame)
	}
	if s.ActiveGame.Phase != game.PhaseActive {
		return reject(s, ErrGameSettled)
	}
	if err := game.ValidateEvent(*s.ActiveGame, event); err != nil {
		return reject(s, err)
	}

	g := s.ActiveGame.Clone()
	g.ShotEvents = append(g.ShotEvents, event)
	penalty := event.Source() == game.SourcePenalty
	if penalty {
		g.Penalties = game.ApplyPenalty(g.Penalties, event.Player(), float64(event.Delta()))
	}

	if s.ActiveSeries == nil {
		return State{
			ActiveGame:       &g,
			TransitionError:  s.TransitionError,
			PenaltyImbalance: game.PenaltyImbalance(g.Penalties),
		}, nil
	}

	series := s.ActiveSeries.Clone()
	if penalty {
		series.SessionPenalties = game.ApplyPenalty(series.SessionPenalties, event.Player(), float64(event.Delta()))
	}
	return commit(g, series, s.TransitionError), nil
}

// PreviewNetScores computes net scores for raw input without committing
func (l *Lifecycle) PreviewNetScores(s State, raw map[game.PlayerID]float64) (game.NetScores, error) {
	if s.ActiveGame == nil {
		return game.NetScores{}, ErrNoActiveGame
	}
	g := s.ActiveGame
	v := game.ValidateSettlementInput(g.Players, raw)
	return game.CalculateNetScores(g.PlayerOrder, v.Normalized, g.Penalties), nil
}

// CompleteSettlement freezes the active game with the given ball counts and
// merges its net scores into the series total.
func (l *Lifecycle) CompleteSettlement(s State, raw map[game.PlayerID]float64) (State, error) {
	g, series, err := s.current()
	if err != nil {
		return reject(s, err)
	}
	if g.Phase != game.PhaseActive {
		return reject(s, ErrGameSettled)
	}

	v := game.ValidateSettlementInput(g.Players, raw)
	if !v.IsValid {
		return reject(s, ErrInvalidSettlement)
	}
	if total := game.ValidateTotalBalls(v.Normalized); !total.IsValid {
		return reject(s, fmt.Errorf("%w: total=%d, minimum=%d", ErrNotEnoughBalls, total.Total, game.MinTotalBalls))
	}
	if imb := game.PenaltyImbalance(g.Penalties); !imb.IsBalanced {
		return reject(s, fmt.Errorf("%w: total=%d", ErrPenaltyImbalance, imb.Total))
	}
	net := game.CalculateNetScores(g.PlayerOrder, v.Normalized, g.Penalties)
	if !net.IsBalanced {
		return reject(s, fmt.Errorf("%w: total=%d", ErrNetScoreImbalance, net.TotalSum))
	}

	cumulative := series.CumulativeScore.Merge(net.Scores)
	if sum := cumulative.Total(); sum != 0 {
		return reject(s, fmt.Errorf("%w: total=%d", ErrSeriesImbalance, sum))
	}

	g.Phase = game.PhaseSettled
	g.SettlementInput = v.Normalized
	series.CumulativeScore = cumulative
	return commit(g, series, ""), nil
}

// advanceGate runs the checks shared by both next-game transitions
func (l *Lifecycle) advanceGate(s State) (game.Game, game.Series, error) {
	g, series, err := s.current()
	if err != nil {
		return g, series, err
	}
	if g.Phase != game.PhaseSettled {
		return g, series, ErrGameNotSettled
	}
	if imb := game.PenaltyImbalance(g.Penalties); !imb.IsBalanced {
		return g, series, fmt.Errorf("%w: total=%d", ErrPenaltyImbalance, imb.Total)
	}
	if imb := game.PenaltyImbalance(series.SessionPenalties); !imb.IsBalanced {
		return g, series, fmt.Errorf("%w: session total=%d", ErrPenaltyImbalance, imb.Total)
	}
	if net := game.CalculateNetScores(g.PlayerOrder, g.SettlementInput, g.Penalties); !net.IsBalanced {
		return g, series, fmt.Errorf("%w: total=%d", ErrNetScoreImbalance, net.TotalSum)
	}
	return g, series, nil
}

func (l *Lifecycle) spawn(g game.Game, series game.Series, order []game.PlayerID, reverse bool) State {
	idx := series.CurrentIndex
	nextIndex := idx + 1

	series.Games[idx] = g.Clone()
	next := game.NextGameFromPrevious(g, order, nextIndex, l.Now())
	if reverse {
		next.SeriesMeta.IsReverse = true
	}

	series.Games = append(series.Games[:idx+1], next)
	series.CurrentIndex = nextIndex
	if l.Scope == game.ScopeGame {
		series.SessionPenalties = game.ResetPenalties(g.Players)
	}
	return commit(next, series, "")
}

// StartNextSeriesGame spawns the next game using the alternating base order
func (l *Lifecycle) StartNextSeriesGame(s State) (State, error) {
	g, series, err := l.advanceGate(s)
	if err != nil {
		return reject(s, err)
	}
	order := game.NextGameOrder(series.BaseOrder, series.CurrentIndex+1)
	return l.spawn(g, series, order, false), nil
}

// ReverseGameOrder spawns the next game with the ending order reversed and
// the last scorer breaking. An empty id uses the last positive event.
func (l *Lifecycle) ReverseGameOrder(s State, lastScorerID game.PlayerID) (State, error) {
	g, series, err := l.advanceGate(s)
	if err != nil {
		return reject(s, err)
	}

	if lastScorerID == "" {
		scorer, ok := game.LastScoringPlayer(g.ShotEvents)
		if !ok {
			return reject(s, ErrUnknownScorer)
		}
		lastScorerID = scorer
	}
	if !contains(g.PlayerOrder, lastScorerID) {
		return reject(s, fmt.Errorf("%w: %s", ErrUnknownScorer, lastScorerID))
	}

	order := game.GetReverseOrder(g.PlayerOrder, lastScorerID)
	return l.spawn(g, series, order, true), nil
}

// RandomizePlayerOrder reshuffles the seating of an active game. While the
// series is still on its first game the shuffle also becomes the base order.
func (l *Lifecycle) RandomizePlayerOrder(s State, random func() float64) (State, error) {
	if s.ActiveGame == nil {
		return reject(s, ErrNoActiveGame)
	}
	if s.ActiveGame.Phase != game.PhaseActive {
		return reject(s, ErrGameSettled)
	}

	g := s.ActiveGame.Clone()
	g.PlayerOrder = game.PlayerIDs(game.ShufflePlayers(g.Players, random))

	if s.ActiveSeries == nil {
		return State{ActiveGame: &g, PenaltyImbalance: game.PenaltyImbalance(g.Penalties)}, nil
	}

	series := s.ActiveSeries.Clone()
	if series.CurrentIndex == 0 {
		series.BaseOrder = append([]game.PlayerID(nil), g.PlayerOrder...)
	}
	return commit(g, series, ""), nil
}

// StartSessionTimer starts the table clock
func (l *Lifecycle) StartSessionTimer(s State) (State, error) {
	g, series, err := s.current()
	if err != nil {
		return reject(s, err)
	}
	if series.SessionTimer.StartedAt != nil {
		return s, nil
	}
	return commit(g, game.StartSessionTimer(series, l.Now()), ""), nil
}

// EndSessionTimer stops the table clock. Under the series scope this also
// closes the session penalty ledger.
func (l *Lifecycle) EndSessionTimer(s State) (State, error) {
	g, series, err := s.current()
	if err != nil {
		return reject(s, err)
	}
	if !game.IsSessionRunning(series) {
		return s, nil
	}

	ended := game.EndSessionTimer(series, l.Now())
	if l.Scope == game.ScopeSeries {
		ended.SessionPenalties = game.ResetPenalties(g.Players)
	}
	return commit(g, ended, ""), nil
}

// ClearTransitionError dismisses the error banner
func (l *Lifecycle) ClearTransitionError(s State) State {
	s.TransitionError = ""
	return s
}

// ClearGame ends the table session and drops the series
func (l *Lifecycle) ClearGame(State) State {
	return EmptyState()
}

func contains(ids []game.PlayerID, id game.PlayerID) bool {
	for _, v := range ids {
		if v == id {
			return true
		}
	}
	return false
}
