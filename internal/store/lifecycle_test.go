package store

import (
	"errors"
	"reflect"
	"testing"
	"time"

	"github.com/playpool/kolkhoz/internal/game"
)

var testNow = time.Date(2024, 3, 1, 19, 0, 0, 0, time.UTC)

func newTestLifecycle(scope game.PenaltyScope) *Lifecycle {
	now := testNow
	return NewLifecycle(scope, func() time.Time {
		now = now.Add(time.Minute)
		return now
	})
}

func startState(t *testing.T, l *Lifecycle, ids ...string) State {
	t.Helper()
	players := make([]game.Player, len(ids))
	for i, id := range ids {
		players[i] = game.Player{ID: game.PlayerID(id), Name: id}
	}
	g, err := game.CreateGameFromConfig(game.GameConfig{
		Players:        players,
		PenaltyNominal: 2,
		CreatedAt:      testNow,
	})
	if err != nil {
		t.Fatalf("create game: %v", err)
	}
	return l.StartSeries(g)
}

// must fails the test when a transition is rejected
func must(t *testing.T) func(State, error) State {
	t.Helper()
	return func(s State, err error) State {
		t.Helper()
		if err != nil {
			t.Fatalf("unexpected transition error: %v", err)
		}
		return s
	}
}

// settled plays a two-player game to a clean settlement
func settled(t *testing.T, l *Lifecycle) State {
	t.Helper()
	s := startState(t, l, "a", "b")
	s = must(t)(l.AddShotEvent(s, game.WhiteShot{PlayerID: "a", Value: 1}))
	s = must(t)(l.AddShotEvent(s, game.WhiteShot{PlayerID: "b", Value: 1}))
	return must(t)(l.CompleteSettlement(s, map[game.PlayerID]float64{"a": 10, "b": 6}))
}

func TestStartSeries(t *testing.T) {
	l := newTestLifecycle(game.ScopeSeries)
	s := startState(t, l, "a", "b", "c")

	if s.ActiveGame == nil || s.ActiveSeries == nil {
		t.Fatal("expected active game and series")
	}
	if s.ActiveSeries.CurrentIndex != 0 || len(s.ActiveSeries.Games) != 1 {
		t.Errorf("series = %+v", s.ActiveSeries)
	}
	if !s.PenaltyImbalance.IsBalanced {
		t.Error("new series should be balanced")
	}
}

func TestAddShotEventDoesNotModifyPreviousState(t *testing.T) {
	l := newTestLifecycle(game.ScopeSeries)
	before := startState(t, l, "a", "b")

	after := must(t)(l.AddShotEvent(before, game.WhiteShot{PlayerID: "a", Value: 1}))
	if len(before.ActiveGame.ShotEvents) != 0 || len(before.ActiveSeries.Games[0].ShotEvents) != 0 {
		t.Error("previous snapshot was modified")
	}
	if len(after.ActiveGame.ShotEvents) != 1 || len(after.ActiveSeries.Games[0].ShotEvents) != 1 {
		t.Errorf("event not recorded in game and series copy")
	}
}

func TestAddShotEventPenaltyMovesBothLedgers(t *testing.T) {
	l := newTestLifecycle(game.ScopeSeries)
	s := startState(t, l, "a", "b")

	s = must(t)(l.AddShotEvent(s, game.NewPenaltyEvent("a", true, 2)))
	if s.ActiveGame.Penalties["a"] != 2 || s.ActiveSeries.SessionPenalties["a"] != 2 {
		t.Errorf("ledgers = %v / %v", s.ActiveGame.Penalties, s.ActiveSeries.SessionPenalties)
	}
	if s.PenaltyImbalance.IsBalanced || s.PenaltyImbalance.Total != 2 {
		t.Errorf("imbalance = %+v", s.PenaltyImbalance)
	}

	s = must(t)(l.AddShotEvent(s, game.NewPenaltyEvent("b", false, 2)))
	if !s.PenaltyImbalance.IsBalanced {
		t.Errorf("imbalance after counterpart = %+v", s.PenaltyImbalance)
	}
}

func TestAddShotEventRejected(t *testing.T) {
	l := newTestLifecycle(game.ScopeSeries)
	s := startState(t, l, "a", "b")

	next, err := l.AddShotEvent(s, game.WhiteShot{PlayerID: "ghost", Value: 1})
	if !errors.Is(err, game.ErrUnknownPlayer) {
		t.Fatalf("got %v", err)
	}
	if next.TransitionError == "" {
		t.Error("transition error not set")
	}
	if len(next.ActiveGame.ShotEvents) != 0 {
		t.Error("rejected event was appended")
	}

	settledState := settled(t, l)
	if _, err := l.AddShotEvent(settledState, game.WhiteShot{PlayerID: "a", Value: 1}); !errors.Is(err, ErrGameSettled) {
		t.Errorf("event on settled game: %v", err)
	}
}

func TestCompleteSettlement(t *testing.T) {
	l := newTestLifecycle(game.ScopeSeries)
	s := startState(t, l, "A", "B", "C")

	s = must(t)(l.CompleteSettlement(s, map[game.PlayerID]float64{"A": 8, "B": 5, "C": 3}))
	if s.ActiveGame.Phase != game.PhaseSettled {
		t.Errorf("phase = %s", s.ActiveGame.Phase)
	}
	want := game.Balances{"A": 3, "B": 2, "C": -5}
	if !reflect.DeepEqual(s.ActiveSeries.CumulativeScore, want) {
		t.Errorf("cumulative = %v, want %v", s.ActiveSeries.CumulativeScore, want)
	}
	if s.ActiveSeries.Games[0].Phase != game.PhaseSettled {
		t.Error("series copy not settled")
	}
	if _, err := l.CompleteSettlement(s, map[game.PlayerID]float64{"A": 16}); !errors.Is(err, ErrGameSettled) {
		t.Errorf("second settlement: %v", err)
	}
}

func TestCompleteSettlementRejects(t *testing.T) {
	l := newTestLifecycle(game.ScopeSeries)

	t.Run("not enough balls", func(t *testing.T) {
		s := startState(t, l, "a", "b")
		next, err := l.CompleteSettlement(s, map[game.PlayerID]float64{"a": 10, "b": 5})
		if !errors.Is(err, ErrNotEnoughBalls) {
			t.Fatalf("got %v", err)
		}
		if next.ActiveGame.Phase != game.PhaseActive || next.TransitionError == "" {
			t.Errorf("state = %+v", next)
		}
	})

	t.Run("unbalanced penalties", func(t *testing.T) {
		s := startState(t, l, "a", "b")
		s = must(t)(l.AddShotEvent(s, game.NewPenaltyEvent("a", true, 2)))
		_, err := l.CompleteSettlement(s, map[game.PlayerID]float64{"a": 8, "b": 8})
		if !errors.Is(err, ErrPenaltyImbalance) {
			t.Errorf("got %v", err)
		}
	})

	t.Run("no series", func(t *testing.T) {
		s := startState(t, l, "a", "b")
		s.ActiveSeries = nil
		if _, err := l.CompleteSettlement(s, map[game.PlayerID]float64{"a": 8, "b": 8}); !errors.Is(err, ErrNoActiveSeries) {
			t.Errorf("got %v", err)
		}
	})
}

func TestCompleteSettlementWithPenalties(t *testing.T) {
	l := newTestLifecycle(game.ScopeSeries)
	s := startState(t, l, "a", "b")
	s = must(t)(l.AddShotEvent(s, game.NewPenaltyEvent("a", true, 2)))
	s = must(t)(l.AddShotEvent(s, game.NewPenaltyEvent("b", false, 2)))

	s = must(t)(l.CompleteSettlement(s, map[game.PlayerID]float64{"a": 8, "b": 8}))
	if s.ActiveSeries.CumulativeScore["a"] != 2 || s.ActiveSeries.CumulativeScore["b"] != -2 {
		t.Errorf("cumulative = %v", s.ActiveSeries.CumulativeScore)
	}
}

func TestStartNextSeriesGame(t *testing.T) {
	l := newTestLifecycle(game.ScopeSeries)

	active := startState(t, l, "a", "b")
	if _, err := l.StartNextSeriesGame(active); !errors.Is(err, ErrGameNotSettled) {
		t.Errorf("advance before settlement: %v", err)
	}

	s := settled(t, l)
	next := must(t)(l.StartNextSeriesGame(s))

	series := next.ActiveSeries
	if series.CurrentIndex != 1 || len(series.Games) != 2 {
		t.Fatalf("series index=%d games=%d", series.CurrentIndex, len(series.Games))
	}
	if !reflect.DeepEqual(next.ActiveGame.PlayerOrder, []game.PlayerID{"b", "a"}) {
		t.Errorf("order = %v", next.ActiveGame.PlayerOrder)
	}
	if len(series.Games[0].ShotEvents) != 2 || series.Games[0].Phase != game.PhaseSettled {
		t.Error("previous game not frozen in series")
	}
	if next.ActiveGame.Phase != game.PhaseActive || len(next.ActiveGame.ShotEvents) != 0 {
		t.Errorf("next game = %+v", next.ActiveGame)
	}
	if meta := next.ActiveGame.SeriesMeta; meta.GameIndex != 1 || !meta.IsReverse {
		t.Errorf("meta = %+v", meta)
	}
	if s.ActiveSeries.CurrentIndex != 0 || len(s.ActiveSeries.Games) != 1 {
		t.Error("previous snapshot was modified")
	}
}

func TestStartNextSeriesGameRejectsPenaltyImbalance(t *testing.T) {
	l := newTestLifecycle(game.ScopeSeries)
	s := settled(t, l)

	broken := s.ActiveGame.Clone()
	broken.Penalties = game.Balances{"a": 2, "b": 0}
	s.ActiveGame = &broken

	next, err := l.StartNextSeriesGame(s)
	if !errors.Is(err, ErrPenaltyImbalance) {
		t.Fatalf("got %v", err)
	}
	if next.ActiveSeries.CurrentIndex != 0 || len(next.ActiveSeries.Games) != 1 {
		t.Errorf("series advanced: index=%d", next.ActiveSeries.CurrentIndex)
	}
	if next.TransitionError == "" {
		t.Error("transition error not set")
	}
}

func TestCompleteSettlementRejectsSeriesImbalance(t *testing.T) {
	l := newTestLifecycle(game.ScopeSeries)
	s := startState(t, l, "a", "b")

	series := s.ActiveSeries.Clone()
	series.CumulativeScore = game.Balances{"a": 1, "b": 0}
	s.ActiveSeries = &series

	next, err := l.CompleteSettlement(s, map[game.PlayerID]float64{"a": 10, "b": 6})
	if !errors.Is(err, ErrSeriesImbalance) {
		t.Fatalf("got %v", err)
	}
	if next.ActiveGame.Phase != game.PhaseActive || next.ActiveSeries.Games[0].Phase != game.PhaseActive {
		t.Error("game settled despite series imbalance")
	}
	if next.ActiveGame.SettlementInput.Total() != 0 {
		t.Errorf("settlement input stored: %v", next.ActiveGame.SettlementInput)
	}
	if want := (game.Balances{"a": 1, "b": 0}); !reflect.DeepEqual(next.ActiveSeries.CumulativeScore, want) {
		t.Errorf("cumulative = %v, want %v", next.ActiveSeries.CumulativeScore, want)
	}
	if next.TransitionError == "" {
		t.Error("transition error not set")
	}
}

func TestAdvanceRejectsNetScoreImbalance(t *testing.T) {
	l := newTestLifecycle(game.ScopeSeries)
	s := settled(t, l)

	// balanced in total, but the -2 sits on a player outside the order
	broken := s.ActiveGame.Clone()
	broken.Penalties = game.Balances{"a": 2, "b": 0, "ghost": -2}
	s.ActiveGame = &broken

	advances := map[string]func(State) (State, error){
		"next":    l.StartNextSeriesGame,
		"reverse": func(s State) (State, error) { return l.ReverseGameOrder(s, "a") },
	}
	for name, advance := range advances {
		t.Run(name, func(t *testing.T) {
			next, err := advance(s)
			if !errors.Is(err, ErrNetScoreImbalance) {
				t.Fatalf("got %v", err)
			}
			if next.ActiveSeries.CurrentIndex != 0 || len(next.ActiveSeries.Games) != 1 {
				t.Errorf("series advanced: index=%d games=%d", next.ActiveSeries.CurrentIndex, len(next.ActiveSeries.Games))
			}
			if next.ActiveGame.ID != s.ActiveGame.ID || next.TransitionError == "" {
				t.Errorf("state = %+v", next)
			}
		})
	}
}

func TestReverseGameOrder(t *testing.T) {
	l := newTestLifecycle(game.ScopeSeries)

	s := startState(t, l, "a", "b", "c", "d")
	s = must(t)(l.AddShotEvent(s, game.WhiteShot{PlayerID: "b", Value: 1}))
	s = must(t)(l.AddShotEvent(s, game.WhiteShot{PlayerID: "c", Value: 1}))
	s = must(t)(l.CompleteSettlement(s, map[game.PlayerID]float64{"a": 4, "b": 4, "c": 4, "d": 4}))

	t.Run("explicit scorer", func(t *testing.T) {
		next := must(t)(l.ReverseGameOrder(s, "b"))
		want := []game.PlayerID{"b", "d", "c", "a"}
		if !reflect.DeepEqual(next.ActiveGame.PlayerOrder, want) {
			t.Errorf("order = %v, want %v", next.ActiveGame.PlayerOrder, want)
		}
		if !next.ActiveGame.SeriesMeta.IsReverse {
			t.Error("reverse flag not set")
		}
	})

	t.Run("last scorer from log", func(t *testing.T) {
		next := must(t)(l.ReverseGameOrder(s, ""))
		if next.ActiveGame.PlayerOrder[0] != "c" {
			t.Errorf("order = %v", next.ActiveGame.PlayerOrder)
		}
	})

	t.Run("unknown scorer", func(t *testing.T) {
		next, err := l.ReverseGameOrder(s, "z")
		if !errors.Is(err, ErrUnknownScorer) {
			t.Fatalf("got %v", err)
		}
		if next.ActiveSeries.CurrentIndex != 0 {
			t.Error("series advanced")
		}
	})
}

func TestRandomizePlayerOrder(t *testing.T) {
	l := newTestLifecycle(game.ScopeSeries)
	s := startState(t, l, "a", "b", "c", "d")

	s = must(t)(l.RandomizePlayerOrder(s, game.SeededRandom(42)))
	want := []game.PlayerID{"c", "d", "a", "b"}
	if !reflect.DeepEqual(s.ActiveGame.PlayerOrder, want) {
		t.Errorf("order = %v, want %v", s.ActiveGame.PlayerOrder, want)
	}
	if !reflect.DeepEqual(s.ActiveSeries.Games[0].PlayerOrder, want) {
		t.Error("series copy not resynced")
	}
	if !reflect.DeepEqual(s.ActiveSeries.BaseOrder, want) {
		t.Errorf("base order = %v", s.ActiveSeries.BaseOrder)
	}

	s = must(t)(l.CompleteSettlement(s, map[game.PlayerID]float64{"a": 4, "b": 4, "c": 4, "d": 4}))
	if _, err := l.RandomizePlayerOrder(s, nil); !errors.Is(err, ErrGameSettled) {
		t.Errorf("shuffle after settlement: %v", err)
	}
}

func TestSessionTimerTransitions(t *testing.T) {
	l := newTestLifecycle(game.ScopeSeries)
	s := startState(t, l, "a", "b")

	s = must(t)(l.StartSessionTimer(s))
	if !game.IsSessionRunning(*s.ActiveSeries) {
		t.Fatal("timer not running")
	}
	s = must(t)(l.AddShotEvent(s, game.NewPenaltyEvent("a", true, 2)))

	s = must(t)(l.EndSessionTimer(s))
	if game.IsSessionRunning(*s.ActiveSeries) {
		t.Error("timer still running")
	}
	if s.ActiveSeries.SessionPenalties.Total() != 0 {
		t.Errorf("session ledger not reset: %v", s.ActiveSeries.SessionPenalties)
	}
	if s.ActiveGame.Penalties["a"] != 2 {
		t.Error("game ledger should survive the session end")
	}

	empty := EmptyState()
	if _, err := l.StartSessionTimer(empty); !errors.Is(err, ErrNoActiveGame) {
		t.Errorf("timer without game: %v", err)
	}
}

func TestGameScopeResetsSessionLedgerOnNextGame(t *testing.T) {
	l := newTestLifecycle(game.ScopeGame)
	s := startState(t, l, "a", "b")
	s = must(t)(l.AddShotEvent(s, game.NewPenaltyEvent("a", true, 2)))
	s = must(t)(l.AddShotEvent(s, game.NewPenaltyEvent("b", false, 2)))
	s = must(t)(l.AddShotEvent(s, game.NewPenaltyEvent("a", true, 2)))
	s = must(t)(l.AddShotEvent(s, game.NewPenaltyEvent("b", false, 2)))
	s = must(t)(l.CompleteSettlement(s, map[game.PlayerID]float64{"a": 8, "b": 8}))

	if s.ActiveSeries.SessionPenalties["a"] != 4 {
		t.Fatalf("session ledger = %v", s.ActiveSeries.SessionPenalties)
	}
	next := must(t)(l.StartNextSeriesGame(s))
	if next.ActiveSeries.SessionPenalties["a"] != 0 || next.ActiveSeries.SessionPenalties["b"] != 0 {
		t.Errorf("session ledger = %v", next.ActiveSeries.SessionPenalties)
	}
}

func TestClearTransitionErrorAndGame(t *testing.T) {
	l := newTestLifecycle(game.ScopeSeries)
	s := startState(t, l, "a", "b")

	s, _ = l.StartNextSeriesGame(s)
	if s.TransitionError == "" {
		t.Fatal("expected transition error")
	}
	s = l.ClearTransitionError(s)
	if s.TransitionError != "" {
		t.Error("error not cleared")
	}

	s = l.ClearGame(s)
	if s.ActiveGame != nil || s.ActiveSeries != nil || !s.PenaltyImbalance.IsBalanced {
		t.Errorf("state after clear = %+v", s)
	}
}

func TestPreviewNetScores(t *testing.T) {
	l := newTestLifecycle(game.ScopeSeries)
	s := startState(t, l, "A", "B", "C")

	net, err := l.PreviewNetScores(s, map[game.PlayerID]float64{"A": 5, "B": 3, "C": 2})
	if err != nil {
		t.Fatal(err)
	}
	if net.Scores["A"] != 2 || net.Scores["B"] != 1 || net.Scores["C"] != -3 {
		t.Errorf("scores = %v", net.Scores)
	}
	if s.ActiveGame.Phase != game.PhaseActive {
		t.Error("preview changed the game")
	}
}
