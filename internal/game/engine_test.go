package game

import (
	"errors"
	"math"
	"reflect"
	"testing"
	"time"
)

func TestCreateGameFromConfig(t *testing.T) {
	created := time.UnixMilli(1700000000000)
	g, err := CreateGameFromConfig(GameConfig{
		Players: []Player{
			{ID: "a", Name: "  Ann ", Handicap: -3},
			{ID: "b", Name: "Bob", Handicap: 2},
			{ID: "c", Name: "Cid"},
		},
		BallPrice:      50,
		PenaltyNominal: 9,
		CreatedAt:      created,
		ColoredBalls:   []ColoredBall{{Label: "Gold", Nominal: 5}},
	})
	if err != nil {
		t.Fatal(err)
	}

	if g.ID != "game-1700000000000-3" {
		t.Errorf("id = %q", g.ID)
	}
	if g.Players[0].Name != "Ann" || g.Players[0].Handicap != 0 {
		t.Errorf("player a = %+v", g.Players[0])
	}
	if !reflect.DeepEqual(g.PlayerOrder, idsOf("a", "b", "c")) {
		t.Errorf("order = %v", g.PlayerOrder)
	}
	if g.Rules.PenaltyNominal != MaxPenaltyNominal {
		t.Errorf("penalty nominal = %d", g.Rules.PenaltyNominal)
	}
	if g.Phase != PhaseActive || len(g.ShotEvents) != 0 || g.Penalties.Total() != 0 || len(g.Penalties) != 3 {
		t.Errorf("game not fresh: %+v", g)
	}
	if len(g.ColoredBalls) != 0 {
		t.Error("colored balls kept while colored mode is off")
	}
}

func TestCreateGameFromConfigClampsPlayers(t *testing.T) {
	g, err := CreateGameFromConfig(GameConfig{Players: playersOf("1", "2", "3", "4", "5", "6", "7", "8", "9", "10")})
	if err != nil {
		t.Fatal(err)
	}
	if len(g.Players) != MaxPlayersPerGame {
		t.Errorf("players = %d", len(g.Players))
	}
}

func TestCreateGameFromConfigRejects(t *testing.T) {
	if _, err := CreateGameFromConfig(GameConfig{Players: playersOf("a")}); !errors.Is(err, ErrTooFewPlayers) {
		t.Errorf("one player: %v", err)
	}
	if _, err := CreateGameFromConfig(GameConfig{Players: playersOf("a", "a")}); !errors.Is(err, ErrInvalidPlayers) {
		t.Errorf("duplicate players: %v", err)
	}
	if _, err := CreateGameFromConfig(GameConfig{Players: playersOf("a", " ")}); !errors.Is(err, ErrInvalidPlayers) {
		t.Errorf("blank id: %v", err)
	}
}

func TestCreateSeriesAndNextGame(t *testing.T) {
	g, err := CreateGameFromConfig(GameConfig{Players: playersOf("a", "b", "c"), CreatedAt: time.UnixMilli(1)})
	if err != nil {
		t.Fatal(err)
	}
	series := CreateSeries(g)

	if series.ID != "series-"+g.ID || series.CurrentIndex != 0 || len(series.Games) != 1 {
		t.Errorf("series = %+v", series)
	}
	if meta := series.Games[0].SeriesMeta; meta == nil || meta.GameIndex != 0 || meta.IsReverse {
		t.Errorf("first meta = %+v", meta)
	}

	prev := series.Games[0]
	prev.ShotEvents = []ShotEvent{WhiteShot{PlayerID: "a", Value: 1}}
	prev.Phase = PhaseSettled
	next := NextGameFromPrevious(prev, idsOf("c", "b", "a"), 1, time.UnixMilli(2))

	if next.ID != g.ID+"-g2" {
		t.Errorf("next id = %q", next.ID)
	}
	if next.Phase != PhaseActive || len(next.ShotEvents) != 0 || len(next.SettlementInput) != 0 {
		t.Errorf("next game not reset: %+v", next)
	}
	if next.SeriesMeta.GameIndex != 1 || !next.SeriesMeta.IsReverse {
		t.Errorf("next meta = %+v", next.SeriesMeta)
	}
	if len(prev.ShotEvents) != 1 {
		t.Error("previous game was modified")
	}
}

func TestSessionTimer(t *testing.T) {
	start := time.Date(2024, 1, 1, 20, 0, 0, 0, time.UTC)
	series := CreateSeries(Game{ID: "g", Players: playersOf("a", "b"), PlayerOrder: idsOf("a", "b")})

	started := StartSessionTimer(series, start)
	if !IsSessionRunning(started) || IsSessionRunning(series) {
		t.Fatal("start should only affect the returned series")
	}
	if again := StartSessionTimer(started, start.Add(time.Hour)); !again.SessionTimer.StartedAt.Equal(start) {
		t.Error("restart moved the start time")
	}

	if got := SessionElapsed(started, start.Add(90*time.Minute+5*time.Second)); FormatSessionTime(got) != "01:30:05" {
		t.Errorf("elapsed = %s", FormatSessionTime(got))
	}

	ended := EndSessionTimer(started, start.Add(2*time.Hour))
	if IsSessionRunning(ended) {
		t.Error("timer still running after end")
	}
	if got := SessionElapsed(ended, start.Add(5*time.Hour)); got != 2*time.Hour {
		t.Errorf("elapsed after end = %v", got)
	}
	if EndSessionTimer(series, start).SessionTimer.EndedAt != nil {
		t.Error("ending a never-started timer should be a no-op")
	}
}

func TestParseHandicap(t *testing.T) {
	tests := map[string]int{"": 0, " 3 ": 3, "2.8": 2, "-4": 0, "abc": 0, "NaN": 0, "1e300": MaxInputValue}
	for in, want := range tests {
		if got := ParseHandicap(in); got != want {
			t.Errorf("ParseHandicap(%q) = %d, want %d", in, got, want)
		}
	}
}

func TestToInt(t *testing.T) {
	tests := []struct {
		in   float64
		want int
	}{
		{2.9, 2},
		{-2.9, -2},
		{math.NaN(), 0},
		{math.Inf(1), 0},
		{1e19, MaxInputValue},
		{-1e19, -MaxInputValue},
	}
	for _, tt := range tests {
		if got := ToInt(tt.in); got != tt.want {
			t.Errorf("ToInt(%v) = %d, want %d", tt.in, got, tt.want)
		}
	}
}

func TestValidatePlayerCount(t *testing.T) {
	for n, want := range map[int]bool{-1: false, 0: true, 2: true, MaxPlayersPerGame: true, MaxPlayersPerGame + 1: false} {
		if got := ValidatePlayerCount(n); got != want {
			t.Errorf("ValidatePlayerCount(%d) = %v, want %v", n, got, want)
		}
	}
}
