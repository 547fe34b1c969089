package game

// PlayerStats is the per-player fold of a game's event log
type PlayerStats struct {
	PlayerID      PlayerID       `json:"player_id"`
	ColoredCounts map[string]int `json:"colored_counts"`
	WhiteTotal    int            `json:"white_total"`
	PenaltyTotal  int            `json:"penalty_total"`
}

// GameStats is the stats of one game of a series
type GameStats struct {
	GameID    string        `json:"game_id"`
	GameIndex int           `json:"game_index"`
	IsReverse bool          `json:"is_reverse"`
	Stats     []PlayerStats `json:"stats"`
}

// SeriesStats aggregates stats across the games of a series
type SeriesStats struct {
	PerGame      []GameStats   `json:"per_game"`
	ReverseGames []GameStats   `json:"reverse_games"`
	Aggregate    []PlayerStats `json:"aggregate"`
}

func zeroColoredCounts(balls []ColoredBall) map[string]int {
	counts := make(map[string]int, len(balls))
	for _, b := range balls {
		counts[b.ID] = 0
	}
	return counts
}

// ComputePlayerStats folds events into per-player totals. Events for unknown
// players or removed colored balls are skipped: the log is append-only while
// the ball set may have been edited since.
func ComputePlayerStats(players []Player, balls []ColoredBall, events []ShotEvent) []PlayerStats {
	ballByID := make(map[string]ColoredBall, len(balls))
	for _, b := range balls {
		ballByID[b.ID] = b
	}

	byPlayer := make(map[PlayerID]*PlayerStats, len(players))
	out := make([]PlayerStats, len(players))
	for i, p := range players {
		out[i] = PlayerStats{PlayerID: p.ID, ColoredCounts: zeroColoredCounts(balls)}
		byPlayer[p.ID] = &out[i]
	}

	for _, event := range events {
		st, ok := byPlayer[event.Player()]
		if !ok {
			continue
		}

		switch e := event.(type) {
		case ColoredShot:
			ball, ok := ballByID[e.BallID]
			if !ok {
				continue
			}
			nominal := ball.Nominal
			if nominal <= 0 {
				nominal = 1
			}
			st.ColoredCounts[e.BallID] += e.Value / nominal
		case WhiteShot:
			st.WhiteTotal += e.Value
		case PenaltyShot:
			st.PenaltyTotal += e.Value
		}
	}

	return out
}

// ComputeSeriesStats computes stats for every game, the reverse-game subset
// and a per-player aggregate over the roster of the first game.
func ComputeSeriesStats(series Series) SeriesStats {
	result := SeriesStats{
		PerGame:      make([]GameStats, 0, len(series.Games)),
		ReverseGames: []GameStats{},
		Aggregate:    []PlayerStats{},
	}

	merged := make(map[PlayerID]*PlayerStats)
	for _, g := range series.Games {
		gs := GameStats{
			GameID: g.ID,
			Stats:  ComputePlayerStats(g.Players, g.ColoredBalls, g.ShotEvents),
		}
		if g.SeriesMeta != nil {
			gs.GameIndex = g.SeriesMeta.GameIndex
			gs.IsReverse = g.SeriesMeta.IsReverse
		}
		result.PerGame = append(result.PerGame, gs)
		if gs.IsReverse {
			result.ReverseGames = append(result.ReverseGames, gs)
		}

		for _, st := range gs.Stats {
			target, ok := merged[st.PlayerID]
			if !ok {
				target = &PlayerStats{PlayerID: st.PlayerID, ColoredCounts: make(map[string]int)}
				merged[st.PlayerID] = target
			}
			for ballID, n := range st.ColoredCounts {
				target.ColoredCounts[ballID] += n
			}
			target.WhiteTotal += st.WhiteTotal
			target.PenaltyTotal += st.PenaltyTotal
		}
	}

	if len(series.Games) == 0 {
		return result
	}
	for _, p := range series.Games[0].Players {
		if st, ok := merged[p.ID]; ok {
			result.Aggregate = append(result.Aggregate, *st)
			continue
		}
		result.Aggregate = append(result.Aggregate, PlayerStats{PlayerID: p.ID, ColoredCounts: map[string]int{}})
	}
	return result
}
