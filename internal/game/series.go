package game

import (
	"fmt"
	"time"
)

// CreateSeries wraps the first game of a table into a new series
func CreateSeries(initial Game) Series {
	first := initial.Clone()
	ids := PlayerIDs(first.Players)
	if first.Penalties == nil {
		first.Penalties = NewBalances(ids)
	}
	if first.SettlementInput == nil {
		first.SettlementInput = Balances{}
	}
	if first.ShotEvents == nil {
		first.ShotEvents = []ShotEvent{}
	}
	if first.Phase == "" {
		first.Phase = PhaseActive
	}
	first.SeriesMeta = &SeriesMeta{GameIndex: 0, IsReverse: false}

	return Series{
		ID:               "series-" + initial.ID,
		Games:            []Game{first},
		BaseOrder:        append([]PlayerID(nil), first.PlayerOrder...),
		CurrentIndex:     0,
		CumulativeScore:  NewBalances(ids),
		SessionPenalties: NewBalances(ids),
	}
}

// NextGameFromPrevious spawns the successor of prev: same roster, balls and
// rules, a fresh log and the given order.
func NextGameFromPrevious(prev Game, order []PlayerID, index int, now time.Time) Game {
	next := prev.Clone()
	next.ID = fmt.Sprintf("%s-g%d", prev.ID, index+1)
	next.PlayerOrder = append([]PlayerID(nil), order...)
	next.ShotEvents = []ShotEvent{}
	next.Penalties = NewBalances(PlayerIDs(prev.Players))
	next.SettlementInput = Balances{}
	next.CreatedAt = now
	next.Phase = PhaseActive
	next.SeriesMeta = &SeriesMeta{GameIndex: index, IsReverse: index%2 == 1}
	return next
}
