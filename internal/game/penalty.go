package game

import (
	"fmt"
	"math"
	"strings"
)

// Balances is an integer balance per player (penalties, scores, inputs)
type Balances map[PlayerID]int

// Imbalance summarizes whether a set of balances cancels out
type Imbalance struct {
	IsBalanced bool `json:"is_balanced"`
	Total      int  `json:"total"`
}

// PenaltyScope decides when the session penalty ledger is reset
type PenaltyScope string

const (
	// ScopeSeries keeps the session ledger for the whole table session and
	// resets it when the session timer ends.
	ScopeSeries PenaltyScope = "series"
	// ScopeGame resets the session ledger every time a successor game spawns.
	ScopeGame PenaltyScope = "game"
)

// ParsePenaltyScope parses a configured scope name
func ParsePenaltyScope(s string) (PenaltyScope, error) {
	switch PenaltyScope(strings.ToLower(strings.TrimSpace(s))) {
	case "", ScopeSeries:
		return ScopeSeries, nil
	case ScopeGame:
		return ScopeGame, nil
	}
	return "", fmt.Errorf("unknown penalty scope %q", s)
}

// NewBalances returns zeroed balances holding an entry for every id
func NewBalances(ids []PlayerID) Balances {
	b := make(Balances, len(ids))
	for _, id := range ids {
		b[id] = 0
	}
	return b
}

// Clone copies the container
func (b Balances) Clone() Balances {
	if b == nil {
		return nil
	}
	c := make(Balances, len(b))
	for k, v := range b {
		c[k] = v
	}
	return c
}

// Get returns the balance for id, 0 when absent
func (b Balances) Get(id PlayerID) int {
	return b[id]
}

// Total sums every balance
func (b Balances) Total() int {
	total := 0
	for _, v := range b {
		total += v
	}
	return total
}

// Merge returns b + other per player
func (b Balances) Merge(other Balances) Balances {
	c := b.Clone()
	if c == nil {
		c = make(Balances, len(other))
	}
	for k, v := range other {
		c[k] += v
	}
	return c
}

// ApplyPenalty adds trunc(delta) to the player's balance and returns a new
// container. A zero or non-finite delta returns the input untouched.
func ApplyPenalty(balances Balances, playerID PlayerID, delta float64) Balances {
	if delta == 0 || math.IsNaN(delta) || math.IsInf(delta, 0) {
		return balances
	}
	next := balances.Clone()
	if next == nil {
		next = make(Balances)
	}
	next[playerID] += ToInt(delta)
	return next
}

// PenaltyOf returns the running penalty balance of a player
func PenaltyOf(balances Balances, playerID PlayerID) int {
	return balances.Get(playerID)
}

// ResetPenalties zeroes the ledger for the roster
func ResetPenalties(players []Player) Balances {
	return NewBalances(PlayerIDs(players))
}

// PenaltyImbalance reports the ledger sum. Any non-zero total means a
// penalty was recorded against one player without its counterpart.
func PenaltyImbalance(balances Balances) Imbalance {
	total := balances.Total()
	return Imbalance{IsBalanced: total == 0, Total: total}
}

// IsPenaltyBalanced is shorthand for PenaltyImbalance(b).IsBalanced
func IsPenaltyBalanced(balances Balances) bool {
	return balances.Total() == 0
}

