package game

import "math/rand/v2"

// SeededRandom returns a linear-congruential generator producing values in
// [0,1). The sequence for a given seed is fixed; tests and replays rely on it.
func SeededRandom(seed int64) func() float64 {
	state := uint32(seed)
	return func() float64 {
		state = state*1664525 + 1013904223
		return float64(state) / (1 << 32)
	}
}

// ShufflePlayers returns a Fisher-Yates shuffled copy of players. A nil
// random source uses math/rand.
func ShufflePlayers(players []Player, random func() float64) []Player {
	if random == nil {
		random = rand.Float64
	}
	shuffled := append([]Player(nil), players...)
	for i := len(shuffled) - 1; i > 0; i-- {
		j := int(random() * float64(i+1))
		shuffled[i], shuffled[j] = shuffled[j], shuffled[i]
	}
	return shuffled
}

// ReverseOrder returns order back to front
func ReverseOrder(order []PlayerID) []PlayerID {
	reversed := make([]PlayerID, len(order))
	for i, id := range order {
		reversed[len(order)-1-i] = id
	}
	return reversed
}

// NextGameOrder alternates the base order: even games keep it, odd games
// play it reversed.
func NextGameOrder(baseOrder []PlayerID, gameIndex int) []PlayerID {
	if gameIndex%2 == 0 {
		return append([]PlayerID(nil), baseOrder...)
	}
	return ReverseOrder(baseOrder)
}

// GetReverseOrder reverses the ending order and moves the last scorer to the
// front, keeping everyone else in reversed order. Unknown scorers and
// trivial orders return a copy of the input.
func GetReverseOrder(endingOrder []PlayerID, lastScorerID PlayerID) []PlayerID {
	if len(endingOrder) <= 1 || !containsID(endingOrder, lastScorerID) {
		return append([]PlayerID(nil), endingOrder...)
	}

	next := make([]PlayerID, 0, len(endingOrder))
	next = append(next, lastScorerID)
	for _, id := range ReverseOrder(endingOrder) {
		if id != lastScorerID {
			next = append(next, id)
		}
	}
	return next
}

// LastScoringPlayer finds the player of the last event with a positive delta
func LastScoringPlayer(events []ShotEvent) (PlayerID, bool) {
	var last PlayerID
	found := false
	for _, e := range events {
		if e.Delta() > 0 {
			last = e.Player()
			found = true
		}
	}
	return last, found
}

func containsID(ids []PlayerID, id PlayerID) bool {
	for _, v := range ids {
		if v == id {
			return true
		}
	}
	return false
}
