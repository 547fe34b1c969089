package game

import "math"

// SettlementValidation is the outcome of normalizing raw ball counts
type SettlementValidation struct {
	IsValid    bool     `json:"is_valid"`
	Normalized Balances `json:"normalized"`
}

// TotalBalls is the outcome of the total-balls floor check
type TotalBalls struct {
	IsValid bool `json:"is_valid"`
	Total   int  `json:"total"`
}

// NetScores is the zero-sum result of a settlement
type NetScores struct {
	Scores     Balances `json:"scores"`
	IsBalanced bool     `json:"is_balanced"`
	TotalSum   int      `json:"total_sum"`
}

// SettlementPrompt is one row of the settlement form: how many balls Player
// potted against Against, the previous player in rotation.
type SettlementPrompt struct {
	PlayerID    PlayerID `json:"player_id"`
	PlayerName  string   `json:"player_name"`
	AgainstID   PlayerID `json:"against_id"`
	AgainstName string   `json:"against_name"`
}

func normalizeSettlementValue(v float64) int {
	if math.IsNaN(v) || math.IsInf(v, 0) || v < 0 {
		return 0
	}
	return ToInt(math.Floor(v))
}

// ValidateSettlementInput coerces every player's raw count to a non-negative
// integer. Missing players default to 0; the result is always fully populated.
func ValidateSettlementInput(players []Player, raw map[PlayerID]float64) SettlementValidation {
	normalized := make(Balances, len(players))
	for _, p := range players {
		normalized[p.ID] = normalizeSettlementValue(raw[p.ID])
	}

	valid := true
	for _, p := range players {
		if v, ok := normalized[p.ID]; !ok || v < 0 {
			valid = false
		}
	}

	return SettlementValidation{IsValid: valid, Normalized: normalized}
}

// ValidateTotalBalls checks the normalized input against MinTotalBalls
func ValidateTotalBalls(normalized Balances) TotalBalls {
	total := normalized.Total()
	return TotalBalls{IsValid: total >= MinTotalBalls, Total: total}
}

// CalculateNetScores scores each player as their own reported count minus
// the count reported by the next player in rotation, plus their penalty.
// Without penalties the sum telescopes to zero.
func CalculateNetScores(order []PlayerID, input Balances, penalties Balances) NetScores {
	scores := make(Balances, len(order))
	if len(order) <= 1 {
		return NetScores{Scores: scores, IsBalanced: true}
	}

	for i, id := range order {
		next := order[(i+1)%len(order)]
		scores[id] = input.Get(id) - input.Get(next) + penalties.Get(id)
	}

	total := scores.Total()
	return NetScores{Scores: scores, IsBalanced: total == 0, TotalSum: total}
}

// SettlementPrompts lists the settlement rows in play order
func SettlementPrompts(players []Player, order []PlayerID) []SettlementPrompt {
	byID := make(map[PlayerID]Player, len(players))
	for _, p := range players {
		byID[p.ID] = p
	}

	prompts := make([]SettlementPrompt, 0, len(order))
	for i, id := range order {
		current, ok := byID[id]
		if !ok {
			continue
		}
		prev := order[(i-1+len(order))%len(order)]
		prompts = append(prompts, SettlementPrompt{
			PlayerID:    id,
			PlayerName:  current.Name,
			AgainstID:   prev,
			AgainstName: byID[prev].Name,
		})
	}
	return prompts
}
