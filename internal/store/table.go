package store

import (
	"log"
	"sync"
	"time"

	"github.com/playpool/kolkhoz/internal/game"
)

// UpdateTableState is the message type of every table broadcast
const UpdateTableState = "table_state"

// Update is a snapshot pushed to table watchers after an action
type Update struct {
	Type    string `json:"type"`
	TableID string `json:"table_id"`
	Action  string `json:"action"`
	State   State  `json:"state"`
	View    View   `json:"view"`
}

// Publisher fans table updates out to watchers
type Publisher interface {
	Publish(update Update)
}

// Table owns the current snapshot of one scoreboard. All writes go through
// Apply, so transitions on a table are serialized.
type Table struct {
	ID        string
	CreatedAt time.Time

	lifecycle *Lifecycle
	publisher Publisher
	state     State
	updatedAt time.Time
	mu        sync.RWMutex
}

// NewTable starts a table with the given initial state
func NewTable(id string, lc *Lifecycle, pub Publisher, initial State) *Table {
	now := lc.Now()
	return &Table{
		ID:        id,
		CreatedAt: now,
		lifecycle: lc,
		publisher: pub,
		state:     initial,
		updatedAt: now,
	}
}

// State returns the current snapshot
func (t *Table) State() State {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.state
}

// UpdatedAt is the time of the last applied action
func (t *Table) UpdatedAt() time.Time {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.updatedAt
}

// Snapshot returns the current state with its derived view
func (t *Table) Snapshot(action string) Update {
	s := t.State()
	return Update{
		Type:    UpdateTableState,
		TableID: t.ID,
		Action:  action,
		State:   s,
		View:    BuildView(s, t.lifecycle.Now()),
	}
}

// Apply runs a transition against the current snapshot and stores the
// result. A rejected transition still stores its TransitionError.
func (t *Table) Apply(action string, transition func(*Lifecycle, State) (State, error)) (State, error) {
	t.mu.Lock()
	next, err := transition(t.lifecycle, t.state)
	t.state = next
	t.updatedAt = t.lifecycle.Now()
	t.mu.Unlock()

	if err != nil {
		log.Printf("[TABLE] %s rejected on table %s: %v", action, t.ID, err)
	} else {
		log.Printf("[TABLE] %s applied on table %s", action, t.ID)
	}

	t.publish(action)
	return next, err
}

// Preview computes settlement net scores and the ball total without
// changing the table
func (t *Table) Preview(raw map[game.PlayerID]float64) (game.NetScores, game.TotalBalls, error) {
	s := t.State()
	net, err := t.lifecycle.PreviewNetScores(s, raw)
	if err != nil {
		return net, game.TotalBalls{}, err
	}
	total := game.ValidateTotalBalls(game.ValidateSettlementInput(s.ActiveGame.Players, raw).Normalized)
	return net, total, nil
}

func (t *Table) publish(action string) {
	if t.publisher == nil {
		return
	}
	t.publisher.Publish(t.Snapshot(action))
}

// AddShot records one shot event
func (t *Table) AddShot(event game.ShotEvent) (State, error) {
	return t.Apply("add_shot", func(l *Lifecycle, s State) (State, error) {
		return l.AddShotEvent(s, event)
	})
}

// Settle completes the settlement of the active game
func (t *Table) Settle(raw map[game.PlayerID]float64) (State, error) {
	return t.Apply("complete_settlement", func(l *Lifecycle, s State) (State, error) {
		return l.CompleteSettlement(s, raw)
	})
}

// NextGame advances the series in alternating base order
func (t *Table) NextGame() (State, error) {
	return t.Apply("next_game", (*Lifecycle).StartNextSeriesGame)
}

// ReverseGame advances the series with the reversed ending order
func (t *Table) ReverseGame(lastScorer game.PlayerID) (State, error) {
	return t.Apply("reverse_game", func(l *Lifecycle, s State) (State, error) {
		return l.ReverseGameOrder(s, lastScorer)
	})
}

// Shuffle randomizes the seating of the active game
func (t *Table) Shuffle(random func() float64) (State, error) {
	return t.Apply("randomize_order", func(l *Lifecycle, s State) (State, error) {
		return l.RandomizePlayerOrder(s, random)
	})
}

// StartTimer starts the session clock
func (t *Table) StartTimer() (State, error) {
	return t.Apply("start_timer", (*Lifecycle).StartSessionTimer)
}

// EndTimer stops the session clock
func (t *Table) EndTimer() (State, error) {
	return t.Apply("end_timer", (*Lifecycle).EndSessionTimer)
}

// ClearError dismisses the transition error
func (t *Table) ClearError() State {
	s, _ := t.Apply("clear_error", func(l *Lifecycle, s State) (State, error) {
		return l.ClearTransitionError(s), nil
	})
	return s
}

// Clear drops the table's game and series
func (t *Table) Clear() State {
	s, _ := t.Apply("clear_game", func(l *Lifecycle, s State) (State, error) {
		return l.ClearGame(s), nil
	})
	return s
}
