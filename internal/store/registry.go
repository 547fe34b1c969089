package store

import (
	"log"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/playpool/kolkhoz/internal/game"
)

// Registry holds every open table of the process
type Registry struct {
	tables    map[string]*Table
	lifecycle *Lifecycle
	publisher Publisher
	limit     int
	mu        sync.RWMutex
}

// NewRegistry creates an empty registry. A limit <= 0 means unlimited.
func NewRegistry(lc *Lifecycle, pub Publisher, limit int) *Registry {
	return &Registry{
		tables:    make(map[string]*Table),
		lifecycle: lc,
		publisher: pub,
		limit:     limit,
	}
}

// Lifecycle returns the state machine shared by all tables
func (r *Registry) Lifecycle() *Lifecycle {
	return r.lifecycle
}

// Create builds the first game from cfg and opens a table for its series
func (r *Registry) Create(cfg game.GameConfig) (*Table, error) {
	if cfg.CreatedAt.IsZero() {
		cfg.CreatedAt = r.lifecycle.Now()
	}
	g, err := game.CreateGameFromConfig(cfg)
	if err != nil {
		return nil, err
	}

	r.mu.Lock()
	if r.limit > 0 && len(r.tables) >= r.limit {
		r.mu.Unlock()
		return nil, ErrTableLimit
	}
	table := NewTable(uuid.NewString(), r.lifecycle, r.publisher, r.lifecycle.StartSeries(g))
	r.tables[table.ID] = table
	r.mu.Unlock()

	log.Printf("[TABLE] created table %s with %d players (game %s)", table.ID, len(g.Players), g.ID)
	table.publish("start_series")
	return table, nil
}

// Get looks up a table by id
func (r *Registry) Get(id string) (*Table, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	table, ok := r.tables[id]
	if !ok {
		return nil, ErrTableNotFound
	}
	return table, nil
}

// Delete clears a table and removes it from the registry
func (r *Registry) Delete(id string) error {
	r.mu.Lock()
	table, ok := r.tables[id]
	if ok {
		delete(r.tables, id)
	}
	r.mu.Unlock()

	if !ok {
		return ErrTableNotFound
	}
	table.Clear()
	log.Printf("[TABLE] deleted table %s", id)
	return nil
}

// CloseIdle deletes every table with no action since maxIdle before now
func (r *Registry) CloseIdle(now time.Time, maxIdle time.Duration) int {
	r.mu.RLock()
	var idle []string
	for id, table := range r.tables {
		if now.Sub(table.UpdatedAt()) >= maxIdle {
			idle = append(idle, id)
		}
	}
	r.mu.RUnlock()

	closed := 0
	for _, id := range idle {
		if err := r.Delete(id); err == nil {
			closed++
		}
	}
	return closed
}

// IDs lists open table ids in sorted order
func (r *Registry) IDs() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	ids := make([]string, 0, len(r.tables))
	for id := range r.tables {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// Count returns the number of open tables
func (r *Registry) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.tables)
}
