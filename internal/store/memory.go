package store

import (
	"sync"

	"fight-club/internal/game/spatial"
)

// MemoryStore keeps cumulative player stats in process memory, ranked by a
// skip list for O(log n) leaderboard reads. This is the default store when
// SQLite persistence isn't enabled.
type MemoryStore struct {
	mu    sync.RWMutex
	stats map[string]Entry
	ranks *spatial.SkipList
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		stats: map[string]Entry{},
		ranks: spatial.NewSkipList(),
	}
}

func (m *MemoryStore) UpsertPlayer(name string, kills, deaths, score int) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.stats[name] = Entry{Name: name, Kills: kills, Deaths: deaths, Score: score}
	m.ranks.Insert(name, float64(score))
	return nil
}

func (m *MemoryStore) Leaderboard(limit int) ([]Entry, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if limit <= 0 {
		limit = 10
	}
	top := m.ranks.GetRange(1, limit)
	out := make([]Entry, 0, len(top))
	for _, t := range top {
		if e, ok := m.stats[t.Key]; ok {
			out = append(out, e)
		}
	}
	return out, nil
}
