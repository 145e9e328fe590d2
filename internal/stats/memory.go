package stats

import (
	"sync"
	"time"

	"driftline/game"
)

// MemoryStore keeps totals for the lifetime of the process
type MemoryStore struct {
	mu      sync.Mutex
	totals  Totals
	history []RunRecord
}

// NewMemory creates an empty in-memory store
func NewMemory() *MemoryStore {
	return &MemoryStore{}
}

// RecordAttempt counts a started run
func (m *MemoryStore) RecordAttempt() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.totals.Attempts++
	return nil
}

// RecordCrash folds a finished run into the totals and history
func (m *MemoryStore) RecordCrash(ev game.CrashEvent) error {
	rec, err := newRunRecord(ev)
	if err != nil {
		return err
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	m.totals.apply(ev)
	rec.ID = uint(len(m.history) + 1)
	rec.CreatedAt = time.Now()
	m.history = append(m.history, rec)
	return nil
}

// Totals returns a copy of the totals
func (m *MemoryStore) Totals() (Totals, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.totals, nil
}

// History returns the most recent records first
func (m *MemoryStore) History(limit int) ([]RunRecord, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	out := make([]RunRecord, 0, len(m.history))
	for i := len(m.history) - 1; i >= 0; i-- {
		if limit > 0 && len(out) == limit {
			break
		}
		out = append(out, m.history[i])
	}
	return out, nil
}

// Close is a no-op
func (m *MemoryStore) Close() error {
	return nil
}
