package cache

import (
	"context"
	"sync"
	"time"

	"yttmp3/config"
)

// ProgressStore records conversion progress so /api/progress can answer for
// any conversion, including after the job manager has forgotten it. IDs are
// job IDs or video IDs; the manager records progress under both.
type ProgressStore interface {
	// SetProgress records the percentage (0..100) for an ID.
	SetProgress(ctx context.Context, id string, percent int) error

	// GetProgress returns the recorded percentage and whether the ID is known.
	GetProgress(ctx context.Context, id string) (int, bool, error)
}

// MemoryStore is the in-process ProgressStore used when Redis is not
// configured. Entries expire after the configured TTL.
type MemoryStore struct {
	mu      sync.RWMutex
	entries map[string]memoryEntry
}

type memoryEntry struct {
	percent   int
	updatedAt time.Time
}

// NewMemoryStore creates an empty in-memory progress store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{entries: make(map[string]memoryEntry)}
}

// SetProgress implements ProgressStore.
func (m *MemoryStore) SetProgress(_ context.Context, id string, percent int) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.entries[id] = memoryEntry{percent: percent, updatedAt: time.Now()}
	m.prune()
	return nil
}

// GetProgress implements ProgressStore.
func (m *MemoryStore) GetProgress(_ context.Context, id string) (int, bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	entry, ok := m.entries[id]
	if !ok || time.Since(entry.updatedAt) > config.ProgressTTL {
		return 0, false, nil
	}
	return entry.percent, true, nil
}

// prune drops expired entries. Caller must hold the write lock.
func (m *MemoryStore) prune() {
	cutoff := time.Now().Add(-config.ProgressTTL)
	for id, entry := range m.entries {
		if entry.updatedAt.Before(cutoff) {
			delete(m.entries, id)
		}
	}
}
