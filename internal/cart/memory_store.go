package cart

import (
	"context"
	"sync"
)

// MemoryStore implements Store in memory, for tests and throwaway sessions.
type MemoryStore struct {
	mu    sync.RWMutex
	lines []Line
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{}
}

func (m *MemoryStore) Load(_ context.Context) ([]Line, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]Line, len(m.lines))
	copy(out, m.lines)
	return out, nil
}

func (m *MemoryStore) Save(_ context.Context, lines []Line) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.lines = make([]Line, len(lines))
	copy(m.lines, lines)
	return nil
}

func (m *MemoryStore) Clear(_ context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.lines = nil
	return nil
}
