package progress

import (
	"context"
	"sync"
)

// MemoryStore keeps progress in memory only. It backs ephemeral sessions
// and tests.
type MemoryStore struct {
	mu     sync.Mutex
	levels map[string]int
}

var _ Store = (*MemoryStore)(nil)

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{levels: make(map[string]int)}
}

func (m *MemoryStore) UnlockedLevel(_ context.Context, topicID string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return clampRead(m.levels[topicID])
}

func (m *MemoryStore) RecordPass(_ context.Context, topicID string, levelPassed int) error {
	if err := checkLevel(levelPassed); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if next := nextLevel(levelPassed); next > m.levels[topicID] {
		m.levels[topicID] = next
	}
	return nil
}

func (m *MemoryStore) Reset(_ context.Context, topicID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if topicID == "" {
		clear(m.levels)
		return nil
	}
	delete(m.levels, topicID)
	return nil
}
