package cache

import (
	"context"
	"sync"
	"time"

	"eksi-rss/internal/model"
)

// Memory is the in-process cache backend.
type Memory struct {
	mu        sync.RWMutex
	snapshots map[string]Snapshot
	now       func() time.Time
}

func NewMemory() *Memory {
	return &Memory{
		snapshots: make(map[string]Snapshot),
		now:       time.Now,
	}
}

func (m *Memory) Get(_ context.Context, key string) (Snapshot, bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	s, ok := m.snapshots[key]
	if !ok || !s.Fresh(m.now()) {
		return Snapshot{}, false, nil
	}
	return s, true, nil
}

func (m *Memory) GetStale(_ context.Context, key string) (Snapshot, bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	s, ok := m.snapshots[key]
	return s, ok, nil
}

func (m *Memory) Put(_ context.Context, key string, entries []model.Entry, ttl time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.snapshots[key] = Snapshot{
		Key:       key,
		Entries:   entries,
		FetchedAt: m.now(),
		TTL:       ttl,
	}
	return nil
}
