package session

import (
	"context"
	"sync"
)

// Persistence saves and loads session snapshots.
type Persistence interface {
	Save(ctx context.Context, sessionID string, snap Snapshot) error
	Load(ctx context.Context, sessionID string) (Snapshot, bool, error)
}

// MemoryStore keeps snapshots in process. Used in tests and when Redis is
// not configured.
type MemoryStore struct {
	mu sync.Mutex
	m  map[string]Snapshot
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		m: make(map[string]Snapshot),
	}
}

func (s *MemoryStore) Save(_ context.Context, sessionID string, snap Snapshot) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.m[sessionID] = snap
	return nil
}

func (s *MemoryStore) Load(_ context.Context, sessionID string) (Snapshot, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	snap, ok := s.m[sessionID]
	return snap, ok, nil
}
