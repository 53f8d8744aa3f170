// internal/quota/store.go

package quota

import (
	"context"
	"sync"
)

// Store persists counters. Load returns a zero counter with Version 0 when
// none exists. Save must only succeed when the stored version still equals
// c.Version, and must bump the version on success; otherwise it returns
// ErrConcurrentUpdate.
type Store interface {
	Load(ctx context.Context, partyID int64) (*Counter, error)
	Save(ctx context.Context, c *Counter) error
}

// MemoryStore is an in-process Store used in development and tests
type MemoryStore struct {
	mu       sync.Mutex
	counters map[int64]Counter
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{counters: make(map[int64]Counter)}
}

func (s *MemoryStore) Load(ctx context.Context, partyID int64) (*Counter, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	c, ok := s.counters[partyID]
	if !ok {
		return &Counter{PartyID: partyID}, nil
	}
	return &c, nil
}

func (s *MemoryStore) Save(ctx context.Context, c *Counter) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	current := s.counters[c.PartyID]
	if current.Version != c.Version {
		return ErrConcurrentUpdate
	}

	c.Version++
	s.counters[c.PartyID] = *c
	return nil
}
