// internal/matches/memory.go

package matches

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/imadgeboyega/kiekky-matchmaking/internal/quota"
)

// MemoryStore is an in-process Repository and Transactor used in tests.
// Transactions are serialized with each other and undo their own match
// writes on error.
type MemoryStore struct {
	txMu sync.Mutex

	mu      sync.RWMutex
	matches map[int64]Match
	nextID  int64

	quotas quota.Store
}

func NewMemoryStore(quotas quota.Store) *MemoryStore {
	return &MemoryStore{
		matches: make(map[int64]Match),
		quotas:  quotas,
	}
}

func (s *MemoryStore) Do(ctx context.Context, fn func(ctx context.Context, r Repos) error) error {
	s.txMu.Lock()
	defer s.txMu.Unlock()

	tx := &memoryTx{MemoryStore: s, before: make(map[int64]*Match)}
	if err := fn(ctx, Repos{Matches: tx, Quotas: s.quotas}); err != nil {
		tx.rollback()
		return err
	}
	return nil
}

// memoryTx records the prior state of every match it writes so a failed
// transaction can undo exactly its own changes
type memoryTx struct {
	*MemoryStore
	before map[int64]*Match // nil value: created inside the transaction
}

func (t *memoryTx) CreateMatch(ctx context.Context, m *Match) error {
	if err := t.MemoryStore.CreateMatch(ctx, m); err != nil {
		return err
	}
	t.before[m.ID] = nil
	return nil
}

func (t *memoryTx) UpdateStatus(ctx context.Context, m *Match, from Status) error {
	prior, err := t.MemoryStore.GetMatch(ctx, m.ID)
	if err != nil {
		return err
	}
	if err := t.MemoryStore.UpdateStatus(ctx, m, from); err != nil {
		return err
	}
	if _, seen := t.before[m.ID]; !seen {
		t.before[m.ID] = prior
	}
	return nil
}

func (t *memoryTx) rollback() {
	t.mu.Lock()
	defer t.mu.Unlock()

	for id, prior := range t.before {
		if prior == nil {
			delete(t.matches, id)
			continue
		}
		t.matches[id] = *prior
	}
}

func (s *MemoryStore) GetMatch(ctx context.Context, matchID int64) (*Match, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	m, ok := s.matches[matchID]
	if !ok {
		return nil, ErrMatchNotFound
	}
	return &m, nil
}

func samePair(m *Match, a, b int64) bool {
	return (m.SenderID == a && m.ReceiverID == b) || (m.SenderID == b && m.ReceiverID == a)
}

func (s *MemoryStore) FindActiveBetween(ctx context.Context, partyA, partyB int64) (*Match, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, m := range s.matches {
		if samePair(&m, partyA, partyB) && m.Status.IsActive() {
			return &m, nil
		}
	}
	return nil, ErrMatchNotFound
}

func (s *MemoryStore) IsBlockedBetween(ctx context.Context, partyA, partyB int64) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, m := range s.matches {
		if samePair(&m, partyA, partyB) && m.Status == StatusBlocked {
			return true, nil
		}
	}
	return false, nil
}

func (s *MemoryStore) CreateMatch(ctx context.Context, m *Match) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, existing := range s.matches {
		if samePair(&existing, m.SenderID, m.ReceiverID) && existing.Status.IsActive() {
			return ErrDuplicateActiveMatch
		}
	}

	s.nextID++
	m.ID = s.nextID
	s.matches[m.ID] = *m
	return nil
}

func (s *MemoryStore) UpdateStatus(ctx context.Context, m *Match, from Status) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	current, ok := s.matches[m.ID]
	if !ok {
		return ErrMatchNotFound
	}
	if current.Status != from {
		return ErrStaleMatch
	}
	s.matches[m.ID] = *m
	return nil
}

func (s *MemoryStore) ExpirePending(ctx context.Context, now time.Time) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var expired int64
	for id, m := range s.matches {
		if expire(&m, now) {
			s.matches[id] = m
			expired++
		}
	}
	return expired, nil
}

func (s *MemoryStore) ListForParty(ctx context.Context, partyID int64, activeOnly bool) ([]*Match, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []*Match
	for _, m := range s.matches {
		if !m.Involves(partyID) || (activeOnly && !m.Status.IsActive()) {
			continue
		}
		m := m
		out = append(out, &m)
	}

	sort.Slice(out, func(i, j int) bool {
		if out[i].UpdatedAt.Equal(out[j].UpdatedAt) {
			return out[i].ID > out[j].ID
		}
		return out[i].UpdatedAt.After(out[j].UpdatedAt)
	})
	return out, nil
}
