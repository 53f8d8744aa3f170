package matches

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/imadgeboyega/kiekky-matchmaking/internal/quota"
)

func TestMemoryStore_RollbackUndoesOnlyOwnWrites(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore(quota.NewMemoryStore())
	now := time.Now()

	existing := &Match{SenderID: 1, ReceiverID: 2, Status: StatusPending, ExpiresAt: now.Add(time.Hour)}
	require.NoError(t, store.CreateMatch(ctx, existing))

	boom := errors.New("boom")
	err := store.Do(ctx, func(ctx context.Context, r Repos) error {
		require.NoError(t, r.Matches.CreateMatch(ctx, &Match{SenderID: 3, ReceiverID: 4, Status: StatusPending}))

		// a write outside the transaction must survive its rollback
		outside := *existing
		outside.Status = StatusMatched
		require.NoError(t, store.UpdateStatus(ctx, &outside, StatusPending))
		return boom
	})
	assert.ErrorIs(t, err, boom)

	_, err = store.FindActiveBetween(ctx, 3, 4)
	assert.ErrorIs(t, err, ErrMatchNotFound)

	m, err := store.GetMatch(ctx, existing.ID)
	require.NoError(t, err)
	assert.Equal(t, StatusMatched, m.Status)
}

func TestMemoryStore_RollbackRestoresUpdatedMatch(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore(quota.NewMemoryStore())

	m := &Match{SenderID: 1, ReceiverID: 2, Status: StatusPending}
	require.NoError(t, store.CreateMatch(ctx, m))

	err := store.Do(ctx, func(ctx context.Context, r Repos) error {
		declined := *m
		declined.Status = StatusDeclined
		require.NoError(t, r.Matches.UpdateStatus(ctx, &declined, StatusPending))
		return errors.New("abort")
	})
	require.Error(t, err)

	stored, err := store.GetMatch(ctx, m.ID)
	require.NoError(t, err)
	assert.Equal(t, StatusPending, stored.Status)
}

func TestMemoryStore_RejectsSecondActiveMatch(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore(nil)

	require.NoError(t, store.CreateMatch(ctx, &Match{SenderID: 1, ReceiverID: 2, Status: StatusPending}))
	assert.ErrorIs(t, store.CreateMatch(ctx, &Match{SenderID: 2, ReceiverID: 1, Status: StatusPending}), ErrDuplicateActiveMatch)
}
