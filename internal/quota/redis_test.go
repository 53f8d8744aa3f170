package quota

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/imadgeboyega/kiekky-matchmaking/internal/common/database"
)

func TestDecodeCounter(t *testing.T) {
	c, err := decodeCounter(4, map[string]string{
		"reset_date":    "2024-03-10",
		"matches_sent":  "2",
		"messages_sent": "7",
		"version":       "5",
	})
	require.NoError(t, err)
	assert.Equal(t, time.Date(2024, 3, 10, 0, 0, 0, 0, time.UTC), c.ResetDate)
	assert.Equal(t, 2, c.MatchesSent)
	assert.Equal(t, 7, c.MessagesSent)
	assert.Equal(t, int64(5), c.Version)

	empty, err := decodeCounter(4, map[string]string{})
	require.NoError(t, err)
	assert.Zero(t, empty.Version)

	_, err = decodeCounter(4, map[string]string{"reset_date": "yesterday"})
	assert.Error(t, err)
}

func TestRedisStore_CompareAndSwap(t *testing.T) {
	url := os.Getenv("TEST_REDIS_URL")
	if url == "" {
		t.Skip("TEST_REDIS_URL not set")
	}

	ctx := context.Background()
	client, err := database.NewRedisClientFromURL(ctx, url)
	require.NoError(t, err)
	defer client.Close()

	partyID := time.Now().UnixNano()
	defer client.Del(ctx, counterKey(partyID))

	store := NewRedisStore(client)
	first, err := store.Load(ctx, partyID)
	require.NoError(t, err)
	stale := *first

	first.ResetDate = time.Date(2024, 3, 10, 0, 0, 0, 0, time.UTC)
	first.MatchesSent = 1
	require.NoError(t, store.Save(ctx, first))

	stale.MatchesSent = 1
	assert.ErrorIs(t, store.Save(ctx, &stale), ErrConcurrentUpdate)

	loaded, err := store.Load(ctx, partyID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), loaded.Version)
}
