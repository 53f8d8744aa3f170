package notification

import (
	"context"
	"database/sql"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/imadgeboyega/kiekky-matchmaking/internal/logger"
	"github.com/imadgeboyega/kiekky-matchmaking/internal/profile"
)

func testDirectory() *profile.MemoryRepository {
	dir := profile.NewMemoryRepository()
	dir.AddParty(&profile.Party{
		ID:          1,
		DisplayName: "Ada",
		Email:       sql.NullString{String: "ada@example.com", Valid: true},
		Phone:       sql.NullString{String: "+15550001", Valid: true},
	})
	dir.AddParty(&profile.Party{
		ID:          2,
		DisplayName: "Grace",
		Email:       sql.NullString{String: "grace@example.com", Valid: true},
	})
	return dir
}

func TestEmailNotifier_ProposalGoesToReceiver(t *testing.T) {
	sender := NewMockEmailSender(logger.Nop())
	n := NewEmailNotifier(sender, testDirectory())

	err := n.Notify(context.Background(), Event{Type: EventMatchProposed, MatchID: 9, SenderID: 1, ReceiverID: 2, Score: 0.874})
	require.NoError(t, err)

	sent := sender.Messages()
	require.Len(t, sent, 1)
	assert.Equal(t, "grace@example.com", sent[0].To)
	assert.Equal(t, "Someone is interested in you", sent[0].Subject)
	assert.Contains(t, sent[0].Body, "Ada would like to connect")
	assert.Contains(t, sent[0].Body, "87%")
}

func TestEmailNotifier_AcceptanceGoesToBoth(t *testing.T) {
	sender := NewMockEmailSender(logger.Nop())
	n := NewEmailNotifier(sender, testDirectory())

	require.NoError(t, n.Notify(context.Background(), Event{Type: EventMatchAccepted, SenderID: 1, ReceiverID: 2, Score: 0.9}))

	sent := sender.Messages()
	require.Len(t, sent, 2)
	assert.Equal(t, "ada@example.com", sent[0].To)
	assert.Contains(t, sent[0].Body, "You and Grace are now matched")
}

func TestEmailNotifier_UnknownParty(t *testing.T) {
	n := NewEmailNotifier(NewMockEmailSender(logger.Nop()), testDirectory())

	err := n.Notify(context.Background(), Event{Type: EventMatchProposed, SenderID: 1, ReceiverID: 77})
	assert.ErrorIs(t, err, profile.ErrPartyNotFound)
}

func TestSMSNotifier_OnlyAcceptedAndOnlyWithPhone(t *testing.T) {
	sender := NewMockSMSSender(logger.Nop())
	n := NewSMSNotifier(sender, testDirectory())

	require.NoError(t, n.Notify(context.Background(), Event{Type: EventMatchProposed, SenderID: 2, ReceiverID: 1}))
	assert.Empty(t, sender.Messages())

	require.NoError(t, n.Notify(context.Background(), Event{Type: EventMatchAccepted, SenderID: 1, ReceiverID: 2}))
	sent := sender.Messages()
	require.Len(t, sent, 1)
	assert.Equal(t, "+15550001", sent[0].To)
	assert.Contains(t, sent[0].Message, "Grace")
}

type failingNotifier struct{}

func (failingNotifier) Notify(ctx context.Context, event Event) error {
	return errors.New("provider down")
}

type recordingNotifier struct {
	mu     sync.Mutex
	events []Event
}

func (r *recordingNotifier) Notify(ctx context.Context, event Event) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, event)
	return nil
}

func (r *recordingNotifier) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.events)
}

func TestMulti_ContinuesPastFailures(t *testing.T) {
	rec := &recordingNotifier{}
	err := Multi{failingNotifier{}, rec, NewLogNotifier(logger.Nop())}.Notify(context.Background(), Event{Type: EventMatchAccepted})

	assert.Error(t, err)
	assert.Equal(t, 1, rec.count())
}

func TestAsync_DeliversAndDrainsOnShutdown(t *testing.T) {
	rec := &recordingNotifier{}
	async := NewAsync(rec, 10, time.Second, logger.Nop())

	for i := 0; i < 5; i++ {
		require.NoError(t, async.Notify(context.Background(), Event{MatchID: int64(i)}))
	}

	ctx, cancel := context.WithCancel(context.Background())
	async.Start(ctx)
	cancel()

	select {
	case <-async.Done():
	case <-time.After(2 * time.Second):
		t.Fatal("async notifier did not stop")
	}
	assert.Equal(t, 5, rec.count())
}

func TestAsync_DropsWhenFull(t *testing.T) {
	async := NewAsync(&recordingNotifier{}, 1, time.Second, logger.Nop())

	require.NoError(t, async.Notify(context.Background(), Event{MatchID: 1}))
	assert.ErrorIs(t, async.Notify(context.Background(), Event{MatchID: 2}), ErrQueueFull)
}
