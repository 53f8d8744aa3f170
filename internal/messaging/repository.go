// internal/messaging/repository.go

package messaging

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/jmoiron/sqlx"
)

type Repository interface {
	CreateMessage(ctx context.Context, message *Message) error
	// ListMessages returns the newest messages first
	ListMessages(ctx context.Context, matchID int64, limit, offset int) ([]*Message, error)
}

type postgresRepository struct {
	db *sqlx.DB
}

func NewPostgresRepository(db *sqlx.DB) Repository {
	return &postgresRepository{db: db}
}

// CreateMessage creates a new message
func (r *postgresRepository) CreateMessage(ctx context.Context, message *Message) error {
	query := `
		INSERT INTO messages (match_id, sender_id, content, created_at)
		VALUES ($1, $2, $3, $4)
		RETURNING id`

	err := r.db.QueryRowxContext(ctx, query,
		message.MatchID, message.SenderID, message.Content, message.CreatedAt,
	).Scan(&message.ID)
	if err != nil {
		return fmt.Errorf("failed to create message: %w", err)
	}
	return nil
}

// ListMessages retrieves messages for a match
func (r *postgresRepository) ListMessages(ctx context.Context, matchID int64, limit, offset int) ([]*Message, error) {
	query := `
		SELECT id, match_id, sender_id, content, created_at
		FROM messages
		WHERE match_id = $1
		ORDER BY created_at DESC, id DESC
		LIMIT $2 OFFSET $3`

	var messages []*Message
	if err := r.db.SelectContext(ctx, &messages, query, matchID, limit, offset); err != nil {
		return nil, fmt.Errorf("failed to list messages: %w", err)
	}
	return messages, nil
}

// MemoryRepository keeps messages in process. Used by tests.
type MemoryRepository struct {
	mu       sync.RWMutex
	messages map[int64][]Message
	nextID   int64
}

func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{messages: make(map[int64][]Message)}
}

func (r *MemoryRepository) CreateMessage(ctx context.Context, message *Message) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.nextID++
	message.ID = r.nextID
	r.messages[message.MatchID] = append(r.messages[message.MatchID], *message)
	return nil
}

func (r *MemoryRepository) ListMessages(ctx context.Context, matchID int64, limit, offset int) ([]*Message, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	stored := r.messages[matchID]
	out := make([]*Message, 0, len(stored))
	for i := range stored {
		m := stored[i]
		out = append(out, &m)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID > out[j].ID })

	if offset >= len(out) {
		return []*Message{}, nil
	}
	out = out[offset:]
	if limit > 0 && limit < len(out) {
		out = out[:limit]
	}
	return out, nil
}
