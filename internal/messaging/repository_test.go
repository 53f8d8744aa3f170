package messaging

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPostgresRepository_CreateAndList(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()
	repo := NewPostgresRepository(sqlx.NewDb(db, "postgres"))
	now := time.Now()

	mock.ExpectQuery(`INSERT INTO messages`).
		WithArgs(int64(10), int64(1), "hello", now).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(int64(3)))

	msg := &Message{MatchID: 10, SenderID: 1, Content: "hello", CreatedAt: now}
	require.NoError(t, repo.CreateMessage(context.Background(), msg))
	assert.Equal(t, int64(3), msg.ID)

	mock.ExpectQuery(`FROM messages\s+WHERE match_id = \$1`).
		WithArgs(int64(10), 50, 0).
		WillReturnRows(sqlmock.NewRows([]string{"id", "match_id", "sender_id", "content", "created_at"}).
			AddRow(int64(3), int64(10), int64(1), "hello", now))

	list, err := repo.ListMessages(context.Background(), 10, 50, 0)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "hello", list[0].Content)
	require.NoError(t, mock.ExpectationsWereMet())
}
