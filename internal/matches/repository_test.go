package matches

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/imadgeboyega/kiekky-matchmaking/internal/matching"
	"github.com/imadgeboyega/kiekky-matchmaking/internal/quota"
)

func newMockDB(t *testing.T) (*sqlx.DB, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return sqlx.NewDb(db, "postgres"), mock
}

var matchRowColumns = []string{
	"id", "sender_id", "receiver_id", "status", "compatibility_score", "compatibility_breakdown",
	"sender_liked_at", "receiver_responded_at", "matched_at", "expires_at",
	"blocked_by", "unmatched_by", "created_at", "updated_at",
}

func TestPostgresRepository_GetMatch(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewPostgresRepository(db)
	now := time.Date(2024, 5, 1, 9, 0, 0, 0, time.UTC)

	breakdown := `{"overall":0.82,"base_score":0.82,"penalty":0,"total_weight":20,"factors":{"age":{"score":1,"weight":5,"explanation":"both in range"}}}`
	mock.ExpectQuery(`FROM matches WHERE id = \$1`).
		WithArgs(int64(7)).
		WillReturnRows(sqlmock.NewRows(matchRowColumns).
			AddRow(int64(7), int64(1), int64(2), "pending", 0.82, []byte(breakdown),
				now, nil, nil, now.Add(time.Hour), nil, nil, now, now))

	m, err := repo.GetMatch(context.Background(), 7)
	require.NoError(t, err)
	assert.Equal(t, StatusPending, m.Status)
	assert.Equal(t, 0.82, m.Breakdown.Overall)
	age, ok := m.Breakdown.Factors[matching.FactorAge]
	require.True(t, ok)
	assert.Equal(t, 5.0, age.Weight)
	assert.Nil(t, m.MatchedAt)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresRepository_GetMatchNotFound(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewPostgresRepository(db)

	mock.ExpectQuery(`FROM matches WHERE id = \$1`).
		WithArgs(int64(7)).
		WillReturnRows(sqlmock.NewRows(matchRowColumns))

	_, err := repo.GetMatch(context.Background(), 7)
	assert.ErrorIs(t, err, ErrMatchNotFound)
}

func TestPostgresRepository_CreateMatch(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewPostgresRepository(db)
	now := time.Now()
	m := &Match{SenderID: 1, ReceiverID: 2, Status: StatusPending, Score: 0.7, SenderLikedAt: now, ExpiresAt: now, CreatedAt: now, UpdatedAt: now}

	mock.ExpectQuery(`INSERT INTO matches`).
		WithArgs(int64(1), int64(2), "pending", 0.7, sqlmock.AnyArg(), now, now, now, now).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(int64(42)))

	require.NoError(t, repo.CreateMatch(context.Background(), m))
	assert.Equal(t, int64(42), m.ID)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresRepository_CreateMatchUniqueViolation(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewPostgresRepository(db)

	mock.ExpectQuery(`INSERT INTO matches`).
		WillReturnError(&pq.Error{Code: "23505", Message: "duplicate key value violates unique constraint"})

	err := repo.CreateMatch(context.Background(), &Match{SenderID: 1, ReceiverID: 2, Status: StatusPending})
	assert.ErrorIs(t, err, ErrDuplicateActiveMatch)
}

func TestPostgresRepository_UpdateStatusIsCompareAndSwap(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewPostgresRepository(db)
	now := time.Now()
	m := &Match{ID: 9, Status: StatusMatched, MatchedAt: &now, ReceiverRespondedAt: &now, UpdatedAt: now}

	mock.ExpectExec(`UPDATE matches\s+SET status = \$2.*WHERE id = \$1 AND status = \$8`).
		WithArgs(int64(9), "matched", sqlmock.AnyArg(), sqlmock.AnyArg(), nil, nil, now, "pending").
		WillReturnResult(sqlmock.NewResult(0, 1))
	require.NoError(t, repo.UpdateStatus(context.Background(), m, StatusPending))

	mock.ExpectExec(`UPDATE matches`).
		WillReturnResult(sqlmock.NewResult(0, 0))
	assert.ErrorIs(t, repo.UpdateStatus(context.Background(), m, StatusPending), ErrStaleMatch)

	require.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresRepository_ExpirePending(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewPostgresRepository(db)
	now := time.Now()

	mock.ExpectExec(`UPDATE matches\s+SET status = 'expired'.*WHERE status = 'pending' AND expires_at < \$1`).
		WithArgs(now).
		WillReturnResult(sqlmock.NewResult(0, 3))

	n, err := repo.ExpirePending(context.Background(), now)
	require.NoError(t, err)
	assert.Equal(t, int64(3), n)
}

func TestPostgresRepository_IsBlockedBetween(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewPostgresRepository(db)

	mock.ExpectQuery(`SELECT EXISTS`).
		WithArgs(int64(2), int64(1)).
		WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(true))

	blocked, err := repo.IsBlockedBetween(context.Background(), 2, 1)
	require.NoError(t, err)
	assert.True(t, blocked)
}

func TestPostgresTransactor_RollsBackOnError(t *testing.T) {
	db, mock := newMockDB(t)
	tx := NewPostgresTransactor(db, nil)

	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT EXISTS`).
		WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(true))
	mock.ExpectRollback()

	err := tx.Do(context.Background(), func(ctx context.Context, r Repos) error {
		assert.IsType(t, &quota.PostgresStore{}, r.Quotas)
		blocked, err := r.Matches.IsBlockedBetween(ctx, 1, 2)
		if err != nil {
			return err
		}
		if blocked {
			return ErrPairBlocked
		}
		return nil
	})
	assert.ErrorIs(t, err, ErrPairBlocked)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresTransactor_RetriesSerializationFailure(t *testing.T) {
	db, mock := newMockDB(t)
	external := quota.NewMemoryStore()
	tx := NewPostgresTransactor(db, external)

	mock.ExpectBegin()
	mock.ExpectExec(`UPDATE matches`).WillReturnError(&pq.Error{Code: "40001"})
	mock.ExpectRollback()
	mock.ExpectBegin()
	mock.ExpectExec(`UPDATE matches`).WillReturnResult(sqlmock.NewResult(0, 2))
	mock.ExpectCommit()

	attempts := 0
	err := tx.Do(context.Background(), func(ctx context.Context, r Repos) error {
		attempts++
		assert.Same(t, external, r.Quotas)
		_, err := r.Matches.ExpirePending(ctx, time.Now())
		return err
	})
	require.NoError(t, err)
	assert.Equal(t, 2, attempts)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresTransactor_DoesNotRetryOtherErrors(t *testing.T) {
	db, mock := newMockDB(t)
	tx := NewPostgresTransactor(db, nil)
	boom := errors.New("boom")

	mock.ExpectBegin()
	mock.ExpectRollback()

	attempts := 0
	err := tx.Do(context.Background(), func(ctx context.Context, r Repos) error {
		attempts++
		return boom
	})
	assert.ErrorIs(t, err, boom)
	assert.Equal(t, 1, attempts)
}
