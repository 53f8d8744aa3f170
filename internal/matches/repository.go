// internal/matches/repository.go

package matches

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/imadgeboyega/kiekky-matchmaking/internal/common/database"
)

// Repository defines match persistence. Every status write is a
// compare-and-swap on the previously read status.
type Repository interface {
	GetMatch(ctx context.Context, matchID int64) (*Match, error)
	// FindActiveBetween returns the pending or matched match for the
	// unordered pair, or ErrMatchNotFound
	FindActiveBetween(ctx context.Context, partyA, partyB int64) (*Match, error)
	// IsBlockedBetween reports whether either party blocked the other
	IsBlockedBetween(ctx context.Context, partyA, partyB int64) (bool, error)
	// CreateMatch inserts m and sets its ID. A second active match for the
	// pair fails with ErrDuplicateActiveMatch.
	CreateMatch(ctx context.Context, m *Match) error
	// UpdateStatus writes m only if the stored status still equals from,
	// otherwise it returns ErrStaleMatch
	UpdateStatus(ctx context.Context, m *Match, from Status) error
	// ExpirePending marks every pending match with expires_at before now
	// as expired and returns how many changed
	ExpirePending(ctx context.Context, now time.Time) (int64, error)
	ListForParty(ctx context.Context, partyID int64, activeOnly bool) ([]*Match, error)
}

const matchColumns = `
	id, sender_id, receiver_id, status, compatibility_score, compatibility_breakdown,
	sender_liked_at, receiver_responded_at, matched_at, expires_at,
	blocked_by, unmatched_by, created_at, updated_at`

// postgresRepository implements Repository on a database handle or transaction
type postgresRepository struct {
	db database.DBTX
}

// NewPostgresRepository creates a repository bound to db, which may be a
// *sqlx.DB or a *sqlx.Tx
func NewPostgresRepository(db database.DBTX) Repository {
	return &postgresRepository{db: db}
}

func (r *postgresRepository) GetMatch(ctx context.Context, matchID int64) (*Match, error) {
	var m Match
	query := `SELECT ` + matchColumns + ` FROM matches WHERE id = $1`

	if err := r.db.GetContext(ctx, &m, query, matchID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrMatchNotFound
		}
		return nil, fmt.Errorf("failed to get match: %w", err)
	}
	return &m, nil
}

func (r *postgresRepository) FindActiveBetween(ctx context.Context, partyA, partyB int64) (*Match, error) {
	var m Match
	query := `
		SELECT ` + matchColumns + `
		FROM matches
		WHERE LEAST(sender_id, receiver_id) = LEAST($1::bigint, $2::bigint)
		  AND GREATEST(sender_id, receiver_id) = GREATEST($1::bigint, $2::bigint)
		  AND status IN ('pending', 'matched')
		LIMIT 1`

	if err := r.db.GetContext(ctx, &m, query, partyA, partyB); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrMatchNotFound
		}
		return nil, fmt.Errorf("failed to find active match: %w", err)
	}
	return &m, nil
}

func (r *postgresRepository) IsBlockedBetween(ctx context.Context, partyA, partyB int64) (bool, error) {
	var blocked bool
	query := `
		SELECT EXISTS (
			SELECT 1 FROM matches
			WHERE LEAST(sender_id, receiver_id) = LEAST($1::bigint, $2::bigint)
			  AND GREATEST(sender_id, receiver_id) = GREATEST($1::bigint, $2::bigint)
			  AND status = 'blocked'
		)`

	if err := r.db.GetContext(ctx, &blocked, query, partyA, partyB); err != nil {
		return false, fmt.Errorf("failed to check block: %w", err)
	}
	return blocked, nil
}

func (r *postgresRepository) CreateMatch(ctx context.Context, m *Match) error {
	query := `
		INSERT INTO matches (
			sender_id, receiver_id, status, compatibility_score, compatibility_breakdown,
			sender_liked_at, expires_at, created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING id`

	err := r.db.QueryRowxContext(ctx, query,
		m.SenderID, m.ReceiverID, m.Status, m.Score, m.Breakdown,
		m.SenderLikedAt, m.ExpiresAt, m.CreatedAt, m.UpdatedAt,
	).Scan(&m.ID)
	if err != nil {
		if database.IsUniqueViolation(err) {
			return ErrDuplicateActiveMatch
		}
		return fmt.Errorf("failed to create match: %w", err)
	}
	return nil
}

func (r *postgresRepository) UpdateStatus(ctx context.Context, m *Match, from Status) error {
	query := `
		UPDATE matches
		SET status = $2, receiver_responded_at = $3, matched_at = $4,
		    blocked_by = $5, unmatched_by = $6, updated_at = $7
		WHERE id = $1 AND status = $8`

	result, err := r.db.ExecContext(ctx, query,
		m.ID, m.Status, m.ReceiverRespondedAt, m.MatchedAt,
		m.BlockedBy, m.UnmatchedBy, m.UpdatedAt, from,
	)
	if err != nil {
		return fmt.Errorf("failed to update match status: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return ErrStaleMatch
	}
	return nil
}

func (r *postgresRepository) ExpirePending(ctx context.Context, now time.Time) (int64, error) {
	query := `
		UPDATE matches
		SET status = 'expired', updated_at = $1
		WHERE status = 'pending' AND expires_at < $1`

	result, err := r.db.ExecContext(ctx, query, now)
	if err != nil {
		return 0, fmt.Errorf("failed to expire matches: %w", err)
	}
	return result.RowsAffected()
}

func (r *postgresRepository) ListForParty(ctx context.Context, partyID int64, activeOnly bool) ([]*Match, error) {
	query := `
		SELECT ` + matchColumns + `
		FROM matches
		WHERE (sender_id = $1 OR receiver_id = $1)
		  AND ($2 = FALSE OR status IN ('pending', 'matched'))
		ORDER BY updated_at DESC
		LIMIT 200`

	var matches []*Match
	if err := r.db.SelectContext(ctx, &matches, query, partyID, activeOnly); err != nil {
		return nil, fmt.Errorf("failed to list matches: %w", err)
	}
	return matches, nil
}
