// internal/quota/postgres.go

package quota

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/imadgeboyega/kiekky-matchmaking/internal/common/database"
)

// PostgresStore keeps counters in the quota_counters table with an
// optimistic version column
type PostgresStore struct {
	db database.DBTX
}

func NewPostgresStore(db database.DBTX) *PostgresStore {
	return &PostgresStore{db: db}
}

func (s *PostgresStore) Load(ctx context.Context, partyID int64) (*Counter, error) {
	query := `
		SELECT party_id, reset_date, matches_sent, messages_sent, version
		FROM quota_counters
		WHERE party_id = $1`

	var c Counter
	err := s.db.GetContext(ctx, &c, query, partyID)
	if errors.Is(err, sql.ErrNoRows) {
		return &Counter{PartyID: partyID}, nil
	}
	if err != nil {
		return nil, err
	}

	y, m, d := c.ResetDate.Date()
	c.ResetDate = time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
	return &c, nil
}

func (s *PostgresStore) Save(ctx context.Context, c *Counter) error {
	var (
		result sql.Result
		err    error
	)

	if c.Version == 0 {
		query := `
			INSERT INTO quota_counters (party_id, reset_date, matches_sent, messages_sent, version)
			VALUES ($1, $2, $3, $4, 1)
			ON CONFLICT (party_id) DO NOTHING`
		result, err = s.db.ExecContext(ctx, query, c.PartyID, c.ResetDate, c.MatchesSent, c.MessagesSent)
	} else {
		query := `
			UPDATE quota_counters
			SET reset_date = $2, matches_sent = $3, messages_sent = $4,
			    version = version + 1, updated_at = NOW()
			WHERE party_id = $1 AND version = $5`
		result, err = s.db.ExecContext(ctx, query, c.PartyID, c.ResetDate, c.MatchesSent, c.MessagesSent, c.Version)
	}
	if err != nil {
		return fmt.Errorf("failed to save quota counter: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return ErrConcurrentUpdate
	}

	c.Version++
	return nil
}
