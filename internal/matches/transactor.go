// internal/matches/transactor.go

package matches

import (
	"context"

	"github.com/jmoiron/sqlx"

	"github.com/imadgeboyega/kiekky-matchmaking/internal/common/database"
	"github.com/imadgeboyega/kiekky-matchmaking/internal/quota"
)

// Repos are the stores visible inside one transaction
type Repos struct {
	Matches Repository
	Quotas  quota.Store
}

// Transactor runs fn atomically. If fn returns an error nothing it wrote
// through Repos is kept.
type Transactor interface {
	Do(ctx context.Context, fn func(ctx context.Context, r Repos) error) error
}

const serializableAttempts = 3

// PostgresTransactor runs fn in a SERIALIZABLE transaction and retries on
// serialization failures
type PostgresTransactor struct {
	db *sqlx.DB
	// external is used instead of the transactional quota table when set
	external quota.Store
}

// NewPostgresTransactor creates a transactor. Pass a non-nil quotaStore to
// keep counters outside postgres, for example in redis.
func NewPostgresTransactor(db *sqlx.DB, quotaStore quota.Store) *PostgresTransactor {
	return &PostgresTransactor{db: db, external: quotaStore}
}

func (t *PostgresTransactor) Do(ctx context.Context, fn func(ctx context.Context, r Repos) error) error {
	return database.WithSerializableTx(ctx, t.db, serializableAttempts, func(ctx context.Context, tx *sqlx.Tx) error {
		repos := Repos{
			Matches: NewPostgresRepository(tx),
			Quotas:  t.external,
		}
		if repos.Quotas == nil {
			repos.Quotas = quota.NewPostgresStore(tx)
		}
		return fn(ctx, repos)
	})
}
