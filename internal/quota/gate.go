// internal/quota/gate.go
// Daily send limits with lazy per-day reset

package quota

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/imadgeboyega/kiekky-matchmaking/internal/logger"
)

const maxSaveAttempts = 3

// Gate enforces the per-party daily ceilings
type Gate struct {
	store  Store
	limits Limits
	loc    *time.Location
	log    *logger.Logger
}

func NewGate(store Store, limits Limits, loc *time.Location, log *logger.Logger) *Gate {
	if loc == nil {
		loc = time.UTC
	}
	if log == nil {
		log = logger.Nop()
	}
	return &Gate{store: store, limits: limits, loc: loc, log: log}
}

// WithStore returns a gate with the same limits bound to another store,
// typically one scoped to a transaction.
func (g *Gate) WithStore(store Store) *Gate {
	clone := *g
	clone.store = store
	return &clone
}

// Today returns the quota day containing now, as midnight UTC of the
// calendar date in the gate's time zone.
func (g *Gate) Today(now time.Time) time.Time {
	y, m, d := now.In(g.loc).Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// CanPropose reports whether the party may send another match proposal today.
func (g *Gate) CanPropose(ctx context.Context, party Party, now time.Time) (bool, error) {
	return g.allowed(ctx, party, KindMatches, now)
}

// RecordProposal counts one proposal. It fails with ErrQuotaExceeded when
// the ceiling has already been reached.
func (g *Gate) RecordProposal(ctx context.Context, party Party, now time.Time) error {
	return g.record(ctx, party, KindMatches, now)
}

func (g *Gate) CanSendMessage(ctx context.Context, party Party, now time.Time) (bool, error) {
	return g.allowed(ctx, party, KindMessages, now)
}

func (g *Gate) RecordMessage(ctx context.Context, party Party, now time.Time) error {
	return g.record(ctx, party, KindMessages, now)
}

// Status reports the party's usage and remaining allowance for today.
func (g *Gate) Status(ctx context.Context, party Party, now time.Time) (*Status, error) {
	c, err := g.load(ctx, party.ID, now)
	if err != nil {
		return nil, err
	}

	matchesLimit := g.limits.ceiling(KindMatches, party.Premium)
	messagesLimit := g.limits.ceiling(KindMessages, party.Premium)

	return &Status{
		Date:              c.ResetDate.Format("2006-01-02"),
		Premium:           party.Premium,
		MatchesSent:       c.MatchesSent,
		MatchesLimit:      matchesLimit,
		MatchesRemaining:  remaining(matchesLimit, c.MatchesSent),
		MessagesSent:      c.MessagesSent,
		MessagesLimit:     messagesLimit,
		MessagesRemaining: remaining(messagesLimit, c.MessagesSent),
	}, nil
}

func (g *Gate) allowed(ctx context.Context, party Party, kind Kind, now time.Time) (bool, error) {
	c, err := g.load(ctx, party.ID, now)
	if err != nil {
		return false, err
	}
	return c.used(kind) < g.limits.ceiling(kind, party.Premium), nil
}

func (g *Gate) record(ctx context.Context, party Party, kind Kind, now time.Time) error {
	ceiling := g.limits.ceiling(kind, party.Premium)

	for attempt := 1; ; attempt++ {
		c, err := g.load(ctx, party.ID, now)
		if err != nil {
			return err
		}
		if c.used(kind) >= ceiling {
			return ErrQuotaExceeded
		}

		c.increment(kind)
		err = g.store.Save(ctx, c)
		if err == nil {
			return nil
		}
		if !errors.Is(err, ErrConcurrentUpdate) || attempt >= maxSaveAttempts {
			return err
		}

		g.log.Debug("quota counter contended, retrying",
			"party_id", party.ID,
			"kind", string(kind),
			"attempt", attempt,
		)
	}
}

// load fetches the counter and applies the lazy reset in memory. The reset
// is persisted by the next successful Save.
func (g *Gate) load(ctx context.Context, partyID int64, now time.Time) (*Counter, error) {
	c, err := g.store.Load(ctx, partyID)
	if err != nil {
		return nil, fmt.Errorf("failed to load quota for party %d: %w", partyID, err)
	}

	today := g.Today(now)
	if c.ResetDate.Before(today) {
		c.ResetDate = today
		c.MatchesSent = 0
		c.MessagesSent = 0
	}
	return c, nil
}

func remaining(limit, used int) int {
	if used >= limit {
		return 0
	}
	return limit - used
}
