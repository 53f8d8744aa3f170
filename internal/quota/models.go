// internal/quota/models.go

package quota

import (
	"errors"
	"time"
)

var (
	ErrQuotaExceeded    = errors.New("daily quota exceeded")
	ErrConcurrentUpdate = errors.New("quota counter was modified concurrently")
	ErrInvalidLimits    = errors.New("invalid quota limits")
)

// Kind selects which daily counter an operation applies to
type Kind string

const (
	KindMatches  Kind = "matches"
	KindMessages Kind = "messages"
)

// Party is the subset of a party the gate needs
type Party struct {
	ID      int64
	Premium bool
}

// Limits are the per-tier daily ceilings
type Limits struct {
	FreeMatches     int
	PremiumMatches  int
	FreeMessages    int
	PremiumMessages int
}

func (l Limits) Validate() error {
	if l.FreeMatches < 0 || l.FreeMessages < 0 {
		return ErrInvalidLimits
	}
	if l.PremiumMatches < l.FreeMatches || l.PremiumMessages < l.FreeMessages {
		return ErrInvalidLimits
	}
	return nil
}

func (l Limits) ceiling(kind Kind, premium bool) int {
	switch {
	case kind == KindMatches && premium:
		return l.PremiumMatches
	case kind == KindMatches:
		return l.FreeMatches
	case premium:
		return l.PremiumMessages
	default:
		return l.FreeMessages
	}
}

// Counter is one party's daily usage.
// Version is 0 for a counter that has never been stored.
type Counter struct {
	PartyID      int64     `db:"party_id" json:"party_id"`
	ResetDate    time.Time `db:"reset_date" json:"reset_date"`
	MatchesSent  int       `db:"matches_sent" json:"matches_sent"`
	MessagesSent int       `db:"messages_sent" json:"messages_sent"`
	Version      int64     `db:"version" json:"-"`
}

func (c *Counter) used(kind Kind) int {
	if kind == KindMatches {
		return c.MatchesSent
	}
	return c.MessagesSent
}

func (c *Counter) increment(kind Kind) {
	if kind == KindMatches {
		c.MatchesSent++
	} else {
		c.MessagesSent++
	}
}

// Status summarizes a party's allowance for the current day
type Status struct {
	Date              string `json:"date"`
	Premium           bool   `json:"premium"`
	MatchesSent       int    `json:"matches_sent"`
	MatchesLimit      int    `json:"matches_limit"`
	MatchesRemaining  int    `json:"matches_remaining"`
	MessagesSent      int    `json:"messages_sent"`
	MessagesLimit     int    `json:"messages_limit"`
	MessagesRemaining int    `json:"messages_remaining"`
}
