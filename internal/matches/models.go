// internal/matches/models.go

package matches

import (
	"database/sql/driver"
	"fmt"
	"time"

	"github.com/goccy/go-json"

	"github.com/imadgeboyega/kiekky-matchmaking/internal/matching"
)

// Status is the lifecycle state of a match
type Status string

const (
	StatusPending   Status = "pending"
	StatusMatched   Status = "matched"
	StatusDeclined  Status = "declined"
	StatusExpired   Status = "expired"
	StatusBlocked   Status = "blocked"
	StatusUnmatched Status = "unmatched"
)

// transitions lists every legal move. States without an entry are terminal.
var transitions = map[Status][]Status{
	StatusPending: {StatusMatched, StatusDeclined, StatusExpired, StatusBlocked},
	StatusMatched: {StatusBlocked, StatusUnmatched},
}

// IsActive reports whether the match still occupies its pair
func (s Status) IsActive() bool {
	return s == StatusPending || s == StatusMatched
}

// IsTerminal reports whether no further transition is possible
func (s Status) IsTerminal() bool {
	return len(transitions[s]) == 0
}

// CanTransitionTo reports whether moving from s to next is legal
func (s Status) CanTransitionTo(next Status) bool {
	for _, allowed := range transitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

func (s Status) Valid() bool {
	switch s {
	case StatusPending, StatusMatched, StatusDeclined, StatusExpired, StatusBlocked, StatusUnmatched:
		return true
	}
	return false
}

// Breakdown is the compatibility report frozen when the match was proposed.
// It is stored as JSONB and never recomputed.
type Breakdown matching.Report

func (b Breakdown) Value() (driver.Value, error) {
	data, err := json.Marshal(b)
	if err != nil {
		return nil, err
	}
	return string(data), nil
}

func (b *Breakdown) Scan(value interface{}) error {
	if value == nil {
		*b = Breakdown{}
		return nil
	}

	var data []byte
	switch v := value.(type) {
	case []byte:
		data = v
	case string:
		data = []byte(v)
	default:
		return fmt.Errorf("cannot scan %T into Breakdown", value)
	}
	return json.Unmarshal(data, b)
}

// Match is a directed proposal from a sender to a receiver
type Match struct {
	ID         int64   `json:"id" db:"id"`
	SenderID   int64   `json:"sender_id" db:"sender_id"`
	ReceiverID int64   `json:"receiver_id" db:"receiver_id"`
	Status     Status  `json:"status" db:"status"`
	Score      float64 `json:"compatibility_score" db:"compatibility_score"`

	Breakdown Breakdown `json:"compatibility_breakdown" db:"compatibility_breakdown"`

	SenderLikedAt       time.Time  `json:"sender_liked_at" db:"sender_liked_at"`
	ReceiverRespondedAt *time.Time `json:"receiver_responded_at,omitempty" db:"receiver_responded_at"`
	MatchedAt           *time.Time `json:"matched_at,omitempty" db:"matched_at"`
	ExpiresAt           time.Time  `json:"expires_at" db:"expires_at"`

	BlockedBy   *int64 `json:"blocked_by,omitempty" db:"blocked_by"`
	UnmatchedBy *int64 `json:"unmatched_by,omitempty" db:"unmatched_by"`

	CreatedAt time.Time `json:"created_at" db:"created_at"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
}

// Involves reports whether partyID is the sender or the receiver
func (m *Match) Involves(partyID int64) bool {
	return m.SenderID == partyID || m.ReceiverID == partyID
}

// OtherParty returns the counterpart of partyID
func (m *Match) OtherParty(partyID int64) int64 {
	if m.SenderID == partyID {
		return m.ReceiverID
	}
	return m.SenderID
}

// newMatch builds a pending match with the report frozen into it
func newMatch(senderID, receiverID int64, report *matching.Report, now time.Time, window time.Duration) *Match {
	return &Match{
		SenderID:      senderID,
		ReceiverID:    receiverID,
		Status:        StatusPending,
		Score:         report.Overall,
		Breakdown:     Breakdown(*report.Clone()),
		SenderLikedAt: now,
		ExpiresAt:     now.Add(window),
		CreatedAt:     now,
		UpdatedAt:     now,
	}
}
