// internal/notification/models.go

package notification

import (
	"context"
	"time"

	"github.com/imadgeboyega/kiekky-matchmaking/internal/profile"
)

// EventType identifies a match lifecycle event
type EventType string

const (
	EventMatchProposed EventType = "match_proposed"
	EventMatchAccepted EventType = "match_accepted"
)

// Event is published after the transaction that produced it commits
type Event struct {
	Type       EventType `json:"type"`
	MatchID    int64     `json:"match_id"`
	SenderID   int64     `json:"sender_id"`
	ReceiverID int64     `json:"receiver_id"`
	Score      float64   `json:"score"`
	OccurredAt time.Time `json:"occurred_at"`
}

// Recipients returns the parties the event concerns, the one to alert first
func (e Event) Recipients() []int64 {
	if e.Type == EventMatchProposed {
		return []int64{e.ReceiverID}
	}
	return []int64{e.SenderID, e.ReceiverID}
}

// Notifier delivers match events. Failures never affect match outcomes.
type Notifier interface {
	Notify(ctx context.Context, event Event) error
}

// Directory resolves contact details for a party
type Directory interface {
	GetParty(ctx context.Context, partyID int64) (*profile.Party, error)
}

// EmailMessage is one outbound email
type EmailMessage struct {
	To      string
	Name    string
	Subject string
	Body    string
	HTML    string
}

// SMSMessage is one outbound text message
type SMSMessage struct {
	To      string
	Message string
}

type EmailSender interface {
	SendEmail(ctx context.Context, msg *EmailMessage) error
}

type SMSSender interface {
	SendSMS(ctx context.Context, msg *SMSMessage) error
}
