// internal/messaging/service.go

package messaging

import (
	"context"
	"strings"
	"time"

	"github.com/imadgeboyega/kiekky-matchmaking/internal/logger"
	"github.com/imadgeboyega/kiekky-matchmaking/internal/matches"
	"github.com/imadgeboyega/kiekky-matchmaking/internal/profile"
	"github.com/imadgeboyega/kiekky-matchmaking/internal/quota"
)

const (
	defaultPageSize = 50
	maxPageSize     = 200
)

// Matches resolves a match visible to the calling party
type Matches interface {
	GetMatch(ctx context.Context, matchID, partyID int64) (*matches.Match, error)
}

// Parties resolves the sender's tier
type Parties interface {
	GetParty(ctx context.Context, partyID int64) (*profile.Party, error)
}

type Service interface {
	SendMessage(ctx context.Context, matchID, senderID int64, content string) (*Message, error)
	ListMessages(ctx context.Context, matchID, partyID int64, limit, offset int) ([]*Message, error)
}

type MessageService struct {
	repo    Repository
	matches Matches
	parties Parties
	gate    *quota.Gate
	log     *logger.Logger
	now     func() time.Time
}

func NewService(repo Repository, matches Matches, parties Parties, gate *quota.Gate, log *logger.Logger) *MessageService {
	return &MessageService{
		repo:    repo,
		matches: matches,
		parties: parties,
		gate:    gate,
		log:     log,
		now:     time.Now,
	}
}

// SendMessage stores a message inside a mutual match. The daily message
// allowance is consumed before the message is written.
func (s *MessageService) SendMessage(ctx context.Context, matchID, senderID int64, content string) (*Message, error) {
	content = strings.TrimSpace(content)
	if content == "" {
		return nil, ErrEmptyMessage
	}

	match, err := s.matches.GetMatch(ctx, matchID, senderID)
	if err != nil {
		return nil, err
	}
	if match.Status != matches.StatusMatched {
		return nil, ErrNotMatched
	}

	sender, err := s.parties.GetParty(ctx, senderID)
	if err != nil {
		return nil, err
	}

	now := s.now()
	if err := s.gate.RecordMessage(ctx, quota.Party{ID: sender.ID, Premium: sender.Premium}, now); err != nil {
		return nil, err
	}

	message := &Message{
		MatchID:   matchID,
		SenderID:  senderID,
		Content:   content,
		CreatedAt: now,
	}
	if err := s.repo.CreateMessage(ctx, message); err != nil {
		s.log.Error("message write failed after quota was consumed",
			"match_id", matchID,
			"sender_id", senderID,
			"error", err,
		)
		return nil, err
	}

	return message, nil
}

// ListMessages returns a page of the match's messages, newest first
func (s *MessageService) ListMessages(ctx context.Context, matchID, partyID int64, limit, offset int) ([]*Message, error) {
	if _, err := s.matches.GetMatch(ctx, matchID, partyID); err != nil {
		return nil, err
	}

	if limit <= 0 {
		limit = defaultPageSize
	}
	if limit > maxPageSize {
		limit = maxPageSize
	}
	if offset < 0 {
		offset = 0
	}

	return s.repo.ListMessages(ctx, matchID, limit, offset)
}
