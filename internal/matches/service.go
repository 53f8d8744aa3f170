// internal/matches/service.go

package matches

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/imadgeboyega/kiekky-matchmaking/internal/logger"
	"github.com/imadgeboyega/kiekky-matchmaking/internal/matching"
	"github.com/imadgeboyega/kiekky-matchmaking/internal/notification"
	"github.com/imadgeboyega/kiekky-matchmaking/internal/profile"
	"github.com/imadgeboyega/kiekky-matchmaking/internal/quota"
)

// Profiles loads the snapshots the engine scores
type Profiles interface {
	GetParty(ctx context.Context, partyID int64) (*profile.Party, error)
	GetSnapshot(ctx context.Context, partyID int64) (*profile.Snapshot, error)
}

// Config holds the lifecycle settings
type Config struct {
	ExpiryWindow   time.Duration
	ScoreThreshold float64
	// TransitionAttempts bounds the reload-and-retry loop when a status
	// write loses a race
	TransitionAttempts int
}

// Service is the match lifecycle API
type Service interface {
	// Score compares two already loaded (profile, preferences) pairs
	Score(ctx context.Context, pa *matching.Profile, fa *matching.Preferences, pb *matching.Profile, fb *matching.Preferences) (*matching.Report, error)
	// Compatibility loads both parties and scores them
	Compatibility(ctx context.Context, partyA, partyB int64) (*matching.Report, error)

	Propose(ctx context.Context, senderID, receiverID int64, report *matching.Report) (*Match, error)
	// Like scores the pair, applies the threshold and proposes
	Like(ctx context.Context, senderID, receiverID int64) (*Match, error)
	Respond(ctx context.Context, matchID, receiverID int64, accept bool) (*Match, error)
	Block(ctx context.Context, matchID, partyID int64) (*Match, error)
	Unmatch(ctx context.Context, matchID, partyID int64) (*Match, error)
	ExpireSweep(ctx context.Context, now time.Time) (int64, error)

	CanPropose(ctx context.Context, partyID int64, now time.Time) (bool, error)
	QuotaStatus(ctx context.Context, partyID int64) (*quota.Status, error)

	GetMatch(ctx context.Context, matchID, partyID int64) (*Match, error)
	ListMatches(ctx context.Context, partyID int64, activeOnly bool) ([]*Match, error)
}

type service struct {
	repo     Repository
	tx       Transactor
	profiles Profiles
	engine   *matching.Engine
	gate     *quota.Gate
	notifier notification.Notifier
	cfg      Config
	log      *logger.Logger
	now      func() time.Time
}

// NewService wires the lifecycle. repo is used for single-record reads and
// status writes; tx scopes propose and the quota increment together.
func NewService(
	repo Repository,
	tx Transactor,
	profiles Profiles,
	engine *matching.Engine,
	gate *quota.Gate,
	notifier notification.Notifier,
	cfg Config,
	log *logger.Logger,
) Service {
	if cfg.ExpiryWindow <= 0 {
		cfg.ExpiryWindow = 30 * 24 * time.Hour
	}
	if cfg.TransitionAttempts <= 0 {
		cfg.TransitionAttempts = 3
	}
	if notifier == nil {
		notifier = notification.NewLogNotifier(log)
	}
	return &service{
		repo:     repo,
		tx:       tx,
		profiles: profiles,
		engine:   engine,
		gate:     gate,
		notifier: notifier,
		cfg:      cfg,
		log:      log,
		now:      time.Now,
	}
}

func (s *service) Score(ctx context.Context, pa *matching.Profile, fa *matching.Preferences, pb *matching.Profile, fb *matching.Preferences) (*matching.Report, error) {
	return s.engine.Score(ctx, pa, fa, pb, fb)
}

func (s *service) Compatibility(ctx context.Context, partyA, partyB int64) (*matching.Report, error) {
	a, err := s.profiles.GetSnapshot(ctx, partyA)
	if err != nil {
		return nil, err
	}
	b, err := s.profiles.GetSnapshot(ctx, partyB)
	if err != nil {
		return nil, err
	}
	return s.engine.Score(ctx, a.Profile, a.Preferences, b.Profile, b.Preferences)
}

func (s *service) Like(ctx context.Context, senderID, receiverID int64) (*Match, error) {
	if senderID == receiverID {
		return nil, ErrSelfProposal
	}

	report, err := s.Compatibility(ctx, senderID, receiverID)
	if err != nil {
		return nil, err
	}
	RecordCompatibilityScore(report.Overall)

	if report.Overall < s.cfg.ScoreThreshold {
		RecordRejection("threshold")
		return nil, fmt.Errorf("%w: %.3f < %.3f", ErrBelowThreshold, report.Overall, s.cfg.ScoreThreshold)
	}
	return s.Propose(ctx, senderID, receiverID, report)
}

func (s *service) Propose(ctx context.Context, senderID, receiverID int64, report *matching.Report) (*Match, error) {
	if senderID == receiverID {
		return nil, ErrSelfProposal
	}
	if report == nil {
		return nil, &matching.ValidationError{Subject: "report", PartyID: senderID, Err: errors.New("compatibility report is required")}
	}

	sender, err := s.profiles.GetParty(ctx, senderID)
	if err != nil {
		return nil, err
	}
	if _, err := s.profiles.GetParty(ctx, receiverID); err != nil {
		return nil, err
	}
	party := quota.Party{ID: sender.ID, Premium: sender.Premium}

	now := s.now()
	var created *Match
	err = s.tx.Do(ctx, func(ctx context.Context, r Repos) error {
		if blocked, err := r.Matches.IsBlockedBetween(ctx, senderID, receiverID); err != nil {
			return err
		} else if blocked {
			return ErrPairBlocked
		}

		if _, err := r.Matches.FindActiveBetween(ctx, senderID, receiverID); err == nil {
			return ErrDuplicateActiveMatch
		} else if !errors.Is(err, ErrMatchNotFound) {
			return err
		}

		gate := s.gate.WithStore(r.Quotas)
		allowed, err := gate.CanPropose(ctx, party, now)
		if err != nil {
			return err
		}
		if !allowed {
			return quota.ErrQuotaExceeded
		}

		m := newMatch(senderID, receiverID, report, now, s.cfg.ExpiryWindow)
		if err := r.Matches.CreateMatch(ctx, m); err != nil {
			return err
		}

		// Last, so a redis-backed counter is only bumped once the insert succeeded
		if err := gate.RecordProposal(ctx, party, now); err != nil {
			return err
		}

		created = m
		return nil
	})
	if err != nil {
		switch {
		case errors.Is(err, ErrDuplicateActiveMatch):
			RecordRejection("duplicate")
		case errors.Is(err, quota.ErrQuotaExceeded):
			RecordRejection("quota")
		case errors.Is(err, ErrPairBlocked):
			RecordRejection("blocked")
		}
		return nil, err
	}

	RecordProposal()
	s.log.Info("match proposed",
		"match_id", created.ID,
		"sender_id", senderID,
		"receiver_id", receiverID,
		"score", created.Score,
	)
	s.publish(ctx, notification.EventMatchProposed, created)
	return created, nil
}

func (s *service) Respond(ctx context.Context, matchID, receiverID int64, accept bool) (*Match, error) {
	m, changed, err := s.transition(ctx, matchID, func(m *Match, now time.Time) (bool, error) {
		return respond(m, receiverID, accept, now)
	})
	if err != nil || !changed {
		return m, err
	}

	RecordTransition(m.Status)
	if m.Status == StatusMatched {
		RecordMatch()
		s.publish(ctx, notification.EventMatchAccepted, m)
	}
	s.log.Info("match response recorded", "match_id", m.ID, "status", string(m.Status))
	return m, nil
}

func (s *service) Block(ctx context.Context, matchID, partyID int64) (*Match, error) {
	m, changed, err := s.transition(ctx, matchID, func(m *Match, now time.Time) (bool, error) {
		return block(m, partyID, now)
	})
	if err != nil || !changed {
		return m, err
	}

	RecordTransition(m.Status)
	s.log.Info("match blocked", "match_id", m.ID, "blocked_by", partyID)
	return m, nil
}

func (s *service) Unmatch(ctx context.Context, matchID, partyID int64) (*Match, error) {
	m, changed, err := s.transition(ctx, matchID, func(m *Match, now time.Time) (bool, error) {
		return unmatch(m, partyID, now)
	})
	if err != nil || !changed {
		return m, err
	}

	RecordTransition(m.Status)
	s.log.Info("match unmatched", "match_id", m.ID, "unmatched_by", partyID)
	return m, nil
}

// transition reads the match, applies move and writes it back only if the
// stored status is unchanged. A lost race reloads and re-evaluates.
func (s *service) transition(ctx context.Context, matchID int64, move func(*Match, time.Time) (bool, error)) (*Match, bool, error) {
	for attempt := 1; ; attempt++ {
		m, err := s.repo.GetMatch(ctx, matchID)
		if err != nil {
			return nil, false, err
		}

		from := m.Status
		changed, err := move(m, s.now())
		if err != nil {
			return nil, false, err
		}
		if !changed {
			return m, false, nil
		}

		err = s.repo.UpdateStatus(ctx, m, from)
		if err == nil {
			return m, true, nil
		}
		if !errors.Is(err, ErrStaleMatch) || attempt >= s.cfg.TransitionAttempts {
			return nil, false, err
		}

		s.log.Debug("match changed concurrently, retrying", "match_id", matchID, "attempt", attempt)
	}
}

func (s *service) ExpireSweep(ctx context.Context, now time.Time) (int64, error) {
	start := time.Now()
	expired, err := s.repo.ExpirePending(ctx, now)
	RecordSweepDuration(time.Since(start))
	if err != nil {
		return 0, err
	}

	if expired > 0 {
		RecordExpired(expired)
		s.log.Info("expired pending matches", "count", expired)
	}
	return expired, nil
}

func (s *service) CanPropose(ctx context.Context, partyID int64, now time.Time) (bool, error) {
	party, err := s.profiles.GetParty(ctx, partyID)
	if err != nil {
		return false, err
	}
	return s.gate.CanPropose(ctx, quota.Party{ID: party.ID, Premium: party.Premium}, now)
}

func (s *service) QuotaStatus(ctx context.Context, partyID int64) (*quota.Status, error) {
	party, err := s.profiles.GetParty(ctx, partyID)
	if err != nil {
		return nil, err
	}
	return s.gate.Status(ctx, quota.Party{ID: party.ID, Premium: party.Premium}, s.now())
}

// GetMatch returns a match only to one of its parties
func (s *service) GetMatch(ctx context.Context, matchID, partyID int64) (*Match, error) {
	m, err := s.repo.GetMatch(ctx, matchID)
	if err != nil {
		return nil, err
	}
	if !m.Involves(partyID) {
		return nil, ErrMatchNotFound
	}
	return m, nil
}

func (s *service) ListMatches(ctx context.Context, partyID int64, activeOnly bool) ([]*Match, error) {
	return s.repo.ListForParty(ctx, partyID, activeOnly)
}

// publish hands the event to the notifier. Delivery problems are logged only.
func (s *service) publish(ctx context.Context, eventType notification.EventType, m *Match) {
	event := notification.Event{
		Type:       eventType,
		MatchID:    m.ID,
		SenderID:   m.SenderID,
		ReceiverID: m.ReceiverID,
		Score:      m.Score,
		OccurredAt: m.UpdatedAt,
	}
	if err := s.notifier.Notify(ctx, event); err != nil {
		s.log.Warn("match notification failed",
			"type", string(eventType),
			"match_id", m.ID,
			"error", err,
		)
	}
}
