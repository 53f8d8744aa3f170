// internal/matches/lifecycle.go
// State machine moves. Each function mutates m in place and reports whether
// anything changed; none of them touch storage.

package matches

import "time"

func invalid(m *Match, op, reason string) error {
	return &TransitionError{MatchID: m.ID, Op: op, From: m.Status, Reason: reason}
}

// respond records the receiver's decision. Repeating the recorded decision
// is a no-op; contradicting it is an invalid transition.
func respond(m *Match, receiverID int64, accept bool, now time.Time) (bool, error) {
	if receiverID != m.ReceiverID {
		return false, invalid(m, "respond to", "only the receiver may respond")
	}

	outcome := StatusDeclined
	if accept {
		outcome = StatusMatched
	}

	if m.Status == outcome && m.ReceiverRespondedAt != nil {
		return false, nil
	}
	if !m.Status.CanTransitionTo(outcome) {
		return false, invalid(m, "respond to", "match is no longer pending")
	}

	m.Status = outcome
	m.ReceiverRespondedAt = &now
	if accept {
		m.MatchedAt = &now
	}
	m.UpdatedAt = now
	return true, nil
}

// block moves a pending or matched match to blocked and records the blocker
func block(m *Match, blockerID int64, now time.Time) (bool, error) {
	if !m.Involves(blockerID) {
		return false, ErrNotParticipant
	}
	if !m.Status.CanTransitionTo(StatusBlocked) {
		return false, invalid(m, "block", "match is closed")
	}

	m.Status = StatusBlocked
	m.BlockedBy = &blockerID
	m.UpdatedAt = now
	return true, nil
}

// unmatch ends a mutual match. Either party may call it.
func unmatch(m *Match, requesterID int64, now time.Time) (bool, error) {
	if !m.Involves(requesterID) {
		return false, ErrNotParticipant
	}
	if !m.Status.CanTransitionTo(StatusUnmatched) {
		return false, invalid(m, "unmatch", "only matched parties can unmatch")
	}

	m.Status = StatusUnmatched
	m.UnmatchedBy = &requesterID
	m.UpdatedAt = now
	return true, nil
}

// expire moves a pending match whose deadline has passed to expired.
// Anything else is left alone.
func expire(m *Match, now time.Time) bool {
	if m.Status != StatusPending || !m.ExpiresAt.Before(now) {
		return false
	}
	m.Status = StatusExpired
	m.UpdatedAt = now
	return true
}
