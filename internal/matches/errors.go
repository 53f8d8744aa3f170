// internal/matches/errors.go

package matches

import (
	"errors"
	"fmt"
)

var (
	ErrDuplicateActiveMatch = errors.New("an active match already exists between these parties")
	ErrInvalidTransition    = errors.New("invalid match transition")
	ErrMatchNotFound        = errors.New("match not found")
	ErrNotParticipant       = errors.New("party is not part of this match")
	ErrBelowThreshold       = errors.New("compatibility is below the match threshold")
	ErrSelfProposal         = errors.New("cannot propose a match to yourself")
	ErrPairBlocked          = errors.New("one party has blocked the other")

	// ErrStaleMatch means the stored status changed between read and write
	ErrStaleMatch = errors.New("match was modified concurrently")
)

// TransitionError describes a rejected lifecycle move. It matches
// ErrInvalidTransition with errors.Is.
type TransitionError struct {
	MatchID int64
	Op      string
	From    Status
	Reason  string
}

func (e *TransitionError) Error() string {
	return fmt.Sprintf("cannot %s match %d in status %s: %s", e.Op, e.MatchID, e.From, e.Reason)
}

func (e *TransitionError) Is(target error) bool {
	return target == ErrInvalidTransition
}
