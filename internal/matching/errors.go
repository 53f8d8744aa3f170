package matching

import (
	"errors"
	"fmt"
)

// ErrInvalidInput is matched by every ValidationError.
var ErrInvalidInput = errors.New("invalid matching input")

// ValidationError reports a structurally invalid profile or preferences
// snapshot. Missing attributes are not validation errors; scorers treat them
// as neutral.
type ValidationError struct {
	Subject string // "profile" or "preferences"
	PartyID int64
	Err     error
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s for party %d: %v", e.Subject, e.PartyID, e.Err)
}

func (e *ValidationError) Unwrap() error { return e.Err }

func (e *ValidationError) Is(target error) bool { return target == ErrInvalidInput }
