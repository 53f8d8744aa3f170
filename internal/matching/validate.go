package matching

import (
	"errors"

	"github.com/imadgeboyega/kiekky-matchmaking/internal/common/utils"
)

// ValidateProfile rejects snapshots no scorer can interpret, such as a
// negative age.
func ValidateProfile(p *Profile) error {
	if p == nil {
		return &ValidationError{Subject: "profile", Err: errors.New("profile is required")}
	}
	if err := utils.ValidateStruct(p); err != nil {
		return &ValidationError{Subject: "profile", PartyID: p.PartyID, Err: err}
	}
	return nil
}

// ValidatePreferences rejects inverted age ranges and unknown importance levels.
func ValidatePreferences(p *Preferences) error {
	if p == nil {
		return &ValidationError{Subject: "preferences", Err: errors.New("preferences are required")}
	}
	if err := utils.ValidateStruct(p); err != nil {
		return &ValidationError{Subject: "preferences", PartyID: p.PartyID, Err: err}
	}
	if p.MaxAge > 0 && p.MaxAge < p.MinAge {
		return &ValidationError{Subject: "preferences", PartyID: p.PartyID, Err: errors.New("MaxAge must not be less than MinAge")}
	}
	return nil
}
