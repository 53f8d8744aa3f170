// internal/profile/service.go

package profile

import (
	"context"
	"errors"
	"time"

	"github.com/imadgeboyega/kiekky-matchmaking/internal/logger"
	"github.com/imadgeboyega/kiekky-matchmaking/internal/matching"
)

var (
	ErrPartyNotFound       = errors.New("party not found")
	ErrProfileNotFound     = errors.New("profile not found")
	ErrPreferencesNotFound = errors.New("preferences not found")
)

// Service defines the profile service interface
type Service interface {
	GetParty(ctx context.Context, partyID int64) (*Party, error)
	// GetSnapshot loads the party, its latest profile and its preferences
	GetSnapshot(ctx context.Context, partyID int64) (*Snapshot, error)

	UpdateProfile(ctx context.Context, partyID int64, req *UpdateProfileRequest) (*matching.Profile, error)
	UpdatePreferences(ctx context.Context, partyID int64, req *UpdatePreferencesRequest) (*matching.Preferences, error)
}

// service implements the profile service
type service struct {
	repo Repository
	log  *logger.Logger
	now  func() time.Time
}

// NewService creates a new profile service
func NewService(repo Repository, log *logger.Logger) Service {
	return &service{repo: repo, log: log, now: time.Now}
}

func (s *service) GetParty(ctx context.Context, partyID int64) (*Party, error) {
	return s.repo.GetParty(ctx, partyID)
}

func (s *service) GetSnapshot(ctx context.Context, partyID int64) (*Snapshot, error) {
	party, err := s.repo.GetParty(ctx, partyID)
	if err != nil {
		return nil, err
	}

	profile, err := s.repo.GetLatestProfile(ctx, partyID, s.now())
	if err != nil {
		return nil, err
	}

	// Parties that never saved preferences are scored with open defaults
	prefs, err := s.repo.GetPreferences(ctx, partyID)
	if errors.Is(err, ErrPreferencesNotFound) {
		prefs = &matching.Preferences{PartyID: partyID}
	} else if err != nil {
		return nil, err
	}

	return &Snapshot{Party: party, Profile: profile, Preferences: prefs}, nil
}

func (s *service) UpdateProfile(ctx context.Context, partyID int64, req *UpdateProfileRequest) (*matching.Profile, error) {
	if _, err := s.repo.GetParty(ctx, partyID); err != nil {
		return nil, err
	}

	p := req.toProfile(partyID)
	p.Age = matching.AgeOn(p.BirthDate, s.now())
	if err := matching.ValidateProfile(p); err != nil {
		return nil, err
	}

	if err := s.repo.CreateProfileVersion(ctx, p); err != nil {
		return nil, err
	}

	s.log.Info("profile updated", "party_id", partyID, "version", p.Version)
	return p, nil
}

func (s *service) UpdatePreferences(ctx context.Context, partyID int64, req *UpdatePreferencesRequest) (*matching.Preferences, error) {
	if _, err := s.repo.GetParty(ctx, partyID); err != nil {
		return nil, err
	}

	prefs := req.toPreferences(partyID)
	if err := matching.ValidatePreferences(prefs); err != nil {
		return nil, err
	}

	if err := s.repo.UpsertPreferences(ctx, prefs); err != nil {
		return nil, err
	}

	s.log.Info("preferences updated", "party_id", partyID)
	return prefs, nil
}
