// internal/profile/repository.go

package profile

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/imadgeboyega/kiekky-matchmaking/internal/matching"
)

// Repository defines the profile repository interface
type Repository interface {
	GetParty(ctx context.Context, partyID int64) (*Party, error)

	// GetLatestProfile returns the highest profile version with Age derived on now
	GetLatestProfile(ctx context.Context, partyID int64, now time.Time) (*matching.Profile, error)
	// CreateProfileVersion stores p as the next version and sets p.Version
	CreateProfileVersion(ctx context.Context, p *matching.Profile) error

	GetPreferences(ctx context.Context, partyID int64) (*matching.Preferences, error)
	UpsertPreferences(ctx context.Context, p *matching.Preferences) error
}

// postgresRepository implements Repository using PostgreSQL
type postgresRepository struct {
	db *sqlx.DB
}

// NewPostgresRepository creates a new PostgreSQL repository
func NewPostgresRepository(db *sqlx.DB) Repository {
	return &postgresRepository{db: db}
}

func (r *postgresRepository) GetParty(ctx context.Context, partyID int64) (*Party, error) {
	var party Party
	query := `SELECT id, email, phone, display_name, is_premium FROM parties WHERE id = $1`

	err := r.db.GetContext(ctx, &party, query, partyID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrPartyNotFound
		}
		return nil, fmt.Errorf("failed to get party: %w", err)
	}
	return &party, nil
}

func (r *postgresRepository) GetLatestProfile(ctx context.Context, partyID int64, now time.Time) (*matching.Profile, error) {
	var row profileRow
	query := `
		SELECT party_id, version, birth_date, city, state, country, latitude, longitude,
		       education, religion, smoking, drinking, exercise,
		       children_timeline, desired_children, parenting_philosophy, relationship_timeline
		FROM profiles
		WHERE party_id = $1
		ORDER BY version DESC
		LIMIT 1`

	err := r.db.GetContext(ctx, &row, query, partyID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrProfileNotFound
		}
		return nil, fmt.Errorf("failed to get profile: %w", err)
	}
	return row.snapshot(now), nil
}

func (r *postgresRepository) CreateProfileVersion(ctx context.Context, p *matching.Profile) error {
	var birthDate sql.NullTime
	if !p.BirthDate.IsZero() {
		birthDate = sql.NullTime{Time: p.BirthDate, Valid: true}
	}

	// The primary key (party_id, version) rejects a concurrent writer
	// that picked the same version
	query := `
		INSERT INTO profiles (
			party_id, version, birth_date, city, state, country, latitude, longitude,
			education, religion, smoking, drinking, exercise,
			children_timeline, desired_children, parenting_philosophy, relationship_timeline
		)
		SELECT $1::bigint, COALESCE(MAX(version), 0) + 1, $2::date, $3, $4, $5,
		       $6::double precision, $7::double precision,
		       $8, $9, $10, $11, $12, $13, $14, $15, $16
		FROM profiles WHERE party_id = $1
		RETURNING version`

	err := r.db.QueryRowxContext(ctx, query,
		p.PartyID, birthDate, p.City, p.State, p.Country, p.Latitude, p.Longitude,
		string(p.Education), string(p.Religion), p.Smoking, p.Drinking, p.Exercise,
		p.ChildrenTimeline, p.DesiredChildren, p.ParentingPhilosophy, p.RelationshipTimeline,
	).Scan(&p.Version)
	if err != nil {
		return fmt.Errorf("failed to create profile version: %w", err)
	}
	return nil
}

func (r *postgresRepository) GetPreferences(ctx context.Context, partyID int64) (*matching.Preferences, error) {
	var prefs matching.Preferences
	query := `
		SELECT party_id, min_age, max_age, max_distance_miles, willing_to_relocate,
		       age_importance, location_importance, religion_importance, education_importance,
		       children_timeline_importance, children_count_importance,
		       parenting_importance, relationship_timeline_importance
		FROM preferences
		WHERE party_id = $1`

	err := r.db.GetContext(ctx, &prefs, query, partyID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrPreferencesNotFound
		}
		return nil, fmt.Errorf("failed to get preferences: %w", err)
	}
	return &prefs, nil
}

func (r *postgresRepository) UpsertPreferences(ctx context.Context, p *matching.Preferences) error {
	query := `
		INSERT INTO preferences (
			party_id, min_age, max_age, max_distance_miles, willing_to_relocate,
			age_importance, location_importance, religion_importance, education_importance,
			children_timeline_importance, children_count_importance,
			parenting_importance, relationship_timeline_importance
		) VALUES (
			:party_id, :min_age, :max_age, :max_distance_miles, :willing_to_relocate,
			:age_importance, :location_importance, :religion_importance, :education_importance,
			:children_timeline_importance, :children_count_importance,
			:parenting_importance, :relationship_timeline_importance
		)
		ON CONFLICT (party_id) DO UPDATE SET
			min_age = EXCLUDED.min_age,
			max_age = EXCLUDED.max_age,
			max_distance_miles = EXCLUDED.max_distance_miles,
			willing_to_relocate = EXCLUDED.willing_to_relocate,
			age_importance = EXCLUDED.age_importance,
			location_importance = EXCLUDED.location_importance,
			religion_importance = EXCLUDED.religion_importance,
			education_importance = EXCLUDED.education_importance,
			children_timeline_importance = EXCLUDED.children_timeline_importance,
			children_count_importance = EXCLUDED.children_count_importance,
			parenting_importance = EXCLUDED.parenting_importance,
			relationship_timeline_importance = EXCLUDED.relationship_timeline_importance,
			updated_at = NOW()`

	if _, err := r.db.NamedExecContext(ctx, query, p); err != nil {
		return fmt.Errorf("failed to save preferences: %w", err)
	}
	return nil
}

// MemoryRepository keeps everything in process. Used when no database is
// configured and in tests.
type MemoryRepository struct {
	mu       sync.RWMutex
	parties  map[int64]*Party
	profiles map[int64][]matching.Profile
	prefs    map[int64]matching.Preferences
}

func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{
		parties:  make(map[int64]*Party),
		profiles: make(map[int64][]matching.Profile),
		prefs:    make(map[int64]matching.Preferences),
	}
}

// AddParty registers a party
func (m *MemoryRepository) AddParty(p *Party) {
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := *p
	m.parties[p.ID] = &cp
}

func (m *MemoryRepository) GetParty(ctx context.Context, partyID int64) (*Party, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	p, ok := m.parties[partyID]
	if !ok {
		return nil, ErrPartyNotFound
	}
	cp := *p
	return &cp, nil
}

func (m *MemoryRepository) GetLatestProfile(ctx context.Context, partyID int64, now time.Time) (*matching.Profile, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	versions := m.profiles[partyID]
	if len(versions) == 0 {
		return nil, ErrProfileNotFound
	}
	p := versions[len(versions)-1]
	p.Age = matching.AgeOn(p.BirthDate, now)
	return &p, nil
}

func (m *MemoryRepository) CreateProfileVersion(ctx context.Context, p *matching.Profile) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	p.Version = len(m.profiles[p.PartyID]) + 1
	m.profiles[p.PartyID] = append(m.profiles[p.PartyID], *p)
	return nil
}

func (m *MemoryRepository) GetPreferences(ctx context.Context, partyID int64) (*matching.Preferences, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	p, ok := m.prefs[partyID]
	if !ok {
		return nil, ErrPreferencesNotFound
	}
	return &p, nil
}

func (m *MemoryRepository) UpsertPreferences(ctx context.Context, p *matching.Preferences) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.prefs[p.PartyID] = *p
	return nil
}
