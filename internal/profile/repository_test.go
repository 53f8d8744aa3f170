package profile

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/imadgeboyega/kiekky-matchmaking/internal/matching"
)

func newMockRepo(t *testing.T) (Repository, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return NewPostgresRepository(sqlx.NewDb(db, "postgres")), mock
}

var profileColumns = []string{
	"party_id", "version", "birth_date", "city", "state", "country", "latitude", "longitude",
	"education", "religion", "smoking", "drinking", "exercise",
	"children_timeline", "desired_children", "parenting_philosophy", "relationship_timeline",
}

func TestPostgresRepository_GetLatestProfile(t *testing.T) {
	repo, mock := newMockRepo(t)
	birth := time.Date(1990, 1, 15, 0, 0, 0, 0, time.UTC)

	mock.ExpectQuery(`FROM profiles\s+WHERE party_id = \$1\s+ORDER BY version DESC`).
		WithArgs(int64(3)).
		WillReturnRows(sqlmock.NewRows(profileColumns).AddRow(
			int64(3), 4, birth, "Austin", "TX", "US", nil, nil,
			"masters", "catholic", "never", "socially", "weekly",
			"within_1_year", "2", "", "",
		))

	p, err := repo.GetLatestProfile(context.Background(), 3, time.Date(2024, 1, 14, 0, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	assert.Equal(t, 4, p.Version)
	assert.Equal(t, 33, p.Age)
	assert.Equal(t, matching.EducationMasters, p.Education)
	assert.Nil(t, p.Latitude)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresRepository_GetLatestProfileNullBirthDate(t *testing.T) {
	repo, mock := newMockRepo(t)

	mock.ExpectQuery(`FROM profiles`).
		WithArgs(int64(3)).
		WillReturnRows(sqlmock.NewRows(profileColumns).AddRow(
			int64(3), 1, nil, "", "", "", nil, nil, "", "", "", "", "", "", "", "", "",
		))

	p, err := repo.GetLatestProfile(context.Background(), 3, time.Now())
	require.NoError(t, err)
	assert.Zero(t, p.Age)
	assert.True(t, p.BirthDate.IsZero())
}

func TestPostgresRepository_GetLatestProfileMissing(t *testing.T) {
	repo, mock := newMockRepo(t)

	mock.ExpectQuery(`FROM profiles`).
		WithArgs(int64(3)).
		WillReturnRows(sqlmock.NewRows(profileColumns))

	_, err := repo.GetLatestProfile(context.Background(), 3, time.Now())
	assert.ErrorIs(t, err, ErrProfileNotFound)
}

func TestPostgresRepository_CreateProfileVersion(t *testing.T) {
	repo, mock := newMockRepo(t)

	mock.ExpectQuery(`INSERT INTO profiles .* RETURNING version`).
		WillReturnRows(sqlmock.NewRows([]string{"version"}).AddRow(5))

	p := &matching.Profile{PartyID: 3, City: "Austin"}
	require.NoError(t, repo.CreateProfileVersion(context.Background(), p))
	assert.Equal(t, 5, p.Version)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresRepository_GetPreferencesScansImportanceNames(t *testing.T) {
	repo, mock := newMockRepo(t)

	mock.ExpectQuery(`FROM preferences`).
		WithArgs(int64(3)).
		WillReturnRows(sqlmock.NewRows([]string{
			"party_id", "min_age", "max_age", "max_distance_miles", "willing_to_relocate",
			"age_importance", "location_importance", "religion_importance", "education_importance",
			"children_timeline_importance", "children_count_importance",
			"parenting_importance", "relationship_timeline_importance",
		}).AddRow(
			int64(3), 25, 35, 50, true,
			"deal_breaker", "important", "not_important", "somewhat_important",
			"very_important", "important", "important", "very_important",
		))

	prefs, err := repo.GetPreferences(context.Background(), 3)
	require.NoError(t, err)
	assert.Equal(t, matching.DealBreaker, prefs.AgeImportance)
	assert.Equal(t, matching.SomewhatImportant, prefs.EducationImportance)
	assert.True(t, prefs.WillingToRelocate)
}

func TestPostgresRepository_UpsertPreferences(t *testing.T) {
	repo, mock := newMockRepo(t)

	mock.ExpectExec(`INSERT INTO preferences .* ON CONFLICT \(party_id\) DO UPDATE`).
		WillReturnResult(sqlmock.NewResult(0, 1))

	err := repo.UpsertPreferences(context.Background(), &matching.Preferences{PartyID: 3, AgeImportance: matching.Important})
	require.NoError(t, err)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresRepository_GetPartyMissing(t *testing.T) {
	repo, mock := newMockRepo(t)

	mock.ExpectQuery(`FROM parties WHERE id = \$1`).
		WithArgs(int64(8)).
		WillReturnRows(sqlmock.NewRows([]string{"id", "email", "phone", "display_name", "is_premium"}))

	_, err := repo.GetParty(context.Background(), 8)
	assert.ErrorIs(t, err, ErrPartyNotFound)
}
