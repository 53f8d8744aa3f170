// internal/profile/models.go

package profile

import (
	"database/sql"
	"time"

	"github.com/imadgeboyega/kiekky-matchmaking/internal/matching"
)

// Party is a platform member's account-level record
type Party struct {
	ID          int64          `json:"id" db:"id"`
	Email       sql.NullString `json:"-" db:"email"`
	Phone       sql.NullString `json:"-" db:"phone"`
	DisplayName string         `json:"display_name" db:"display_name"`
	Premium     bool           `json:"is_premium" db:"is_premium"`
}

// profileRow mirrors the profiles table; birth_date is nullable
type profileRow struct {
	PartyID              int64        `db:"party_id"`
	Version              int          `db:"version"`
	BirthDate            sql.NullTime `db:"birth_date"`
	City                 string       `db:"city"`
	State                string       `db:"state"`
	Country              string       `db:"country"`
	Latitude             *float64     `db:"latitude"`
	Longitude            *float64     `db:"longitude"`
	Education            string       `db:"education"`
	Religion             string       `db:"religion"`
	Smoking              string       `db:"smoking"`
	Drinking             string       `db:"drinking"`
	Exercise             string       `db:"exercise"`
	ChildrenTimeline     string       `db:"children_timeline"`
	DesiredChildren      string       `db:"desired_children"`
	ParentingPhilosophy  string       `db:"parenting_philosophy"`
	RelationshipTimeline string       `db:"relationship_timeline"`
}

// snapshot converts the row into a scoring snapshot with Age derived on now
func (r *profileRow) snapshot(now time.Time) *matching.Profile {
	p := &matching.Profile{
		PartyID:              r.PartyID,
		Version:              r.Version,
		City:                 r.City,
		State:                r.State,
		Country:              r.Country,
		Latitude:             r.Latitude,
		Longitude:            r.Longitude,
		Education:            matching.EducationLevel(r.Education),
		Religion:             matching.ReligiousView(r.Religion),
		Smoking:              r.Smoking,
		Drinking:             r.Drinking,
		Exercise:             r.Exercise,
		ChildrenTimeline:     r.ChildrenTimeline,
		DesiredChildren:      r.DesiredChildren,
		ParentingPhilosophy:  r.ParentingPhilosophy,
		RelationshipTimeline: r.RelationshipTimeline,
	}
	if r.BirthDate.Valid {
		p.BirthDate = r.BirthDate.Time
		p.Age = matching.AgeOn(r.BirthDate.Time, now)
	}
	return p
}

// Snapshot is a party's current profile and preferences
type Snapshot struct {
	Party       *Party                `json:"party"`
	Profile     *matching.Profile     `json:"profile"`
	Preferences *matching.Preferences `json:"preferences"`
}
