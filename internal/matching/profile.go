package matching

import (
	"strings"
	"time"
)

// EducationLevel is the highest completed education tier.
type EducationLevel string

const (
	EducationHighSchool  EducationLevel = "high_school"
	EducationSomeCollege EducationLevel = "some_college"
	EducationTradeSchool EducationLevel = "trade_school"
	EducationBachelors   EducationLevel = "bachelors"
	EducationMasters     EducationLevel = "masters"
	EducationDoctorate   EducationLevel = "doctorate"
	EducationOther       EducationLevel = "other"
)

// ReligiousView is a party's religious or spiritual self-description.
type ReligiousView string

const (
	ReligionChristian      ReligiousView = "christian"
	ReligionCatholic       ReligiousView = "catholic"
	ReligionJewish         ReligiousView = "jewish"
	ReligionMuslim         ReligiousView = "muslim"
	ReligionBuddhist       ReligiousView = "buddhist"
	ReligionHindu          ReligiousView = "hindu"
	ReligionSpiritual      ReligiousView = "spiritual"
	ReligionAgnostic       ReligiousView = "agnostic"
	ReligionAtheist        ReligiousView = "atheist"
	ReligionOther          ReligiousView = "other"
	ReligionPreferNotToSay ReligiousView = "prefer_not_to_say"
)

// Habit values shared by smoking, drinking and exercise.
const (
	HabitNever        = "never"
	HabitOccasionally = "occasionally"
	HabitSocially     = "socially"
	HabitRegularly    = "regularly"
	HabitTryingToQuit = "trying_to_quit"
	HabitDaily        = "daily"
	HabitWeekly       = "weekly"
)

// Profile is an immutable snapshot of one version of a party's profile.
// Empty strings mean the attribute is not set.
type Profile struct {
	PartyID   int64     `json:"party_id" db:"party_id"`
	Version   int       `json:"version" db:"version"`
	BirthDate time.Time `json:"birth_date" db:"birth_date"`
	// Age is derived from BirthDate when the snapshot is taken; 0 means unknown.
	Age int `json:"age" db:"-" validate:"gte=0,lte=130"`

	City      string   `json:"city" db:"city"`
	State     string   `json:"state" db:"state"`
	Country   string   `json:"country" db:"country"`
	Latitude  *float64 `json:"latitude,omitempty" db:"latitude" validate:"omitempty,gte=-90,lte=90"`
	Longitude *float64 `json:"longitude,omitempty" db:"longitude" validate:"omitempty,gte=-180,lte=180"`

	Education EducationLevel `json:"education" db:"education"`
	Religion  ReligiousView  `json:"religion" db:"religion"`

	Smoking  string `json:"smoking" db:"smoking"`
	Drinking string `json:"drinking" db:"drinking"`
	Exercise string `json:"exercise" db:"exercise"`

	ChildrenTimeline     string `json:"children_timeline" db:"children_timeline"`
	DesiredChildren      string `json:"desired_children" db:"desired_children"`
	ParentingPhilosophy  string `json:"parenting_philosophy" db:"parenting_philosophy"`
	RelationshipTimeline string `json:"relationship_timeline" db:"relationship_timeline"`
}

// Preferences are a party's filter criteria and per-dimension importance.
type Preferences struct {
	PartyID int64 `json:"party_id" db:"party_id"`

	// MinAge and MaxAge of 0 leave that bound open.
	MinAge            int  `json:"min_age" db:"min_age" validate:"gte=0,lte=130"`
	MaxAge            int  `json:"max_age" db:"max_age" validate:"gte=0,lte=130"`
	MaxDistanceMiles  int  `json:"max_distance_miles" db:"max_distance_miles" validate:"gte=0"`
	WillingToRelocate bool `json:"willing_to_relocate" db:"willing_to_relocate"`

	AgeImportance                  Importance `json:"age_importance" db:"age_importance" validate:"gte=0,lte=5"`
	LocationImportance             Importance `json:"location_importance" db:"location_importance" validate:"gte=0,lte=5"`
	ReligionImportance             Importance `json:"religion_importance" db:"religion_importance" validate:"gte=0,lte=5"`
	EducationImportance            Importance `json:"education_importance" db:"education_importance" validate:"gte=0,lte=5"`
	ChildrenTimelineImportance     Importance `json:"children_timeline_importance" db:"children_timeline_importance" validate:"gte=0,lte=5"`
	ChildrenCountImportance        Importance `json:"children_count_importance" db:"children_count_importance" validate:"gte=0,lte=5"`
	ParentingImportance            Importance `json:"parenting_importance" db:"parenting_importance" validate:"gte=0,lte=5"`
	RelationshipTimelineImportance Importance `json:"relationship_timeline_importance" db:"relationship_timeline_importance" validate:"gte=0,lte=5"`
}

// AgeOn returns the age in whole years on the given day. A zero birth date
// yields 0.
func AgeOn(birthDate, now time.Time) int {
	if birthDate.IsZero() {
		return 0
	}
	age := now.Year() - birthDate.Year()
	if now.Month() < birthDate.Month() || (now.Month() == birthDate.Month() && now.Day() < birthDate.Day()) {
		age--
	}
	return age
}

// AcceptsAge reports whether age falls inside the declared range.
func (p *Preferences) AcceptsAge(age int) bool {
	if p.MinAge > 0 && age < p.MinAge {
		return false
	}
	if p.MaxAge > 0 && age > p.MaxAge {
		return false
	}
	return true
}

func normalize(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}
