// internal/profile/dto.go

package profile

import (
	"time"

	"github.com/imadgeboyega/kiekky-matchmaking/internal/matching"
)

// UpdateProfileRequest replaces the party's profile with a new version
type UpdateProfileRequest struct {
	BirthDate string   `json:"birth_date" validate:"omitempty,datetime=2006-01-02"`
	City      string   `json:"city" validate:"max=100"`
	State     string   `json:"state" validate:"max=50"`
	Country   string   `json:"country" validate:"max=50"`
	Latitude  *float64 `json:"latitude" validate:"omitempty,gte=-90,lte=90"`
	Longitude *float64 `json:"longitude" validate:"omitempty,gte=-180,lte=180"`

	Education string `json:"education" validate:"omitempty,oneof=high_school some_college trade_school bachelors masters doctorate other"`
	Religion  string `json:"religion" validate:"omitempty,oneof=christian catholic jewish muslim buddhist hindu spiritual agnostic atheist other prefer_not_to_say"`

	Smoking  string `json:"smoking" validate:"omitempty,oneof=never occasionally socially regularly trying_to_quit"`
	Drinking string `json:"drinking" validate:"omitempty,oneof=never occasionally socially regularly"`
	Exercise string `json:"exercise" validate:"omitempty,oneof=never occasionally weekly daily regularly"`

	ChildrenTimeline     string `json:"children_timeline" validate:"max=20"`
	DesiredChildren      string `json:"desired_children" validate:"max=20"`
	ParentingPhilosophy  string `json:"parenting_philosophy" validate:"max=30"`
	RelationshipTimeline string `json:"relationship_timeline" validate:"max=30"`
}

func (req *UpdateProfileRequest) toProfile(partyID int64) *matching.Profile {
	p := &matching.Profile{
		PartyID:              partyID,
		City:                 req.City,
		State:                req.State,
		Country:              req.Country,
		Latitude:             req.Latitude,
		Longitude:            req.Longitude,
		Education:            matching.EducationLevel(req.Education),
		Religion:             matching.ReligiousView(req.Religion),
		Smoking:              req.Smoking,
		Drinking:             req.Drinking,
		Exercise:             req.Exercise,
		ChildrenTimeline:     req.ChildrenTimeline,
		DesiredChildren:      req.DesiredChildren,
		ParentingPhilosophy:  req.ParentingPhilosophy,
		RelationshipTimeline: req.RelationshipTimeline,
	}
	if req.BirthDate != "" {
		// Format already checked by the validator
		p.BirthDate, _ = time.Parse("2006-01-02", req.BirthDate)
	}
	return p
}

// UpdatePreferencesRequest replaces the party's preferences
type UpdatePreferencesRequest struct {
	MinAge            int  `json:"min_age" validate:"gte=0,lte=130"`
	MaxAge            int  `json:"max_age" validate:"gte=0,lte=130"`
	MaxDistanceMiles  int  `json:"max_distance_miles" validate:"gte=0"`
	WillingToRelocate bool `json:"willing_to_relocate"`

	AgeImportance                  matching.Importance `json:"age_importance"`
	LocationImportance             matching.Importance `json:"location_importance"`
	ReligionImportance             matching.Importance `json:"religion_importance"`
	EducationImportance            matching.Importance `json:"education_importance"`
	ChildrenTimelineImportance     matching.Importance `json:"children_timeline_importance"`
	ChildrenCountImportance        matching.Importance `json:"children_count_importance"`
	ParentingImportance            matching.Importance `json:"parenting_importance"`
	RelationshipTimelineImportance matching.Importance `json:"relationship_timeline_importance"`
}

func (req *UpdatePreferencesRequest) toPreferences(partyID int64) *matching.Preferences {
	return &matching.Preferences{
		PartyID:                        partyID,
		MinAge:                         req.MinAge,
		MaxAge:                         req.MaxAge,
		MaxDistanceMiles:               req.MaxDistanceMiles,
		WillingToRelocate:              req.WillingToRelocate,
		AgeImportance:                  req.AgeImportance,
		LocationImportance:             req.LocationImportance,
		ReligionImportance:             req.ReligionImportance,
		EducationImportance:            req.EducationImportance,
		ChildrenTimelineImportance:     req.ChildrenTimelineImportance,
		ChildrenCountImportance:        req.ChildrenCountImportance,
		ParentingImportance:            req.ParentingImportance,
		RelationshipTimelineImportance: req.RelationshipTimelineImportance,
	}
}
