package matching

import (
	"fmt"
	"math"
	"strings"
)

// Factor names one dimension of the compatibility breakdown.
type Factor string

const (
	FactorAge         Factor = "age"
	FactorLocation    Factor = "location"
	FactorFamilyGoals Factor = "family_goals"
	FactorReligion    Factor = "religion"
	FactorEducation   Factor = "education"
	FactorLifestyle   Factor = "lifestyle"
	FactorPersonality Factor = "personality"
)

// neutralScore is used whenever a dimension cannot be compared.
const neutralScore = 0.5

// ScoreFunc scores one dimension for two parties. It must be pure and
// return a score in [0,1] with a short explanation.
type ScoreFunc func(pa *Profile, fa *Preferences, pb *Profile, fb *Preferences) (float64, string)

func scoreAge(pa *Profile, fa *Preferences, pb *Profile, fb *Preferences) (float64, string) {
	if pa.Age <= 0 || pb.Age <= 0 {
		return neutralScore, "age unknown for at least one party"
	}

	aWantsB := fa.AcceptsAge(pb.Age)
	bWantsA := fb.AcceptsAge(pa.Age)
	details := fmt.Sprintf("ages %d and %d", pa.Age, pb.Age)

	switch {
	case aWantsB && bWantsA:
		return 1.0, details + ", each within the other's range"
	case aWantsB || bWantsA:
		return 0.5, details + ", only one within the other's range"
	default:
		return 0.0, details + ", neither within the other's range"
	}
}

func scoreLocation(pa *Profile, fa *Preferences, pb *Profile, fb *Preferences) (float64, string) {
	stateA, stateB := normalize(pa.State), normalize(pb.State)
	if stateA == "" || stateB == "" {
		return neutralScore, "location unknown for at least one party"
	}

	details := fmt.Sprintf("%s, %s and %s, %s", pa.City, pa.State, pb.City, pb.State)
	if km, ok := distanceKm(pa, pb); ok {
		details += fmt.Sprintf(" (about %.0f km apart)", km)
	}

	switch {
	case stateA == stateB && normalize(pa.City) == normalize(pb.City):
		return 1.0, "same city: " + details
	case stateA == stateB:
		return 0.7, "same state: " + details
	case fa.WillingToRelocate || fb.WillingToRelocate:
		return 0.5, "different states, relocation possible: " + details
	default:
		return 0.2, "different states: " + details
	}
}

// distanceKm is the great-circle distance when both profiles carry coordinates.
func distanceKm(pa, pb *Profile) (float64, bool) {
	if pa.Latitude == nil || pa.Longitude == nil || pb.Latitude == nil || pb.Longitude == nil {
		return 0, false
	}
	return haversineDistance(*pa.Latitude, *pa.Longitude, *pb.Latitude, *pb.Longitude), true
}

func haversineDistance(lat1, lon1, lat2, lon2 float64) float64 {
	const earthRadius = 6371 // km

	dLat := (lat2 - lat1) * math.Pi / 180
	dLon := (lon2 - lon1) * math.Pi / 180

	a := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(lat1*math.Pi/180)*math.Cos(lat2*math.Pi/180)*
			math.Sin(dLon/2)*math.Sin(dLon/2)

	c := 2 * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))
	return earthRadius * c
}

// familyDimension is one sub-comparison of family goals.
type familyDimension struct {
	name       string
	value      func(*Profile) string
	importance func(*Preferences) Importance
	match      float64
	mismatch   float64
}

var familyDimensions = []familyDimension{
	{
		name:       "children timeline",
		value:      func(p *Profile) string { return p.ChildrenTimeline },
		importance: func(p *Preferences) Importance { return p.ChildrenTimelineImportance },
		match:      1.0, mismatch: 0.3,
	},
	{
		name:       "desired children",
		value:      func(p *Profile) string { return p.DesiredChildren },
		importance: func(p *Preferences) Importance { return p.ChildrenCountImportance },
		match:      1.0, mismatch: 0.5,
	},
	{
		name:       "parenting philosophy",
		value:      func(p *Profile) string { return p.ParentingPhilosophy },
		importance: func(p *Preferences) Importance { return p.ParentingImportance },
		match:      1.0, mismatch: 0.4,
	},
	{
		name:       "relationship timeline",
		value:      func(p *Profile) string { return p.RelationshipTimeline },
		importance: func(p *Preferences) Importance { return p.RelationshipTimelineImportance },
		match:      1.0, mismatch: 0.6,
	},
}

// compareFamily returns (both set, equal) for one sub-dimension.
func (d familyDimension) compare(pa, pb *Profile) (bool, bool) {
	a, b := normalize(d.value(pa)), normalize(d.value(pb))
	if a == "" || b == "" {
		return false, false
	}
	return true, a == b
}

func scoreFamilyGoals(pa *Profile, fa *Preferences, pb *Profile, fb *Preferences) (float64, string) {
	var total float64
	var compared []string

	for _, dim := range familyDimensions {
		set, equal := dim.compare(pa, pb)
		if !set {
			continue
		}
		if equal {
			total += dim.match
			compared = append(compared, dim.name+" aligned")
		} else {
			total += dim.mismatch
			compared = append(compared, dim.name+" differs")
		}
	}

	if len(compared) == 0 {
		return neutralScore, "no family goals to compare"
	}
	return total / float64(len(compared)), strings.Join(compared, "; ")
}

// compatibleReligions are unordered pairs that score partial credit.
var compatibleReligions = map[[2]ReligiousView]bool{
	religionPair(ReligionChristian, ReligionCatholic): true,
	religionPair(ReligionSpiritual, ReligionBuddhist): true,
	religionPair(ReligionAgnostic, ReligionAtheist):   true,
}

func religionPair(a, b ReligiousView) [2]ReligiousView {
	if a > b {
		a, b = b, a
	}
	return [2]ReligiousView{a, b}
}

func scoreReligion(pa *Profile, fa *Preferences, pb *Profile, fb *Preferences) (float64, string) {
	a := ReligiousView(normalize(string(pa.Religion)))
	b := ReligiousView(normalize(string(pb.Religion)))
	if a == "" || b == "" {
		return neutralScore, "religious views unknown for at least one party"
	}

	details := fmt.Sprintf("%s and %s", a, b)
	switch {
	case a == b:
		return 1.0, "same religious views: " + details
	case compatibleReligions[religionPair(a, b)]:
		return 0.7, "compatible religious views: " + details
	default:
		return 0.3, "different religious views: " + details
	}
}

var educationRank = map[EducationLevel]int{
	EducationHighSchool:  1,
	EducationSomeCollege: 2,
	EducationTradeSchool: 2,
	EducationBachelors:   3,
	EducationMasters:     4,
	EducationDoctorate:   5,
	EducationOther:       2,
}

func rankEducation(level EducationLevel) int {
	if rank, ok := educationRank[EducationLevel(normalize(string(level)))]; ok {
		return rank
	}
	return educationRank[EducationOther]
}

func scoreEducation(pa *Profile, fa *Preferences, pb *Profile, fb *Preferences) (float64, string) {
	if normalize(string(pa.Education)) == "" || normalize(string(pb.Education)) == "" {
		return neutralScore, "education unknown for at least one party"
	}

	diff := rankEducation(pa.Education) - rankEducation(pb.Education)
	if diff < 0 {
		diff = -diff
	}
	details := fmt.Sprintf("%s and %s", pa.Education, pb.Education)

	switch diff {
	case 0:
		return 1.0, "same education level: " + details
	case 1:
		return 0.8, "adjacent education levels: " + details
	case 2:
		return 0.6, "education levels two apart: " + details
	default:
		return 0.3, "distant education levels: " + details
	}
}

// habitScore compares one lifestyle habit. ok is false when either side is unset.
func habitScore(a, b string, extremeMismatch, mismatch float64) (score float64, ok bool) {
	a, b = normalize(a), normalize(b)
	if a == "" || b == "" {
		return 0, false
	}
	if a == b {
		return 1.0, true
	}
	if (a == HabitNever && b == HabitRegularly) || (a == HabitRegularly && b == HabitNever) {
		return extremeMismatch, true
	}
	return mismatch, true
}

func scoreLifestyle(pa *Profile, fa *Preferences, pb *Profile, fb *Preferences) (float64, string) {
	habits := []struct {
		name            string
		a, b            string
		extreme, differ float64
	}{
		{"smoking", pa.Smoking, pb.Smoking, 0.3, 0.7},
		{"drinking", pa.Drinking, pb.Drinking, 0.2, 0.6},
		{"exercise", pa.Exercise, pb.Exercise, 0.6, 0.6},
	}

	var total float64
	var compared []string
	for _, h := range habits {
		score, ok := habitScore(h.a, h.b, h.extreme, h.differ)
		if !ok {
			continue
		}
		total += score
		compared = append(compared, fmt.Sprintf("%s %.1f", h.name, score))
	}

	if len(compared) == 0 {
		return neutralScore, "no lifestyle habits to compare"
	}
	return total / float64(len(compared)), strings.Join(compared, "; ")
}
