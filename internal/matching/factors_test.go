package matching

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestScoreAge(t *testing.T) {
	cases := []struct {
		name     string
		ageA     int
		prefsA   Preferences
		ageB     int
		prefsB   Preferences
		expected float64
	}{
		{"mutual", 30, Preferences{MinAge: 28, MaxAge: 35}, 32, Preferences{MinAge: 25, MaxAge: 35}, 1.0},
		{"one direction", 30, Preferences{MinAge: 28, MaxAge: 35}, 32, Preferences{MinAge: 31, MaxAge: 40}, 0.5},
		{"neither", 45, Preferences{MinAge: 20, MaxAge: 25}, 22, Preferences{MinAge: 30, MaxAge: 40}, 0.0},
		{"open range", 60, Preferences{}, 22, Preferences{}, 1.0},
		{"unknown age", 0, Preferences{MinAge: 28, MaxAge: 35}, 32, Preferences{MinAge: 25, MaxAge: 35}, 0.5},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			score, explanation := scoreAge(&Profile{Age: tc.ageA}, &tc.prefsA, &Profile{Age: tc.ageB}, &tc.prefsB)
			assert.Equal(t, tc.expected, score)
			assert.NotEmpty(t, explanation)
		})
	}
}

func TestScoreLocation(t *testing.T) {
	austin := &Profile{City: "Austin", State: "TX"}
	dallas := &Profile{City: "Dallas", State: "tx"}
	denver := &Profile{City: "Denver", State: "CO"}
	nowhere := &Profile{City: "Somewhere"}

	stay := &Preferences{}
	move := &Preferences{WillingToRelocate: true}

	score, _ := scoreLocation(austin, stay, &Profile{City: " austin ", State: "TX"}, stay)
	assert.Equal(t, 1.0, score)

	score, _ = scoreLocation(austin, stay, dallas, stay)
	assert.Equal(t, 0.7, score)

	score, _ = scoreLocation(austin, stay, denver, move)
	assert.Equal(t, 0.5, score)

	score, _ = scoreLocation(austin, stay, denver, stay)
	assert.Equal(t, 0.2, score)

	score, _ = scoreLocation(austin, stay, nowhere, stay)
	assert.Equal(t, 0.5, score)
}

func TestScoreLocation_ExplainsDistance(t *testing.T) {
	lat1, lon1 := 30.2672, -97.7431
	lat2, lon2 := 32.7767, -96.7970
	a := &Profile{City: "Austin", State: "TX", Latitude: &lat1, Longitude: &lon1}
	b := &Profile{City: "Dallas", State: "TX", Latitude: &lat2, Longitude: &lon2}

	_, explanation := scoreLocation(a, &Preferences{}, b, &Preferences{})
	assert.Contains(t, explanation, "km apart")

	km, ok := distanceKm(a, b)
	assert.True(t, ok)
	assert.InDelta(t, 290, km, 15)
}

func TestScoreFamilyGoals(t *testing.T) {
	a := &Profile{ChildrenTimeline: "within_1_year", DesiredChildren: "2", ParentingPhilosophy: "gentle"}
	b := &Profile{ChildrenTimeline: "within_1_year", DesiredChildren: "3"}

	// timeline match 1.0, count mismatch 0.5; parenting skipped
	score, explanation := scoreFamilyGoals(a, &Preferences{}, b, &Preferences{})
	assert.InDelta(t, 0.75, score, 1e-9)
	assert.Contains(t, explanation, "children timeline aligned")
	assert.Contains(t, explanation, "desired children differs")

	score, _ = scoreFamilyGoals(&Profile{}, &Preferences{}, b, &Preferences{})
	assert.Equal(t, 0.5, score)

	score, _ = scoreFamilyGoals(
		&Profile{RelationshipTimeline: "1_2_years"}, &Preferences{},
		&Profile{RelationshipTimeline: "asap"}, &Preferences{},
	)
	assert.Equal(t, 0.6, score)
}

func TestScoreReligion(t *testing.T) {
	cases := []struct {
		a, b     ReligiousView
		expected float64
	}{
		{ReligionJewish, ReligionJewish, 1.0},
		{ReligionChristian, ReligionCatholic, 0.7},
		{ReligionCatholic, ReligionChristian, 0.7},
		{ReligionBuddhist, ReligionSpiritual, 0.7},
		{ReligionAtheist, ReligionAgnostic, 0.7},
		{ReligionMuslim, ReligionAtheist, 0.3},
		{"", ReligionHindu, 0.5},
	}

	for _, tc := range cases {
		score, _ := scoreReligion(&Profile{Religion: tc.a}, &Preferences{}, &Profile{Religion: tc.b}, &Preferences{})
		assert.Equal(t, tc.expected, score, "%q/%q", tc.a, tc.b)

		reverse, _ := scoreReligion(&Profile{Religion: tc.b}, &Preferences{}, &Profile{Religion: tc.a}, &Preferences{})
		assert.Equal(t, score, reverse, "religion score must not depend on order")
	}
}

func TestScoreEducation(t *testing.T) {
	cases := []struct {
		a, b     EducationLevel
		expected float64
	}{
		{EducationMasters, EducationMasters, 1.0},
		{EducationBachelors, EducationMasters, 0.8},
		{EducationSomeCollege, EducationTradeSchool, 1.0},
		{EducationHighSchool, EducationBachelors, 0.6},
		{EducationHighSchool, EducationDoctorate, 0.3},
		{EducationBachelors, "", 0.5},
	}

	for _, tc := range cases {
		score, _ := scoreEducation(&Profile{Education: tc.a}, &Preferences{}, &Profile{Education: tc.b}, &Preferences{})
		assert.Equal(t, tc.expected, score, "%q/%q", tc.a, tc.b)
	}
}

func TestScoreLifestyle(t *testing.T) {
	score, _ := scoreLifestyle(&Profile{}, &Preferences{}, &Profile{}, &Preferences{})
	assert.Equal(t, 0.5, score)

	score, _ = scoreLifestyle(
		&Profile{Smoking: HabitNever}, &Preferences{},
		&Profile{Smoking: HabitRegularly}, &Preferences{},
	)
	assert.Equal(t, 0.3, score)

	score, _ = scoreLifestyle(
		&Profile{Drinking: HabitRegularly}, &Preferences{},
		&Profile{Drinking: HabitNever}, &Preferences{},
	)
	assert.Equal(t, 0.2, score)

	// smoking equal 1.0, drinking socially/occasionally 0.6, exercise daily/weekly 0.6
	score, explanation := scoreLifestyle(
		&Profile{Smoking: HabitNever, Drinking: HabitSocially, Exercise: HabitDaily}, &Preferences{},
		&Profile{Smoking: HabitNever, Drinking: HabitOccasionally, Exercise: HabitWeekly}, &Preferences{},
	)
	assert.InDelta(t, (1.0+0.6+0.6)/3, score, 1e-9)
	assert.Contains(t, explanation, "smoking")
}
