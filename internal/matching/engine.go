package matching

import (
	"context"
	"fmt"
	"math"

	"github.com/imadgeboyega/kiekky-matchmaking/internal/logger"
)

// Fixed factor weights that do not depend on either party's importance.
const (
	FamilyGoalsWeight = 10.0
	LifestyleWeight   = 3.0
)

// Deal-breaker penalties.
const (
	AgePenalty         = 1.0
	FamilyGoalsPenalty = 0.8
)

// weightedFactor binds a scorer to the importance each party assigned to it.
// A nil importance means the weight is fixed.
type weightedFactor struct {
	factor     Factor
	score      ScoreFunc
	importance func(*Preferences) Importance
	fixed      float64
}

var weightedFactors = []weightedFactor{
	{factor: FactorAge, score: scoreAge, importance: func(p *Preferences) Importance { return p.AgeImportance }},
	{factor: FactorLocation, score: scoreLocation, importance: func(p *Preferences) Importance { return p.LocationImportance }},
	{factor: FactorFamilyGoals, score: scoreFamilyGoals, fixed: FamilyGoalsWeight},
	{factor: FactorReligion, score: scoreReligion, importance: func(p *Preferences) Importance { return p.ReligionImportance }},
	{factor: FactorEducation, score: scoreEducation, importance: func(p *Preferences) Importance { return p.EducationImportance }},
	{factor: FactorLifestyle, score: scoreLifestyle, fixed: LifestyleWeight},
}

func (wf weightedFactor) weight(fa, fb *Preferences) float64 {
	if wf.importance == nil {
		return wf.fixed
	}
	return wf.importance(fa).Weight() + wf.importance(fb).Weight()
}

// Compute scores two (profile, preferences) pairs with the built-in factors.
// It performs no I/O.
func Compute(pa *Profile, fa *Preferences, pb *Profile, fb *Preferences) (*Report, error) {
	if err := validatePair(pa, fa, pb, fb); err != nil {
		return nil, err
	}

	report := &Report{Factors: make(map[Factor]FactorScore, len(weightedFactors)+1)}
	for _, wf := range weightedFactors {
		score, explanation := wf.score(pa, fa, pb, fb)
		report.Factors[wf.factor] = FactorScore{
			Score:       clamp01(score),
			Weight:      wf.weight(fa, fb),
			Explanation: explanation,
		}
	}

	report.DealBreakers, report.Penalty = dealBreakers(pa, fa, pb, fb)
	report.finalize()
	return report, nil
}

// factorOrder fixes the summation order so equal inputs give bit-identical scores.
var factorOrder = func() []Factor {
	order := make([]Factor, 0, len(weightedFactors)+1)
	for _, wf := range weightedFactors {
		order = append(order, wf.factor)
	}
	return append(order, FactorPersonality)
}()

// finalize recomputes the weighted average and applies the penalty.
func (r *Report) finalize() {
	var weighted, total float64
	for _, f := range factorOrder {
		fs, ok := r.Factors[f]
		if !ok {
			continue
		}
		weighted += fs.Score * fs.Weight
		total += fs.Weight
	}

	r.TotalWeight = total
	r.BaseScore = 0
	if total > 0 {
		r.BaseScore = weighted / total
	}
	r.Overall = round3(clamp01(r.BaseScore * (1 - r.Penalty)))
}

// dealBreakers returns a description of every triggered deal-breaker and the
// largest single penalty among them.
func dealBreakers(pa *Profile, fa *Preferences, pb *Profile, fb *Preferences) ([]string, float64) {
	var triggered []string
	var penalty float64

	trigger := func(p float64, format string, args ...interface{}) {
		triggered = append(triggered, fmt.Sprintf(format, args...))
		penalty = math.Max(penalty, p)
	}

	sides := []struct {
		owner, other *Profile
		prefs        *Preferences
	}{
		{pa, pb, fa},
		{pb, pa, fb},
	}

	for _, s := range sides {
		if s.prefs.AgeImportance.IsDealBreaker() && s.other.Age > 0 && !s.prefs.AcceptsAge(s.other.Age) {
			trigger(AgePenalty, "party %d requires age in range, party %d is %d", s.owner.PartyID, s.other.PartyID, s.other.Age)
		}

		for _, dim := range familyDimensions {
			if !dim.importance(s.prefs).IsDealBreaker() {
				continue
			}
			if set, equal := dim.compare(pa, pb); set && !equal {
				trigger(FamilyGoalsPenalty, "party %d requires matching %s", s.owner.PartyID, dim.name)
			}
		}
	}

	return triggered, penalty
}

func validatePair(pa *Profile, fa *Preferences, pb *Profile, fb *Preferences) error {
	for _, p := range []*Profile{pa, pb} {
		if err := ValidateProfile(p); err != nil {
			return err
		}
	}
	for _, f := range []*Preferences{fa, fb} {
		if err := ValidatePreferences(f); err != nil {
			return err
		}
	}
	return nil
}

func clamp01(v float64) float64 {
	if math.IsNaN(v) {
		return 0
	}
	return math.Min(1, math.Max(0, v))
}

func round3(v float64) float64 {
	return math.Round(v*1000) / 1000
}

// AuxScorer is an optional collaborator, such as an external personality
// analysis service, that contributes one extra factor.
type AuxScorer interface {
	Score(ctx context.Context, a, b *Profile) (float64, error)
}

// Engine computes compatibility reports. The zero value is not usable; call
// NewEngine.
type Engine struct {
	aux       AuxScorer
	auxWeight float64
	log       *logger.Logger
}

// EngineOption configures an Engine.
type EngineOption func(*Engine)

// WithAuxScorer adds a personality factor with a fixed weight.
func WithAuxScorer(s AuxScorer, weight float64) EngineOption {
	return func(e *Engine) {
		e.aux = s
		e.auxWeight = weight
	}
}

// WithLogger sets the logger used for auxiliary scorer failures.
func WithLogger(l *logger.Logger) EngineOption {
	return func(e *Engine) {
		e.log = l
	}
}

func NewEngine(opts ...EngineOption) *Engine {
	e := &Engine{log: logger.Nop()}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Score computes the report for two parties. Auxiliary scorer failures are
// logged and the personality factor is omitted.
func (e *Engine) Score(ctx context.Context, pa *Profile, fa *Preferences, pb *Profile, fb *Preferences) (*Report, error) {
	report, err := Compute(pa, fa, pb, fb)
	if err != nil {
		return nil, err
	}
	if e.aux == nil || e.auxWeight <= 0 {
		return report, nil
	}

	score, err := e.aux.Score(ctx, pa, pb)
	if err != nil {
		e.log.Warn("personality scorer unavailable",
			"party_a", pa.PartyID,
			"party_b", pb.PartyID,
			"error", err,
		)
		return report, nil
	}

	report.Factors[FactorPersonality] = FactorScore{
		Score:       clamp01(score),
		Weight:      e.auxWeight,
		Explanation: fmt.Sprintf("personality analysis %.2f", clamp01(score)),
	}
	report.finalize()
	return report, nil
}
