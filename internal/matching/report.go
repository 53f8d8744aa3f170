package matching

// FactorScore is one entry of the compatibility breakdown.
type FactorScore struct {
	Score       float64 `json:"score"`
	Weight      float64 `json:"weight"`
	Explanation string  `json:"explanation"`
}

// Report is the result of comparing two parties. It is computed on demand
// and never persisted; matches keep a copy as their frozen breakdown.
type Report struct {
	// Overall is the final score after deal-breaker penalties, in [0,1].
	Overall float64 `json:"overall"`
	// BaseScore is the weighted average before penalties.
	BaseScore    float64                `json:"base_score"`
	Penalty      float64                `json:"penalty"`
	TotalWeight  float64                `json:"total_weight"`
	Factors      map[Factor]FactorScore `json:"factors"`
	DealBreakers []string               `json:"deal_breakers,omitempty"`
}

// Factor returns the breakdown for f and whether it was scored.
func (r *Report) Factor(f Factor) (FactorScore, bool) {
	fs, ok := r.Factors[f]
	return fs, ok
}

// Clone returns a deep copy of the report.
func (r *Report) Clone() *Report {
	c := *r
	if r.Factors != nil {
		c.Factors = make(map[Factor]FactorScore, len(r.Factors))
		for f, fs := range r.Factors {
			c.Factors[f] = fs
		}
	}
	if r.DealBreakers != nil {
		c.DealBreakers = append([]string(nil), r.DealBreakers...)
	}
	return &c
}
