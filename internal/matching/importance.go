package matching

import (
	"database/sql/driver"
	"fmt"
	"strings"
)

// Importance is how much a party cares about one dimension of a match.
// The zero value means "not set" and weighs like NotImportant.
type Importance int

const (
	NotImportant Importance = iota + 1
	SomewhatImportant
	Important
	VeryImportant
	DealBreaker
)

type importanceTier struct {
	name        string
	weight      float64
	dealBreaker bool
}

// importanceTable is ordered by rank. Weights must be strictly increasing
// and only the last tier may carry the deal-breaker flag.
var importanceTable = [...]importanceTier{
	NotImportant - 1:      {name: "not_important", weight: 1.0},
	SomewhatImportant - 1: {name: "somewhat_important", weight: 1.75},
	Important - 1:         {name: "important", weight: 2.5},
	VeryImportant - 1:     {name: "very_important", weight: 3.25},
	DealBreaker - 1:       {name: "deal_breaker", weight: 4.0, dealBreaker: true},
}

// ImportanceLevels returns every level in ascending rank.
func ImportanceLevels() []Importance {
	levels := make([]Importance, len(importanceTable))
	for i := range importanceTable {
		levels[i] = Importance(i + 1)
	}
	return levels
}

func (i Importance) valid() bool {
	return i >= NotImportant && i <= DealBreaker
}

func (i Importance) tier() importanceTier {
	if !i.valid() {
		return importanceTable[0]
	}
	return importanceTable[i-1]
}

// Weight is the numeric weight contributed to a factor.
func (i Importance) Weight() float64 {
	return i.tier().weight
}

// IsDealBreaker reports whether a mismatch on this dimension vetoes the score.
func (i Importance) IsDealBreaker() bool {
	return i.valid() && i.tier().dealBreaker
}

func (i Importance) String() string {
	if i == 0 {
		return ""
	}
	if !i.valid() {
		return fmt.Sprintf("importance(%d)", int(i))
	}
	return i.tier().name
}

// ParseImportance accepts the snake_case names used in storage and the API.
// An empty string yields the zero value.
func ParseImportance(s string) (Importance, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "" {
		return 0, nil
	}
	for idx, tier := range importanceTable {
		if tier.name == s {
			return Importance(idx + 1), nil
		}
	}
	return 0, fmt.Errorf("unknown importance level %q", s)
}

func (i Importance) MarshalText() ([]byte, error) {
	return []byte(i.String()), nil
}

func (i *Importance) UnmarshalText(text []byte) error {
	parsed, err := ParseImportance(string(text))
	if err != nil {
		return err
	}
	*i = parsed
	return nil
}

// Value stores the level by name.
func (i Importance) Value() (driver.Value, error) {
	return i.String(), nil
}

// Scan accepts a stored level name or its ordinal rank.
func (i *Importance) Scan(src interface{}) error {
	switch v := src.(type) {
	case nil:
		*i = 0
		return nil
	case string:
		return i.UnmarshalText([]byte(v))
	case []byte:
		return i.UnmarshalText(v)
	case int64:
		*i = Importance(v)
		return nil
	default:
		return fmt.Errorf("cannot scan %T into Importance", src)
	}
}
