package matching

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestImportance_WeightsStrictlyIncrease(t *testing.T) {
	levels := ImportanceLevels()
	require.Len(t, levels, 5)

	dealBreakers := 0
	for i, level := range levels {
		if level.IsDealBreaker() {
			dealBreakers++
		}
		assert.GreaterOrEqual(t, level.Weight(), 1.0)
		assert.LessOrEqual(t, level.Weight(), 4.0)
		if i > 0 {
			assert.Less(t, levels[i-1].Weight(), level.Weight(), "%s vs %s", levels[i-1], level)
		}
	}
	assert.Equal(t, 1, dealBreakers)
	assert.True(t, DealBreaker.IsDealBreaker())
}

func TestImportance_ZeroValueWeighsAsNotImportant(t *testing.T) {
	var unset Importance
	assert.Equal(t, NotImportant.Weight(), unset.Weight())
	assert.False(t, unset.IsDealBreaker())
	assert.Equal(t, "", unset.String())
}

func TestParseImportance(t *testing.T) {
	for _, level := range ImportanceLevels() {
		parsed, err := ParseImportance(level.String())
		require.NoError(t, err)
		assert.Equal(t, level, parsed)
	}

	parsed, err := ParseImportance("  Deal_Breaker ")
	require.NoError(t, err)
	assert.Equal(t, DealBreaker, parsed)

	parsed, err = ParseImportance("")
	require.NoError(t, err)
	assert.Equal(t, Importance(0), parsed)

	_, err = ParseImportance("mandatory")
	assert.Error(t, err)
}

func TestImportance_TextRoundTrip(t *testing.T) {
	var i Importance
	require.NoError(t, i.UnmarshalText([]byte("very_important")))
	assert.Equal(t, VeryImportant, i)

	text, err := i.MarshalText()
	require.NoError(t, err)
	assert.Equal(t, "very_important", string(text))
}

func TestImportance_SQL(t *testing.T) {
	value, err := Important.Value()
	require.NoError(t, err)
	assert.Equal(t, "important", value)

	var i Importance
	require.NoError(t, i.Scan([]byte("deal_breaker")))
	assert.Equal(t, DealBreaker, i)

	require.NoError(t, i.Scan(int64(2)))
	assert.Equal(t, SomewhatImportant, i)

	require.NoError(t, i.Scan(nil))
	assert.Equal(t, Importance(0), i)

	assert.Error(t, i.Scan(3.5))
}
