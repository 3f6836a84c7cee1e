package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const edaFixture = `{
  "sales_by_gender": {"M": 120.5, "F": 99},
  "sales_by_state": {"Uttar Pradesh": 500, "Delhi": 410, "Karnataka": 300},
  "sales_by_category": {"Food": 10, "Home": 8},
  "sales_by_age_group": {"18-25": 1, "26-35": 2, "36-45": 3}
}`

func TestParseAggregateStatsPreservesOrder(t *testing.T) {
	stats, err := ParseAggregateStats([]byte(edaFixture))
	require.NoError(t, err)

	assert.Equal(t, []string{"M", "F"}, stats.Gender.Labels())
	assert.Equal(t, []float64{120.5, 99}, stats.Gender.Values())
	assert.Equal(t, []string{"Uttar Pradesh", "Delhi", "Karnataka"}, stats.State.Labels())
	assert.Equal(t, []string{"Food", "Home"}, stats.Breakdown(DimensionCategory).Labels())
	assert.Equal(t, []float64{1, 2, 3}, stats.AgeGroup.Values())
}

func TestParseAggregateStatsIsIdempotent(t *testing.T) {
	first, err := ParseAggregateStats([]byte(edaFixture))
	require.NoError(t, err)
	second, err := ParseAggregateStats([]byte(edaFixture))
	require.NoError(t, err)
	assert.Equal(t, first, second)
}

func TestParseAggregateStatsErrors(t *testing.T) {
	cases := map[string]string{
		"invalid json":      `{"sales_by_gender":`,
		"missing dimension": `{"sales_by_gender":{},"sales_by_state":{},"sales_by_category":{}}`,
		"not an object":     `{"sales_by_gender":[1],"sales_by_state":{},"sales_by_category":{},"sales_by_age_group":{}}`,
		"non numeric":       `{"sales_by_gender":{"M":"lots"},"sales_by_state":{},"sales_by_category":{},"sales_by_age_group":{}}`,
	}
	for name, doc := range cases {
		_, err := ParseAggregateStats([]byte(doc))
		assert.Error(t, err, name)
	}
}

func TestAggregateStatsMarshalRoundTripKeepsOrder(t *testing.T) {
	stats, err := ParseAggregateStats([]byte(edaFixture))
	require.NoError(t, err)

	out, err := stats.MarshalJSON()
	require.NoError(t, err)
	assert.Contains(t, string(out), `"sales_by_state":{"Uttar Pradesh":500,"Delhi":410,"Karnataka":300}`)

	again, err := ParseAggregateStats(out)
	require.NoError(t, err)
	assert.Equal(t, stats, again)
}
