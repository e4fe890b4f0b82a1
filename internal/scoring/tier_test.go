package scoring

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alexanderramin/leadpipe/internal/domain"
)

func TestLabelAndTier(t *testing.T) {
	cases := []struct {
		score int
		label string
		tier  Tier
	}{
		{10, "Hot", TierPositive},
		{8, "Hot", TierPositive},
		{7, "Warm", TierPositive},
		{6, "Warm", TierPositive},
		{5, "Cool", TierNeutral},
		{4, "Cool", TierNeutral},
		{3, "Cold", TierNegative},
		{0, "Cold", TierNegative},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.label, Label(tc.score), "score=%d", tc.score)
		assert.Equal(t, tc.tier, ColorTier(tc.score), "score=%d", tc.score)
	}
}

func TestRank(t *testing.T) {
	hot := domain.Lead{
		Name: "zed", Stage: domain.StageNegotiation, Priority: domain.PriorityHigh,
		ProjectedValue: ptr(20000.0), Notes: "n", LastContactedAt: ptr(testNow),
	}
	coldA := domain.Lead{Name: "Bea", Stage: domain.StageNewLead, Priority: domain.PriorityLow}
	coldB := domain.Lead{Name: "amy", Stage: domain.StageNewLead, Priority: domain.PriorityLow}

	ranked := Rank([]domain.Lead{coldA, hot, coldB}, nil, testNow)

	require.Len(t, ranked, 3)
	assert.Equal(t, "zed", ranked[0].Lead.Name)
	assert.Equal(t, "amy", ranked[1].Lead.Name)
	assert.Equal(t, "Bea", ranked[2].Lead.Name)
	assert.Equal(t, ranked[0].Breakdown, Score(hot, nil, testNow))
}
