package scoring

import (
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alexanderramin/leadpipe/internal/domain"
)

var testNow = time.Date(2025, 6, 15, 10, 0, 0, 0, time.UTC)

func ptr[T any](v T) *T { return &v }

func baseLead() domain.Lead {
	return domain.Lead{Name: "Ada", Stage: domain.StageNewLead, Priority: domain.PriorityLow}
}

func TestScore_LowLead(t *testing.T) {
	b := Score(baseLead(), nil, testNow)

	assert.Equal(t, Components{PropertyValue: 0, Engagement: 0, Timeline: 0, Qualification: 2}, b.Components)
	assert.Equal(t, 1, b.Total)
	assert.Empty(t, b.Factors.Positive)
	assert.Equal(t, []string{
		"No projected value set",
		"No engagement recorded",
		"No follow-up scheduled",
		"New lead, needs qualification",
		"Low priority lead",
	}, b.Factors.Negative)
}

func TestScore_MaxLead(t *testing.T) {
	profile := &domain.BusinessProfile{AvgContractValue: 4000}
	lead := domain.Lead{
		Name:            "Ada",
		Stage:           domain.StageNegotiation,
		Priority:        domain.PriorityHigh,
		ProjectedValue:  ptr(8000.0),
		Notes:           "Wants a quote for the whole house",
		LastContactedAt: ptr(testNow.Add(-24 * time.Hour)),
		FollowUpDate:    ptr(testNow.Add(3 * 24 * time.Hour)),
	}

	b := Score(lead, profile, testNow)

	assert.Equal(t, Components{PropertyValue: 10, Engagement: 10, Timeline: 10, Qualification: 10}, b.Components)
	assert.Equal(t, 10, b.Total)
	assert.Empty(t, b.Factors.Negative)
	assert.Equal(t, []string{
		"High-value opportunity (above average)",
		"Active engagement with detailed notes",
		"Follow-up scheduled this week",
		"In negotiation stage",
		"High priority lead",
	}, b.Factors.Positive)
}

func TestScorePropertyValue_WithProfile(t *testing.T) {
	profile := &domain.BusinessProfile{AvgContractValue: 1000}
	cases := []struct {
		value    float64
		score    int
		factor   string
		positive bool
	}{
		{1500, 10, "High-value opportunity (above average)", true},
		{1499, 8, "Above average contract value", true},
		{1000, 8, "Above average contract value", true},
		{500, 6, "Moderate contract value", true},
		{499, 4, "Below average contract value", false},
	}
	for _, tc := range cases {
		lead := baseLead()
		lead.ProjectedValue = ptr(tc.value)
		score, factors := scorePropertyValue(input{lead: lead, profile: profile, now: testNow})
		assert.Equal(t, tc.score, score, "value=%v", tc.value)
		require.Len(t, factors, 1)
		assert.Equal(t, tc.factor, factors[0].text)
		assert.Equal(t, tc.positive, factors[0].positive)
	}
}

func TestScorePropertyValue_Fallback(t *testing.T) {
	profiles := map[string]*domain.BusinessProfile{
		"nil profile":      nil,
		"zero average":     {AvgContractValue: 0},
		"negative average": {AvgContractValue: -10},
	}
	cases := []struct {
		value  float64
		score  int
		factor string
	}{
		{10000, 10, "High-value opportunity"},
		{9999, 8, "Good contract value"},
		{5000, 8, "Good contract value"},
		{2500, 6, "Moderate contract value"},
		{2499, 4, "Low contract value"},
	}
	for name, profile := range profiles {
		for _, tc := range cases {
			lead := baseLead()
			lead.ProjectedValue = ptr(tc.value)
			score, factors := scorePropertyValue(input{lead: lead, profile: profile, now: testNow})
			assert.Equal(t, tc.score, score, "%s value=%v", name, tc.value)
			assert.Equal(t, tc.factor, factors[0].text, "%s value=%v", name, tc.value)
		}
	}
}

func TestScorePropertyValue_ZeroIsUnset(t *testing.T) {
	lead := baseLead()
	lead.ProjectedValue = ptr(0.0)
	score, factors := scorePropertyValue(input{lead: lead, now: testNow})
	assert.Equal(t, 0, score)
	assert.Equal(t, "No projected value set", factors[0].text)
}

func TestScorePropertyValue_NonFiniteIsUnset(t *testing.T) {
	for _, v := range []float64{math.NaN(), math.Inf(1)} {
		lead := baseLead()
		lead.ProjectedValue = ptr(v)
		score, factors := scorePropertyValue(input{lead: lead, now: testNow})
		assert.Equal(t, 0, score, "value=%v", v)
		assert.Equal(t, "No projected value set", factors[0].text, "value=%v", v)
	}
}

func TestScoreEngagement(t *testing.T) {
	contacted := ptr(testNow)
	cases := []struct {
		name      string
		notes     string
		contacted *time.Time
		score     int
	}{
		{"both", "note", contacted, 10},
		{"contact only", "", contacted, 7},
		{"notes only", "note", nil, 5},
		{"neither", "", nil, 0},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			lead := baseLead()
			lead.Notes = tc.notes
			lead.LastContactedAt = tc.contacted
			score, _ := scoreEngagement(input{lead: lead, now: testNow})
			assert.Equal(t, tc.score, score)
		})
	}
}

func TestScoreTimeline(t *testing.T) {
	cases := []struct {
		name   string
		date   *time.Time
		score  int
		factor string
	}{
		{"none", nil, 0, "No follow-up scheduled"},
		{"now", ptr(testNow), 10, "Follow-up scheduled this week"},
		{"exactly seven days", ptr(testNow.Add(7 * 24 * time.Hour)), 10, "Follow-up scheduled this week"},
		{"just past the window", ptr(testNow.Add(7*24*time.Hour + time.Second)), 7, "Future follow-up scheduled"},
		{"one second ago", ptr(testNow.Add(-time.Second)), 3, "Overdue follow-up"},
		{"last month", ptr(testNow.AddDate(0, -1, 0)), 3, "Overdue follow-up"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			lead := baseLead()
			lead.FollowUpDate = tc.date
			score, factors := scoreTimeline(input{lead: lead, now: testNow})
			assert.Equal(t, tc.score, score)
			assert.Equal(t, tc.factor, factors[0].text)
		})
	}
}

func TestScoreQualification(t *testing.T) {
	cases := []struct {
		stage    domain.Stage
		priority domain.Priority
		score    int
		factors  int
	}{
		{domain.StageNegotiation, domain.PriorityHigh, 10, 2},
		{domain.StageProposalSent, domain.PriorityMedium, 7, 1},
		{domain.StageQualified, domain.PriorityLow, 4, 2},
		{domain.StageNewLead, domain.PriorityMedium, 4, 1},
		{domain.StageClosedWon, domain.PriorityMedium, 3, 0},
		{domain.StageClosedLost, domain.PriorityHigh, 5, 1},
	}
	for _, tc := range cases {
		lead := baseLead()
		lead.Stage = tc.stage
		lead.Priority = tc.priority
		score, factors := scoreQualification(input{lead: lead, now: testNow})
		assert.Equal(t, tc.score, score, "%s/%s", tc.stage, tc.priority)
		assert.Len(t, factors, tc.factors, "%s/%s", tc.stage, tc.priority)
	}
}

func TestScore_TotalMatchesComponents(t *testing.T) {
	leads := []domain.Lead{
		baseLead(),
		{Stage: domain.StageQualified, Priority: domain.PriorityMedium, Notes: "x"},
		{Stage: domain.StageProposalSent, Priority: domain.PriorityHigh, ProjectedValue: ptr(3000.0), FollowUpDate: ptr(testNow.AddDate(0, 0, 30))},
		{Stage: domain.StageClosedWon, Priority: domain.PriorityLow, LastContactedAt: ptr(testNow)},
	}
	for _, l := range leads {
		b := Score(l, nil, testNow)
		c := b.Components
		for _, v := range []int{c.PropertyValue, c.Engagement, c.Timeline, c.Qualification} {
			assert.GreaterOrEqual(t, v, 0)
			assert.LessOrEqual(t, v, 10)
		}
		assert.GreaterOrEqual(t, b.Total, 0)
		assert.LessOrEqual(t, b.Total, 10)
		assert.Equal(t, int(float64(c.Sum())*0.25+0.5), b.Total)
	}
}

func TestScore_Idempotent(t *testing.T) {
	lead := baseLead()
	lead.ProjectedValue = ptr(6000.0)
	lead.FollowUpDate = ptr(testNow.Add(48 * time.Hour))
	assert.Equal(t, Score(lead, nil, testNow), Score(lead, nil, testNow))
}

func TestScore_UnknownEnumsContributeNothing(t *testing.T) {
	lead := domain.Lead{Stage: "Dormant", Priority: "Urgent"}
	b := Score(lead, nil, testNow)
	assert.Equal(t, 0, b.Components.Qualification)
	assert.Equal(t, 0, b.Total)
}
