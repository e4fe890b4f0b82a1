package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alexanderramin/leadpipe/internal/domain"
	"github.com/alexanderramin/leadpipe/internal/repository"
	"github.com/alexanderramin/leadpipe/internal/testutil"
)

func hotLead() *domain.Lead {
	return testutil.NewTestLead("Hot",
		testutil.WithProjectedValue(15000),
		testutil.WithLastContacted(testNow.AddDate(0, 0, -1)),
		testutil.WithNotes("wants a quote"),
		testutil.WithFollowUp(testNow.AddDate(0, 0, 2)),
		testutil.WithStage(domain.StageNegotiation),
		testutil.WithPriority(domain.PriorityHigh),
	)
}

func TestScoringService_ScoreLead(t *testing.T) {
	r := setupRepos(t)
	ctx := context.Background()
	svc := NewScoringService(r.leads, r.profiles, fixedClock())

	l := hotLead()
	require.NoError(t, r.leads.Create(ctx, l))

	got, err := svc.ScoreLead(ctx, l.ID)
	require.NoError(t, err)
	assert.Equal(t, 10, got.Breakdown.Total, "fixed thresholds without a saved profile")

	p := domain.DefaultBusinessProfile()
	p.AvgContractValue = 20000
	require.NoError(t, r.profiles.Upsert(ctx, p))

	got, err = svc.ScoreLead(ctx, l.ID)
	require.NoError(t, err)
	assert.Equal(t, 6, got.Breakdown.Components.PropertyValue)
	assert.Equal(t, 9, got.Breakdown.Total)
}

func TestScoringService_Ranked(t *testing.T) {
	r := setupRepos(t)
	ctx := context.Background()
	obs := &recordingObserver{}
	svc := NewScoringService(r.leads, r.profiles, fixedClock(), WithObserver(obs))

	cold := testutil.NewTestLead("Cold", testutil.WithPriority(domain.PriorityLow))
	hot := hotLead()
	archived := testutil.NewTestLead("Archived", testutil.WithArchived(testNow))
	for _, l := range []*domain.Lead{cold, hot, archived} {
		require.NoError(t, r.leads.Create(ctx, l))
	}

	ranked, err := svc.Ranked(ctx, repository.LeadFilter{})
	require.NoError(t, err)
	require.Len(t, ranked, 2)
	assert.Equal(t, "Hot", ranked[0].Lead.Name)
	assert.Equal(t, "Cold", ranked[1].Lead.Name)
	assert.GreaterOrEqual(t, ranked[0].Breakdown.Total, ranked[1].Breakdown.Total)

	require.Len(t, obs.events, 1)
	assert.Equal(t, "rank-leads", obs.events[0].Name)
	assert.Equal(t, 2, obs.events[0].Fields["count"])
}
