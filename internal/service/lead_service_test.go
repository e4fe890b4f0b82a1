package service

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alexanderramin/leadpipe/internal/domain"
	"github.com/alexanderramin/leadpipe/internal/repository"
	"github.com/alexanderramin/leadpipe/internal/testutil"
)

func activityTypes(t *testing.T, r repos, leadID string) []domain.ActivityType {
	t.Helper()
	acts, err := r.activities.ListByLead(context.Background(), leadID)
	require.NoError(t, err)
	out := make([]domain.ActivityType, len(acts))
	for i, a := range acts {
		out[i] = a.Type
	}
	return out
}

func TestLeadService_Create_Defaults(t *testing.T) {
	r := setupRepos(t)
	ctx := context.Background()
	svc := NewLeadService(r.leads, r.uow, fixedClock())

	l := &domain.Lead{Name: "  Ada Lovelace ", Email: "ada@example.com", Phone: "(650) 253-0000"}
	require.NoError(t, svc.Create(ctx, l))

	assert.NotEmpty(t, l.ID, "UUID should be generated")
	got, err := svc.Get(ctx, l.ID)
	require.NoError(t, err)
	assert.Equal(t, "Ada Lovelace", got.Name)
	assert.Equal(t, domain.StageNewLead, got.Stage)
	assert.Equal(t, domain.PriorityMedium, got.Priority)
	assert.Equal(t, domain.SourceOther, got.Source)
	assert.Equal(t, "+16502530000", got.Phone)
	assert.Equal(t, testNow, got.CreatedAt)

	assert.Equal(t, []domain.ActivityType{domain.ActivityCreated}, activityTypes(t, r, l.ID))
}

func TestLeadService_Create_Rejects(t *testing.T) {
	r := setupRepos(t)
	svc := NewLeadService(r.leads, r.uow, fixedClock())

	tests := []struct {
		name string
		lead domain.Lead
	}{
		{"no name", domain.Lead{Name: "  "}},
		{"bad email", domain.Lead{Name: "A", Email: "not-an-email"}},
		{"bad stage", domain.Lead{Name: "A", Stage: "Won"}},
		{"negative value", domain.Lead{Name: "A", ProjectedValue: ptr(-1.0)}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			l := tt.lead
			assert.Error(t, svc.Create(context.Background(), &l))
		})
	}

	all, err := svc.List(context.Background(), repository.LeadFilter{IncludeArchived: true})
	require.NoError(t, err)
	assert.Empty(t, all)
}

func TestLeadService_ChangeStage(t *testing.T) {
	r := setupRepos(t)
	ctx := context.Background()
	svc := NewLeadService(r.leads, r.uow, fixedClock())

	l := &domain.Lead{Name: "Bob"}
	require.NoError(t, svc.Create(ctx, l))

	updated, err := svc.ChangeStage(ctx, l.ID, domain.StageQualified)
	require.NoError(t, err)
	assert.Equal(t, domain.StageQualified, updated.Stage)

	_, err = svc.ChangeStage(ctx, l.ID, domain.StageQualified)
	assert.Error(t, err, "same stage is rejected")

	acts, err := r.activities.ListByLead(ctx, l.ID)
	require.NoError(t, err)
	require.Len(t, acts, 2)
	assert.Equal(t, domain.ActivityStageChanged, acts[0].Type)
	assert.Equal(t, domain.StageNewLead, acts[0].Metadata.OldStage)
	assert.Equal(t, domain.StageQualified, acts[0].Metadata.NewStage)
}

func TestLeadService_AddNoteAndContact(t *testing.T) {
	r := setupRepos(t)
	ctx := context.Background()
	svc := NewLeadService(r.leads, r.uow, fixedClock())

	l := &domain.Lead{Name: "Cy", Notes: "first"}
	require.NoError(t, svc.Create(ctx, l))

	got, err := svc.AddNote(ctx, l.ID, "second")
	require.NoError(t, err)
	assert.Equal(t, "first\n\nsecond", got.Notes)

	_, err = svc.AddNote(ctx, l.ID, "   ")
	assert.Error(t, err)

	got, err = svc.RecordContact(ctx, l.ID, Contact{Channel: domain.ChannelEmail, Subject: "Quote", Message: "Hi"})
	require.NoError(t, err)
	require.NotNil(t, got.LastContactedAt)
	assert.Equal(t, testNow, *got.LastContactedAt)

	_, err = svc.RecordContact(ctx, l.ID, Contact{Channel: "fax"})
	assert.Error(t, err)

	acts, err := r.activities.ListByLead(ctx, l.ID)
	require.NoError(t, err)
	require.NotEmpty(t, acts)
	assert.Equal(t, "Email sent - Subject: Quote", acts[0].Description)
}

func TestLeadService_Update_LogsStageChange(t *testing.T) {
	r := setupRepos(t)
	ctx := context.Background()
	svc := NewLeadService(r.leads, r.uow, fixedClock())

	l := &domain.Lead{Name: "Dee"}
	require.NoError(t, svc.Create(ctx, l))

	l.Priority = domain.PriorityHigh
	l.Stage = domain.StageNegotiation
	require.NoError(t, svc.Update(ctx, l))

	got, err := svc.Get(ctx, l.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.PriorityHigh, got.Priority)

	assert.ElementsMatch(t,
		[]domain.ActivityType{domain.ActivityCreated, domain.ActivityStageChanged, domain.ActivityUpdated},
		activityTypes(t, r, l.ID))

	missing := testutil.NewTestLead("ghost")
	assert.True(t, errors.Is(svc.Update(ctx, missing), repository.ErrNotFound))
}

func TestLeadService_ArchiveRestore(t *testing.T) {
	r := setupRepos(t)
	ctx := context.Background()
	svc := NewLeadService(r.leads, r.uow, fixedClock())

	l := &domain.Lead{Name: "Eve"}
	require.NoError(t, svc.Create(ctx, l))

	require.NoError(t, svc.Archive(ctx, l.ID))
	assert.Error(t, svc.Archive(ctx, l.ID), "already archived")

	active, err := svc.List(ctx, repository.LeadFilter{})
	require.NoError(t, err)
	assert.Empty(t, active)

	require.NoError(t, svc.Restore(ctx, l.ID))
	got, err := svc.Get(ctx, l.ID)
	require.NoError(t, err)
	assert.False(t, got.Archived)
	assert.Nil(t, got.ArchivedAt)
}

func TestLeadService_Delete_HardDeletesPlainLead(t *testing.T) {
	r := setupRepos(t)
	ctx := context.Background()
	svc := NewLeadService(r.leads, r.uow, fixedClock())

	l := &domain.Lead{Name: "Fay"}
	require.NoError(t, svc.Create(ctx, l))

	outcome, err := svc.Delete(ctx, l.ID)
	require.NoError(t, err)
	assert.Equal(t, Deleted, outcome)

	_, err = svc.Get(ctx, l.ID)
	assert.True(t, errors.Is(err, repository.ErrNotFound))
	recent, err := r.activities.ListRecent(ctx, 0)
	require.NoError(t, err)
	assert.Empty(t, recent)
}

func TestLeadService_Delete_ArchivesConvertedLead(t *testing.T) {
	r := setupRepos(t)
	ctx := context.Background()
	svc := NewLeadService(r.leads, r.uow, fixedClock())

	l := testutil.NewTestLead("Gus", testutil.AsCustomer(
		testutil.NewTestCustomerData("Windows", domain.FrequencyMonthly, "40")))
	require.NoError(t, r.leads.Create(ctx, l))

	outcome, err := svc.Delete(ctx, l.ID)
	require.NoError(t, err)
	assert.Equal(t, Archived, outcome)

	got, err := svc.Get(ctx, l.ID)
	require.NoError(t, err)
	assert.True(t, got.Archived)
	require.NotNil(t, got.Customer, "customer record survives")
	assert.Equal(t, []domain.ActivityType{domain.ActivityArchived}, activityTypes(t, r, l.ID))

	outcome, err = svc.Delete(ctx, l.ID)
	require.NoError(t, err)
	assert.Equal(t, Archived, outcome)
}

func TestLeadService_Import(t *testing.T) {
	r := setupRepos(t)
	ctx := context.Background()
	svc := NewLeadService(r.leads, r.uow, fixedClock())

	plain := testutil.NewTestLead("Hal")
	customer := testutil.NewTestLead("Ivy", testutil.AsCustomer(
		testutil.NewTestCustomerData("Gutters", domain.FrequencyAnnually, "300")))

	n, err := svc.Import(ctx, []*domain.Lead{plain, customer})
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	assert.Equal(t, []domain.ActivityType{domain.ActivityCreated}, activityTypes(t, r, plain.ID))
	assert.ElementsMatch(t, []domain.ActivityType{domain.ActivityCreated, domain.ActivityConverted}, activityTypes(t, r, customer.ID))
}

func TestLeadService_Import_RollsBackOnFailure(t *testing.T) {
	r := setupRepos(t)
	ctx := context.Background()
	uow := &testutil.FailOnNthExecUoW{DB: r.db, FailOn: 4, Err: errors.New("injected")}
	svc := NewLeadService(r.leads, uow, fixedClock())

	leads := []*domain.Lead{testutil.NewTestLead("One"), testutil.NewTestLead("Two")}
	_, err := svc.Import(ctx, leads)
	require.Error(t, err)

	all, err := r.leads.List(ctx, repository.LeadFilter{IncludeArchived: true})
	require.NoError(t, err)
	assert.Empty(t, all, "first lead rolled back with the failed second one")
}

func TestLeadService_ReportsUseCases(t *testing.T) {
	r := setupRepos(t)
	ctx := context.Background()
	obs := &recordingObserver{}
	svc := NewLeadService(r.leads, r.uow, fixedClock(), WithObserver(obs))

	l := &domain.Lead{Name: "Jo"}
	require.NoError(t, svc.Create(ctx, l))
	_, _ = svc.ChangeStage(ctx, l.ID, "bogus")

	assert.Equal(t, []string{"create-lead", "change-stage"}, obs.names())
	assert.True(t, obs.events[0].Succeeded())
	assert.False(t, obs.events[1].Succeeded())
	assert.Error(t, obs.events[1].Err)
}

func ptr[T any](v T) *T { return &v }
