package repository

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alexanderramin/leadpipe/internal/domain"
	"github.com/alexanderramin/leadpipe/internal/testutil"
)

func TestLeadRepo_CreateAndGetByID(t *testing.T) {
	db := testutil.NewTestDB(t)
	repo := NewSQLiteLeadRepo(db)
	ctx := context.Background()

	followUp := time.Date(2025, 7, 1, 9, 30, 0, 0, time.UTC)
	lead := testutil.NewTestLead("Grace Hopper",
		testutil.WithEmail("grace@example.com"),
		testutil.WithPriority(domain.PriorityHigh),
		testutil.WithStage(domain.StageQualified),
		testutil.WithSource(domain.SourceReferral),
		testutil.WithProjectedValue(4200),
		testutil.WithFollowUp(followUp),
		testutil.WithNotes("Needs gutters too"),
	)
	require.NoError(t, repo.Create(ctx, lead))

	got, err := repo.GetByID(ctx, lead.ID)
	require.NoError(t, err)
	assert.Equal(t, "Grace Hopper", got.Name)
	assert.Equal(t, domain.PriorityHigh, got.Priority)
	assert.Equal(t, domain.StageQualified, got.Stage)
	assert.Equal(t, domain.SourceReferral, got.Source)
	require.NotNil(t, got.ProjectedValue)
	assert.Equal(t, 4200.0, *got.ProjectedValue)
	require.NotNil(t, got.FollowUpDate)
	assert.True(t, followUp.Equal(*got.FollowUpDate))
	assert.Nil(t, got.LastContactedAt)
	assert.Nil(t, got.Customer)
	assert.True(t, lead.CreatedAt.Equal(got.CreatedAt))
}

func TestLeadRepo_GetByID_NotFound(t *testing.T) {
	db := testutil.NewTestDB(t)
	repo := NewSQLiteLeadRepo(db)

	_, err := repo.GetByID(context.Background(), "missing")
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrNotFound))
}

func TestLeadRepo_CustomerRoundTrip(t *testing.T) {
	db := testutil.NewTestDB(t)
	repo := NewSQLiteLeadRepo(db)
	ctx := context.Background()

	data := testutil.NewTestCustomerData("Window Cleaning", domain.FrequencyQuarterly, "120", "35.50", "abc")
	data.BillingAddress = &domain.Address{Street1: "PO Box 9", City: "Springfield", State: "IL"}
	lead := testutil.NewTestLead("Bob", testutil.AsCustomer(data))
	require.NoError(t, repo.Create(ctx, lead))

	got, err := repo.GetByID(ctx, lead.ID)
	require.NoError(t, err)
	require.NotNil(t, got.Customer)
	assert.True(t, got.ConvertedToCustomer)
	assert.Equal(t, domain.StageClosedWon, got.Stage)
	assert.Equal(t, domain.FrequencyQuarterly, got.Customer.JobType)
	assert.Equal(t, "1 Main St", got.Customer.PropertyAddress.Street1)
	require.NotNil(t, got.Customer.BillingAddress)
	assert.Equal(t, "PO Box 9", got.Customer.BillingAddress.Street1)
	assert.Equal(t, []domain.LineItem{
		{Description: "Window Cleaning", Price: "120"},
		{Description: "Window Cleaning", Price: "35.50"},
		{Description: "Window Cleaning", Price: "abc"},
	}, got.Customer.LineItems)
}

func TestLeadRepo_UpdateReplacesLineItemsAndDropsCustomer(t *testing.T) {
	db := testutil.NewTestDB(t)
	repo := NewSQLiteLeadRepo(db)
	ctx := context.Background()

	lead := testutil.NewTestLead("Bob", testutil.AsCustomer(
		testutil.NewTestCustomerData("Gutters", domain.FrequencyAnnually, "100", "200")))
	require.NoError(t, repo.Create(ctx, lead))

	lead.Customer.LineItems = []domain.LineItem{{Description: "Gutters", Price: "300"}}
	require.NoError(t, repo.Update(ctx, lead))

	got, err := repo.GetByID(ctx, lead.ID)
	require.NoError(t, err)
	assert.Equal(t, []domain.LineItem{{Description: "Gutters", Price: "300"}}, got.Customer.LineItems)
	assert.Nil(t, got.Customer.BillingAddress, "billing same as property")

	lead.RevertConversion(time.Now().UTC())
	require.NoError(t, repo.Update(ctx, lead))

	got, err = repo.GetByID(ctx, lead.ID)
	require.NoError(t, err)
	assert.Nil(t, got.Customer)
	assert.False(t, got.ConvertedToCustomer)
	assert.Equal(t, domain.StageClosedLost, got.Stage)

	var n int
	require.NoError(t, db.QueryRow(`SELECT COUNT(*) FROM line_items`).Scan(&n))
	assert.Zero(t, n)
}

func TestLeadRepo_Update_NotFound(t *testing.T) {
	db := testutil.NewTestDB(t)
	repo := NewSQLiteLeadRepo(db)

	err := repo.Update(context.Background(), testutil.NewTestLead("ghost"))
	assert.True(t, errors.Is(err, ErrNotFound))
}

func TestLeadRepo_ListFilters(t *testing.T) {
	db := testutil.NewTestDB(t)
	repo := NewSQLiteLeadRepo(db)
	ctx := context.Background()

	now := time.Now().UTC()
	leads := []*domain.Lead{
		testutil.NewTestLead("Ada Lovelace", testutil.WithStage(domain.StageQualified), testutil.WithEmail("ada@engine.org")),
		testutil.NewTestLead("Alan Turing", testutil.WithPriority(domain.PriorityHigh), testutil.WithSource(domain.SourceReferral)),
		testutil.NewTestLead("Archived Person", testutil.WithArchived(now)),
	}
	for _, l := range leads {
		require.NoError(t, repo.Create(ctx, l))
	}

	all, err := repo.List(ctx, LeadFilter{})
	require.NoError(t, err)
	assert.Len(t, all, 2)

	withArchived, err := repo.List(ctx, LeadFilter{IncludeArchived: true})
	require.NoError(t, err)
	assert.Len(t, withArchived, 3)

	byStage, err := repo.List(ctx, LeadFilter{Stage: domain.StageQualified})
	require.NoError(t, err)
	require.Len(t, byStage, 1)
	assert.Equal(t, "Ada Lovelace", byStage[0].Name)

	byPriority, err := repo.List(ctx, LeadFilter{Priority: domain.PriorityHigh})
	require.NoError(t, err)
	require.Len(t, byPriority, 1)
	assert.Equal(t, "Alan Turing", byPriority[0].Name)

	bySource, err := repo.List(ctx, LeadFilter{Source: "referral"})
	require.NoError(t, err)
	assert.Len(t, bySource, 1)

	bySearch, err := repo.List(ctx, LeadFilter{Search: "ENGINE"})
	require.NoError(t, err)
	require.Len(t, bySearch, 1)
	assert.Equal(t, "Ada Lovelace", bySearch[0].Name)
}

func TestLeadRepo_ListCustomers(t *testing.T) {
	db := testutil.NewTestDB(t)
	repo := NewSQLiteLeadRepo(db)
	ctx := context.Background()

	active := testutil.NewTestLead("Active", testutil.AsCustomer(
		testutil.NewTestCustomerData("Windows", domain.FrequencyMonthly, "50")))
	archived := testutil.NewTestLead("Archived", testutil.AsDirectCustomer(
		testutil.NewTestCustomerData("Gutters", domain.FrequencyOneTime, "500")))
	require.NoError(t, archived.ArchiveCustomer(time.Now().UTC()))
	plain := testutil.NewTestLead("Plain")

	for _, l := range []*domain.Lead{active, archived, plain} {
		require.NoError(t, repo.Create(ctx, l))
	}

	customers, err := repo.ListCustomers(ctx, false)
	require.NoError(t, err)
	require.Len(t, customers, 1)
	assert.Equal(t, "Active", customers[0].Name)
	assert.Equal(t, []domain.LineItem{{Description: "Windows", Price: "50"}}, customers[0].Customer.LineItems)

	archivedList, err := repo.ListCustomers(ctx, true)
	require.NoError(t, err)
	require.Len(t, archivedList, 1)
	assert.Equal(t, "Archived", archivedList[0].Name)
	assert.True(t, archivedList[0].IsDirectCustomer)
	assert.NotNil(t, archivedList[0].Customer.ArchivedAt)
}

func TestLeadRepo_Delete(t *testing.T) {
	db := testutil.NewTestDB(t)
	repo := NewSQLiteLeadRepo(db)
	ctx := context.Background()

	lead := testutil.NewTestLead("Doomed")
	require.NoError(t, repo.Create(ctx, lead))
	require.NoError(t, repo.Delete(ctx, lead.ID))

	_, err := repo.GetByID(ctx, lead.ID)
	assert.True(t, errors.Is(err, ErrNotFound))
	assert.True(t, errors.Is(repo.Delete(ctx, lead.ID), ErrNotFound))
}
