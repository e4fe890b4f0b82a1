package analytics

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alexanderramin/leadpipe/internal/domain"
)

var testNow = time.Date(2025, 6, 15, 10, 0, 0, 0, time.UTC)

func lead(name string, stage domain.Stage) domain.Lead {
	return domain.Lead{Name: name, Stage: stage, Priority: domain.PriorityMedium, CreatedAt: testNow}
}

func customer(name, service string, freq domain.ServiceFrequency, price string) domain.Lead {
	l := lead(name, domain.StageClosedWon)
	l.ConvertedToCustomer = true
	at := testNow
	l.ConvertedAt = &at
	l.Customer = &domain.CustomerData{
		JobTitle:  service,
		JobType:   freq,
		LineItems: []domain.LineItem{{Description: "service", Price: price}},
	}
	return l
}

func TestSummarize(t *testing.T) {
	archivedLead := lead("gone", domain.StageQualified)
	archivedLead.Archived = true
	archivedCustomer := customer("old", "Gutters", domain.FrequencyMonthly, "1000")
	archivedCustomer.Customer.Archived = true

	leads := []domain.Lead{
		lead("a", domain.StageNewLead),
		lead("b", domain.StageQualified),
		lead("c", domain.StageNegotiation),
		lead("d", domain.StageProposalSent),
		archivedLead,
		customer("monthly", "Windows", domain.FrequencyMonthly, "100"),
		customer("once", "Gutters", domain.FrequencyOneTime, "600"),
		archivedCustomer,
	}

	m := Summarize(leads)

	assert.Equal(t, 4, m.TotalLeads)
	assert.Equal(t, 2, m.Customers)
	assert.InDelta(t, 1800.0, m.TotalRevenue, 1e-9)
	assert.InDelta(t, 1200.0, m.RecurringRevenue, 1e-9)
	assert.InDelta(t, 900.0, m.AvgDealSize, 1e-9)
	assert.InDelta(t, 50.0, m.ConversionRate, 1e-9)
}

func TestSummarize_NoActiveLeads(t *testing.T) {
	m := Summarize([]domain.Lead{customer("x", "Windows", domain.FrequencyOneTime, "100")})
	assert.Equal(t, 0, m.TotalLeads)
	assert.Equal(t, 0.0, m.ConversionRate)
	assert.Equal(t, 100.0, m.AvgDealSize)

	empty := Summarize(nil)
	assert.Equal(t, Metrics{}, empty)
}

func TestSummarize_MissingJobTypeIsRecurring(t *testing.T) {
	m := Summarize([]domain.Lead{customer("x", "Windows", "", "250")})
	assert.Equal(t, 250.0, m.RecurringRevenue)
}

func TestServiceBreakdown(t *testing.T) {
	leads := []domain.Lead{
		customer("a", "Windows", domain.FrequencyQuarterly, "100"),
		customer("b", "Windows", domain.FrequencyOneTime, "200"),
		customer("c", "", domain.FrequencyMonthly, "100"),
		lead("not a customer", domain.StageQualified),
	}

	got := ServiceBreakdown(leads)

	require.Len(t, got, 2)
	assert.Equal(t, ServiceRevenue{Service: "Uncategorized", Count: 1, Revenue: 1200, Average: 1200}, got[0])
	assert.Equal(t, ServiceRevenue{Service: "Windows", Count: 2, Revenue: 600, Average: 300}, got[1])
}

func TestLeadsByStage(t *testing.T) {
	leads := []domain.Lead{
		lead("a", domain.StageNewLead),
		lead("b", domain.StageNewLead),
		lead("c", domain.StageClosedLost),
		lead("d", "Dormant"),
	}
	got := LeadsByStage(leads)
	require.Len(t, got, 6)
	assert.Equal(t, StageCount{Stage: domain.StageNewLead, Count: 2}, got[0])
	assert.Equal(t, StageCount{Stage: domain.StageQualified, Count: 0}, got[1])
	assert.Equal(t, StageCount{Stage: domain.StageClosedLost, Count: 1}, got[5])
}

func TestLeadSources(t *testing.T) {
	a := lead("a", domain.StageNewLead)
	a.Source = domain.SourceReferral
	b := lead("b", domain.StageNewLead)
	b.Source = domain.SourceReferral
	c := lead("c", domain.StageNewLead)

	got := LeadSources([]domain.Lead{a, b, c})
	assert.Equal(t, []SourceCount{{Source: "Referral", Count: 2}, {Source: "Direct", Count: 1}}, got)
}

func TestConversionTrend(t *testing.T) {
	may := time.Date(2025, 5, 10, 0, 0, 0, 0, time.UTC)
	mayLate := time.Date(2025, 5, 31, 23, 0, 0, 0, time.UTC)
	june := time.Date(2025, 6, 2, 0, 0, 0, 0, time.UTC)

	createdMay := lead("a", domain.StageNewLead)
	createdMay.CreatedAt = may

	convertedSameMonth := customer("b", "Windows", domain.FrequencyMonthly, "1")
	convertedSameMonth.CreatedAt = may
	convertedSameMonth.ConvertedAt = &mayLate

	convertedNextMonth := customer("c", "Windows", domain.FrequencyMonthly, "1")
	convertedNextMonth.CreatedAt = may
	convertedNextMonth.ConvertedAt = &june

	inFuture := lead("d", domain.StageNewLead)
	inFuture.CreatedAt = testNow.Add(time.Hour)

	got := ConversionTrend([]domain.Lead{createdMay, convertedSameMonth, convertedNextMonth, inFuture}, testNow, 6)

	require.Len(t, got, 6)
	assert.Equal(t, time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC), got[0].Month)
	assert.Equal(t, time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC), got[5].Month)

	assert.Equal(t, 3, got[4].Leads)
	assert.Equal(t, 1, got[4].Converted)
	assert.Equal(t, 33.3, got[4].Rate)

	assert.Equal(t, 0, got[5].Leads, "leads created after now are excluded")
	assert.Equal(t, 0.0, got[5].Rate)

	assert.Nil(t, ConversionTrend(nil, testNow, 0))
}

func TestCampaignRates(t *testing.T) {
	assert.Equal(t, Rates{}, CampaignRates(domain.Metrics{}))
	assert.Equal(t, Rates{}, CampaignRates(domain.Metrics{Sent: 10}), "no opens or clicks")

	r := CampaignRates(domain.Metrics{Sent: 200, Opened: 50, Clicked: 10, Converted: 2})
	assert.InDelta(t, 25.0, r.OpenRate, 1e-9)
	assert.InDelta(t, 20.0, r.ClickRate, 1e-9)
	assert.InDelta(t, 20.0, r.ConversionRate, 1e-9)
}
