package testutil

import (
	"time"

	"github.com/google/uuid"

	"github.com/alexanderramin/leadpipe/internal/domain"
)

// Lead options
type LeadOption func(*domain.Lead)

func WithStage(s domain.Stage) LeadOption {
	return func(l *domain.Lead) {
		l.Stage = s
	}
}

func WithPriority(p domain.Priority) LeadOption {
	return func(l *domain.Lead) {
		l.Priority = p
	}
}

func WithSource(s domain.LeadSource) LeadOption {
	return func(l *domain.Lead) {
		l.Source = s
	}
}

func WithEmail(email string) LeadOption {
	return func(l *domain.Lead) {
		l.Email = email
	}
}

func WithPhone(phone string) LeadOption {
	return func(l *domain.Lead) {
		l.Phone = phone
	}
}

func WithNotes(notes string) LeadOption {
	return func(l *domain.Lead) {
		l.Notes = notes
	}
}

func WithProjectedValue(v float64) LeadOption {
	return func(l *domain.Lead) {
		l.ProjectedValue = &v
	}
}

func WithFollowUp(d time.Time) LeadOption {
	return func(l *domain.Lead) {
		l.FollowUpDate = &d
	}
}

func WithLastContacted(d time.Time) LeadOption {
	return func(l *domain.Lead) {
		l.LastContactedAt = &d
	}
}

func WithCreatedAt(d time.Time) LeadOption {
	return func(l *domain.Lead) {
		l.CreatedAt = d
		l.UpdatedAt = d
	}
}

func WithArchived(at time.Time) LeadOption {
	return func(l *domain.Lead) {
		l.Archived = true
		l.ArchivedAt = &at
	}
}

// AsCustomer converts the lead with the given customer record.
func AsCustomer(c domain.CustomerData) LeadOption {
	return func(l *domain.Lead) {
		l.Convert(c, l.CreatedAt)
	}
}

// AsDirectCustomer marks the lead as a customer created without the funnel.
func AsDirectCustomer(c domain.CustomerData) LeadOption {
	return func(l *domain.Lead) {
		l.IsDirectCustomer = true
		l.Convert(c, l.CreatedAt)
	}
}

// NewTestLead builds a New Lead / Medium lead with whole-second timestamps
// so it survives an RFC3339 round trip unchanged.
func NewTestLead(name string, opts ...LeadOption) *domain.Lead {
	now := time.Now().UTC().Truncate(time.Second)
	l := &domain.Lead{
		ID:        uuid.New().String(),
		Name:      name,
		Priority:  domain.PriorityMedium,
		Stage:     domain.StageNewLead,
		Source:    domain.SourceOther,
		CreatedAt: now,
		UpdatedAt: now,
	}
	for _, o := range opts {
		o(l)
	}
	return l
}

// NewTestCustomerData returns customer data billed at price per visit.
func NewTestCustomerData(service string, freq domain.ServiceFrequency, prices ...string) domain.CustomerData {
	items := make([]domain.LineItem, len(prices))
	for i, p := range prices {
		items[i] = domain.LineItem{Description: service, Price: p}
	}
	return domain.CustomerData{
		FirstName: "Test",
		LastName:  "Customer",
		JobTitle:  service,
		JobType:   freq,
		PropertyAddress: domain.Address{
			Street1: "1 Main St",
			City:    "Springfield",
			State:   "IL",
			ZipCode: "62701",
		},
		LineItems: items,
	}
}

// Campaign options
type CampaignOption func(*domain.Campaign)

func WithTargeting(t domain.Targeting) CampaignOption {
	return func(c *domain.Campaign) {
		c.Targeting = t
	}
}

func WithChannel(ch domain.Channel) CampaignOption {
	return func(c *domain.Campaign) {
		c.Type = ch
	}
}

func WithContent(subject, content string) CampaignOption {
	return func(c *domain.Campaign) {
		c.Subject = subject
		c.Content = content
	}
}

func NewTestCampaign(name string, opts ...CampaignOption) *domain.Campaign {
	now := time.Now().UTC().Truncate(time.Second)
	c := &domain.Campaign{
		ID:        uuid.New().String(),
		Name:      name,
		Type:      domain.ChannelEmail,
		Subject:   "Hello {{firstName}}",
		Content:   "Hi {{name}}, this is {{companyName}}.",
		CreatedAt: now,
		UpdatedAt: now,
	}
	for _, o := range opts {
		o(c)
	}
	return c
}
