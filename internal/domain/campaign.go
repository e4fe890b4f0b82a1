package domain

import (
	"fmt"
	"slices"
	"strings"
	"time"
)

type Campaign struct {
	ID        string
	Name      string
	Type      Channel
	Subject   string
	Content   string
	Targeting Targeting
	Metrics   Metrics
	CreatedAt time.Time
	UpdatedAt time.Time
}

func (c *Campaign) Validate() error {
	if strings.TrimSpace(c.Name) == "" {
		return fmt.Errorf("campaign name is required")
	}
	if c.Type != ChannelEmail && c.Type != ChannelSMS {
		return fmt.Errorf("invalid campaign type %q", c.Type)
	}
	if strings.TrimSpace(c.Content) == "" {
		return fmt.Errorf("campaign content is required")
	}
	return nil
}

// Targeting selects campaign recipients. Empty lists match everything;
// customers are only reached when IncludeCustomers is set.
type Targeting struct {
	Stages              []Stage
	Priorities          []Priority
	Sources             []LeadSource
	IncludeCustomers    bool
	CustomerServices    []string
	CustomerFrequencies []ServiceFrequency
}

func (t Targeting) IsZero() bool {
	return len(t.Stages) == 0 && len(t.Priorities) == 0 && len(t.Sources) == 0 && !t.IncludeCustomers
}

// Matches reports whether l is a recipient. Archived leads and archived
// customers never match.
func (t Targeting) Matches(l Lead) bool {
	if l.IsCustomer() {
		if !t.IncludeCustomers || !l.ActiveCustomer() {
			return false
		}
		var data CustomerData
		if l.Customer != nil {
			data = *l.Customer
		}
		if len(t.CustomerServices) > 0 && !containsFold(t.CustomerServices, data.JobTitle) {
			return false
		}
		if len(t.CustomerFrequencies) > 0 && !slices.Contains(t.CustomerFrequencies, data.JobType) {
			return false
		}
		return true
	}
	if !l.ActiveLead() {
		return false
	}
	if len(t.Stages) > 0 && !slices.Contains(t.Stages, l.Stage) {
		return false
	}
	if len(t.Priorities) > 0 && !slices.Contains(t.Priorities, l.Priority) {
		return false
	}
	if len(t.Sources) > 0 && !slices.ContainsFunc(t.Sources, func(s LeadSource) bool {
		return strings.EqualFold(string(s), string(l.Source))
	}) {
		return false
	}
	return true
}

func containsFold(list []string, v string) bool {
	for _, s := range list {
		if strings.EqualFold(strings.TrimSpace(s), strings.TrimSpace(v)) {
			return true
		}
	}
	return false
}

type Metrics struct {
	Sent      int
	Opened    int
	Clicked   int
	Converted int
	LastSent  *time.Time
}

// RecordSend counts n deliveries made at now.
func (m *Metrics) RecordSend(n int, now time.Time) {
	if n <= 0 {
		return
	}
	t := now
	m.Sent += n
	m.LastSent = &t
}

// Template variables understood by Render.
const (
	VarName        = "{{name}}"
	VarFirstName   = "{{firstName}}"
	VarEmail       = "{{email}}"
	VarPhone       = "{{phone}}"
	VarAddress     = "{{address}}"
	VarCompanyName = "{{companyName}}"
)

// TemplateVariables lists the variables in the order they are documented.
func TemplateVariables() []string {
	return []string{VarName, VarFirstName, VarEmail, VarPhone, VarAddress, VarCompanyName}
}

// Render substitutes the template variables in content for lead l. The
// company name comes from the business profile.
func Render(content string, l Lead, companyName string) string {
	address := l.Address
	if address == "" && l.Customer != nil {
		address = l.Customer.PropertyAddress.String()
	}
	r := strings.NewReplacer(
		VarName, l.Name,
		VarFirstName, l.FirstName(),
		VarEmail, l.Email,
		VarPhone, l.Phone,
		VarAddress, address,
		VarCompanyName, companyName,
	)
	return r.Replace(content)
}
