package importer

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/alexanderramin/leadpipe/internal/domain"
)

const dateLayout = "2006-01-02"

// Convert transforms validated imports into leads ready for persistence.
// Missing priority, stage and source default to Medium, New Lead and Other.
// A lead with a customer block is converted as of now.
func Convert(imports []LeadImport, now time.Time) ([]*domain.Lead, error) {
	leads := make([]*domain.Lead, 0, len(imports))
	for i, in := range imports {
		l, err := convertLead(in, now)
		if err != nil {
			return nil, fmt.Errorf("lead %d (%s): %w", i, in.Name, err)
		}
		leads = append(leads, l)
	}
	return leads, nil
}

func convertLead(in LeadImport, now time.Time) (*domain.Lead, error) {
	l := &domain.Lead{
		ID:        uuid.New().String(),
		Name:      strings.TrimSpace(in.Name),
		Email:     strings.TrimSpace(in.Email),
		Phone:     strings.TrimSpace(in.Phone),
		Address:   strings.TrimSpace(in.Address),
		Notes:     in.Notes,
		Priority:  domain.PriorityMedium,
		Stage:     domain.StageNewLead,
		Source:    domain.LeadSource(domain.CoalesceStr(strings.TrimSpace(in.Source), string(domain.SourceOther))),
		CreatedAt: now,
		UpdatedAt: now,
	}

	if in.Priority != "" {
		p, err := domain.ParsePriority(in.Priority)
		if err != nil {
			return nil, err
		}
		l.Priority = p
	}
	if in.Stage != "" {
		s, err := domain.ParseStage(in.Stage)
		if err != nil {
			return nil, err
		}
		l.Stage = s
	}
	if in.ProjectedValue != nil && *in.ProjectedValue > 0 {
		v := *in.ProjectedValue
		l.ProjectedValue = &v
	}
	if in.FollowUpDate != nil {
		d, err := time.Parse(dateLayout, *in.FollowUpDate)
		if err != nil {
			return nil, fmt.Errorf("parsing followUpDate: %w", err)
		}
		l.FollowUpDate = &d
	}

	if in.Customer != nil {
		data, err := convertCustomer(*in.Customer)
		if err != nil {
			return nil, err
		}
		l.Convert(data, now)
	}

	if err := l.Validate(); err != nil {
		return nil, err
	}
	return l, nil
}

func convertCustomer(in CustomerImport) (domain.CustomerData, error) {
	c := domain.CustomerData{
		FirstName:        in.FirstName,
		LastName:         in.LastName,
		CompanyName:      in.CompanyName,
		Email:            in.Email,
		Phone:            in.Phone,
		JobTitle:         in.JobTitle,
		MeasurementValue: in.MeasurementValue,
		Notes:            in.Notes,
	}
	if in.JobType != "" {
		f, err := domain.ParseServiceFrequency(in.JobType)
		if err != nil {
			return c, err
		}
		c.JobType = f
	}
	if in.PropertyAddress != nil {
		c.PropertyAddress = convertAddress(*in.PropertyAddress)
	}
	if in.BillingAddress != nil {
		b := convertAddress(*in.BillingAddress)
		c.BillingAddress = &b
	}
	for _, item := range in.LineItems {
		c.LineItems = append(c.LineItems, domain.LineItem{Description: item.Description, Price: item.Price})
	}
	return c, nil
}

func convertAddress(a AddressImport) domain.Address {
	return domain.Address{
		Street1: a.Street1,
		Street2: a.Street2,
		City:    a.City,
		State:   a.State,
		ZipCode: a.ZipCode,
	}
}
