package domain

import (
	"fmt"
	"math"
	"strings"
	"time"
)

type Address struct {
	Street1 string
	Street2 string
	City    string
	State   string
	ZipCode string
}

func (a Address) IsZero() bool {
	return a == Address{}
}

// String renders the address on one line: "street1, street2, city, state zip".
func (a Address) String() string {
	var parts []string
	for _, s := range []string{a.Street1, a.Street2, a.City} {
		if s = strings.TrimSpace(s); s != "" {
			parts = append(parts, s)
		}
	}
	tail := strings.TrimSpace(strings.TrimSpace(a.State) + " " + strings.TrimSpace(a.ZipCode))
	if tail != "" {
		parts = append(parts, tail)
	}
	return strings.Join(parts, ", ")
}

// LineItem is one billable entry of a customer's contract. Price is kept as
// entered; valuation parses it.
type LineItem struct {
	Description string
	Price       string
}

type CustomerData struct {
	FirstName        string
	LastName         string
	CompanyName      string
	Email            string
	Phone            string
	JobTitle         string
	JobType          ServiceFrequency
	MeasurementValue string
	PropertyAddress  Address
	// BillingAddress is nil when billing goes to the property address.
	BillingAddress *Address
	LineItems      []LineItem
	Notes          string
	Archived       bool
	ArchivedAt     *time.Time
}

func (c *CustomerData) FullName() string {
	return strings.TrimSpace(c.FirstName + " " + c.LastName)
}

// Billing returns the address invoices go to.
func (c *CustomerData) Billing() Address {
	if c.BillingAddress != nil {
		return *c.BillingAddress
	}
	return c.PropertyAddress
}

type Lead struct {
	ID              string
	Name            string
	Email           string
	Phone           string
	Address         string
	Notes           string
	Priority        Priority
	Stage           Stage
	ProjectedValue  *float64
	FollowUpDate    *time.Time
	LastContactedAt *time.Time
	Source          LeadSource

	Archived   bool
	ArchivedAt *time.Time

	ConvertedToCustomer bool
	ConvertedAt         *time.Time
	IsDirectCustomer    bool
	Customer            *CustomerData

	CreatedAt time.Time
	UpdatedAt time.Time
}

// Validate checks the fields every stored lead must carry.
func (l *Lead) Validate() error {
	if strings.TrimSpace(l.Name) == "" {
		return fmt.Errorf("lead name is required")
	}
	if !l.Priority.Valid() {
		return fmt.Errorf("invalid priority %q", l.Priority)
	}
	if !l.Stage.Valid() {
		return fmt.Errorf("invalid stage %q", l.Stage)
	}
	if v := l.ProjectedValue; v != nil && (*v < 0 || math.IsNaN(*v) || math.IsInf(*v, 0)) {
		return fmt.Errorf("projected value must be a finite amount >= 0, got %g", *v)
	}
	return nil
}

// FirstName prefers the customer record and falls back to the first word of
// the lead name.
func (l *Lead) FirstName() string {
	if l.Customer != nil && strings.TrimSpace(l.Customer.FirstName) != "" {
		return strings.TrimSpace(l.Customer.FirstName)
	}
	fields := strings.Fields(l.Name)
	if len(fields) == 0 {
		return ""
	}
	return fields[0]
}

// HasNotes reports whether any notes were recorded. Whitespace counts.
func (l *Lead) HasNotes() bool {
	return l.Notes != ""
}

func (l *Lead) Contacted() bool {
	return l.LastContactedAt != nil
}

// IsCustomer reports whether the lead is a customer, either through
// conversion or as a direct customer. Direct customers are flagged as
// converted too.
func (l *Lead) IsCustomer() bool {
	return l.ConvertedToCustomer
}

// CustomerArchived reports whether the lead's customer record is archived.
func (l *Lead) CustomerArchived() bool {
	return l.Customer != nil && l.Customer.Archived
}

// ActiveCustomer reports whether the lead is a customer that is not archived.
func (l *Lead) ActiveCustomer() bool {
	return l.IsCustomer() && !l.CustomerArchived()
}

// ActiveLead reports whether the lead is still in the funnel: neither
// archived nor converted.
func (l *Lead) ActiveLead() bool {
	return !l.Archived && !l.ConvertedToCustomer
}

// ChangeStage moves the lead to stage to and returns the previous stage.
func (l *Lead) ChangeStage(to Stage, now time.Time) (Stage, error) {
	if !to.Valid() {
		return "", fmt.Errorf("invalid stage %q", to)
	}
	from := l.Stage
	if from == to {
		return from, fmt.Errorf("lead is already in stage %s", to)
	}
	l.Stage = to
	l.UpdatedAt = now
	return from, nil
}

func (l *Lead) MarkContacted(now time.Time) {
	t := now
	l.LastContactedAt = &t
	l.UpdatedAt = now
}

// AppendNote adds note as a new paragraph of the lead's notes.
func (l *Lead) AppendNote(note string, now time.Time) error {
	note = strings.TrimSpace(note)
	if note == "" {
		return fmt.Errorf("note is empty")
	}
	if l.HasNotes() {
		l.Notes = strings.TrimRight(l.Notes, "\n") + "\n\n" + note
	} else {
		l.Notes = note
	}
	l.UpdatedAt = now
	return nil
}

func (l *Lead) Archive(now time.Time) error {
	if l.Archived {
		return fmt.Errorf("lead %q is already archived", l.Name)
	}
	t := now
	l.Archived = true
	l.ArchivedAt = &t
	l.UpdatedAt = now
	return nil
}

func (l *Lead) Restore(now time.Time) error {
	if !l.Archived {
		return fmt.Errorf("lead %q is not archived", l.Name)
	}
	l.Archived = false
	l.ArchivedAt = nil
	l.UpdatedAt = now
	return nil
}

// Convert attaches customer data and closes the lead as won. A conversion
// date set by an earlier conversion is kept.
func (l *Lead) Convert(data CustomerData, now time.Time) {
	l.Customer = &data
	l.ConvertedToCustomer = true
	if l.ConvertedAt == nil {
		t := now
		l.ConvertedAt = &t
	}
	l.Stage = StageClosedWon
	l.UpdatedAt = now
}

func (l *Lead) ArchiveCustomer(now time.Time) error {
	if !l.IsCustomer() {
		return fmt.Errorf("lead %q is not a customer", l.Name)
	}
	if l.Customer == nil {
		l.Customer = &CustomerData{}
	}
	if l.Customer.Archived {
		return fmt.Errorf("customer %q is already archived", l.Name)
	}
	t := now
	l.Customer.Archived = true
	l.Customer.ArchivedAt = &t
	l.UpdatedAt = now
	return nil
}

func (l *Lead) RestoreCustomer(now time.Time) error {
	if !l.IsCustomer() {
		return fmt.Errorf("lead %q is not a customer", l.Name)
	}
	if !l.CustomerArchived() {
		return fmt.Errorf("customer %q is not archived", l.Name)
	}
	l.Customer.Archived = false
	l.Customer.ArchivedAt = nil
	l.UpdatedAt = now
	return nil
}

// RevertConversion drops the customer record of a converted lead and marks
// the deal lost.
func (l *Lead) RevertConversion(now time.Time) {
	l.Customer = nil
	l.ConvertedToCustomer = false
	l.ConvertedAt = nil
	l.Stage = StageClosedLost
	l.UpdatedAt = now
}
