package importer

import (
	_ "embed"
	"encoding/json"
	"fmt"
	"os"
)

//go:embed schemas/leads.schema.json
var leadsSchema []byte

// LeadImport is one lead in an import file. The file itself is a JSON array
// of these.
type LeadImport struct {
	Name           string          `json:"name"`
	Email          string          `json:"email,omitempty"`
	Phone          string          `json:"phone,omitempty"`
	Address        string          `json:"address,omitempty"`
	Notes          string          `json:"notes,omitempty"`
	Priority       string          `json:"priority,omitempty"`
	Stage          string          `json:"stage,omitempty"`
	Source         string          `json:"source,omitempty"`
	ProjectedValue *float64        `json:"projectedValue,omitempty"`
	FollowUpDate   *string         `json:"followUpDate,omitempty"`
	Customer       *CustomerImport `json:"customer,omitempty"`
}

// CustomerImport marks the imported lead as already converted.
type CustomerImport struct {
	FirstName        string           `json:"firstName,omitempty"`
	LastName         string           `json:"lastName,omitempty"`
	CompanyName      string           `json:"companyName,omitempty"`
	Email            string           `json:"email,omitempty"`
	Phone            string           `json:"phone,omitempty"`
	JobTitle         string           `json:"jobTitle,omitempty"`
	JobType          string           `json:"jobType,omitempty"`
	MeasurementValue string           `json:"measurementValue,omitempty"`
	PropertyAddress  *AddressImport   `json:"propertyAddress,omitempty"`
	BillingAddress   *AddressImport   `json:"billingAddress,omitempty"`
	Notes            string           `json:"notes,omitempty"`
	LineItems        []LineItemImport `json:"lineItems,omitempty"`
}

type AddressImport struct {
	Street1 string `json:"street1,omitempty"`
	Street2 string `json:"street2,omitempty"`
	City    string `json:"city,omitempty"`
	State   string `json:"state,omitempty"`
	ZipCode string `json:"zipCode,omitempty"`
}

type LineItemImport struct {
	Description string `json:"description"`
	Price       string `json:"price"`
}

// Schema returns the embedded JSON Schema import files are checked against.
func Schema() []byte {
	return append([]byte(nil), leadsSchema...)
}

// ReadFile reads an import file without validating it.
func ReadFile(path string) ([]byte, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading import file: %w", err)
	}
	return data, nil
}

// Parse validates data against the schema and decodes it. Schema violations
// are returned together as a *ValidationError.
func Parse(data []byte) ([]LeadImport, error) {
	if errs := ValidateDocument(data); len(errs) > 0 {
		return nil, &ValidationError{Errs: errs}
	}
	return decode(data)
}

func decode(data []byte) ([]LeadImport, error) {
	var leads []LeadImport
	if err := json.Unmarshal(data, &leads); err != nil {
		return nil, fmt.Errorf("parsing import file: %w", err)
	}
	return leads, nil
}
