package domain

import (
	"fmt"
	"math"
	"strings"
)

type Industry string

const (
	IndustryHomeService Industry = "Home Service"
	IndustrySaaS        Industry = "SaaS"
	IndustryOther       Industry = "Other"
)

type MeasurementType string

const (
	MeasurementNumber MeasurementType = "number"
	MeasurementText   MeasurementType = "text"
)

type MeasurementField struct {
	Label string          `json:"label" yaml:"label"`
	Type  MeasurementType `json:"type" yaml:"type"`
}

// Service is one service type the business sells. Customers reference it by
// name through CustomerData.JobTitle.
type Service struct {
	Name             string            `json:"name" yaml:"name"`
	MeasurementField *MeasurementField `json:"measurementField,omitempty" yaml:"measurementField,omitempty"`
}

// BusinessProfile describes the business using the pipeline. Scoring reads
// AvgContractValue; zero means unset.
type BusinessProfile struct {
	Name               string    `json:"name" yaml:"name"`
	CompanyName        string    `json:"companyName,omitempty" yaml:"companyName,omitempty"`
	Industry           Industry  `json:"industry" yaml:"industry"`
	CRM                string    `json:"crm" yaml:"crm"`
	Website            string    `json:"website,omitempty" yaml:"website,omitempty"`
	AvgContractValue   float64   `json:"avgContractValue,omitempty" yaml:"avgContractValue,omitempty"`
	LeadSources        []string  `json:"leadSources" yaml:"leadSources"`
	Services           []Service `json:"services" yaml:"services"`
	ServiceFrequencies []string  `json:"serviceFrequencies" yaml:"serviceFrequencies"`
}

// DefaultBusinessProfile is used until the user saves a profile.
func DefaultBusinessProfile() *BusinessProfile {
	sources := make([]string, len(DefaultLeadSources))
	for i, s := range DefaultLeadSources {
		sources[i] = string(s)
	}
	freqs := make([]string, len(frequencies))
	for i, f := range frequencies {
		freqs[i] = string(f)
	}
	return &BusinessProfile{
		Industry:           IndustryHomeService,
		CRM:                "None",
		LeadSources:        sources,
		Services:           []Service{},
		ServiceFrequencies: freqs,
	}
}

// DisplayCompanyName is the value substituted for {{companyName}}.
func (p *BusinessProfile) DisplayCompanyName() string {
	return CoalesceStr(strings.TrimSpace(p.CompanyName), strings.TrimSpace(p.Name), "Your Company Name")
}

// HasAverage reports whether the profile carries a usable contract average.
func (p *BusinessProfile) HasAverage() bool {
	return p != nil && p.AvgContractValue > 0
}

func (p *BusinessProfile) Validate() error {
	if v := p.AvgContractValue; v < 0 || math.IsNaN(v) || math.IsInf(v, 0) {
		return fmt.Errorf("average contract value must be a finite amount >= 0, got %g", v)
	}
	seen := make(map[string]bool, len(p.Services))
	for _, s := range p.Services {
		name := strings.TrimSpace(s.Name)
		if name == "" {
			return fmt.Errorf("service name is required")
		}
		key := strings.ToLower(name)
		if seen[key] {
			return fmt.Errorf("duplicate service %q", name)
		}
		seen[key] = true
		if mf := s.MeasurementField; mf != nil && mf.Type != MeasurementNumber && mf.Type != MeasurementText {
			return fmt.Errorf("service %q: invalid measurement type %q", name, mf.Type)
		}
	}
	return nil
}

// FindService looks a service up by name, ignoring case.
func (p *BusinessProfile) FindService(name string) (Service, bool) {
	for _, s := range p.Services {
		if strings.EqualFold(strings.TrimSpace(s.Name), strings.TrimSpace(name)) {
			return s, true
		}
	}
	return Service{}, false
}
