// Package profile reads and writes the business profile as YAML.
package profile

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/alexanderramin/leadpipe/internal/domain"
)

// Decode reads a YAML profile. Lists left out of the document keep the
// default profile's values.
func Decode(r io.Reader) (*domain.BusinessProfile, error) {
	p := domain.DefaultBusinessProfile()
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(p); err != nil {
		if errors.Is(err, io.EOF) {
			return p, nil
		}
		return nil, fmt.Errorf("decoding profile: %w", err)
	}
	Normalize(p)
	if err := p.Validate(); err != nil {
		return nil, fmt.Errorf("invalid profile: %w", err)
	}
	return p, nil
}

// Encode writes p as YAML with two-space indentation.
func Encode(w io.Writer, p *domain.BusinessProfile) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(p); err != nil {
		return fmt.Errorf("encoding profile: %w", err)
	}
	return enc.Close()
}

// LoadFile decodes the profile stored at path.
func LoadFile(path string) (*domain.BusinessProfile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading profile: %w", err)
	}
	return Decode(bytes.NewReader(data))
}

// SaveFile writes p to path, replacing any existing file.
func SaveFile(path string, p *domain.BusinessProfile) error {
	var buf bytes.Buffer
	if err := Encode(&buf, p); err != nil {
		return err
	}
	if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
		return fmt.Errorf("writing profile: %w", err)
	}
	return nil
}

// Normalize fills empty lists and defaults that a stored or imported profile
// may lack.
func Normalize(p *domain.BusinessProfile) {
	def := domain.DefaultBusinessProfile()
	if p.Industry == "" {
		p.Industry = def.Industry
	}
	if p.CRM == "" {
		p.CRM = def.CRM
	}
	if len(p.LeadSources) == 0 {
		p.LeadSources = def.LeadSources
	}
	if len(p.ServiceFrequencies) == 0 {
		p.ServiceFrequencies = def.ServiceFrequencies
	}
	if p.Services == nil {
		p.Services = []domain.Service{}
	}
}
