package cli

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/pflag"

	"github.com/alexanderramin/leadpipe/internal/domain"
)

const dateLayout = "2006-01-02"

// parseOptionalDate parses a YYYY-MM-DD flag value; blank means unset.
func parseOptionalDate(s string) (*time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, nil
	}
	d, err := time.Parse(dateLayout, s)
	if err != nil {
		return nil, fmt.Errorf("invalid date %q (expected YYYY-MM-DD)", s)
	}
	return &d, nil
}

// parseOptionalAmount parses a money flag value; blank means unset.
func parseOptionalAmount(s string) (*float64, error) {
	s = strings.TrimSpace(strings.TrimPrefix(strings.TrimSpace(s), "$"))
	if s == "" {
		return nil, nil
	}
	v, err := strconv.ParseFloat(strings.ReplaceAll(s, ",", ""), 64)
	if err != nil {
		return nil, fmt.Errorf("invalid amount %q", s)
	}
	return &v, nil
}

// changedFloat returns &v when the named flag was set, nil otherwise.
func changedFloat(fs *pflag.FlagSet, name string, v float64) *float64 {
	if !fs.Changed(name) {
		return nil
	}
	return &v
}

func parseStages(values []string) ([]domain.Stage, error) {
	out := make([]domain.Stage, 0, len(values))
	for _, v := range values {
		s, err := domain.ParseStage(v)
		if err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, nil
}

func parsePriorities(values []string) ([]domain.Priority, error) {
	out := make([]domain.Priority, 0, len(values))
	for _, v := range values {
		p, err := domain.ParsePriority(v)
		if err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, nil
}

func parseFrequencies(values []string) ([]domain.ServiceFrequency, error) {
	out := make([]domain.ServiceFrequency, 0, len(values))
	for _, v := range values {
		f, err := domain.ParseServiceFrequency(v)
		if err != nil {
			return nil, err
		}
		out = append(out, f)
	}
	return out, nil
}

func toSources(values []string) []domain.LeadSource {
	out := make([]domain.LeadSource, 0, len(values))
	for _, v := range values {
		if v = strings.TrimSpace(v); v != "" {
			out = append(out, domain.LeadSource(v))
		}
	}
	return out
}

// parseLineItems reads "description=price" pairs.
func parseLineItems(values []string) ([]domain.LineItem, error) {
	items := make([]domain.LineItem, 0, len(values))
	for _, v := range values {
		desc, price, ok := strings.Cut(v, "=")
		if !ok || strings.TrimSpace(desc) == "" {
			return nil, fmt.Errorf("invalid line item %q (expected description=price)", v)
		}
		items = append(items, domain.LineItem{Description: strings.TrimSpace(desc), Price: strings.TrimSpace(price)})
	}
	return items, nil
}
