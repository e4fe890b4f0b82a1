// Package analytics aggregates revenue and funnel metrics over a snapshot
// of leads.
package analytics

import (
	"math"
	"sort"
	"strings"
	"time"

	"github.com/alexanderramin/leadpipe/internal/domain"
	"github.com/alexanderramin/leadpipe/internal/valuation"
)

const (
	uncategorized = "Uncategorized"
	directSource  = "Direct"
)

// DefaultTrendMonths is the window of the conversion trend on the dashboard.
const DefaultTrendMonths = 6

type Metrics struct {
	TotalLeads       int
	Customers        int
	ConversionRate   float64
	AvgDealSize      float64
	TotalRevenue     float64
	RecurringRevenue float64
}

// Summarize computes the headline metrics. Customers are converted leads
// whose customer record is not archived; active leads are neither archived
// nor converted.
func Summarize(leads []domain.Lead) Metrics {
	var m Metrics
	for i := range leads {
		l := &leads[i]
		if l.ActiveLead() {
			m.TotalLeads++
		}
		if !l.ActiveCustomer() {
			continue
		}
		m.Customers++
		v := valuation.ContractValue(*l)
		m.TotalRevenue += v
		if recurring(l) {
			m.RecurringRevenue += v
		}
	}
	if m.Customers > 0 {
		m.AvgDealSize = m.TotalRevenue / float64(m.Customers)
	}
	if m.TotalLeads > 0 {
		m.ConversionRate = float64(m.Customers) / float64(m.TotalLeads) * 100
	}
	return m
}

// recurring treats a customer without a job type as recurring; only an
// explicit One-Time contract is excluded.
func recurring(l *domain.Lead) bool {
	return l.Customer == nil || l.Customer.JobType != domain.FrequencyOneTime
}

type ServiceRevenue struct {
	Service string
	Count   int
	Revenue float64
	Average float64
}

// ServiceBreakdown groups active customers by service type, highest revenue
// first.
func ServiceBreakdown(leads []domain.Lead) []ServiceRevenue {
	index := map[string]int{}
	var out []ServiceRevenue
	for i := range leads {
		l := &leads[i]
		if !l.ActiveCustomer() {
			continue
		}
		service := uncategorized
		if l.Customer != nil && strings.TrimSpace(l.Customer.JobTitle) != "" {
			service = strings.TrimSpace(l.Customer.JobTitle)
		}
		j, ok := index[service]
		if !ok {
			j = len(out)
			index[service] = j
			out = append(out, ServiceRevenue{Service: service})
		}
		out[j].Count++
		out[j].Revenue += valuation.ContractValue(*l)
	}
	for i := range out {
		out[i].Average = out[i].Revenue / float64(out[i].Count)
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Revenue != out[j].Revenue {
			return out[i].Revenue > out[j].Revenue
		}
		return out[i].Service < out[j].Service
	})
	return out
}

type StageCount struct {
	Stage domain.Stage
	Count int
}

// LeadsByStage counts leads per funnel stage, one row per stage in funnel
// order.
func LeadsByStage(leads []domain.Lead) []StageCount {
	stages := domain.Stages()
	out := make([]StageCount, len(stages))
	for i, s := range stages {
		out[i].Stage = s
	}
	for _, l := range leads {
		if i := l.Stage.Index(); i >= 0 {
			out[i].Count++
		}
	}
	return out
}

type SourceCount struct {
	Source string
	Count  int
}

// LeadSources counts leads per source, most common first. Leads without a
// source count as Direct.
func LeadSources(leads []domain.Lead) []SourceCount {
	counts := map[string]int{}
	for _, l := range leads {
		src := strings.TrimSpace(string(l.Source))
		if src == "" {
			src = directSource
		}
		counts[src]++
	}
	out := make([]SourceCount, 0, len(counts))
	for s, n := range counts {
		out = append(out, SourceCount{Source: s, Count: n})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Count != out[j].Count {
			return out[i].Count > out[j].Count
		}
		return out[i].Source < out[j].Source
	})
	return out
}

type MonthRate struct {
	Month     time.Time
	Leads     int
	Converted int
	Rate      float64
}

// ConversionTrend reports, for each of the last months calendar months up to
// and including the month of now, how many leads were created in the month
// and the percentage of those converted within the same month.
func ConversionTrend(leads []domain.Lead, now time.Time, months int) []MonthRate {
	if months <= 0 {
		return nil
	}
	current := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())
	out := make([]MonthRate, months)
	for i := range out {
		out[i].Month = current.AddDate(0, i-months+1, 0)
	}
	for _, l := range leads {
		for i := range out {
			start := out[i].Month
			end := start.AddDate(0, 1, 0)
			if i == len(out)-1 && now.Before(end) {
				end = now.Add(time.Nanosecond)
			}
			if !inRange(l.CreatedAt, start, end) {
				continue
			}
			out[i].Leads++
			if l.ConvertedToCustomer && l.ConvertedAt != nil && inRange(*l.ConvertedAt, start, end) {
				out[i].Converted++
			}
		}
	}
	for i := range out {
		if out[i].Leads > 0 {
			out[i].Rate = roundTo(float64(out[i].Converted)/float64(out[i].Leads)*100, 1)
		}
	}
	return out
}

func inRange(t, start, end time.Time) bool {
	return !t.Before(start) && t.Before(end)
}

func roundTo(v float64, places int) float64 {
	p := math.Pow(10, float64(places))
	return math.Round(v*p) / p
}

type Rates struct {
	OpenRate       float64
	ClickRate      float64
	ConversionRate float64
}

// CampaignRates derives the funnel percentages of a campaign: opens per send,
// clicks per open and conversions per click. A rate is 0 when its
// denominator is.
func CampaignRates(m domain.Metrics) Rates {
	return Rates{
		OpenRate:       percent(m.Opened, m.Sent),
		ClickRate:      percent(m.Clicked, m.Opened),
		ConversionRate: percent(m.Converted, m.Clicked),
	}
}

func percent(n, d int) float64 {
	if d <= 0 {
		return 0
	}
	return float64(n) / float64(d) * 100
}
