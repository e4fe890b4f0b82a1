// Package scoring rates how likely a lead is to close, on a 0-10 scale.
package scoring

import (
	"math"
	"time"

	"github.com/alexanderramin/leadpipe/internal/domain"
)

// Each component contributes a quarter of the total.
const componentWeight = 0.25

// Fallback projected-value thresholds used when the business profile has no
// contract average.
const (
	highValueThreshold     = 10000
	goodValueThreshold     = 5000
	moderateValueThreshold = 2500
)

const followUpWindow = 7 * 24 * time.Hour

type Components struct {
	PropertyValue int
	Engagement    int
	Timeline      int
	Qualification int
}

func (c Components) Sum() int {
	return c.PropertyValue + c.Engagement + c.Timeline + c.Qualification
}

type Factors struct {
	Positive []string
	Negative []string
}

type Breakdown struct {
	Total      int
	Components Components
	Factors    Factors
}

type input struct {
	lead    domain.Lead
	profile *domain.BusinessProfile
	now     time.Time
}

type factor struct {
	text     string
	positive bool
}

func pos(text string) factor { return factor{text: text, positive: true} }
func neg(text string) factor { return factor{text: text} }

// Score computes the breakdown of lead at instant now. profile may be nil, in
// which case projected values are judged against fixed thresholds.
func Score(lead domain.Lead, profile *domain.BusinessProfile, now time.Time) Breakdown {
	in := input{lead: lead, profile: profile, now: now}

	var b Breakdown
	components := []struct {
		dst *int
		fn  func(input) (int, []factor)
	}{
		{&b.Components.PropertyValue, scorePropertyValue},
		{&b.Components.Engagement, scoreEngagement},
		{&b.Components.Timeline, scoreTimeline},
		{&b.Components.Qualification, scoreQualification},
	}
	for _, c := range components {
		score, factors := c.fn(in)
		*c.dst = score
		for _, f := range factors {
			if f.positive {
				b.Factors.Positive = append(b.Factors.Positive, f.text)
			} else {
				b.Factors.Negative = append(b.Factors.Negative, f.text)
			}
		}
	}

	b.Total = int(math.Round(float64(b.Components.Sum()) * componentWeight))
	return b
}

func scorePropertyValue(in input) (int, []factor) {
	if pv := in.lead.ProjectedValue; pv == nil || *pv == 0 || math.IsNaN(*pv) || math.IsInf(*pv, 0) {
		return 0, []factor{neg("No projected value set")}
	}
	v := *in.lead.ProjectedValue

	if in.profile.HasAverage() {
		avg := in.profile.AvgContractValue
		switch {
		case v >= avg*1.5:
			return 10, []factor{pos("High-value opportunity (above average)")}
		case v >= avg:
			return 8, []factor{pos("Above average contract value")}
		case v >= avg*0.5:
			return 6, []factor{pos("Moderate contract value")}
		default:
			return 4, []factor{neg("Below average contract value")}
		}
	}

	switch {
	case v >= highValueThreshold:
		return 10, []factor{pos("High-value opportunity")}
	case v >= goodValueThreshold:
		return 8, []factor{pos("Good contract value")}
	case v >= moderateValueThreshold:
		return 6, []factor{pos("Moderate contract value")}
	default:
		return 4, []factor{neg("Low contract value")}
	}
}

func scoreEngagement(in input) (int, []factor) {
	contacted, notes := in.lead.Contacted(), in.lead.HasNotes()
	switch {
	case contacted && notes:
		return 10, []factor{pos("Active engagement with detailed notes")}
	case contacted:
		return 7, []factor{pos("Has been contacted")}
	case notes:
		return 5, []factor{neg("Has notes but no contact made")}
	default:
		return 0, []factor{neg("No engagement recorded")}
	}
}

func scoreTimeline(in input) (int, []factor) {
	if in.lead.FollowUpDate == nil {
		return 0, []factor{neg("No follow-up scheduled")}
	}
	d := *in.lead.FollowUpDate
	end := in.now.Add(followUpWindow)
	switch {
	case !d.Before(in.now) && !d.After(end):
		return 10, []factor{pos("Follow-up scheduled this week")}
	case d.After(in.now):
		return 7, []factor{pos("Future follow-up scheduled")}
	default:
		return 3, []factor{neg("Overdue follow-up")}
	}
}

func scoreQualification(in input) (int, []factor) {
	var score int
	var factors []factor

	switch in.lead.Stage {
	case domain.StageNegotiation:
		score += 5
		factors = append(factors, pos("In negotiation stage"))
	case domain.StageProposalSent:
		score += 4
		factors = append(factors, pos("Proposal sent"))
	case domain.StageQualified:
		score += 3
		factors = append(factors, pos("Lead qualified"))
	case domain.StageNewLead:
		score++
		factors = append(factors, neg("New lead, needs qualification"))
	}

	switch in.lead.Priority {
	case domain.PriorityHigh:
		score += 5
		factors = append(factors, pos("High priority lead"))
	case domain.PriorityMedium:
		score += 3
	case domain.PriorityLow:
		score++
		factors = append(factors, neg("Low priority lead"))
	}

	return score, factors
}
