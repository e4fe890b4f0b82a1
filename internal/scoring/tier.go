package scoring

import (
	"sort"
	"strings"
	"time"

	"github.com/alexanderramin/leadpipe/internal/domain"
)

// Tier is the display bucket of a score.
type Tier string

const (
	TierPositive Tier = "positive"
	TierNeutral  Tier = "neutral"
	TierNegative Tier = "negative"
)

func ColorTier(score int) Tier {
	switch {
	case score >= 6:
		return TierPositive
	case score >= 4:
		return TierNeutral
	default:
		return TierNegative
	}
}

func Label(score int) string {
	switch {
	case score >= 8:
		return "Hot"
	case score >= 6:
		return "Warm"
	case score >= 4:
		return "Cool"
	default:
		return "Cold"
	}
}

type Ranked struct {
	Lead      domain.Lead
	Breakdown Breakdown
}

// Rank scores every lead and orders them by total descending, then by name.
func Rank(leads []domain.Lead, profile *domain.BusinessProfile, now time.Time) []Ranked {
	out := make([]Ranked, len(leads))
	for i, l := range leads {
		out[i] = Ranked{Lead: l, Breakdown: Score(l, profile, now)}
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Breakdown.Total != out[j].Breakdown.Total {
			return out[i].Breakdown.Total > out[j].Breakdown.Total
		}
		return strings.ToLower(out[i].Lead.Name) < strings.ToLower(out[j].Lead.Name)
	})
	return out
}
