package domain

import (
	"fmt"
	"strings"
)

type Priority string

const (
	PriorityLow    Priority = "Low"
	PriorityMedium Priority = "Medium"
	PriorityHigh   Priority = "High"
)

var priorities = []Priority{PriorityLow, PriorityMedium, PriorityHigh}

// Priorities returns every priority, lowest first.
func Priorities() []Priority {
	return append([]Priority(nil), priorities...)
}

func (p Priority) Valid() bool {
	switch p {
	case PriorityLow, PriorityMedium, PriorityHigh:
		return true
	}
	return false
}

// ParsePriority accepts a priority name in any case.
func ParsePriority(s string) (Priority, error) {
	for _, p := range priorities {
		if strings.EqualFold(string(p), strings.TrimSpace(s)) {
			return p, nil
		}
	}
	return "", fmt.Errorf("invalid priority %q (expected Low, Medium or High)", s)
}

// Stage is a position in the sales funnel. The declaration order of the
// constants is the funnel order.
type Stage string

const (
	StageNewLead      Stage = "New Lead"
	StageQualified    Stage = "Qualified"
	StageProposalSent Stage = "Proposal Sent"
	StageNegotiation  Stage = "Negotiation"
	StageClosedWon    Stage = "Closed-Won"
	StageClosedLost   Stage = "Closed-Lost"
)

var stages = []Stage{
	StageNewLead,
	StageQualified,
	StageProposalSent,
	StageNegotiation,
	StageClosedWon,
	StageClosedLost,
}

// Stages returns the funnel stages in order.
func Stages() []Stage {
	return append([]Stage(nil), stages...)
}

func (s Stage) Valid() bool {
	return s.Index() >= 0
}

// Index returns the funnel position of s, or -1 for an unknown stage.
func (s Stage) Index() int {
	for i, st := range stages {
		if st == s {
			return i
		}
	}
	return -1
}

// Closed reports whether s is a terminal stage.
func (s Stage) Closed() bool {
	return s == StageClosedWon || s == StageClosedLost
}

// ParseStage accepts the display name or a slug such as "proposal-sent",
// "closed_won" or "newlead".
func ParseStage(s string) (Stage, error) {
	key := enumKey(s)
	for _, st := range stages {
		if enumKey(string(st)) == key {
			return st, nil
		}
	}
	return "", fmt.Errorf("invalid stage %q (expected one of: %s)", s, joinStages())
}

func enumKey(s string) string {
	return strings.NewReplacer(" ", "", "-", "", "_", "").Replace(strings.ToLower(strings.TrimSpace(s)))
}

func joinStages() string {
	names := make([]string, len(stages))
	for i, st := range stages {
		names[i] = string(st)
	}
	return strings.Join(names, ", ")
}

// ServiceFrequency is how often a customer's service recurs within one
// reporting period.
type ServiceFrequency string

const (
	FrequencyOneTime      ServiceFrequency = "One-Time"
	FrequencyAnnually     ServiceFrequency = "Annually"
	FrequencySemiAnnually ServiceFrequency = "Semi-Annually"
	FrequencyQuarterly    ServiceFrequency = "Quarterly"
	FrequencyBiMonthly    ServiceFrequency = "Bi-Monthly"
	FrequencyMonthly      ServiceFrequency = "Monthly"
)

var frequencies = []ServiceFrequency{
	FrequencyOneTime,
	FrequencyAnnually,
	FrequencySemiAnnually,
	FrequencyQuarterly,
	FrequencyBiMonthly,
	FrequencyMonthly,
}

// ServiceFrequencies returns the known frequencies, least frequent first.
func ServiceFrequencies() []ServiceFrequency {
	return append([]ServiceFrequency(nil), frequencies...)
}

// Multiplier returns the number of occurrences per reporting period.
// Unknown and empty frequencies count once.
func (f ServiceFrequency) Multiplier() int {
	switch f {
	case FrequencyOneTime, FrequencyAnnually:
		return 1
	case FrequencySemiAnnually:
		return 2
	case FrequencyQuarterly:
		return 4
	case FrequencyBiMonthly:
		return 6
	case FrequencyMonthly:
		return 12
	default:
		return 1
	}
}

func (f ServiceFrequency) Known() bool {
	for _, k := range frequencies {
		if k == f {
			return true
		}
	}
	return false
}

// ParseServiceFrequency accepts a frequency name in any case; "onetime" and
// "one_time" are accepted for One-Time.
func ParseServiceFrequency(s string) (ServiceFrequency, error) {
	key := enumKey(s)
	for _, f := range frequencies {
		if enumKey(string(f)) == key {
			return f, nil
		}
	}
	return "", fmt.Errorf("invalid service frequency %q", s)
}

// LeadSource is the channel a lead arrived through. Sources are configured
// per business, so any non-empty value is accepted; the constants are the
// default set.
type LeadSource string

const (
	SourceWebsite     LeadSource = "Website"
	SourceReferral    LeadSource = "Referral"
	SourceGoogleAds   LeadSource = "Google Ads"
	SourceSocialMedia LeadSource = "Social Media"
	SourceDoorHanger  LeadSource = "Door Hanger"
	SourceYardSign    LeadSource = "Yard Sign"
	SourceHomeShow    LeadSource = "Home Show"
	SourceNextdoor    LeadSource = "Nextdoor"
	SourceDirectMail  LeadSource = "Direct Mail"
	SourceOther       LeadSource = "Other"
)

// DefaultLeadSources is the source list of a fresh business profile.
var DefaultLeadSources = []LeadSource{
	SourceWebsite, SourceReferral, SourceGoogleAds, SourceSocialMedia,
	SourceDoorHanger, SourceYardSign, SourceHomeShow, SourceNextdoor,
	SourceDirectMail, SourceOther,
}

type ActivityType string

const (
	ActivityCreated      ActivityType = "created"
	ActivityStageChanged ActivityType = "stage_changed"
	ActivityContacted    ActivityType = "contacted"
	ActivityNoteAdded    ActivityType = "note_added"
	ActivityUpdated      ActivityType = "updated"
	ActivityConverted    ActivityType = "converted"
	ActivityArchived     ActivityType = "archived"
	ActivityRestored     ActivityType = "restored"
)

// Channel is the delivery channel of a contact or campaign.
type Channel string

const (
	ChannelEmail Channel = "email"
	ChannelSMS   Channel = "sms"
)

func ParseChannel(s string) (Channel, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "email":
		return ChannelEmail, nil
	case "sms":
		return ChannelSMS, nil
	}
	return "", fmt.Errorf("invalid channel %q (expected email or sms)", s)
}
