package formatter

import (
	"fmt"
	"strings"
	"time"

	"github.com/alexanderramin/leadpipe/internal/domain"
	"github.com/alexanderramin/leadpipe/internal/scoring"
)

// FormatLeadList renders leads as a table.
func FormatLeadList(leads []*domain.Lead, money Money, now time.Time) string {
	rows := make([][]string, 0, len(leads))
	for _, l := range leads {
		name := l.Name
		if l.Archived {
			name += " " + Dim("(archived)")
		}
		value := Dim("--")
		if l.ProjectedValue != nil {
			value = money.Format(*l.ProjectedValue)
		}
		rows = append(rows, []string{
			TruncID(l.ID),
			name,
			StageBadge(l.Stage),
			PriorityBadge(l.Priority),
			OrDash(string(l.Source)),
			value,
			FollowUp(l.FollowUpDate, now),
		})
	}
	return Table{
		Headers: []string{"ID", "NAME", "STAGE", "PRIORITY", "SOURCE", "VALUE", "FOLLOW-UP"},
		Rows:    rows,
		Right:   []int{5},
	}.Render()
}

// LeadDetail is everything shown by "lead show".
type LeadDetail struct {
	Lead       *domain.Lead
	Score      scoring.Breakdown
	Activities []*domain.Activity
}

func FormatLeadDetail(d LeadDetail, money Money, now time.Time) string {
	l := d.Lead
	var b strings.Builder

	b.WriteString(Bold(l.Name) + "  " + Dim(l.ID) + "\n\n")
	b.WriteString(field("Stage", StageBadge(l.Stage)))
	b.WriteString(field("Priority", PriorityBadge(l.Priority)))
	b.WriteString(field("Score", ScoreBadge(d.Score.Total)))
	b.WriteString(field("Source", OrDash(string(l.Source))))
	b.WriteString(field("Email", OrDash(l.Email)))
	b.WriteString(field("Phone", OrDash(l.Phone)))
	b.WriteString(field("Address", OrDash(l.Address)))
	if l.ProjectedValue != nil {
		b.WriteString(field("Value", money.Format(*l.ProjectedValue)))
	} else {
		b.WriteString(field("Value", Dim("--")))
	}
	b.WriteString(field("Follow-up", FollowUp(l.FollowUpDate, now)))
	b.WriteString(field("Contacted", Date(l.LastContactedAt)))
	b.WriteString(field("Created", l.CreatedAt.Format(dateLayout)))
	if l.Archived {
		b.WriteString(field("Archived", Date(l.ArchivedAt)))
	}
	if l.IsCustomer() {
		b.WriteString(field("Customer", StyleGreen.Render("yes")+" "+Dim("since "+Date(l.ConvertedAt))))
	}

	if strings.TrimSpace(l.Notes) != "" {
		b.WriteString("\n" + Header("Notes") + "\n")
		b.WriteString(l.Notes + "\n")
	}

	b.WriteString("\n" + FormatScoreBreakdown(d.Score))

	if len(d.Activities) > 0 {
		b.WriteString("\n" + Header("Activity") + "\n")
		b.WriteString(FormatActivityList(d.Activities, nil))
	}
	return b.String()
}

// FormatScoreBreakdown lists the component scores and the factors behind
// them.
func FormatScoreBreakdown(s scoring.Breakdown) string {
	var b strings.Builder
	b.WriteString(Header("Score") + "\n")
	b.WriteString(ScoreBadge(s.Total) + "\n\n")
	c := s.Components
	for _, row := range []struct {
		name  string
		score int
	}{
		{"Property value", c.PropertyValue},
		{"Engagement", c.Engagement},
		{"Timeline", c.Timeline},
		{"Qualification", c.Qualification},
	} {
		b.WriteString(fmt.Sprintf("  %-16s %2d/10\n", row.name, row.score))
	}
	if len(s.Factors.Positive)+len(s.Factors.Negative) > 0 {
		b.WriteString("\n")
	}
	for _, f := range s.Factors.Positive {
		b.WriteString("  " + StyleGreen.Render("+ "+f) + "\n")
	}
	for _, f := range s.Factors.Negative {
		b.WriteString("  " + StyleRed.Render("- "+f) + "\n")
	}
	return b.String()
}

// FormatRanked renders scored leads best first.
func FormatRanked(ranked []scoring.Ranked, now time.Time) string {
	rows := make([][]string, 0, len(ranked))
	for i, r := range ranked {
		rows = append(rows, []string{
			fmt.Sprintf("%d", i+1),
			TruncID(r.Lead.ID),
			r.Lead.Name,
			ScoreBadge(r.Breakdown.Total),
			StageBadge(r.Lead.Stage),
			FollowUp(r.Lead.FollowUpDate, now),
		})
	}
	return Table{
		Headers: []string{"#", "ID", "NAME", "SCORE", "STAGE", "FOLLOW-UP"},
		Rows:    rows,
		Right:   []int{0},
	}.Render()
}
