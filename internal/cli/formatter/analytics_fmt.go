package formatter

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/alexanderramin/leadpipe/internal/service"
)

const barWidth = 20

// FormatDashboard renders the analytics dashboard.
func FormatDashboard(d *service.Dashboard, money Money, names map[string]string) string {
	var b strings.Builder
	m := d.Metrics

	summary := field("Active leads", Count(m.TotalLeads)) +
		field("Customers", Count(m.Customers)) +
		field("Conversion", Percent(m.ConversionRate)) +
		field("Revenue", Bold(money.Format(m.TotalRevenue))) +
		field("Recurring", money.Format(m.RecurringRevenue)) +
		field("Avg deal", money.Format(m.AvgDealSize))
	b.WriteString(RenderBox("Pipeline", strings.TrimRight(summary, "\n")) + "\n\n")

	if len(d.Services) > 0 {
		rows := make([][]string, 0, len(d.Services))
		for _, s := range d.Services {
			rows = append(rows, []string{s.Service, Count(s.Count), money.Format(s.Revenue), money.Format(s.Average)})
		}
		b.WriteString(Header("Revenue by service") + "\n")
		b.WriteString(Table{Headers: []string{"SERVICE", "CUSTOMERS", "REVENUE", "AVERAGE"}, Rows: rows, Right: []int{1, 2, 3}}.Render())
		b.WriteString("\n")
	}

	most := 0
	for _, s := range d.Stages {
		most = max(most, s.Count)
	}
	b.WriteString(Header("Funnel") + "\n")
	for _, s := range d.Stages {
		b.WriteString(padRight(StageBadge(s.Stage), 14) + " " + bar(s.Count, most) + " " + Count(s.Count) + "\n")
	}
	b.WriteString("\n")

	if len(d.Sources) > 0 {
		rows := make([][]string, 0, len(d.Sources))
		for _, s := range d.Sources {
			rows = append(rows, []string{s.Source, Count(s.Count)})
		}
		b.WriteString(Header("Lead sources") + "\n")
		b.WriteString(Table{Headers: []string{"SOURCE", "LEADS"}, Rows: rows, Right: []int{1}}.Render())
		b.WriteString("\n")
	}

	if len(d.Trend) > 0 {
		rows := make([][]string, 0, len(d.Trend))
		for _, t := range d.Trend {
			rows = append(rows, []string{t.Month.Format("Jan 2006"), Count(t.Leads), Count(t.Converted), Percent(t.Rate)})
		}
		b.WriteString(Header("Conversion trend") + "\n")
		b.WriteString(Table{Headers: []string{"MONTH", "LEADS", "CONVERTED", "RATE"}, Rows: rows, Right: []int{1, 2, 3}}.Render())
	}

	if len(d.Recent) > 0 {
		b.WriteString("\n" + Header("Recent activity") + "\n")
		b.WriteString(FormatActivityList(d.Recent, names))
	}
	return b.String()
}

func bar(n, most int) string {
	if most == 0 {
		return Dim(strings.Repeat("░", barWidth))
	}
	filled := n * barWidth / most
	return StyleGreen.Render(strings.Repeat("█", filled)) + Dim(strings.Repeat("░", barWidth-filled))
}

func padRight(s string, w int) string {
	return s + strings.Repeat(" ", max(w-lipgloss.Width(s), 0))
}
