package formatter

import (
	"fmt"
	"strings"

	"github.com/alexanderramin/leadpipe/internal/analytics"
	"github.com/alexanderramin/leadpipe/internal/domain"
	"github.com/alexanderramin/leadpipe/internal/service"
)

func FormatCampaignList(campaigns []*domain.Campaign) string {
	rows := make([][]string, 0, len(campaigns))
	for _, c := range campaigns {
		rates := analytics.CampaignRates(c.Metrics)
		rows = append(rows, []string{
			TruncID(c.ID),
			c.Name,
			channelBadge(c.Type),
			Count(c.Metrics.Sent),
			Percent(rates.OpenRate),
			Percent(rates.ClickRate),
			Date(c.Metrics.LastSent),
		})
	}
	return Table{
		Headers: []string{"ID", "NAME", "TYPE", "SENT", "OPEN", "CLICK", "LAST SENT"},
		Rows:    rows,
		Right:   []int{3, 4, 5},
	}.Render()
}

func FormatCampaignDetail(c *domain.Campaign) string {
	var b strings.Builder
	b.WriteString(Bold(c.Name) + "  " + Dim(c.ID) + "\n\n")
	b.WriteString(field("Type", channelBadge(c.Type)))
	if c.Type == domain.ChannelEmail {
		b.WriteString(field("Subject", OrDash(c.Subject)))
	}
	b.WriteString(field("Targeting", FormatTargeting(c.Targeting)))
	b.WriteString("\n" + Header("Content") + "\n" + c.Content + "\n")
	b.WriteString("\n" + FormatCampaignMetrics(c))
	return b.String()
}

// FormatTargeting summarises the recipient filter on one line.
func FormatTargeting(t domain.Targeting) string {
	var parts []string
	if len(t.Stages) > 0 {
		parts = append(parts, "stages "+join(t.Stages))
	}
	if len(t.Priorities) > 0 {
		parts = append(parts, "priorities "+join(t.Priorities))
	}
	if len(t.Sources) > 0 {
		parts = append(parts, "sources "+join(t.Sources))
	}
	if t.IncludeCustomers {
		c := "customers"
		if len(t.CustomerServices) > 0 {
			c += " (services " + strings.Join(t.CustomerServices, ", ") + ")"
		}
		if len(t.CustomerFrequencies) > 0 {
			c += " (frequencies " + join(t.CustomerFrequencies) + ")"
		}
		parts = append(parts, c)
	}
	if len(parts) == 0 {
		return "all active leads"
	}
	return strings.Join(parts, "; ")
}

func FormatCampaignMetrics(c *domain.Campaign) string {
	m := c.Metrics
	r := analytics.CampaignRates(m)
	var b strings.Builder
	b.WriteString(Header("Metrics") + "\n")
	b.WriteString(field("Sent", Count(m.Sent)))
	b.WriteString(field("Opened", fmt.Sprintf("%s %s", Count(m.Opened), Dim(Percent(r.OpenRate)))))
	b.WriteString(field("Clicked", fmt.Sprintf("%s %s", Count(m.Clicked), Dim(Percent(r.ClickRate)))))
	b.WriteString(field("Converted", fmt.Sprintf("%s %s", Count(m.Converted), Dim(Percent(r.ConversionRate)))))
	b.WriteString(field("Last sent", Date(m.LastSent)))
	return b.String()
}

// FormatMessage renders one rendered campaign message.
func FormatMessage(m service.Message) string {
	var b strings.Builder
	b.WriteString(field("To", OrDash(m.To)+" "+Dim("("+m.Name+")")))
	if m.Subject != "" {
		b.WriteString(field("Subject", m.Subject))
	}
	b.WriteString("\n" + m.Body + "\n")
	return RenderBox("", strings.TrimRight(b.String(), "\n"))
}

func FormatSendResult(r *service.SendResult) string {
	var b strings.Builder
	b.WriteString(StyleGreen.Render(fmt.Sprintf("✔ Sent %q to %d recipient(s)", r.Campaign.Name, len(r.Messages))) + "\n")
	if r.Skipped > 0 {
		b.WriteString(StyleYellow.Render(fmt.Sprintf("  %d skipped without a %s address", r.Skipped, r.Campaign.Type)) + "\n")
	}
	for _, m := range r.Messages {
		b.WriteString("  " + Dim("→ ") + m.Name + " " + Dim(m.To) + "\n")
	}
	return b.String()
}

func channelBadge(c domain.Channel) string {
	switch c {
	case domain.ChannelEmail:
		return StyleBlue.Render("Email")
	case domain.ChannelSMS:
		return StylePurple.Render("SMS")
	default:
		return Dim(string(c))
	}
}

func join[T ~string](vs []T) string {
	s := make([]string, len(vs))
	for i, v := range vs {
		s[i] = string(v)
	}
	return strings.Join(s, ", ")
}
