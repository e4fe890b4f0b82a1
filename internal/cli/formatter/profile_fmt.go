package formatter

import (
	"strings"

	"github.com/alexanderramin/leadpipe/internal/domain"
)

func FormatProfile(p *domain.BusinessProfile, money Money) string {
	var b strings.Builder
	b.WriteString(field("Name", OrDash(p.Name)))
	b.WriteString(field("Company", p.DisplayCompanyName()))
	b.WriteString(field("Industry", OrDash(string(p.Industry))))
	b.WriteString(field("CRM", OrDash(p.CRM)))
	b.WriteString(field("Website", OrDash(p.Website)))
	if p.HasAverage() {
		b.WriteString(field("Avg contract", money.Format(p.AvgContractValue)))
	} else {
		b.WriteString(field("Avg contract", Dim("not set (fixed thresholds)")))
	}
	b.WriteString(field("Lead sources", OrDash(strings.Join(p.LeadSources, ", "))))
	b.WriteString(field("Frequencies", OrDash(strings.Join(p.ServiceFrequencies, ", "))))

	if len(p.Services) > 0 {
		rows := make([][]string, 0, len(p.Services))
		for _, s := range p.Services {
			measure := Dim("--")
			if mf := s.MeasurementField; mf != nil {
				measure = mf.Label + " " + Dim("("+string(mf.Type)+")")
			}
			rows = append(rows, []string{s.Name, measure})
		}
		b.WriteString("\n" + Header("Services") + "\n")
		b.WriteString(RenderTable([]string{"SERVICE", "MEASUREMENT"}, rows))
	}
	return b.String()
}
