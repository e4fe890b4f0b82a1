package formatter

import (
	"strings"

	"github.com/alexanderramin/leadpipe/internal/domain"
	"github.com/alexanderramin/leadpipe/internal/valuation"
)

func FormatCustomerList(customers []*domain.Lead, money Money) string {
	rows := make([][]string, 0, len(customers))
	var total float64
	for _, l := range customers {
		var c domain.CustomerData
		if l.Customer != nil {
			c = *l.Customer
		}
		value := valuation.ContractValue(*l)
		total += value
		kind := Dim("converted")
		if l.IsDirectCustomer {
			kind = Dim("direct")
		}
		rows = append(rows, []string{
			TruncID(l.ID),
			l.Name,
			OrDash(c.JobTitle),
			OrDash(string(c.JobType)),
			money.Format(value),
			Date(l.ConvertedAt),
			kind,
		})
	}
	out := Table{
		Headers: []string{"ID", "NAME", "SERVICE", "FREQUENCY", "VALUE", "SINCE", "TYPE"},
		Rows:    rows,
		Right:   []int{4},
	}.Render()
	return out + "\n" + Dim("Total contract value: ") + Bold(money.Format(total)) + "\n"
}

func FormatCustomerDetail(l *domain.Lead, money Money) string {
	var b strings.Builder
	var c domain.CustomerData
	if l.Customer != nil {
		c = *l.Customer
	}

	b.WriteString(Bold(l.Name) + "  " + Dim(l.ID) + "\n\n")
	if c.Archived {
		b.WriteString(StyleDim.Render("✖ Archived customer") + "\n\n")
	}
	b.WriteString(field("Contact", OrDash(c.FullName())))
	b.WriteString(field("Company", OrDash(c.CompanyName)))
	b.WriteString(field("Email", OrDash(domain.CoalesceStr(c.Email, l.Email))))
	b.WriteString(field("Phone", OrDash(domain.CoalesceStr(c.Phone, l.Phone))))
	b.WriteString(field("Service", OrDash(c.JobTitle)))
	b.WriteString(field("Frequency", OrDash(string(c.JobType))))
	if c.MeasurementValue != "" {
		b.WriteString(field("Measurement", c.MeasurementValue))
	}
	b.WriteString(field("Property", OrDash(c.PropertyAddress.String())))
	if c.BillingAddress != nil {
		b.WriteString(field("Billing", OrDash(c.BillingAddress.String())))
	}
	b.WriteString(field("Customer since", Date(l.ConvertedAt)))

	if len(c.LineItems) > 0 {
		b.WriteString("\n" + Header("Line items") + "\n")
		rows := make([][]string, 0, len(c.LineItems))
		for _, item := range c.LineItems {
			rows = append(rows, []string{item.Description, money.Format(valuation.ParsePrice(item.Price))})
		}
		b.WriteString(Table{Headers: []string{"DESCRIPTION", "PRICE"}, Rows: rows, Right: []int{1}}.Render())
	}

	b.WriteString("\n")
	b.WriteString(field("Per visit", money.Format(valuation.LineItemsTotal(c.LineItems))))
	b.WriteString(field("Visits", Count(c.JobType.Multiplier())))
	b.WriteString(field("Contract", Bold(money.Format(valuation.ContractValue(*l)))))

	if strings.TrimSpace(c.Notes) != "" {
		b.WriteString("\n" + Header("Notes") + "\n" + c.Notes + "\n")
	}
	return b.String()
}
