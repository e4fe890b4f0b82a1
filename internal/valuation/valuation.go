// Package valuation computes the contract value of customer records.
package valuation

import (
	"math"
	"regexp"
	"strconv"
	"strings"

	"github.com/alexanderramin/leadpipe/internal/domain"
)

var (
	decimalPrice     = regexp.MustCompile(`^(\d+\.?\d*|\.\d+)([eE][+-]?\d+)?$`)
	groupedThousands = regexp.MustCompile(`^\d{1,3}(,\d{3})+(\.\d*)?$`)
)

// ContractValue returns the value of a lead's customer contract over one
// reporting period: the sum of its line-item prices times the frequency
// multiplier of its job type. Leads without customer data or without line
// items are worth 0, and so is a contract whose value overflows.
func ContractValue(lead domain.Lead) float64 {
	if lead.Customer == nil || len(lead.Customer.LineItems) == 0 {
		return 0
	}
	return finite(LineItemsTotal(lead.Customer.LineItems) * float64(lead.Customer.JobType.Multiplier()))
}

// LineItemsTotal sums the parsed prices of items. A sum that overflows is 0.
func LineItemsTotal(items []domain.LineItem) float64 {
	var sum float64
	for _, item := range items {
		sum += ParsePrice(item.Price)
	}
	return finite(sum)
}

func finite(v float64) float64 {
	if math.IsInf(v, 0) || math.IsNaN(v) {
		return 0
	}
	return v
}

// ParsePrice reads a decimal price string such as "120", "120.50" or
// "$1,200". Commas are accepted only as thousands separators. Anything
// that is not a finite, non-negative decimal number is 0.
func ParsePrice(s string) float64 {
	s = strings.TrimPrefix(strings.TrimSpace(s), "$")
	if groupedThousands.MatchString(s) {
		s = strings.ReplaceAll(s, ",", "")
	}
	if !decimalPrice.MatchString(s) {
		return 0
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) || v < 0 {
		return 0
	}
	return v
}
