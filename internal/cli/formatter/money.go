package formatter

import (
	"strings"

	"golang.org/x/text/currency"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// Money formats amounts in one currency, e.g. "$1,234.50" for USD.
type Money struct {
	unit    currency.Unit
	printer *message.Printer
}

// NewMoney returns a formatter for the ISO 4217 code. Unknown codes fall
// back to USD.
func NewMoney(code string) Money {
	unit, err := currency.ParseISO(strings.TrimSpace(code))
	if err != nil {
		unit = currency.USD
	}
	return Money{unit: unit, printer: message.NewPrinter(language.English)}
}

func (m Money) Format(v float64) string {
	sign := ""
	if v < 0 {
		sign, v = "-", -v
	}
	scale, _ := currency.Standard.Rounding(m.unit)
	return sign + m.printer.Sprint(currency.NarrowSymbol(m.unit)) + m.printer.Sprintf("%.*f", scale, v)
}

// Percent renders a 0-100 rate with one decimal.
func Percent(v float64) string {
	return message.NewPrinter(language.English).Sprintf("%.1f%%", v)
}

// Count renders an integer with thousands separators.
func Count(n int) string {
	return message.NewPrinter(language.English).Sprintf("%d", n)
}
