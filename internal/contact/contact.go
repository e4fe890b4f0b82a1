// Package contact validates email addresses and normalises phone numbers
// entered for leads and customers.
package contact

import (
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/nyaruka/phonenumbers"
)

// DefaultRegion is used for phone numbers written without a country code.
const DefaultRegion = "US"

var validate = validator.New()

// ValidateEmail reports an error for a non-empty string that is not an
// email address.
func ValidateEmail(email string) error {
	email = strings.TrimSpace(email)
	if err := validate.Var(email, "omitempty,email"); err != nil {
		return fmt.Errorf("invalid email %q", email)
	}
	return nil
}

// NormalizePhone formats a phone number to E.164. If parsing fails, or the
// number is not valid for its region, it returns the trimmed input.
func NormalizePhone(input, region string) string {
	trimmed := strings.TrimSpace(input)
	if trimmed == "" {
		return trimmed
	}
	if region == "" {
		region = DefaultRegion
	}

	number, err := phonenumbers.Parse(trimmed, strings.ToUpper(region))
	if err != nil {
		return trimmed
	}
	if !phonenumbers.IsValidNumber(number) {
		return trimmed
	}
	return phonenumbers.Format(number, phonenumbers.E164)
}
