package importer

import (
	"fmt"
	"strings"
	"time"

	"github.com/xeipuuv/gojsonschema"
)

// ValidationError collects every problem found in an import file.
type ValidationError struct {
	Errs []error
}

func (e *ValidationError) Error() string {
	var b strings.Builder
	fmt.Fprintf(&b, "import validation failed (%d errors):", len(e.Errs))
	for _, err := range e.Errs {
		b.WriteString("\n  - ")
		b.WriteString(err.Error())
	}
	return b.String()
}

// ValidateDocument checks raw JSON against the embedded schema and the date
// rules the schema cannot express. Returns a slice of all errors found.
func ValidateDocument(data []byte) []error {
	schemaLoader := gojsonschema.NewBytesLoader(leadsSchema)
	documentLoader := gojsonschema.NewBytesLoader(data)

	result, err := gojsonschema.Validate(schemaLoader, documentLoader)
	if err != nil {
		return []error{fmt.Errorf("invalid JSON: %w", err)}
	}

	var errs []error
	for _, desc := range result.Errors() {
		errs = append(errs, fmt.Errorf("%s: %s", desc.Field(), desc.Description()))
	}
	if len(errs) > 0 {
		return errs
	}
	return validateDates(data)
}

// validateDates runs on schema-valid documents only, so decoding succeeds.
func validateDates(data []byte) []error {
	leads, err := decode(data)
	if err != nil {
		return []error{err}
	}
	var errs []error
	for i, l := range leads {
		if l.FollowUpDate == nil {
			continue
		}
		if _, err := time.Parse(dateLayout, *l.FollowUpDate); err != nil {
			errs = append(errs, fmt.Errorf("%d.followUpDate: invalid date %q (expected YYYY-MM-DD)", i, *l.FollowUpDate))
		}
	}
	return errs
}
