// =============================================================================
// Sales Analytics - Record Cleaner
// =============================================================================
//
// The cleaner normalizes the fields of a record that has already passed
// validation. It works as a small table of per-field rules, each rule being
// an ordered list of actions applied to the field value.
//
// FIELD RULES:
//   - every field         : trim surrounding whitespace
//   - ProductName (3)     : replace each ',' with a single space
//   - Quantity (4)        : strip ',' when the value is purely numeric
//   - UnitPrice (5)       : strip ',' when the value is purely numeric
//
// Cleaning never changes the number or order of fields and is idempotent:
// cleaning a cleaned record returns it unchanged.
//
// =============================================================================

package cleaning

import (
	"regexp"
	"strings"

	"github.com/ginjaninja78/sales-analytics/internal/types"
)

// numericPattern matches values made only of digits, commas, dots and minus.
var numericPattern = regexp.MustCompile(`^[\d,.\-]+$`)

// Action is a single field transformation.
type Action func(value string) string

// Trim removes surrounding whitespace.
func Trim(value string) string {
	return strings.TrimSpace(value)
}

// CommasToSpaces replaces every comma with a single space.
func CommasToSpaces(value string) string {
	return strings.ReplaceAll(value, ",", " ")
}

// StripNumericSeparators removes commas from purely numeric text and leaves
// anything else untouched.
func StripNumericSeparators(value string) string {
	if numericPattern.MatchString(value) {
		return strings.ReplaceAll(value, ",", "")
	}
	return value
}

// fieldRules lists the actions applied to specific field positions after the
// common trim.
var fieldRules = map[int][]Action{
	types.FieldProductName: {CommasToSpaces},
	types.FieldQuantity:    {StripNumericSeparators},
	types.FieldUnitPrice:   {StripNumericSeparators},
}

// CleanRecord returns a cleaned copy of fields. The input is not modified.
func CleanRecord(fields []string) []string {
	cleaned := make([]string, len(fields))
	for i, value := range fields {
		value = Trim(value)
		for _, action := range fieldRules[i] {
			value = action(value)
		}
		// Trim again: "Laptop," would otherwise keep a trailing space and
		// change on a second pass.
		cleaned[i] = Trim(value)
	}
	return cleaned
}
