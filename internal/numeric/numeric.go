// =============================================================================
// Sales Analytics - Numeric Normalizer
// =============================================================================
//
// Quantities and prices in the transaction log are written by hand and often
// carry thousands separators ("1,916" or "1,234.50"). Every numeric read in
// the tool goes through Parse so that validation and aggregation agree on
// what a number is.
//
// RULES:
//   - All commas are removed before parsing
//   - Surrounding whitespace is ignored
//   - Empty input, stray characters, NaN and Inf are rejected
//
// =============================================================================

package numeric

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
)

// NumericFormatError is returned when a field cannot be read as a number.
type NumericFormatError struct {
	// Value is the original, unmodified field text.
	Value string

	// Err is the underlying parse failure, if any.
	Err error
}

// Error implements the error interface.
func (e *NumericFormatError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("invalid number %q: %v", e.Value, e.Err)
	}
	return fmt.Sprintf("invalid number %q", e.Value)
}

// Unwrap returns the underlying parse error.
func (e *NumericFormatError) Unwrap() error {
	return e.Err
}

// Parse strips thousands separators from s and parses the rest as a float64.
//
// PARAMETERS:
//   - s: The raw field text, e.g. "1,234.50".
//
// RETURNS:
//   - The parsed value.
//   - A *NumericFormatError if the text is not a finite number.
func Parse(s string) (float64, error) {
	cleaned := strings.TrimSpace(strings.ReplaceAll(s, ",", ""))
	if cleaned == "" {
		return 0, &NumericFormatError{Value: s}
	}

	v, err := strconv.ParseFloat(cleaned, 64)
	if err != nil {
		return 0, &NumericFormatError{Value: s, Err: err}
	}
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, &NumericFormatError{Value: s}
	}

	return v, nil
}

// exactDigits is enough fractional digits to hold the binary value of any
// amount the report can print without changing which side of a tie it is on.
const exactDigits = 30

// Round2 rounds v to two decimal places. It works on the binary value of v,
// not its shortest decimal form, and breaks exact ties to even: 1.005 is
// stored just below the tie and becomes 1, 0.125 is an exact tie and
// becomes 0.12.
func Round2(v float64) float64 {
	return decimal.NewFromFloatWithExponent(v, -exactDigits).RoundBank(2).InexactFloat64()
}
