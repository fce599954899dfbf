// =============================================================================
// Sales Analytics - Validation Engine
// =============================================================================
//
// This module decides whether a record is fit for analysis. There are two
// rule sets and they are intentionally not merged:
//
//   1. ValidateRaw runs during cleaning, on the split fields of a raw line.
//   2. ValidateTransaction runs before filtering, on a cleaned Transaction,
//      and additionally enforces the ProductID and CustomerID prefixes.
//
// Both rule sets are ordered and stop at the first failing check, so every
// rejected record carries exactly one Reason.
//
// =============================================================================

package validation

import (
	"errors"
	"fmt"
	"strings"

	"github.com/ginjaninja78/sales-analytics/internal/numeric"
	"github.com/ginjaninja78/sales-analytics/internal/types"
)

// =============================================================================
// REASON CODES
// =============================================================================

// Reason identifies why a record was accepted or rejected.
type Reason string

const (
	Valid                Reason = "VALID"
	ShortRecord          Reason = "SHORT_RECORD"
	MissingKeyField      Reason = "MISSING_KEY_FIELD"
	InvalidQuantity      Reason = "INVALID_QUANTITY"
	NonPositiveQuantity  Reason = "NON_POSITIVE_QUANTITY"
	InvalidPrice         Reason = "INVALID_PRICE"
	NonPositivePrice     Reason = "NON_POSITIVE_PRICE"
	BadTransactionPrefix Reason = "BAD_TRANSACTION_PREFIX"
	BadProductPrefix     Reason = "BAD_PRODUCT_PREFIX"
	BadCustomerPrefix    Reason = "BAD_CUSTOMER_PREFIX"
)

var reasonDescriptions = map[Reason]string{
	Valid:                "record is valid",
	ShortRecord:          "fewer than 8 fields",
	MissingKeyField:      "required field is empty",
	InvalidQuantity:      "quantity is not a number",
	NonPositiveQuantity:  "quantity must be greater than zero",
	InvalidPrice:         "unit price is not a number",
	NonPositivePrice:     "unit price must be greater than zero",
	BadTransactionPrefix: "TransactionID must start with 'T'",
	BadProductPrefix:     "ProductID must start with 'P'",
	BadCustomerPrefix:    "CustomerID must start with 'C'",
}

// Description returns a human-readable explanation of the reason.
func (r Reason) Description() string {
	if d, ok := reasonDescriptions[r]; ok {
		return d
	}
	return string(r)
}

// =============================================================================
// VALIDATION RESULT
// =============================================================================

// Result is the outcome of validating one record.
type Result struct {
	// Reason is Valid for accepted records.
	Reason Reason

	// Field names the offending field, when one can be singled out.
	Field string

	// Value is the offending field value.
	Value string

	// Err carries the numeric parse failure for the INVALID_* reasons.
	Err error
}

// OK reports whether the record was accepted.
func (r Result) OK() bool {
	return r.Reason == Valid
}

// ValidationError adapts a rejected Result to the error interface.
type ValidationError struct {
	Result
}

// Error implements the error interface.
func (e *ValidationError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("[%s] field '%s': %s (value: '%s')",
			e.Reason, e.Field, e.Reason.Description(), e.Value)
	}
	return fmt.Sprintf("[%s] %s", e.Reason, e.Reason.Description())
}

// Unwrap exposes the numeric parse failure, if any.
func (e *ValidationError) Unwrap() error {
	return e.Err
}

// AsError returns nil for accepted records and a *ValidationError otherwise.
func (r Result) AsError() error {
	if r.OK() {
		return nil
	}
	return &ValidationError{Result: r}
}

func accept() Result {
	return Result{Reason: Valid}
}

func reject(reason Reason, field, value string) Result {
	return Result{Reason: reason, Field: field, Value: value}
}

// =============================================================================
// CLEANING-TIME RULES
// =============================================================================

// ValidateRaw checks the trimmed fields of one raw line.
//
// CHECK ORDER (first failure wins):
//   1. fewer than 8 fields                      -> SHORT_RECORD
//   2. CustomerID or Region empty               -> MISSING_KEY_FIELD
//   3. Quantity unparseable / not positive      -> INVALID_QUANTITY / NON_POSITIVE_QUANTITY
//   4. UnitPrice unparseable / not positive     -> INVALID_PRICE / NON_POSITIVE_PRICE
//   5. TransactionID without the 'T' prefix     -> BAD_TRANSACTION_PREFIX
func ValidateRaw(fields []string) Result {
	if len(fields) < types.FieldCount {
		return reject(ShortRecord, "", strings.Join(fields, types.Delimiter))
	}

	if fields[types.FieldCustomerID] == "" {
		return reject(MissingKeyField, "CustomerID", "")
	}
	if fields[types.FieldRegion] == "" {
		return reject(MissingKeyField, "Region", "")
	}

	if r := checkQuantity(fields[types.FieldQuantity]); !r.OK() {
		return r
	}
	if r := checkPrice(fields[types.FieldUnitPrice]); !r.OK() {
		return r
	}

	if !strings.HasPrefix(fields[types.FieldTransactionID], "T") {
		return reject(BadTransactionPrefix, "TransactionID", fields[types.FieldTransactionID])
	}

	return accept()
}

// =============================================================================
// STRICT RULES
// =============================================================================

// ValidateTransaction applies the strict rule set used ahead of filtering.
//
// CHECK ORDER (first failure wins):
//   1. TransactionID, ProductID, CustomerID, Quantity, UnitPrice non-empty
//   2. Quantity parseable and positive
//   3. UnitPrice parseable and positive
//   4. prefixes: TransactionID 'T', ProductID 'P', CustomerID 'C'
func ValidateTransaction(tx types.Transaction) Result {
	required := []struct {
		name  string
		value string
	}{
		{"TransactionID", tx.TransactionID},
		{"ProductID", tx.ProductID},
		{"CustomerID", tx.CustomerID},
		{"Quantity", tx.Quantity},
		{"UnitPrice", tx.UnitPrice},
	}
	for _, f := range required {
		if strings.TrimSpace(f.value) == "" {
			return reject(MissingKeyField, f.name, f.value)
		}
	}

	if r := checkQuantity(tx.Quantity); !r.OK() {
		return r
	}
	if r := checkPrice(tx.UnitPrice); !r.OK() {
		return r
	}

	switch {
	case !strings.HasPrefix(tx.TransactionID, "T"):
		return reject(BadTransactionPrefix, "TransactionID", tx.TransactionID)
	case !strings.HasPrefix(tx.ProductID, "P"):
		return reject(BadProductPrefix, "ProductID", tx.ProductID)
	case !strings.HasPrefix(tx.CustomerID, "C"):
		return reject(BadCustomerPrefix, "CustomerID", tx.CustomerID)
	}

	return accept()
}

// =============================================================================
// SHARED NUMERIC CHECKS
// =============================================================================

func checkQuantity(value string) Result {
	return checkPositive(value, "Quantity", InvalidQuantity, NonPositiveQuantity)
}

func checkPrice(value string) Result {
	return checkPositive(value, "UnitPrice", InvalidPrice, NonPositivePrice)
}

func checkPositive(value, field string, invalid, nonPositive Reason) Result {
	v, err := numeric.Parse(value)
	if err != nil {
		r := reject(invalid, field, value)
		r.Err = err
		return r
	}
	if v <= 0 {
		return reject(nonPositive, field, value)
	}
	return accept()
}

// IsNumericFailure reports whether err stems from an unparseable number.
func IsNumericFailure(err error) bool {
	var nfe *numeric.NumericFormatError
	return errors.As(err, &nfe)
}
