// =============================================================================
// Sales Analytics - Cleaning Pipeline
// =============================================================================
//
// The pipeline partitions the lines of a transaction log into accepted and
// rejected lines in a single pass.
//
// PIPELINE:
//   1. The first line is the header; it is copied to the output unchanged and
//      not counted.
//   2. Blank lines are skipped; they are neither counted nor emitted.
//   3. Every other line is split on '|', trimmed and validated.
//   4. Accepted lines are cleaned and re-joined with '|'.
//   5. Rejected lines are kept exactly as read, and a reason entry of the form
//      "REASON: <trimmed line>" is recorded.
//
// Process is a pure function of its input. Relative order is preserved within
// both partitions.
//
// =============================================================================

package cleaning

import (
	"fmt"
	"strings"

	"github.com/ginjaninja78/sales-analytics/internal/salesfile"
	"github.com/ginjaninja78/sales-analytics/internal/types"
	"github.com/ginjaninja78/sales-analytics/internal/validation"
)

// =============================================================================
// RESULT STRUCTURE
// =============================================================================

// Counters tallies the records seen by one pipeline run.
type Counters struct {
	Total   int `json:"total"`
	Valid   int `json:"valid"`
	Invalid int `json:"invalid"`
}

// Rejection describes one rejected line.
type Rejection struct {
	// LineNumber is the 1-based position of the line in the input.
	LineNumber int

	// Line is the original, untouched line.
	Line string

	// Result carries the reason and offending field.
	Result validation.Result
}

// String renders the rejection as "REASON: <trimmed line>".
func (r Rejection) String() string {
	return fmt.Sprintf("%s: %s", r.Result.Reason, strings.TrimSpace(r.Line))
}

// Result is the outcome of a pipeline run.
type Result struct {
	// Valid holds the header (when present) followed by the cleaned lines.
	Valid []string

	// Invalid holds the rejected lines exactly as read.
	Invalid []string

	// Rejections explains each entry of Invalid, in the same order.
	Rejections []Rejection

	Counters Counters
}

// Reasons returns the reason log entries, one per rejected line.
func (r *Result) Reasons() []string {
	reasons := make([]string, len(r.Rejections))
	for i, rej := range r.Rejections {
		reasons[i] = rej.String()
	}
	return reasons
}

// ReasonCounts tallies rejections by reason, in first-seen order.
func (r *Result) ReasonCounts() ([]validation.Reason, map[validation.Reason]int) {
	var order []validation.Reason
	counts := make(map[validation.Reason]int)
	for _, rej := range r.Rejections {
		if _, seen := counts[rej.Result.Reason]; !seen {
			order = append(order, rej.Result.Reason)
		}
		counts[rej.Result.Reason]++
	}
	return order, counts
}

// Header returns the header line, or "" for empty input.
func (r *Result) Header() string {
	if len(r.Valid) == 0 {
		return ""
	}
	return r.Valid[0]
}

// Transactions converts the accepted lines into transactions.
func (r *Result) Transactions() []types.Transaction {
	return types.TransactionsFromLines(r.Valid)
}

// =============================================================================
// MAIN PROCESSING FUNCTION
// =============================================================================

// Process runs the cleaning pipeline over lines.
//
// PARAMETERS:
//   - lines: The file lines without terminators; lines[0] is the header.
//
// RETURNS:
//   - A Result partitioning the data lines into valid and invalid.
func Process(lines []string) *Result {
	result := &Result{
		Valid:      make([]string, 0, len(lines)),
		Invalid:    []string{},
		Rejections: []Rejection{},
	}
	if len(lines) == 0 {
		return result
	}

	result.Valid = append(result.Valid, lines[0])

	for i, line := range lines[1:] {
		if salesfile.IsBlank(line) {
			continue
		}
		result.Counters.Total++

		fields := salesfile.ParseLine(line)
		check := validation.ValidateRaw(fields)
		if !check.OK() {
			result.Counters.Invalid++
			result.Invalid = append(result.Invalid, line)
			result.Rejections = append(result.Rejections, Rejection{
				LineNumber: i + 2,
				Line:       line,
				Result:     check,
			})
			continue
		}

		result.Counters.Valid++
		result.Valid = append(result.Valid, salesfile.JoinFields(CleanRecord(fields)))
	}

	return result
}
