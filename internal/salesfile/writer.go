// =============================================================================
// Sales Analytics - Sales File Writer
// =============================================================================
//
// Output files use the same pipe-delimited layout as the input. Every file is
// written through a temporary sibling and renamed into place, so a failure in
// one stage never leaves a half-written file behind for another stage.
//
// =============================================================================

package salesfile

import (
	"strconv"

	"github.com/ginjaninja78/sales-analytics/internal/types"
	"github.com/ginjaninja78/sales-analytics/pkg/utils"
)

// WriteLines writes lines to path, one per line, replacing any existing file.
func WriteLines(path string, lines []string) error {
	if err := utils.WriteLinesAtomic(path, lines); err != nil {
		return &FileError{Op: "write", Path: path, Err: err}
	}
	return nil
}

// WriteEnriched writes the enriched transactions with the enriched header.
//
// OUTPUT FORMAT:
//   TransactionID|...|Region|API_Category|API_Brand|API_Rating|API_Match
//   Missing API values and a zero rating are written as empty fields, and
//   API_Match as True/False.
func WriteEnriched(path string, records []types.EnrichedTransaction) error {
	lines := make([]string, 0, len(records)+1)
	lines = append(lines, JoinFields(types.EnrichedHeader))
	for _, rec := range records {
		lines = append(lines, JoinFields(EnrichedFields(rec)))
	}
	return WriteLines(path, lines)
}

// EnrichedFields renders one enriched transaction in EnrichedHeader order.
func EnrichedFields(rec types.EnrichedTransaction) []string {
	fields := rec.Transaction.Fields()

	category, brand, rating := "", "", ""
	if rec.APICategory != nil {
		category = *rec.APICategory
	}
	if rec.APIBrand != nil {
		brand = *rec.APIBrand
	}
	if rec.APIRating != nil && *rec.APIRating != 0 {
		rating = strconv.FormatFloat(*rec.APIRating, 'f', -1, 64)
	}

	return append(fields, category, brand, rating, matchText(rec.APIMatch))
}

func matchText(match bool) string {
	if match {
		return "True"
	}
	return "False"
}
