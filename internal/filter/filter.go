// =============================================================================
// Sales Analytics - Filter Engine
// =============================================================================
//
// Narrows a transaction set in three stages and reports how many records each
// stage removed.
//
// STAGES:
//   1. strict validation      -> drops invalid records ("invalid")
//   2. region (optional)      -> case-insensitive exact match ("filtered_by_region")
//   3. amount range (optional)-> Quantity*UnitPrice within [min, max]
//                                ("filtered_by_amount")
//
// Either amount bound may be left open. Records whose amount cannot be
// computed are dropped by the amount stage when it is active.
//
// =============================================================================

package filter

import (
	"sort"
	"strings"

	"github.com/ginjaninja78/sales-analytics/internal/analytics"
	"github.com/ginjaninja78/sales-analytics/internal/types"
	"github.com/ginjaninja78/sales-analytics/internal/validation"
)

// Options selects the optional stages. Nil fields are not applied.
type Options struct {
	Region    *string
	MinAmount *float64
	MaxAmount *float64
}

// Funnel counts the records removed by each stage.
type Funnel struct {
	TotalInput       int `json:"total_input"`
	Invalid          int `json:"invalid"`
	FilteredByRegion int `json:"filtered_by_region"`
	FilteredByAmount int `json:"filtered_by_amount"`
	FinalCount       int `json:"final_count"`
}

// Rejected is a record dropped by strict validation.
type Rejected struct {
	Transaction types.Transaction
	Result      validation.Result
}

// Result is the outcome of Apply.
type Result struct {
	Transactions []types.Transaction
	Rejected     []Rejected
	Funnel       Funnel
}

// Apply runs the filter stages over txs, preserving input order.
func Apply(txs []types.Transaction, opts Options) Result {
	res := Result{
		Transactions: []types.Transaction{},
		Rejected:     []Rejected{},
	}
	res.Funnel.TotalInput = len(txs)

	// Stage 1: strict validation.
	valid := make([]types.Transaction, 0, len(txs))
	for _, tx := range txs {
		check := validation.ValidateTransaction(tx)
		if !check.OK() {
			res.Rejected = append(res.Rejected, Rejected{Transaction: tx, Result: check})
			continue
		}
		valid = append(valid, tx)
	}
	res.Funnel.Invalid = len(txs) - len(valid)

	// Stage 2: region.
	current := valid
	if opts.Region != nil {
		kept := make([]types.Transaction, 0, len(current))
		for _, tx := range current {
			if strings.EqualFold(tx.Region, *opts.Region) {
				kept = append(kept, tx)
			}
		}
		res.Funnel.FilteredByRegion = len(current) - len(kept)
		current = kept
	}

	// Stage 3: amount range.
	if opts.MinAmount != nil || opts.MaxAmount != nil {
		kept := make([]types.Transaction, 0, len(current))
		for _, p := range analytics.Scan(current) {
			if p.Status != analytics.OK {
				continue
			}
			if opts.MinAmount != nil && p.Amount < *opts.MinAmount {
				continue
			}
			if opts.MaxAmount != nil && p.Amount > *opts.MaxAmount {
				continue
			}
			kept = append(kept, p.Tx)
		}
		res.Funnel.FilteredByAmount = len(current) - len(kept)
		current = kept
	}

	res.Transactions = current
	res.Funnel.FinalCount = len(current)
	return res
}

// =============================================================================
// DISCOVERY HELPERS
// =============================================================================

// AvailableRegions returns the distinct non-empty regions, sorted.
func AvailableRegions(txs []types.Transaction) []string {
	seen := make(map[string]bool)
	regions := []string{}
	for _, tx := range txs {
		if tx.Region == "" || seen[tx.Region] {
			continue
		}
		seen[tx.Region] = true
		regions = append(regions, tx.Region)
	}
	sort.Strings(regions)
	return regions
}

// AmountRange returns the smallest and largest transaction amounts. The
// boolean is false when no amount could be computed.
func AmountRange(txs []types.Transaction) (lo, hi float64, ok bool) {
	for _, p := range analytics.Scan(txs) {
		if p.Status != analytics.OK {
			continue
		}
		if !ok || p.Amount < lo {
			lo = p.Amount
		}
		if !ok || p.Amount > hi {
			hi = p.Amount
		}
		ok = true
	}
	return lo, hi, ok
}
