// =============================================================================
// Sales Analytics - Enrichment Matcher
// =============================================================================
//
// Joins transactions with product metadata from the product catalog.
//
// MATCHING:
//   ProductID "P101" is looked up as catalog key 101. A single leading 'P' is
//   removed; whatever remains must parse as an integer. Any failure to derive
//   a key is treated exactly like a missing catalog entry: the record is kept
//   with empty API fields and API_Match=false. Matching never fails.
//
// =============================================================================

package enrichment

import (
	"sort"
	"strconv"
	"strings"

	"github.com/ginjaninja78/sales-analytics/internal/analytics"
	"github.com/ginjaninja78/sales-analytics/internal/numeric"
	"github.com/ginjaninja78/sales-analytics/internal/types"
)

// ProductKey derives the catalog key for a ProductID.
func ProductKey(productID string) (int, bool) {
	id, err := strconv.Atoi(strings.TrimPrefix(strings.TrimSpace(productID), "P"))
	if err != nil {
		return 0, false
	}
	return id, true
}

// Match enriches a single transaction.
func Match(tx types.Transaction, catalog types.Catalog) types.EnrichedTransaction {
	out := types.EnrichedTransaction{Transaction: tx}

	key, ok := ProductKey(tx.ProductID)
	if !ok {
		return out
	}
	info, ok := catalog[key]
	if !ok {
		return out
	}

	category, brand, rating := info.Category, info.Brand, info.Rating
	out.APICategory = &category
	out.APIBrand = &brand
	out.APIRating = &rating
	out.APIMatch = true
	return out
}

// =============================================================================
// BATCH ENRICHMENT
// =============================================================================

// Count is a label with its number of occurrences.
type Count struct {
	Name  string `json:"name"`
	Count int    `json:"count"`
}

// UnmatchedProduct identifies a product that had no catalog entry.
type UnmatchedProduct struct {
	ProductID   string `json:"product_id"`
	ProductName string `json:"product_name"`
}

// Summary reports how an enrichment pass went.
type Summary struct {
	Total     int `json:"total"`
	Matched   int `json:"matched"`
	Unmatched int `json:"unmatched"`

	// SuccessRate is Matched/Total as a percentage, rounded to two decimals.
	SuccessRate float64 `json:"success_rate"`

	// Categories and Brands count matched records, most frequent first.
	Categories []Count `json:"categories"`
	Brands     []Count `json:"brands"`

	// UnmatchedProducts lists distinct unmatched products in first-seen order.
	UnmatchedProducts []UnmatchedProduct `json:"unmatched_products"`
}

// Enrich matches every transaction against catalog, preserving order.
func Enrich(txs []types.Transaction, catalog types.Catalog) ([]types.EnrichedTransaction, Summary) {
	out := make([]types.EnrichedTransaction, len(txs))
	for i, tx := range txs {
		out[i] = Match(tx, catalog)
	}
	return out, Summarize(out)
}

// Summarize computes the Summary of already enriched records.
func Summarize(records []types.EnrichedTransaction) Summary {
	s := Summary{
		Total:             len(records),
		Categories:        []Count{},
		Brands:            []Count{},
		UnmatchedProducts: []UnmatchedProduct{},
	}

	categories := analytics.NewOrderedMap[string, int]()
	brands := analytics.NewOrderedMap[string, int]()
	seen := make(map[string]bool)

	for _, rec := range records {
		if rec.APIMatch {
			s.Matched++
			tally(categories, *rec.APICategory)
			tally(brands, *rec.APIBrand)
			continue
		}

		s.Unmatched++
		if !seen[rec.ProductID] {
			seen[rec.ProductID] = true
			s.UnmatchedProducts = append(s.UnmatchedProducts, UnmatchedProduct{
				ProductID:   rec.ProductID,
				ProductName: rec.ProductName,
			})
		}
	}

	if s.Total > 0 {
		s.SuccessRate = numeric.Round2(float64(s.Matched) / float64(s.Total) * 100)
	}
	s.Categories = sortedCounts(categories)
	s.Brands = sortedCounts(brands)
	return s
}

func tally(m *analytics.OrderedMap[string, int], label string) {
	n, _ := m.Get(label)
	m.Set(label, n+1)
}

// sortedCounts orders labels by count, most frequent first; ties keep
// first-seen order.
func sortedCounts(m *analytics.OrderedMap[string, int]) []Count {
	out := make([]Count, 0, m.Len())
	for _, label := range m.Keys() {
		n, _ := m.Get(label)
		out = append(out, Count{Name: label, Count: n})
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Count > out[j].Count })
	return out
}
