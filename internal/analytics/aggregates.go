// =============================================================================
// Sales Analytics - Aggregation Engine
// =============================================================================
//
// Seven independent views over the validated transactions. Each view is a
// pure function of its input; none depends on another having run, except
// PeakSalesDay which reads the daily trend.
//
// ORDERING:
//   Groups are collected in first-seen order and then stably sorted, so ties
//   always resolve to the group that appeared first in the input.
//
// ROUNDING:
//   Percentages, averages, daily revenue and low-performer revenue are rounded
//   to two decimals. Running totals are not.
//
// =============================================================================

package analytics

import (
	"math"
	"sort"

	"github.com/ginjaninja78/sales-analytics/internal/numeric"
	"github.com/ginjaninja78/sales-analytics/internal/types"
)

// =============================================================================
// VIEW TYPES
// =============================================================================

// RegionStats is the sales breakdown for one region.
type RegionStats struct {
	Region           string  `json:"region"`
	TotalSales       float64 `json:"total_sales"`
	TransactionCount int     `json:"transaction_count"`
	Percentage       float64 `json:"percentage"`
}

// ProductStats is the volume and revenue of one product name.
type ProductStats struct {
	ProductName   string  `json:"product_name"`
	TotalQuantity float64 `json:"total_quantity"`
	TotalRevenue  float64 `json:"total_revenue"`
}

// CustomerStats is the purchase history of one customer.
type CustomerStats struct {
	CustomerID     string   `json:"customer_id"`
	TotalSpent     float64  `json:"total_spent"`
	PurchaseCount  int      `json:"purchase_count"`
	AvgOrderValue  float64  `json:"avg_order_value"`
	ProductsBought []string `json:"products_bought"`
}

// DailyStats is the activity of one calendar date.
type DailyStats struct {
	Date             string  `json:"date"`
	Revenue          float64 `json:"revenue"`
	TransactionCount int     `json:"transaction_count"`
	UniqueCustomers  int     `json:"unique_customers"`
}

// PeakDay is the date with the highest revenue.
type PeakDay struct {
	Date             string  `json:"date"`
	Revenue          float64 `json:"revenue"`
	TransactionCount int     `json:"transaction_count"`
}

// LowPerformer is a product sold below the volume threshold.
type LowPerformer struct {
	ProductName   string  `json:"product_name"`
	TotalQuantity int     `json:"total_quantity"`
	TotalRevenue  float64 `json:"total_revenue"`
}

// =============================================================================
// AGGREGATES
// =============================================================================

// TotalRevenue sums the amount of every transaction.
func TotalRevenue(txs []types.Transaction) float64 {
	total := 0.0
	for _, p := range priced(txs) {
		total += p.Amount
	}
	return total
}

// RegionWiseSales groups sales by region, largest total first.
// Percentage is each region's share of all sales, 0 when there are none.
func RegionWiseSales(txs []types.Transaction) []RegionStats {
	groups := NewOrderedMap[string, *RegionStats]()
	grand := 0.0

	for _, p := range priced(txs) {
		region := p.Tx.Region
		s := groups.GetOrInit(region, func() *RegionStats { return &RegionStats{Region: region} })
		s.TotalSales += p.Amount
		s.TransactionCount++
		grand += p.Amount
	}

	for _, s := range groups.Values() {
		if grand > 0 {
			s.Percentage = numeric.Round2(s.TotalSales / grand * 100)
		}
	}

	sorted := groups.SortedValues(func(a, b *RegionStats) bool { return a.TotalSales > b.TotalSales })
	return derefAll(sorted)
}

// productTotals groups quantity and revenue by product name, first-seen order.
func productTotals(txs []types.Transaction) *OrderedMap[string, *ProductStats] {
	groups := NewOrderedMap[string, *ProductStats]()
	for _, p := range priced(txs) {
		name := p.Tx.ProductName
		s := groups.GetOrInit(name, func() *ProductStats { return &ProductStats{ProductName: name} })
		s.TotalQuantity += p.Quantity
		s.TotalRevenue += p.Amount
	}
	return groups
}

// TopSellingProducts returns the n products with the highest total quantity.
// n <= 0 yields an empty slice.
func TopSellingProducts(txs []types.Transaction, n int) []ProductStats {
	if n <= 0 {
		return []ProductStats{}
	}

	sorted := productTotals(txs).SortedValues(func(a, b *ProductStats) bool {
		return a.TotalQuantity > b.TotalQuantity
	})
	if len(sorted) > n {
		sorted = sorted[:n]
	}
	return derefAll(sorted)
}

// CustomerAnalysis summarizes each customer, biggest spender first.
// ProductsBought lists distinct product names in first-purchase order.
func CustomerAnalysis(txs []types.Transaction) []CustomerStats {
	type acc struct {
		stats CustomerStats
		seen  map[string]bool
	}
	groups := NewOrderedMap[string, *acc]()

	for _, p := range priced(txs) {
		id := p.Tx.CustomerID
		a := groups.GetOrInit(id, func() *acc {
			return &acc{
				stats: CustomerStats{CustomerID: id, ProductsBought: []string{}},
				seen:  make(map[string]bool),
			}
		})
		a.stats.TotalSpent += p.Amount
		a.stats.PurchaseCount++
		if !a.seen[p.Tx.ProductName] {
			a.seen[p.Tx.ProductName] = true
			a.stats.ProductsBought = append(a.stats.ProductsBought, p.Tx.ProductName)
		}
	}

	sorted := groups.SortedValues(func(a, b *acc) bool { return a.stats.TotalSpent > b.stats.TotalSpent })
	out := make([]CustomerStats, len(sorted))
	for i, a := range sorted {
		s := a.stats
		if s.PurchaseCount > 0 {
			s.AvgOrderValue = numeric.Round2(s.TotalSpent / float64(s.PurchaseCount))
		}
		out[i] = s
	}
	return out
}

// DailySalesTrend groups sales by date in ascending date-string order.
//
// Dates are compared as plain strings. ISO dates (YYYY-MM-DD) therefore sort
// chronologically; other formats sort lexicographically.
func DailySalesTrend(txs []types.Transaction) []DailyStats {
	type acc struct {
		stats     DailyStats
		customers map[string]bool
	}
	groups := NewOrderedMap[string, *acc]()

	for _, p := range priced(txs) {
		date := p.Tx.Date
		a := groups.GetOrInit(date, func() *acc {
			return &acc{stats: DailyStats{Date: date}, customers: make(map[string]bool)}
		})
		a.stats.Revenue += p.Amount
		a.stats.TransactionCount++
		a.customers[p.Tx.CustomerID] = true
	}

	sorted := groups.SortedValues(func(a, b *acc) bool { return a.stats.Date < b.stats.Date })
	out := make([]DailyStats, len(sorted))
	for i, a := range sorted {
		s := a.stats
		s.Revenue = numeric.Round2(s.Revenue)
		s.UniqueCustomers = len(a.customers)
		out[i] = s
	}
	return out
}

// PeakSalesDay returns the date with the highest rounded daily revenue.
// Ties go to the earliest date. The boolean is false for an empty input, in
// which case the zero PeakDay is returned.
func PeakSalesDay(txs []types.Transaction) (PeakDay, bool) {
	trend := DailySalesTrend(txs)
	if len(trend) == 0 {
		return PeakDay{}, false
	}

	best := trend[0]
	for _, d := range trend[1:] {
		if d.Revenue > best.Revenue {
			best = d
		}
	}
	return PeakDay{Date: best.Date, Revenue: best.Revenue, TransactionCount: best.TransactionCount}, true
}

// LowPerformingProducts returns products whose total quantity is below
// threshold, lowest quantity first. Quantities are truncated to whole units
// and revenue is rounded to two decimals.
func LowPerformingProducts(txs []types.Transaction, threshold float64) []LowPerformer {
	low := []LowPerformer{}
	for _, s := range productTotals(txs).Values() {
		if s.TotalQuantity < threshold {
			low = append(low, LowPerformer{
				ProductName:   s.ProductName,
				TotalQuantity: int(math.Trunc(s.TotalQuantity)),
				TotalRevenue:  numeric.Round2(s.TotalRevenue),
			})
		}
	}

	sort.SliceStable(low, func(i, j int) bool { return low[i].TotalQuantity < low[j].TotalQuantity })
	return low
}

// =============================================================================
// HELPERS
// =============================================================================

func derefAll[T any](in []*T) []T {
	out := make([]T, len(in))
	for i, p := range in {
		out[i] = *p
	}
	return out
}
