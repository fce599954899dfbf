package analytics

import (
	"github.com/ginjaninja78/sales-analytics/internal/numeric"
	"github.com/ginjaninja78/sales-analytics/internal/types"
)

// Overview is the headline summary of a transaction set.
type Overview struct {
	TotalRevenue     float64 `json:"total_revenue"`
	TransactionCount int     `json:"transaction_count"`
	AvgOrderValue    float64 `json:"avg_order_value"`
	FirstDate        string  `json:"first_date"`
	LastDate         string  `json:"last_date"`

	// Skipped counts records left out because a number did not parse.
	Skipped int `json:"skipped"`
}

// Summarize computes the Overview. The date range uses string ordering, like
// DailySalesTrend.
func Summarize(txs []types.Transaction) Overview {
	var ov Overview
	seen := false
	for _, p := range Scan(txs) {
		if p.Status == Skipped {
			ov.Skipped++
			continue
		}
		ov.TotalRevenue += p.Amount
		ov.TransactionCount++

		date := p.Tx.Date
		if !seen || date < ov.FirstDate {
			ov.FirstDate = date
		}
		if !seen || date > ov.LastDate {
			ov.LastDate = date
		}
		seen = true
	}
	if ov.TransactionCount > 0 {
		ov.AvgOrderValue = numeric.Round2(ov.TotalRevenue / float64(ov.TransactionCount))
	}
	return ov
}

// AverageValue is the mean transaction amount of the region.
func (r RegionStats) AverageValue() float64 {
	if r.TransactionCount == 0 {
		return 0
	}
	return numeric.Round2(r.TotalSales / float64(r.TransactionCount))
}
