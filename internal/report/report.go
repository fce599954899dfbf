// =============================================================================
// Sales Analytics - Report Writer Module
// =============================================================================
//
// This module renders the aggregates of a run as a fixed-width text report.
// It never derives a number itself: everything printed comes from the
// analytics and enrichment packages through the Data struct.
//
// REPORT STRUCTURE:
//   Header                     title, generation time, records processed
//   1. OVERALL SUMMARY         revenue, transactions, average order, dates
//   2. REGION-WISE PERFORMANCE sales, share and count per region
//   3. TOP N PRODUCTS          by quantity sold
//   4. TOP N CUSTOMERS         by total spent
//   5. DAILY SALES TREND       first DailyRows days, then a remainder line
//   6. PRODUCT PERFORMANCE     peak day, low performers, regional averages
//   7. API ENRICHMENT SUMMARY  match rate and unmatched products
//   Footer
//
// CUSTOMIZATION:
//   - Change the section sizes through Options
//   - Change column widths in the render* functions
//
// =============================================================================

package report

import (
	"bytes"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/ginjaninja78/sales-analytics/internal/analytics"
	"github.com/ginjaninja78/sales-analytics/internal/enrichment"
	"github.com/ginjaninja78/sales-analytics/internal/types"
	"github.com/ginjaninja78/sales-analytics/pkg/utils"
)

// =============================================================================
// REPORT OPTIONS
// =============================================================================

// Options controls the size of the report sections.
type Options struct {
	// TopProducts is the number of rows in the product ranking.
	// Default: 5
	TopProducts int

	// TopCustomers is the number of rows in the customer ranking.
	// Default: 5
	TopCustomers int

	// LowThreshold is the quantity below which a product is listed as a
	// low performer.
	// Default: 10
	LowThreshold float64

	// DailyRows is the number of days printed before the trend is cut off.
	// Default: 10
	DailyRows int
}

// DefaultOptions returns the default report options.
func DefaultOptions() Options {
	return Options{
		TopProducts:  5,
		TopCustomers: 5,
		LowThreshold: 10,
		DailyRows:    10,
	}
}

func (o Options) withDefaults() Options {
	def := DefaultOptions()
	if o.TopProducts <= 0 {
		o.TopProducts = def.TopProducts
	}
	if o.TopCustomers <= 0 {
		o.TopCustomers = def.TopCustomers
	}
	if o.LowThreshold <= 0 {
		o.LowThreshold = def.LowThreshold
	}
	if o.DailyRows <= 0 {
		o.DailyRows = def.DailyRows
	}
	return o
}

// =============================================================================
// REPORT DATA
// =============================================================================

// Data is everything the report prints.
type Data struct {
	Options     Options   `json:"-"`
	GeneratedAt time.Time `json:"generated_at"`

	// RecordsProcessed is the number of transactions the aggregates ran over.
	RecordsProcessed int `json:"records_processed"`

	Overview      analytics.Overview        `json:"overview"`
	Regions       []analytics.RegionStats   `json:"regions"`
	TopProducts   []analytics.ProductStats  `json:"top_products"`
	TopCustomers  []analytics.CustomerStats `json:"top_customers"`
	Daily         []analytics.DailyStats    `json:"daily"`
	Peak          analytics.PeakDay         `json:"peak"`
	HasPeak       bool                      `json:"has_peak"`
	LowPerformers []analytics.LowPerformer  `json:"low_performers"`

	// Enrichment is nil when enrichment did not run.
	Enrichment *enrichment.Summary `json:"enrichment,omitempty"`
}

// Build computes every aggregate the report needs.
func Build(txs []types.Transaction, opts Options) Data {
	opts = opts.withDefaults()

	customers := analytics.CustomerAnalysis(txs)
	if len(customers) > opts.TopCustomers {
		customers = customers[:opts.TopCustomers]
	}
	peak, hasPeak := analytics.PeakSalesDay(txs)

	return Data{
		Options:          opts,
		GeneratedAt:      time.Now(),
		RecordsProcessed: len(txs),
		Overview:         analytics.Summarize(txs),
		Regions:          analytics.RegionWiseSales(txs),
		TopProducts:      analytics.TopSellingProducts(txs, opts.TopProducts),
		TopCustomers:     customers,
		Daily:            analytics.DailySalesTrend(txs),
		Peak:             peak,
		HasPeak:          hasPeak,
		LowPerformers:    analytics.LowPerformingProducts(txs, opts.LowThreshold),
	}
}

// =============================================================================
// REPORT GENERATION FUNCTIONS
// =============================================================================

const (
	lineWidth  = 70
	timeLayout = "2006-01-02 15:04:05"
)

var (
	heavyRule = strings.Repeat("=", lineWidth)
	lightRule = strings.Repeat("-", lineWidth)
	printer   = message.NewPrinter(language.English)
)

// Generate renders the report into a byte slice.
func Generate(d Data) []byte {
	var buffer bytes.Buffer
	d.Options = d.Options.withDefaults()

	renderHeader(&buffer, d)
	renderOverview(&buffer, d)
	renderRegions(&buffer, d)
	renderProducts(&buffer, d)
	renderCustomers(&buffer, d)
	renderDaily(&buffer, d)
	renderPerformance(&buffer, d)
	renderEnrichment(&buffer, d.Enrichment)
	renderFooter(&buffer)

	return buffer.Bytes()
}

// Render writes the report to w.
func Render(w io.Writer, d Data) error {
	if _, err := w.Write(Generate(d)); err != nil {
		return fmt.Errorf("failed to write report: %w", err)
	}
	return nil
}

// WriteFile renders the report to path, replacing any previous file.
func WriteFile(path string, d Data) error {
	if err := utils.WriteFileAtomic(path, Generate(d)); err != nil {
		return fmt.Errorf("failed to write report %s: %w", path, err)
	}
	return nil
}

// =============================================================================
// SECTIONS
// =============================================================================

func renderHeader(b *bytes.Buffer, d Data) {
	fmt.Fprintln(b, heavyRule)
	fmt.Fprintln(b, strings.Repeat(" ", 20)+"SALES ANALYTICS REPORT")
	fmt.Fprintln(b, heavyRule)
	fmt.Fprintln(b)
	fmt.Fprintf(b, "Report Generated: %s\n", d.GeneratedAt.Format(timeLayout))
	fmt.Fprintf(b, "Total Records Processed: %d\n", d.RecordsProcessed)
	fmt.Fprintln(b)
}

func section(b *bytes.Buffer, title string) {
	fmt.Fprintln(b, heavyRule)
	fmt.Fprintln(b, title)
	fmt.Fprintln(b, heavyRule)
	fmt.Fprintln(b)
}

func renderOverview(b *bytes.Buffer, d Data) {
	section(b, "1. OVERALL SUMMARY")

	ov := d.Overview
	dateRange := "N/A"
	if ov.TransactionCount > 0 {
		dateRange = ov.FirstDate + " to " + ov.LastDate
	}

	fmt.Fprintf(b, "Total Revenue: %s\n", Money(ov.TotalRevenue))
	fmt.Fprintf(b, "Total Transactions: %s\n", Count(ov.TransactionCount))
	fmt.Fprintf(b, "Average Order Value: %s\n", Money(ov.AvgOrderValue))
	fmt.Fprintf(b, "Date Range: %s\n", dateRange)
	if ov.Skipped > 0 {
		fmt.Fprintf(b, "Records Skipped (unparseable numbers): %d\n", ov.Skipped)
	}
	fmt.Fprintln(b)
}

func renderRegions(b *bytes.Buffer, d Data) {
	section(b, "2. REGION-WISE PERFORMANCE")

	fmt.Fprintf(b, "%-15s%-20s%-15s%-15s\n", "Region", "Sales Amount", "Percentage", "Trans Count")
	fmt.Fprintln(b, lightRule)
	for _, r := range d.Regions {
		fmt.Fprintf(b, "%-15s$%18s%14.2f%%%14d\n", r.Region, grouped(r.TotalSales), r.Percentage, r.TransactionCount)
	}
	fmt.Fprintln(b)
}

func renderProducts(b *bytes.Buffer, d Data) {
	section(b, fmt.Sprintf("3. TOP %d PRODUCTS", d.Options.TopProducts))

	fmt.Fprintf(b, "%-8s%-30s%-15s%-17s\n", "Rank", "Product Name", "Qty Sold", "Revenue")
	fmt.Fprintln(b, lightRule)
	for i, p := range d.TopProducts {
		fmt.Fprintf(b, "%-8d%-30s%-15d%s\n", i+1, truncate(p.ProductName, 28), int(p.TotalQuantity), Money(p.TotalRevenue))
	}
	fmt.Fprintln(b)
}

func renderCustomers(b *bytes.Buffer, d Data) {
	section(b, fmt.Sprintf("4. TOP %d CUSTOMERS", d.Options.TopCustomers))

	fmt.Fprintf(b, "%-8s%-20s%-20s%-15s\n", "Rank", "Customer ID", "Total Spent", "Order Count")
	fmt.Fprintln(b, lightRule)
	for i, c := range d.TopCustomers {
		if i >= d.Options.TopCustomers {
			break
		}
		fmt.Fprintf(b, "%-8d%-20s$%18s%14d\n", i+1, c.CustomerID, grouped(c.TotalSpent), c.PurchaseCount)
	}
	fmt.Fprintln(b)
}

func renderDaily(b *bytes.Buffer, d Data) {
	section(b, "5. DAILY SALES TREND")

	fmt.Fprintf(b, "%-15s%-20s%-18s%-17s\n", "Date", "Revenue", "Transactions", "Unique Customers")
	fmt.Fprintln(b, lightRule)
	for i, day := range d.Daily {
		if i >= d.Options.DailyRows {
			break
		}
		fmt.Fprintf(b, "%-15s$%18s%17d%16d\n", day.Date, grouped(day.Revenue), day.TransactionCount, day.UniqueCustomers)
	}
	if extra := len(d.Daily) - d.Options.DailyRows; extra > 0 {
		fmt.Fprintf(b, "... (%d more days)\n", extra)
	}

	fmt.Fprintf(b, "\nTotal Days with Sales: %d\n", len(d.Daily))
	fmt.Fprintln(b)
}

func renderPerformance(b *bytes.Buffer, d Data) {
	section(b, "6. PRODUCT PERFORMANCE ANALYSIS")

	if d.HasPeak {
		fmt.Fprintf(b, "Best Selling Day: %s\n", d.Peak.Date)
		fmt.Fprintf(b, "  Revenue: %s\n", Money(d.Peak.Revenue))
		fmt.Fprintf(b, "  Transactions: %d\n\n", d.Peak.TransactionCount)
	} else {
		fmt.Fprint(b, "Best Selling Day: N/A\n\n")
	}

	if len(d.LowPerformers) > 0 {
		threshold := strconv.FormatFloat(d.Options.LowThreshold, 'f', -1, 64)
		fmt.Fprintf(b, "Low Performing Products (Quantity < %s):\n", threshold)
		for _, p := range d.LowPerformers {
			fmt.Fprintf(b, "  - %s: %d units, %s\n", p.ProductName, p.TotalQuantity, Money(p.TotalRevenue))
		}
	} else {
		fmt.Fprintln(b, "No low performing products found.")
	}
	fmt.Fprintln(b)

	fmt.Fprintln(b, "Average Transaction Value by Region:")
	for _, r := range d.Regions {
		fmt.Fprintf(b, "  %s: %s\n", r.Region, Money(r.AverageValue()))
	}
	fmt.Fprintln(b)
}

func renderEnrichment(b *bytes.Buffer, s *enrichment.Summary) {
	section(b, "7. API ENRICHMENT SUMMARY")

	if s == nil || s.Total == 0 {
		fmt.Fprintln(b, "No API enrichment data available.")
		fmt.Fprintln(b)
		return
	}

	fmt.Fprintf(b, "Total Records Enriched: %d\n", s.Total)
	fmt.Fprintf(b, "Successfully Matched: %d\n", s.Matched)
	fmt.Fprintf(b, "Success Rate: %.2f%%\n\n", s.SuccessRate)

	if len(s.UnmatchedProducts) == 0 {
		fmt.Fprintln(b, "All products were successfully enriched!")
	} else {
		fmt.Fprintln(b, "Products that couldn't be enriched:")
		for _, p := range s.UnmatchedProducts {
			fmt.Fprintf(b, "  - %s: %s\n", p.ProductID, p.ProductName)
		}
	}
	fmt.Fprintln(b)
}

func renderFooter(b *bytes.Buffer) {
	fmt.Fprintln(b, heavyRule)
	fmt.Fprintln(b, strings.Repeat(" ", 25)+"END OF REPORT")
	fmt.Fprintln(b, heavyRule)
}

// =============================================================================
// FORMATTING HELPERS
// =============================================================================

// Money formats v as dollars with thousands separators, e.g. "$1,234.50".
func Money(v float64) string {
	return "$" + grouped(v)
}

// Count formats n with thousands separators.
func Count(n int) string {
	return printer.Sprintf("%d", n)
}

func grouped(v float64) string {
	return printer.Sprintf("%.2f", v)
}

// truncate shortens s to at most n runes.
func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n])
}
