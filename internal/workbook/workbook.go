// =============================================================================
// Sales Analytics - XLSX Workbook Export
// =============================================================================
//
// This module exports the report aggregates as a spreadsheet so they can be
// filtered and charted outside the tool.
//
// WORKBOOK STRUCTURE:
//   | Sheet         | Columns                                                  |
//   |---------------|----------------------------------------------------------|
//   | Summary       | Metric, Value                                            |
//   | Regions       | Region, Total Sales, Percentage, Transactions, Avg Value |
//   | Products      | Rank, Product, Quantity, Revenue                         |
//   | Customers     | Rank, Customer ID, Total Spent, Purchases, Avg Order,    |
//   |               | Products Bought                                          |
//   | Daily         | Date, Revenue, Transactions, Unique Customers            |
//   | LowPerformers | Product, Quantity, Revenue                               |
//   | Enrichment    | Metric, Value, then unmatched products and categories    |
//
// Row 1 of every sheet is a bold header. Numbers are written as numbers, not
// as formatted text.
//
// =============================================================================

package workbook

import (
	"fmt"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/ginjaninja78/sales-analytics/internal/report"
	"github.com/ginjaninja78/sales-analytics/pkg/utils"
)

// Sheet names, in workbook order.
const (
	SheetSummary       = "Summary"
	SheetRegions       = "Regions"
	SheetProducts      = "Products"
	SheetCustomers     = "Customers"
	SheetDaily         = "Daily"
	SheetLowPerformers = "LowPerformers"
	SheetEnrichment    = "Enrichment"
)

// Sheets lists every sheet Export creates.
var Sheets = []string{
	SheetSummary, SheetRegions, SheetProducts, SheetCustomers,
	SheetDaily, SheetLowPerformers, SheetEnrichment,
}

// table is the content of one sheet.
type table struct {
	header []interface{}
	rows   [][]interface{}
}

// =============================================================================
// EXPORT FUNCTIONS
// =============================================================================

// Export writes d to an XLSX file at path.
//
// PARAMETERS:
//   - path: The destination file. Missing directories are created.
//   - d: The report data to export.
//
// RETURNS:
//   - An error if the workbook cannot be built or written.
func Export(path string, d report.Data) error {
	f := excelize.NewFile()
	defer f.Close()

	headerStyle, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return fmt.Errorf("failed to create header style: %w", err)
	}

	tables := map[string]table{
		SheetSummary:       summaryTable(d),
		SheetRegions:       regionsTable(d),
		SheetProducts:      productsTable(d),
		SheetCustomers:     customersTable(d),
		SheetDaily:         dailyTable(d),
		SheetLowPerformers: lowPerformersTable(d),
		SheetEnrichment:    enrichmentTable(d),
	}

	// The default sheet becomes Summary so no empty sheet is left behind.
	if err := f.SetSheetName(f.GetSheetName(0), SheetSummary); err != nil {
		return fmt.Errorf("failed to rename default sheet: %w", err)
	}

	for _, name := range Sheets {
		if name != SheetSummary {
			if _, err := f.NewSheet(name); err != nil {
				return fmt.Errorf("failed to create sheet %s: %w", name, err)
			}
		}
		if err := writeTable(f, name, tables[name], headerStyle); err != nil {
			return fmt.Errorf("failed to fill sheet %s: %w", name, err)
		}
	}
	f.SetActiveSheet(0)

	buf, err := f.WriteToBuffer()
	if err != nil {
		return fmt.Errorf("failed to encode workbook: %w", err)
	}
	if err := utils.WriteFileAtomic(path, buf.Bytes()); err != nil {
		return fmt.Errorf("failed to write workbook %s: %w", path, err)
	}
	return nil
}

// writeTable writes the header row and data rows of one sheet.
func writeTable(f *excelize.File, sheet string, t table, headerStyle int) error {
	if err := f.SetSheetRow(sheet, "A1", &t.header); err != nil {
		return err
	}
	if err := f.SetRowStyle(sheet, 1, 1, headerStyle); err != nil {
		return err
	}

	for i, row := range t.rows {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(sheet, cell, &row); err != nil {
			return err
		}
	}

	lastCol, err := excelize.ColumnNumberToName(len(t.header))
	if err != nil {
		return err
	}
	return f.SetColWidth(sheet, "A", lastCol, 18)
}

// =============================================================================
// SHEET CONTENT
// =============================================================================

func summaryTable(d report.Data) table {
	ov := d.Overview
	t := table{header: []interface{}{"Metric", "Value"}}
	t.rows = [][]interface{}{
		{"Report Generated", d.GeneratedAt.Format("2006-01-02 15:04:05")},
		{"Records Processed", d.RecordsProcessed},
		{"Total Revenue", ov.TotalRevenue},
		{"Total Transactions", ov.TransactionCount},
		{"Average Order Value", ov.AvgOrderValue},
		{"First Date", ov.FirstDate},
		{"Last Date", ov.LastDate},
		{"Skipped Records", ov.Skipped},
	}
	if d.HasPeak {
		t.rows = append(t.rows,
			[]interface{}{"Peak Day", d.Peak.Date},
			[]interface{}{"Peak Day Revenue", d.Peak.Revenue},
		)
	}
	return t
}

func regionsTable(d report.Data) table {
	t := table{header: []interface{}{"Region", "Total Sales", "Percentage", "Transactions", "Avg Value"}}
	for _, r := range d.Regions {
		t.rows = append(t.rows, []interface{}{r.Region, r.TotalSales, r.Percentage, r.TransactionCount, r.AverageValue()})
	}
	return t
}

func productsTable(d report.Data) table {
	t := table{header: []interface{}{"Rank", "Product", "Quantity", "Revenue"}}
	for i, p := range d.TopProducts {
		t.rows = append(t.rows, []interface{}{i + 1, p.ProductName, p.TotalQuantity, p.TotalRevenue})
	}
	return t
}

func customersTable(d report.Data) table {
	t := table{header: []interface{}{"Rank", "Customer ID", "Total Spent", "Purchases", "Avg Order", "Products Bought"}}
	for i, c := range d.TopCustomers {
		t.rows = append(t.rows, []interface{}{
			i + 1, c.CustomerID, c.TotalSpent, c.PurchaseCount, c.AvgOrderValue,
			strings.Join(c.ProductsBought, ", "),
		})
	}
	return t
}

func dailyTable(d report.Data) table {
	t := table{header: []interface{}{"Date", "Revenue", "Transactions", "Unique Customers"}}
	for _, day := range d.Daily {
		t.rows = append(t.rows, []interface{}{day.Date, day.Revenue, day.TransactionCount, day.UniqueCustomers})
	}
	return t
}

func lowPerformersTable(d report.Data) table {
	t := table{header: []interface{}{"Product", "Quantity", "Revenue"}}
	for _, p := range d.LowPerformers {
		t.rows = append(t.rows, []interface{}{p.ProductName, p.TotalQuantity, p.TotalRevenue})
	}
	return t
}

func enrichmentTable(d report.Data) table {
	t := table{header: []interface{}{"Metric", "Value"}}
	s := d.Enrichment
	if s == nil {
		t.rows = [][]interface{}{{"Status", "not run"}}
		return t
	}

	t.rows = [][]interface{}{
		{"Total", s.Total},
		{"Matched", s.Matched},
		{"Unmatched", s.Unmatched},
		{"Success Rate", s.SuccessRate},
	}
	for _, p := range s.UnmatchedProducts {
		t.rows = append(t.rows, []interface{}{"Unmatched " + p.ProductID, p.ProductName})
	}
	for _, c := range s.Categories {
		t.rows = append(t.rows, []interface{}{"Category " + c.Name, c.Count})
	}
	for _, b := range s.Brands {
		t.rows = append(t.rows, []interface{}{"Brand " + b.Name, b.Count})
	}
	return t
}

// =============================================================================
// READING
// =============================================================================

// ReadRows returns the rows of one sheet of an exported workbook.
func ReadRows(path, sheet string) ([][]string, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open workbook: %w", err)
	}
	defer f.Close()

	if idx, _ := f.GetSheetIndex(sheet); idx < 0 {
		return nil, fmt.Errorf("workbook has no sheet %q", sheet)
	}

	rows, err := f.GetRows(sheet)
	if err != nil {
		return nil, fmt.Errorf("failed to read rows: %w", err)
	}
	return rows, nil
}
