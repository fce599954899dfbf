package workbook

import (
	"path/filepath"
	"reflect"
	"testing"

	"github.com/xuri/excelize/v2"

	"github.com/ginjaninja78/sales-analytics/internal/enrichment"
	"github.com/ginjaninja78/sales-analytics/internal/report"
	"github.com/ginjaninja78/sales-analytics/internal/types"
)

func sample() []types.Transaction {
	mk := func(id, date, pid, name, qty, price, cust, region string) types.Transaction {
		return types.Transaction{
			TransactionID: id, Date: date, ProductID: pid, ProductName: name,
			Quantity: qty, UnitPrice: price, CustomerID: cust, Region: region,
		}
	}
	return []types.Transaction{
		mk("T001", "2024-12-02", "P101", "Laptop", "2", "45000", "C001", "North"),
		mk("T002", "2024-12-01", "P102", "Mouse", "10", "500", "C002", "South"),
		mk("T003", "2024-12-01", "P103", "Keyboard", "5", "1,500", "C001", "North"),
	}
}

func TestExport(t *testing.T) {
	d := report.Build(sample(), report.DefaultOptions())
	d.Enrichment = &enrichment.Summary{
		Total: 3, Matched: 2, Unmatched: 1, SuccessRate: 66.67,
		UnmatchedProducts: []enrichment.UnmatchedProduct{{ProductID: "P103", ProductName: "Keyboard"}},
	}

	path := filepath.Join(t.TempDir(), "out", "report.xlsx")
	if err := Export(path, d); err != nil {
		t.Fatalf("Export() error = %v", err)
	}

	f, err := excelize.OpenFile(path)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	if got := f.GetSheetList(); !reflect.DeepEqual(got, Sheets) {
		t.Errorf("sheets = %v, want %v", got, Sheets)
	}

	regions, err := ReadRows(path, SheetRegions)
	if err != nil {
		t.Fatal(err)
	}
	if len(regions) != 3 {
		t.Fatalf("region rows = %d, want header + 2", len(regions))
	}
	if regions[0][0] != "Region" || regions[1][0] != "North" || regions[1][1] != "97500" {
		t.Errorf("regions = %v", regions)
	}

	products, err := ReadRows(path, SheetProducts)
	if err != nil {
		t.Fatal(err)
	}
	if products[1][1] != "Mouse" || products[1][2] != "10" {
		t.Errorf("top product row = %v", products[1])
	}

	customers, err := ReadRows(path, SheetCustomers)
	if err != nil {
		t.Fatal(err)
	}
	if customers[1][1] != "C001" || customers[1][5] != "Laptop, Keyboard" {
		t.Errorf("top customer row = %v", customers[1])
	}

	enriched, err := ReadRows(path, SheetEnrichment)
	if err != nil {
		t.Fatal(err)
	}
	if enriched[4][0] != "Success Rate" || enriched[5][0] != "Unmatched P103" {
		t.Errorf("enrichment rows = %v", enriched)
	}
}

func TestExport_HeaderStyleAndEmptyData(t *testing.T) {
	d := report.Build(nil, report.DefaultOptions())
	path := filepath.Join(t.TempDir(), "empty.xlsx")
	if err := Export(path, d); err != nil {
		t.Fatalf("Export() error = %v", err)
	}

	daily, err := ReadRows(path, SheetDaily)
	if err != nil {
		t.Fatal(err)
	}
	if len(daily) != 1 {
		t.Errorf("daily rows = %v, want header only", daily)
	}

	enriched, err := ReadRows(path, SheetEnrichment)
	if err != nil {
		t.Fatal(err)
	}
	if len(enriched) != 2 || enriched[1][1] != "not run" {
		t.Errorf("enrichment rows = %v", enriched)
	}

	f, err := excelize.OpenFile(path)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	styleID, err := f.GetCellStyle(SheetSummary, "A1")
	if err != nil {
		t.Fatal(err)
	}
	style, err := f.GetStyle(styleID)
	if err != nil {
		t.Fatal(err)
	}
	if style.Font == nil || !style.Font.Bold {
		t.Error("header row should be bold")
	}
}

func TestReadRows_Errors(t *testing.T) {
	if _, err := ReadRows(filepath.Join(t.TempDir(), "absent.xlsx"), SheetSummary); err == nil {
		t.Error("expected error for missing file")
	}

	path := filepath.Join(t.TempDir(), "r.xlsx")
	if err := Export(path, report.Build(sample(), report.DefaultOptions())); err != nil {
		t.Fatal(err)
	}
	if _, err := ReadRows(path, "Nope"); err == nil {
		t.Error("expected error for unknown sheet")
	}
}
