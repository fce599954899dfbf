package runner

import (
	"bytes"
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/ginjaninja78/sales-analytics/internal/config"
	"github.com/ginjaninja78/sales-analytics/internal/logger"
	"github.com/ginjaninja78/sales-analytics/internal/productapi"
	"github.com/ginjaninja78/sales-analytics/internal/salesfile"
	"github.com/ginjaninja78/sales-analytics/internal/workbook"
)

const salesData = `TransactionID|Date|ProductID|ProductName|Quantity|UnitPrice|CustomerID|Region
T001|2024-12-01|P101|Laptop|2|45,000|C001|North
T002|2024-12-01|P102|Mouse|10|500|C002|South

T003|2024-12-02|P999|Widget|1|100|C003|East
X004|2024-12-02|P101|Laptop|1|45000|C001|North
T005|2024-12-03|P102|Mouse|0|500|C002|South
`

const productsJSON = `{"products": [
  {"id": 101, "title": "Laptop", "category": "laptops", "brand": "Apple", "price": 1999, "rating": 4.7},
  {"id": 102, "title": "Mouse", "category": "accessories", "brand": "Logi", "price": 25, "rating": 4.1}
]}`

type fakeSource struct {
	products []productapi.Product
	err      error
	calls    int
}

func (f *fakeSource) FetchAll(ctx context.Context) ([]productapi.Product, error) {
	f.calls++
	return f.products, f.err
}

func testConfig(t *testing.T) *config.MainConfig {
	t.Helper()
	dir := t.TempDir()

	input := filepath.Join(dir, "sales_data.txt")
	if err := os.WriteFile(input, []byte(salesData), 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := config.Default()
	if err != nil {
		t.Fatal(err)
	}
	cfg.InputFile = input
	cfg.OutputDir = filepath.Join(dir, "output")
	return cfg
}

func readLines(t *testing.T, path string) []string {
	t.Helper()
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	return strings.Split(strings.TrimRight(string(data), "\n"), "\n")
}

func TestRun_WithProductAPI(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(productsJSON))
	}))
	defer srv.Close()

	cfg := testConfig(t)
	cfg.API.BaseURL = srv.URL + "/products"
	cfg.Export.Workbook = "report.xlsx"

	var logs bytes.Buffer
	res, err := New(cfg, logger.NewWithWriter(&logs)).Run(context.Background())
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}

	if res.RunID == "" {
		t.Error("RunID should be set")
	}
	if res.Stats.Encoding != "utf-8" {
		t.Errorf("Encoding = %q", res.Stats.Encoding)
	}
	if res.Stats.Total != 5 || res.Stats.Valid != 3 || res.Stats.Invalid != 2 {
		t.Errorf("counters = %+v", res.Stats.Counters)
	}
	if res.Stats.Transactions != 3 {
		t.Errorf("Transactions = %d", res.Stats.Transactions)
	}

	cleaned := readLines(t, res.Output(OutputCleaned))
	if len(cleaned) != 4 || cleaned[1] != "T001|2024-12-01|P101|Laptop|2|45000|C001|North" {
		t.Errorf("cleaned = %q", cleaned)
	}

	invalid := readLines(t, res.Output(OutputInvalid))
	if len(invalid) != 2 || !strings.HasPrefix(invalid[0], "X004") {
		t.Errorf("invalid = %q", invalid)
	}
	if res.Output(OutputRejections) == "" {
		t.Error("rejection log not written")
	}

	s := res.Stats.Enrichment
	if s == nil {
		t.Fatal("expected enrichment summary")
	}
	if s.Matched != 2 || s.Unmatched != 1 || s.SuccessRate != 66.67 {
		t.Errorf("enrichment = %+v", s)
	}

	enriched := readLines(t, res.Output(OutputEnriched))
	if len(enriched) != 4 || !strings.HasSuffix(enriched[1], "|laptops|Apple|4.7|True") {
		t.Errorf("enriched = %q", enriched)
	}
	if !strings.HasSuffix(enriched[3], "|||False") {
		t.Errorf("unmatched enriched row = %q", enriched[3])
	}

	reportText, err := os.ReadFile(res.Output(OutputReport))
	if err != nil {
		t.Fatal(err)
	}
	for _, want := range []string{"Total Records Processed: 3", "Success Rate: 66.67%", "  - P999: Widget"} {
		if !strings.Contains(string(reportText), want) {
			t.Errorf("report missing %q", want)
		}
	}

	if _, err := workbook.ReadRows(res.Output(OutputWorkbook), workbook.SheetRegions); err != nil {
		t.Errorf("workbook not readable: %v", err)
	}
	for _, kind := range []string{OutputProducts, OutputSummary} {
		if path := res.Output(kind); path == "" {
			t.Errorf("%s output missing", kind)
		} else if _, err := os.Stat(path); err != nil {
			t.Errorf("%s output: %v", kind, err)
		}
	}

	if !strings.Contains(logs.String(), res.RunID) {
		t.Error("logs should carry the run id")
	}
}

func TestRun_APIFailureContinues(t *testing.T) {
	cfg := testConfig(t)
	src := &fakeSource{err: errors.New("connection refused")}

	res, err := New(cfg, logger.NewWithWriter(&bytes.Buffer{}), WithCatalogSource(src)).Run(context.Background())
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if src.calls != 1 {
		t.Errorf("FetchAll calls = %d, want 1", src.calls)
	}
	if res.Stats.Enrichment != nil {
		t.Error("enrichment should be skipped")
	}
	if len(res.Warnings) != 1 || !strings.Contains(res.Warnings[0], "connection refused") {
		t.Errorf("Warnings = %v", res.Warnings)
	}
	if res.Output(OutputEnriched) != "" {
		t.Error("enriched file should not be written")
	}

	reportText, err := os.ReadFile(res.Output(OutputReport))
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(reportText), "No API enrichment data available.") {
		t.Error("report should note missing enrichment")
	}
}

func TestRun_EmptyCatalog(t *testing.T) {
	cfg := testConfig(t)
	src := &fakeSource{products: []productapi.Product{}}

	res, err := New(cfg, logger.NewWithWriter(&bytes.Buffer{}), WithCatalogSource(src)).Run(context.Background())
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if res.Stats.Enrichment != nil || len(res.Warnings) != 1 {
		t.Errorf("stats = %+v, warnings = %v", res.Stats, res.Warnings)
	}
}

func TestRun_APIDisabled(t *testing.T) {
	cfg := testConfig(t)
	disabled := false
	cfg.API.Enabled = &disabled
	src := &fakeSource{}

	res, err := New(cfg, logger.NewWithWriter(&bytes.Buffer{}), WithCatalogSource(src)).Run(context.Background())
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if src.calls != 0 {
		t.Error("source should not be called when the API is disabled")
	}
	if len(res.Warnings) != 0 {
		t.Errorf("Warnings = %v", res.Warnings)
	}
}

func TestRun_NoInvalidRecords(t *testing.T) {
	cfg := testConfig(t)
	clean := "TransactionID|Date|ProductID|ProductName|Quantity|UnitPrice|CustomerID|Region\n" +
		"T001|2024-12-01|P101|Laptop|2|45000|C001|North\n"
	if err := os.WriteFile(cfg.InputFile, []byte(clean), 0644); err != nil {
		t.Fatal(err)
	}
	disabled := false
	cfg.API.Enabled = &disabled

	res, err := New(cfg, logger.NewWithWriter(&bytes.Buffer{})).Run(context.Background())
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if res.Output(OutputInvalid) != "" || res.Output(OutputRejections) != "" {
		t.Errorf("outputs = %+v", res.Outputs)
	}
	if _, err := os.Stat(filepath.Join(cfg.OutputDir, cfg.Outputs.Invalid)); !os.IsNotExist(err) {
		t.Error("invalid file should not exist")
	}
}

func TestRun_MissingInput(t *testing.T) {
	cfg := testConfig(t)
	cfg.InputFile = filepath.Join(t.TempDir(), "absent.txt")

	_, err := New(cfg, logger.NewWithWriter(&bytes.Buffer{}), WithCatalogSource(&fakeSource{})).Run(context.Background())
	var fe *salesfile.FileError
	if !errors.As(err, &fe) {
		t.Fatalf("expected *salesfile.FileError, got %v", err)
	}
	if fe.Path != cfg.InputFile {
		t.Errorf("Path = %q", fe.Path)
	}
}
