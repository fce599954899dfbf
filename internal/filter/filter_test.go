package filter

import (
	"reflect"
	"testing"

	"github.com/ginjaninja78/sales-analytics/internal/types"
	"github.com/ginjaninja78/sales-analytics/internal/validation"
)

func strPtr(s string) *string { return &s }
func floatPtr(f float64) *float64 { return &f }

func data() []types.Transaction {
	return []types.Transaction{
		{TransactionID: "T1", ProductID: "P1", ProductName: "A", Quantity: "2", UnitPrice: "100", CustomerID: "C1", Region: "North"},
		{TransactionID: "T2", ProductID: "P2", ProductName: "B", Quantity: "1", UnitPrice: "50", CustomerID: "C2", Region: "south"},
		{TransactionID: "T3", ProductID: "X3", ProductName: "C", Quantity: "1", UnitPrice: "10", CustomerID: "C3", Region: "North"},
		{TransactionID: "T4", ProductID: "P4", ProductName: "D", Quantity: "10", UnitPrice: "1,000", CustomerID: "C4", Region: "NORTH"},
		{TransactionID: "T5", ProductID: "P5", ProductName: "E", Quantity: "0", UnitPrice: "10", CustomerID: "C5", Region: "East"},
	}
}

func ids(txs []types.Transaction) []string {
	out := []string{}
	for _, tx := range txs {
		out = append(out, tx.TransactionID)
	}
	return out
}

func TestApply(t *testing.T) {
	tests := []struct {
		name       string
		opts       Options
		wantIDs    []string
		wantFunnel Funnel
	}{
		{
			name:       "no filters",
			opts:       Options{},
			wantIDs:    []string{"T1", "T2", "T4"},
			wantFunnel: Funnel{TotalInput: 5, Invalid: 2, FinalCount: 3},
		},
		{
			name:       "region is case-insensitive",
			opts:       Options{Region: strPtr("north")},
			wantIDs:    []string{"T1", "T4"},
			wantFunnel: Funnel{TotalInput: 5, Invalid: 2, FilteredByRegion: 1, FinalCount: 2},
		},
		{
			name:       "min only",
			opts:       Options{MinAmount: floatPtr(100)},
			wantIDs:    []string{"T1", "T4"},
			wantFunnel: Funnel{TotalInput: 5, Invalid: 2, FilteredByAmount: 1, FinalCount: 2},
		},
		{
			name:       "max only, bound inclusive",
			opts:       Options{MaxAmount: floatPtr(200)},
			wantIDs:    []string{"T1", "T2"},
			wantFunnel: Funnel{TotalInput: 5, Invalid: 2, FilteredByAmount: 1, FinalCount: 2},
		},
		{
			name:       "region and range",
			opts:       Options{Region: strPtr("NORTH"), MinAmount: floatPtr(150), MaxAmount: floatPtr(5000)},
			wantIDs:    []string{"T1"},
			wantFunnel: Funnel{TotalInput: 5, Invalid: 2, FilteredByRegion: 1, FilteredByAmount: 1, FinalCount: 1},
		},
		{
			name:       "unknown region",
			opts:       Options{Region: strPtr("Mars")},
			wantIDs:    []string{},
			wantFunnel: Funnel{TotalInput: 5, Invalid: 2, FilteredByRegion: 3, FinalCount: 0},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := Apply(data(), tt.opts)
			if got := ids(res.Transactions); !reflect.DeepEqual(got, tt.wantIDs) {
				t.Errorf("transactions = %v, want %v", got, tt.wantIDs)
			}
			if res.Funnel != tt.wantFunnel {
				t.Errorf("funnel = %+v, want %+v", res.Funnel, tt.wantFunnel)
			}
			f := res.Funnel
			if f.TotalInput-f.Invalid-f.FilteredByRegion-f.FilteredByAmount != f.FinalCount {
				t.Errorf("funnel does not add up: %+v", f)
			}
		})
	}
}

func TestApply_RejectedReasons(t *testing.T) {
	res := Apply(data(), Options{})
	if len(res.Rejected) != 2 {
		t.Fatalf("rejected = %d, want 2", len(res.Rejected))
	}
	if res.Rejected[0].Result.Reason != validation.BadProductPrefix {
		t.Errorf("first rejection = %s", res.Rejected[0].Result.Reason)
	}
	if res.Rejected[1].Result.Reason != validation.NonPositiveQuantity {
		t.Errorf("second rejection = %s", res.Rejected[1].Result.Reason)
	}
}

func TestApply_Empty(t *testing.T) {
	res := Apply(nil, Options{Region: strPtr("North")})
	if res.Funnel != (Funnel{}) || len(res.Transactions) != 0 {
		t.Errorf("empty = %+v", res)
	}
}

func TestAvailableRegions(t *testing.T) {
	got := AvailableRegions(append(data(), types.Transaction{Region: ""}))
	want := []string{"East", "NORTH", "North", "south"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("AvailableRegions() = %v, want %v", got, want)
	}
}

func TestAmountRange(t *testing.T) {
	lo, hi, ok := AmountRange(data())
	if !ok || lo != 0 || hi != 10000 {
		t.Errorf("AmountRange() = %v, %v, %v", lo, hi, ok)
	}

	_, _, ok = AmountRange([]types.Transaction{{Quantity: "x", UnitPrice: "1"}})
	if ok {
		t.Error("expected ok=false when no amount parses")
	}
}
