package validation

import (
	"errors"
	"strings"
	"testing"

	"github.com/ginjaninja78/sales-analytics/internal/types"
)

func split(line string) []string {
	fields := strings.Split(line, "|")
	for i := range fields {
		fields[i] = strings.TrimSpace(fields[i])
	}
	return fields
}

func TestValidateRaw(t *testing.T) {
	tests := []struct {
		name  string
		line  string
		want  Reason
		field string
	}{
		{
			name: "valid record",
			line: "T001|2024-12-01|P101|Laptop|2|45000|C001|North",
			want: Valid,
		},
		{
			name: "valid with thousands separators",
			line: "T003|2024-12-02|P102|Mouse|1,916|1,500.00|C002|South",
			want: Valid,
		},
		{
			name: "short record",
			line: "T001|2024-12-01|P101|Laptop|2|45000|C001",
			want: ShortRecord,
		},
		{
			name:  "missing customer",
			line:  "T001|2024-12-01|P101|Laptop|2|45000||North",
			want:  MissingKeyField,
			field: "CustomerID",
		},
		{
			name:  "missing region",
			line:  "T001|2024-12-01|P101|Laptop|2|45000|C001|",
			want:  MissingKeyField,
			field: "Region",
		},
		{
			name:  "unparseable quantity",
			line:  "T001|2024-12-01|P101|Laptop|two|45000|C001|North",
			want:  InvalidQuantity,
			field: "Quantity",
		},
		{
			name:  "zero quantity",
			line:  "T002|2024-12-01|P101|Laptop|0|45000|C001|North",
			want:  NonPositiveQuantity,
			field: "Quantity",
		},
		{
			name:  "negative price",
			line:  "T001|2024-12-01|P101|Laptop|2|-5|C001|North",
			want:  NonPositivePrice,
			field: "UnitPrice",
		},
		{
			name:  "unparseable price",
			line:  "T001|2024-12-01|P101|Laptop|2|4.5.0|C001|North",
			want:  InvalidPrice,
			field: "UnitPrice",
		},
		{
			name:  "bad transaction prefix",
			line:  "X001|2024-12-01|P101|Laptop|2|45000|C001|North",
			want:  BadTransactionPrefix,
			field: "TransactionID",
		},
		{
			// Key fields are checked before numbers.
			name:  "missing key wins over bad quantity",
			line:  "T001|2024-12-01|P101|Laptop|0|45000||North",
			want:  MissingKeyField,
			field: "CustomerID",
		},
		{
			// Quantity is checked before price.
			name:  "quantity wins over price",
			line:  "T001|2024-12-01|P101|Laptop|0|-1|C001|North",
			want:  NonPositiveQuantity,
			field: "Quantity",
		},
		{
			// Numbers are checked before the prefix.
			name:  "price wins over prefix",
			line:  "X001|2024-12-01|P101|Laptop|2|0|C001|North",
			want:  NonPositivePrice,
			field: "UnitPrice",
		},
		{
			// The cleaning-time rules do not look at ProductID or CustomerID prefixes.
			name: "product and customer prefixes ignored",
			line: "T001|2024-12-01|X101|Laptop|2|45000|Z001|North",
			want: Valid,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ValidateRaw(split(tt.line))
			if got.Reason != tt.want {
				t.Fatalf("ValidateRaw() reason = %s, want %s", got.Reason, tt.want)
			}
			if got.Field != tt.field {
				t.Errorf("ValidateRaw() field = %q, want %q", got.Field, tt.field)
			}
			if got.OK() != (tt.want == Valid) {
				t.Errorf("OK() = %v for reason %s", got.OK(), got.Reason)
			}
		})
	}
}

func TestValidateRaw_InvalidNumberCarriesParseError(t *testing.T) {
	got := ValidateRaw(split("T001|2024-12-01|P101|Laptop|abc|45000|C001|North"))
	if got.Reason != InvalidQuantity {
		t.Fatalf("reason = %s, want %s", got.Reason, InvalidQuantity)
	}
	err := got.AsError()
	if err == nil {
		t.Fatal("expected error for rejected record")
	}
	if !IsNumericFailure(err) {
		t.Errorf("expected numeric failure in chain, got %v", err)
	}
	var ve *ValidationError
	if !errors.As(err, &ve) {
		t.Fatalf("expected *ValidationError, got %T", err)
	}
	if !strings.Contains(ve.Error(), "INVALID_QUANTITY") {
		t.Errorf("error text %q does not name the reason", ve.Error())
	}
}

func TestValidateTransaction(t *testing.T) {
	base := types.Transaction{
		TransactionID: "T001",
		Date:          "2024-12-01",
		ProductID:     "P101",
		ProductName:   "Laptop",
		Quantity:      "2",
		UnitPrice:     "45000",
		CustomerID:    "C001",
		Region:        "North",
	}

	tests := []struct {
		name   string
		modify func(tx *types.Transaction)
		want   Reason
		field  string
	}{
		{name: "valid", modify: func(tx *types.Transaction) {}, want: Valid},
		{
			name:   "empty region is allowed",
			modify: func(tx *types.Transaction) { tx.Region = "" },
			want:   Valid,
		},
		{
			name:   "missing transaction id",
			modify: func(tx *types.Transaction) { tx.TransactionID = "" },
			want:   MissingKeyField,
			field:  "TransactionID",
		},
		{
			name:   "missing product id before customer id",
			modify: func(tx *types.Transaction) { tx.ProductID = ""; tx.CustomerID = "" },
			want:   MissingKeyField,
			field:  "ProductID",
		},
		{
			name:   "missing unit price",
			modify: func(tx *types.Transaction) { tx.UnitPrice = " " },
			want:   MissingKeyField,
			field:  "UnitPrice",
		},
		{
			name:   "non-positive quantity",
			modify: func(tx *types.Transaction) { tx.Quantity = "-1" },
			want:   NonPositiveQuantity,
			field:  "Quantity",
		},
		{
			name:   "invalid price",
			modify: func(tx *types.Transaction) { tx.UnitPrice = "cheap" },
			want:   InvalidPrice,
			field:  "UnitPrice",
		},
		{
			name:   "bad transaction prefix",
			modify: func(tx *types.Transaction) { tx.TransactionID = "001" },
			want:   BadTransactionPrefix,
			field:  "TransactionID",
		},
		{
			name:   "bad product prefix",
			modify: func(tx *types.Transaction) { tx.ProductID = "X101" },
			want:   BadProductPrefix,
			field:  "ProductID",
		},
		{
			name:   "bad customer prefix",
			modify: func(tx *types.Transaction) { tx.CustomerID = "001" },
			want:   BadCustomerPrefix,
			field:  "CustomerID",
		},
		{
			name: "transaction prefix checked before product prefix",
			modify: func(tx *types.Transaction) {
				tx.TransactionID = "X1"
				tx.ProductID = "X2"
			},
			want:  BadTransactionPrefix,
			field: "TransactionID",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tx := base
			tt.modify(&tx)
			got := ValidateTransaction(tx)
			if got.Reason != tt.want {
				t.Fatalf("ValidateTransaction() reason = %s, want %s", got.Reason, tt.want)
			}
			if got.Field != tt.field {
				t.Errorf("ValidateTransaction() field = %q, want %q", got.Field, tt.field)
			}
		})
	}
}

func TestReasonDescription(t *testing.T) {
	if NonPositiveQuantity.Description() == string(NonPositiveQuantity) {
		t.Error("expected a human-readable description for NON_POSITIVE_QUANTITY")
	}
	if got := Reason("SOMETHING_ELSE").Description(); got != "SOMETHING_ELSE" {
		t.Errorf("unknown reason description = %q", got)
	}
}
