// =============================================================================
// Sales Analytics - Shared Types
// =============================================================================
//
// This package contains the record types shared by the cleaning, analytics,
// enrichment and filter packages, kept here to avoid import cycles.
//
// FIELD LAYOUT (pipe-delimited):
//   TransactionID|Date|ProductID|ProductName|Quantity|UnitPrice|CustomerID|Region
//
// =============================================================================

package types

import "strings"

// =============================================================================
// FIELD LAYOUT
// =============================================================================

// Delimiter separates fields on a transaction line.
const Delimiter = "|"

// Field positions within a raw record.
const (
	FieldTransactionID = iota
	FieldDate
	FieldProductID
	FieldProductName
	FieldQuantity
	FieldUnitPrice
	FieldCustomerID
	FieldRegion

	// FieldCount is the number of fields a complete record carries.
	FieldCount
)

// Header is the column header of the transaction log.
var Header = []string{
	"TransactionID", "Date", "ProductID", "ProductName",
	"Quantity", "UnitPrice", "CustomerID", "Region",
}

// EnrichedHeader is the column header of the enriched output file.
var EnrichedHeader = append(append([]string{}, Header...),
	"API_Category", "API_Brand", "API_Rating", "API_Match",
)

// =============================================================================
// TRANSACTION TYPES
// =============================================================================

// Transaction is one validated sale.
//
// Quantity and UnitPrice keep their cleaned text. Aggregations parse them on
// every read and skip the record when a value does not parse, so a bad number
// never aborts a whole report.
type Transaction struct {
	TransactionID string `json:"TransactionID"`
	Date          string `json:"Date"`
	ProductID     string `json:"ProductID"`
	ProductName   string `json:"ProductName"`
	Quantity      string `json:"Quantity"`
	UnitPrice     string `json:"UnitPrice"`
	CustomerID    string `json:"CustomerID"`
	Region        string `json:"Region"`
}

// TransactionFromFields builds a Transaction from the first FieldCount fields.
// The caller must ensure fields holds at least FieldCount entries.
func TransactionFromFields(fields []string) Transaction {
	return Transaction{
		TransactionID: fields[FieldTransactionID],
		Date:          fields[FieldDate],
		ProductID:     fields[FieldProductID],
		ProductName:   fields[FieldProductName],
		Quantity:      fields[FieldQuantity],
		UnitPrice:     fields[FieldUnitPrice],
		CustomerID:    fields[FieldCustomerID],
		Region:        fields[FieldRegion],
	}
}

// Fields returns the transaction in file column order.
func (t Transaction) Fields() []string {
	return []string{
		t.TransactionID, t.Date, t.ProductID, t.ProductName,
		t.Quantity, t.UnitPrice, t.CustomerID, t.Region,
	}
}

// TransactionsFromLines converts cleaned lines into transactions.
//
// The first line is treated as the header and skipped. Blank lines and lines
// with fewer than FieldCount fields are ignored; extra fields are dropped.
func TransactionsFromLines(lines []string) []Transaction {
	if len(lines) <= 1 {
		return []Transaction{}
	}

	txs := make([]Transaction, 0, len(lines)-1)
	for _, line := range lines[1:] {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		fields := strings.Split(line, Delimiter)
		if len(fields) < FieldCount {
			continue
		}
		for i := range fields {
			fields[i] = strings.TrimSpace(fields[i])
		}
		txs = append(txs, TransactionFromFields(fields))
	}
	return txs
}

// =============================================================================
// ENRICHMENT TYPES
// =============================================================================

// ProductInfo is the product metadata used for enrichment.
type ProductInfo struct {
	Title    string  `json:"title"`
	Category string  `json:"category"`
	Brand    string  `json:"brand"`
	Rating   float64 `json:"rating"`
}

// Catalog maps numeric product ids to their metadata.
type Catalog map[int]ProductInfo

// EnrichedTransaction is a Transaction plus the product lookup outcome.
// The API fields are nil when no catalog entry matched.
type EnrichedTransaction struct {
	Transaction

	APICategory *string  `json:"API_Category"`
	APIBrand    *string  `json:"API_Brand"`
	APIRating   *float64 `json:"API_Rating"`
	APIMatch    bool     `json:"API_Match"`
}
