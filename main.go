// =============================================================================
// Sales Analytics - Main Entry Point
// =============================================================================
//
// USAGE:
//   salesctl process    - Clean, analyze, enrich and report on the input file
//   salesctl clean      - Clean the input file only
//   salesctl filter     - Filter cleaned transactions by region or amount
//   salesctl products   - Query the product API
//   salesctl validate   - Validate the configuration without processing
//   salesctl version    - Display the application version
//
// ARCHITECTURE:
//   - cmd/       : CLI command definitions (Cobra)
//   - internal/  : Core business logic
//   - pkg/       : Shared file utilities
//
// =============================================================================

package main

import (
	"github.com/ginjaninja78/sales-analytics/cmd"
)

func main() {
	cmd.Execute()
}
