// =============================================================================
// Sales Analytics - Process Command
// =============================================================================
//
// This file defines the 'process' command, the full pipeline run.
//
// COMMAND USAGE:
//   salesctl process [flags]
//
// FLAGS:
//   --input       : Input transaction log (overrides input_file)
//   --output-dir  : Output directory (overrides output_dir)
//   --no-api      : Skip product enrichment
//   --workbook    : Also export the aggregates to this XLSX file
//
// PROCESSING PIPELINE:
//   1. Read and clean the input file
//   2. Write the cleaned and invalid files
//   3. Compute the aggregates
//   4. Enrich from the product API (unless disabled or unavailable)
//   5. Write the report, the optional workbook and the processing summary
//
// =============================================================================

package cmd

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/ginjaninja78/sales-analytics/internal/config"
	"github.com/ginjaninja78/sales-analytics/internal/report"
	"github.com/ginjaninja78/sales-analytics/internal/runner"
)

// =============================================================================
// COMMAND FLAGS
// =============================================================================

var (
	processInput     string
	processOutputDir string
	processNoAPI     bool
	processWorkbook  string
)

// =============================================================================
// PROCESS COMMAND DEFINITION
// =============================================================================

var processCmd = &cobra.Command{
	Use:   "process",
	Short: "Clean, analyze, enrich and report on the sales file",
	Long: `The process command runs the whole pipeline over the configured input file.

Malformed records are written to the invalid file with a reason log and never
stop the run. If the product API cannot be reached the run continues without
enrichment and the report says so.

Outputs (inside the output directory):
  - sales_data_cleaned.txt   cleaned records with the header
  - invalid_records.txt      rejected records as read (only when there are any)
  - enriched_sales_data.txt  records with API_Category, API_Brand, API_Rating, API_Match
  - api_products.json        the fetched product catalog
  - sales_report.txt         the formatted report
  - processing_summary_*.txt run statistics`,

	RunE: func(cmd *cobra.Command, args []string) error {
		return runProcess(cmd)
	},
}

func init() {
	rootCmd.AddCommand(processCmd)

	processCmd.Flags().StringVar(&processInput, "input", "", "Input transaction log (overrides input_file)")
	processCmd.Flags().StringVar(&processOutputDir, "output-dir", "", "Output directory (overrides output_dir)")
	processCmd.Flags().BoolVar(&processNoAPI, "no-api", false, "Skip product enrichment")
	processCmd.Flags().StringVar(&processWorkbook, "workbook", "", "Also export the aggregates to this XLSX file")
}

// =============================================================================
// MAIN PROCESSING FUNCTION
// =============================================================================

func runProcess(cmd *cobra.Command) error {
	cfg, log, err := runtimeFrom(cmd)
	if err != nil {
		return err
	}

	applyProcessFlags(cfg)
	if err := config.Validate(cfg); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	out := cmd.OutOrStdout()
	fmt.Fprintln(out, "=== Sales Analytics ===")
	fmt.Fprintf(out, "Input: %s\n", cfg.InputFile)

	res, err := runner.New(cfg, log).Run(cmd.Context())
	if err != nil {
		return fmt.Errorf("processing failed: %w", err)
	}

	// =========================================================================
	// PRINT SUMMARY
	// =========================================================================

	s := res.Stats
	fmt.Fprintln(out, "\n=== Processing Complete ===")
	fmt.Fprintf(out, "Run ID:          %s\n", res.RunID)
	fmt.Fprintf(out, "Encoding:        %s\n", s.Encoding)
	fmt.Fprintf(out, "Total records:   %d\n", s.Total)
	fmt.Fprintf(out, "Valid:           %d\n", s.Valid)
	fmt.Fprintf(out, "Invalid:         %d\n", s.Invalid)
	fmt.Fprintf(out, "Total revenue:   %s\n", report.Money(res.Report.Overview.TotalRevenue))
	if s.Enrichment != nil {
		fmt.Fprintf(out, "Enriched:        %d/%d (%.2f%%)\n", s.Enrichment.Matched, s.Enrichment.Total, s.Enrichment.SuccessRate)
	} else {
		fmt.Fprintln(out, "Enriched:        skipped")
	}
	fmt.Fprintf(out, "Time elapsed:    %s\n", s.ProcessingTime.Round(time.Millisecond))

	fmt.Fprintln(out, "\nOutput files:")
	for _, o := range res.Outputs {
		fmt.Fprintf(out, "  ✓ %-11s %s\n", o.Kind, o.Path)
	}
	for _, w := range res.Warnings {
		fmt.Fprintf(out, "  ⚠ %s\n", w)
	}

	return nil
}

// applyProcessFlags lets command-line flags override the configuration.
func applyProcessFlags(cfg *config.MainConfig) {
	if processInput != "" {
		cfg.InputFile = processInput
	}
	if processOutputDir != "" {
		cfg.OutputDir = processOutputDir
	}
	if processNoAPI {
		disabled := false
		cfg.API.Enabled = &disabled
	}
	if processWorkbook != "" {
		cfg.Export.Workbook = processWorkbook
	}
}
