// =============================================================================
// Sales Analytics - Filter Command
// =============================================================================
//
// COMMAND USAGE:
//   salesctl filter [--region NAME] [--min-amount N] [--max-amount N]
//                   [--out FILE] [--list]
//
// The cleaned transactions pass through strict validation, then the region
// filter (case-insensitive), then the amount range. The funnel printed at the
// end shows how many records each stage removed.
//
// =============================================================================

package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/ginjaninja78/sales-analytics/internal/filter"
	"github.com/ginjaninja78/sales-analytics/internal/report"
	"github.com/ginjaninja78/sales-analytics/internal/salesfile"
	"github.com/ginjaninja78/sales-analytics/internal/types"
)

var (
	filterInput     string
	filterRegion    string
	filterMinAmount float64
	filterMaxAmount float64
	filterOut       string
	filterList      bool
)

var filterCmd = &cobra.Command{
	Use:   "filter",
	Short: "Filter cleaned transactions by region and amount",
	Example: `  salesctl filter --list
  salesctl filter --region north --min-amount 1000
  salesctl filter --max-amount 500 --out output/small_sales.txt`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runFilter(cmd)
	},
}

func init() {
	rootCmd.AddCommand(filterCmd)

	filterCmd.Flags().StringVar(&filterInput, "input", "", "Input transaction log (overrides input_file)")
	filterCmd.Flags().StringVar(&filterRegion, "region", "", "Keep only this region (case-insensitive)")
	filterCmd.Flags().Float64Var(&filterMinAmount, "min-amount", 0, "Keep only transactions with amount >= N")
	filterCmd.Flags().Float64Var(&filterMaxAmount, "max-amount", 0, "Keep only transactions with amount <= N")
	filterCmd.Flags().StringVar(&filterOut, "out", "", "Write the kept transactions to this file")
	filterCmd.Flags().BoolVar(&filterList, "list", false, "List available regions and the amount range, then exit")
}

func runFilter(cmd *cobra.Command) error {
	cfg, log, err := runtimeFrom(cmd)
	if err != nil {
		return err
	}
	if filterInput != "" {
		cfg.InputFile = filterInput
	}

	_, cleaned, err := readAndClean(cfg, log)
	if err != nil {
		return err
	}
	txs := cleaned.Transactions()
	out := cmd.OutOrStdout()

	if filterList {
		fmt.Fprintf(out, "Available regions: %s\n", strings.Join(filter.AvailableRegions(txs), ", "))
		if lo, hi, ok := filter.AmountRange(txs); ok {
			fmt.Fprintf(out, "Amount range:      %s - %s\n", report.Money(lo), report.Money(hi))
		} else {
			fmt.Fprintln(out, "Amount range:      N/A")
		}
		return nil
	}

	// Only flags the user actually set become filter stages.
	var opts filter.Options
	flags := cmd.Flags()
	if flags.Changed("region") {
		opts.Region = &filterRegion
	}
	if flags.Changed("min-amount") {
		opts.MinAmount = &filterMinAmount
	}
	if flags.Changed("max-amount") {
		opts.MaxAmount = &filterMaxAmount
	}
	if opts.MinAmount != nil && opts.MaxAmount != nil && *opts.MinAmount > *opts.MaxAmount {
		return fmt.Errorf("--min-amount %v is greater than --max-amount %v", *opts.MinAmount, *opts.MaxAmount)
	}

	res := filter.Apply(txs, opts)
	for _, rej := range res.Rejected {
		log.Debug().
			Str("transaction_id", rej.Transaction.TransactionID).
			Str("reason", string(rej.Result.Reason)).
			Msg("Dropped by strict validation")
	}

	f := res.Funnel
	fmt.Fprintln(out, "=== Filter Summary ===")
	fmt.Fprintf(out, "Total input:          %d\n", f.TotalInput)
	fmt.Fprintf(out, "Invalid:              %d\n", f.Invalid)
	fmt.Fprintf(out, "Filtered by region:   %d\n", f.FilteredByRegion)
	fmt.Fprintf(out, "Filtered by amount:   %d\n", f.FilteredByAmount)
	fmt.Fprintf(out, "Final count:          %d\n", f.FinalCount)

	if filterOut == "" {
		return nil
	}

	lines := make([]string, 0, len(res.Transactions)+1)
	lines = append(lines, salesfile.JoinFields(types.Header))
	for _, tx := range res.Transactions {
		lines = append(lines, salesfile.JoinFields(tx.Fields()))
	}
	if err := salesfile.WriteLines(filterOut, lines); err != nil {
		return err
	}
	fmt.Fprintf(out, "\nWrote %d transactions to %s\n", len(res.Transactions), filterOut)
	return nil
}
