// =============================================================================
// Sales Analytics - Clean Command
// =============================================================================
//
// COMMAND USAGE:
//   salesctl clean [--input FILE] [--output-dir DIR]
//
// Runs only the cleaning stage: the input file is read with encoding
// fallback, every data line is validated, and the cleaned and invalid files
// are written. A breakdown of rejection reasons is printed.
//
// =============================================================================

package cmd

import (
	"fmt"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/ginjaninja78/sales-analytics/internal/cleaning"
	"github.com/ginjaninja78/sales-analytics/internal/config"
	"github.com/ginjaninja78/sales-analytics/internal/salesfile"
	"github.com/ginjaninja78/sales-analytics/pkg/utils"
)

var (
	cleanInput     string
	cleanOutputDir string
)

var cleanCmd = &cobra.Command{
	Use:   "clean",
	Short: "Clean and validate the sales file without running analytics",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runClean(cmd)
	},
}

func init() {
	rootCmd.AddCommand(cleanCmd)

	cleanCmd.Flags().StringVar(&cleanInput, "input", "", "Input transaction log (overrides input_file)")
	cleanCmd.Flags().StringVar(&cleanOutputDir, "output-dir", "", "Output directory (overrides output_dir)")
}

func runClean(cmd *cobra.Command) error {
	cfg, log, err := runtimeFrom(cmd)
	if err != nil {
		return err
	}
	if cleanInput != "" {
		cfg.InputFile = cleanInput
	}
	if cleanOutputDir != "" {
		cfg.OutputDir = cleanOutputDir
	}

	input, cleaned, err := readAndClean(cfg, log)
	if err != nil {
		return err
	}

	files := utils.NewFileManager(cfg.OutputDir)
	if err := files.EnsureDirectories(); err != nil {
		return err
	}

	cleanedPath := files.Path(cfg.Outputs.Cleaned)
	if err := salesfile.WriteLines(cleanedPath, cleaned.Valid); err != nil {
		return err
	}
	invalidPath := ""
	if len(cleaned.Invalid) > 0 {
		invalidPath = files.Path(cfg.Outputs.Invalid)
		if err := salesfile.WriteLines(invalidPath, cleaned.Invalid); err != nil {
			return err
		}
	}

	out := cmd.OutOrStdout()
	c := cleaned.Counters
	fmt.Fprintln(out, "=== Cleaning Summary ===")
	fmt.Fprintf(out, "Encoding:        %s\n", input.Encoding)
	fmt.Fprintf(out, "Total records:   %d\n", c.Total)
	fmt.Fprintf(out, "Valid:           %d\n", c.Valid)
	fmt.Fprintf(out, "Invalid:         %d\n", c.Invalid)

	order, counts := cleaned.ReasonCounts()
	if len(order) > 0 {
		fmt.Fprintln(out, "\nRejections by reason:")
		for _, reason := range order {
			fmt.Fprintf(out, "  %-24s %d  (%s)\n", reason, counts[reason], reason.Description())
		}
	}

	fmt.Fprintf(out, "\nCleaned file:    %s\n", cleanedPath)
	if invalidPath != "" {
		fmt.Fprintf(out, "Invalid file:    %s\n", invalidPath)
	}
	return nil
}

// readAndClean reads cfg.InputFile and runs the cleaning pipeline over it.
func readAndClean(cfg *config.MainConfig, log zerolog.Logger) (*salesfile.ReadResult, *cleaning.Result, error) {
	input, err := salesfile.ReadLines(cfg.InputFile, cfg.Encodings)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to read input: %w", err)
	}
	log.Debug().Str("path", cfg.InputFile).Str("encoding", input.Encoding).Msg("Read input file")

	cleaned := cleaning.Process(input.Lines)
	log.Debug().
		Int("valid", cleaned.Counters.Valid).
		Int("invalid", cleaned.Counters.Invalid).
		Msg("Cleaned records")
	return input, cleaned, nil
}
