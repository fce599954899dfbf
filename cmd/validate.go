// =============================================================================
// Sales Analytics - Validate Command
// =============================================================================
//
// COMMAND USAGE:
//   salesctl validate [--show]
//
// Checks that the configuration loads and validates, and that the input file
// exists and can be decoded. With --show, the effective configuration
// (defaults, file, .env and environment merged) is printed as YAML.
//
// =============================================================================

package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/ginjaninja78/sales-analytics/internal/salesfile"
	"github.com/ginjaninja78/sales-analytics/internal/types"
	"github.com/ginjaninja78/sales-analytics/pkg/utils"
)

var validateShow bool

var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Validate the configuration and input file without processing",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runValidate(cmd)
	},
}

func init() {
	rootCmd.AddCommand(validateCmd)

	validateCmd.Flags().BoolVar(&validateShow, "show", false, "Print the effective configuration as YAML")
}

func runValidate(cmd *cobra.Command) error {
	cfg, _, err := runtimeFrom(cmd)
	if err != nil {
		return err
	}
	out := cmd.OutOrStdout()

	// Loading already validated the struct tags.
	fmt.Fprintln(out, "✓ Configuration is valid")

	if validateShow {
		data, err := yaml.Marshal(cfg)
		if err != nil {
			return fmt.Errorf("failed to render configuration: %w", err)
		}
		fmt.Fprintf(out, "\n%s\n", data)
	}

	if !utils.FileExists(cfg.InputFile) {
		return fmt.Errorf("input file %s does not exist", cfg.InputFile)
	}
	input, err := salesfile.ReadLines(cfg.InputFile, cfg.Encodings)
	if err != nil {
		return err
	}
	fmt.Fprintf(out, "✓ Input file %s readable as %s (%d lines)\n", cfg.InputFile, input.Encoding, len(input.Lines))

	if len(input.Lines) > 0 {
		header := salesfile.ParseLine(input.Lines[0])
		if len(header) < types.FieldCount {
			fmt.Fprintf(out, "⚠ Header has %d fields, expected %d\n", len(header), types.FieldCount)
		}
	}
	return nil
}
