// =============================================================================
// Sales Analytics - Root Command
// =============================================================================
//
// This file defines the root command for the Cobra CLI. Every other command
// is attached to it.
//
// COBRA CLI STRUCTURE:
//   rootCmd (salesctl)
//   ├── processCmd  (salesctl process)   full run: clean, analyze, enrich, report
//   ├── cleanCmd    (salesctl clean)     cleaning only
//   ├── filterCmd   (salesctl filter)    region / amount filtering
//   ├── productsCmd (salesctl products)  product API lookups
//   ├── validateCmd (salesctl validate)  configuration check
//   └── versionCmd  (salesctl version)
//
// CONFIGURATION:
//   Before any subcommand runs, the root command:
//   1. Loads the configuration file (--config)
//   2. Builds the logger from it (--verbose forces debug)
//   3. Stores both in the command context
//
// =============================================================================

package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/ginjaninja78/sales-analytics/internal/config"
	"github.com/ginjaninja78/sales-analytics/internal/logger"
)

// =============================================================================
// GLOBAL VARIABLES
// =============================================================================

// cfgFile holds the path to the main configuration file.
var cfgFile string

// verbose enables debug logging.
var verbose bool

type configKey struct{}

// =============================================================================
// ROOT COMMAND DEFINITION
// =============================================================================

var rootCmd = &cobra.Command{
	Use:   "salesctl",
	Short: "Sales Analytics - clean, analyze and report on sales transaction logs",
	Long: `salesctl reads a pipe-delimited sales transaction log, rejects malformed
records, computes sales aggregates, optionally enriches the records with
product data from an HTTP API, and writes a formatted text report.

Key Features:
  - Encoding fallback for legacy exports (utf-8, latin-1, cp1252)
  - Per-record rejection reasons
  - Region, product, customer and daily aggregates
  - Product enrichment that degrades gracefully when the API is down
  - Optional XLSX export of the aggregates

Example Usage:
  salesctl process                      # Full run with config.yaml
  salesctl process --config ./my.yaml   # Use a custom configuration file
  salesctl filter --region north        # Filter the cleaned transactions
  salesctl validate                     # Check configuration without processing`,

	SilenceUsage:      true,
	PersistentPreRunE: setup,

	Run: func(cmd *cobra.Command, args []string) {
		cmd.Help()
	},
}

// =============================================================================
// EXECUTE FUNCTION
// =============================================================================

// Execute runs the root command. It is called by main.main().
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// =============================================================================
// INITIALIZATION
// =============================================================================

func init() {
	rootCmd.PersistentFlags().StringVar(
		&cfgFile,
		"config",
		"config.yaml",
		"Path to the main configuration file",
	)

	rootCmd.PersistentFlags().BoolVarP(
		&verbose,
		"verbose",
		"v",
		false,
		"Enable verbose output for debugging",
	)
}

// setup loads the configuration and logger into the command context.
//
// A missing config.yaml is fine when --config was not given: built-in
// defaults and SALES_* environment variables are used instead.
func setup(cmd *cobra.Command, args []string) error {
	allowMissing := !cmd.Flags().Changed("config")

	cfg, err := config.LoadOrDefault(cfgFile, allowMissing)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return fmt.Errorf("config file %s not found", cfgFile)
		}
		return err
	}

	level := cfg.LogLevel
	if verbose {
		level = "debug"
	}
	log, err := logger.NewWithOptions(logger.Options{Level: level, Format: cfg.LogFormat})
	if err != nil {
		return err
	}

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	ctx = logger.WithContext(ctx, log)
	ctx = context.WithValue(ctx, configKey{}, cfg)
	cmd.SetContext(ctx)

	log.Debug().Str("config", cfgFile).Str("input", cfg.InputFile).Msg("Configuration loaded")
	return nil
}

// runtimeFrom returns the configuration and logger stored by setup.
func runtimeFrom(cmd *cobra.Command) (*config.MainConfig, zerolog.Logger, error) {
	ctx := cmd.Context()
	if ctx == nil {
		return nil, zerolog.Nop(), errors.New("command context not initialized")
	}
	cfg, ok := ctx.Value(configKey{}).(*config.MainConfig)
	if !ok {
		return nil, zerolog.Nop(), errors.New("configuration not loaded")
	}
	return cfg, logger.FromContext(ctx), nil
}
