// =============================================================================
// Sales Analytics - Configuration Module
// =============================================================================
//
// This module loads the application configuration.
//
// SOURCES (later sources win):
//   1. Built-in defaults
//   2. config.yaml (or the file passed with --config)
//   3. A .env file in the working directory, if present
//   4. SALES_* environment variables
//   5. Command-line flags (applied by the cmd package)
//
// The merged configuration is validated with struct tags before use.
//
// =============================================================================

package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// =============================================================================
// MAIN CONFIGURATION STRUCTURE
// =============================================================================

// MainConfig holds the global application configuration.
type MainConfig struct {
	// =========================================================================
	// FILE SETTINGS
	// =========================================================================

	// InputFile is the pipe-delimited transaction log to analyze.
	// Default: "data/sales_data.txt"
	InputFile string `yaml:"input_file" validate:"required"`

	// OutputDir receives every file a run produces.
	// Default: "output"
	OutputDir string `yaml:"output_dir" validate:"required"`

	// Encodings is the fallback order used to decode the input file.
	// Default: utf-8, latin-1, cp1252, iso-8859-1
	Encodings []string `yaml:"encodings" validate:"min=1,dive,required"`

	// Outputs names the files written inside OutputDir.
	Outputs OutputFiles `yaml:"outputs"`

	// =========================================================================
	// LOGGING SETTINGS
	// =========================================================================

	// LogLevel controls the verbosity of logging.
	// Valid values: "debug", "info", "warn", "error"
	// Default: "info"
	LogLevel string `yaml:"log_level" validate:"oneof=debug info warn error"`

	// LogFormat selects human-readable ("console") or "json" log lines.
	// Default: "console"
	LogFormat string `yaml:"log_format" validate:"oneof=console json"`

	// =========================================================================
	// PRODUCT API SETTINGS
	// =========================================================================

	API APIConfig `yaml:"api"`

	// =========================================================================
	// ANALYTICS SETTINGS
	// =========================================================================

	Analytics AnalyticsConfig `yaml:"analytics"`

	// =========================================================================
	// EXPORT SETTINGS
	// =========================================================================

	Export ExportConfig `yaml:"export"`
}

// OutputFiles names the per-run output files.
type OutputFiles struct {
	Cleaned  string `yaml:"cleaned" validate:"required"`
	Invalid  string `yaml:"invalid" validate:"required"`
	Enriched string `yaml:"enriched" validate:"required"`
	Report   string `yaml:"report" validate:"required"`
	Products string `yaml:"products" validate:"required"`
}

// APIConfig configures the product lookup service.
type APIConfig struct {
	// Enabled turns enrichment on. A pointer distinguishes "unset" from false.
	Enabled *bool `yaml:"enabled"`

	// BaseURL is the products endpoint.
	// Default: "https://dummyjson.com/products"
	BaseURL string `yaml:"base_url" validate:"required,url"`

	// Timeout bounds each request, e.g. "10s".
	Timeout time.Duration `yaml:"timeout" validate:"gt=0"`

	// PageLimit is the number of products requested per fetch.
	PageLimit int `yaml:"page_limit" validate:"gt=0"`
}

// IsEnabled reports whether enrichment should run.
func (a APIConfig) IsEnabled() bool {
	return a.Enabled == nil || *a.Enabled
}

// AnalyticsConfig tunes the report sections.
type AnalyticsConfig struct {
	TopProducts           int     `yaml:"top_products" validate:"gt=0"`
	TopCustomers          int     `yaml:"top_customers" validate:"gt=0"`
	LowPerformerThreshold float64 `yaml:"low_performer_threshold" validate:"gte=0"`
	DailyRows             int     `yaml:"daily_rows" validate:"gt=0"`
}

// ExportConfig controls optional exports.
type ExportConfig struct {
	// Workbook, when set, is the XLSX file name for the aggregate export.
	Workbook string `yaml:"workbook"`
}

// =============================================================================
// CONFIGURATION LOADING FUNCTIONS
// =============================================================================

// Default returns the built-in configuration with environment overrides
// applied.
func Default() (*MainConfig, error) {
	var config MainConfig
	return finish(&config)
}

// LoadMainConfig loads the main configuration from a YAML file.
//
// PARAMETERS:
//   - configPath: The path to the main configuration file.
//
// RETURNS:
//   - A pointer to the MainConfig struct.
//   - An error if the file cannot be read or parsed, or fails validation.
func LoadMainConfig(configPath string) (*MainConfig, error) {
	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var config MainConfig
	if err := yaml.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	return finish(&config)
}

// LoadOrDefault loads configPath, falling back to Default when the file does
// not exist and allowMissing is set.
func LoadOrDefault(configPath string, allowMissing bool) (*MainConfig, error) {
	cfg, err := LoadMainConfig(configPath)
	if err != nil && allowMissing && errors.Is(err, os.ErrNotExist) {
		return Default()
	}
	return cfg, err
}

func finish(config *MainConfig) (*MainConfig, error) {
	applyMainConfigDefaults(config)

	// A missing .env file is normal.
	_ = godotenv.Load()
	if err := applyEnvOverrides(config); err != nil {
		return nil, fmt.Errorf("invalid environment override: %w", err)
	}

	if err := Validate(config); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return config, nil
}

// applyMainConfigDefaults sets default values for any unset configuration options.
func applyMainConfigDefaults(config *MainConfig) {
	if config.InputFile == "" {
		config.InputFile = "data/sales_data.txt"
	}
	if config.OutputDir == "" {
		config.OutputDir = "output"
	}
	if len(config.Encodings) == 0 {
		config.Encodings = []string{"utf-8", "latin-1", "cp1252", "iso-8859-1"}
	}

	if config.Outputs.Cleaned == "" {
		config.Outputs.Cleaned = "sales_data_cleaned.txt"
	}
	if config.Outputs.Invalid == "" {
		config.Outputs.Invalid = "invalid_records.txt"
	}
	if config.Outputs.Enriched == "" {
		config.Outputs.Enriched = "enriched_sales_data.txt"
	}
	if config.Outputs.Report == "" {
		config.Outputs.Report = "sales_report.txt"
	}
	if config.Outputs.Products == "" {
		config.Outputs.Products = "api_products.json"
	}

	if config.LogLevel == "" {
		config.LogLevel = "info"
	}
	if config.LogFormat == "" {
		config.LogFormat = "console"
	}

	if config.API.BaseURL == "" {
		config.API.BaseURL = "https://dummyjson.com/products"
	}
	if config.API.Timeout == 0 {
		config.API.Timeout = 10 * time.Second
	}
	if config.API.PageLimit == 0 {
		config.API.PageLimit = 100
	}

	if config.Analytics.TopProducts == 0 {
		config.Analytics.TopProducts = 5
	}
	if config.Analytics.TopCustomers == 0 {
		config.Analytics.TopCustomers = 5
	}
	if config.Analytics.LowPerformerThreshold == 0 {
		config.Analytics.LowPerformerThreshold = 10
	}
	if config.Analytics.DailyRows == 0 {
		config.Analytics.DailyRows = 10
	}
}

// applyEnvOverrides applies SALES_* environment variables.
//
// SUPPORTED VARIABLES:
//   SALES_INPUT_FILE, SALES_OUTPUT_DIR, SALES_LOG_LEVEL, SALES_LOG_FORMAT,
//   SALES_API_ENABLED, SALES_API_BASE_URL, SALES_API_TIMEOUT
func applyEnvOverrides(config *MainConfig) error {
	if v, ok := os.LookupEnv("SALES_INPUT_FILE"); ok && v != "" {
		config.InputFile = v
	}
	if v, ok := os.LookupEnv("SALES_OUTPUT_DIR"); ok && v != "" {
		config.OutputDir = v
	}
	if v, ok := os.LookupEnv("SALES_LOG_LEVEL"); ok && v != "" {
		config.LogLevel = strings.ToLower(v)
	}
	if v, ok := os.LookupEnv("SALES_LOG_FORMAT"); ok && v != "" {
		config.LogFormat = strings.ToLower(v)
	}
	if v, ok := os.LookupEnv("SALES_API_BASE_URL"); ok && v != "" {
		config.API.BaseURL = v
	}
	if v, ok := os.LookupEnv("SALES_API_ENABLED"); ok && v != "" {
		enabled, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("SALES_API_ENABLED: %w", err)
		}
		config.API.Enabled = &enabled
	}
	if v, ok := os.LookupEnv("SALES_API_TIMEOUT"); ok && v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("SALES_API_TIMEOUT: %w", err)
		}
		config.API.Timeout = d
	}
	return nil
}

// =============================================================================
// VALIDATION
// =============================================================================

var validate = validator.New()

// Validate checks the configuration against its struct tags.
func Validate(config *MainConfig) error {
	err := validate.Struct(config)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err
	}

	msgs := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		msgs = append(msgs, fmt.Sprintf("%s failed '%s' (value: %v)", fe.Namespace(), fe.Tag(), fe.Value()))
	}
	return errors.New(strings.Join(msgs, "; "))
}
