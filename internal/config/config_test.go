package config

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(body), 0644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoadMainConfig(t *testing.T) {
	path := writeConfig(t, `
input_file: in/sales.txt
output_dir: out
log_level: debug
api:
  enabled: false
  base_url: http://localhost:8080/products
  timeout: 3s
analytics:
  top_products: 3
  low_performer_threshold: 25
export:
  workbook: report.xlsx
`)

	cfg, err := LoadMainConfig(path)
	if err != nil {
		t.Fatalf("LoadMainConfig() error = %v", err)
	}

	if cfg.InputFile != "in/sales.txt" || cfg.OutputDir != "out" {
		t.Errorf("paths = %q, %q", cfg.InputFile, cfg.OutputDir)
	}
	if cfg.API.IsEnabled() {
		t.Error("api should be disabled")
	}
	if cfg.API.Timeout != 3*time.Second {
		t.Errorf("timeout = %v", cfg.API.Timeout)
	}
	if cfg.Analytics.TopProducts != 3 || cfg.Analytics.LowPerformerThreshold != 25 {
		t.Errorf("analytics = %+v", cfg.Analytics)
	}
	// Unset values fall back to defaults.
	if cfg.Analytics.TopCustomers != 5 || cfg.Analytics.DailyRows != 10 {
		t.Errorf("analytics defaults = %+v", cfg.Analytics)
	}
	if cfg.Outputs.Cleaned != "sales_data_cleaned.txt" || cfg.LogFormat != "console" {
		t.Errorf("defaults not applied: %+v", cfg)
	}
	if cfg.Export.Workbook != "report.xlsx" {
		t.Errorf("workbook = %q", cfg.Export.Workbook)
	}
}

func TestLoadMainConfig_Errors(t *testing.T) {
	tests := []struct {
		name    string
		body    string
		wantMsg string
	}{
		{name: "bad yaml", body: "input_file: [unterminated", wantMsg: "failed to parse"},
		{name: "bad log level", body: "log_level: loud", wantMsg: "LogLevel"},
		{name: "bad url", body: "api:\n  base_url: not a url", wantMsg: "BaseURL"},
		{name: "negative top", body: "analytics:\n  top_products: -1", wantMsg: "TopProducts"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := LoadMainConfig(writeConfig(t, tt.body))
			if err == nil {
				t.Fatal("expected error")
			}
			if !strings.Contains(err.Error(), tt.wantMsg) {
				t.Errorf("error %q does not mention %q", err.Error(), tt.wantMsg)
			}
		})
	}
}

func TestLoadOrDefault(t *testing.T) {
	missing := filepath.Join(t.TempDir(), "absent.yaml")

	cfg, err := LoadOrDefault(missing, true)
	if err != nil {
		t.Fatalf("LoadOrDefault(allowMissing) error = %v", err)
	}
	if cfg.InputFile != "data/sales_data.txt" || !cfg.API.IsEnabled() {
		t.Errorf("defaults = %+v", cfg)
	}

	_, err = LoadOrDefault(missing, false)
	if !errors.Is(err, os.ErrNotExist) {
		t.Errorf("expected not-exist error, got %v", err)
	}
}

func TestEnvOverrides(t *testing.T) {
	t.Setenv("SALES_INPUT_FILE", "env/sales.txt")
	t.Setenv("SALES_API_ENABLED", "false")
	t.Setenv("SALES_API_TIMEOUT", "250ms")
	t.Setenv("SALES_LOG_LEVEL", "WARN")

	cfg, err := LoadMainConfig(writeConfig(t, "input_file: file/sales.txt\n"))
	if err != nil {
		t.Fatal(err)
	}
	if cfg.InputFile != "env/sales.txt" {
		t.Errorf("InputFile = %q, env should win", cfg.InputFile)
	}
	if cfg.API.IsEnabled() || cfg.API.Timeout != 250*time.Millisecond {
		t.Errorf("api = %+v", cfg.API)
	}
	if cfg.LogLevel != "warn" {
		t.Errorf("LogLevel = %q", cfg.LogLevel)
	}
}

func TestEnvOverrides_Invalid(t *testing.T) {
	t.Setenv("SALES_API_TIMEOUT", "soon")
	if _, err := Default(); err == nil {
		t.Error("expected error for unparseable timeout")
	}
}
