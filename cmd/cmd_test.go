package cmd

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

const cmdSales = `TransactionID|Date|ProductID|ProductName|Quantity|UnitPrice|CustomerID|Region
T001|2024-12-01|P101|Laptop|2|45000|C001|North
T002|2024-12-01|P102|Mouse|10|500|C002|South
T003|2024-12-02|P103|Keyboard|5|1500|C003|north
T004|2024-12-02|P104|Cable|0|100|C004|East
`

// execute runs the root command with a fresh config file and returns stdout.
func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	dir := t.TempDir()

	input := filepath.Join(dir, "sales.txt")
	if err := os.WriteFile(input, []byte(cmdSales), 0644); err != nil {
		t.Fatal(err)
	}
	configPath := filepath.Join(dir, "config.yaml")
	body := "input_file: " + input + "\noutput_dir: " + filepath.Join(dir, "out") +
		"\nlog_level: error\napi:\n  enabled: false\n"
	if err := os.WriteFile(configPath, []byte(body), 0644); err != nil {
		t.Fatal(err)
	}

	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&bytes.Buffer{})
	rootCmd.SetArgs(append([]string{"--config", configPath}, args...))
	err := rootCmd.Execute()
	return out.String(), err
}

func TestVersionCommand(t *testing.T) {
	out, err := execute(t, "version")
	if err != nil {
		t.Fatalf("version error = %v", err)
	}
	if !strings.Contains(out, "Version:    "+Version) {
		t.Errorf("output = %q", out)
	}
}

func TestCleanCommand(t *testing.T) {
	out, err := execute(t, "clean")
	if err != nil {
		t.Fatalf("clean error = %v", err)
	}
	for _, want := range []string{"Total records:   4", "Valid:           3", "Invalid:         1", "NON_POSITIVE_QUANTITY"} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
}

func TestFilterCommand(t *testing.T) {
	out, err := execute(t, "filter", "--list")
	if err != nil {
		t.Fatalf("filter --list error = %v", err)
	}
	if !strings.Contains(out, "Available regions: North, South, north") {
		t.Errorf("output = %q", out)
	}

	outFile := filepath.Join(t.TempDir(), "north.txt")
	out, err = execute(t, "filter", "--list=false", "--region", "NORTH", "--min-amount", "10000", "--out", outFile)
	if err != nil {
		t.Fatalf("filter error = %v", err)
	}
	if !strings.Contains(out, "Filtered by region:   1") || !strings.Contains(out, "Final count:          1") {
		t.Errorf("funnel output = %q", out)
	}

	data, err := os.ReadFile(outFile)
	if err != nil {
		t.Fatal(err)
	}
	if lines := strings.Split(strings.TrimSpace(string(data)), "\n"); len(lines) != 2 || !strings.HasPrefix(lines[1], "T001|") {
		t.Errorf("filtered file = %q", lines)
	}
}

func TestProcessCommand(t *testing.T) {
	out, err := execute(t, "process", "--workbook", "report.xlsx")
	if err != nil {
		t.Fatalf("process error = %v", err)
	}
	for _, want := range []string{"Valid:           3", "Total revenue:   $102,500.00", "Enriched:        skipped", "workbook"} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
}

func TestValidateCommand(t *testing.T) {
	out, err := execute(t, "validate", "--show")
	if err != nil {
		t.Fatalf("validate error = %v", err)
	}
	if !strings.Contains(out, "Configuration is valid") || !strings.Contains(out, "input_file:") {
		t.Errorf("output = %q", out)
	}
}

func TestMissingConfigFile(t *testing.T) {
	rootCmd.SetOut(&bytes.Buffer{})
	rootCmd.SetErr(&bytes.Buffer{})
	rootCmd.SetArgs([]string{"--config", filepath.Join(t.TempDir(), "absent.yaml"), "clean"})
	if err := rootCmd.Execute(); err == nil || !strings.Contains(err.Error(), "not found") {
		t.Errorf("expected not found error, got %v", err)
	}
}
