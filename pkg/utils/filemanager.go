// =============================================================================
// Sales Analytics - File Manager Utility
// =============================================================================
//
// This module provides the file handling shared by every output stage:
//   - Output directory management
//   - Atomic file writes (temp file + rename)
//   - Output file naming
//   - Rejection log and processing summary generation
//
// ATOMIC WRITES:
//   Each output is written to "<name>.tmp-<random>" in the target directory
//   and renamed over the final path only after a successful flush and sync.
//   Files finished by earlier stages are never touched by later failures.
//
// =============================================================================

package utils

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
)

// =============================================================================
// FILE MANAGER
// =============================================================================

// FileManager resolves and prepares output locations for one run.
type FileManager struct {
	// OutputDir is the directory where all run outputs are placed.
	OutputDir string
}

// NewFileManager creates a new FileManager rooted at outputDir.
func NewFileManager(outputDir string) *FileManager {
	return &FileManager{OutputDir: outputDir}
}

// EnsureDirectories creates the output directory if it doesn't exist.
func (fm *FileManager) EnsureDirectories() error {
	if err := os.MkdirAll(fm.OutputDir, 0755); err != nil {
		return fmt.Errorf("failed to create directory %s: %w", fm.OutputDir, err)
	}
	return nil
}

// Path returns name resolved inside the output directory. Absolute names are
// returned unchanged.
func (fm *FileManager) Path(name string) string {
	if filepath.IsAbs(name) {
		return name
	}
	return filepath.Join(fm.OutputDir, name)
}

// =============================================================================
// ATOMIC WRITES
// =============================================================================

// WriteLinesAtomic writes lines to path, each terminated by "\n".
func WriteLinesAtomic(path string, lines []string) error {
	return writeAtomic(path, func(w *bufio.Writer) error {
		for _, line := range lines {
			if _, err := w.WriteString(line); err != nil {
				return err
			}
			if err := w.WriteByte('\n'); err != nil {
				return err
			}
		}
		return nil
	})
}

// WriteFileAtomic writes data to path.
func WriteFileAtomic(path string, data []byte) error {
	return writeAtomic(path, func(w *bufio.Writer) error {
		_, err := w.Write(data)
		return err
	})
}

func writeAtomic(path string, fill func(w *bufio.Writer) error) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create directory %s: %w", dir, err)
	}

	tmp, err := os.CreateTemp(dir, filepath.Base(path)+".tmp-*")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	tmpName := tmp.Name()

	// Remove the temp file on any failure below.
	committed := false
	defer func() {
		if !committed {
			tmp.Close()
			os.Remove(tmpName)
		}
	}()

	writer := bufio.NewWriter(tmp)
	if err := fill(writer); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	if err := writer.Flush(); err != nil {
		return fmt.Errorf("failed to flush %s: %w", path, err)
	}
	if err := tmp.Sync(); err != nil {
		return fmt.Errorf("failed to sync %s: %w", path, err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("failed to close %s: %w", path, err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		return fmt.Errorf("failed to move %s into place: %w", path, err)
	}

	committed = true
	return nil
}

// =============================================================================
// OUTPUT FILE NAMING
// =============================================================================

// GenerateOutputFileName generates an output file name from a format string.
//
// PARAMETERS:
//   - format: The format string for the file name.
//             Placeholders:
//               {uuid}      - A random UUID
//               {timestamp} - Current timestamp (YYYYMMDD_HHMMSS)
//               {date}      - Current date (YYYYMMDD)
//               {time}      - Current time (HHMMSS)
//               {name}      - Any key supplied in params
//   - params: A map of placeholder values.
//
// RETURNS:
//   - The generated file name. ".txt" is appended when the result has no
//     extension.
//
// EXAMPLE:
//   format: "sales_report_{run}.txt"
//   params: {"run": "3f1c9a2e"}
//   output: "sales_report_3f1c9a2e.txt"
func GenerateOutputFileName(format string, params map[string]string) string {
	now := time.Now()

	replacements := map[string]string{
		"{uuid}":      uuid.New().String(),
		"{timestamp}": now.Format("20060102_150405"),
		"{date}":      now.Format("20060102"),
		"{time}":      now.Format("150405"),
	}
	for key, value := range params {
		replacements["{"+key+"}"] = value
	}

	result := format
	for placeholder, value := range replacements {
		result = strings.ReplaceAll(result, placeholder, value)
	}

	if filepath.Ext(result) == "" {
		result += ".txt"
	}

	return result
}

// =============================================================================
// REJECTION LOG
// =============================================================================

// ErrorLogEntry is one rejected input line.
type ErrorLogEntry struct {
	Timestamp  time.Time
	FileName   string
	Reason     string
	Message    string
	LineNumber int
	Line       string
}

// WriteErrorLog writes rejection entries to a log file in outputDir.
//
// RETURNS:
//   - The path to the log file, or "" when there was nothing to write.
//   - An error if writing fails.
func WriteErrorLog(entries []ErrorLogEntry, outputDir string) (string, error) {
	if len(entries) == 0 {
		return "", nil
	}

	logPath := filepath.Join(outputDir, GenerateOutputFileName("rejected_records_{timestamp}.txt", nil))

	var b strings.Builder
	fmt.Fprintf(&b, "Sales Analytics - Rejected Records\n"+
		"Generated: %s\n"+
		"Total Rejected: %d\n"+
		"%s\n\n",
		time.Now().Format("2006-01-02 15:04:05"), len(entries), rule)

	for i, entry := range entries {
		fmt.Fprintf(&b, "Rejection #%d\n", i+1)
		fmt.Fprintf(&b, "  File:    %s\n", entry.FileName)
		fmt.Fprintf(&b, "  Reason:  %s\n", entry.Reason)
		if entry.Message != "" {
			fmt.Fprintf(&b, "  Message: %s\n", entry.Message)
		}
		if entry.LineNumber > 0 {
			fmt.Fprintf(&b, "  Line:    %d\n", entry.LineNumber)
		}
		fmt.Fprintf(&b, "  Record:  %s\n\n", entry.Line)
	}
	b.WriteString(rule + "\nEnd of Rejection Log\n")

	if err := WriteFileAtomic(logPath, []byte(b.String())); err != nil {
		return "", fmt.Errorf("failed to write error log: %w", err)
	}
	return logPath, nil
}

// =============================================================================
// PROCESSING SUMMARY
// =============================================================================

const rule = "================================================================================"

// ProcessingSummary contains summary information about a processing run.
type ProcessingSummary struct {
	RunID     string
	StartTime time.Time
	EndTime   time.Time

	InputFile string
	Encoding  string

	TotalRecords   int
	ValidRecords   int
	InvalidRecords int
	SkippedAmounts int

	EnrichmentAttempted bool
	Matched             int
	Unmatched           int

	Outputs  []OutputFileInfo
	Warnings []string
}

// OutputFileInfo names one file produced by a run.
type OutputFileInfo struct {
	Kind string
	Path string
}

// WriteSummaryLog writes a processing summary to a log file in outputDir.
func WriteSummaryLog(summary ProcessingSummary, outputDir string) (string, error) {
	name := GenerateOutputFileName("processing_summary_{timestamp}_{run}.txt",
		map[string]string{"run": shortRunID(summary.RunID)})
	summaryPath := filepath.Join(outputDir, name)

	var b strings.Builder
	fmt.Fprintf(&b, "Sales Analytics - Processing Summary\n%s\n\n", rule)
	fmt.Fprintf(&b, "Run Information:\n"+
		"  Run ID:         %s\n"+
		"  Start Time:     %s\n"+
		"  End Time:       %s\n"+
		"  Duration:       %s\n"+
		"  Input File:     %s\n"+
		"  Encoding:       %s\n\n",
		summary.RunID,
		summary.StartTime.Format("2006-01-02 15:04:05"),
		summary.EndTime.Format("2006-01-02 15:04:05"),
		summary.EndTime.Sub(summary.StartTime).String(),
		summary.InputFile,
		summary.Encoding)

	fmt.Fprintf(&b, "Statistics:\n"+
		"  Total Records:      %d\n"+
		"  Valid Records:      %d\n"+
		"  Invalid Records:    %d\n"+
		"  Skipped Amounts:    %d\n",
		summary.TotalRecords,
		summary.ValidRecords,
		summary.InvalidRecords,
		summary.SkippedAmounts)

	if summary.EnrichmentAttempted {
		fmt.Fprintf(&b, "  Enriched (matched): %d\n"+
			"  Unmatched:          %d\n",
			summary.Matched, summary.Unmatched)
	} else {
		b.WriteString("  Enrichment:         skipped\n")
	}
	b.WriteString("\n")

	if len(summary.Outputs) > 0 {
		b.WriteString("Output Files:\n")
		b.WriteString("--------------------------------------------------------------------------------\n")
		for _, out := range summary.Outputs {
			fmt.Fprintf(&b, "  %-12s %s\n", out.Kind+":", out.Path)
		}
		b.WriteString("\n")
	}

	if len(summary.Warnings) > 0 {
		b.WriteString("Warnings:\n")
		b.WriteString("--------------------------------------------------------------------------------\n")
		for _, w := range summary.Warnings {
			fmt.Fprintf(&b, "  %s\n", w)
		}
		b.WriteString("\n")
	}

	b.WriteString(rule + "\nEnd of Summary\n")

	if err := WriteFileAtomic(summaryPath, []byte(b.String())); err != nil {
		return "", fmt.Errorf("failed to write summary file: %w", err)
	}
	return summaryPath, nil
}

func shortRunID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	if id == "" {
		return "run"
	}
	return id
}

// =============================================================================
// UTILITY FUNCTIONS
// =============================================================================

// FileExists checks if a file exists.
func FileExists(path string) bool {
	_, err := os.Stat(path)
	return !os.IsNotExist(err)
}
