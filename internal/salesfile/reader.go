// =============================================================================
// Sales Analytics - Sales File Reader
// =============================================================================
//
// This module reads pipe-delimited transaction logs exported by point-of-sale
// systems. Exports arrive in whatever encoding the till was configured with,
// so the reader tries a list of encodings in order and uses the first one that
// decodes the file.
//
// ENCODINGS:
//   utf-8 (strict), then the single-byte fallbacks latin-1, cp1252 and
//   iso-8859-1. Because single-byte decoders accept any input, the first
//   single-byte encoding in the list always wins once UTF-8 has failed.
//
// LINE HANDLING:
//   - "\r\n" and "\r" line endings are normalized to "\n"
//   - A leading UTF-8 byte order mark is dropped
//   - Line text is returned untouched otherwise; trimming is the cleaner's job
//
// =============================================================================

package salesfile

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/transform"

	"github.com/ginjaninja78/sales-analytics/internal/types"
)

// DefaultEncodings is the fallback order used when none is configured.
var DefaultEncodings = []string{"utf-8", "latin-1", "cp1252", "iso-8859-1"}

// ErrUndecodable is wrapped by FileError when no encoding could decode a file.
var ErrUndecodable = errors.New("no encoding could decode the file")

// =============================================================================
// FILE ERROR
// =============================================================================

// FileError describes a failed read or write of a sales file.
type FileError struct {
	// Op is "read" or "write".
	Op string

	// Path is the file that failed.
	Path string

	// Encodings lists the encodings attempted, for reads.
	Encodings []string

	// Err is the underlying failure.
	Err error
}

// Error implements the error interface.
func (e *FileError) Error() string {
	if len(e.Encodings) > 0 {
		return fmt.Sprintf("failed to %s %s (tried encodings: %s): %v",
			e.Op, e.Path, strings.Join(e.Encodings, ", "), e.Err)
	}
	return fmt.Sprintf("failed to %s %s: %v", e.Op, e.Path, e.Err)
}

// Unwrap returns the underlying failure.
func (e *FileError) Unwrap() error {
	return e.Err
}

// =============================================================================
// READING
// =============================================================================

// ReadResult holds the decoded lines of a sales file.
type ReadResult struct {
	// Lines are the file lines without terminators.
	Lines []string

	// Encoding is the encoding that decoded the file.
	Encoding string
}

// ReadLines reads the file at path, trying each encoding in order.
//
// PARAMETERS:
//   - path: The sales file to read.
//   - encodings: Encoding names in fallback order. Empty means DefaultEncodings.
//
// RETURNS:
//   - The decoded lines and the encoding used.
//   - A *FileError naming the path and the encodings tried on failure.
func ReadLines(path string, encodings []string) (*ReadResult, error) {
	if len(encodings) == 0 {
		encodings = DefaultEncodings
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, &FileError{Op: "read", Path: path, Err: err}
	}

	var tried []string
	for _, name := range encodings {
		tried = append(tried, name)

		text, ok := decode(data, name)
		if !ok {
			continue
		}

		return &ReadResult{
			Lines:    SplitLines(text),
			Encoding: name,
		}, nil
	}

	return nil, &FileError{Op: "read", Path: path, Encodings: tried, Err: ErrUndecodable}
}

// decode converts data to a string using the named encoding.
// It reports false when the encoding is unknown or rejects the input.
func decode(data []byte, name string) (string, bool) {
	if isUTF8(name) {
		if !utf8.Valid(data) {
			return "", false
		}
		return string(bytes.TrimPrefix(data, []byte("\ufeff"))), true
	}

	enc := lookupEncoding(name)
	if enc == nil {
		return "", false
	}

	out, _, err := transform.Bytes(enc.NewDecoder(), data)
	if err != nil {
		return "", false
	}
	return string(out), true
}

func isUTF8(name string) bool {
	switch strings.ToLower(name) {
	case "utf-8", "utf8":
		return true
	}
	return false
}

// lookupEncoding maps an encoding name to its decoder.
//
// CUSTOMIZATION: Add further single-byte code pages here.
func lookupEncoding(name string) encoding.Encoding {
	switch strings.ToLower(strings.ReplaceAll(name, "_", "-")) {
	case "latin-1", "latin1", "iso-8859-1", "iso8859-1":
		return charmap.ISO8859_1
	case "cp1252", "windows-1252":
		return charmap.Windows1252
	case "iso-8859-15", "latin-9":
		return charmap.ISO8859_15
	}
	return nil
}

// SplitLines splits decoded text into lines, dropping the empty tail after a
// final newline.
func SplitLines(text string) []string {
	text = strings.ReplaceAll(text, "\r\n", "\n")
	text = strings.ReplaceAll(text, "\r", "\n")
	if text == "" {
		return []string{}
	}

	lines := strings.Split(text, "\n")
	if lines[len(lines)-1] == "" {
		lines = lines[:len(lines)-1]
	}
	return lines
}

// =============================================================================
// LINE CODEC
// =============================================================================

// ParseLine splits a line on the pipe delimiter and trims every field.
func ParseLine(line string) []string {
	fields := strings.Split(strings.TrimSpace(line), types.Delimiter)
	for i := range fields {
		fields[i] = strings.TrimSpace(fields[i])
	}
	return fields
}

// JoinFields is the inverse of ParseLine for already-trimmed fields.
func JoinFields(fields []string) string {
	return strings.Join(fields, types.Delimiter)
}

// IsBlank reports whether a line carries no data.
func IsBlank(line string) bool {
	return strings.TrimSpace(line) == ""
}
