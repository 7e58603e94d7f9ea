// Package validation checks user-supplied paths and options before commands run.
package validation

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"unicode/utf8"
)

// Export formats.
const (
	FormatCSV  = "csv"
	FormatXLSX = "xlsx"
	FormatJSON = "json"
)

// IsValidPath checks if a given path exists and is a regular file or directory.
func IsValidPath(path string) error {
	info, err := os.Stat(path)
	if os.IsNotExist(err) {
		return fmt.Errorf("path does not exist: %s", path)
	}
	if err != nil {
		return fmt.Errorf("error checking path %s: %w", path, err)
	}

	if !info.IsDir() && !info.Mode().IsRegular() {
		return fmt.Errorf("path %s is neither a file nor a directory", path)
	}
	return nil
}

// IsValidOutputFormat checks if the given export format is supported.
func IsValidOutputFormat(format string) error {
	switch format {
	case FormatCSV, FormatXLSX, FormatJSON:
		return nil
	default:
		return fmt.Errorf("unsupported output format: %s. Supported formats are 'csv', 'xlsx', 'json'", format)
	}
}

// FormatFromPath infers the export format from the file extension, defaulting to csv.
func FormatFromPath(path string) string {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".xlsx":
		return FormatXLSX
	case ".json":
		return FormatJSON
	default:
		return FormatCSV
	}
}

// ParseDelimiter converts a configured delimiter into a rune. "auto" and "" yield 0,
// meaning the delimiter is sniffed from the header.
func ParseDelimiter(value string) (rune, error) {
	switch strings.ToLower(value) {
	case "", "auto":
		return 0, nil
	case "tab", `\t`:
		return '\t', nil
	}
	if utf8.RuneCountInString(value) != 1 {
		return 0, fmt.Errorf("delimiter must be a single character or 'auto', got %q", value)
	}
	r, _ := utf8.DecodeRuneInString(value)
	if r == '"' || r == '\r' || r == '\n' || r == utf8.RuneError {
		return 0, fmt.Errorf("invalid delimiter %q", value)
	}
	return r, nil
}

// IsValidFilePermissions rejects modes that grant any permission to others.
func IsValidFilePermissions(mode os.FileMode) error {
	if mode&0007 != 0 {
		return fmt.Errorf("file permissions are too permissive: %s. Recommended 0600 or 0640", mode.String())
	}
	return nil
}
