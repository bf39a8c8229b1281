package config

import (
	"fmt"
	"strings"
)

// OutputFormat selects how command reports are written.
type OutputFormat string

const (
	// OutputFormatText is a human-readable report.
	OutputFormatText OutputFormat = "text"
	// OutputFormatJSON is a machine-readable report.
	OutputFormatJSON OutputFormat = "json"
	// OutputFormatDump is a Go object-graph dump for debugging.
	OutputFormatDump OutputFormat = "dump"
)

var validOutputFormats = map[OutputFormat]bool{
	OutputFormatText: true,
	OutputFormatJSON: true,
	OutputFormatDump: true,
}

// ValidOutputFormatNames returns the valid format names for display.
func ValidOutputFormatNames() []string {
	return []string{"text", "json", "dump"}
}

// NormalizeOutputFormat normalizes and validates a format string. Returns
// OutputFormatText if empty.
func NormalizeOutputFormat(format string) (OutputFormat, error) {
	if format == "" {
		return OutputFormatText, nil
	}
	normalized := OutputFormat(strings.ToLower(strings.TrimSpace(format)))
	if !validOutputFormats[normalized] {
		return "", fmt.Errorf(
			"invalid output_format %q; valid options: %s",
			format,
			strings.Join(ValidOutputFormatNames(), ", "),
		)
	}
	return normalized, nil
}

// String implements fmt.Stringer for OutputFormat.
func (f OutputFormat) String() string {
	return string(f)
}
