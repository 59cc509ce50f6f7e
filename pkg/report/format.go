// Package report renders the summary of a runfiles run for humans (styled
// text) or for tools (YAML, TOML).
package report

import (
	"os"
	"strings"

	"github.com/arthur-debert/build-runfiles/pkg/errors"
	"github.com/mattn/go-isatty"
)

// Format represents the output format type
type Format int

const (
	// FormatNone disables the report
	FormatNone Format = iota
	// FormatText renders a styled, line-oriented summary
	FormatText
	// FormatYAML renders machine-readable YAML
	FormatYAML
	// FormatTOML renders machine-readable TOML
	FormatTOML
)

// String returns the string representation of the format
func (f Format) String() string {
	switch f {
	case FormatNone:
		return "none"
	case FormatText:
		return "text"
	case FormatYAML:
		return "yaml"
	case FormatTOML:
		return "toml"
	default:
		return "unknown"
	}
}

// ParseFormat parses a string into a Format value
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(s) {
	case "", "none":
		return FormatNone, nil
	case "text", "plain":
		return FormatText, nil
	case "yaml", "yml":
		return FormatYAML, nil
	case "toml":
		return FormatTOML, nil
	default:
		return FormatNone, errors.Newf(errors.ErrInvalidInput, "unknown report format: %s", s)
	}
}

// NoColor reports whether styled output to f should be plain: NO_COLOR
// is set or f is not a terminal.
func NoColor(f *os.File) bool {
	if os.Getenv("NO_COLOR") != "" {
		return true
	}
	return !isatty.IsTerminal(f.Fd()) && !isatty.IsCygwinTerminal(f.Fd())
}
