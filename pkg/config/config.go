package config

import (
	"path/filepath"
	"runtime"

	"github.com/arthur-debert/build-runfiles/pkg/errors"
)

// Trash fallback modes
const (
	FallbackAuto = "auto"
	FallbackOn   = "on"
	FallbackOff  = "off"
)

// Report formats. An empty format disables the report.
const (
	ReportNone = ""
	ReportText = "text"
	ReportYAML = "yaml"
	ReportTOML = "toml"
)

// Config is the complete build-runfiles configuration
type Config struct {
	Manifest Manifest `koanf:"manifest"`
	Trash    Trash    `koanf:"trash"`
	Log      Logging  `koanf:"log"`
	Report   Report   `koanf:"report"`
}

// Manifest names the files published in the output directory
type Manifest struct {
	Name   string `koanf:"name"`
	Suffix string `koanf:"suffix"`
}

// Trash configures the fallback used when an entry cannot be deleted
type Trash struct {
	Dir      string `koanf:"dir"`
	Fallback string `koanf:"fallback"`
	Attempts int    `koanf:"attempts"`
}

// Enabled resolves the fallback mode for the given GOOS
func (t Trash) Enabled(goos string) bool {
	switch t.Fallback {
	case FallbackOn:
		return true
	case FallbackOff:
		return false
	default:
		return goos == "windows"
	}
}

// EnabledHere resolves the fallback mode for the running platform
func (t Trash) EnabledHere() bool {
	return t.Enabled(runtime.GOOS)
}

// Logging controls log output
type Logging struct {
	Verbosity int    `koanf:"verbosity"`
	File      string `koanf:"file"`
}

// Report selects the run report format
type Report struct {
	Format string `koanf:"format"`
}

// Validate checks values that cannot be caught by decoding alone
func (c *Config) Validate() error {
	if c.Manifest.Name == "" || filepath.Base(c.Manifest.Name) != c.Manifest.Name || c.Manifest.Name == "." || c.Manifest.Name == ".." {
		return errors.Newf(errors.ErrConfigValid, "manifest.name must be a plain file name, got '%s'", c.Manifest.Name).
			WithDetail("key", "manifest.name")
	}
	if c.Manifest.Suffix == "" {
		return errors.New(errors.ErrConfigValid, "manifest.suffix must not be empty").
			WithDetail("key", "manifest.suffix")
	}

	switch c.Trash.Fallback {
	case FallbackAuto, FallbackOn, FallbackOff:
	default:
		return errors.Newf(errors.ErrConfigValid, "trash.fallback must be auto, on or off, got '%s'", c.Trash.Fallback).
			WithDetail("key", "trash.fallback")
	}
	if c.Trash.Attempts < 1 {
		return errors.Newf(errors.ErrConfigValid, "trash.attempts must be at least 1, got %d", c.Trash.Attempts).
			WithDetail("key", "trash.attempts")
	}

	if c.Log.Verbosity < 0 {
		return errors.Newf(errors.ErrConfigValid, "log.verbosity must not be negative, got %d", c.Log.Verbosity).
			WithDetail("key", "log.verbosity")
	}

	switch c.Report.Format {
	case ReportNone, ReportText, ReportYAML, ReportTOML:
	default:
		return errors.Newf(errors.ErrConfigValid, "unknown report format '%s'", c.Report.Format).
			WithDetail("key", "report.format")
	}
	return nil
}
