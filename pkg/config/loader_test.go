package config_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/arthur-debert/build-runfiles/pkg/config"
	"github.com/arthur-debert/build-runfiles/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// isolate points every config source at empty locations
func isolate(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", dir)
	return dir
}

func TestLoadDefaultsOnly(t *testing.T) {
	isolate(t)

	cfg, err := config.Load(config.LoadOptions{})
	require.NoError(t, err)

	assert.Equal(t, "MANIFEST", cfg.Manifest.Name)
	assert.Equal(t, ".tmp", cfg.Manifest.Suffix)
	assert.Equal(t, "", cfg.Trash.Dir)
	assert.Equal(t, config.FallbackAuto, cfg.Trash.Fallback)
	assert.Equal(t, 3, cfg.Trash.Attempts)
	assert.Equal(t, 0, cfg.Log.Verbosity)
	assert.Equal(t, "", cfg.Log.File)
	assert.Equal(t, config.ReportNone, cfg.Report.Format)
	assert.NoError(t, cfg.Validate())
}

func TestLoadUserConfigFile(t *testing.T) {
	dir := isolate(t)
	path := filepath.Join(dir, "build-runfiles", "config.toml")
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(`
[trash]
attempts = 7
fallback = "on"

[report]
format = "yaml"
`), 0o644))

	assert.Equal(t, path, config.UserConfigPath())
	cfg, err := config.Load(config.LoadOptions{})
	require.NoError(t, err)

	assert.Equal(t, 7, cfg.Trash.Attempts)
	assert.Equal(t, config.FallbackOn, cfg.Trash.Fallback)
	assert.Equal(t, config.ReportYAML, cfg.Report.Format)
	assert.Equal(t, "MANIFEST", cfg.Manifest.Name, "unset keys keep their defaults")
}

func TestLoadExplicitFile(t *testing.T) {
	isolate(t)
	path := filepath.Join(t.TempDir(), "custom.toml")
	require.NoError(t, os.WriteFile(path, []byte("[manifest]\nname = \"RUNFILES\"\n"), 0o644))

	cfg, err := config.Load(config.LoadOptions{File: path})
	require.NoError(t, err)
	assert.Equal(t, "RUNFILES", cfg.Manifest.Name)
}

func TestLoadExplicitFileMissing(t *testing.T) {
	isolate(t)

	_, err := config.Load(config.LoadOptions{File: filepath.Join(t.TempDir(), "nope.toml")})
	require.Error(t, err)
	assert.True(t, errors.IsErrorCode(err, errors.ErrConfigLoad))
}

func TestLoadMalformedFile(t *testing.T) {
	isolate(t)
	path := filepath.Join(t.TempDir(), "bad.toml")
	require.NoError(t, os.WriteFile(path, []byte("[trash\nattempts ="), 0o644))

	_, err := config.Load(config.LoadOptions{File: path})
	require.Error(t, err)
	assert.True(t, errors.IsErrorCode(err, errors.ErrConfigParse))
}

func TestLoadEnvironment(t *testing.T) {
	isolate(t)
	t.Setenv("BUILD_RUNFILES_TRASH_ATTEMPTS", "5")
	t.Setenv("BUILD_RUNFILES_LOG_VERBOSITY", "2")
	t.Setenv("BUILD_RUNFILES_MANIFEST_SUFFIX", ".staged")

	cfg, err := config.Load(config.LoadOptions{})
	require.NoError(t, err)

	assert.Equal(t, 5, cfg.Trash.Attempts)
	assert.Equal(t, 2, cfg.Log.Verbosity)
	assert.Equal(t, ".staged", cfg.Manifest.Suffix)
}

func TestLoadOverridesWin(t *testing.T) {
	isolate(t)
	t.Setenv("BUILD_RUNFILES_REPORT_FORMAT", "yaml")

	cfg, err := config.Load(config.LoadOptions{
		Overrides: map[string]interface{}{
			"report.format": "toml",
			"log.verbosity": 3,
		},
	})
	require.NoError(t, err)

	assert.Equal(t, config.ReportTOML, cfg.Report.Format)
	assert.Equal(t, 3, cfg.Log.Verbosity)
}

func TestLoadRejectsInvalidValues(t *testing.T) {
	isolate(t)

	tests := []struct {
		name string
		key  string
		val  interface{}
	}{
		{"manifest name with separator", "manifest.name", "a/b"},
		{"empty suffix", "manifest.suffix", ""},
		{"unknown fallback", "trash.fallback", "sometimes"},
		{"no attempts", "trash.attempts", 0},
		{"negative verbosity", "log.verbosity", -1},
		{"unknown report", "report.format", "xml"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := config.Load(config.LoadOptions{
				Overrides: map[string]interface{}{tt.key: tt.val},
			})
			require.Error(t, err)
			assert.True(t, errors.IsErrorCode(err, errors.ErrConfigValid))
			assert.Equal(t, tt.key, errors.GetErrorDetails(err)["key"])
		})
	}
}

func TestTrashEnabled(t *testing.T) {
	assert.True(t, config.Trash{Fallback: config.FallbackAuto}.Enabled("windows"))
	assert.False(t, config.Trash{Fallback: config.FallbackAuto}.Enabled("linux"))
	assert.True(t, config.Trash{Fallback: config.FallbackOn}.Enabled("linux"))
	assert.False(t, config.Trash{Fallback: config.FallbackOff}.Enabled("windows"))
}

func TestDefaultsContentIsDocumented(t *testing.T) {
	assert.Contains(t, config.DefaultsContent(), "[trash]")
	assert.Contains(t, config.DefaultsContent(), "fallback = \"auto\"")
}
