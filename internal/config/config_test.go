package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/henrybloomingdale/getbib/internal/crossref"
)

// isolate points config discovery at empty directories so a developer's
// own files never leak into tests.
func isolate(t *testing.T) {
	t.Helper()
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	t.Chdir(t.TempDir())
}

func TestLoad_Defaults(t *testing.T) {
	isolate(t)

	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, crossref.DefaultBaseURL, cfg.Crossref.BaseURL)
	assert.Empty(t, cfg.Crossref.Mailto)
	assert.Equal(t, crossref.DefaultTimeout, cfg.Crossref.Timeout)
	assert.InDelta(t, crossref.DefaultRate, cfg.Crossref.Rate, 0.001)
	assert.Equal(t, crossref.DefaultMaxResponseBytes, cfg.Crossref.MaxBytes)
	assert.Equal(t, "warn", cfg.Log.Level)
	assert.Equal(t, "console", cfg.Log.Format)
}

func TestLoad_EnvOverrides(t *testing.T) {
	isolate(t)
	t.Setenv("GETBIB_CROSSREF_MAILTO", "me@example.com")
	t.Setenv("GETBIB_CROSSREF_TIMEOUT", "5s")
	t.Setenv("GETBIB_LOG_LEVEL", "debug")

	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, "me@example.com", cfg.Crossref.Mailto)
	assert.Equal(t, 5*time.Second, cfg.Crossref.Timeout)
	assert.Equal(t, "debug", cfg.Log.Level)
}

func TestLoad_DotEnv(t *testing.T) {
	isolate(t)
	// godotenv sets the variable process-wide; register it with t.Setenv
	// first so it is restored afterwards.
	t.Setenv("GETBIB_CROSSREF_MAILTO", "")
	require.NoError(t, os.Unsetenv("GETBIB_CROSSREF_MAILTO"))
	require.NoError(t, os.WriteFile(".env", []byte("GETBIB_CROSSREF_MAILTO=dotenv@example.com\n"), 0o644))

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, "dotenv@example.com", cfg.Crossref.Mailto)
}

func TestLoad_DiscoveredFile(t *testing.T) {
	isolate(t)
	require.NoError(t, os.WriteFile("getbib.yaml", []byte("crossref:\n  rate: 2\n"), 0o644))

	cfg, err := Load("")
	require.NoError(t, err)
	assert.InDelta(t, 2, cfg.Crossref.Rate, 0.001)
}

func TestLoad_ExplicitFile(t *testing.T) {
	isolate(t)
	path := filepath.Join(t.TempDir(), "custom.yaml")
	content := `crossref:
  base_url: http://localhost:8080
  mailto: file@example.com
  timeout: 2m
log:
  format: json
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "http://localhost:8080", cfg.Crossref.BaseURL)
	assert.Equal(t, "file@example.com", cfg.Crossref.Mailto)
	assert.Equal(t, 2*time.Minute, cfg.Crossref.Timeout)
	assert.Equal(t, "json", cfg.Log.Format)
}

func TestLoad_ExplicitFileMissing(t *testing.T) {
	isolate(t)
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	require.Error(t, err)
}

func TestValidate(t *testing.T) {
	valid := func() Config {
		return Config{
			Crossref: CrossrefConfig{
				BaseURL:  "https://api.crossref.org",
				Timeout:  time.Second,
				Rate:     1,
				MaxBytes: 1,
			},
			Log: LogConfig{Level: "info", Format: "console"},
		}
	}

	cfg := valid()
	require.NoError(t, cfg.Validate())

	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"relative base url", func(c *Config) { c.Crossref.BaseURL = "api.crossref.org" }},
		{"zero timeout", func(c *Config) { c.Crossref.Timeout = 0 }},
		{"negative rate", func(c *Config) { c.Crossref.Rate = -1 }},
		{"zero max bytes", func(c *Config) { c.Crossref.MaxBytes = 0 }},
		{"unknown log format", func(c *Config) { c.Log.Format = "xml" }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := valid()
			tt.mutate(&cfg)
			assert.Error(t, cfg.Validate())
		})
	}
}
