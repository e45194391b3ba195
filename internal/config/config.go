// Package config loads getbib settings from defaults, an optional YAML
// file, a .env file and GETBIB_* environment variables.
package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"github.com/henrybloomingdale/getbib/internal/crossref"
)

// EnvPrefix namespaces environment overrides, e.g. GETBIB_CROSSREF_MAILTO.
const EnvPrefix = "GETBIB"

// Config holds all configuration for getbib.
type Config struct {
	// Crossref contains API client settings.
	Crossref CrossrefConfig `mapstructure:"crossref"`
	// Log contains diagnostic logging settings.
	Log LogConfig `mapstructure:"log"`
}

// CrossrefConfig holds Crossref client settings.
type CrossrefConfig struct {
	// BaseURL is the API root (default: https://api.crossref.org).
	BaseURL string `mapstructure:"base_url"`
	// Mailto is the contact address for the polite pool. Empty disables it.
	Mailto string `mapstructure:"mailto"`
	// Timeout bounds each HTTP exchange.
	Timeout time.Duration `mapstructure:"timeout"`
	// Rate is the request budget per second.
	Rate float64 `mapstructure:"rate"`
	// MaxBytes caps response body size.
	MaxBytes int64 `mapstructure:"max_bytes"`
}

// LogConfig holds logger settings.
type LogConfig struct {
	// Level is the minimum level (trace, debug, info, warn, error).
	Level string `mapstructure:"level"`
	// Format is console or json.
	Format string `mapstructure:"format"`
}

// Load reads configuration. path names an explicit config file; when empty,
// getbib.yaml is searched for in the working directory and then in
// $XDG_CONFIG_HOME/getbib, and a missing file is not an error.
func Load(path string) (*Config, error) {
	// A missing .env is the common case.
	_ = godotenv.Load()

	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("getbib")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		if dir := userConfigDir(); dir != "" {
			v.AddConfigPath(dir)
		}
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if path != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}
	return &cfg, nil
}

// Validate checks values that would make the client unusable.
func (c *Config) Validate() error {
	u, err := url.Parse(c.Crossref.BaseURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return fmt.Errorf("crossref.base_url %q is not an absolute URL", c.Crossref.BaseURL)
	}
	if c.Crossref.Timeout <= 0 {
		return fmt.Errorf("crossref.timeout must be positive, got %s", c.Crossref.Timeout)
	}
	if c.Crossref.Rate <= 0 {
		return fmt.Errorf("crossref.rate must be positive, got %g", c.Crossref.Rate)
	}
	if c.Crossref.MaxBytes <= 0 {
		return fmt.Errorf("crossref.max_bytes must be positive, got %d", c.Crossref.MaxBytes)
	}
	switch strings.ToLower(c.Log.Format) {
	case "console", "json":
	default:
		return fmt.Errorf("log.format must be console or json, got %q", c.Log.Format)
	}
	return nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("crossref.base_url", crossref.DefaultBaseURL)
	v.SetDefault("crossref.mailto", "")
	v.SetDefault("crossref.timeout", crossref.DefaultTimeout.String())
	v.SetDefault("crossref.rate", crossref.DefaultRate)
	v.SetDefault("crossref.max_bytes", crossref.DefaultMaxResponseBytes)

	v.SetDefault("log.level", "warn")
	v.SetDefault("log.format", "console")
}

// userConfigDir returns $XDG_CONFIG_HOME/getbib, falling back to
// ~/.config/getbib.
func userConfigDir() string {
	configHome := os.Getenv("XDG_CONFIG_HOME")
	if configHome == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return ""
		}
		configHome = filepath.Join(home, ".config")
	}
	return filepath.Join(configHome, "getbib")
}
