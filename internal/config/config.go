// Package config loads and persists finsight settings: API endpoint and
// token, dashboard defaults, and appearance. Environment variables win
// over the config file for the endpoint, token, and currency.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
)

// Environment overrides.
const (
	EnvBaseURL  = "FINSIGHT_API_URL"
	EnvToken    = "FINSIGHT_API_TOKEN"
	EnvCurrency = "FINSIGHT_CURRENCY"
)

const defaultBaseURL = "http://localhost:8080/api/analytics"

// Config holds all finsight configuration.
type Config struct {
	API        APIConfig        `toml:"api"`
	Dashboard  DashboardConfig  `toml:"dashboard"`
	Appearance AppearanceConfig `toml:"appearance"`
	Log        LogConfig        `toml:"log"`
}

// APIConfig holds analytics API settings.
type APIConfig struct {
	BaseURL string `toml:"base_url,omitempty"`
	Token   string `toml:"token,omitempty"`
}

// DashboardConfig holds the dashboard's fetch defaults.
type DashboardConfig struct {
	Period          string `toml:"period"`
	Months          int    `toml:"months"`
	AutoRefresh     bool   `toml:"auto_refresh"`
	RefreshInterval int    `toml:"refresh_interval_secs"`
}

// AppearanceConfig holds theme and locale settings.
type AppearanceConfig struct {
	Theme    string `toml:"theme"`
	Currency string `toml:"currency"`
}

// LogConfig holds diagnostics settings.
type LogConfig struct {
	Level string `toml:"level"`
}

// Default returns the default configuration.
func Default() Config {
	return Config{
		API: APIConfig{
			BaseURL: defaultBaseURL,
		},
		Dashboard: DashboardConfig{
			Period:          "monthly",
			Months:          6,
			RefreshInterval: 300,
		},
		Appearance: AppearanceConfig{
			Theme:    "flexoki-dark",
			Currency: "USD",
		},
		Log: LogConfig{
			Level: "info",
		},
	}
}

// pathOverride pins the config file location (the --config flag).
var pathOverride string

// SetPath overrides the config file location for this process.
func SetPath(p string) {
	pathOverride = p
}

// Dir returns the XDG-compliant config directory.
func Dir() string {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, "finsight")
	}
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".config", "finsight")
}

// Path returns the full path to the config file.
func Path() string {
	if pathOverride != "" {
		return pathOverride
	}
	return filepath.Join(Dir(), "config.toml")
}

// Load reads the config file, returning normalized defaults if it
// doesn't exist.
func Load() (Config, error) {
	cfg := Default()

	data, err := os.ReadFile(Path())
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return cfg, fmt.Errorf("reading config: %w", err)
	}

	if err := toml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parsing config: %w", err)
	}

	cfg.normalize()
	return cfg, nil
}

// normalize clamps out-of-range values back to defaults.
func (c *Config) normalize() {
	switch c.Dashboard.Period {
	case "daily", "weekly", "monthly", "yearly":
	default:
		c.Dashboard.Period = "monthly"
	}
	if c.Dashboard.Months < 1 {
		c.Dashboard.Months = 6
	}
	if c.Dashboard.RefreshInterval < 30 {
		c.Dashboard.RefreshInterval = 300
	}
	if c.Appearance.Currency == "" {
		c.Appearance.Currency = "USD"
	}
	if c.API.BaseURL == "" {
		c.API.BaseURL = defaultBaseURL
	}
}

// Save writes the config to disk with owner-only permissions (it may
// contain the API token).
func Save(cfg Config) error {
	if err := os.MkdirAll(filepath.Dir(Path()), 0o755); err != nil {
		return fmt.Errorf("creating config dir: %w", err)
	}

	f, err := os.OpenFile(Path(), os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0o600)
	if err != nil {
		return fmt.Errorf("creating config file: %w", err)
	}
	defer f.Close()

	enc := toml.NewEncoder(f)
	return enc.Encode(cfg)
}

// Exists returns true if a config file exists on disk.
func Exists() bool {
	_, err := os.Stat(Path())
	return err == nil
}

// Token returns the API token from the environment or the config file,
// in that order. Implements the analytics credential store.
func (c Config) Token() string {
	if tok := os.Getenv(EnvToken); tok != "" {
		return tok
	}
	return c.API.Token
}

// TokenSource names where the resolved token came from, for display.
func (c Config) TokenSource() string {
	if os.Getenv(EnvToken) != "" {
		return "environment"
	}
	if c.API.Token != "" {
		return "config file"
	}
	return "unset"
}

// BaseURL returns the API base URL from the environment or the config
// file, in that order.
func (c Config) BaseURL() string {
	if u := os.Getenv(EnvBaseURL); u != "" {
		return u
	}
	if c.API.BaseURL != "" {
		return c.API.BaseURL
	}
	return defaultBaseURL
}

// CurrencyCode returns the display currency from the environment or the
// config file. Implements the formatter's locale provider.
func (c Config) CurrencyCode() string {
	if cur := os.Getenv(EnvCurrency); cur != "" {
		return cur
	}
	return c.Appearance.Currency
}
