package config

import (
	"encoding/json"
	"fmt"
	"net/url"
	"os"
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

// Config represents the top-level configuration for glucodash.
type Config struct {
	Server     ServerConfig     `koanf:"server"`
	Database   DatabaseConfig   `koanf:"database"`
	Nightscout NightscoutConfig `koanf:"nightscout"`
	Backfill   BackfillConfig   `koanf:"backfill"`
}

// ServerConfig holds the HTTP server configuration.
type ServerConfig struct {
	Port int    `koanf:"port"`
	Host string `koanf:"host"`
	Mode string `koanf:"mode"` // debug | release
}

// DatabaseConfig holds the database connection settings.
type DatabaseConfig struct {
	DSN          string `koanf:"dsn"`
	MaxOpenConns int    `koanf:"max_open_conns"`
	MaxIdleConns int    `koanf:"max_idle_conns"`
	AutoMigrate  bool   `koanf:"auto_migrate"`
}

// NightscoutConfig holds the remote source settings.
type NightscoutConfig struct {
	BaseURL string `koanf:"base_url"`
	Token   string `koanf:"token"`
	// TokenFile points at a JSON file containing {"user_token": "..."}.
	// When set, its token takes precedence over Token.
	TokenFile    string `koanf:"token_file"`
	FetchTimeout string `koanf:"fetch_timeout"` // parsed as time.Duration
	PageSize     int    `koanf:"page_size"`
}

// BackfillConfig holds the history aggregation settings.
type BackfillConfig struct {
	Enabled     bool   `koanf:"enabled"`
	InitialDays int    `koanf:"initial_days"`
	Interval    string `koanf:"interval"` // single-step cadence in serve mode
	// Timezone is the IANA zone used for day windows and minute-of-day
	// bucketing. Explicit on purpose: inheriting the machine's ambient zone
	// would make stored buckets depend on where the process runs.
	Timezone string `koanf:"timezone"`
}

// FetchTimeoutDuration returns the parsed fetch timeout.
// Call Validate first; invalid values fall back to zero.
func (c NightscoutConfig) FetchTimeoutDuration() time.Duration {
	d, err := time.ParseDuration(c.FetchTimeout)
	if err != nil {
		return 0
	}
	return d
}

// IntervalDuration returns the parsed scheduler interval.
func (c BackfillConfig) IntervalDuration() time.Duration {
	d, err := time.ParseDuration(c.Interval)
	if err != nil {
		return 0
	}
	return d
}

// Location resolves the configured timezone.
func (c BackfillConfig) Location() (*time.Location, error) {
	return time.LoadLocation(c.Timezone)
}

func (c *Config) Validate() error {
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid server.port %d (must be 1-65535)", c.Server.Port)
	}
	if strings.TrimSpace(c.Server.Host) == "" {
		return fmt.Errorf("server.host is required")
	}
	if c.Server.Mode != "debug" && c.Server.Mode != "release" {
		return fmt.Errorf("invalid server.mode %q (must be debug or release)", c.Server.Mode)
	}

	if strings.TrimSpace(c.Database.DSN) == "" {
		return fmt.Errorf("database.dsn is required")
	}
	if c.Database.MaxOpenConns <= 0 {
		return fmt.Errorf("database.max_open_conns must be > 0")
	}
	if c.Database.MaxIdleConns <= 0 {
		return fmt.Errorf("database.max_idle_conns must be > 0")
	}

	if strings.TrimSpace(c.Nightscout.BaseURL) == "" {
		return fmt.Errorf("nightscout.base_url is required")
	}
	u, err := url.Parse(c.Nightscout.BaseURL)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") {
		return fmt.Errorf("invalid nightscout.base_url %q (must be an http(s) URL)", c.Nightscout.BaseURL)
	}
	timeout, err := time.ParseDuration(c.Nightscout.FetchTimeout)
	if err != nil {
		return fmt.Errorf("invalid nightscout.fetch_timeout %q: %w", c.Nightscout.FetchTimeout, err)
	}
	if timeout <= 0 {
		return fmt.Errorf("nightscout.fetch_timeout must be > 0")
	}
	if c.Nightscout.PageSize <= 0 {
		return fmt.Errorf("nightscout.page_size must be > 0")
	}

	if c.Backfill.InitialDays <= 0 {
		return fmt.Errorf("backfill.initial_days must be > 0")
	}
	interval, err := time.ParseDuration(c.Backfill.Interval)
	if err != nil {
		return fmt.Errorf("invalid backfill.interval %q: %w", c.Backfill.Interval, err)
	}
	if interval <= 0 {
		return fmt.Errorf("backfill.interval must be > 0")
	}
	if _, err := time.LoadLocation(c.Backfill.Timezone); err != nil {
		return fmt.Errorf("invalid backfill.timezone %q: %w", c.Backfill.Timezone, err)
	}

	return nil
}

// Load parses config from defaults, an optional YAML file and environment
// variables, resolves the credential file, then validates.
//
// GLUCODASH_NIGHTSCOUT__BASE_URL overrides nightscout.base_url, and so on.
func Load(configPath string) (*Config, error) {
	k := koanf.New(".")

	defaults := map[string]interface{}{
		"server.port":              8080,
		"server.host":              "0.0.0.0",
		"server.mode":              "release",
		"database.dsn":             "",
		"database.max_open_conns":  25,
		"database.max_idle_conns":  25,
		"database.auto_migrate":    true,
		"nightscout.base_url":      "",
		"nightscout.token":         "",
		"nightscout.token_file":    "",
		"nightscout.fetch_timeout": "15s",
		"nightscout.page_size":     300,
		"backfill.enabled":         true,
		"backfill.initial_days":    14,
		"backfill.interval":        "5m",
		"backfill.timezone":        "UTC",
	}
	for key, value := range defaults {
		k.Set(key, value)
	}

	if configPath != "" {
		if err := k.Load(file.Provider(configPath), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("failed to load config file: %w", err)
		}
	}

	if err := k.Load(env.Provider("GLUCODASH_", ".", func(s string) string {
		return strings.Replace(strings.ToLower(
			strings.TrimPrefix(s, "GLUCODASH_")), "__", ".", -1)
	}), nil); err != nil {
		return nil, fmt.Errorf("failed to load env vars: %w", err)
	}

	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if cfg.Nightscout.TokenFile != "" {
		token, err := loadTokenFile(cfg.Nightscout.TokenFile)
		if err != nil {
			return nil, err
		}
		cfg.Nightscout.Token = token
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// loadTokenFile reads a Nightscout user token from a JSON credential file.
func loadTokenFile(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("failed to read credential file: %w", err)
	}

	var creds struct {
		UserToken string `json:"user_token"`
	}
	if err := json.Unmarshal(data, &creds); err != nil {
		return "", fmt.Errorf("invalid JSON in credential file %s: %w", path, err)
	}
	if creds.UserToken == "" {
		return "", fmt.Errorf("credential file %s must contain a user_token field", path)
	}
	return creds.UserToken, nil
}
