// Package config provides configuration management for the dashboard.
package config

import (
	"errors"
	"fmt"
	"os"
	"regexp"
	"time"

	"saludcl/pkg/utils"

	"gopkg.in/yaml.v3"
)

// Configuration validation errors.
var (
	ErrMissingBaseURL           = errors.New("source.base_url is required")
	ErrInvalidBaseURL           = errors.New("source.base_url must be an absolute http(s) URL")
	ErrMissingResourceID        = errors.New("source.resource_id is required")
	ErrInvalidLimit             = errors.New("source.limit must be at least 1")
	ErrInvalidTimeout           = errors.New("source.timeout_sec must be at least 1")
	ErrInvalidMaxAttempts       = errors.New("source.retry.max_attempts must be at least 1")
	ErrInvalidInitialDelay      = errors.New("source.retry.initial_delay_ms must be non-negative")
	ErrInvalidBackoffMultiplier = errors.New("source.retry.backoff_multiplier must be >= 1.0")
	ErrMissingAddr              = errors.New("server.addr is required")
	ErrInvalidThemeColor        = errors.New("theme colors must be #rrggbb")
	ErrInvalidChartSize         = errors.New("charts.width and charts.height must be at least 100")
	ErrInvalidLogLevel          = errors.New("logging.level must be one of: debug, info, warn, error")
	ErrInvalidLogFormat         = errors.New("logging.format must be 'text' or 'json'")
)

// Upstream dataset defaults.
const (
	DefaultBaseURL    = "https://datos.gob.cl/api/3/action/datastore_search"
	DefaultResourceID = "2c44d782-3365-44e3-aefb-2c8b8363a1bc"
	DefaultLimit      = 10000
	DefaultTimeoutSec = 60
)

var hexColorPattern = regexp.MustCompile(`^#[0-9a-fA-F]{6}$`)

// Config represents the complete dashboard configuration.
type Config struct {
	Source  SourceConfig  `yaml:"source"`
	Server  ServerConfig  `yaml:"server"`
	Theme   ThemeConfig   `yaml:"theme"`
	Charts  ChartsConfig  `yaml:"charts"`
	Logging LoggingConfig `yaml:"logging"`
}

// SourceConfig describes the upstream open-data API.
type SourceConfig struct {
	BaseURL    string      `yaml:"base_url"`
	ResourceID string      `yaml:"resource_id"`
	UserAgent  string      `yaml:"user_agent"`
	Retry      RetryPolicy `yaml:"retry"`
	Limit      int         `yaml:"limit"`
	TimeoutSec int         `yaml:"timeout_sec"`
}

// RetryPolicy defines retry behavior. One attempt means no retries.
type RetryPolicy struct {
	MaxAttempts       int     `yaml:"max_attempts"`
	InitialDelayMs    int     `yaml:"initial_delay_ms"`
	MaxDelayMs        int     `yaml:"max_delay_ms"`
	BackoffMultiplier float64 `yaml:"backoff_multiplier"`
}

// ServerConfig defines the HTTP API listener.
type ServerConfig struct {
	Addr            string   `yaml:"addr"`
	AllowedOrigins  []string `yaml:"allowed_origins"`
	ReadTimeoutSec  int      `yaml:"read_timeout_sec"`
	WriteTimeoutSec int      `yaml:"write_timeout_sec"`
}

// ThemeConfig is the chart palette. Public and Private are #rrggbb.
type ThemeConfig struct {
	Name    string `yaml:"name"`
	Public  string `yaml:"public"`
	Private string `yaml:"private"`
}

// ChartsConfig defines rendered chart dimensions in pixels.
type ChartsConfig struct {
	Width  int `yaml:"width"`
	Height int `yaml:"height"`
}

// LoggingConfig defines logging behavior.
type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

// Default returns a configuration that works against the public API.
func Default() *Config {
	return &Config{
		Source: SourceConfig{
			BaseURL:    DefaultBaseURL,
			ResourceID: DefaultResourceID,
			UserAgent:  "saludcl-dashboard/1.0",
			Limit:      DefaultLimit,
			TimeoutSec: DefaultTimeoutSec,
			Retry: RetryPolicy{
				MaxAttempts:       1,
				InitialDelayMs:    500,
				MaxDelayMs:        5000,
				BackoffMultiplier: 2.0,
			},
		},
		Server: ServerConfig{
			Addr:            ":8080",
			AllowedOrigins:  []string{"http://localhost:3000", "http://localhost:5173"},
			ReadTimeoutSec:  15,
			WriteTimeoutSec: 90,
		},
		Theme: ThemeConfig{
			Name:    "default",
			Public:  "#5d7480",
			Private: "#fc8d62",
		},
		Charts: ChartsConfig{
			Width:  1000,
			Height: 700,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "text",
		},
	}
}

// LoadConfig loads configuration from a YAML file on top of Default.
func LoadConfig(filepath string) (*Config, error) {
	data, err := os.ReadFile(filepath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return cfg, nil
}

// DefaultPath is probed when no configuration file is given.
const DefaultPath = "configs/dashboard.yaml"

// Resolve loads path, or DefaultPath when it exists, or falls back to Default.
func Resolve(path string) (*Config, error) {
	if path == "" {
		if _, err := os.Stat(DefaultPath); err != nil {
			return Default(), nil
		}

		path = DefaultPath
	}

	return LoadConfig(path)
}

// SaveConfig saves configuration to a YAML file.
func (c *Config) SaveConfig(filepath string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(filepath, data, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// Validate validates the configuration.
func (c *Config) Validate() error {
	if c.Source.BaseURL == "" {
		return ErrMissingBaseURL
	}

	if !utils.NewHTTPHelper("").IsValidURL(c.Source.BaseURL) {
		return fmt.Errorf("%w: %q", ErrInvalidBaseURL, c.Source.BaseURL)
	}

	if c.Source.ResourceID == "" {
		return ErrMissingResourceID
	}

	if c.Source.Limit < 1 {
		return ErrInvalidLimit
	}

	if c.Source.TimeoutSec < 1 {
		return ErrInvalidTimeout
	}

	if c.Source.Retry.MaxAttempts < 1 {
		return ErrInvalidMaxAttempts
	}

	if c.Source.Retry.InitialDelayMs < 0 {
		return ErrInvalidInitialDelay
	}

	if c.Source.Retry.BackoffMultiplier < 1.0 {
		return ErrInvalidBackoffMultiplier
	}

	if c.Server.Addr == "" {
		return ErrMissingAddr
	}

	for _, color := range []string{c.Theme.Public, c.Theme.Private} {
		if !hexColorPattern.MatchString(color) {
			return fmt.Errorf("%w: %q", ErrInvalidThemeColor, color)
		}
	}

	if c.Charts.Width < 100 || c.Charts.Height < 100 {
		return ErrInvalidChartSize
	}

	validLevels := map[string]bool{"debug": true, "info": true, "warn": true, "error": true}
	if !validLevels[c.Logging.Level] {
		return ErrInvalidLogLevel
	}

	if c.Logging.Format != "text" && c.Logging.Format != "json" {
		return ErrInvalidLogFormat
	}

	return nil
}

// GetRetryDelay calculates exponential backoff delay for attempt number.
func (rp *RetryPolicy) GetRetryDelay(attempt int) time.Duration {
	if attempt <= 1 {
		return 0
	}

	delayMs := float64(rp.InitialDelayMs)
	for i := 1; i < attempt; i++ {
		delayMs *= rp.BackoffMultiplier
	}

	if int(delayMs) > rp.MaxDelayMs {
		delayMs = float64(rp.MaxDelayMs)
	}

	return time.Duration(int(delayMs)) * time.Millisecond
}

// GetTimeout returns the upstream request timeout.
func (s *SourceConfig) GetTimeout() time.Duration {
	return time.Duration(s.TimeoutSec) * time.Second
}

// ReadTimeout returns the server read timeout.
func (s *ServerConfig) ReadTimeout() time.Duration {
	return time.Duration(s.ReadTimeoutSec) * time.Second
}

// WriteTimeout returns the server write timeout. It must exceed the upstream
// timeout so a cold fetch can complete inside one request.
func (s *ServerConfig) WriteTimeout() time.Duration {
	return time.Duration(s.WriteTimeoutSec) * time.Second
}

// String returns a string representation of the config.
func (c *Config) String() string {
	return fmt.Sprintf(
		"Config{Resource: %s, Limit: %d, Addr: %s, Theme: %s}",
		c.Source.ResourceID,
		c.Source.Limit,
		c.Server.Addr,
		c.Theme.Name,
	)
}
