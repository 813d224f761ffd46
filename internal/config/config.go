// Package config provides configuration loading and validation for the CLI.
package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/go-playground/validator/v10"
)

// Config holds the scraper configuration, loadable from a JSON file with
// environment fallbacks for secrets.
type Config struct {
	// InputDir is the directory scanned for HTML and CSV artifacts.
	InputDir string `json:"input_dir" validate:"required"`
	// DatabaseURL is the PostgreSQL connection URL. Falls back to the
	// DATABASE_URL environment variable when empty in the file.
	DatabaseURL string `json:"database_url" validate:"required"`
	// Site selects the extractor implementation.
	Site string `json:"site" validate:"required"`
	// ImageBaseURL absolutizes root-relative gallery image URLs.
	ImageBaseURL string `json:"image_base_url" validate:"omitempty,url"`
	// SettleDelayMS is the extra wait for dynamically rendered content.
	SettleDelayMS int `json:"settle_delay_ms" validate:"gte=0"`
	// TimeoutMS is the overall fetch timeout.
	TimeoutMS int `json:"timeout_ms" validate:"gte=0"`
	// UseBrowser renders URLs in headless Chrome instead of plain HTTP.
	UseBrowser bool `json:"use_browser"`
	// Verbose enables detailed progress logging.
	Verbose bool `json:"verbose"`
}

// Default returns the configuration defaults matching the standard
// MercadoLibre setup.
func Default() Config {
	return Config{
		InputDir:      "data/input",
		Site:          "mercadolibre",
		SettleDelayMS: 10000,
		TimeoutMS:     30000,
		UseBrowser:    true,
	}
}

// Load reads configuration from a JSON file, fills unset fields from
// defaults and the environment, and validates the result. An empty path
// yields defaults plus environment values.
func Load(path string) (*Config, error) {
	cfg := Default()

	if path != "" {
		if !filepath.IsAbs(path) {
			cwd, err := os.Getwd()
			if err != nil {
				return nil, fmt.Errorf("failed to get current directory: %w", err)
			}
			path = filepath.Join(cwd, path)
		}

		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
		}

		// Unmarshal over the defaults: absent keys keep their default,
		// present keys override it, including explicit false.
		if err := json.Unmarshal(data, &cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config JSON: %w", err)
		}
	}

	if cfg.DatabaseURL == "" {
		cfg.DatabaseURL = os.Getenv("DATABASE_URL")
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks the configuration against its struct constraints.
func (c *Config) Validate() error {
	err := validator.New().Struct(c)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if errors.As(err, &fieldErrs) && len(fieldErrs) > 0 {
		fe := fieldErrs[0]
		return fmt.Errorf("config error: field %s failed %q validation", fe.Field(), fe.Tag())
	}
	return fmt.Errorf("config validation failed: %w", err)
}

// SettleDelay returns the settle delay as a duration.
func (c *Config) SettleDelay() time.Duration {
	return time.Duration(c.SettleDelayMS) * time.Millisecond
}

// Timeout returns the fetch timeout as a duration.
func (c *Config) Timeout() time.Duration {
	return time.Duration(c.TimeoutMS) * time.Millisecond
}
