package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
	yamlv3 "gopkg.in/yaml.v3"

	"github.com/ziadkadry99/bookview/internal/viewer"
)

// Load reads configuration from the given YAML file, then overlays
// environment variable overrides (BOOKVIEW_*).
func Load(path string) (*Config, error) {
	k := koanf.New(".")

	// Start from defaults.
	cfg := DefaultConfig()

	// Load YAML file if it exists.
	if _, err := os.Stat(path); err == nil {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("reading config %s: %w", path, err)
		}
	} else if !os.IsNotExist(err) {
		return nil, fmt.Errorf("accessing config %s: %w", path, err)
	}

	// Overlay environment variables: BOOKVIEW_SOURCE -> source, etc.
	// Nested keys use a double underscore: BOOKVIEW_TIMEOUTS__FETCH_SECONDS.
	if err := k.Load(env.Provider("BOOKVIEW_", ".", func(s string) string {
		key := strings.ToLower(strings.TrimPrefix(s, "BOOKVIEW_"))
		return strings.ReplaceAll(key, "__", ".")
	}), nil); err != nil {
		return nil, fmt.Errorf("loading env overrides: %w", err)
	}

	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("unmarshalling config: %w", err)
	}

	return cfg, nil
}

// Save writes the configuration to the given YAML file path.
func (c *Config) Save(path string) error {
	data, err := yamlv3.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshalling config: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("writing config to %s: %w", path, err)
	}
	return nil
}

// Validate checks that the configuration contains valid values.
func (c *Config) Validate() error {
	if c.Source == "" {
		return fmt.Errorf("source is required")
	}

	if c.Port <= 0 || c.Port > 65535 {
		return fmt.Errorf("invalid port %d", c.Port)
	}

	if c.SingleColumnWidth < 0 {
		return fmt.Errorf("single_column_width must be non-negative")
	}

	if c.ZoomStep <= 0 || c.ZoomStep > viewer.MaxScale-viewer.MinScale {
		return fmt.Errorf("zoom_step must be in (0, %.1f]", viewer.MaxScale-viewer.MinScale)
	}

	if c.Timeouts.FetchSeconds < 0 || c.Timeouts.RenderSeconds < 0 || c.Timeouts.SessionIdleSeconds < 0 {
		return fmt.Errorf("timeouts must be non-negative")
	}

	return nil
}

// FetchTimeout returns the document fetch timeout.
func (c *Config) FetchTimeout() time.Duration {
	return time.Duration(c.Timeouts.FetchSeconds) * time.Second
}

// RenderTimeout returns the per-page render timeout.
func (c *Config) RenderTimeout() time.Duration {
	return time.Duration(c.Timeouts.RenderSeconds) * time.Second
}

// SessionIdleTimeout returns how long an unattended server session lives.
func (c *Config) SessionIdleTimeout() time.Duration {
	return time.Duration(c.Timeouts.SessionIdleSeconds) * time.Second
}
