package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/structs"
	"github.com/knadh/koanf/v2"
)

// #region types

// Config is the client configuration, loaded in layers: built-in defaults,
// then an optional YAML file, then ADVISOR_* environment variables.
type Config struct {
	Service ServiceConfig `koanf:"service"`
	Catalog CatalogConfig `koanf:"catalog"`
	View    ViewConfig    `koanf:"view"`
	Breaker BreakerConfig `koanf:"breaker"`
	Journal JournalConfig `koanf:"journal"`
}

// ServiceConfig locates the product/recommendation collaborator.
type ServiceConfig struct {
	BaseURL string        `koanf:"base_url"`
	Timeout time.Duration `koanf:"timeout"`
}

// CatalogConfig tunes the initial catalog load. A single attempt means no
// retry, matching the default log-and-surface behavior.
type CatalogConfig struct {
	RetryAttempts int           `koanf:"retry_attempts"`
	RetryDelay    time.Duration `koanf:"retry_delay"`
}

// ViewConfig tunes derived view models.
type ViewConfig struct {
	DisclosureLimit int `koanf:"disclosure_limit"`
}

// BreakerConfig tunes the optional circuit breaker on recommendation calls.
type BreakerConfig struct {
	Enabled          bool          `koanf:"enabled"`
	MaxRequests      uint32        `koanf:"max_requests"`
	Interval         time.Duration `koanf:"interval"`
	Timeout          time.Duration `koanf:"timeout"`
	FailureThreshold uint32        `koanf:"failure_threshold"`
}

// JournalConfig locates the session journal database. ":memory:" keeps the
// journal for the process lifetime only.
type JournalConfig struct {
	Path string `koanf:"path"`
}

// #endregion types

// #region defaults

// ConfigPathEnvVar overrides the config file location.
const ConfigPathEnvVar = "ADVISOR_CONFIG"

// DefaultConfigPaths lists where a config file is searched, in order.
var DefaultConfigPaths = []string{
	"advisor.yaml",
	"advisor.yml",
}

func defaultConfig() *Config {
	return &Config{
		Service: ServiceConfig{
			BaseURL: "http://localhost:5000",
			Timeout: 30 * time.Second,
		},
		Catalog: CatalogConfig{
			RetryAttempts: 1,
			RetryDelay:    2 * time.Second,
		},
		View: ViewConfig{
			DisclosureLimit: 2,
		},
		Breaker: BreakerConfig{
			Enabled:          false,
			MaxRequests:      3,
			Interval:         30 * time.Second,
			Timeout:          10 * time.Second,
			FailureThreshold: 5,
		},
		Journal: JournalConfig{
			Path: ":memory:",
		},
	}
}

// #endregion defaults

// #region load

// Load builds the configuration with precedence env > file > defaults.
func Load() (*Config, error) {
	k := koanf.New(".")

	if err := k.Load(structs.Provider(defaultConfig(), "koanf"), nil); err != nil {
		return nil, fmt.Errorf("load defaults: %w", err)
	}

	if path := findConfigFile(); path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("load config file %s: %w", path, err)
		}
	}

	// ADVISOR_SERVICE_BASE_URL -> service.base_url
	envProvider := env.Provider("ADVISOR_", ".", func(s string) string {
		s = strings.ToLower(strings.TrimPrefix(s, "ADVISOR_"))
		return strings.Replace(s, "_", ".", 1)
	})
	if err := k.Load(envProvider, nil); err != nil {
		return nil, fmt.Errorf("load environment: %w", err)
	}

	cfg := &Config{}
	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}
	return cfg, nil
}

func findConfigFile() string {
	if envPath := os.Getenv(ConfigPathEnvVar); envPath != "" {
		if _, err := os.Stat(envPath); err == nil {
			return envPath
		}
	}
	for _, path := range DefaultConfigPaths {
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}
	return ""
}

// #endregion load

// #region validate

// Validate rejects configurations the client cannot run with.
func (c *Config) Validate() error {
	if c.Service.BaseURL == "" {
		return fmt.Errorf("service.base_url must not be empty")
	}
	if !strings.HasPrefix(c.Service.BaseURL, "http://") && !strings.HasPrefix(c.Service.BaseURL, "https://") {
		return fmt.Errorf("service.base_url must be an http(s) URL, got %q", c.Service.BaseURL)
	}
	if c.Catalog.RetryAttempts < 1 {
		return fmt.Errorf("catalog.retry_attempts must be at least 1, got %d", c.Catalog.RetryAttempts)
	}
	if c.View.DisclosureLimit < 0 {
		return fmt.Errorf("view.disclosure_limit must not be negative, got %d", c.View.DisclosureLimit)
	}
	if c.Journal.Path == "" {
		return fmt.Errorf("journal.path must not be empty")
	}
	return nil
}

// #endregion validate
