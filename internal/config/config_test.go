package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

// #region load-tests

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load()
	if err != nil {
		t.Fatalf("load error: %v", err)
	}
	if cfg.Service.BaseURL != "http://localhost:5000" {
		t.Errorf("unexpected default base url %q", cfg.Service.BaseURL)
	}
	if cfg.Service.Timeout != 30*time.Second {
		t.Errorf("unexpected default timeout %v", cfg.Service.Timeout)
	}
	if cfg.Catalog.RetryAttempts != 1 {
		t.Errorf("expected single-attempt default, got %d", cfg.Catalog.RetryAttempts)
	}
	if cfg.View.DisclosureLimit != 2 {
		t.Errorf("expected disclosure limit 2, got %d", cfg.View.DisclosureLimit)
	}
	if cfg.Breaker.Enabled {
		t.Error("expected breaker disabled by default")
	}
	if cfg.Journal.Path != ":memory:" {
		t.Errorf("expected in-memory journal default, got %q", cfg.Journal.Path)
	}
}

func TestLoad_EnvOverridesDefaults(t *testing.T) {
	t.Setenv("ADVISOR_SERVICE_BASE_URL", "http://advisor.internal:8080")
	t.Setenv("ADVISOR_CATALOG_RETRY_ATTEMPTS", "3")
	t.Setenv("ADVISOR_BREAKER_ENABLED", "true")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load error: %v", err)
	}
	if cfg.Service.BaseURL != "http://advisor.internal:8080" {
		t.Errorf("expected env base url, got %q", cfg.Service.BaseURL)
	}
	if cfg.Catalog.RetryAttempts != 3 {
		t.Errorf("expected 3 attempts, got %d", cfg.Catalog.RetryAttempts)
	}
	if !cfg.Breaker.Enabled {
		t.Error("expected breaker enabled via env")
	}
}

func TestLoad_FileOverridesDefaultsEnvWinsOverFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "advisor.yaml")
	body := []byte("service:\n  base_url: http://file-host:5000\n  timeout: 5s\nview:\n  disclosure_limit: 4\n")
	if err := os.WriteFile(path, body, 0o644); err != nil {
		t.Fatalf("write config file: %v", err)
	}
	t.Setenv(ConfigPathEnvVar, path)
	t.Setenv("ADVISOR_SERVICE_BASE_URL", "http://env-host:5000")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load error: %v", err)
	}
	if cfg.Service.BaseURL != "http://env-host:5000" {
		t.Errorf("expected env to win over file, got %q", cfg.Service.BaseURL)
	}
	if cfg.Service.Timeout != 5*time.Second {
		t.Errorf("expected file timeout 5s, got %v", cfg.Service.Timeout)
	}
	if cfg.View.DisclosureLimit != 4 {
		t.Errorf("expected file disclosure limit 4, got %d", cfg.View.DisclosureLimit)
	}
}

// #endregion load-tests

// #region validate-tests

func TestValidate_Rejections(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(*Config)
	}{
		{"empty base url", func(c *Config) { c.Service.BaseURL = "" }},
		{"non-http base url", func(c *Config) { c.Service.BaseURL = "ftp://x" }},
		{"zero attempts", func(c *Config) { c.Catalog.RetryAttempts = 0 }},
		{"negative disclosure limit", func(c *Config) { c.View.DisclosureLimit = -1 }},
		{"empty journal path", func(c *Config) { c.Journal.Path = "" }},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			cfg := defaultConfig()
			tc.mutate(cfg)
			if err := cfg.Validate(); err == nil {
				t.Error("expected validation error")
			}
		})
	}
}

// #endregion validate-tests
