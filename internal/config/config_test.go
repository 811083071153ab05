package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func clearEnv(t *testing.T) {
	t.Helper()
	for _, k := range []string{"TABLERO_API_URL", "TABLERO_THEME", "TABLERO_DEBUG"} {
		t.Setenv(k, "")
	}
}

func TestDefaults(t *testing.T) {
	cfg := Default()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("defaults do not validate: %v", err)
	}
	if cfg.APIBaseURL != "http://localhost:8000/api" || cfg.PageSize != 10 || cfg.Theme != "nord" {
		t.Fatalf("unexpected defaults %+v", cfg)
	}
	if cfg.Timeout() != 10*time.Second || cfg.Delay() != time.Second || cfg.Retries() != 3 {
		t.Fatalf("unexpected durations %v %v %d", cfg.Timeout(), cfg.Delay(), cfg.Retries())
	}
}

func TestLoadMissingDefaultFile(t *testing.T) {
	clearEnv(t)
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	t.Setenv("HOME", t.TempDir())

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.AppName != "Gestión de Proyectos" {
		t.Fatalf("unexpected app name %q", cfg.AppName)
	}
}

func TestLoadMissingExplicitFile(t *testing.T) {
	clearEnv(t)
	if _, err := Load(filepath.Join(t.TempDir(), "nope.yaml")); err == nil {
		t.Fatal("expected error for a missing explicit config")
	}
}

func TestLoadFileAndEnv(t *testing.T) {
	clearEnv(t)
	path := filepath.Join(t.TempDir(), "config.yaml")
	data := []byte("api_base_url: http://api.internal:9000/api\nmax_retries: 0\nretry_delay: 250ms\ntheme: dracula\n")
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatal(err)
	}
	t.Setenv("TABLERO_THEME", "gruvbox")
	t.Setenv("TABLERO_DEBUG", "1")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.APIBaseURL != "http://api.internal:9000/api" {
		t.Errorf("api_base_url = %q", cfg.APIBaseURL)
	}
	if cfg.Retries() != 0 {
		t.Errorf("explicit max_retries: 0 overridden to %d", cfg.Retries())
	}
	if cfg.Delay() != 250*time.Millisecond {
		t.Errorf("retry_delay = %v", cfg.Delay())
	}
	if cfg.Theme != "gruvbox" || !cfg.Debug {
		t.Errorf("env overrides not applied: theme=%q debug=%v", cfg.Theme, cfg.Debug)
	}
}

func TestValidateRejects(t *testing.T) {
	tests := map[string]func(*Config){
		"bad timeout":      func(c *Config) { c.RequestTimeout = "ten seconds" },
		"negative delay":   func(c *Config) { c.RetryDelay = "-1s" },
		"ftp url":          func(c *Config) { c.APIBaseURL = "ftp://host/api" },
		"no host":          func(c *Config) { c.APIBaseURL = "http:///api" },
		"negative page":    func(c *Config) { c.PageSize = -1 },
		"negative retries": func(c *Config) { n := -2; c.MaxRetries = &n },
	}

	for name, mutate := range tests {
		t.Run(name, func(t *testing.T) {
			cfg := Default()
			mutate(cfg)
			if err := cfg.Validate(); err == nil {
				t.Fatal("expected validation error")
			}
		})
	}
}

func TestLoadRejectsInvalidYAML(t *testing.T) {
	clearEnv(t)
	path := filepath.Join(t.TempDir(), "config.yaml")
	os.WriteFile(path, []byte("page_size: [1, 2"), 0o644)
	if _, err := Load(path); err == nil {
		t.Fatal("expected parse error")
	}
}
