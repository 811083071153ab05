// Package config loads the tablero configuration file.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

const appDir = "tablero"

// Config holds every tunable of the dashboard
type Config struct {
	APIBaseURL     string `yaml:"api_base_url"`    // REST API root (default: http://localhost:8000/api)
	DevServerURL   string `yaml:"dev_server_url"`  // where the backend allows requests from (default: http://localhost:5173)
	AppName        string `yaml:"app_name"`        // title shown in the header
	PageSize       int    `yaml:"page_size"`       // project cards per dashboard page (default: 10)
	RequestTimeout string `yaml:"request_timeout"` // per-request transport timeout (default: 10s)
	MaxRetries     *int   `yaml:"max_retries"`     // GET retries on connection failure (default: 3)
	RetryDelay     string `yaml:"retry_delay"`     // initial retry backoff (default: 1s)
	Theme          string `yaml:"theme"`           // nord, dracula, gruvbox or catppuccin
	LogFile        string `yaml:"log_file"`        // debug log destination

	Debug bool `yaml:"-"` // set via TABLERO_DEBUG
}

// DefaultPath returns $XDG_CONFIG_HOME/tablero/config.yaml
func DefaultPath() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return filepath.Join("."+appDir, "config.yaml")
	}
	return filepath.Join(dir, appDir, "config.yaml")
}

// DefaultLogFile returns $XDG_STATE_HOME/tablero/tablero.log
func DefaultLogFile() string {
	if state := os.Getenv("XDG_STATE_HOME"); state != "" {
		return filepath.Join(state, appDir, appDir+".log")
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(os.TempDir(), appDir+".log")
	}
	return filepath.Join(home, ".local", "state", appDir, appDir+".log")
}

// Load reads path, applies defaults and environment overrides, and
// validates the result. A missing file is not an error unless the path
// was given explicitly.
func Load(path string) (*Config, error) {
	explicit := path != ""
	if !explicit {
		path = DefaultPath()
	}

	var cfg Config
	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return nil, fmt.Errorf("parse config %s: %w", path, err)
		}
	case errors.Is(err, fs.ErrNotExist) && !explicit:
	default:
		return nil, fmt.Errorf("read config file: %w", err)
	}

	cfg.setDefaults()
	cfg.applyEnv()

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}
	return &cfg, nil
}

// Default returns a configuration with default values
func Default() *Config {
	cfg := &Config{}
	cfg.setDefaults()
	return cfg
}

func (c *Config) setDefaults() {
	if c.APIBaseURL == "" {
		c.APIBaseURL = "http://localhost:8000/api"
	}
	if c.DevServerURL == "" {
		c.DevServerURL = "http://localhost:5173"
	}
	if c.AppName == "" {
		c.AppName = "Gestión de Proyectos"
	}
	if c.PageSize == 0 {
		c.PageSize = 10
	}
	if c.RequestTimeout == "" {
		c.RequestTimeout = "10s"
	}
	if c.MaxRetries == nil {
		n := 3
		c.MaxRetries = &n
	}
	if c.RetryDelay == "" {
		c.RetryDelay = "1s"
	}
	if c.Theme == "" {
		c.Theme = "nord"
	}
	if c.LogFile == "" {
		c.LogFile = DefaultLogFile()
	}
}

func (c *Config) applyEnv() {
	if v := os.Getenv("TABLERO_API_URL"); v != "" {
		c.APIBaseURL = v
	}
	if v := os.Getenv("TABLERO_THEME"); v != "" {
		c.Theme = v
	}
	switch strings.ToLower(os.Getenv("TABLERO_DEBUG")) {
	case "1", "true", "yes":
		c.Debug = true
	}
}

// Validate checks the configuration for errors
func (c *Config) Validate() error {
	if err := validURL(c.APIBaseURL); err != nil {
		return fmt.Errorf("api_base_url: %w", err)
	}
	if c.DevServerURL != "" {
		if err := validURL(c.DevServerURL); err != nil {
			return fmt.Errorf("dev_server_url: %w", err)
		}
	}
	if c.PageSize < 0 {
		return fmt.Errorf("page_size must not be negative")
	}
	if c.MaxRetries != nil && *c.MaxRetries < 0 {
		return fmt.Errorf("max_retries must not be negative")
	}
	if _, err := parseDuration(c.RequestTimeout); err != nil {
		return fmt.Errorf("request_timeout: %w", err)
	}
	if _, err := parseDuration(c.RetryDelay); err != nil {
		return fmt.Errorf("retry_delay: %w", err)
	}
	return nil
}

func validURL(raw string) error {
	u, err := url.Parse(raw)
	if err != nil {
		return err
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("%q is not an http(s) URL", raw)
	}
	if u.Host == "" {
		return fmt.Errorf("%q has no host", raw)
	}
	return nil
}

func parseDuration(s string) (time.Duration, error) {
	d, err := time.ParseDuration(s)
	if err != nil {
		return 0, err
	}
	if d < 0 {
		return 0, fmt.Errorf("%s is negative", s)
	}
	return d, nil
}

// Timeout returns the parsed request timeout
func (c *Config) Timeout() time.Duration {
	d, _ := parseDuration(c.RequestTimeout)
	return d
}

// Delay returns the parsed retry delay
func (c *Config) Delay() time.Duration {
	d, _ := parseDuration(c.RetryDelay)
	return d
}

// Retries returns max_retries, defaulting to 3
func (c *Config) Retries() int {
	if c.MaxRetries == nil {
		return 3
	}
	return *c.MaxRetries
}
