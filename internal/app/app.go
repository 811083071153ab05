// Package app wires configuration, logging and the API client together.
package app

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/dori/tablero/internal/api"
	"github.com/dori/tablero/internal/config"
	"github.com/dori/tablero/internal/dashboard"
	"github.com/dori/tablero/internal/ui/theme"
)

// App holds the application dependencies
type App struct {
	Config *config.Config
	Client *api.Client
	Logger *slog.Logger

	logFile io.Closer
}

// New creates the application from cfg. A nil cfg uses the defaults and
// an empty theme keeps the current one.
func New(cfg *config.Config) (*App, error) {
	if cfg == nil {
		cfg = config.Default()
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	a := &App{Config: cfg}

	logger, closer, err := newLogger(cfg)
	if err != nil {
		return nil, err
	}
	a.Logger = logger
	a.logFile = closer

	if cfg.Theme != "" {
		if err := theme.Apply(cfg.Theme); err != nil {
			a.Close()
			return nil, err
		}
	}

	client, err := api.New(api.Options{
		BaseURL:    cfg.APIBaseURL,
		Timeout:    cfg.Timeout(),
		MaxRetries: cfg.Retries(),
		RetryDelay: cfg.Delay(),
		Logger:     logger,
	})
	if err != nil {
		a.Close()
		return nil, err
	}
	a.Client = client

	logger.Info("starting", "api", client.BaseURL(), "theme", cfg.Theme)
	return a, nil
}

// newLogger writes debug logs to cfg.LogFile when debugging is on and
// discards them otherwise.
func newLogger(cfg *config.Config) (*slog.Logger, io.Closer, error) {
	if !cfg.Debug || cfg.LogFile == "" {
		return slog.New(slog.DiscardHandler), nil, nil
	}

	if err := os.MkdirAll(filepath.Dir(cfg.LogFile), 0755); err != nil {
		return nil, nil, fmt.Errorf("failed to create log directory: %w", err)
	}
	f, err := os.OpenFile(cfg.LogFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open log file: %w", err)
	}

	h := slog.NewTextHandler(f, &slog.HandlerOptions{Level: slog.LevelDebug})
	return slog.New(h), f, nil
}

// Effects returns the op builder the TUI runs
func (a *App) Effects() *dashboard.Effects {
	return dashboard.NewEffects(a.Client, a.Logger)
}

// Controller returns a synchronous controller for the CLI commands
func (a *App) Controller() *dashboard.Controller {
	return dashboard.NewController(a.Client, a.Logger)
}

// Close cleans up application resources
func (a *App) Close() error {
	if a.logFile == nil {
		return nil
	}
	err := a.logFile.Close()
	a.logFile = nil
	if err != nil {
		return fmt.Errorf("failed to close log file: %w", err)
	}
	return nil
}
