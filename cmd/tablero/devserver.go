package main

import (
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/dori/tablero/internal/config"
	"github.com/dori/tablero/internal/devserver"
)

var (
	devAddr    string
	devDataDir string
	devSeed    bool
	devDebug   bool
)

var devserverCmd = &cobra.Command{
	Use:   "devserver",
	Short: "Run a local backend for development",
	Long: `Run a local implementation of the project management API backed
by SQLite. The dashboard can point at it with api_base_url.

Examples:
  # Serve on :8000 with sample data
  tablero devserver --seed

  # Keep the data somewhere else
  tablero devserver --data-dir ./data --addr 127.0.0.1:9000`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load(configPath)
		if err != nil {
			return err
		}

		level := slog.LevelInfo
		if devDebug || cfg.Debug {
			level = slog.LevelDebug
		}
		logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))

		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		store, err := devserver.Open(devDataDir)
		if err != nil {
			return fmt.Errorf("open store: %w", err)
		}
		defer store.Close()

		if devSeed {
			if err := store.Seed(ctx); err != nil {
				return fmt.Errorf("seed: %w", err)
			}
			logger.Info("sample data ready")
		}

		var origins []string
		if cfg.DevServerURL != "" {
			origins = append(origins, cfg.DevServerURL)
		}
		srv := devserver.NewServer(store, devserver.Options{
			AllowedOrigins: origins,
			Logger:         logger,
		})
		logger.Info("devserver starting", "data_dir", devDataDir, "origins", origins)
		return srv.ListenAndServe(ctx, devAddr)
	},
}

func init() {
	devserverCmd.Flags().StringVar(&devAddr, "addr", ":8000", "listen address")
	devserverCmd.Flags().StringVar(&devDataDir, "data-dir", devserver.DefaultDataDir(), "directory holding the SQLite database")
	devserverCmd.Flags().BoolVar(&devSeed, "seed", false, "fill an empty database with sample data")
	devserverCmd.Flags().BoolVar(&devDebug, "debug", false, "log every request")
	rootCmd.AddCommand(devserverCmd)
}
