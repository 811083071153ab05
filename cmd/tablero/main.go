// Package main is the entry point for the tablero dashboard.
package main

import (
	"context"
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/dori/tablero/internal/app"
	"github.com/dori/tablero/internal/config"
	"github.com/dori/tablero/internal/dashboard"
	"github.com/dori/tablero/internal/ui"
)

var version = "0.1.0"

var (
	configPath string
	viewFlag   string
	themeFlag  string
)

var rootCmd = &cobra.Command{
	Use:   "tablero",
	Short: "Terminal dashboard for projects, tasks and users",
	Long: `tablero is a terminal dashboard for a project management REST API.

It lists projects with their completion, opens a project as a board of
tasks, manages users and shows per-project reports.

Examples:
  # Start the dashboard
  tablero

  # Start on the reports screen with another theme
  tablero --view reports --theme dracula

  # Run a local backend with sample data
  tablero devserver --seed`,
	SilenceUsage: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runTUI(cmd.Context())
	},
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "config file (default: "+config.DefaultPath()+")")
	rootCmd.Flags().StringVar(&viewFlag, "view", "dashboard", "starting view (dashboard, create, users, reports)")
	rootCmd.Flags().StringVar(&themeFlag, "theme", "", "theme name (nord, dracula, gruvbox, catppuccin)")
}

func main() {
	if err := rootCmd.ExecuteContext(context.Background()); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// loadApp reads the config file and builds the application from it
func loadApp() (*app.App, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, err
	}
	if themeFlag != "" {
		cfg.Theme = themeFlag
	}
	return app.New(cfg)
}

func runTUI(ctx context.Context) error {
	start, ok := dashboard.ParseView(viewFlag)
	if !ok || start == dashboard.ViewDetail {
		return fmt.Errorf("unknown view %q", viewFlag)
	}

	a, err := loadApp()
	if err != nil {
		return err
	}
	defer a.Close()

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	model := ui.NewRootModel(ctx, a.Effects(), ui.Options{
		AppName:   a.Config.AppName,
		BaseURL:   a.Client.BaseURL(),
		PageSize:  a.Config.PageSize,
		StartView: start,
		Logger:    a.Logger,
	})

	p := tea.NewProgram(model, tea.WithAltScreen(), tea.WithContext(ctx))
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("error running program: %w", err)
	}
	return nil
}
