// Package cmd implements the finsight CLI commands.
package cmd

import (
	"fmt"
	"os"

	"finsight/internal/analytics"
	"finsight/internal/config"
	"finsight/internal/tui"
	"finsight/internal/tui/theme"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
	"github.com/spf13/cobra"
)

var (
	flagConfig  string
	flagBaseURL string
	flagPeriod  string
	flagMonths  int
)

var rootCmd = &cobra.Command{
	Use:   "finsight",
	Short: "Spending analytics dashboard",
	Long:  "Track spending trends, categories, and forecasts from your finsight analytics server.",
	RunE:  runDashboard,
}

// Execute is the main entry point called from main.go.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&flagConfig, "config", "", "Config file (default: XDG config dir)")
	rootCmd.PersistentFlags().StringVar(&flagBaseURL, "base-url", "", "Analytics API base URL")
	rootCmd.PersistentFlags().StringVarP(&flagPeriod, "period", "p", "", "Trend buckets: daily, weekly, monthly, yearly")
	rootCmd.PersistentFlags().IntVarP(&flagMonths, "months", "n", 0, "Trend window in months")
}

// loadConfig is the shared config resolution path used by all commands:
// the config file overlaid with whatever flags were set this invocation.
// Environment variables still win over both inside the config accessors.
func loadConfig() (config.Config, error) {
	if flagConfig != "" {
		config.SetPath(flagConfig)
	}

	cfg, err := config.Load()
	if err != nil {
		return cfg, err
	}

	if flagBaseURL != "" {
		cfg.API.BaseURL = flagBaseURL
	}
	if flagPeriod != "" {
		p, err := analytics.ParsePeriod(flagPeriod)
		if err != nil {
			return cfg, err
		}
		cfg.Dashboard.Period = string(p)
	}
	if flagMonths != 0 {
		if flagMonths < 1 {
			return cfg, fmt.Errorf("months must be at least 1, got %d", flagMonths)
		}
		cfg.Dashboard.Months = flagMonths
	}
	return cfg, nil
}

func runDashboard(_ *cobra.Command, _ []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	theme.SetActive(cfg.Appearance.Theme)

	// Force TrueColor profile so all background styling produces ANSI codes.
	// Without this, lipgloss may default to Ascii profile (no colors).
	lipgloss.SetColorProfile(termenv.TrueColor)

	p := tea.NewProgram(tui.NewApp(cfg), tea.WithAltScreen())
	final, err := p.Run()
	if err != nil {
		return fmt.Errorf("dashboard error: %w", err)
	}
	if app, ok := final.(tui.App); ok {
		app.Shutdown()
	}
	return nil
}
