package cmd

import (
	"fmt"

	"finsight/internal/config"
	"finsight/internal/logging"
	"finsight/internal/store"

	"github.com/spf13/cobra"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Show the resolved configuration",
	RunE:  runConfig,
}

func init() {
	rootCmd.AddCommand(configCmd)
}

func runConfig(_ *cobra.Command, _ []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	fmt.Printf("  Config file: %s\n", config.Path())
	if config.Exists() {
		fmt.Println("  Status: loaded")
	} else {
		fmt.Println("  Status: using defaults (no config file)")
	}
	fmt.Println()

	fmt.Println("  [API]")
	fmt.Printf("    Base URL: %s\n", cfg.BaseURL())
	if token := cfg.Token(); token != "" {
		fmt.Printf("    Token:    %s (%s)\n", maskToken(token), cfg.TokenSource())
	} else {
		fmt.Println("    Token:    not configured")
	}
	fmt.Println()

	fmt.Println("  [Dashboard]")
	fmt.Printf("    Period:           %s\n", cfg.Dashboard.Period)
	fmt.Printf("    Months:           %d\n", cfg.Dashboard.Months)
	fmt.Printf("    Auto refresh:     %v\n", cfg.Dashboard.AutoRefresh)
	fmt.Printf("    Refresh interval: %ds\n", cfg.Dashboard.RefreshInterval)
	fmt.Println()

	fmt.Println("  [Appearance]")
	fmt.Printf("    Theme:    %s\n", cfg.Appearance.Theme)
	fmt.Printf("    Currency: %s\n", cfg.CurrencyCode())
	fmt.Println()

	fmt.Println("  [Log]")
	fmt.Printf("    Level: %s\n", cfg.Log.Level)
	fmt.Printf("    File:  %s\n", logging.DefaultPath())
	fmt.Println()

	if path, err := store.DefaultPath(); err == nil {
		fmt.Printf("  Snapshot db: %s\n", path)
		fmt.Println()
	}

	fmt.Println("  Run `finsight setup` to reconfigure.")
	return nil
}
