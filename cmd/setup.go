package cmd

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"finsight/internal/config"
	"finsight/internal/tui/theme"

	"github.com/spf13/cobra"
)

var setupCmd = &cobra.Command{
	Use:   "setup",
	Short: "First-time setup wizard",
	RunE:  runSetup,
}

func init() {
	rootCmd.AddCommand(setupCmd)
}

func runSetup(_ *cobra.Command, _ []string) error {
	reader := bufio.NewReader(os.Stdin)

	// Start from the existing config so a rerun only changes what the
	// user types over.
	cfg, _ := config.Load()

	fmt.Println()
	fmt.Println("  Welcome to finsight!")
	fmt.Println()

	// 1. Server
	fmt.Println("  1. Analytics server URL")
	fmt.Printf("     Current: %s\n", cfg.BaseURL())
	fmt.Print("     > ")
	baseURL, _ := reader.ReadString('\n')
	baseURL = strings.TrimSpace(baseURL)
	if baseURL != "" {
		cfg.API.BaseURL = baseURL
	}
	fmt.Println()

	// 2. API token
	fmt.Println("  2. API token")
	fmt.Println("     Issued from your finsight server's settings page.")
	if existing := cfg.Token(); existing != "" {
		fmt.Printf("     Current: %s\n", maskToken(existing))
	}
	fmt.Print("     > ")
	token, _ := reader.ReadString('\n')
	token = strings.TrimSpace(token)
	if token != "" {
		cfg.API.Token = token
	}
	fmt.Println()

	// 3. Currency
	fmt.Println("  3. Display currency (ISO code)")
	fmt.Printf("     Current: %s\n", cfg.CurrencyCode())
	fmt.Print("     > ")
	currency, _ := reader.ReadString('\n')
	currency = strings.ToUpper(strings.TrimSpace(currency))
	if currency != "" {
		cfg.Appearance.Currency = currency
	}
	fmt.Println()

	// 4. Theme
	names := theme.Names()
	fmt.Println("  4. Color theme")
	for i, name := range names {
		marker := ""
		if name == cfg.Appearance.Theme {
			marker = " [current]"
		}
		fmt.Printf("     (%d) %s%s\n", i+1, name, marker)
	}
	fmt.Print("     > ")
	choice, _ := reader.ReadString('\n')
	choice = strings.TrimSpace(choice)
	for i, name := range names {
		if choice == fmt.Sprintf("%d", i+1) {
			cfg.Appearance.Theme = name
		}
	}

	if err := config.Save(cfg); err != nil {
		return fmt.Errorf("saving config: %w", err)
	}

	fmt.Println()
	fmt.Printf("  Saved to %s\n", config.Path())
	fmt.Println("  Run `finsight setup` anytime to reconfigure.")
	fmt.Println()

	return nil
}

func maskToken(token string) string {
	if len(token) > 16 {
		return token[:8] + "..." + token[len(token)-4:]
	}
	if len(token) > 4 {
		return token[:4] + "..."
	}
	return "****"
}
