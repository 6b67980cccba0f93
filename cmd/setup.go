package cmd

import (
	"bufio"
	"fmt"
	"os"
	"strconv"
	"strings"

	"cadence/internal/config"

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

	// Load existing config or defaults
	cfg := loadConfig()

	fmt.Println()
	fmt.Println("  Welcome to cadence!")
	fmt.Println()

	// 1. Server URL
	fmt.Println("  1. Data service URL")
	fmt.Printf("     Current: %s\n", cfg.Server.BaseURL)
	fmt.Print("     > ")
	server, _ := reader.ReadString('\n')
	server = strings.TrimSpace(server)
	if server != "" {
		cfg.Server.BaseURL = server
	}
	fmt.Println()

	// 2. Currency symbol
	fmt.Println("  2. Currency symbol")
	fmt.Printf("     Current: %s\n", cfg.General.CurrencySymbol)
	fmt.Print("     > ")
	symbol, _ := reader.ReadString('\n')
	symbol = strings.TrimSpace(symbol)
	if symbol != "" {
		cfg.General.CurrencySymbol = symbol
	}
	fmt.Println()

	// 3. Watch poll interval
	fmt.Println("  3. Watch poll interval (seconds)")
	fmt.Printf("     Current: %d\n", cfg.Watch.IntervalSec)
	fmt.Print("     > ")
	interval, _ := reader.ReadString('\n')
	interval = strings.TrimSpace(interval)
	if interval != "" {
		n, err := strconv.Atoi(interval)
		if err != nil || n < 10 {
			fmt.Println("     Keeping current value (need a number >= 10)")
		} else {
			cfg.Watch.IntervalSec = n
		}
	}
	fmt.Println()

	// 4. Theme
	fmt.Println("  4. Color theme")
	fmt.Println("     (1) Flexoki Dark [default]")
	fmt.Println("     (2) Catppuccin Mocha")
	fmt.Println("     (3) Terminal (ANSI 16)")
	fmt.Print("     > ")
	themeChoice, _ := reader.ReadString('\n')
	themeChoice = strings.TrimSpace(themeChoice)
	switch themeChoice {
	case "2":
		cfg.Appearance.Theme = "catppuccin-mocha"
	case "3":
		cfg.Appearance.Theme = "terminal"
	default:
		cfg.Appearance.Theme = "flexoki-dark"
	}

	// Save
	if err := config.Save(cfg); err != nil {
		return fmt.Errorf("saving config: %w", err)
	}

	fmt.Println()
	fmt.Printf("  Saved to %s\n", config.ConfigPath())
	fmt.Println("  Next: `cadence register` or `cadence login`, then `cadence income add --main`.")
	fmt.Println()

	return nil
}
