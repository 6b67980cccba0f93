// Package cmd implements the cadence CLI commands.
package cmd

import (
	"fmt"
	"time"

	"cadence/internal/api"
	"cadence/internal/config"

	"github.com/spf13/cobra"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Show current configuration",
	RunE:  runConfig,
}

func init() {
	rootCmd.AddCommand(configCmd)
}

func runConfig(_ *cobra.Command, _ []string) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	fmt.Printf("  Config file: %s\n", config.ConfigPath())
	if config.Exists() {
		fmt.Println("  Status: loaded")
	} else {
		fmt.Println("  Status: using defaults (no config file)")
	}
	fmt.Println()

	fmt.Println("  [Server]")
	fmt.Printf("    Base URL: %s\n", config.ServerURL(cfg))
	fmt.Println()

	fmt.Println("  [General]")
	fmt.Printf("    Currency symbol: %s\n", cfg.General.CurrencySymbol)
	fmt.Println()

	fmt.Println("  [Watch]")
	fmt.Printf("    Poll interval: %ds\n", cfg.Watch.IntervalSec)
	fmt.Println()

	fmt.Println("  [Appearance]")
	fmt.Printf("    Theme: %s\n", cfg.Appearance.Theme)
	fmt.Println()

	fmt.Println("  [Session]")
	cache, err := openCache()
	if err == nil {
		defer func() { _ = cache.Close() }()
		token, terr := cache.Token()
		switch {
		case terr != nil || token == "":
			fmt.Println("    Not logged in")
		case api.TokenExpired(token, time.Now()):
			fmt.Println("    Expired, run `cadence login`")
		default:
			if exp, eerr := api.TokenExpiry(token); eerr == nil {
				fmt.Printf("    Valid until %s\n", exp.Local().Format(time.RFC3339))
			} else {
				fmt.Println("    Active")
			}
		}
	} else {
		fmt.Println("    Snapshot store unavailable")
	}
	fmt.Println()

	fmt.Println("  Run `cadence setup` to reconfigure.")
	return nil
}
