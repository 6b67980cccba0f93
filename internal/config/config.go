// Package config loads and saves the cadence TOML configuration.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
)

// Config holds all cadence configuration.
type Config struct {
	Server     ServerConfig     `toml:"server"`
	General    GeneralConfig    `toml:"general"`
	Watch      WatchConfig      `toml:"watch"`
	Appearance AppearanceConfig `toml:"appearance"`
}

// ServerConfig holds budgeting service settings.
type ServerConfig struct {
	BaseURL string `toml:"base_url"`
}

// GeneralConfig holds general preferences.
type GeneralConfig struct {
	CurrencySymbol string `toml:"currency_symbol"`
}

// WatchConfig holds background monitor settings.
type WatchConfig struct {
	IntervalSec int `toml:"interval_sec"`
}

// AppearanceConfig holds theme settings.
type AppearanceConfig struct {
	Theme string `toml:"theme"`
}

// DefaultConfig returns the default configuration.
func DefaultConfig() Config {
	return Config{
		Server: ServerConfig{
			BaseURL: "http://localhost:8080/api",
		},
		General: GeneralConfig{
			CurrencySymbol: "$",
		},
		Watch: WatchConfig{
			IntervalSec: 300,
		},
		Appearance: AppearanceConfig{
			Theme: "flexoki-dark",
		},
	}
}

// ConfigDir returns the XDG-compliant config directory.
func ConfigDir() string {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, "cadence")
	}
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".config", "cadence")
}

// ConfigPath returns the full path to the config file.
func ConfigPath() string {
	return filepath.Join(ConfigDir(), "config.toml")
}

// CachePath returns the path of the local snapshot database.
func CachePath() string {
	if xdg := os.Getenv("XDG_CACHE_HOME"); xdg != "" {
		return filepath.Join(xdg, "cadence", "cadence.db")
	}
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".cache", "cadence", "cadence.db")
}

// Load reads the config file, returning defaults if it doesn't exist.
func Load() (Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(ConfigPath())
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return cfg, fmt.Errorf("reading config: %w", err)
	}

	if err := toml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parsing config: %w", err)
	}

	return cfg, nil
}

// Save writes the config to disk.
func Save(cfg Config) error {
	dir := ConfigDir()
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating config dir: %w", err)
	}

	f, err := os.OpenFile(ConfigPath(), os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0o600)
	if err != nil {
		return fmt.Errorf("creating config file: %w", err)
	}
	defer f.Close()

	enc := toml.NewEncoder(f)
	return enc.Encode(cfg)
}

// ServerURL returns the server base URL from env var or config, in that order.
func ServerURL(cfg Config) string {
	if u := os.Getenv("CADENCE_SERVER"); u != "" {
		return u
	}
	return cfg.Server.BaseURL
}

// Exists returns true if a config file exists on disk.
func Exists() bool {
	_, err := os.Stat(ConfigPath())
	return err == nil
}
