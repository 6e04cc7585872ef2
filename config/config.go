// Package config loads serline configuration from a TOML file with
// built-in defaults for everything left unset.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
)

// Config holds the application configuration.
type Config struct {
	// Port is the serial device path, e.g. /dev/ttyUSB0.
	Port string `toml:"port"`
	// Baud is the serial line rate.
	Baud int `toml:"baud"`
	// HistoryCapacity bounds the stored conversation turns.
	HistoryCapacity int `toml:"history_capacity"`
	// ResponseLimit bounds stored response bytes per exchange.
	ResponseLimit int `toml:"response_limit"`
	// Transcript is where /save writes the session.
	Transcript string `toml:"transcript"`
	// LogFile receives debug logs. Empty disables logging.
	LogFile string `toml:"log_file"`
}

// Default returns the built-in configuration.
func Default() Config {
	home, _ := os.UserHomeDir()
	return Config{
		Port:            "/dev/ttyUSB0",
		Baud:            115200,
		HistoryCapacity: 20,
		ResponseLimit:   16384,
		Transcript:      filepath.Join(home, ".serline", "transcript.json"),
	}
}

// DefaultPath returns the default config file location.
func DefaultPath() string {
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".serline", "config.toml")
}

// Load reads configuration from a TOML file layered over the defaults.
// A missing file is not an error; the defaults are returned as-is.
func Load(path string) (Config, error) {
	cfg := Default()
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return Config{}, fmt.Errorf("config: read %s: %w", path, err)
	}
	if err := toml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("config: parse %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks the configuration for values the rest of the program
// cannot work with.
func (c Config) Validate() error {
	if c.Port == "" {
		return fmt.Errorf("config: port must not be empty")
	}
	if c.Baud <= 0 {
		return fmt.Errorf("config: baud must be positive, got %d", c.Baud)
	}
	if c.HistoryCapacity <= 0 {
		return fmt.Errorf("config: history_capacity must be positive, got %d", c.HistoryCapacity)
	}
	if c.ResponseLimit < 2 {
		return fmt.Errorf("config: response_limit must be at least 2, got %d", c.ResponseLimit)
	}
	return nil
}
