package config_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/serline/serline/config"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestLoad_MissingFileReturnsDefaults(t *testing.T) {
	t.Parallel()

	cfg, err := config.Load(filepath.Join(t.TempDir(), "absent.toml"))

	require.NoError(t, err)
	assert.Equal(t, config.Default(), cfg)
}

func TestLoad_OverridesDefaults(t *testing.T) {
	t.Parallel()

	path := writeConfig(t, `
port = "/dev/ttyACM1"
baud = 9600
history_capacity = 5
`)

	cfg, err := config.Load(path)

	require.NoError(t, err)
	assert.Equal(t, "/dev/ttyACM1", cfg.Port)
	assert.Equal(t, 9600, cfg.Baud)
	assert.Equal(t, 5, cfg.HistoryCapacity)
	// Unset keys keep their defaults.
	assert.Equal(t, config.Default().ResponseLimit, cfg.ResponseLimit)
}

func TestLoad_MalformedFile(t *testing.T) {
	t.Parallel()

	path := writeConfig(t, "port = [not toml")

	_, err := config.Load(path)
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		mutate  func(*config.Config)
		wantErr string
	}{
		{"valid defaults", func(c *config.Config) {}, ""},
		{"empty port", func(c *config.Config) { c.Port = "" }, "port"},
		{"zero baud", func(c *config.Config) { c.Baud = 0 }, "baud"},
		{"negative history", func(c *config.Config) { c.HistoryCapacity = -1 }, "history_capacity"},
		{"tiny response limit", func(c *config.Config) { c.ResponseLimit = 1 }, "response_limit"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			cfg := config.Default()
			tt.mutate(&cfg)
			err := cfg.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
			} else {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.wantErr)
			}
		})
	}
}
