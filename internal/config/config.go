// Package config loads the preview server configuration.
package config

import (
	"encoding/json"
	"fmt"
	"os"
)

// Config is the preview server configuration.
type Config struct {
	// Addr is the listen address.
	Addr string `json:"addr"`

	// DatabasePath is the sqlite file holding authored definitions.
	// ":memory:" keeps everything ephemeral.
	DatabasePath string `json:"databasePath"`

	// LogJSON switches log output to JSON.
	LogJSON bool `json:"logJson"`

	// Debug lowers the log level to debug.
	Debug bool `json:"debug"`
}

// Default returns the configuration used when no file is given.
func Default() *Config {
	return &Config{
		Addr:         ":4000",
		DatabasePath: "formkit.db",
	}
}

// Load reads a JSON config file, filling omitted fields with defaults.
func Load(path string) (*Config, error) {
	cfg := Default()
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}
	if err := json.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}
	if cfg.Addr == "" {
		cfg.Addr = ":4000"
	}
	if cfg.DatabasePath == "" {
		cfg.DatabasePath = "formkit.db"
	}
	return cfg, nil
}
