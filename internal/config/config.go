// Package config loads the word search server configuration.
package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Config is the complete server configuration.
type Config struct {
	Server  ServerConfig  `yaml:"server"`
	Puzzles PuzzlesConfig `yaml:"puzzles"`
	Board   BoardConfig   `yaml:"board"`
	Log     LogConfig     `yaml:"log"`
}

// ServerConfig configures the HTTP listener.
type ServerConfig struct {
	// Addr is the listen address (default ":8080")
	Addr string `yaml:"addr"`
	// BaseURL overrides the scheme and host used in share links
	BaseURL string `yaml:"base_url"`
	// Timezone names the location that decides which day's puzzle is current
	Timezone string `yaml:"timezone"`
	// SessionTTL evicts games idle for longer than this with no open
	// streams (0 keeps games for the life of the process)
	SessionTTL time.Duration `yaml:"session_ttl"`
}

// PuzzlesConfig configures where daily puzzle documents come from.
type PuzzlesConfig struct {
	// Dir holds <date>.json documents; it is also served under /puzzles/
	Dir string `yaml:"dir"`
	// URL fetches documents over HTTP instead of Dir when set
	URL string `yaml:"url"`
	// Timeout bounds one fetch (0 = no limit beyond the request)
	Timeout time.Duration `yaml:"timeout"`
}

// BoardConfig tunes grid generation.
type BoardConfig struct {
	// Retries is the placement attempt budget per word
	Retries int `yaml:"retries"`
	// Strict rejects a generated board that left words unplaced and
	// regenerates it, up to Regenerate times
	Strict     bool `yaml:"strict"`
	Regenerate int  `yaml:"regenerate"`
}

// LogConfig configures logging.
type LogConfig struct {
	// Level is one of debug, info, warn, error
	Level string `yaml:"level"`
}

// DefaultConfig returns a Config with the defaults.
func DefaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Addr:       ":8080",
			SessionTTL: 24 * time.Hour,
		},
		Puzzles: PuzzlesConfig{
			Dir: "puzzles/wordsearch",
		},
		Board: BoardConfig{
			Retries:    250,
			Regenerate: 3,
		},
		Log: LogConfig{
			Level: "info",
		},
	}
}

// Validate checks that the configuration is usable.
func (c *Config) Validate() error {
	if strings.TrimSpace(c.Server.Addr) == "" {
		return fmt.Errorf("server.addr is required")
	}
	if c.Board.Retries < 1 {
		return fmt.Errorf("board.retries must be at least 1")
	}
	if c.Board.Regenerate < 0 {
		return fmt.Errorf("board.regenerate must not be negative")
	}
	if c.Server.SessionTTL < 0 {
		return fmt.Errorf("server.session_ttl must not be negative")
	}
	if c.Puzzles.Timeout < 0 {
		return fmt.Errorf("puzzles.timeout must not be negative")
	}
	if _, err := c.Location(); err != nil {
		return fmt.Errorf("server.timezone: %w", err)
	}
	switch strings.ToLower(c.Log.Level) {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("log.level must be one of debug, info, warn, error")
	}
	return nil
}

// Location resolves Server.Timezone; empty means the local zone.
func (c *Config) Location() (*time.Location, error) {
	if c.Server.Timezone == "" {
		return time.Local, nil
	}
	return time.LoadLocation(c.Server.Timezone)
}

// LoadFromFile loads configuration from a YAML file on top of the defaults.
func LoadFromFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	config := DefaultConfig()
	if err := yaml.Unmarshal(data, config); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	return config, nil
}

// ApplyEnv overrides fields from PORT and BASE_URL.
func (c *Config) ApplyEnv(getenv func(string) string) {
	if port := strings.TrimSpace(getenv("PORT")); port != "" {
		c.Server.Addr = ":" + port
	}
	if base := strings.TrimSpace(getenv("BASE_URL")); base != "" {
		c.Server.BaseURL = strings.TrimRight(base, "/")
	}
}
