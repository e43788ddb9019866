package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	assert.Equal(t, ":8080", cfg.Server.Addr)
	assert.Equal(t, "puzzles/wordsearch", cfg.Puzzles.Dir)
	assert.Equal(t, 250, cfg.Board.Retries)
	assert.False(t, cfg.Board.Strict)
	assert.Equal(t, "info", cfg.Log.Level)
	assert.Equal(t, 24*time.Hour, cfg.Server.SessionTTL)
	require.NoError(t, cfg.Validate())
}

func TestConfigValidate(t *testing.T) {
	tests := []struct {
		name    string
		modify  func(*Config)
		wantErr bool
	}{
		{
			name:    "valid default config",
			modify:  func(c *Config) {},
			wantErr: false,
		},
		{
			name:    "missing addr",
			modify:  func(c *Config) { c.Server.Addr = " " },
			wantErr: true,
		},
		{
			name:    "zero retries",
			modify:  func(c *Config) { c.Board.Retries = 0 },
			wantErr: true,
		},
		{
			name:    "negative regenerate",
			modify:  func(c *Config) { c.Board.Regenerate = -1 },
			wantErr: true,
		},
		{
			name:    "negative timeout",
			modify:  func(c *Config) { c.Puzzles.Timeout = -time.Second },
			wantErr: true,
		},
		{
			name:    "negative session ttl",
			modify:  func(c *Config) { c.Server.SessionTTL = -time.Minute },
			wantErr: true,
		},
		{
			name:    "unknown timezone",
			modify:  func(c *Config) { c.Server.Timezone = "Mars/Olympus" },
			wantErr: true,
		},
		{
			name:    "bad log level",
			modify:  func(c *Config) { c.Log.Level = "loud" },
			wantErr: true,
		},
		{
			name:    "utc timezone",
			modify:  func(c *Config) { c.Server.Timezone = "UTC" },
			wantErr: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.modify(cfg)
			err := cfg.Validate()
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestLoadFromFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "wordsearch.yaml")
	data := `
server:
  addr: ":9090"
puzzles:
  url: "https://example.com/puzzles/wordsearch"
  timeout: 3s
board:
  strict: true
log:
  level: debug
`
	require.NoError(t, os.WriteFile(path, []byte(data), 0o644))

	cfg, err := LoadFromFile(path)
	require.NoError(t, err)
	assert.Equal(t, ":9090", cfg.Server.Addr)
	assert.Equal(t, "https://example.com/puzzles/wordsearch", cfg.Puzzles.URL)
	assert.Equal(t, 3*time.Second, cfg.Puzzles.Timeout)
	assert.True(t, cfg.Board.Strict)
	assert.Equal(t, 250, cfg.Board.Retries, "unset fields keep defaults")
	assert.Equal(t, "debug", cfg.Log.Level)
}

func TestLoadFromFile_Errors(t *testing.T) {
	_, err := LoadFromFile(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)

	path := filepath.Join(t.TempDir(), "bad.yaml")
	require.NoError(t, os.WriteFile(path, []byte("server: [unclosed"), 0o644))
	_, err = LoadFromFile(path)
	assert.Error(t, err)
}

func TestApplyEnv(t *testing.T) {
	env := map[string]string{"PORT": "3000", "BASE_URL": "https://puzzles.example.com/"}
	cfg := DefaultConfig()
	cfg.ApplyEnv(func(k string) string { return env[k] })

	assert.Equal(t, ":3000", cfg.Server.Addr)
	assert.Equal(t, "https://puzzles.example.com", cfg.Server.BaseURL)

	cfg = DefaultConfig()
	cfg.ApplyEnv(func(string) string { return "" })
	assert.Equal(t, ":8080", cfg.Server.Addr)
}
