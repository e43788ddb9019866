package main

import (
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfig_FlagsOverrideFileAndEnv(t *testing.T) {
	t.Setenv("PORT", "9000")
	t.Setenv("BASE_URL", "")

	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("puzzles:\n  dir: from-file\nlog:\n  level: warn\n"), 0o644))

	cmd := rootCmd()
	require.NoError(t, cmd.Flags().Parse([]string{"--config", path, "--log-level", "debug"}))
	f := flags{configPath: path, logLevel: "debug"}

	cfg, err := loadConfig(cmd, f)
	require.NoError(t, err)
	assert.Equal(t, ":9000", cfg.Server.Addr)
	assert.Equal(t, "from-file", cfg.Puzzles.Dir)
	assert.Equal(t, "debug", cfg.Log.Level)
}

func TestLoadConfig_Invalid(t *testing.T) {
	t.Setenv("PORT", "")
	cmd := rootCmd()
	require.NoError(t, cmd.Flags().Parse([]string{"--log-level", "loud"}))

	_, err := loadConfig(cmd, flags{logLevel: "loud"})
	assert.Error(t, err)
}

func TestTimeoutExceptStreams(t *testing.T) {
	var deadlines = map[string]bool{}
	h := timeoutExceptStreams(time.Minute)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, ok := r.Context().Deadline()
		deadlines[r.URL.Path] = ok
	}))

	for _, path := range []string{"/game/abc/board", "/game/abc/stream"} {
		h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, path, nil))
	}
	assert.True(t, deadlines["/game/abc/board"])
	assert.False(t, deadlines["/game/abc/stream"])
}

func TestEvictionInterval(t *testing.T) {
	assert.Equal(t, 10*time.Minute, evictionInterval(24*time.Hour))
	assert.Equal(t, 15*time.Minute/4, evictionInterval(15*time.Minute))
	assert.Equal(t, time.Second, evictionInterval(time.Second))
}
