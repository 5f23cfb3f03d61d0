package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// clearEnv unsets the AUTHDESK_* variables for the duration of the test.
func clearEnv(t *testing.T) {
	t.Helper()
	for _, k := range []string{EnvServerAddr, EnvAPIURL, EnvLogLevel, EnvLogFormat} {
		t.Setenv(k, "")
		require.NoError(t, os.Unsetenv(k))
	}
	orig := dotenvFiles
	dotenvFiles = nil
	t.Cleanup(func() { dotenvFiles = orig })
}

func TestLoadDefaults(t *testing.T) {
	var c Config
	c.LoadDefaults()

	assert.Equal(t, "http://127.0.0.1:5000", c.ServerAddr)
	assert.Equal(t, "/api", c.APIURL)
	assert.Equal(t, "info", c.LogLevel)
	assert.Equal(t, "text", c.LogFormat)
}

func TestLoad_NoSources_UsesDefaults(t *testing.T) {
	clearEnv(t)

	cfg := load(nil)

	var want Config
	want.LoadDefaults()
	assert.Empty(t, cmp.Diff(&want, cfg))
}

func TestLoad_Precedence(t *testing.T) {
	clearEnv(t)

	path := writeTempJSON(t, "", "", map[string]any{
		"server_addr": "http://json:1",
		"api_url":     "/json-api",
		"log_level":   "debug",
		"log_format":  "json",
	})
	t.Setenv(EnvAPIURL, "/env-api")
	t.Setenv(EnvLogFormat, "zap")

	cfg := load([]string{"-c", path, "-f", "text"})

	want := &Config{
		ServerAddr: "http://json:1", // json only
		APIURL:     "/env-api",      // env over json
		LogLevel:   "debug",         // json only
		LogFormat:  "text",          // flag over env
	}
	assert.Empty(t, cmp.Diff(want, cfg))
}

func TestParseEnv_DotenvFile(t *testing.T) {
	clearEnv(t)

	dir := t.TempDir()
	file := filepath.Join(dir, ".env")
	require.NoError(t, os.WriteFile(file, []byte("AUTHDESK_API_URL=https://auth.example.org/v1\nAUTHDESK_LOG_LEVEL=warn\n"), 0o600))
	dotenvFiles = []string{file}
	t.Cleanup(func() {
		_ = os.Unsetenv(EnvAPIURL)
		_ = os.Unsetenv(EnvLogLevel)
	})

	t.Setenv(EnvLogLevel, "error") // process env wins over the file

	cfg := &Config{}
	cfg.LoadDefaults()
	parseEnv(cfg)

	assert.Equal(t, "https://auth.example.org/v1", cfg.APIURL)
	assert.Equal(t, "error", cfg.LogLevel)
	assert.Equal(t, "http://127.0.0.1:5000", cfg.ServerAddr)
}

func TestParseEnv_MissingDotenvIgnored(t *testing.T) {
	clearEnv(t)
	dotenvFiles = []string{filepath.Join(t.TempDir(), "absent.env")}

	cfg := &Config{}
	require.NotPanics(t, func() { parseEnv(cfg) })
}

func TestBaseURL(t *testing.T) {
	tests := []struct {
		name    string
		cfg     Config
		want    string
		wantErr bool
	}{
		{name: "default relative path", cfg: Config{ServerAddr: "http://127.0.0.1:5000", APIURL: "/api"}, want: "http://127.0.0.1:5000/api"},
		{name: "path without slash", cfg: Config{ServerAddr: "http://h", APIURL: "api/"}, want: "http://h/api"},
		{name: "origin with path is replaced", cfg: Config{ServerAddr: "http://h/app/", APIURL: "/api"}, want: "http://h/api"},
		{name: "absolute api url", cfg: Config{ServerAddr: "http://ignored", APIURL: "https://auth.example.org/v1/"}, want: "https://auth.example.org/v1"},
		{name: "relative origin", cfg: Config{ServerAddr: "localhost:5000", APIURL: "/api"}, wantErr: true},
		{name: "broken api url", cfg: Config{ServerAddr: "http://h", APIURL: "http://[::1"}, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := tt.cfg.BaseURL()
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}
