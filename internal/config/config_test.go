package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// clearConsoleEnv blanks every variable Load reads so ambient shell
// state cannot leak into assertions. t.Setenv restores the originals.
func clearConsoleEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{
		"APP_ENV", "APP_NAME", "APP_VERSION", "API_BASE_URL",
		"API_TIMEOUT_SECONDS", "FILTER_DEBOUNCE_MILLIS",
		"SUMMARY_REFRESH_MINUTES", "TICKET_PAGE_SIZE",
		"MATERIAL_PAGE_SIZE", "TOKEN_STORE_PATH", "LOG_LEVEL",
		"LOG_PATH",
	} {
		t.Setenv(key, "")
	}
	// Point the overlay at a file that does not exist.
	t.Setenv("CONFIG_FILE", filepath.Join(t.TempDir(), "missing.yaml"))
}

func TestLoad_Defaults(t *testing.T) {
	clearConsoleEnv(t)

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "development", cfg.App.Env)
	assert.Equal(t, "trippal-admin-console", cfg.App.Name)
	assert.Equal(t, devBaseURL, cfg.API.BaseURL)
	assert.Equal(t, 10, cfg.API.TimeoutSeconds)
	assert.Equal(t, 10, cfg.Lists.TicketPageSize)
	assert.Equal(t, 12, cfg.Lists.MaterialPageSize)
	assert.Equal(t, "info", cfg.Logger.Level)
	assert.Equal(t, 300*time.Millisecond, cfg.App.Debounce())
	assert.Equal(t, 5*time.Minute, cfg.App.SummaryRefreshInterval())
	assert.Equal(t, 10*time.Second, cfg.API.RequestTimeout())
}

func TestLoad_ProductionBaseURL(t *testing.T) {
	clearConsoleEnv(t)
	t.Setenv("APP_ENV", "production")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, prodBaseURL, cfg.API.BaseURL)
}

func TestLoad_ExplicitBaseURLWinsOverEnv(t *testing.T) {
	clearConsoleEnv(t)
	t.Setenv("APP_ENV", "production")
	t.Setenv("API_BASE_URL", "http://staging.internal:9000/api")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "http://staging.internal:9000/api", cfg.API.BaseURL)
}

func TestLoad_EnvironmentOverrides(t *testing.T) {
	clearConsoleEnv(t)
	t.Setenv("API_TIMEOUT_SECONDS", "30")
	t.Setenv("FILTER_DEBOUNCE_MILLIS", "150")
	t.Setenv("TICKET_PAGE_SIZE", "25")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, 30*time.Second, cfg.API.RequestTimeout())
	assert.Equal(t, 150*time.Millisecond, cfg.App.Debounce())
	assert.Equal(t, 25, cfg.Lists.TicketPageSize)
}

func TestLoad_InvalidIntFallsBack(t *testing.T) {
	clearConsoleEnv(t)
	t.Setenv("API_TIMEOUT_SECONDS", "not-a-number")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, 10, cfg.API.TimeoutSeconds)
}

func TestLoad_FileOverlay(t *testing.T) {
	clearConsoleEnv(t)

	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
api:
  base_url: https://api.example.test/api
  timeout_seconds: 20
logger:
  level: debug
`), 0o600))
	t.Setenv("CONFIG_FILE", path)

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "https://api.example.test/api", cfg.API.BaseURL)
	assert.Equal(t, 20, cfg.API.TimeoutSeconds)
	assert.Equal(t, "debug", cfg.Logger.Level)
	// Fields absent from the file keep their environment defaults.
	assert.Equal(t, 10, cfg.Lists.TicketPageSize)
}

func TestLoad_MalformedFileIsAnError(t *testing.T) {
	clearConsoleEnv(t)

	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("api: [not: a: mapping"), 0o600))
	t.Setenv("CONFIG_FILE", path)

	_, err := Load()
	require.Error(t, err)
}
