package common

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewDefaultConfig(t *testing.T) {
	config := NewDefaultConfig()

	assert.Equal(t, "development", config.Environment)
	assert.Equal(t, 8080, config.Server.Port)
	assert.Equal(t, "https://query1.finance.yahoo.com", config.Clients.Yahoo.BaseURL)
	assert.Equal(t, 30*time.Second, config.Clients.Yahoo.GetTimeout())
	assert.Equal(t, 24*time.Hour, config.Auth.GetTokenExpiry())
	assert.False(t, config.IsProduction())
}

func TestLoadConfigMergesFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "portfolio.toml")
	content := `
environment = "production"

[server]
port = 9090

[clients.yahoo]
timeout = "5s"
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))

	config, err := LoadConfig(path)
	require.NoError(t, err)

	assert.Equal(t, "production", config.Environment)
	assert.True(t, config.IsProduction())
	assert.Equal(t, 9090, config.Server.Port)
	assert.Equal(t, 5*time.Second, config.Clients.Yahoo.GetTimeout())
	// Untouched fields keep defaults
	assert.Equal(t, "0.0.0.0", config.Server.Host)
	assert.Equal(t, 5, config.Clients.Yahoo.RateLimit)
}

func TestLoadConfigSkipsMissingFiles(t *testing.T) {
	config, err := LoadConfig("does/not/exist.toml")
	require.NoError(t, err)
	assert.Equal(t, 8080, config.Server.Port)
}

func TestEnvOverrides(t *testing.T) {
	t.Setenv("PORTFOLIO_PORT", "7070")
	t.Setenv("PORTFOLIO_LOG_LEVEL", "debug")
	t.Setenv("PORTFOLIO_DATA_PATH", "/var/lib/ptrack")
	t.Setenv("GEMINI_API_KEY", "test-key")

	config, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, 7070, config.Server.Port)
	assert.Equal(t, "debug", config.Logging.Level)
	assert.Equal(t, filepath.Join("/var/lib/ptrack", "internal"), config.Storage.Internal.Path)
	assert.Equal(t, filepath.Join("/var/lib/ptrack", "user"), config.Storage.User.Path)
	assert.Equal(t, "test-key", config.Clients.Gemini.APIKey)
}

func TestPortfolioGeminiKeyWinsOverBare(t *testing.T) {
	t.Setenv("PORTFOLIO_GEMINI_API_KEY", "scoped-key")
	t.Setenv("GEMINI_API_KEY", "bare-key")

	config, err := LoadConfig()
	require.NoError(t, err)
	assert.Equal(t, "scoped-key", config.Clients.Gemini.APIKey)
}

func TestInvalidDurationFallsBack(t *testing.T) {
	config := NewDefaultConfig()
	config.Clients.Yahoo.Timeout = "bogus"
	config.Auth.TokenExpiry = "also-bogus"

	assert.Equal(t, 30*time.Second, config.Clients.Yahoo.GetTimeout())
	assert.Equal(t, 24*time.Hour, config.Auth.GetTokenExpiry())
}
