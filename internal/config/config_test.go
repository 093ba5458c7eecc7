package config

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lox/twweather/internal/cwa"
	"github.com/lox/twweather/internal/forecast"
)

func setRequired(t *testing.T) {
	t.Setenv("LINE_CHANNEL_ACCESS_TOKEN", "token")
	t.Setenv("LINE_CHANNEL_SECRET", "secret")
	t.Setenv("CWA_API_KEY", "CWA-KEY")
}

func parse(t *testing.T, args ...string) (*Config, error) {
	t.Helper()
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".env"), nil, 0o600))
	wd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { _ = os.Chdir(wd) })
	var out bytes.Buffer
	return Parse(args, &out, func(int) {})
}

func TestParse_Defaults(t *testing.T) {
	setRequired(t)

	cfg, err := parse(t)
	require.NoError(t, err)

	assert.Equal(t, "token", cfg.ChannelAccessToken)
	assert.Equal(t, "secret", cfg.ChannelSecret)
	assert.Equal(t, "CWA-KEY", cfg.CWAAPIKey)
	assert.Equal(t, "10000", cfg.Port)
	assert.Equal(t, cwa.DefaultBaseURL, cfg.CWABaseURL)
	assert.Equal(t, 10*time.Second, cfg.CWATimeout)
	assert.Equal(t, uint64(2), cfg.CWARetries)
	assert.False(t, cfg.OpenRegions)
	assert.Equal(t, forecast.Week, cfg.ForecastHorizon())
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, "json", cfg.LogFormat)
}

func TestParse_EnvOverrides(t *testing.T) {
	setRequired(t)
	t.Setenv("PORT", "8080")
	t.Setenv("FORECAST_HORIZON", "short")
	t.Setenv("OPEN_REGIONS", "true")
	t.Setenv("CWA_TIMEOUT", "3s")

	cfg, err := parse(t)
	require.NoError(t, err)
	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, forecast.Short, cfg.ForecastHorizon())
	assert.True(t, cfg.OpenRegions)
	assert.Equal(t, 3*time.Second, cfg.CWATimeout)

	opts := cfg.CWAOptions(nil)
	assert.Equal(t, "CWA-KEY", opts.APIKey)
	assert.Equal(t, 3*time.Second, opts.Timeout)
}

func TestParse_FlagsOverrideEnv(t *testing.T) {
	setRequired(t)
	t.Setenv("PORT", "8080")

	cfg, err := parse(t, "--port=9090", "--log-format=text")
	require.NoError(t, err)
	assert.Equal(t, "9090", cfg.Port)
	assert.Equal(t, "text", cfg.LogFormat)
}

func TestParse_MissingRequired(t *testing.T) {
	t.Setenv("LINE_CHANNEL_ACCESS_TOKEN", "token")
	t.Setenv("LINE_CHANNEL_SECRET", "secret")
	t.Setenv("CWA_API_KEY", "")
	require.NoError(t, os.Unsetenv("CWA_API_KEY"))

	_, err := parse(t)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "cwa-api-key")
}

func TestParse_InvalidValues(t *testing.T) {
	tests := []struct {
		name string
		args []string
	}{
		{"bad horizon", []string{"--horizon=month"}},
		{"zero timeout", []string{"--cwa-timeout=0s"}},
		{"relative base url", []string{"--cwa-base-url=/datastore"}},
		{"bad log level", []string{"--log-level=loud"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			setRequired(t)
			_, err := parse(t, tt.args...)
			assert.Error(t, err)
		})
	}
}

func TestLogger(t *testing.T) {
	setRequired(t)
	cfg, err := parse(t, "--log-level=debug", "--log-format=text")
	require.NoError(t, err)

	var buf bytes.Buffer
	logger, err := cfg.Logger(&buf)
	require.NoError(t, err)
	logger.Debug("visible")
	assert.Contains(t, buf.String(), "visible")
}
