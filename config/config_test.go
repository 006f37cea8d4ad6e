package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadMissingAPIKey(t *testing.T) {
	t.Setenv("GNEWS_API_KEY", "")

	cfg, err := Load()
	assert.Nil(t, cfg)
	assert.ErrorIs(t, err, ErrMissingAPIKey)
}

func TestLoadDefaults(t *testing.T) {
	t.Setenv("GNEWS_API_KEY", "secret")
	t.Setenv("PORT", "")
	t.Setenv("APP_ENV", "")
	t.Setenv("FLASK_ENV", "")
	t.Setenv("GNEWS_BASE_URL", "")
	t.Setenv("ALLOWED_ORIGINS", "")
	t.Setenv("NATS_URL", "")
	t.Setenv("RATE_LIMIT_RPS", "")
	t.Setenv("FROM_DATE_UTC", "")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "secret", cfg.GNewsAPIKey)
	assert.Equal(t, DefaultBaseURL, cfg.GNewsBaseURL)
	assert.Equal(t, 5000, cfg.Port)
	assert.False(t, cfg.Debug)
	assert.Equal(t, []string{"*"}, cfg.AllowedOrigins)
	assert.Empty(t, cfg.NATSUrl)
	assert.Zero(t, cfg.RateLimitRPS)
	assert.False(t, cfg.FromDateUTC)
	assert.Equal(t, UpstreamTimeout, cfg.UpstreamTimeout)
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("GNEWS_API_KEY", "secret")
	t.Setenv("PORT", "8081")
	t.Setenv("APP_ENV", "")
	t.Setenv("FLASK_ENV", "development")
	t.Setenv("GNEWS_BASE_URL", "http://localhost:9999/api/v4/")
	t.Setenv("ALLOWED_ORIGINS", "http://a.test, http://b.test")
	t.Setenv("RATE_LIMIT_RPS", "2.5")
	t.Setenv("RATE_LIMIT_BURST", "4")
	t.Setenv("FROM_DATE_UTC", "true")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 8081, cfg.Port)
	assert.True(t, cfg.Debug)
	assert.Equal(t, "http://localhost:9999/api/v4", cfg.GNewsBaseURL)
	assert.Equal(t, []string{"http://a.test", "http://b.test"}, cfg.AllowedOrigins)
	assert.Equal(t, 2.5, cfg.RateLimitRPS)
	assert.Equal(t, 4, cfg.RateLimitBurst)
	assert.True(t, cfg.FromDateUTC)
}

func TestLoadIgnoresBadNumbers(t *testing.T) {
	t.Setenv("GNEWS_API_KEY", "secret")
	t.Setenv("PORT", "not-a-port")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, 5000, cfg.Port)
}
