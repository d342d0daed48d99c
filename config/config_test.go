package config

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{
		"PORT", "DATABASE_URL", "LOG_LEVEL", "JWT_SECRET", "JWT_TTL",
		"CORS_ALLOWED_ORIGINS", "STRICT_FILTERS", "COOKIE_SECURE",
	} {
		t.Setenv(key, "")
	}
}

func TestFromEnv_Defaults(t *testing.T) {
	clearEnv(t)

	cfg, err := fromEnv(envDevelopment)

	require.NoError(t, err)
	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, defaultDBUrl, cfg.DBUrl)
	assert.Equal(t, 2*time.Hour, cfg.JWTTTL)
	assert.Equal(t, devJWTSecret, cfg.JWTSecret)
	assert.False(t, cfg.StrictFilters)
	assert.False(t, cfg.CookieSecure)
	assert.Empty(t, cfg.CORSAllowedOrigins)
}

func TestFromEnv_Overrides(t *testing.T) {
	clearEnv(t)
	t.Setenv("PORT", "9000")
	t.Setenv("JWT_SECRET", "s3cret")
	t.Setenv("JWT_TTL", "15m")
	t.Setenv("STRICT_FILTERS", "true")
	t.Setenv("COOKIE_SECURE", "false")
	t.Setenv("CORS_ALLOWED_ORIGINS", "https://a.example/, https://b.example ,")

	cfg, err := fromEnv(envProduction)

	require.NoError(t, err)
	assert.Equal(t, "9000", cfg.Port)
	assert.Equal(t, "s3cret", cfg.JWTSecret)
	assert.Equal(t, 15*time.Minute, cfg.JWTTTL)
	assert.True(t, cfg.StrictFilters)
	assert.False(t, cfg.CookieSecure)
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.CORSAllowedOrigins)
}

func TestFromEnv_Errors(t *testing.T) {
	tests := []struct {
		name string
		env  string
		set  map[string]string
	}{
		{name: "production without secret", env: envProduction},
		{name: "bad ttl", env: envDevelopment, set: map[string]string{"JWT_TTL": "soon"}},
		{name: "negative ttl", env: envDevelopment, set: map[string]string{"JWT_TTL": "-1h"}},
		{name: "bad strict flag", env: envDevelopment, set: map[string]string{"STRICT_FILTERS": "maybe"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			clearEnv(t)
			for k, v := range tt.set {
				t.Setenv(k, v)
			}
			_, err := fromEnv(tt.env)
			assert.Error(t, err)
		})
	}
}

func TestFromEnv_ProductionSecureCookieDefault(t *testing.T) {
	clearEnv(t)
	t.Setenv("JWT_SECRET", "x")

	cfg, err := fromEnv(envProduction)

	require.NoError(t, err)
	assert.True(t, cfg.CookieSecure)
	assert.True(t, cfg.IsProduction())
}

func TestNewLogger(t *testing.T) {
	t.Run("production writes json", func(t *testing.T) {
		var buf bytes.Buffer
		logger := newLogger(&buf, &Config{Environment: envProduction, LogLevel: "warn"})

		logger.Info("dropped")
		logger.Warn("kept", "k", "v")

		var line map[string]any
		require.NoError(t, json.Unmarshal(buf.Bytes(), &line))
		assert.Equal(t, "kept", line["msg"])
		assert.Equal(t, "v", line["k"])
	})
	t.Run("development writes text", func(t *testing.T) {
		var buf bytes.Buffer
		logger := newLogger(&buf, &Config{Environment: envDevelopment, LogLevel: "DEBUG"})

		assert.True(t, logger.Enabled(context.Background(), slog.LevelDebug))
		logger.Debug("hello")
		assert.Contains(t, buf.String(), "msg=hello")
	})
}
