package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestLoad(t *testing.T) {
	t.Run("loads all config from env", func(t *testing.T) {
		t.Setenv("DATABASE_URL", "postgres://localhost/test")
		t.Setenv("HTTP_ADDR", ":9090")
		t.Setenv("LOG_LEVEL", "debug")

		cfg, err := Load()
		require.NoError(t, err)
		require.Equal(t, "postgres://localhost/test", cfg.DatabaseURL)
		require.Equal(t, ":9090", cfg.HTTPAddr)
		require.Equal(t, "debug", cfg.LogLevel)
	})

	t.Run("defaults HTTP addr", func(t *testing.T) {
		t.Setenv("DATABASE_URL", "postgres://localhost/test")
		t.Setenv("HTTP_ADDR", "")

		cfg, err := Load()
		require.NoError(t, err)
		require.Equal(t, ":8080", cfg.HTTPAddr)
	})

	t.Run("seeding defaults to enabled", func(t *testing.T) {
		t.Setenv("DATABASE_URL", "postgres://localhost/test")
		t.Setenv("SEED_SAMPLE_DATA", "")

		cfg, err := Load()
		require.NoError(t, err)
		require.True(t, cfg.SeedSampleData)
	})

	t.Run("seeding can be disabled", func(t *testing.T) {
		t.Setenv("DATABASE_URL", "postgres://localhost/test")
		t.Setenv("SEED_SAMPLE_DATA", "false")

		cfg, err := Load()
		require.NoError(t, err)
		require.False(t, cfg.SeedSampleData)
	})

	t.Run("parses shutdown timeout seconds", func(t *testing.T) {
		t.Setenv("DATABASE_URL", "postgres://localhost/test")
		t.Setenv("SHUTDOWN_TIMEOUT", "30")

		cfg, err := Load()
		require.NoError(t, err)
		require.Equal(t, 30*time.Second, cfg.ShutdownTimeout)
	})

	t.Run("uses default for invalid shutdown timeout", func(t *testing.T) {
		t.Setenv("DATABASE_URL", "postgres://localhost/test")
		t.Setenv("SHUTDOWN_TIMEOUT", "invalid")

		cfg, err := Load()
		require.NoError(t, err)
		require.Equal(t, 10*time.Second, cfg.ShutdownTimeout)
	})

	t.Run("enables JSON logging", func(t *testing.T) {
		t.Setenv("DATABASE_URL", "postgres://localhost/test")
		t.Setenv("LOG_JSON", "true")

		cfg, err := Load()
		require.NoError(t, err)
		require.True(t, cfg.LogJSON)
	})

	t.Run("fails without database URL", func(t *testing.T) {
		t.Setenv("DATABASE_URL", "")

		_, err := Load()
		require.Error(t, err)
		require.Contains(t, err.Error(), "DATABASE_URL is required")
	})
}
