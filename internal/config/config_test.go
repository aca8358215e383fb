package config

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestParseTTL(t *testing.T) {
	t.Parallel()

	t.Run("accepts day suffix", func(t *testing.T) {
		d, err := ParseTTL("7d")
		require.NoError(t, err)
		require.Equal(t, 168*time.Hour, d)
	})

	t.Run("accepts plain durations", func(t *testing.T) {
		d, err := ParseTTL("15m")
		require.NoError(t, err)
		require.Equal(t, 15*time.Minute, d)
	})

	t.Run("rejects fractional days", func(t *testing.T) {
		_, err := ParseTTL("1.5d")
		require.Error(t, err)
	})
}

func validTestConfig() *Config {
	return &Config{
		ServerPort:     "8080",
		RequestTimeout: 30 * time.Second,
		DatabaseURL:    "postgres://localhost:5432/projector",
		AccessSecret:   strings.Repeat("a", 32),
		RefreshSecret:  strings.Repeat("b", 32),
		AccessTTL:      15 * time.Minute,
		RefreshTTL:     168 * time.Hour,
	}
}

func TestConfigValidate(t *testing.T) {
	t.Parallel()

	t.Run("passes with distinct strong secrets", func(t *testing.T) {
		require.NoError(t, validTestConfig().Validate())
	})

	t.Run("rejects short secrets", func(t *testing.T) {
		cfg := validTestConfig()
		cfg.AccessSecret = "too-short"
		require.ErrorContains(t, cfg.Validate(), "at least 32 characters")
	})

	t.Run("rejects identical secrets", func(t *testing.T) {
		cfg := validTestConfig()
		cfg.RefreshSecret = cfg.AccessSecret
		require.ErrorContains(t, cfg.Validate(), "must differ")
	})

	t.Run("rejects placeholder secrets", func(t *testing.T) {
		cfg := validTestConfig()
		cfg.AccessSecret = "your-jwt-secret-here"
		require.Error(t, cfg.Validate())
	})

	t.Run("rejects missing database url", func(t *testing.T) {
		cfg := validTestConfig()
		cfg.DatabaseURL = ""
		require.ErrorContains(t, cfg.Validate(), "DATABASE_URL")
	})
}
