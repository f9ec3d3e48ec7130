package config_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/brightfolio/media-service/internal/config"
)

func TestLoadDefaults(t *testing.T) {
	cfg := config.Load()

	require.Equal(t, "8080", cfg.Port)
	require.Equal(t, "media", cfg.StorageBucket)
	require.Equal(t, 3600, cfg.PresignExpirySeconds)
	require.False(t, cfg.IsProduction())
}

func TestLoadFromEnvironment(t *testing.T) {
	t.Setenv("PORT", "9090")
	t.Setenv("APP_ENV", "production")
	t.Setenv("ASSET_BASE_URL", "https://assets.brightfolio.com")
	t.Setenv("PRESIGN_EXPIRY_SECONDS", "600")

	cfg := config.Load()

	require.Equal(t, "9090", cfg.Port)
	require.True(t, cfg.IsProduction())
	require.Equal(t, "https://assets.brightfolio.com", cfg.AssetBaseURL)
	require.Equal(t, 600, cfg.PresignExpirySeconds)
}

func TestLoadBadIntFallsBack(t *testing.T) {
	t.Setenv("PRESIGN_EXPIRY_SECONDS", "an hour")

	cfg := config.Load()
	require.Equal(t, 3600, cfg.PresignExpirySeconds)
}
