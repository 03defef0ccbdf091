package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("APP_ENV", "production")
	t.Setenv("API_BASE", "https://orders.example.com/")
	t.Setenv("RESTAURANT_ID", "  r-1 ")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "https://orders.example.com", cfg.APIBase)
	assert.Equal(t, "r-1", cfg.RestaurantID)
	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, 15*time.Second, cfg.APITimeout)
	assert.Equal(t, 5*time.Minute, cfg.MenuCacheTTL)
	assert.Equal(t, 2*time.Hour, cfg.SessionIdleTimeout)
	assert.Equal(t, 5*time.Second, cfg.DashboardPollInterval)
	assert.False(t, cfg.AllowGeneratedItemIDs)
	assert.Equal(t, "./assets", cfg.AssetDir)
	assert.Equal(t, []string{"http://localhost:3000", "http://localhost:5173"}, cfg.CORSOrigins)
	assert.True(t, cfg.IsProduction())
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("APP_ENV", "production")
	t.Setenv("API_TIMEOUT", "3s")
	t.Setenv("ALLOW_GENERATED_ITEM_IDS", "true")
	t.Setenv("CORS_ORIGINS", "https://a.example.com,https://b.example.com")
	t.Setenv("R2_PUBLIC_BASE_URL", "https://cdn.example.com/")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 3*time.Second, cfg.APITimeout)
	assert.True(t, cfg.AllowGeneratedItemIDs)
	assert.Len(t, cfg.CORSOrigins, 2)
	assert.Equal(t, "https://cdn.example.com", cfg.AssetBaseURL)
}

func TestLoad_BadDuration(t *testing.T) {
	t.Setenv("APP_ENV", "production")
	t.Setenv("MENU_CACHE_TTL", "soon")

	_, err := Load()
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	cfg := &Config{APIBase: "http://127.0.0.1:8000"}
	assert.ErrorIs(t, cfg.ValidateServer(), ErrMissingSessionSecret)

	cfg.SessionSecret = "s"
	assert.NoError(t, cfg.ValidateServer())

	err := cfg.ValidateR2()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "R2_ENDPOINT")

	cfg.R2 = R2Config{
		Endpoint:      "https://r2.example.com",
		AccessKey:     "a",
		SecretKey:     "b",
		Bucket:        "assets",
		PublicBaseURL: "https://cdn.example.com",
	}
	assert.NoError(t, cfg.ValidateR2())
}
