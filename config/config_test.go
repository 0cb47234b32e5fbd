package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "postgres", cfg.StoreDriver)
	assert.Equal(t, ":8080", cfg.HTTPAddr)
	assert.Equal(t, int64(500), cfg.Pricing.PlatformFeeBPS)
	assert.Equal(t, int64(1800), cfg.Pricing.TaxBPS)
	assert.Equal(t, 15*time.Minute, cfg.Auth.AccessTokenExpiry)
	assert.Equal(t, "localhost:6379", cfg.Redis.Addr())
	assert.True(t, cfg.Redis.Enabled)
	assert.Equal(t, []string{"*"}, cfg.CORSOrigins)
	assert.NotEmpty(t, cfg.Auth.AccessTokenSecret)
}

func TestLoad_FromEnv(t *testing.T) {
	t.Setenv("STORE_DRIVER", "memory")
	t.Setenv("DB_PORT", "6543")
	t.Setenv("TAX_BPS", "1200")
	t.Setenv("REFRESH_TOKEN_EXPIRY", "48h")
	t.Setenv("CORS_ORIGINS", "http://a.test, http://b.test")
	t.Setenv("PUBLIC_BASE_URL", "https://chefs.test/")
	t.Setenv("REDIS_ENABLED", "false")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "memory", cfg.StoreDriver)
	assert.Equal(t, 6543, cfg.Database.Port)
	assert.Equal(t, int64(1200), cfg.Pricing.TaxBPS)
	assert.Equal(t, 48*time.Hour, cfg.Auth.RefreshTokenExpiry)
	assert.Equal(t, []string{"http://a.test", "http://b.test"}, cfg.CORSOrigins)
	assert.Equal(t, "https://chefs.test", cfg.PublicBaseURL)
	assert.False(t, cfg.Redis.Enabled)
	assert.Contains(t, cfg.Database.DSN(), "port=6543")
}

func TestLoad_Invalid(t *testing.T) {
	tests := []struct {
		name string
		env  map[string]string
	}{
		{name: "unknown store", env: map[string]string{"STORE_DRIVER": "sqlite"}},
		{name: "unknown media", env: map[string]string{"MEDIA_DRIVER": "ftp"}},
		{name: "production without secrets", env: map[string]string{"APP_ENV": "production"}},
		{name: "negative tax", env: map[string]string{"TAX_BPS": "-1"}},
		{name: "fee above 100 percent", env: map[string]string{"PLATFORM_FEE_BPS": "10001"}},
	}

	for _, testCase := range tests {
		t.Run(testCase.name, func(t *testing.T) {
			for k, v := range testCase.env {
				t.Setenv(k, v)
			}
			_, err := Load()
			assert.Error(t, err)
		})
	}
}
