package cmd

import (
	"testing"
	"time"

	"logistics/internal/pkg/errs"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfig(t *testing.T) {
	t.Run("should apply defaults", func(t *testing.T) {
		cfg, err := configFrom(viper.New())

		require.NoError(t, err)
		assert.Equal(t, "8080", cfg.HTTPPort)
		assert.Equal(t, StoreBackendPostgres, cfg.StoreBackend)
		assert.True(t, cfg.RouteFallbackToSynthetic)
		assert.Equal(t, 15*time.Second, cfg.RoutePlanningTimeout)
		assert.Equal(t, 500*time.Millisecond, cfg.GeocodeBaseDelay)
		assert.Equal(t, 7*24*time.Hour, cfg.GeocodeCacheTTL)
		assert.False(t, cfg.StationProgressEnabled)
		assert.Equal(t, "*/30 * * * * *", cfg.StationProgressSchedule)
		assert.Empty(t, cfg.RedisAddr)
	})

	t.Run("should read the environment", func(t *testing.T) {
		t.Setenv("HTTP_PORT", "9090")
		t.Setenv("STORE_BACKEND", "Memory")
		t.Setenv("ROUTE_FALLBACK_TO_SYNTHETIC", "false")
		t.Setenv("AMAP_QPS", "2.5")
		t.Setenv("AMAP_TIMEOUT", "2s")
		t.Setenv("REDIS_ADDR", "localhost:6379")
		t.Setenv("REDIS_DB", "3")
		t.Setenv("STATION_PROGRESS_ENABLED", "true")

		cfg, err := LoadConfig()

		require.NoError(t, err)
		assert.Equal(t, "9090", cfg.HTTPPort)
		assert.Equal(t, StoreBackendMemory, cfg.StoreBackend)
		assert.False(t, cfg.RouteFallbackToSynthetic)
		assert.InDelta(t, 2.5, cfg.AmapQPS, 1e-9)
		assert.Equal(t, 2*time.Second, cfg.AmapTimeout)
		assert.Equal(t, "localhost:6379", cfg.RedisAddr)
		assert.Equal(t, 3, cfg.RedisDB)
		assert.True(t, cfg.StationProgressEnabled)
	})

	t.Run("should reject an unknown store backend", func(t *testing.T) {
		v := viper.New()
		v.Set("STORE_BACKEND", "mongo")

		_, err := configFrom(v)

		require.ErrorIs(t, err, errs.ErrValueIsInvalid)
		assert.Contains(t, err.Error(), "STORE_BACKEND")
	})

	t.Run("should reject negative retries", func(t *testing.T) {
		v := viper.New()
		v.Set("GEOCODE_MAX_RETRIES", -1)

		_, err := configFrom(v)

		require.ErrorIs(t, err, errs.ErrValueIsOutOfRange)
	})
}

func TestConfig_DSN(t *testing.T) {
	cfg := Config{
		DBHost:     "db",
		DBPort:     "5432",
		DBUser:     "app",
		DBPassword: "secret",
		DBName:     "logistics",
		DBSslMode:  "disable",
	}

	assert.Equal(t, "host=db port=5432 user=app password=secret dbname=logistics sslmode=disable", cfg.DSN())
}
