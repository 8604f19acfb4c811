package cmd

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"logistics/internal/pkg/errs"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const (
	StoreBackendPostgres = "postgres"
	StoreBackendMemory   = "memory"
)

type Config struct {
	AppEnv   string
	HTTPPort string

	StoreBackend string
	DBHost       string
	DBPort       string
	DBUser       string
	DBPassword   string
	DBName       string
	DBSslMode    string

	RedisAddr       string
	RedisPassword   string
	RedisDB         int
	GeocodeCacheTTL time.Duration

	AmapBaseURL string
	AmapKey     string
	AmapTimeout time.Duration
	AmapQPS     float64

	RouteFallbackToSynthetic bool
	RoutePlanningTimeout     time.Duration
	GeocodeMaxRetries        int
	GeocodeBaseDelay         time.Duration

	RefdataFile string

	StationProgressEnabled  bool
	StationProgressSchedule string
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("APP_ENV", "development")
	v.SetDefault("HTTP_PORT", "8080")
	v.SetDefault("STORE_BACKEND", StoreBackendPostgres)
	v.SetDefault("DB_HOST", "localhost")
	v.SetDefault("DB_PORT", "5432")
	v.SetDefault("DB_USER", "postgres")
	v.SetDefault("DB_NAME", "logistics")
	v.SetDefault("DB_SSLMODE", "disable")
	v.SetDefault("REDIS_DB", 0)
	v.SetDefault("GEOCODE_CACHE_TTL", "168h")
	v.SetDefault("AMAP_BASE_URL", "https://restapi.amap.com")
	v.SetDefault("AMAP_TIMEOUT", "5s")
	v.SetDefault("AMAP_QPS", 3)
	v.SetDefault("ROUTE_FALLBACK_TO_SYNTHETIC", true)
	v.SetDefault("ROUTE_PLANNING_TIMEOUT", "15s")
	v.SetDefault("GEOCODE_MAX_RETRIES", 3)
	v.SetDefault("GEOCODE_BASE_DELAY", "500ms")
	v.SetDefault("STATION_PROGRESS_ENABLED", false)
	v.SetDefault("STATION_PROGRESS_SCHEDULE", "*/30 * * * * *")
}

// LoadConfig reads the process environment, after loading a .env file from the
// working directory when one exists.
func LoadConfig() (Config, error) {
	// Variables already set in the environment win over the file.
	_ = godotenv.Load(".env")

	v := viper.New()
	v.AutomaticEnv()
	return configFrom(v)
}

func configFrom(v *viper.Viper) (Config, error) {
	setDefaults(v)

	cfg := Config{
		AppEnv:   v.GetString("APP_ENV"),
		HTTPPort: v.GetString("HTTP_PORT"),

		StoreBackend: strings.ToLower(strings.TrimSpace(v.GetString("STORE_BACKEND"))),
		DBHost:       v.GetString("DB_HOST"),
		DBPort:       v.GetString("DB_PORT"),
		DBUser:       v.GetString("DB_USER"),
		DBPassword:   v.GetString("DB_PASSWORD"),
		DBName:       v.GetString("DB_NAME"),
		DBSslMode:    v.GetString("DB_SSLMODE"),

		RedisAddr:       v.GetString("REDIS_ADDR"),
		RedisPassword:   v.GetString("REDIS_PASSWORD"),
		RedisDB:         v.GetInt("REDIS_DB"),
		GeocodeCacheTTL: v.GetDuration("GEOCODE_CACHE_TTL"),

		AmapBaseURL: v.GetString("AMAP_BASE_URL"),
		AmapKey:     v.GetString("AMAP_KEY"),
		AmapTimeout: v.GetDuration("AMAP_TIMEOUT"),
		AmapQPS:     v.GetFloat64("AMAP_QPS"),

		RouteFallbackToSynthetic: v.GetBool("ROUTE_FALLBACK_TO_SYNTHETIC"),
		RoutePlanningTimeout:     v.GetDuration("ROUTE_PLANNING_TIMEOUT"),
		GeocodeMaxRetries:        v.GetInt("GEOCODE_MAX_RETRIES"),
		GeocodeBaseDelay:         v.GetDuration("GEOCODE_BASE_DELAY"),

		RefdataFile: v.GetString("REFDATA_FILE"),

		StationProgressEnabled:  v.GetBool("STATION_PROGRESS_ENABLED"),
		StationProgressSchedule: v.GetString("STATION_PROGRESS_SCHEDULE"),
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks the settings that cannot fall back to a default.
func (c Config) Validate() error {
	var errList []error

	if c.StoreBackend != StoreBackendPostgres && c.StoreBackend != StoreBackendMemory {
		errList = append(errList, errs.NewValueIsInvalidErrorWithCause("STORE_BACKEND",
			fmt.Errorf("%q is neither %s nor %s", c.StoreBackend, StoreBackendPostgres, StoreBackendMemory)))
	}
	if strings.TrimSpace(c.HTTPPort) == "" {
		errList = append(errList, errs.NewValueIsRequiredError("HTTP_PORT"))
	}
	if c.GeocodeMaxRetries < 0 {
		errList = append(errList, errs.NewValueIsOutOfRangeError("GEOCODE_MAX_RETRIES", c.GeocodeMaxRetries, 0, "unbounded"))
	}
	if c.AmapQPS < 0 {
		errList = append(errList, errs.NewValueIsOutOfRangeError("AMAP_QPS", c.AmapQPS, 0, "unbounded"))
	}

	return errors.Join(errList...)
}

// DSN builds the PostgreSQL connection string.
func (c Config) DSN() string {
	return fmt.Sprintf(
		"host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		c.DBHost, c.DBPort, c.DBUser, c.DBPassword, c.DBName, c.DBSslMode,
	)
}
