package config

import (
	"errors"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const (
	EnvDevelopment = "development"
	EnvProduction  = "production"
)

type Config struct {
	Env       string
	Port      int
	APIPrefix string

	Database  DatabaseConfig
	Redis     RedisConfig
	JWT       JWTConfig
	CORS      CORSConfig
	Log       LogConfig
	Dashboard DashboardConfig
	Reports   ReportsConfig
}

type DatabaseConfig struct {
	Host         string
	Port         int
	User         string
	Password     string
	Name         string
	SSLMode      string
	MaxOpenConns int
	MaxIdleConns int
}

type RedisConfig struct {
	Host     string
	Port     int
	Password string
	DB       int
}

type JWTConfig struct {
	Secret            string
	Expiration        time.Duration
	RefreshExpiration time.Duration
	Issuer            string
}

type CORSConfig struct {
	AllowedOrigins []string
}

type LogConfig struct {
	Level  string
	Format string
}

// DashboardConfig governs dashboard exposure and cache tuning.
type DashboardConfig struct {
	Enabled  bool
	CacheTTL time.Duration
}

// ReportsConfig toggles the report generation endpoints.
type ReportsConfig struct {
	Enabled bool
}

// Load reads configuration from the environment, with a .env file as an
// optional local override. Every key has a development-safe default.
func Load() (*Config, error) {
	_ = godotenv.Load()

	v := viper.New()
	v.SetConfigFile(".env")
	v.SetConfigType("env")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, err
		}
	}

	return &Config{
		Env:       v.GetString("ENV"),
		Port:      v.GetInt("PORT"),
		APIPrefix: v.GetString("API_PREFIX"),
		Database: DatabaseConfig{
			Host:         v.GetString("DB_HOST"),
			Port:         v.GetInt("DB_PORT"),
			User:         v.GetString("DB_USER"),
			Password:     v.GetString("DB_PASSWORD"),
			Name:         v.GetString("DB_NAME"),
			SSLMode:      v.GetString("DB_SSL_MODE"),
			MaxOpenConns: v.GetInt("DB_MAX_OPEN_CONNS"),
			MaxIdleConns: v.GetInt("DB_MAX_IDLE_CONNS"),
		},
		Redis: RedisConfig{
			Host:     v.GetString("REDIS_HOST"),
			Port:     v.GetInt("REDIS_PORT"),
			Password: v.GetString("REDIS_PASSWORD"),
			DB:       v.GetInt("REDIS_DB"),
		},
		JWT: JWTConfig{
			Secret:            v.GetString("JWT_SECRET"),
			Expiration:        parseDuration(v.GetString("JWT_EXPIRATION"), 24*time.Hour),
			RefreshExpiration: parseDuration(v.GetString("REFRESH_TOKEN_EXPIRATION"), 7*24*time.Hour),
			Issuer:            v.GetString("JWT_ISSUER"),
		},
		CORS: CORSConfig{
			AllowedOrigins: splitAndTrim(v.GetString("ALLOWED_ORIGINS")),
		},
		Log: LogConfig{
			Level:  v.GetString("LOG_LEVEL"),
			Format: v.GetString("LOG_FORMAT"),
		},
		Dashboard: DashboardConfig{
			Enabled:  v.GetBool("ENABLE_DASHBOARD"),
			CacheTTL: parseDuration(v.GetString("DASHBOARD_CACHE_TTL"), 5*time.Minute),
		},
		Reports: ReportsConfig{
			Enabled: v.GetBool("ENABLE_REPORTS"),
		},
	}, nil
}

func setDefaults(v *viper.Viper) {
	defaults := map[string]interface{}{
		"ENV":        EnvDevelopment,
		"PORT":       8080,
		"API_PREFIX": "/api",

		"DB_HOST":           "localhost",
		"DB_PORT":           5432,
		"DB_USER":           "postgres",
		"DB_PASSWORD":       "postgres",
		"DB_NAME":           "fintrack",
		"DB_SSL_MODE":       "disable",
		"DB_MAX_OPEN_CONNS": 10,
		"DB_MAX_IDLE_CONNS": 5,

		"REDIS_HOST":     "localhost",
		"REDIS_PORT":     6379,
		"REDIS_PASSWORD": "",
		"REDIS_DB":       0,

		"JWT_SECRET":               "dev_secret",
		"JWT_EXPIRATION":           "24h",
		"REFRESH_TOKEN_EXPIRATION": "168h",
		"JWT_ISSUER":               "fintrack-api",

		"ALLOWED_ORIGINS": "",
		"LOG_LEVEL":       "info",
		"LOG_FORMAT":      "json",

		"ENABLE_DASHBOARD":    true,
		"DASHBOARD_CACHE_TTL": "5m",
		"ENABLE_REPORTS":      true,
	}
	for key, value := range defaults {
		v.SetDefault(key, value)
	}
}

func parseDuration(raw string, fallback time.Duration) time.Duration {
	if d, err := time.ParseDuration(raw); err == nil && raw != "" {
		return d
	}
	return fallback
}

func splitAndTrim(raw string) []string {
	if raw == "" {
		return nil
	}

	parts := strings.Split(raw, ",")
	result := make([]string, 0, len(parts))
	for _, part := range parts {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			result = append(result, trimmed)
		}
	}
	return result
}
