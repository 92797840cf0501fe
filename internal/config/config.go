package config

import (
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config holds application level configuration loaded from environment variables.
type Config struct {
	AppEnv      string
	LogLevel    string
	ServerPort  string
	DBDriver    string
	DBDSN       string
	ResetDB     bool
	RedisAddr   string
	RedisDB     int
	RedisPass   string
	SwaggerHost string

	SessionSecret     string
	SessionCookieName string
	SessionTTL        time.Duration
	CookieDomain      string
	CookieSecure      bool

	BcryptCost        int
	ViewFlushInterval time.Duration
}

// Load builds Config from environment with sensible defaults.
// A .env file in the working directory is read first when present.
func Load() *Config {
	_ = godotenv.Load()

	return &Config{
		AppEnv:      getEnv("APP_ENV", "production"),
		LogLevel:    getEnv("LOG_LEVEL", "info"),
		ServerPort:  getEnv("SERVER_PORT", "8080"),
		DBDriver:    getEnv("DB_DRIVER", "mysql"),
		DBDSN:       getEnv("DB_DSN", "user:password@tcp(localhost:3306)/realestate?charset=utf8mb4&parseTime=True&loc=Local"),
		ResetDB:     getEnvBool("RESET_DB", false),
		RedisAddr:   getEnv("REDIS_ADDR", "localhost:6379"),
		RedisDB:     getEnvInt("REDIS_DB", 0),
		RedisPass:   os.Getenv("REDIS_PASSWORD"),
		SwaggerHost: os.Getenv("SWAGGER_HOST"),

		SessionSecret:     getEnv("SESSION_SECRET", "change-me"),
		SessionCookieName: getEnv("SESSION_COOKIE_NAME", "estate_session"),
		SessionTTL:        getEnvDuration("SESSION_TTL", 24*time.Hour),
		CookieDomain:      os.Getenv("COOKIE_DOMAIN"),
		CookieSecure:      getEnvBool("COOKIE_SECURE", false),

		BcryptCost:        getEnvInt("BCRYPT_COST", 10),
		ViewFlushInterval: getEnvDuration("VIEW_FLUSH_INTERVAL", time.Second),
	}
}

// IsDevelopment reports whether the service runs with developer defaults.
func (c *Config) IsDevelopment() bool {
	return c.AppEnv == "development"
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getEnvInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil {
			return parsed
		}
	}
	return def
}

func getEnvBool(key string, def bool) bool {
	if v := os.Getenv(key); v != "" {
		if parsed, err := strconv.ParseBool(v); err == nil {
			return parsed
		}
	}
	return def
}

func getEnvDuration(key string, def time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if parsed, err := time.ParseDuration(v); err == nil {
			return parsed
		}
	}
	return def
}
