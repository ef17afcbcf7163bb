package config

import (
	"log/slog"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	AppEnv string

	// Database
	DBDriver   string // postgres or sqlite
	DBHost     string
	DBPort     string
	DBUser     string
	DBPassword string
	DBName     string
	DBSSLMode  string
	DBPath     string

	// JWT
	JWTSecret       string
	JWTAccessExpiry time.Duration

	// Logout blacklist is wiped once it grows past this many tokens
	TokenBlacklistLimit int

	// Server
	Port                   string
	CORSOrigins            string
	RateLimitPerMinute     int
	AuthRateLimitPerMinute int

	// Logging
	LogLevel         string
	LogDir           string
	LogRetentionDays int
	SentryDSN        string

	// Seed catalog (empty uses the embedded one)
	CatalogPath string
}

func Load() *Config {
	if err := godotenv.Load(); err != nil {
		slog.Debug("no .env file found, using environment variables")
	}

	return &Config{
		AppEnv: getEnv("APP_ENV", "development"),

		DBDriver:   getEnv("DB_DRIVER", "postgres"),
		DBHost:     getEnv("DB_HOST", "localhost"),
		DBPort:     getEnv("DB_PORT", "5432"),
		DBUser:     getEnv("DB_USER", "postgres"),
		DBPassword: getEnv("DB_PASSWORD", ""),
		DBName:     getEnv("DB_NAME", "trackrock"),
		DBSSLMode:  getEnv("DB_SSLMODE", "disable"),
		DBPath:     getEnv("DB_PATH", "./data/trackrock.db"),

		JWTSecret:       getEnv("JWT_SECRET", ""),
		JWTAccessExpiry: parseDuration(getEnv("JWT_ACCESS_EXPIRY", "15m")),

		TokenBlacklistLimit: getEnvInt("TOKEN_BLACKLIST_LIMIT", 10000),

		Port:                   getEnv("PORT", "5000"),
		CORSOrigins:            getEnv("CORS_ORIGINS", "*"),
		RateLimitPerMinute:     getEnvInt("RATE_LIMIT_PER_MINUTE", 120),
		AuthRateLimitPerMinute: getEnvInt("AUTH_RATE_LIMIT_PER_MINUTE", 10),

		LogLevel:         getEnv("LOG_LEVEL", "info"),
		LogDir:           getEnv("LOG_DIR", ""),
		LogRetentionDays: getEnvInt("LOG_RETENTION_DAYS", 30),
		SentryDSN:        getEnv("SENTRY_DSN", ""),

		CatalogPath: getEnv("CATALOG_PATH", ""),
	}
}

func (c *Config) DSN() string {
	return "host=" + c.DBHost +
		" user=" + c.DBUser +
		" password=" + c.DBPassword +
		" dbname=" + c.DBName +
		" port=" + c.DBPort +
		" sslmode=" + c.DBSSLMode
}

func (c *Config) IsProduction() bool {
	return c.AppEnv == "production"
}

// Validate reports the first missing setting the server cannot start without.
func (c *Config) Validate() error {
	if c.JWTSecret == "" {
		return errMissing("JWT_SECRET")
	}
	if c.DBDriver == "postgres" && c.DBPassword == "" && c.IsProduction() {
		return errMissing("DB_PASSWORD")
	}
	return nil
}

type missingError string

func (e missingError) Error() string {
	return string(e) + " environment variable is required"
}

func errMissing(key string) error { return missingError(key) }

func getEnv(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	val := os.Getenv(key)
	if val == "" {
		return fallback
	}
	n, err := strconv.Atoi(val)
	if err != nil {
		slog.Warn("config invalid int, using default", "key", key, "value", val, "default", fallback)
		return fallback
	}
	return n
}

func parseDuration(s string) time.Duration {
	d, err := time.ParseDuration(s)
	if err != nil {
		return 15 * time.Minute
	}
	return d
}
