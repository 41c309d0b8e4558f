package app

import (
	"os"
	"strconv"
	"time"

	"github.com/carnotes-app/carnotes/pkg/jwtx"
)

type Config struct {
	Issuer string // Issuer claim for tokens (default: carnotes)

	AccessSecret      string // HS256 secret for access tokens; generated when empty
	RefreshSecret     string // HS256 secret for refresh tokens; generated when empty
	FingerprintSecret string // HMAC key for refresh fingerprints; generated when empty

	AccessTTL  time.Duration // Access token lifetime (default: 5m)
	RefreshTTL time.Duration // Refresh token lifetime (default: 24h)

	DatabaseFile string // Path to SQLite database file (default: ./carnotes.db)
	PepperFile   string // Path to password pepper file (default: ./pepper)

	Env                  string        // Environment (dev, staging, prod) (default: dev)
	LogLevel             string        // Log level (debug, info, warn, error) (default: info)
	LogFormat            string        // Log format (json, text) (default: json)
	Port                 int           // HTTP server port (default: 8080)
	ShutdownGracePeriod  time.Duration // Graceful shutdown timeout (default: 10s)
	HousekeepingInterval time.Duration // Housekeeping interval (default: 1h)
}

func LoadConfig() Config {
	return Config{
		Issuer:            getEnvOrDefault("CARNOTES_ISSUER", "carnotes"),
		AccessSecret:      os.Getenv("CARNOTES_ACCESS_SECRET"),
		RefreshSecret:     os.Getenv("CARNOTES_REFRESH_SECRET"),
		FingerprintSecret: os.Getenv("CARNOTES_FINGERPRINT_SECRET"),

		AccessTTL:  getEnvDurationOrDefault("CARNOTES_ACCESS_TTL", jwtx.DefaultAccessTokenTTL),
		RefreshTTL: getEnvDurationOrDefault("CARNOTES_REFRESH_TTL", jwtx.DefaultRefreshTokenTTL),

		DatabaseFile: getEnvOrDefault("CARNOTES_DATABASE_FILE", "carnotes.db"),
		PepperFile:   getEnvOrDefault("CARNOTES_PEPPER_FILE", "pepper"),

		Env:                  getEnvOrDefault("ENV", "dev"),
		LogLevel:             getEnvOrDefault("LOG_LEVEL", "info"),
		LogFormat:            getEnvOrDefault("LOG_FORMAT", "json"),
		Port:                 getEnvIntOrDefault("PORT", 8080),
		ShutdownGracePeriod:  getEnvDurationOrDefault("SHUTDOWN_GRACE_PERIOD", 10*time.Second),
		HousekeepingInterval: getEnvDurationOrDefault("HOUSEKEEPING_INTERVAL", 1*time.Hour),
	}
}

// CookieSecure reports whether the refresh cookie should carry the Secure
// attribute. Local dev runs over plain http, everything else should not.
func (c Config) CookieSecure() bool {
	return c.Env != "dev"
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvIntOrDefault(key string, defaultValue int) int {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}

	if intValue, err := strconv.Atoi(value); err == nil {
		return intValue
	}

	return defaultValue
}

func getEnvDurationOrDefault(key string, defaultValue time.Duration) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}

	if duration, err := time.ParseDuration(value); err == nil {
		return duration
	}

	return defaultValue
}
