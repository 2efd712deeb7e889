// internal/config/config.go
//
// Environment-driven configuration.
// A local .env file is loaded first (development convenience); real
// environment variables always win because godotenv never overrides them.

package config

import (
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

// Config holds every setting the server reads at startup.
type Config struct {
	Port           string
	LogLevel       string
	DBPath         string
	JWTSecret      string
	JWTExpiresDays int
	CookieName     string
	ClientOrigin   string
	DailySalt      string
	DailyDigits    int
	Production     bool // NODE_ENV=production: Secure + SameSite=None cookies
}

// Load reads .env (if present) and the process environment.
func Load() Config {
	_ = godotenv.Load()
	return FromEnv()
}

// FromEnv reads the process environment only.
func FromEnv() Config {
	return Config{
		Port:           getEnv("PORT", "5175"),
		LogLevel:       getEnv("LOG_LEVEL", "info"),
		DBPath:         getEnv("DB_PATH", "./data/tsf.db"),
		JWTSecret:      getEnv("JWT_SECRET", "dev_secret_change_me"),
		JWTExpiresDays: envInt("JWT_EXPIRES_DAYS", 14),
		CookieName:     getEnv("COOKIE_NAME", "tsf_token"),
		ClientOrigin:   getEnv("CLIENT_ORIGIN", "http://localhost:5173"),
		DailySalt:      getEnv("DAILY_SALT", "local_dev_salt"),
		DailyDigits:    envInt("DAILY_DIGITS", 4),
		Production:     os.Getenv("NODE_ENV") == "production",
	}
}

// getEnv returns the value of k or def if unset/empty.
func getEnv(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}

// envInt parses k as an int, falling back to def when unset or malformed.
func envInt(k string, def int) int {
	if v := os.Getenv(k); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return def
}
