package config // package config loads application configuration from environment variables

import (
	"log"     // log is used to report configuration errors and halt execution
	"os"      // os provides access to environment variables
	"strconv" // strconv converts strings to other types
	"time"
)

// Config holds all runtime configuration values. Each field corresponds to
// an environment variable. Secrets and the port are required; tuning knobs
// fall back to sensible defaults.
type Config struct {
	Env              string        // application environment (e.g. "dev", "prod")
	Port             string        // HTTP port to listen on
	AccessSecret     string        // secret used to sign access tokens
	RefreshSecret    string        // distinct secret used to sign refresh tokens
	AccessTTL        time.Duration // access token time-to-live
	RefreshTTL       time.Duration // refresh token time-to-live
	BcryptCost       int           // bcrypt cost for password hashing
	MaxLoginAttempts int           // failed logins before an account locks
	LockDuration     time.Duration // how long a locked account stays locked
	StorageDriver    string        // todo storage backend: "memory" or "sqlite"
	SQLitePath       string        // database file when StorageDriver is "sqlite"
}

// Load reads configuration from environment variables and returns a Config.
// Required variables are enforced by must() and missing values cause the
// program to exit with a fatal log message.
func Load() Config {
	return Config{
		Env:              must("APP_ENV"),
		Port:             must("APP_PORT"),
		AccessSecret:     must("JWT_SECRET"),
		RefreshSecret:    must("JWT_REFRESH_SECRET"),
		AccessTTL:        time.Duration(envInt("ACCESS_TOKEN_TTL_MIN", 15)) * time.Minute,
		RefreshTTL:       time.Duration(envInt("REFRESH_TOKEN_TTL_DAYS", 7)) * 24 * time.Hour,
		BcryptCost:       envInt("BCRYPT_COST", 12),
		MaxLoginAttempts: envInt("MAX_LOGIN_ATTEMPTS", 5),
		LockDuration:     time.Duration(envInt("LOCK_DURATION_MIN", 30)) * time.Minute,
		StorageDriver:    envStr("STORAGE_DRIVER", "memory"),
		SQLitePath:       envStr("SQLITE_PATH", "data/todos.db"),
	}
}

// must retrieves the value of a required environment variable. If the
// variable is unset or empty, the application logs a fatal error and exits.
func must(key string) string {
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		log.Fatalf("missing required env var: %s", key)
	}
	return v
}

func envStr(k, d string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return d
}

func envInt(k string, d int) int {
	v := os.Getenv(k)
	if v == "" {
		return d
	}
	if n, err := strconv.Atoi(v); err == nil {
		return n
	}
	return d
}
