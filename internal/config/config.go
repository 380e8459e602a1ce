package config // package config loads application configuration from environment variables

import (
    "log"     // log reports configuration errors and halts execution
    "os"      // os provides access to environment variables
    "strconv" // strconv converts strings to other types
    "time"    // time expresses token lifetimes as durations
)

// Config holds all runtime configuration values. Each field corresponds to
// an environment variable. Token lifetimes keep the units the variables are
// expressed in: access tokens are configured in seconds, refresh tokens in
// days and email tokens in minutes.
type Config struct {
    Env              string // application environment (e.g. "dev", "prod")
    Port             string // HTTP port to listen on
    DBUser           string // database username
    DBPass           string // database password (optional)
    DBHost           string // database host address
    DBPort           string // database port number
    DBName           string // database name
    JWTSecret        string // secret used to sign JWTs
    AccessTTLSec     int    // access token time‑to‑live in seconds
    RefreshTTLDays   int    // refresh token time‑to‑live in days
    EmailTokenTTLMin int    // email token validity window in minutes
    BcryptCost       int    // bcrypt cost for password hashing
}

// Load reads configuration values from environment variables and returns a
// Config. Required variables are enforced by must() and missing values
// cause the program to exit with a fatal log message. EMAIL_TOKEN_TTL_MIN
// is optional and defaults to 4 minutes, matching how long an activation or
// password-reset code stays usable.
func Load() Config {
    return Config{
        Env:              must("APP_ENV"),
        Port:             must("APP_PORT"),
        DBUser:           must("DB_USER"),
        DBPass:           os.Getenv("DB_PASS"), // empty allowed
        DBHost:           must("DB_HOST"),
        DBPort:           must("DB_PORT"),
        DBName:           must("DB_NAME"),
        JWTSecret:        must("JWT_SECRET"),
        AccessTTLSec:     mustInt("ACCESS_TOKEN_TTL_SEC"),
        RefreshTTLDays:   mustInt("REFRESH_TOKEN_TTL_DAYS"),
        EmailTokenTTLMin: envInt("EMAIL_TOKEN_TTL_MIN", 4),
        BcryptCost:       mustInt("BCRYPT_COST"),
    }
}

// AccessTTL returns the access token lifetime as a duration.
func (c Config) AccessTTL() time.Duration {
    return time.Duration(c.AccessTTLSec) * time.Second
}

// RefreshTTL returns the refresh token lifetime as a duration.
func (c Config) RefreshTTL() time.Duration {
    return time.Duration(c.RefreshTTLDays) * 24 * time.Hour
}

// EmailTokenTTL returns the email token validity window as a duration.
func (c Config) EmailTokenTTL() time.Duration {
    return time.Duration(c.EmailTokenTTLMin) * time.Minute
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

// mustInt is like must() but converts the retrieved string into an integer.
// If conversion fails, the application logs a fatal error and exits.
func mustInt(key string) int {
    s := must(key)
    n, err := strconv.Atoi(s)
    if err != nil {
        log.Fatalf("invalid int for %s: %q", key, s)
    }
    return n
}

// envInt reads an optional integer variable, falling back to a default when
// the variable is unset or not a number.
func envInt(key string, def int) int {
    v := os.Getenv(key)
    if v == "" {
        return def
    }
    if n, err := strconv.Atoi(v); err == nil {
        return n
    }
    return def
}
