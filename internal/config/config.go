package config // package config loads application configuration from environment variables

import (
	"log"     // log is used to report configuration errors and halt execution
	"strings" // strings splits comma separated values
	"time"    // time is used for token lifetimes

	"github.com/joho/godotenv" // godotenv loads a local .env file when present
)

// Config holds all runtime configuration values.  Each field corresponds to
// an environment variable.  Secrets and identifiers stay strings; token
// lifetimes are durations so callers never convert units themselves.
type Config struct {
	Env              string        // application environment (e.g. "development", "production")
	Port             string        // HTTP port to listen on
	ServiceName      string        // logical service name attached to every log record
	DBPath           string        // path of the SQLite database file
	JWTSecret        string        // secret used to sign access tokens
	RefreshJWTSecret string        // secret used to sign refresh tokens (falls back to JWTSecret)
	AccessTTL        time.Duration // access token time-to-live
	RefreshTTL       time.Duration // refresh token time-to-live
	BcryptCost       int           // bcrypt cost for password hashing
	SwaggerUser      string        // docs login username (docs are open when empty)
	SwaggerPass      string        // docs login password
	CORSOrigins      []string      // origins allowed by the CORS middleware
}

// Load reads configuration values from the environment and returns a Config.
// A .env file in the working directory is loaded first when present.  Only
// JWT_SECRET is strictly required; everything else has a sensible default.
func Load() Config {
	_ = godotenv.Load() // missing .env is fine in production

	return Config{
		Env:              envStr("APP_ENV", "development"),
		Port:             envStr("APP_PORT", "3000"),
		ServiceName:      envStr("SERVICE_NAME", "i-revenue-api"),
		DBPath:           envStr("LOCAL_DB", "./data/revenue.db"),
		JWTSecret:        must("JWT_SECRET"),
		RefreshJWTSecret: envStr("REFRESH_JWT_SECRET", ""),
		AccessTTL:        time.Duration(envInt("ACCESS_TOKEN_TTL_SECONDS", 3600)) * time.Second,
		RefreshTTL:       time.Duration(envInt("REFRESH_TOKEN_TTL_SECONDS", 30*24*3600)) * time.Second,
		BcryptCost:       envInt("BCRYPT_COST", 10),
		SwaggerUser:      envStr("SWAGGER_USER", ""),
		SwaggerPass:      envStr("SWAGGER_PASS", ""),
		CORSOrigins:      splitCSV(envStr("CORS_ORIGINS", "http://localhost:5173")),
	}
}

// RefreshSecret returns the secret used to verify refresh tokens.  When no
// dedicated refresh secret is configured the access secret is reused, so a
// single-secret deployment keeps working.
func (c Config) RefreshSecret() string {
	if c.RefreshJWTSecret != "" {
		return c.RefreshJWTSecret
	}
	return c.JWTSecret
}

// must retrieves the value of a required environment variable.  If the
// variable is unset or empty, the application logs a fatal error and exits.
func must(key string) string {
	v := envStr(key, "")
	if v == "" {
		log.Fatalf("missing required env var: %s", key)
	}
	return v
}

func splitCSV(v string) []string {
	parts := strings.Split(v, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
