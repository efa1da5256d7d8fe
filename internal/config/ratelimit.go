package config

import (
	"os"
	"strconv"
	"time"
)

// RateLimitConfig controls the fixed-window request limiter.  The window is
// configured in milliseconds (RATE_LIMIT_WINDOW_MS) to stay compatible with
// existing deployments; MaxRequests is the number of requests a single client
// IP may issue inside one window.
type RateLimitConfig struct {
	Window      time.Duration
	MaxRequests int
}

// Enabled reports whether the limiter should run at all.
func (c RateLimitConfig) Enabled() bool { return c.MaxRequests > 0 && c.Window > 0 }

// LoadRateLimitConfig reads the limiter settings from the environment,
// falling back to a 100 req / 60s window.
func LoadRateLimitConfig() RateLimitConfig {
	cfg := RateLimitConfig{
		Window:      time.Duration(envInt("RATE_LIMIT_WINDOW_MS", 60000)) * time.Millisecond,
		MaxRequests: envInt("RATE_LIMIT_MAX_REQUESTS", 100),
	}
	if cfg.Window <= 0 {
		cfg.Window = time.Minute
	}
	return cfg
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
