package middleware

import (
	"math"
	"net/http"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/felps-dev/i-revenue-api/internal/apperr"
	"github.com/felps-dev/i-revenue-api/internal/config"
)

// RateLimiter is a fixed-window request counter keyed by client IP.  It is
// owned by the server wiring and passed to the middleware explicitly, never
// a package-level singleton, so tests get isolated instances.  The soft cap
// is approximate: a burst racing the window roll-over may slip through, which
// is acceptable for an abuse guard.
type RateLimiter struct {
	mu      sync.Mutex
	window  time.Duration
	max     int
	buckets map[string]*bucket

	now func() time.Time // injectable clock for tests
}

type bucket struct {
	count   int
	resetAt time.Time
}

// NewRateLimiter builds a limiter from config.  The zero MaxRequests case is
// handled by Middleware, which becomes a no-op.
func NewRateLimiter(cfg config.RateLimitConfig) *RateLimiter {
	return &RateLimiter{
		window:  cfg.Window,
		max:     cfg.MaxRequests,
		buckets: make(map[string]*bucket),
		now:     time.Now,
	}
}

// Allow records one request for key and reports whether it is within the
// window's budget.  When rejected, retryAfter is the time left until the
// window resets.
func (rl *RateLimiter) Allow(key string) (allowed bool, retryAfter time.Duration) {
	now := rl.now()

	rl.mu.Lock()
	defer rl.mu.Unlock()

	b, ok := rl.buckets[key]
	if !ok || now.After(b.resetAt) {
		rl.buckets[key] = &bucket{count: 1, resetAt: now.Add(rl.window)}
		return true, 0
	}
	if b.count >= rl.max {
		return false, b.resetAt.Sub(now)
	}
	b.count++
	return true, 0
}

// Middleware returns the Echo middleware enforcing the limit.  Rejected
// requests get a 429 envelope and a Retry-After header in whole seconds.
func (rl *RateLimiter) Middleware() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		if rl.max <= 0 {
			return next
		}
		return func(c echo.Context) error {
			allowed, retryAfter := rl.Allow(ClientIP(c.Request()))
			if !allowed {
				secs := int(math.Ceil(retryAfter.Seconds()))
				if secs < 1 {
					secs = 1
				}
				return apperr.New(http.StatusTooManyRequests, apperr.CodeRateLimitExceeded,
					"Muitas requisições. Tente novamente em instantes.").
					WithHeader("Retry-After", strconv.Itoa(secs))
			}
			return next(c)
		}
	}
}

// ClientIP derives the limiter key from proxy headers: the first
// X-Forwarded-For entry, then X-Real-IP, then "unknown".  The raw remote
// address is deliberately not used; behind the expected reverse proxy it
// would collapse every client into one bucket.
func ClientIP(r *http.Request) string {
	if fwd := r.Header.Get("X-Forwarded-For"); fwd != "" {
		if first := strings.TrimSpace(strings.SplitN(fwd, ",", 2)[0]); first != "" {
			return first
		}
	}
	if ip := strings.TrimSpace(r.Header.Get("X-Real-IP")); ip != "" {
		return ip
	}
	return "unknown"
}
