package middleware

import (
	"log/slog"
	"time"

	"github.com/labstack/echo/v4"
)

// RequestLogger returns a middleware that emits one structured record when a
// request starts and one when it completes, with the attribute names the
// log pipeline already indexes.
func RequestLogger(logger *slog.Logger) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			req := c.Request()
			start := time.Now()
			requestID := req.Header.Get("X-Request-Id")

			logger.Info("request.started",
				slog.String("http.request.method", req.Method),
				slog.String("url.path", req.URL.Path),
				slog.String("http.request.header.x_request_id", requestID),
				slog.String("user_agent.original", req.UserAgent()),
			)

			err := next(c)
			if err != nil {
				// Run the error handler now so the completion record carries
				// the real status.  The handler is committed-safe, so the
				// returned error will not be written twice.
				c.Error(err)
			}

			logger.Info("request.completed",
				slog.String("http.request.method", req.Method),
				slog.String("url.path", req.URL.Path),
				slog.Int("http.response.status_code", c.Response().Status),
				slog.Float64("duration_ms", float64(time.Since(start).Microseconds())/1000.0),
				slog.String("http.request.header.x_request_id", requestID),
			)
			return err
		}
	}
}
