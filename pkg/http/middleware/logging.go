package middleware

import (
	"time"

	applogger "GoldPulse/pkg/logger"

	"github.com/labstack/echo/v4"
)

// RequestLogging logs one line per request; 5xx at error level, slow requests at warn.
func RequestLogging(l *applogger.Logger, slow time.Duration) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			start := time.Now()
			err := next(c)
			if err != nil {
				c.Error(err)
			}

			req := c.Request()
			status := c.Response().Status
			fields := []applogger.Field{
				applogger.String("method", req.Method),
				applogger.String("route", c.Path()),
				applogger.Int("status", status),
				applogger.Duration("duration_ms", time.Since(start)),
				applogger.String("remote", c.RealIP()),
			}
			switch {
			case status >= 500:
				l.Error("http request failed", fields...)
			case slow > 0 && time.Since(start) >= slow:
				l.Warn("http request slow", fields...)
			default:
				l.Debug("http request", fields...)
			}
			return nil
		}
	}
}
