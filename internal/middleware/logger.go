package middleware

import (
	"time"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/movie-catalog/internal/logger"
)

// RequestLogger logs one line per request after the handler ran.
func RequestLogger() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			start := time.Now()
			err := next(c)
			if err != nil {
				// Let echo write the error response so the status is final.
				c.Error(err)
			}
			req := c.Request()
			logger.Info("HTTP request",
				"method", req.Method,
				"path", req.URL.Path,
				"status", c.Response().Status,
				"latency_ms", time.Since(start).Milliseconds(),
				"remote_ip", c.RealIP(),
				"user_id", UserID(c),
			)
			return nil
		}
	}
}
