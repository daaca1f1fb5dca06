package middleware

import (
	"time"

	"trade-journal/pkg/logger"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/oklog/ulid/v2"
	"go.uber.org/zap"
)

// NewRequestID tags every request with a ULID, reusing an inbound X-Request-ID.
func NewRequestID() echo.MiddlewareFunc {
	return middleware.RequestIDWithConfig(middleware.RequestIDConfig{
		Generator: func() string {
			return ulid.Make().String()
		},
	})
}

// NewRequestLogger puts a request-scoped child logger into the request context
// and logs one line per completed request. It must run after NewRequestID.
func NewRequestLogger(log *logger.Logger) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			start := time.Now()
			req := c.Request()
			reqID := c.Response().Header().Get(echo.HeaderXRequestID)

			reqLog := log.With(logger.StringField("request_id", reqID))
			c.SetRequest(req.WithContext(logger.NewContext(req.Context(), reqLog)))

			if err := next(c); err != nil {
				c.Error(err)
			}

			status := c.Response().Status
			fields := []zap.Field{
				logger.StringField("method", req.Method),
				logger.StringField("uri", req.RequestURI),
				logger.IntField("status", status),
				zap.Duration("latency", time.Since(start)),
			}
			if status >= 500 {
				reqLog.Error("HTTP request", fields...)
			} else {
				reqLog.Info("HTTP request", fields...)
			}
			return nil
		}
	}
}
