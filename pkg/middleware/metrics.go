package middleware

import (
	"strconv"
	"time"

	"trade-journal/pkg/metrics"

	"github.com/labstack/echo/v4"
)

// NewMetrics records request counts and latency by matched route.
func NewMetrics(m *metrics.Metrics) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			start := time.Now()
			err := next(c)
			if err != nil {
				c.Error(err)
			}

			route := c.Path()
			if route == "" {
				route = "unmatched"
			}
			method := c.Request().Method
			m.HTTPRequestsTotal.WithLabelValues(method, route, strconv.Itoa(c.Response().Status)).Inc()
			m.HTTPRequestDuration.WithLabelValues(method, route).Observe(time.Since(start).Seconds())
			return nil
		}
	}
}
