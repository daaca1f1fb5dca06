package middleware

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"golang.org/x/time/rate"
)

// Response represents the error response structure
type Response struct {
	Status  int    `json:"status"`
	Message string `json:"message"`
}

// NewRateLimiterMiddleware limits requests per client IP.
func NewRateLimiterMiddleware(perSecond float64, burst int, expiresIn time.Duration) echo.MiddlewareFunc {
	config := middleware.RateLimiterConfig{
		Skipper: middleware.DefaultSkipper,
		Store: middleware.NewRateLimiterMemoryStoreWithConfig(
			middleware.RateLimiterMemoryStoreConfig{
				Rate:      rate.Limit(perSecond),
				Burst:     burst,
				ExpiresIn: expiresIn,
			},
		),

		IdentifierExtractor: func(ctx echo.Context) (string, error) {
			id := ctx.RealIP()
			return id, nil
		},

		ErrorHandler: func(context echo.Context, err error) error {
			return context.JSON(http.StatusForbidden, Response{
				Status:  http.StatusForbidden,
				Message: "Access forbidden: Rate limiter error occurred",
			})
		},

		DenyHandler: func(context echo.Context, identifier string, err error) error {
			return context.JSON(http.StatusTooManyRequests, Response{
				Status:  http.StatusTooManyRequests,
				Message: "Too many requests: Rate limit exceeded. Please try again later",
			})
		},
	}

	return middleware.RateLimiterWithConfig(config)
}
