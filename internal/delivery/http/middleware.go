package http

import (
	"net/http"
	"strings"

	"trade-journal/internal/auth"
	"trade-journal/internal/dto"
	"trade-journal/pkg/common"

	"github.com/labstack/echo/v4"
)

func sessionToken(c echo.Context) string {
	if header := c.Request().Header.Get(common.HEADER_AUTHORIZATION); strings.HasPrefix(header, common.BEARER_PREFIX) {
		return strings.TrimSpace(strings.TrimPrefix(header, common.BEARER_PREFIX))
	}
	if cookie, err := c.Cookie(common.COOKIE_SESSION); err == nil {
		return cookie.Value
	}
	return ""
}

// sessionMiddleware attaches the caller's identity to the request context
// when a valid session token is presented. It never rejects a request.
func (h *HttpAPIHandler) sessionMiddleware(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		token := sessionToken(c)
		if token == "" {
			return next(c)
		}
		if id, ok := h.service.Auth.Authenticate(token); ok {
			req := c.Request()
			c.SetRequest(req.WithContext(auth.NewContext(req.Context(), id)))
		}
		return next(c)
	}
}

func (h *HttpAPIHandler) requireAuth(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		if _, ok := h.service.Auth.CurrentUser(c.Request().Context()); !ok {
			return c.JSON(http.StatusUnauthorized, dto.NewErrorResponse(http.StatusUnauthorized, "you must be signed in"))
		}
		return next(c)
	}
}

func currentUser(c echo.Context) *auth.Identity {
	id, _ := auth.FromContext(c.Request().Context())
	return id
}
