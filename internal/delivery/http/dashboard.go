package http

import (
	"net/http"

	"trade-journal/internal/dto"

	"github.com/labstack/echo/v4"
)

func (h *HttpAPIHandler) SetupDashboard(base *echo.Group) {
	base.GET("/v1/dashboard", h.dashboard, h.requireAuth)
}

func (h *HttpAPIHandler) SetupPublic(base *echo.Group) {
	base.GET("/v1/public/summary", h.publicSummary)
}

func (h *HttpAPIHandler) dashboard(c echo.Context) error {
	result, err := h.service.JournalService.Dashboard(c.Request().Context(), currentUser(c))
	if err != nil {
		return h.respondError(c, err)
	}
	return c.JSON(http.StatusOK, dto.NewSuccessResponse("ok", result))
}

// dashboardRedirect sends signed-out visitors to the login page.
func (h *HttpAPIHandler) dashboardRedirect(c echo.Context) error {
	if _, ok := h.service.Auth.CurrentUser(c.Request().Context()); !ok {
		return c.Redirect(http.StatusSeeOther, h.cfg.Auth.LoginPath)
	}
	return c.Redirect(http.StatusSeeOther, "/api/v1/dashboard")
}

// loginPage is where signed-out visitors land; it names the endpoints that
// open a session.
func (h *HttpAPIHandler) loginPage(c echo.Context) error {
	return c.JSON(http.StatusOK, dto.NewSuccessResponse("sign in to continue", map[string]string{
		"login":  "POST /api/v1/auth/login",
		"signup": "POST /api/v1/auth/signup",
	}))
}

func (h *HttpAPIHandler) publicSummary(c echo.Context) error {
	result, err := h.service.JournalService.PublicSummary(c.Request().Context())
	if err != nil {
		return h.respondError(c, err)
	}
	return c.JSON(http.StatusOK, dto.NewSuccessResponse("ok", result))
}
