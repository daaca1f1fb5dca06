package http

import (
	"net/http"
	"time"

	"trade-journal/internal/auth"
	"trade-journal/internal/dto"
	"trade-journal/pkg/common"

	"github.com/labstack/echo/v4"
)

func (h *HttpAPIHandler) SetupAuth(base *echo.Group) {
	v1 := base.Group("/v1/auth")
	{
		v1.POST("/signup", h.signUp, h.authRateLimiter())
		v1.POST("/login", h.login, h.authRateLimiter())
		v1.POST("/logout", h.logout, h.requireAuth)
		v1.GET("/me", h.me, h.requireAuth)
	}
}

func (h *HttpAPIHandler) signUp(c echo.Context) error {
	req := new(dto.CredentialsRequest)
	if err := c.Bind(req); err != nil {
		return c.JSON(http.StatusBadRequest, dto.NewBadRequestResponse("invalid request body"))
	}

	session, err := h.service.Auth.SignUp(c.Request().Context(), req.Email, req.Password)
	if err != nil {
		return h.respondError(c, err)
	}
	setSessionCookie(c, session)
	return c.JSON(http.StatusCreated, dto.NewBaseResponse(http.StatusCreated, "signed up", session))
}

func (h *HttpAPIHandler) login(c echo.Context) error {
	req := new(dto.CredentialsRequest)
	if err := c.Bind(req); err != nil {
		return c.JSON(http.StatusBadRequest, dto.NewBadRequestResponse("invalid request body"))
	}

	session, err := h.service.Auth.SignIn(c.Request().Context(), req.Email, req.Password)
	if err != nil {
		return h.respondError(c, err)
	}
	setSessionCookie(c, session)
	return c.JSON(http.StatusOK, dto.NewSuccessResponse("signed in", session))
}

func (h *HttpAPIHandler) logout(c echo.Context) error {
	if err := h.service.Auth.SignOut(c.Request().Context(), sessionToken(c)); err != nil {
		return h.respondError(c, err)
	}
	c.SetCookie(&http.Cookie{
		Name:     common.COOKIE_SESSION,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
	return c.JSON(http.StatusOK, dto.NewSuccessResponse("signed out", nil))
}

func (h *HttpAPIHandler) me(c echo.Context) error {
	return c.JSON(http.StatusOK, dto.NewSuccessResponse("ok", currentUser(c)))
}

func setSessionCookie(c echo.Context, session *auth.Session) {
	c.SetCookie(&http.Cookie{
		Name:     common.COOKIE_SESSION,
		Value:    session.Token,
		Path:     "/",
		Expires:  session.ExpiresAt,
		MaxAge:   int(time.Until(session.ExpiresAt).Seconds()),
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
}
