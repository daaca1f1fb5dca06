package http

import (
	"errors"
	"net/http"

	"trade-journal/config"
	"trade-journal/internal/auth"
	"trade-journal/internal/dto"
	"trade-journal/internal/repository"
	"trade-journal/internal/service"
	"trade-journal/pkg/logger"
	"trade-journal/pkg/middleware"

	goValidator "github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type HttpAPIHandler struct {
	echo      *echo.Echo
	validator *goValidator.Validate
	service   *service.Service
	cfg       *config.Config
	log       *logger.Logger
	gatherer  prometheus.Gatherer
}

func NewHttpAPIHandler(
	echo *echo.Echo,
	validator *goValidator.Validate,
	service *service.Service,
	cfg *config.Config,
	log *logger.Logger,
	gatherer prometheus.Gatherer,
) *HttpAPIHandler {
	if gatherer == nil {
		gatherer = prometheus.DefaultGatherer
	}
	return &HttpAPIHandler{
		echo:      echo,
		validator: validator,
		service:   service,
		cfg:       cfg,
		log:       log,
		gatherer:  gatherer,
	}
}

func (h *HttpAPIHandler) SetupRoutes() {
	h.echo.Use(h.sessionMiddleware)

	h.echo.GET("/healthz", h.healthz)
	h.echo.GET("/metrics", echo.WrapHandler(promhttp.HandlerFor(h.gatherer, promhttp.HandlerOpts{})))
	h.echo.GET("/dashboard", h.dashboardRedirect)
	if h.cfg.Auth.LoginPath != "" {
		h.echo.GET(h.cfg.Auth.LoginPath, h.loginPage)
	}

	base := h.echo.Group("/api")
	h.SetupAuth(base)
	h.SetupTrades(base)
	h.SetupDashboard(base)
	h.SetupPublic(base)
}

func (h *HttpAPIHandler) healthz(c echo.Context) error {
	return c.JSON(http.StatusOK, dto.NewSuccessResponse("ok", nil))
}

func (h *HttpAPIHandler) authRateLimiter() echo.MiddlewareFunc {
	return middleware.NewRateLimiterMiddleware(
		h.cfg.API.AuthRatePerSecond,
		h.cfg.API.AuthRateBurst,
		h.cfg.API.AuthRateExpiresIn,
	)
}

// respondError maps domain errors onto HTTP status codes. Anything unknown is
// logged and reported as a 500 without leaking its message.
func (h *HttpAPIHandler) respondError(c echo.Context, err error) error {
	var verr *auth.ValidationError
	code := http.StatusInternalServerError
	switch {
	case errors.As(err, &verr):
		code = http.StatusBadRequest
	case errors.Is(err, service.ErrInvalidDraft):
		code = http.StatusBadRequest
	case errors.Is(err, auth.ErrInvalidCredentials), errors.Is(err, service.ErrUnauthenticated):
		code = http.StatusUnauthorized
	case errors.Is(err, repository.ErrTradeNotFound):
		code = http.StatusNotFound
	case errors.Is(err, auth.ErrEmailTaken):
		code = http.StatusConflict
	case errors.Is(err, auth.ErrTooManyAttempts):
		code = http.StatusTooManyRequests
	}

	if code == http.StatusInternalServerError {
		h.log.FromContext(c.Request().Context()).ErrorContext(c.Request().Context(), "Request failed", logger.ErrorField(err))
		return c.JSON(code, dto.NewErrorResponse(code, "internal server error"))
	}
	return c.JSON(code, dto.NewErrorResponse(code, err.Error()))
}
