package cmd

import (
	"context"
	"errors"
	"fmt"
	httpNet "net/http"

	"trade-journal/internal/delivery/http"
	"trade-journal/pkg/middleware"

	echoMiddleware "github.com/labstack/echo/v4/middleware"
	"go.uber.org/zap"
)

type HTTPServer struct {
	appDep  *AppDependency
	handler *http.HttpAPIHandler
}

func NewHTTPServer(appDep *AppDependency, handler *http.HttpAPIHandler) *HTTPServer {
	return &HTTPServer{
		appDep:  appDep,
		handler: handler,
	}
}

// Start blocks until the server stops. A graceful shutdown is not an error.
func (s *HTTPServer) Start() error {
	s.appDep.log.Info("Starting HTTP server", zap.Int("port", s.appDep.cfg.API.Port))
	address := fmt.Sprintf(":%d", s.appDep.cfg.API.Port)

	s.SetupRoutes()

	if err := s.appDep.echo.Start(address); err != nil && !errors.Is(err, httpNet.ErrServerClosed) {
		return err
	}
	return nil
}

func (s *HTTPServer) Stop() error {
	s.appDep.log.Info("Shutting down HTTP server")

	ctx, cancel := context.WithTimeout(context.Background(), s.appDep.cfg.API.ShutdownTimeout)
	defer cancel()

	if err := s.appDep.echo.Shutdown(ctx); err != nil {
		s.appDep.log.Error("Error when stopping HTTP server", zap.Error(err))
		return err
	}
	s.appDep.log.Info("HTTP server stopped successfully")
	return nil
}

func (s *HTTPServer) SetupRoutes() {
	e := s.appDep.echo
	e.Use(
		echoMiddleware.Recover(),
		middleware.NewRequestID(),
		middleware.NewRequestLogger(s.appDep.log),
		middleware.NewMetrics(s.appDep.metrics),
	)
	s.handler.SetupRoutes()
}
