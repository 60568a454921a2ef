// Package app contains the JSON HTTP API.
package app

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/labstack/gommon/log"

	"github.com/stolasapp/inotebook/internal/config"
	"github.com/stolasapp/inotebook/internal/notebook"
	"github.com/stolasapp/inotebook/internal/observability"
	"github.com/stolasapp/inotebook/internal/sec"
)

// New creates the API server. The metrics middleware and endpoint are only
// installed when metrics is non-nil.
func New(
	cfg *config.Config,
	logger *slog.Logger,
	svc *notebook.Service,
	verifier sec.TokenVerifier,
	metrics *observability.Metrics,
) *echo.Echo {
	srv := echo.New()

	srv.HideBanner = true
	srv.HidePort = true
	srv.Logger.SetLevel(log.OFF)
	srv.Debug = cfg.DevMode
	srv.Validator = newValidator()
	srv.HTTPErrorHandler = errorHandler(logger)

	srv.Use(logRequests(logger))
	if metrics != nil {
		srv.Use(metrics.Middleware())
	}
	srv.Use(
		middleware.RequestIDWithConfig(middleware.RequestIDConfig{
			Generator: uuid.NewString,
		}),
		middleware.Recover(),
		middleware.BodyLimit("1M"),
	)
	if cfg.RequestTimeout > 0 {
		srv.Use(middleware.ContextTimeoutWithConfig(middleware.ContextTimeoutConfig{
			Timeout: cfg.RequestTimeout,
		}))
	}

	srv.GET("/", func(c echo.Context) error {
		return respond(c, http.StatusOK, "we are up", nil)
	})
	if metrics != nil {
		srv.GET(cfg.Metrics.Path, echo.WrapHandler(metrics.Handler()))
	}

	handler{svc: svc}.register(srv.Group("/api"), sec.RequireToken(verifier, logger))
	return srv
}

// logRequests logs every request once it has been handled. Errors are
// rendered here so that the logged status is the one sent to the client.
func logRequests(logger *slog.Logger) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			start := time.Now()
			err := next(c)
			latency := time.Since(start)

			if err != nil {
				c.Error(err)
			}

			req := c.Request()
			res := c.Response()

			attrs := []slog.Attr{
				slog.String("method", req.Method),
				slog.String("uri", req.RequestURI),
				slog.String("route", c.Path()),
				slog.String("request_id", res.Header().Get(echo.HeaderXRequestID)),
				slog.Duration("latency", latency),
				slog.Int("status", res.Status),
			}
			if err != nil {
				attrs = append(attrs, slog.Any("error", err))
			}
			logger.LogAttrs(
				req.Context(),
				slog.LevelDebug,
				"request handled",
				attrs...,
			)
			return err
		}
	}
}
