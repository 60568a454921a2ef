// Package server provides HTTP server lifecycle utilities.
package server

import (
	"context"
	"errors"
	"log/slog"
	"net"
	"net/http"
	"time"

	"golang.org/x/sync/errgroup"
)

// Server timeouts. Read and write timeouts extend the per-request handler
// deadline by these margins so that a handler running up to its deadline can
// still receive its body and send its response.
const (
	ReadHeaderTimeout = 1 * time.Second
	ReadMargin        = 5 * time.Second
	WriteMargin       = 5 * time.Second
	IdleTimeout       = 60 * time.Second
	ShutdownTimeout   = 10 * time.Second
)

// Listen creates a TCP listener on the given address.
// Use "127.0.0.1:0" for a random available port.
func Listen(ctx context.Context, addr string) (net.Listener, error) {
	var lc net.ListenConfig
	return lc.Listen(ctx, "tcp", addr)
}

// Serve starts srv on listener within grp and shuts it down gracefully,
// waiting up to [ShutdownTimeout] for in-flight requests, once ctx is
// canceled. requestTimeout is the handler deadline enforced by the
// application; zero leaves read and write timeouts at their margins.
func Serve(
	ctx context.Context,
	grp *errgroup.Group,
	srv *http.Server,
	listener net.Listener,
	requestTimeout time.Duration,
	logger *slog.Logger,
) {
	srv.ReadHeaderTimeout = ReadHeaderTimeout
	srv.ReadTimeout = requestTimeout + ReadMargin
	srv.WriteTimeout = requestTimeout + WriteMargin
	srv.IdleTimeout = IdleTimeout
	srv.ErrorLog = slog.NewLogLogger(logger.Handler(), slog.LevelWarn)

	addr := listener.Addr().String()
	grp.Go(func() error {
		err := srv.Serve(listener)
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	})

	grp.Go(func() error {
		<-ctx.Done()
		logger.InfoContext(ctx, "shutting down server...", slog.String("address", addr))
		shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), ShutdownTimeout)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})
}
