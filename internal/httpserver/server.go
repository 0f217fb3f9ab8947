package httpserver

import (
	"context"
	"errors"
	"net"
	"net/http"
	"time"
)

// DefaultShutdownTimeout bounds Run's graceful shutdown when no timeout is given.
const DefaultShutdownTimeout = 10 * time.Second

// Server wraps http.Server for the proxy. Only header reads are bounded:
// downloads stream for as long as the client keeps reading.
type Server struct {
	inner *http.Server
}

// New constructs a server listening on addr (host:port).
func New(addr string, handler http.Handler) *Server {
	return &Server{
		inner: &http.Server{
			Addr:              addr,
			Handler:           handler,
			ReadHeaderTimeout: 5 * time.Second,
			IdleTimeout:       2 * time.Minute,
		},
	}
}

// Serve begins serving HTTP traffic on an existing listener.
func (s *Server) Serve(l net.Listener) error {
	return s.inner.Serve(l)
}

// Shutdown gracefully terminates the HTTP server.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.inner.Shutdown(ctx)
}

// Run serves on l until ctx is cancelled or serving fails, then shuts down
// within timeout.
func (s *Server) Run(ctx context.Context, l net.Listener, timeout time.Duration) error {
	srvErr := make(chan error, 1)
	go func() {
		srvErr <- s.Serve(l)
	}()

	select {
	case <-ctx.Done():
	case err := <-srvErr:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	}

	if timeout <= 0 {
		timeout = DefaultShutdownTimeout
	}
	shutdownCtx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	return s.Shutdown(shutdownCtx)
}
