package app

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"

	"github.com/tubefetch/server/internal/config"
	"github.com/tubefetch/server/internal/handlers"
	"github.com/tubefetch/server/internal/httpserver"
	"github.com/tubefetch/server/internal/logging"
	"github.com/tubefetch/server/internal/middleware"
)

// Version is stamped at build time with -ldflags "-X .../internal/app.Version=...".
var Version = "dev"

// Run bootstraps the tubefetch server. With no arguments it serves.
func Run(ctx context.Context, args []string) error {
	if len(args) == 0 {
		return serve(ctx)
	}

	switch args[0] {
	case "serve":
		return serve(ctx)
	case "version":
		return printVersion(os.Stdout)
	default:
		return fmt.Errorf("unknown command %q (expected serve or version)", args[0])
	}
}

func printVersion(w io.Writer) error {
	_, err := fmt.Fprintf(w, "tubefetch %s\n", Version)
	return err
}

func serve(ctx context.Context) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	logger, err := logging.New(os.Stdout, cfg.LogLevel, cfg.LogFormat)
	if err != nil {
		return err
	}
	slog.SetDefault(logger)

	deps, err := buildDependencies(cfg)
	if err != nil {
		return err
	}

	l, err := net.Listen("tcp", cfg.Address())
	if err != nil {
		return fmt.Errorf("listen on %s: %w", cfg.Address(), err)
	}

	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	srv := httpserver.New(cfg.Address(), newRouter(logger, cfg, deps))

	logger.Info("starting http server",
		"addr", l.Addr().String(),
		"extractor", cfg.Extractor,
		"version", Version,
	)

	if err := srv.Run(ctx, l, cfg.ShutdownTimeout); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	logger.Info("server stopped")
	return nil
}

func newRouter(logger *slog.Logger, cfg config.Config, deps handlers.Dependencies) http.Handler {
	r := chi.NewRouter()
	r.Use(chimiddleware.CleanPath)
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.RequestLogger(logger))
	r.Use(middleware.CORS(cfg.AllowedOrigins))

	handlers.RegisterRoutes(r, deps)
	return r
}
