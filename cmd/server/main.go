package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"route-alternatives/internal/adapters/routing"
	"route-alternatives/internal/adapters/snapshot"
	"route-alternatives/internal/adapters/surface"
	"route-alternatives/internal/api"
	"route-alternatives/internal/config"
	"route-alternatives/internal/platform/db"
	"route-alternatives/internal/platform/logs"
	"route-alternatives/internal/ports"
	"route-alternatives/internal/widget"

	"github.com/paulmach/orb"
)

const (
	fitPadding = 40.0
	fitMaxZoom = 18.0
)

// main is the composition root: it picks a route source, mounts one widget
// on an in-memory surface and serves it over HTTP.
func main() {
	cfg, loadedDotenv, err := config.Load()
	if err != nil {
		slog.Error("load config", "err", err)
		os.Exit(1)
	}

	logger, err := logs.New(os.Stdout, cfg.LogLevel, cfg.LogPretty)
	if err != nil {
		slog.Error("init logger", "err", err)
		os.Exit(1)
	}
	slog.SetDefault(logger)

	if !loadedDotenv {
		logger.Info("no .env file found, using environment variables")
	}

	if err := run(cfg, logger); err != nil {
		logger.Error("server stopped", "err", err)
		os.Exit(1)
	}
}

func run(cfg *config.Config, logger *slog.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	provider, closeProvider, err := newProvider(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer closeProvider()

	mem, err := surface.NewMemorySurface(initialViewport(cfg), cfg.View.HitTolerance)
	if err != nil {
		return fmt.Errorf("run: %w", err)
	}

	// The loop outlives ctx so the widget can be unmounted during shutdown.
	loop := widget.NewLoop(64)
	go func() { _ = loop.Run(context.Background()) }()
	defer loop.Stop()

	w, err := widget.New(widget.Options{
		Origin:      cfg.Origin,
		Destination: cfg.Destination,
		Provider:    provider,
		Surface:     mem,
		Poster:      loop,
		Logger:      logger,
	})
	if err != nil {
		return fmt.Errorf("run: %w", err)
	}

	var mountErr error
	if err := loop.Do(ctx, func() { mountErr = w.Mount(ctx) }); err != nil {
		return fmt.Errorf("run: mount: %w", err)
	}
	if mountErr != nil {
		return fmt.Errorf("run: mount: %w", mountErr)
	}

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           api.NewRouter(loop, w, mem, logger),
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      15 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	serveErr := make(chan error, 1)
	go func() {
		logger.Info("server listening", "addr", srv.Addr, "source", cfg.RouteSource)
		serveErr <- srv.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		logger.Info("shutting down")
	case err := <-serveErr:
		if !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("run: serve: %w", err)
		}
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Warn("http shutdown", "err", err)
	}

	if err := loop.Do(shutdownCtx, w.Unmount); err != nil {
		logger.Warn("unmount widget", "err", err)
	}

	return nil
}

// newProvider selects the route source named by ROUTE_SOURCE.
func newProvider(ctx context.Context, cfg *config.Config, logger *slog.Logger) (ports.RouteProvider, func(), error) {
	noop := func() {}

	switch cfg.RouteSource {
	case config.SourceStatic:
		routes := routing.StaticRoutes(cfg.Origin, cfg.Destination)
		return routing.NewMockRouteProvider(routes), noop, nil

	case config.SourceSnapshot:
		conn, err := db.Open(ctx, cfg.DatabaseURL)
		if err != nil {
			return nil, noop, fmt.Errorf("new provider: %w", err)
		}
		p, err := snapshot.NewSnapshotRouteProvider(snapshot.NewSQLSnapshotStore(conn, logger))
		if err != nil {
			_ = conn.Close()
			return nil, noop, fmt.Errorf("new provider: %w", err)
		}
		return p, closer(conn, logger), nil

	default:
		p, err := routing.NewOSRMRouteProvider(
			routing.WithBaseURL(cfg.OSRMBaseURL),
			routing.WithProfile(cfg.OSRMProfile),
			routing.WithHTTPClient(&http.Client{Timeout: cfg.OSRMTimeout}),
			routing.WithLogger(logger),
		)
		if err != nil {
			return nil, noop, fmt.Errorf("new provider: %w", err)
		}
		return p, noop, nil
	}
}

func closer(conn *sql.DB, logger *slog.Logger) func() {
	return func() {
		if err := conn.Close(); err != nil {
			logger.Warn("close database", "err", err)
		}
	}
}

// initialViewport frames both endpoints. A zero VIEW_ZOOM fits them to the
// screen; any other value keeps that zoom centred between them.
func initialViewport(cfg *config.Config) surface.Viewport {
	b := orb.MultiPoint{
		cfg.Origin.Coordinates().Point(),
		cfg.Destination.Coordinates().Point(),
	}.Bound()

	width := float64(cfg.View.Width)
	height := float64(cfg.View.Height)

	fit := surface.FitViewport(b, width, height, fitPadding, fitMaxZoom)
	if cfg.View.Zoom == 0 {
		return fit
	}
	fit.Zoom = cfg.View.Zoom
	return fit
}
