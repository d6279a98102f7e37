package main

import (
	"context"
	"database/sql"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"strings"

	"route-alternatives/internal/adapters/routing"
	"route-alternatives/internal/adapters/snapshot"
	"route-alternatives/internal/config"
	"route-alternatives/internal/platform/db"
	"route-alternatives/internal/platform/logs"
)

// dbtool prepares the snapshot schema and records engine results for the
// configured origin and destination.
//
//	dbtool [-init] [-record]
func main() {
	initSchema := flag.Bool("init", true, "create the snapshot schema")
	record := flag.Bool("record", false, "fetch alternatives from OSRM and store them")
	flag.Parse()

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
	if !loadedDotenv {
		logger.Info("no .env file found, using environment variables")
	}

	if strings.TrimSpace(cfg.DatabaseURL) == "" {
		logger.Error("DATABASE_URL is required")
		os.Exit(1)
	}

	ctx := context.Background()

	conn, err := db.Open(ctx, cfg.DatabaseURL)
	if err != nil {
		logger.Error("open database", "err", err)
		os.Exit(1)
	}
	defer conn.Close()

	if err := runTool(ctx, conn, cfg, logger, *initSchema, *record); err != nil {
		logger.Error("dbtool failed", "err", err)
		conn.Close()
		os.Exit(1)
	}
}

func runTool(ctx context.Context, conn *sql.DB, cfg *config.Config, logger *slog.Logger, initSchema, record bool) error {
	if !initSchema && !record {
		return errors.New("nothing to do: pass -init and/or -record")
	}

	if initSchema {
		logger.Info("initializing snapshot schema")
		if err := snapshot.InitSchema(ctx, conn); err != nil {
			return err
		}
		logger.Info("schema ready")
	}

	if !record {
		return nil
	}

	provider, err := routing.NewOSRMRouteProvider(
		routing.WithBaseURL(cfg.OSRMBaseURL),
		routing.WithProfile(cfg.OSRMProfile),
		routing.WithHTTPClient(&http.Client{Timeout: cfg.OSRMTimeout}),
		routing.WithLogger(logger),
	)
	if err != nil {
		return fmt.Errorf("record: %w", err)
	}

	n, err := snapshot.Record(ctx, provider, snapshot.NewSQLSnapshotStore(conn, logger), cfg.Origin, cfg.Destination)
	if err != nil {
		return err
	}

	logger.Info("snapshot recorded",
		"origin", cfg.Origin.Name,
		"destination", cfg.Destination.Name,
		"routes", n,
	)
	return nil
}
