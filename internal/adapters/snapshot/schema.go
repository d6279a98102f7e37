package snapshot

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
)

// InitSchema creates the snapshot tables if they do not exist.
func InitSchema(ctx context.Context, db *sql.DB) error {
	if db == nil {
		return errors.New("init schema: DB is nil")
	}

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("init schema: begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	createSnapshotsQuery := `
	CREATE TABLE IF NOT EXISTS route_snapshots (
		origin TEXT NOT NULL,
		destination TEXT NOT NULL,
		route_index INTEGER NOT NULL,
		duration_seconds DOUBLE PRECISION NOT NULL,
		distance_meters DOUBLE PRECISION NOT NULL,
		geometry JSONB NOT NULL,
		recorded_at TIMESTAMPTZ NOT NULL DEFAULT now(),
		PRIMARY KEY (origin, destination, route_index)
	);
	`

	createIndexQuery := `
	CREATE INDEX IF NOT EXISTS idx_route_snapshots_recorded_at
	ON route_snapshots(recorded_at);
	`

	statements := []string{
		createSnapshotsQuery,
		createIndexQuery,
	}

	for i, stmt := range statements {
		if _, err := tx.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("init schema: exec statement #%d: %w", i+1, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("init schema: commit tx: %w", err)
	}

	return nil
}
