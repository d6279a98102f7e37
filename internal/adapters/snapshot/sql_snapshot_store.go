package snapshot

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"

	"route-alternatives/internal/domain"
	"route-alternatives/internal/platform/obs"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"
)

var ErrNotFound = errors.New("snapshot not found")

// SQLSnapshotStore keeps recorded routing engine results in Postgres.
// Rows are keyed by the "lon,lat" form of each endpoint.
type SQLSnapshotStore struct {
	DB     *sql.DB
	Logger *slog.Logger
}

func NewSQLSnapshotStore(db *sql.DB, logger *slog.Logger) *SQLSnapshotStore {
	return &SQLSnapshotStore{DB: db, Logger: logger}
}

func pairKey(origin, destination domain.Endpoint) (string, string) {
	return origin.Coordinates().PathSegment(), destination.Coordinates().PathSegment()
}

// Put replaces the snapshot for the endpoint pair.
func (s *SQLSnapshotStore) Put(
	ctx context.Context,
	origin domain.Endpoint,
	destination domain.Endpoint,
	routes []domain.RouteCandidate,
) (err error) {
	defer obs.Time(ctx, s.Logger, "snapshot.Put")(&err)

	if s.DB == nil {
		return errors.New("snapshot store: db is nil")
	}

	o, d := pairKey(origin, destination)

	encoded := make([][]byte, 0, len(routes))
	for i, r := range routes {
		if err := r.Validate(); err != nil {
			return fmt.Errorf("put snapshot: route %d: %w", i, err)
		}
		g, err := encodeGeometry(r.Coordinates)
		if err != nil {
			return fmt.Errorf("put snapshot: route %d: %w", i, err)
		}
		encoded = append(encoded, g)
	}

	tx, err := s.DB.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("put snapshot: db begin: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx, `
	DELETE FROM route_snapshots
	WHERE origin = $1 AND destination = $2;
	`, o, d); err != nil {
		return fmt.Errorf("put snapshot: clear previous: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx, `
	INSERT INTO route_snapshots (origin, destination, route_index, duration_seconds, distance_meters, geometry)
	VALUES ($1, $2, $3, $4, $5, $6);
	`)
	if err != nil {
		return fmt.Errorf("put snapshot: db prepare: %w", err)
	}
	defer stmt.Close()

	for i, r := range routes {
		if _, err := stmt.ExecContext(ctx, o, d, i, r.DurationSeconds, r.DistanceMeters, encoded[i]); err != nil {
			return fmt.Errorf("put snapshot route_index=%d: %w", i, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("put snapshot commit: %w", err)
	}

	return nil
}

// Get returns the recorded routes in their original order, or ErrNotFound.
func (s *SQLSnapshotStore) Get(
	ctx context.Context,
	origin domain.Endpoint,
	destination domain.Endpoint,
) (_ []domain.RouteCandidate, err error) {
	defer obs.Time(ctx, s.Logger, "snapshot.Get")(&err)

	if s.DB == nil {
		return nil, errors.New("snapshot store: db is nil")
	}

	o, d := pairKey(origin, destination)

	rows, err := s.DB.QueryContext(ctx, `
	SELECT duration_seconds, distance_meters, geometry
	FROM route_snapshots
	WHERE origin = $1 AND destination = $2
	ORDER BY route_index;
	`, o, d)
	if err != nil {
		return nil, fmt.Errorf("get snapshot: query route_snapshots table: %w", err)
	}
	defer rows.Close()

	out := make([]domain.RouteCandidate, 0, 4)
	for rows.Next() {
		var duration, distance float64
		var raw []byte
		if err := rows.Scan(&duration, &distance, &raw); err != nil {
			return nil, fmt.Errorf("get snapshot: scan rows: %w", err)
		}

		line, err := decodeGeometry(raw)
		if err != nil {
			return nil, fmt.Errorf("get snapshot: row %d: %w", len(out), err)
		}

		out = append(out, domain.RouteCandidate{
			Coordinates:     line,
			DurationSeconds: duration,
			DistanceMeters:  distance,
		})
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("get snapshot: row iteration: %w", err)
	}

	if len(out) == 0 {
		return nil, fmt.Errorf("get snapshot %q -> %q: %w", o, d, ErrNotFound)
	}

	return out, nil
}

func encodeGeometry(line orb.LineString) ([]byte, error) {
	b, err := geojson.NewGeometry(line).MarshalJSON()
	if err != nil {
		return nil, fmt.Errorf("encode geometry: %w", err)
	}
	return b, nil
}

func decodeGeometry(raw []byte) (orb.LineString, error) {
	g, err := geojson.UnmarshalGeometry(raw)
	if err != nil {
		return nil, fmt.Errorf("decode geometry: %w", err)
	}

	line, ok := g.Geometry().(orb.LineString)
	if !ok {
		return nil, fmt.Errorf("decode geometry: expected LineString, got %s", g.Geometry().GeoJSONType())
	}
	return line, nil
}
