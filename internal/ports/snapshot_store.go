package ports

import (
	"context"
	"route-alternatives/internal/domain"
)

// Port: recorded routing engine results keyed by endpoint pair.
type SnapshotStore interface {
	Put(ctx context.Context, origin, destination domain.Endpoint, routes []domain.RouteCandidate) error
	Get(ctx context.Context, origin, destination domain.Endpoint) ([]domain.RouteCandidate, error)
}
