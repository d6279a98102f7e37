package ports

import (
	"context"
	"route-alternatives/internal/domain"
)

// Contract for retrieving alternative routes between two endpoints.
type RouteProvider interface {
	// Return alternatives in the engine's order (best first by convention).
	// An empty slice with a nil error means no route was found.
	Alternatives(ctx context.Context, origin, destination domain.Endpoint) ([]domain.RouteCandidate, error)
}
