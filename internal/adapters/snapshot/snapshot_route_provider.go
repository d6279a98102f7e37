package snapshot

import (
	"context"
	"errors"
	"fmt"

	"route-alternatives/internal/domain"
	"route-alternatives/internal/ports"
)

// SnapshotRouteProvider serves previously recorded engine results.
type SnapshotRouteProvider struct {
	store ports.SnapshotStore
}

func NewSnapshotRouteProvider(store ports.SnapshotStore) (*SnapshotRouteProvider, error) {
	if store == nil {
		return nil, errors.New("snapshot provider: store is nil")
	}
	return &SnapshotRouteProvider{store: store}, nil
}

func (p *SnapshotRouteProvider) Alternatives(
	ctx context.Context,
	origin domain.Endpoint,
	destination domain.Endpoint,
) ([]domain.RouteCandidate, error) {
	routes, err := p.store.Get(ctx, origin, destination)
	if err != nil {
		return nil, fmt.Errorf("snapshot alternatives %s -> %s: %w", origin.Name, destination.Name, err)
	}
	return routes, nil
}

// Record fetches alternatives from source and stores them for later replay.
// It returns the number of routes recorded.
func Record(
	ctx context.Context,
	source ports.RouteProvider,
	store ports.SnapshotStore,
	origin domain.Endpoint,
	destination domain.Endpoint,
) (int, error) {
	routes, err := source.Alternatives(ctx, origin, destination)
	if err != nil {
		return 0, fmt.Errorf("record snapshot: fetch: %w", err)
	}
	if len(routes) == 0 {
		return 0, fmt.Errorf("record snapshot: engine returned no routes for %s -> %s", origin.Name, destination.Name)
	}

	if err := store.Put(ctx, origin, destination, routes); err != nil {
		return 0, fmt.Errorf("record snapshot: %w", err)
	}

	return len(routes), nil
}
