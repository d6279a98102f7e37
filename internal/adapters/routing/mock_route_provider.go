package routing

import (
	"context"
	"slices"

	"route-alternatives/internal/domain"
)

// MockRouteProvider returns a fixed set of routes, or a fixed error.
type MockRouteProvider struct {
	Routes []domain.RouteCandidate
	Err    error

	Calls int
}

func NewMockRouteProvider(routes []domain.RouteCandidate) *MockRouteProvider {
	return &MockRouteProvider{Routes: routes}
}

func (p *MockRouteProvider) Alternatives(ctx context.Context, origin, destination domain.Endpoint) ([]domain.RouteCandidate, error) {
	p.Calls++
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if p.Err != nil {
		return nil, p.Err
	}
	return slices.Clone(p.Routes), nil
}
