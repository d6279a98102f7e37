package widget

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"route-alternatives/internal/domain"
	"route-alternatives/internal/platform/obs"
	"route-alternatives/internal/ports"

	"github.com/go-playground/validator/v10"
)

// Outcome classifies how the one fetch of a widget ended.
type Outcome int

const (
	OutcomePending Outcome = iota
	OutcomeRoutes
	OutcomeNoRoute
	OutcomeFailed
)

func (o Outcome) String() string {
	switch o {
	case OutcomePending:
		return "pending"
	case OutcomeRoutes:
		return "routes"
	case OutcomeNoRoute:
		return "no_route"
	case OutcomeFailed:
		return "failed"
	default:
		return fmt.Sprintf("outcome(%d)", int(o))
	}
}

// FetchResult is the single resolution of a fetch.
// Err is kept for diagnostics only; it never reaches the user.
type FetchResult struct {
	Candidates []domain.RouteCandidate
	Outcome    Outcome
	Err        error
}

// Fetcher requests alternatives between two fixed endpoints.
type Fetcher struct {
	provider    ports.RouteProvider
	origin      domain.Endpoint
	destination domain.Endpoint
	logger      *slog.Logger
}

func NewFetcher(provider ports.RouteProvider, origin, destination domain.Endpoint, logger *slog.Logger) (*Fetcher, error) {
	if provider == nil {
		return nil, errors.New("new fetcher: provider is nil")
	}

	v := validator.New()
	if err := v.Struct(origin); err != nil {
		return nil, fmt.Errorf("new fetcher: origin: %w", err)
	}
	if err := v.Struct(destination); err != nil {
		return nil, fmt.Errorf("new fetcher: destination: %w", err)
	}

	if logger == nil {
		logger = slog.Default()
	}

	return &Fetcher{
		provider:    provider,
		origin:      origin,
		destination: destination,
		logger:      logger,
	}, nil
}

// Fetch issues exactly one request. Failures are logged and degrade to an
// empty result; there is no retry.
func (f *Fetcher) Fetch(ctx context.Context) FetchResult {
	routes, err := f.provider.Alternatives(ctx, f.origin, f.destination)
	if err != nil {
		f.logger.ErrorContext(ctx, "failed to fetch routes",
			"mount_id", obs.MountID(ctx),
			"origin", f.origin.Name,
			"destination", f.destination.Name,
			"err", err,
		)
		return FetchResult{Outcome: OutcomeFailed, Err: err}
	}

	if len(routes) == 0 {
		f.logger.InfoContext(ctx, "no route found",
			"mount_id", obs.MountID(ctx),
			"origin", f.origin.Name,
			"destination", f.destination.Name,
		)
		return FetchResult{Outcome: OutcomeNoRoute}
	}

	return FetchResult{Candidates: routes, Outcome: OutcomeRoutes}
}
