package routing

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"route-alternatives/internal/domain"
	"route-alternatives/internal/platform/obs"

	"github.com/paulmach/orb"
)

const (
	DefaultBaseURL = "https://router.project-osrm.org"
	DefaultProfile = "driving"
)

// OSRMRouteProvider implements RouteProvider using the OSRM route service.
//
// One call issues exactly one request; there is no retry and no caching.
// The provider is safe for concurrent use.
type OSRMRouteProvider struct {
	session   *http.Client
	baseURL   string
	profile   string
	userAgent string
	logger    *slog.Logger
}

type Option func(*OSRMRouteProvider)

func WithBaseURL(u string) Option {
	return func(o *OSRMRouteProvider) { o.baseURL = strings.TrimRight(u, "/") }
}

func WithProfile(p string) Option {
	return func(o *OSRMRouteProvider) { o.profile = p }
}

func WithHTTPClient(c *http.Client) Option {
	return func(o *OSRMRouteProvider) { o.session = c }
}

func WithUserAgent(ua string) Option {
	return func(o *OSRMRouteProvider) { o.userAgent = ua }
}

func WithLogger(l *slog.Logger) Option {
	return func(o *OSRMRouteProvider) { o.logger = l }
}

func NewOSRMRouteProvider(opts ...Option) (*OSRMRouteProvider, error) {
	provider := &OSRMRouteProvider{
		session: &http.Client{Timeout: 10 * time.Second},
		baseURL: DefaultBaseURL,
		profile: DefaultProfile,
		logger:  slog.Default(),
	}
	for _, opt := range opts {
		opt(provider)
	}

	if provider.baseURL == "" {
		return nil, errors.New("OSRM base url is empty")
	}
	if _, err := url.Parse(provider.baseURL); err != nil {
		return nil, fmt.Errorf("OSRM base url: %w", err)
	}
	if strings.TrimSpace(provider.profile) == "" {
		return nil, errors.New("OSRM profile is empty")
	}
	if provider.session == nil {
		return nil, errors.New("OSRM http client is nil")
	}

	return provider, nil
}

type routeResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Routes  []struct {
		Geometry struct {
			Coordinates [][]float64 `json:"coordinates"`
		} `json:"geometry"`
		Duration float64 `json:"duration"`
		Distance float64 `json:"distance"`
	} `json:"routes"`
}

// RouteURL builds the route service URL requesting full GeoJSON geometry and alternatives.
func (o *OSRMRouteProvider) RouteURL(origin, destination domain.Endpoint) string {
	path := origin.Coordinates().PathSegment() + ";" + destination.Coordinates().PathSegment()

	q := url.Values{}
	q.Set("overview", "full")
	q.Set("geometries", "geojson")
	q.Set("alternatives", "true")

	return fmt.Sprintf("%s/route/v1/%s/%s?%s", o.baseURL, o.profile, path, q.Encode())
}

// Alternatives fetches alternative routes between origin and destination.
// A response without routes yields an empty slice and a nil error.
// Routes that fail validation are dropped, so candidate indices follow the
// engine order of the remaining routes.
func (o *OSRMRouteProvider) Alternatives(
	ctx context.Context,
	origin domain.Endpoint,
	destination domain.Endpoint,
) (_ []domain.RouteCandidate, err error) {
	defer obs.Time(ctx, o.logger, "osrm.Alternatives")(&err)

	req, err := o.newRequest(ctx, http.MethodGet, o.RouteURL(origin, destination))
	if err != nil {
		return nil, fmt.Errorf("osrm alternatives: %w", err)
	}

	resp, err := o.do(req)
	if err != nil {
		return nil, fmt.Errorf("osrm alternatives: execute request: %w", err)
	}
	defer resp.Body.Close()

	var decoded routeResponse
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		return nil, fmt.Errorf("osrm alternatives: decode response (status %d): %w", resp.StatusCode, err)
	}

	if len(decoded.Routes) == 0 {
		o.logger.DebugContext(ctx, "osrm returned no routes",
			"mount_id", obs.MountID(ctx),
			"status", resp.StatusCode,
			"code", decoded.Code,
			"message", decoded.Message,
		)
		return []domain.RouteCandidate{}, nil
	}

	out := make([]domain.RouteCandidate, 0, len(decoded.Routes))
	for i, r := range decoded.Routes {
		line := make(orb.LineString, 0, len(r.Geometry.Coordinates))
		for j, c := range r.Geometry.Coordinates {
			if len(c) != 2 {
				return nil, fmt.Errorf("osrm alternatives: route %d coordinate %d: invalid coordinate format", i, j)
			}
			line = append(line, orb.Point{c[0], c[1]})
		}

		candidate := domain.RouteCandidate{
			Coordinates:     line,
			DurationSeconds: r.Duration,
			DistanceMeters:  r.Distance,
		}
		if err := candidate.Validate(); err != nil {
			o.logger.WarnContext(ctx, "skipping unusable osrm route",
				"mount_id", obs.MountID(ctx),
				"route", i,
				"err", err,
			)
			continue
		}
		out = append(out, candidate)
	}

	// Routes came back but none can be drawn: that is a broken response, not "no route".
	if len(out) == 0 {
		return nil, fmt.Errorf("osrm alternatives: none of %d routes is usable", len(decoded.Routes))
	}

	return out, nil
}
