package routing

import (
	"route-alternatives/internal/domain"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geo"
)

// staticSpeedMps is the assumed average speed for synthetic routes (90 km/h).
const staticSpeedMps = 25.0

// StaticRoutes builds two synthetic alternatives between origin and destination:
// the direct segment and a detour bowed out by a tenth of the span.
// Used when no routing engine is reachable.
func StaticRoutes(origin, destination domain.Endpoint) []domain.RouteCandidate {
	a := origin.Coordinates().Point()
	b := destination.Coordinates().Point()

	mid := orb.Point{(a[0] + b[0]) / 2, (a[1] + b[1]) / 2}
	// Perpendicular offset in degree space is good enough for a demo shape.
	detour := orb.Point{mid[0] - (b[1]-a[1])/10, mid[1] + (b[0]-a[0])/10}

	direct := orb.LineString{a, mid, b}
	bowed := orb.LineString{a, detour, b}

	return []domain.RouteCandidate{
		candidateFor(direct),
		candidateFor(bowed),
	}
}

func candidateFor(line orb.LineString) domain.RouteCandidate {
	meters := geo.Length(line)
	return domain.RouteCandidate{
		Coordinates:     line,
		DurationSeconds: meters / staticSpeedMps,
		DistanceMeters:  meters,
	}
}
