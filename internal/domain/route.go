package domain

import (
	"errors"
	"fmt"

	"github.com/paulmach/orb"
)

// RouteCandidate is one alternative path returned by the routing engine.
// Its identity is its position in the list returned by a single fetch.
// Candidates are immutable once fetched.
type RouteCandidate struct {
	Coordinates     orb.LineString
	DurationSeconds float64
	DistanceMeters  float64
}

// Validate checks the shape a renderable candidate must have.
func (r RouteCandidate) Validate() error {
	if len(r.Coordinates) < 2 {
		return fmt.Errorf("route candidate: need at least 2 coordinates, got %d", len(r.Coordinates))
	}
	if r.DurationSeconds < 0 {
		return errors.New("route candidate: duration must be non-negative")
	}
	if r.DistanceMeters < 0 {
		return errors.New("route candidate: distance must be non-negative")
	}
	return nil
}
