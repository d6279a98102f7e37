package domain

import (
	"strconv"

	"github.com/paulmach/orb"
)

// Immutable geographic coordinates (longitude, latitude).
type Coordinates struct {
	Lon float64
	Lat float64
}

// Return coordinates as an orb point ([lon, lat]).
func (c Coordinates) Point() orb.Point { return orb.Point{c.Lon, c.Lat} }

// Render coordinates as "lon,lat" for routing engine paths.
func (c Coordinates) PathSegment() string {
	return strconv.FormatFloat(c.Lon, 'f', -1, 64) + "," + strconv.FormatFloat(c.Lat, 'f', -1, 64)
}

// Endpoint is a named route origin or destination.
type Endpoint struct {
	Name string  `validate:"required"`
	Lon  float64 `validate:"gte=-180,lte=180"`
	Lat  float64 `validate:"gte=-90,lte=90"`
}

func (e Endpoint) Coordinates() Coordinates { return Coordinates{Lon: e.Lon, Lat: e.Lat} }
