package surface

import (
	"math"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/project"
)

const (
	tileSize    = 256.0
	earthRadius = 6378137.0
)

// Viewport maps WGS84 coordinates to screen pixels with Web Mercator.
type Viewport struct {
	Center orb.Point
	Zoom   float64
	Width  float64
	Height float64
}

// normalized returns the Web Mercator position scaled to [0,1] on both axes,
// y growing southwards.
func normalized(p orb.Point) orb.Point {
	m := project.Point(p, project.WGS84.ToMercator)
	circumference := 2 * math.Pi * earthRadius
	return orb.Point{m[0]/circumference + 0.5, 0.5 - m[1]/circumference}
}

func (v Viewport) worldSize() float64 {
	return tileSize * math.Pow(2, v.Zoom)
}

// ToPixel projects a lon/lat point onto the screen.
func (v Viewport) ToPixel(p orb.Point) orb.Point {
	n := normalized(p)
	c := normalized(v.Center)
	world := v.worldSize()
	return orb.Point{
		(n[0]-c[0])*world + v.Width/2,
		(n[1]-c[1])*world + v.Height/2,
	}
}

// ProjectLine projects every vertex of line onto the screen.
func (v Viewport) ProjectLine(line orb.LineString) orb.LineString {
	out := make(orb.LineString, 0, len(line))
	for _, p := range line {
		out = append(out, v.ToPixel(p))
	}
	return out
}

// FitViewport centres on b and picks the largest zoom (capped at maxZoom)
// that keeps b inside the screen minus padding on each side.
func FitViewport(b orb.Bound, width, height, padding, maxZoom float64) Viewport {
	// Centre in projected space so the padding is symmetric on screen.
	m1 := project.Point(b.Min, project.WGS84.ToMercator)
	m2 := project.Point(b.Max, project.WGS84.ToMercator)
	center := project.Point(orb.Point{(m1[0] + m2[0]) / 2, (m1[1] + m2[1]) / 2}, project.Mercator.ToWGS84)

	v := Viewport{Center: center, Zoom: maxZoom, Width: width, Height: height}

	lo := normalized(orb.Point{b.Min[0], b.Max[1]})
	hi := normalized(orb.Point{b.Max[0], b.Min[1]})
	dx := hi[0] - lo[0]
	dy := hi[1] - lo[1]

	availW := width - 2*padding
	availH := height - 2*padding
	if (dx <= 0 && dy <= 0) || availW <= 0 || availH <= 0 {
		return v
	}

	scale := math.Inf(1)
	if dx > 0 {
		scale = math.Min(scale, availW/(dx*tileSize))
	}
	if dy > 0 {
		scale = math.Min(scale, availH/(dy*tileSize))
	}

	v.Zoom = math.Min(maxZoom, math.Log2(scale))
	return v
}
