package domain

import (
	"strconv"
	"strings"

	"github.com/paulmach/orb"
)

const layerKeyPrefix = "route-"

// LayerKey binds a rendered route shape to its candidate index.
func LayerKey(index int) string {
	return layerKeyPrefix + strconv.Itoa(index)
}

// ParseLayerKey maps a layer key back to a candidate index.
// Only keys LayerKey itself produces are accepted, so "route-007" reports false.
func ParseLayerKey(key string) (int, bool) {
	rest, ok := strings.CutPrefix(key, layerKeyPrefix)
	if !ok || rest == "" {
		return 0, false
	}
	for _, r := range rest {
		if r < '0' || r > '9' {
			return 0, false
		}
	}
	n, err := strconv.Atoi(rest)
	if err != nil || LayerKey(n) != key {
		return 0, false
	}
	return n, true
}

// Paint is the visual emphasis of a route layer.
type Paint struct {
	Color   string
	Width   float64
	Opacity float64
}

// RenderLayer is a per-render projection of one candidate.
// Layers are handed to the surface in paint order; later layers win
// at shared pixels.
type RenderLayer struct {
	Key            string
	CandidateIndex int
	Coordinates    orb.LineString
	Paint          Paint
	Selected       bool
}

// Pixel is a position on the rendering surface in screen pixels.
type Pixel struct {
	X float64
	Y float64
}

// RenderedFeature is one query hit returned by the rendering surface.
type RenderedFeature struct {
	LayerKey   string
	Properties map[string]any
}

// ClickEvent is a pointer click on the rendering surface.
type ClickEvent struct {
	Point Pixel
}
