package surface

import (
	"errors"
	"fmt"
	"slices"

	"route-alternatives/internal/domain"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/planar"
)

// DefaultHitTolerance is the extra slack in pixels around a stroke.
const DefaultHitTolerance = 3.0

type drawnLayer struct {
	layer  domain.RenderLayer
	pixels orb.LineString
}

// MemorySurface is an in-process rendering surface. It keeps route layers in
// paint order and hit-tests clicks against their projected strokes.
//
// It is not safe for concurrent use; drive it from the widget's event loop.
type MemorySurface struct {
	viewport  Viewport
	tolerance float64

	layers   []drawnLayer
	handlers map[int]func(domain.ClickEvent)
	nextID   int
}

func NewMemorySurface(viewport Viewport, tolerance float64) (*MemorySurface, error) {
	if viewport.Width <= 0 || viewport.Height <= 0 {
		return nil, fmt.Errorf("memory surface: viewport must have positive size, got %vx%v", viewport.Width, viewport.Height)
	}
	if tolerance < 0 {
		return nil, errors.New("memory surface: tolerance must be non-negative")
	}

	return &MemorySurface{
		viewport:  viewport,
		tolerance: tolerance,
		handlers:  make(map[int]func(domain.ClickEvent)),
	}, nil
}

func (s *MemorySurface) Viewport() Viewport { return s.viewport }

// SetRouteLayers replaces all route layers. Keys must be unique.
func (s *MemorySurface) SetRouteLayers(layers []domain.RenderLayer) error {
	seen := make(map[string]struct{}, len(layers))
	drawn := make([]drawnLayer, 0, len(layers))
	for _, l := range layers {
		if l.Key == "" {
			return errors.New("set route layers: empty layer key")
		}
		if _, ok := seen[l.Key]; ok {
			return fmt.Errorf("set route layers: duplicate layer key %q", l.Key)
		}
		seen[l.Key] = struct{}{}

		drawn = append(drawn, drawnLayer{layer: l, pixels: s.viewport.ProjectLine(l.Coordinates)})
	}

	s.layers = drawn
	return nil
}

func (s *MemorySurface) HasLayer(key string) bool {
	return slices.ContainsFunc(s.layers, func(d drawnLayer) bool { return d.layer.Key == key })
}

// Layers returns the declared layers in paint order.
func (s *MemorySurface) Layers() []domain.RenderLayer {
	out := make([]domain.RenderLayer, 0, len(s.layers))
	for _, d := range s.layers {
		out = append(out, d.layer)
	}
	return out
}

// QueryRenderedFeatures returns the layers among layerKeys whose stroke
// covers point, topmost (last painted) first.
func (s *MemorySurface) QueryRenderedFeatures(point domain.Pixel, layerKeys []string) []domain.RenderedFeature {
	if len(layerKeys) == 0 {
		return nil
	}

	wanted := make(map[string]struct{}, len(layerKeys))
	for _, k := range layerKeys {
		wanted[k] = struct{}{}
	}

	p := orb.Point{point.X, point.Y}
	var out []domain.RenderedFeature
	for i := len(s.layers) - 1; i >= 0; i-- {
		d := s.layers[i]
		if _, ok := wanted[d.layer.Key]; !ok {
			continue
		}
		if planar.DistanceFrom(d.pixels, p) > d.layer.Paint.Width/2+s.tolerance {
			continue
		}

		out = append(out, domain.RenderedFeature{
			LayerKey: d.layer.Key,
			Properties: map[string]any{
				"candidate_index": d.layer.CandidateIndex,
				"selected":        d.layer.Selected,
			},
		})
	}
	return out
}

func (s *MemorySurface) OnClick(handler func(domain.ClickEvent)) (off func()) {
	id := s.nextID
	s.nextID++
	s.handlers[id] = handler
	return func() { delete(s.handlers, id) }
}

// Click delivers a pointer click to every handler registered at the time of the click.
func (s *MemorySurface) Click(point domain.Pixel) {
	ids := make([]int, 0, len(s.handlers))
	for id := range s.handlers {
		ids = append(ids, id)
	}
	slices.Sort(ids)

	handlers := make([]func(domain.ClickEvent), 0, len(ids))
	for _, id := range ids {
		handlers = append(handlers, s.handlers[id])
	}

	ev := domain.ClickEvent{Point: point}
	for _, h := range handlers {
		h(ev)
	}
}

// Listeners reports how many click handlers are registered.
func (s *MemorySurface) Listeners() int { return len(s.handlers) }

// PixelOf projects a lon/lat point with the surface viewport.
func (s *MemorySurface) PixelOf(p orb.Point) domain.Pixel {
	px := s.viewport.ToPixel(p)
	return domain.Pixel{X: px[0], Y: px[1]}
}
