package widget

import (
	"slices"

	"route-alternatives/internal/domain"
)

// fakeSurface records declarations and replays canned hit results.
type fakeSurface struct {
	layers   []domain.RenderLayer
	declared int
	matches  []domain.RenderedFeature
	queries  [][]string
	handlers map[int]func(domain.ClickEvent)
	nextID   int
}

func newFakeSurface() *fakeSurface {
	return &fakeSurface{handlers: map[int]func(domain.ClickEvent){}}
}

func (s *fakeSurface) SetRouteLayers(layers []domain.RenderLayer) error {
	s.layers = slices.Clone(layers)
	s.declared++
	return nil
}

func (s *fakeSurface) HasLayer(key string) bool {
	return slices.ContainsFunc(s.layers, func(l domain.RenderLayer) bool { return l.Key == key })
}

func (s *fakeSurface) QueryRenderedFeatures(_ domain.Pixel, keys []string) []domain.RenderedFeature {
	s.queries = append(s.queries, slices.Clone(keys))
	return slices.Clone(s.matches)
}

func (s *fakeSurface) OnClick(h func(domain.ClickEvent)) func() {
	id := s.nextID
	s.nextID++
	s.handlers[id] = h
	return func() { delete(s.handlers, id) }
}

func (s *fakeSurface) click(p domain.Pixel) {
	// Handlers re-register while running, so dispatch to a snapshot.
	snapshot := make([]func(domain.ClickEvent), 0, len(s.handlers))
	for _, h := range s.handlers {
		snapshot = append(snapshot, h)
	}
	for _, h := range snapshot {
		h(domain.ClickEvent{Point: p})
	}
}

func (s *fakeSurface) keysInPaintOrder() []string {
	out := make([]string, 0, len(s.layers))
	for _, l := range s.layers {
		out = append(out, l.Key)
	}
	return out
}

func features(keys ...string) []domain.RenderedFeature {
	out := make([]domain.RenderedFeature, 0, len(keys))
	for _, k := range keys {
		out = append(out, domain.RenderedFeature{LayerKey: k})
	}
	return out
}

// chanPoster lets a test decide when posted work runs.
type chanPoster struct {
	ch     chan func()
	closed bool
}

func newChanPoster() *chanPoster { return &chanPoster{ch: make(chan func(), 4)} }

func (p *chanPoster) Post(fn func()) bool {
	if p.closed {
		return false
	}
	p.ch <- fn
	return true
}

// next blocks until the fetch goroutine posts its result and returns it unrun.
func (p *chanPoster) next() func() { return <-p.ch }

// stubSelector counts Select calls.
type stubSelector struct {
	n        int
	selected []int
}

func (s *stubSelector) Len() int { return s.n }

func (s *stubSelector) Select(i int) bool {
	s.selected = append(s.selected, i)
	return true
}
