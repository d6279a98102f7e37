package widget

import (
	"log/slog"
	"slices"

	"route-alternatives/internal/domain"
)

// NoSelection is the SelectedIndex before any candidate exists.
const NoSelection = -1

// SelectionState is the widget's single source of truth.
type SelectionState struct {
	Candidates    []domain.RouteCandidate
	SelectedIndex int
	IsLoading     bool
}

// LayerOrder is one slot of the derived paint order.
type LayerOrder struct {
	CandidateIndex int
	IsSelected     bool
}

// Controller owns SelectionState and is the only writer of SelectedIndex.
// It is not safe for concurrent use; it lives on the widget's event loop.
type Controller struct {
	state     SelectionState
	published bool
	style     Style
	logger    *slog.Logger

	// onChange runs after every committed mutation.
	onChange func()
}

func NewController(style Style, logger *slog.Logger) *Controller {
	if logger == nil {
		logger = slog.Default()
	}
	return &Controller{
		state:  SelectionState{SelectedIndex: NoSelection},
		style:  style,
		logger: logger,
	}
}

// State returns a copy of the current state.
func (c *Controller) State() SelectionState {
	s := c.state
	s.Candidates = slices.Clone(c.state.Candidates)
	return s
}

func (c *Controller) SelectedIndex() int { return c.state.SelectedIndex }

func (c *Controller) Len() int { return len(c.state.Candidates) }

func (c *Controller) setLoading(loading bool) {
	if c.state.IsLoading == loading {
		return
	}
	c.state.IsLoading = loading
	c.changed()
}

// Publish commits the fetch result. Only the first publication is accepted;
// the list is replaced wholesale and never mutated afterwards.
func (c *Controller) Publish(candidates []domain.RouteCandidate) {
	if c.published {
		c.logger.Warn("ignoring second candidate publication", "count", len(candidates))
		return
	}
	c.published = true

	c.state.Candidates = slices.Clip(slices.Clone(candidates))
	c.state.IsLoading = false
	if len(c.state.Candidates) > 0 {
		c.state.SelectedIndex = 0
	} else {
		c.state.SelectedIndex = NoSelection
	}
	c.changed()
}

// Select makes index the active alternative and reports whether state changed.
// Re-selecting the active index is a no-op. Out of range indices are a caller
// bug and are ignored.
func (c *Controller) Select(index int) bool {
	if index < 0 || index >= len(c.state.Candidates) {
		c.logger.Warn("select: index out of range", "index", index, "count", len(c.state.Candidates))
		return false
	}
	if index == c.state.SelectedIndex {
		return false
	}

	c.state.SelectedIndex = index
	c.changed()
	return true
}

func (c *Controller) changed() {
	if c.onChange != nil {
		c.onChange()
	}
}

// DeriveRenderOrder is a stable partition of 0..n-1 that moves selected to the end.
// When selected is out of range the natural order is returned.
func DeriveRenderOrder(n int, selected int) []LayerOrder {
	out := make([]LayerOrder, 0, n)
	for i := 0; i < n; i++ {
		if i != selected {
			out = append(out, LayerOrder{CandidateIndex: i})
		}
	}
	if selected >= 0 && selected < n {
		out = append(out, LayerOrder{CandidateIndex: selected, IsSelected: true})
	}
	return out
}

// RenderOrder derives the paint order from the current state.
func (c *Controller) RenderOrder() []LayerOrder {
	return DeriveRenderOrder(len(c.state.Candidates), c.state.SelectedIndex)
}

// RenderLayers projects the current state into layers in paint order.
func (c *Controller) RenderLayers() []domain.RenderLayer {
	order := c.RenderOrder()
	layers := make([]domain.RenderLayer, 0, len(order))
	for _, o := range order {
		layers = append(layers, domain.RenderLayer{
			Key:            domain.LayerKey(o.CandidateIndex),
			CandidateIndex: o.CandidateIndex,
			Coordinates:    c.state.Candidates[o.CandidateIndex].Coordinates,
			Paint:          c.style.PaintFor(o.IsSelected),
			Selected:       o.IsSelected,
		})
	}
	return layers
}

// SummaryEntry is one row of the summary control.
type SummaryEntry struct {
	Index    int
	Duration string
	Distance string
	Fastest  bool
	Active   bool
}

// Summary lists candidates in engine order. Index 0 is marked fastest
// because the engine returns alternatives best first.
func (c *Controller) Summary() []SummaryEntry {
	out := make([]SummaryEntry, 0, len(c.state.Candidates))
	for i, r := range c.state.Candidates {
		out = append(out, SummaryEntry{
			Index:    i,
			Duration: domain.FormatDuration(r.DurationSeconds),
			Distance: domain.FormatDistance(r.DistanceMeters),
			Fastest:  i == 0,
			Active:   i == c.state.SelectedIndex,
		})
	}
	return out
}
