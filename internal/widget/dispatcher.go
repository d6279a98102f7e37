package widget

import (
	"log/slog"

	"route-alternatives/internal/domain"
	"route-alternatives/internal/ports"
)

// selector is the part of the Controller the dispatcher drives.
type selector interface {
	Len() int
	Select(index int) bool
}

// Dispatcher turns a click on possibly overlapping route layers into at most
// one selection. Whatever the surface reports as topmost wins.
type Dispatcher struct {
	surface  ports.Surface
	selector selector
	logger   *slog.Logger
}

func NewDispatcher(surface ports.Surface, sel selector, logger *slog.Logger) *Dispatcher {
	if logger == nil {
		logger = slog.Default()
	}
	return &Dispatcher{surface: surface, selector: sel, logger: logger}
}

// Resolve returns the candidate index of the topmost route layer under point.
func (d *Dispatcher) Resolve(point domain.Pixel) (int, bool) {
	n := d.selector.Len()
	if n == 0 {
		return 0, false
	}

	// Recomputed per click: layers appear as candidates load.
	keys := make([]string, 0, n)
	for i := 0; i < n; i++ {
		key := domain.LayerKey(i)
		if d.surface.HasLayer(key) {
			keys = append(keys, key)
		}
	}
	if len(keys) == 0 {
		return 0, false
	}

	features := d.surface.QueryRenderedFeatures(point, keys)
	if len(features) == 0 {
		return 0, false
	}

	top := features[0].LayerKey
	index, ok := domain.ParseLayerKey(top)
	if !ok || index >= n {
		d.logger.Warn("hit test: ignoring unknown layer", "layer", top, "count", n)
		return 0, false
	}
	return index, true
}

// HandleClick resolves ev and selects the winner. It reports whether a
// selection was attempted.
func (d *Dispatcher) HandleClick(ev domain.ClickEvent) bool {
	index, ok := d.Resolve(ev.Point)
	if !ok {
		return false
	}
	d.selector.Select(index)
	return true
}
