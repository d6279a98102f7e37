package widget

import (
	"context"
	"errors"
	"log/slog"

	"route-alternatives/internal/domain"
	"route-alternatives/internal/platform/obs"
	"route-alternatives/internal/ports"

	"github.com/google/uuid"
	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"
)

// Poster hands a function to the goroutine that owns the widget.
type Poster interface {
	Post(fn func()) bool
}

type Options struct {
	Origin      domain.Endpoint
	Destination domain.Endpoint
	Provider    ports.RouteProvider
	Surface     ports.Surface
	Poster      Poster
	Style       *Style
	Logger      *slog.Logger
}

// Widget composes the fetcher, the selection controller and the hit-test
// dispatcher around one rendering surface.
//
// Every method except Loaded must be called on the goroutine that drains
// Poster (see Loop). The background fetch only posts its result.
type Widget struct {
	controller *Controller
	fetcher    *Fetcher
	dispatcher *Dispatcher
	surface    ports.Surface
	poster     Poster
	logger     *slog.Logger

	origin      domain.Endpoint
	destination domain.Endpoint

	mountID     string
	mounted     bool
	alive       bool
	outcome     Outcome
	cancelFetch context.CancelFunc
	offClick    func()
	renders     int
	loaded      chan struct{}
}

func New(opts Options) (*Widget, error) {
	if opts.Surface == nil {
		return nil, errors.New("new widget: surface is nil")
	}
	if opts.Poster == nil {
		return nil, errors.New("new widget: poster is nil")
	}

	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}

	style := DefaultStyle()
	if opts.Style != nil {
		style = *opts.Style
	}

	fetcher, err := NewFetcher(opts.Provider, opts.Origin, opts.Destination, logger)
	if err != nil {
		return nil, err
	}

	w := &Widget{
		controller:  NewController(style, logger),
		fetcher:     fetcher,
		surface:     opts.Surface,
		poster:      opts.Poster,
		logger:      logger,
		origin:      opts.Origin,
		destination: opts.Destination,
		mountID:     uuid.NewString(),
		loaded:      make(chan struct{}),
	}
	w.dispatcher = NewDispatcher(opts.Surface, w.controller, logger)
	w.controller.onChange = w.render

	return w, nil
}

var ErrAlreadyMounted = errors.New("widget already mounted")

// Mount starts the one fetch of this widget's lifetime.
func (w *Widget) Mount(ctx context.Context) error {
	if w.mounted {
		return ErrAlreadyMounted
	}
	w.mounted = true
	w.alive = true

	ctx, cancel := context.WithCancel(obs.WithMountID(ctx, w.mountID))
	w.cancelFetch = cancel

	w.logger.Info("widget mounted",
		"mount_id", w.mountID,
		"origin", w.origin.Name,
		"destination", w.destination.Name,
	)

	w.controller.setLoading(true)

	go func() {
		var err error
		done := obs.Time(ctx, w.logger, "widget.fetch")
		res := w.fetcher.Fetch(ctx)
		err = res.Err
		done(&err)

		if !w.poster.Post(func() { w.resolve(res) }) {
			w.logger.Debug("event loop stopped; dropping fetch result", "mount_id", w.mountID)
		}
	}()

	return nil
}

// resolve commits a fetch result unless the widget has been torn down.
func (w *Widget) resolve(res FetchResult) {
	if !w.alive {
		w.logger.Debug("widget unmounted; discarding fetch result",
			"mount_id", w.mountID,
			"outcome", res.Outcome.String(),
		)
		return
	}

	w.outcome = res.Outcome
	w.controller.Publish(res.Candidates)
	w.cancelFetch()
	close(w.loaded)

	w.logger.Info("routes loaded",
		"mount_id", w.mountID,
		"outcome", res.Outcome.String(),
		"count", len(res.Candidates),
	)
}

// render re-derives layers from state, declares them on the surface and
// re-registers the click listener so it never sees stale state.
func (w *Widget) render() {
	if !w.alive {
		return
	}

	layers := w.controller.RenderLayers()
	if err := w.surface.SetRouteLayers(layers); err != nil {
		w.logger.Error("render: declare route layers", "mount_id", w.mountID, "err", err)
	}
	w.renders++

	w.detachClick()
	if len(layers) > 0 {
		dispatcher := w.dispatcher
		w.offClick = w.surface.OnClick(func(ev domain.ClickEvent) {
			dispatcher.HandleClick(ev)
		})
	}
}

func (w *Widget) detachClick() {
	if w.offClick != nil {
		w.offClick()
		w.offClick = nil
	}
}

// Unmount tears the widget down. A fetch still in flight is cancelled and its
// result discarded.
func (w *Widget) Unmount() {
	if !w.alive {
		return
	}
	w.alive = false
	w.detachClick()
	if w.cancelFetch != nil {
		w.cancelFetch()
	}
	w.logger.Info("widget unmounted", "mount_id", w.mountID)
}

// SelectSummary handles a click on the summary control for index.
func (w *Widget) SelectSummary(index int) bool {
	if !w.alive {
		return false
	}
	return w.controller.Select(index)
}

func (w *Widget) State() SelectionState { return w.controller.State() }

func (w *Widget) Summary() []SummaryEntry { return w.controller.Summary() }

func (w *Widget) RenderOrder() []LayerOrder { return w.controller.RenderOrder() }

func (w *Widget) Layers() []domain.RenderLayer { return w.controller.RenderLayers() }

func (w *Widget) Outcome() Outcome { return w.outcome }

func (w *Widget) MountID() string { return w.mountID }

// Renders counts completed render passes.
func (w *Widget) Renders() int { return w.renders }

// Loaded is closed once a fetch result has been committed. It may be waited
// on from any goroutine.
func (w *Widget) Loaded() <-chan struct{} { return w.loaded }

// Bounds covers both endpoints and every candidate geometry.
func (w *Widget) Bounds() orb.Bound {
	b := orb.MultiPoint{w.origin.Coordinates().Point(), w.destination.Coordinates().Point()}.Bound()
	for _, c := range w.controller.state.Candidates {
		b = b.Union(c.Coordinates.Bound())
	}
	return b
}

// FeatureCollection exports the current layers in paint order.
func (w *Widget) FeatureCollection() *geojson.FeatureCollection {
	fc := geojson.NewFeatureCollection()
	for _, l := range w.controller.RenderLayers() {
		f := geojson.NewFeature(l.Coordinates)
		f.ID = l.Key
		f.Properties["candidate_index"] = l.CandidateIndex
		f.Properties["selected"] = l.Selected
		f.Properties["color"] = l.Paint.Color
		f.Properties["width"] = l.Paint.Width
		f.Properties["opacity"] = l.Paint.Opacity
		fc.Append(f)
	}
	return fc
}
