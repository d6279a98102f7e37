package handlers

import (
	"log/slog"
	"net/http"

	"route-alternatives/internal/api/dto"
	"route-alternatives/internal/domain"
	"route-alternatives/internal/widget"
)

// Clicker delivers a pointer click to the rendering surface.
type Clicker interface {
	Click(point domain.Pixel)
}

// RouteHandler exposes the widget's summary control and pointer input.
type RouteHandler struct {
	Runner  Runner
	Widget  *widget.Widget
	Surface Clicker
}

func (h *RouteHandler) snapshot() dto.RoutesResponse {
	state := h.Widget.State()
	summary := h.Widget.Summary()

	res := dto.RoutesResponse{
		Loading:     state.IsLoading,
		Outcome:     h.Widget.Outcome().String(),
		RenderOrder: make([]int, 0, len(state.Candidates)),
		Routes:      make([]dto.RouteSummaryResponse, 0, len(summary)),
	}
	if state.SelectedIndex != widget.NoSelection {
		idx := state.SelectedIndex
		res.SelectedIndex = &idx
	}
	for _, o := range h.Widget.RenderOrder() {
		res.RenderOrder = append(res.RenderOrder, o.CandidateIndex)
	}
	for _, e := range summary {
		c := state.Candidates[e.Index]
		res.Routes = append(res.Routes, dto.RouteSummaryResponse{
			Index:           e.Index,
			Duration:        e.Duration,
			Distance:        e.Distance,
			DurationSeconds: c.DurationSeconds,
			DistanceMeters:  c.DistanceMeters,
			Fastest:         e.Fastest,
			Active:          e.Active,
		})
	}
	return res
}

// List returns loading state and the summary control entries.
func (h *RouteHandler) List(w http.ResponseWriter, r *http.Request) {
	if !allowMethod(w, r, http.MethodGet) {
		return
	}

	var res dto.RoutesResponse
	if !run(w, r, h.Runner, func() { res = h.snapshot() }) {
		return
	}

	writeJSON(w, r, http.StatusOK, res)
}

// Select is a click on one summary control entry.
func (h *RouteHandler) Select(w http.ResponseWriter, r *http.Request) {
	if !allowMethod(w, r, http.MethodPost) {
		return
	}

	var req dto.SelectRequest
	if !decodeBody(w, r, &req) {
		return
	}
	if req.Index == nil {
		writeError(w, r, http.StatusBadRequest, "index is required")
		return
	}

	var (
		res        dto.RoutesResponse
		outOfRange bool
	)
	if !run(w, r, h.Runner, func() {
		n := len(h.Widget.State().Candidates)
		if *req.Index < 0 || *req.Index >= n {
			outOfRange = true
			return
		}
		h.Widget.SelectSummary(*req.Index)
		res = h.snapshot()
	}) {
		return
	}

	if outOfRange {
		writeError(w, r, http.StatusBadRequest, "index out of range")
		return
	}

	writeJSON(w, r, http.StatusOK, res)
}

// Click delivers a pointer click at a surface pixel.
func (h *RouteHandler) Click(w http.ResponseWriter, r *http.Request) {
	if !allowMethod(w, r, http.MethodPost) {
		return
	}

	var req dto.ClickRequest
	if !decodeBody(w, r, &req) {
		return
	}
	if req.X == nil || req.Y == nil {
		writeError(w, r, http.StatusBadRequest, "x and y are required")
		return
	}

	var res dto.RoutesResponse
	if !run(w, r, h.Runner, func() {
		h.Surface.Click(domain.Pixel{X: *req.X, Y: *req.Y})
		res = h.snapshot()
	}) {
		return
	}

	writeJSON(w, r, http.StatusOK, res)
}

// Layers returns the current render layers as GeoJSON in paint order.
func (h *RouteHandler) Layers(w http.ResponseWriter, r *http.Request) {
	if !allowMethod(w, r, http.MethodGet) {
		return
	}

	var body []byte
	var err error
	if !run(w, r, h.Runner, func() { body, err = h.Widget.FeatureCollection().MarshalJSON() }) {
		return
	}
	if err != nil {
		slog.Error("encode layers failed", "err", err)
		writeError(w, r, http.StatusInternalServerError, "internal server error")
		return
	}

	w.Header().Set("Content-Type", "application/geo+json")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(body)
}
