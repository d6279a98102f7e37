package api

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"route-alternatives/internal/adapters/routing"
	"route-alternatives/internal/adapters/surface"
	"route-alternatives/internal/api/dto"
	"route-alternatives/internal/domain"
	"route-alternatives/internal/widget"

	"github.com/paulmach/orb"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	origin      = domain.Endpoint{Name: "Amsterdam", Lon: 4.9041, Lat: 52.3676}
	destination = domain.Endpoint{Name: "Rotterdam", Lon: 4.4777, Lat: 51.9244}
)

type fixture struct {
	handler http.Handler
	loop    *widget.Loop
	mem     *surface.MemorySurface
	widget  *widget.Widget
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	routes := []domain.RouteCandidate{
		{
			Coordinates:     orb.LineString{{4.9041, 52.3676}, {4.70, 52.15}, {4.4777, 51.9244}},
			DurationSeconds: 1200,
			DistanceMeters:  42000,
		},
		{
			Coordinates:     orb.LineString{{4.9041, 52.3676}, {4.70, 52.15}, {4.80, 51.95}, {4.4777, 51.9244}},
			DurationSeconds: 1500,
			DistanceMeters:  39000,
		},
	}

	mem, err := surface.NewMemorySurface(surface.Viewport{
		Center: orb.Point{4.69, 52.14},
		Zoom:   9,
		Width:  800,
		Height: 500,
	}, surface.DefaultHitTolerance)
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	loop := widget.NewLoop(16)
	go func() { _ = loop.Run(ctx) }()
	t.Cleanup(func() {
		cancel()
		loop.Stop()
	})

	w, err := widget.New(widget.Options{
		Origin:      origin,
		Destination: destination,
		Provider:    routing.NewMockRouteProvider(routes),
		Surface:     mem,
		Poster:      loop,
	})
	require.NoError(t, err)

	var mountErr error
	require.NoError(t, loop.Do(ctx, func() { mountErr = w.Mount(ctx) }))
	require.NoError(t, mountErr)

	select {
	case <-w.Loaded():
	case <-time.After(2 * time.Second):
		t.Fatal("widget did not load")
	}

	return &fixture{
		handler: NewRouter(loop, w, mem, nil),
		loop:    loop,
		mem:     mem,
		widget:  w,
	}
}

func (f *fixture) do(t *testing.T, method, path string, body []byte) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, bytes.NewReader(body))
	rec := httptest.NewRecorder()
	f.handler.ServeHTTP(rec, req)
	return rec
}

func decodeRoutes(t *testing.T, rec *httptest.ResponseRecorder) dto.RoutesResponse {
	t.Helper()
	var res dto.RoutesResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &res))
	return res
}

func TestHealth(t *testing.T) {
	f := newFixture(t)

	rec := f.do(t, http.MethodGet, "/health", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"ok"}`, rec.Body.String())
}

func TestListRoutes(t *testing.T) {
	f := newFixture(t)

	rec := f.do(t, http.MethodGet, "/routes", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	res := decodeRoutes(t, rec)
	assert.False(t, res.Loading)
	assert.Equal(t, "routes", res.Outcome)
	require.NotNil(t, res.SelectedIndex)
	assert.Equal(t, 0, *res.SelectedIndex)
	assert.Equal(t, []int{1, 0}, res.RenderOrder)
	require.Len(t, res.Routes, 2)
	assert.Equal(t, "20 min", res.Routes[0].Duration)
	assert.Equal(t, "42.0 km", res.Routes[0].Distance)
	assert.True(t, res.Routes[0].Fastest)
	assert.True(t, res.Routes[0].Active)
	assert.False(t, res.Routes[1].Active)
}

func TestSelectRoute(t *testing.T) {
	f := newFixture(t)

	rec := f.do(t, http.MethodPost, "/routes/select", []byte(`{"index":1}`))
	require.Equal(t, http.StatusOK, rec.Code)

	res := decodeRoutes(t, rec)
	require.NotNil(t, res.SelectedIndex)
	assert.Equal(t, 1, *res.SelectedIndex)
	assert.Equal(t, []int{0, 1}, res.RenderOrder)
	assert.Equal(t, []string{"route-0", "route-1"}, layerKeys(f.mem.Layers()))
}

func TestSelectRoute_BadRequests(t *testing.T) {
	f := newFixture(t)

	cases := []struct {
		name string
		body string
	}{
		{"out of range", `{"index":5}`},
		{"negative", `{"index":-1}`},
		{"missing index", `{}`},
		{"unknown field", `{"index":0,"extra":true}`},
		{"trailing data", `{"index":0}{"index":1}`},
		{"not json", `index=1`},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			rec := f.do(t, http.MethodPost, "/routes/select", []byte(tc.body))
			assert.Equal(t, http.StatusBadRequest, rec.Code)
		})
	}

	res := decodeRoutes(t, f.do(t, http.MethodGet, "/routes", nil))
	assert.Equal(t, 0, *res.SelectedIndex)
}

func TestMethodNotAllowed(t *testing.T) {
	f := newFixture(t)

	cases := []struct {
		method, path, allow string
	}{
		{http.MethodPost, "/health", http.MethodGet},
		{http.MethodDelete, "/routes", http.MethodGet},
		{http.MethodGet, "/routes/select", http.MethodPost},
		{http.MethodGet, "/clicks", http.MethodPost},
		{http.MethodPut, "/layers", http.MethodGet},
	}

	for _, tc := range cases {
		t.Run(tc.method+" "+tc.path, func(t *testing.T) {
			rec := f.do(t, tc.method, tc.path, nil)
			assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
			assert.Equal(t, tc.allow, rec.Header().Get("Allow"))
		})
	}
}

func TestClick(t *testing.T) {
	f := newFixture(t)

	px := f.mem.PixelOf(orb.Point{4.80, 51.95})
	body, err := json.Marshal(map[string]float64{"x": px.X, "y": px.Y})
	require.NoError(t, err)

	rec := f.do(t, http.MethodPost, "/clicks", body)
	require.Equal(t, http.StatusOK, rec.Code)
	res := decodeRoutes(t, rec)
	assert.Equal(t, 1, *res.SelectedIndex)

	// Empty map area leaves the selection alone.
	rec = f.do(t, http.MethodPost, "/clicks", []byte(`{"x":2,"y":2}`))
	require.Equal(t, http.StatusOK, rec.Code)
	res = decodeRoutes(t, rec)
	assert.Equal(t, 1, *res.SelectedIndex)

	rec = f.do(t, http.MethodPost, "/clicks", []byte(`{"x":2}`))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestLayers(t *testing.T) {
	f := newFixture(t)

	rec := f.do(t, http.MethodGet, "/layers", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/geo+json", rec.Header().Get("Content-Type"))

	var fc struct {
		Type     string `json:"type"`
		Features []struct {
			ID         string         `json:"id"`
			Properties map[string]any `json:"properties"`
		} `json:"features"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &fc))
	assert.Equal(t, "FeatureCollection", fc.Type)
	require.Len(t, fc.Features, 2)
	assert.Equal(t, "route-1", fc.Features[0].ID)
	assert.Equal(t, "route-0", fc.Features[1].ID)
	assert.Equal(t, true, fc.Features[1].Properties["selected"])
}

func TestStoppedLoopIsUnavailable(t *testing.T) {
	f := newFixture(t)
	f.loop.Stop()
	<-f.loop.Done()

	rec := f.do(t, http.MethodGet, "/routes", nil)
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)

	rec = f.do(t, http.MethodGet, "/health", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
}

// lateRunner lets the request context end before the queued work reaches the loop.
type lateRunner struct {
	loop   *widget.Loop
	cancel context.CancelFunc
}

func (r lateRunner) Do(ctx context.Context, fn func()) error {
	r.cancel()
	if err := r.loop.Do(context.Background(), fn); err != nil {
		return err
	}
	return ctx.Err()
}

func TestAbandonedRequestsDoNotMutate(t *testing.T) {
	f := newFixture(t)

	clickPx := f.mem.PixelOf(orb.Point{4.80, 51.95})
	clickBody, err := json.Marshal(map[string]float64{"x": clickPx.X, "y": clickPx.Y})
	require.NoError(t, err)

	cases := []struct {
		path string
		body []byte
	}{
		{"/routes/select", []byte(`{"index":1}`)},
		{"/clicks", clickBody},
	}

	for _, tc := range cases {
		t.Run(tc.path, func(t *testing.T) {
			ctx, cancel := context.WithCancel(context.Background())
			defer cancel()
			h := NewRouter(lateRunner{loop: f.loop, cancel: cancel}, f.widget, f.mem, nil)

			req := httptest.NewRequest(http.MethodPost, tc.path, bytes.NewReader(tc.body)).WithContext(ctx)
			rec := httptest.NewRecorder()
			h.ServeHTTP(rec, req)
			assert.Equal(t, http.StatusServiceUnavailable, rec.Code)

			var selected int
			require.NoError(t, f.loop.Do(context.Background(), func() { selected = f.widget.State().SelectedIndex }))
			assert.Equal(t, 0, selected)
		})
	}
}

func layerKeys(layers []domain.RenderLayer) []string {
	keys := make([]string, 0, len(layers))
	for _, l := range layers {
		keys = append(keys, l.Key)
	}
	return keys
}
