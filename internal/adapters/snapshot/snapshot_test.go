package snapshot

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"route-alternatives/internal/adapters/routing"
	"route-alternatives/internal/domain"

	"github.com/paulmach/orb"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	amsterdam = domain.Endpoint{Name: "Amsterdam", Lon: 4.9041, Lat: 52.3676}
	rotterdam = domain.Endpoint{Name: "Rotterdam", Lon: 4.4777, Lat: 51.9244}
)

// memStore is an in-memory SnapshotStore.
type memStore struct {
	m map[string][]domain.RouteCandidate
}

func newMemStore() *memStore { return &memStore{m: map[string][]domain.RouteCandidate{}} }

func (s *memStore) Put(_ context.Context, o, d domain.Endpoint, routes []domain.RouteCandidate) error {
	ok, dk := pairKey(o, d)
	s.m[ok+"|"+dk] = routes
	return nil
}

func (s *memStore) Get(_ context.Context, o, d domain.Endpoint) ([]domain.RouteCandidate, error) {
	ok, dk := pairKey(o, d)
	r, found := s.m[ok+"|"+dk]
	if !found {
		return nil, fmt.Errorf("mem store: %w", ErrNotFound)
	}
	return r, nil
}

func TestGeometryRoundTrip(t *testing.T) {
	line := orb.LineString{{4.9041, 52.3676}, {4.7, 52.15}, {4.4777, 51.9244}}

	raw, err := encodeGeometry(line)
	require.NoError(t, err)
	assert.JSONEq(t, `{"type":"LineString","coordinates":[[4.9041,52.3676],[4.7,52.15],[4.4777,51.9244]]}`, string(raw))

	got, err := decodeGeometry(raw)
	require.NoError(t, err)
	assert.Equal(t, line, got)
}

func TestDecodeGeometryRejectsOtherTypes(t *testing.T) {
	_, err := decodeGeometry([]byte(`{"type":"Point","coordinates":[4.9,52.3]}`))
	assert.Error(t, err)

	_, err = decodeGeometry([]byte(`not json`))
	assert.Error(t, err)
}

func TestRecordAndReplay(t *testing.T) {
	store := newMemStore()
	source := routing.NewMockRouteProvider(routing.StaticRoutes(amsterdam, rotterdam))

	n, err := Record(context.Background(), source, store, amsterdam, rotterdam)
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	provider, err := NewSnapshotRouteProvider(store)
	require.NoError(t, err)

	routes, err := provider.Alternatives(context.Background(), amsterdam, rotterdam)
	require.NoError(t, err)
	assert.Equal(t, source.Routes, routes)
}

func TestReplayMissingSnapshot(t *testing.T) {
	provider, err := NewSnapshotRouteProvider(newMemStore())
	require.NoError(t, err)

	_, err = provider.Alternatives(context.Background(), amsterdam, rotterdam)
	assert.True(t, errors.Is(err, ErrNotFound))
}

func TestRecordRefusesEmptyOrFailedFetch(t *testing.T) {
	store := newMemStore()

	_, err := Record(context.Background(), routing.NewMockRouteProvider(nil), store, amsterdam, rotterdam)
	assert.Error(t, err)

	failing := routing.NewMockRouteProvider(nil)
	failing.Err = errors.New("timeout")
	_, err = Record(context.Background(), failing, store, amsterdam, rotterdam)
	assert.Error(t, err)

	assert.Empty(t, store.m)
}

func TestSQLSnapshotStoreNilDB(t *testing.T) {
	s := NewSQLSnapshotStore(nil, nil)

	assert.Error(t, s.Put(context.Background(), amsterdam, rotterdam, nil))
	_, err := s.Get(context.Background(), amsterdam, rotterdam)
	assert.Error(t, err)
	assert.Error(t, InitSchema(context.Background(), nil))
}
