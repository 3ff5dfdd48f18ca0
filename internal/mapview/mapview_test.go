package mapview

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ngopidibandung/cafe-map-backend/internal/models"
)

// recordingRenderer captures renderer calls
type recordingRenderer struct {
	mu       sync.Mutex
	clears   int
	singles  []int64
	clusters []int
	layers   []BaseLayer
	flights  []flight
	users    []float64
}

type flight struct {
	lat, lon float64
	zoom     int
}

func (r *recordingRenderer) Clear() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.clears++
	r.singles = nil
	r.clusters = nil
}

func (r *recordingRenderer) DrawSingle(c models.Cafe) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.singles = append(r.singles, c.ID)
}

func (r *recordingRenderer) DrawCluster(m models.ClusterResult) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.clusters = append(r.clusters, m.Count)
}

func (r *recordingRenderer) SetBaseLayer(l BaseLayer) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.layers = append(r.layers, l)
}

func (r *recordingRenderer) FlyTo(lat, lon float64, zoom int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.flights = append(r.flights, flight{lat, lon, zoom})
}

func (r *recordingRenderer) ShowUser(_ models.UserLocation, accuracy float64) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.users = append(r.users, accuracy)
}

// fakeGeolocator answers with a fixed position after an optional delay
type fakeGeolocator struct {
	pos     Position
	err     error
	delay   time.Duration
	gate    chan struct{}
	started chan struct{}
}

func (g *fakeGeolocator) CurrentPosition(ctx context.Context) (Position, error) {
	if g.started != nil {
		close(g.started)
	}
	if g.gate != nil {
		select {
		case <-g.gate:
		case <-ctx.Done():
			return Position{}, ctx.Err()
		}
	}
	if g.delay > 0 {
		select {
		case <-time.After(g.delay):
		case <-ctx.Done():
			return Position{}, ctx.Err()
		}
	}
	return g.pos, g.err
}

func testCafes() []models.Cafe {
	return []models.Cafe{
		{ID: 1, Name: "Kopi Anjar", DownloadSpeed: "45 Mbps",
			Coordinates: &models.Coordinates{Latitude: -6.9147, Longitude: 107.6098}},
		{ID: 2, Name: "Warung Senja", DownloadSpeed: "12 Mbps",
			Coordinates: &models.Coordinates{Latitude: -6.9149, Longitude: 107.6101}},
		{ID: 3, Name: "Jauh", Coordinates: &models.Coordinates{Latitude: -6.80, Longitude: 107.70}},
		{ID: 4, Name: "Tanpa Lokasi"},
	}
}

func TestController_RenderClustersFilteredCafes(t *testing.T) {
	t.Parallel()
	r := &recordingRenderer{}
	c := NewController(r, nil, testCafes(), 0)

	c.Render()
	assert.Equal(t, []int{2}, r.clusters)
	assert.Equal(t, []int64{3}, r.singles)

	c.SetFilters(models.FilterState{FastWifi: true})
	assert.Empty(t, r.clusters)
	assert.Equal(t, []int64{1}, r.singles)
	assert.Equal(t, 1, c.ActiveFilterCount())

	c.ResetFilters()
	c.SetQuery("  SENJA ")
	assert.Equal(t, []int64{2}, r.singles)
	require.Len(t, c.Filtered(), 1)

	c.SetQuery("")
	c.SetZoom(16)
	assert.Empty(t, r.clusters)
	assert.Equal(t, []int64{1, 2, 3}, r.singles)
	assert.Len(t, c.Markers(), 3)
}

func TestController_ZoomToCluster(t *testing.T) {
	t.Parallel()
	r := &recordingRenderer{}
	c := NewController(r, nil, testCafes(), 0)
	c.Render()

	markers := c.Markers()
	require.True(t, markers[0].IsCluster())
	c.ZoomToCluster(markers[0])
	assert.Equal(t, 15, c.Zoom())
	require.Len(t, r.flights, 1)
	assert.Equal(t, 15, r.flights[0].zoom)
	assert.Equal(t, []int64{1, 2, 3}, r.singles)

	c.ZoomToCluster(markers[1])
	assert.Len(t, r.flights, 1, "singles do not zoom")
}

func TestController_ZoomToClusterWithoutCentroid(t *testing.T) {
	t.Parallel()
	r := &recordingRenderer{}
	c := NewController(r, nil, testCafes(), 0)

	c.ZoomToCluster(models.ClusterResult{
		Kind:    models.ClusterKindCluster,
		Count:   2,
		Members: testCafes()[:2],
	})
	require.Len(t, r.flights, 1)
	assert.InDelta(t, -6.9148, r.flights[0].lat, 1e-9)
	assert.InDelta(t, 107.60995, r.flights[0].lon, 1e-9)

	c.ZoomToCluster(models.ClusterResult{Kind: models.ClusterKindCluster, Members: testCafes()[3:]})
	assert.Len(t, r.flights, 1, "nothing to center on")
}

func TestController_ResetAndToggle(t *testing.T) {
	t.Parallel()
	r := &recordingRenderer{}
	c := NewController(r, nil, testCafes(), 0)
	c.SetZoom(18)

	c.ResetView()
	assert.Equal(t, DefaultZoom, c.Zoom())
	assert.Equal(t, flight{DefaultLatitude, DefaultLongitude, DefaultZoom}, r.flights[len(r.flights)-1])

	assert.Equal(t, BaseLayerLight, c.BaseLayer())
	c.ToggleBaseLayer()
	assert.Equal(t, BaseLayerDark, c.BaseLayer())
	c.ToggleBaseLayer()
	assert.Equal(t, BaseLayerLight, c.BaseLayer())
	c.SetTheme("dark")
	assert.Equal(t, BaseLayerDark, c.BaseLayer())
	c.SetTheme("system")
	assert.Equal(t, BaseLayerLight, c.BaseLayer())
	assert.Equal(t, []BaseLayer{BaseLayerDark, BaseLayerLight, BaseLayerDark, BaseLayerLight}, r.layers)
}

func TestController_Locate(t *testing.T) {
	t.Parallel()

	t.Run("success", func(t *testing.T) {
		r := &recordingRenderer{}
		g := &fakeGeolocator{pos: Position{Latitude: -6.91, Longitude: 107.61, Accuracy: 5}}
		c := NewController(r, g, testCafes(), time.Second)

		require.NoError(t, c.Locate(context.Background()))
		assert.Equal(t, []float64{30}, r.users)
		assert.Equal(t, LocateZoom, c.Zoom())
		assert.Equal(t, flight{-6.91, 107.61, LocateZoom}, r.flights[0])
	})

	t.Run("keeps deeper zoom", func(t *testing.T) {
		r := &recordingRenderer{}
		g := &fakeGeolocator{pos: Position{Latitude: -6.91, Longitude: 107.61}}
		c := NewController(r, g, testCafes(), time.Second)
		c.SetZoom(18)

		require.NoError(t, c.Locate(context.Background()))
		assert.Equal(t, 18, c.Zoom())
		assert.Equal(t, []float64{80}, r.users)
	})

	t.Run("failure", func(t *testing.T) {
		r := &recordingRenderer{}
		c := NewController(r, &fakeGeolocator{err: errors.New("denied")}, testCafes(), time.Second)

		err := c.Locate(context.Background())
		assert.ErrorIs(t, err, ErrLocationUnavailable)
		assert.Empty(t, r.flights)
	})

	t.Run("timeout", func(t *testing.T) {
		r := &recordingRenderer{}
		c := NewController(r, &fakeGeolocator{delay: time.Second}, testCafes(), 20*time.Millisecond)

		err := c.Locate(context.Background())
		assert.ErrorIs(t, err, ErrLocationUnavailable)
	})

	t.Run("no geolocator", func(t *testing.T) {
		c := NewController(&recordingRenderer{}, nil, testCafes(), time.Second)
		assert.ErrorIs(t, c.Locate(context.Background()), ErrLocationUnavailable)
	})
}

func TestClampAccuracy(t *testing.T) {
	t.Parallel()

	assert.Equal(t, 80.0, ClampAccuracy(0))
	assert.Equal(t, 30.0, ClampAccuracy(3))
	assert.Equal(t, 120.0, ClampAccuracy(120))
	assert.Equal(t, 500.0, ClampAccuracy(2000))
}

func TestDetailSession_Distance(t *testing.T) {
	t.Parallel()
	g := &fakeGeolocator{pos: Position{Latitude: -6.9049, Longitude: 107.6101}}
	s := NewDetailSession(g, time.Second)

	_, ok := s.Distance()
	assert.False(t, ok)
	assert.ErrorIs(t, s.ResolveLocation(context.Background()), ErrStaleLocation, "nothing open")

	s.Open(testCafes()[1])
	require.NoError(t, s.ResolveLocation(context.Background()))
	text, ok := s.Distance()
	require.True(t, ok)
	assert.Equal(t, "1.1 km", text)

	s.Open(testCafes()[3])
	_, ok = s.Distance()
	assert.False(t, ok, "new view starts without location")
}

func TestDetailSession_DropsStaleLocation(t *testing.T) {
	t.Parallel()
	gate, started := make(chan struct{}), make(chan struct{})
	g := &fakeGeolocator{pos: Position{Latitude: -6.91, Longitude: 107.61}, gate: gate, started: started}
	s := NewDetailSession(g, time.Second)

	s.Open(testCafes()[0])
	done := make(chan error, 1)
	go func() { done <- s.ResolveLocation(context.Background()) }()

	<-started
	s.Open(testCafes()[1])
	close(gate)

	assert.ErrorIs(t, <-done, ErrStaleLocation)
	_, ok := s.Distance()
	assert.False(t, ok)

	active, ok := s.Active()
	require.True(t, ok)
	assert.Equal(t, int64(2), active.ID)
}

func TestDetailSession_RecordsFailure(t *testing.T) {
	t.Parallel()
	s := NewDetailSession(&fakeGeolocator{err: errors.New("denied")}, time.Second)

	s.Open(testCafes()[0])
	err := s.ResolveLocation(context.Background())
	assert.ErrorIs(t, err, ErrLocationUnavailable)
	assert.ErrorIs(t, s.LocationError(), ErrLocationUnavailable)

	s.Close()
	assert.NoError(t, s.LocationError())
	_, ok := s.Active()
	assert.False(t, ok)
}
