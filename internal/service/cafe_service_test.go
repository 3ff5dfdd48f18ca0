package service

import (
	"context"
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ngopidibandung/cafe-map-backend/internal/database"
	"github.com/ngopidibandung/cafe-map-backend/internal/models"
	"github.com/ngopidibandung/cafe-map-backend/internal/repository"
)

const testDataset = `{"type":"FeatureCollection","features":[
 {"type":"Feature","properties":{"id":1,"name":"Kopi Anjar","address":"Jl. Braga","rating":4.6,"downloadSpeed":"45 Mbps","referencePrice":"Rp 25k"},
  "geometry":{"type":"Point","coordinates":[107.6098,-6.9147]}},
 {"type":"Feature","properties":{"id":2,"name":"Warung Senja","address":"Jl. Dago","downloadSpeed":"12 Mbps"},
  "geometry":{"type":"Point","coordinates":[107.6101,-6.9149]}},
 {"type":"Feature","properties":{"id":3,"name":"Tanpa Lokasi","address":"Jl. Riau"},
  "geometry":{"type":"Point","coordinates":[]}}
]}`

func newTestService(t *testing.T) (*CafeService, string) {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "cafes.json")
	require.NoError(t, os.WriteFile(path, []byte(testDataset), 0o644))

	conn, err := database.Open(database.Config{Path: filepath.Join(dir, "cafes.db")})
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })

	svc := NewCafeService(repository.NewCafeRepository(conn), path)
	require.NoError(t, svc.LoadFromRepository(context.Background()))
	return svc, path
}

func TestCafeService_Search(t *testing.T) {
	t.Parallel()
	svc, _ := newTestService(t)

	all := svc.Search(models.CafeQuery{})
	assert.Equal(t, 3, all.Total)
	assert.Equal(t, 0, all.ActiveFilters)

	fast := svc.Search(models.CafeQuery{FilterState: models.FilterState{FastWifi: true}})
	require.Len(t, fast.Data, 1)
	assert.Equal(t, int64(1), fast.Data[0].ID)
	assert.Equal(t, 1, fast.ActiveFilters)

	byText := svc.Search(models.CafeQuery{Query: "DAGO"})
	require.Len(t, byText.Data, 1)
	assert.Equal(t, int64(2), byText.Data[0].ID)
}

func TestCafeService_SearchPaging(t *testing.T) {
	t.Parallel()
	svc, _ := newTestService(t)

	page := svc.Search(models.CafeQuery{Limit: 1, Offset: 1})
	assert.Equal(t, 3, page.Total)
	require.Len(t, page.Data, 1)
	assert.Equal(t, int64(2), page.Data[0].ID)

	past := svc.Search(models.CafeQuery{Offset: 10})
	assert.Equal(t, 3, past.Total)
	assert.Empty(t, past.Data)
}

func TestCafeService_SearchWithDistance(t *testing.T) {
	t.Parallel()
	svc, _ := newTestService(t)

	lat, lon := -6.9147, 107.6098
	res := svc.Search(models.CafeQuery{Lat: &lat, Lon: &lon})
	require.Len(t, res.Data, 3)
	require.NotNil(t, res.Data[0].DistanceKm)
	assert.Equal(t, "0 m", res.Data[0].DistanceText)
	assert.NotEmpty(t, res.Data[1].DistanceText)
	assert.Nil(t, res.Data[2].DistanceKm, "no coordinates, no distance")
}

func TestCafeService_Clusters(t *testing.T) {
	t.Parallel()
	svc, _ := newTestService(t)

	res, err := svc.Clusters(models.CafeQuery{}, 13)
	require.NoError(t, err)
	assert.Equal(t, 3, res.Total)
	assert.Equal(t, 1, res.Skipped)
	assert.Equal(t, 0.05, res.CellSize)
	require.Len(t, res.Markers, 1)
	assert.Equal(t, 2, res.Markers[0].Count)

	res, err = svc.Clusters(models.CafeQuery{}, 16)
	require.NoError(t, err)
	assert.Len(t, res.Markers, 2)
	assert.Equal(t, 0.0, res.CellSize)

	_, err = svc.Clusters(models.CafeQuery{}, 30)
	assert.ErrorIs(t, err, ErrInvalidZoom)
}

func TestCafeService_Detail(t *testing.T) {
	t.Parallel()
	svc, _ := newTestService(t)

	v, err := svc.Detail(context.Background(), 2, &models.UserLocation{Latitude: -6.9049, Longitude: 107.6101})
	require.NoError(t, err)
	assert.Equal(t, "Warung Senja", v.Name)
	assert.Equal(t, "1.1 km", v.DistanceText)

	v, err = svc.Detail(context.Background(), 1, nil)
	require.NoError(t, err)
	assert.Nil(t, v.DistanceKm)

	_, err = svc.Detail(context.Background(), 404, nil)
	assert.ErrorIs(t, err, ErrCafeNotFound)
}

func TestCafeService_ReloadSwapsSnapshot(t *testing.T) {
	t.Parallel()
	svc, path := newTestService(t)

	before := svc.Snapshot()
	require.Len(t, before, 3)

	require.NoError(t, os.WriteFile(path, []byte(`{"type":"FeatureCollection","features":[
		{"type":"Feature","properties":{"id":9,"name":"Baru"},"geometry":{"type":"Point","coordinates":[107.6,-6.9]}}]}`), 0o644))
	require.NoError(t, svc.Reload(context.Background()))

	after := svc.Snapshot()
	require.Len(t, after, 1)
	assert.Equal(t, int64(9), after[0].ID)
	assert.Len(t, before, 3, "old snapshot is not mutated")

	_, err := svc.Detail(context.Background(), 1, nil)
	assert.ErrorIs(t, err, ErrCafeNotFound)
}

func TestCafeService_LoadPrefersStore(t *testing.T) {
	t.Parallel()
	svc, path := newTestService(t)

	// The store is already seeded; a broken file must not matter on restart.
	require.NoError(t, os.WriteFile(path, []byte("{"), 0o644))
	again := NewCafeService(svc.repo, path)
	require.NoError(t, again.LoadFromRepository(context.Background()))
	assert.Len(t, again.Snapshot(), 3)

	assert.Error(t, again.Reload(context.Background()))
	assert.Len(t, again.Snapshot(), 3, "failed reload keeps the previous snapshot")
}

func TestCafeService_Stats(t *testing.T) {
	t.Parallel()
	svc, _ := newTestService(t)

	s := svc.Stats()
	assert.Equal(t, 3, s.Total)
	assert.Equal(t, 2, s.WithCoordinates)
}

func TestCafeService_DetailFallsBackToStore(t *testing.T) {
	t.Parallel()
	svc, _ := newTestService(t)

	// Written behind the snapshot's back, e.g. by another process sharing the database.
	extra := models.Cafe{ID: 42, Name: "Kopi Gudang", Address: "Jl. Cihampelas"}
	cafes := append([]models.Cafe{}, svc.Snapshot()...)
	require.NoError(t, svc.repo.ReplaceAll(context.Background(), append(cafes, extra), "test"))

	v, err := svc.Detail(context.Background(), 42, nil)
	require.NoError(t, err)
	assert.Equal(t, "Kopi Gudang", v.Name)
	assert.Len(t, svc.Snapshot(), 3, "lookup does not touch the snapshot")
}

func TestCafeService_LoadWithMissingAndExplicitIDs(t *testing.T) {
	t.Parallel()
	dir := t.TempDir()
	path := filepath.Join(dir, "cafes.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"type":"FeatureCollection","features":[
		{"type":"Feature","properties":{"id":2,"name":"Dua"},"geometry":{"type":"Point","coordinates":[107.6,-6.9]}},
		{"type":"Feature","properties":{"name":"Tanpa ID"},"geometry":{"type":"Point","coordinates":[107.61,-6.91]}}]}`), 0o644))

	conn, err := database.Open(database.Config{Path: filepath.Join(dir, "cafes.db")})
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })

	svc := NewCafeService(repository.NewCafeRepository(conn), path)
	require.NoError(t, svc.LoadFromRepository(context.Background()))
	require.Len(t, svc.Snapshot(), 2)

	n, err := svc.repo.Count(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	v, err := svc.Detail(context.Background(), 2, nil)
	require.NoError(t, err)
	assert.Equal(t, "Dua", v.Name)
}

func TestDistance(t *testing.T) {
	t.Parallel()

	d, err := Distance(-6.9025, 107.6191, -6.9025, 107.6191)
	require.NoError(t, err)
	assert.Equal(t, "0 m", d.DistanceText)
	assert.Zero(t, d.DistanceKm)

	d, err = Distance(-6.9025, 107.6191, -6.9125, 107.6191)
	require.NoError(t, err)
	assert.Equal(t, "1.1 km", d.DistanceText)
}

func TestDistance_InvalidCoordinates(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name                           string
		fromLat, fromLon, toLat, toLon float64
	}{
		{"NaN latitude", math.NaN(), 107.6, -6.9, 107.6},
		{"infinite longitude", -6.9, 107.6, -6.9, math.Inf(1)},
		{"latitude out of range", 500, 107.6, -6.9, 107.6},
		{"longitude out of range", -6.9, 107.6, -6.9, -181},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Distance(tt.fromLat, tt.fromLon, tt.toLat, tt.toLon)
			assert.ErrorIs(t, err, ErrInvalidCoordinates)
		})
	}
}
