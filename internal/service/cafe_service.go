package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sync"

	"github.com/ngopidibandung/cafe-map-backend/internal/dataset"
	"github.com/ngopidibandung/cafe-map-backend/internal/filter"
	"github.com/ngopidibandung/cafe-map-backend/internal/models"
	"github.com/ngopidibandung/cafe-map-backend/internal/repository"
	"github.com/ngopidibandung/cafe-map-backend/internal/spatial"
	"github.com/ngopidibandung/cafe-map-backend/internal/stats"
)

var (
	ErrCafeNotFound = errors.New("cafe not found")
	ErrInvalidZoom  = errors.New("zoom must be between 0 and 22")

	ErrInvalidCoordinates = errors.New("coordinates must be finite, latitude within [-90, 90] and longitude within [-180, 180]")
)

// MaxZoom is the deepest zoom the tile layers serve
const MaxZoom = 22

// CafeService serves filtered, clustered and measured views over the cafe
// dataset. The dataset is an immutable snapshot replaced wholesale on reload.
type CafeService struct {
	repo        *repository.CafeRepository
	datasetPath string

	mu    sync.RWMutex
	cafes []models.Cafe
	byID  map[int64]int
}

// NewCafeService creates a new cafe service
func NewCafeService(repo *repository.CafeRepository, datasetPath string) *CafeService {
	return &CafeService{
		repo:        repo,
		datasetPath: datasetPath,
		byID:        make(map[int64]int),
	}
}

// LoadFromRepository loads the stored dataset, seeding it from the dataset
// file when the store is empty
func (s *CafeService) LoadFromRepository(ctx context.Context) error {
	n, err := s.repo.Count(ctx)
	if err != nil {
		return err
	}
	if n == 0 {
		log.Printf("[CafeService] Store is empty, seeding from %s", s.datasetPath)
		return s.Reload(ctx)
	}

	cafes, err := s.repo.List(ctx)
	if err != nil {
		return fmt.Errorf("failed to load cafes: %w", err)
	}
	s.swap(cafes)
	log.Printf("[CafeService] Loaded %d cafes from store", len(cafes))
	return nil
}

// Reload re-reads the dataset file, persists it and swaps the snapshot
func (s *CafeService) Reload(ctx context.Context) error {
	cafes, err := dataset.LoadFile(s.datasetPath)
	if err != nil {
		return err
	}
	if err := s.repo.ReplaceAll(ctx, cafes, s.datasetPath); err != nil {
		return fmt.Errorf("failed to store cafes: %w", err)
	}
	s.swap(cafes)
	log.Printf("[CafeService] Loaded %d cafes from %s", len(cafes), s.datasetPath)
	return nil
}

// swap installs a new snapshot. The old slice is left untouched for readers
// still holding it.
func (s *CafeService) swap(cafes []models.Cafe) {
	byID := make(map[int64]int, len(cafes))
	for i, c := range cafes {
		if _, dup := byID[c.ID]; !dup {
			byID[c.ID] = i
		}
	}

	s.mu.Lock()
	s.cafes = cafes
	s.byID = byID
	s.mu.Unlock()
}

// Snapshot returns the current dataset. Callers must not modify it.
func (s *CafeService) Snapshot() []models.Cafe {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.cafes
}

// Search filters the dataset and pages the result
func (s *CafeService) Search(q models.CafeQuery) *models.CafeListResponse {
	matched := filter.Apply(s.Snapshot(), q.FilterState, q.Query)
	total := len(matched)

	if q.Offset > 0 {
		if q.Offset >= len(matched) {
			matched = nil
		} else {
			matched = matched[q.Offset:]
		}
	}
	if q.Limit > 0 && q.Limit < len(matched) {
		matched = matched[:q.Limit]
	}

	loc := q.UserLocation()
	views := make([]models.CafeView, 0, len(matched))
	for _, c := range matched {
		views = append(views, view(c, loc))
	}

	return &models.CafeListResponse{
		Data:          views,
		Total:         total,
		ActiveFilters: filter.CountActive(q.FilterState),
		Limit:         q.Limit,
		Offset:        q.Offset,
	}
}

// Clusters filters the dataset and groups the result for a zoom level
func (s *CafeService) Clusters(q models.CafeQuery, zoom int) (*models.ClusterResponse, error) {
	if zoom < 0 || zoom > MaxZoom {
		return nil, ErrInvalidZoom
	}

	matched := filter.Apply(s.Snapshot(), q.FilterState, q.Query)
	markers := spatial.Cluster(matched, zoom)

	return &models.ClusterResponse{
		Zoom:          zoom,
		CellSize:      spatial.CellSize(zoom),
		Markers:       markers,
		Total:         len(matched),
		Skipped:       len(matched) - spatial.CountMappable(matched),
		ActiveFilters: filter.CountActive(q.FilterState),
	}, nil
}

// Detail returns one cafe, with a distance badge when loc is given. A cafe
// missing from the snapshot is looked up in the store before giving up.
func (s *CafeService) Detail(ctx context.Context, id int64, loc *models.UserLocation) (*models.CafeView, error) {
	s.mu.RLock()
	i, ok := s.byID[id]
	var c models.Cafe
	if ok {
		c = s.cafes[i]
	}
	s.mu.RUnlock()

	if !ok {
		stored, err := s.repo.GetByID(ctx, id)
		if err != nil {
			return nil, fmt.Errorf("failed to get cafe %d: %w", id, err)
		}
		if stored == nil {
			return nil, ErrCafeNotFound
		}
		c = *stored
	}
	v := view(c, loc)
	return &v, nil
}

// Stats summarizes the current dataset
func (s *CafeService) Stats() models.CafeStats {
	return stats.Summarize(s.Snapshot())
}

// Distance measures between two arbitrary points. Both ends must be finite,
// in-range positions.
func Distance(fromLat, fromLon, toLat, toLon float64) (models.DistanceResponse, error) {
	from := &models.Coordinates{Latitude: fromLat, Longitude: fromLon}
	to := &models.Coordinates{Latitude: toLat, Longitude: toLon}
	if !spatial.ValidCoordinates(from) || !spatial.ValidCoordinates(to) {
		return models.DistanceResponse{}, ErrInvalidCoordinates
	}

	km := spatial.HaversineDistanceKm(fromLat, fromLon, toLat, toLon)
	return models.DistanceResponse{
		DistanceKm:   km,
		DistanceText: spatial.FormatDistance(km),
	}, nil
}

// view attaches the distance from loc when both ends have a usable position
func view(c models.Cafe, loc *models.UserLocation) models.CafeView {
	v := models.CafeView{Cafe: c}
	if loc == nil {
		return v
	}
	p, ok := spatial.PointOf(c)
	if !ok || !spatial.ValidCoordinates(&models.Coordinates{Latitude: loc.Latitude, Longitude: loc.Longitude}) {
		return v
	}
	km := spatial.HaversineDistanceKm(loc.Latitude, loc.Longitude, p.Lat, p.Lon)
	v.DistanceKm = &km
	v.DistanceText = spatial.FormatDistance(km)
	return v
}
