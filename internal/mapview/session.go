package mapview

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/ngopidibandung/cafe-map-backend/internal/models"
	"github.com/ngopidibandung/cafe-map-backend/internal/spatial"
)

// ErrStaleLocation is returned when a location arrives after the detail view
// it was requested for has been closed or replaced
var ErrStaleLocation = errors.New("detail view changed before location arrived")

// DetailSession tracks the open cafe detail view and its one-shot user
// location. A generation counter invalidates in-flight requests whenever
// the view changes.
type DetailSession struct {
	geolocator Geolocator
	timeout    time.Duration

	mu         sync.Mutex
	generation uint64
	cafe       *models.Cafe
	location   *models.UserLocation
	lastErr    error
}

// NewDetailSession creates a session using g for location requests
func NewDetailSession(g Geolocator, timeout time.Duration) *DetailSession {
	return &DetailSession{geolocator: g, timeout: timeout}
}

// Open shows a cafe and discards any location from a previous view
func (s *DetailSession) Open(cafe models.Cafe) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.generation++
	s.cafe = &cafe
	s.location = nil
	s.lastErr = nil
}

// Close hides the detail view
func (s *DetailSession) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.generation++
	s.cafe = nil
	s.location = nil
	s.lastErr = nil
}

// Active returns the cafe on display, if any
func (s *DetailSession) Active() (models.Cafe, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.cafe == nil {
		return models.Cafe{}, false
	}
	return *s.cafe, true
}

// ResolveLocation requests the user position for the current view. It
// blocks for at most the session timeout; run it in a goroutine to keep the
// view responsive. A result for a view that is no longer active is dropped
// and reported as ErrStaleLocation.
func (s *DetailSession) ResolveLocation(ctx context.Context) error {
	s.mu.Lock()
	gen := s.generation
	open := s.cafe != nil
	s.mu.Unlock()
	if !open {
		return ErrStaleLocation
	}

	pos, err := RequestPosition(ctx, s.geolocator, s.timeout)

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.generation != gen || s.cafe == nil {
		return ErrStaleLocation
	}
	if err != nil {
		s.lastErr = err
		return err
	}
	s.location = &models.UserLocation{Latitude: pos.Latitude, Longitude: pos.Longitude}
	return nil
}

// LocationError returns the failure of the last location request for this view
func (s *DetailSession) LocationError() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastErr
}

// Distance returns the distance badge for the open cafe once the user
// location is known
func (s *DetailSession) Distance() (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.cafe == nil || s.location == nil {
		return "", false
	}
	p, ok := spatial.PointOf(*s.cafe)
	if !ok {
		return "", false
	}
	km := spatial.HaversineDistanceKm(s.location.Latitude, s.location.Longitude, p.Lat, p.Lon)
	return spatial.FormatDistance(km), true
}
