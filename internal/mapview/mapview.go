// Package mapview drives an external map renderer from the filter engine and
// the clusterer. The renderer is injected; nothing here draws directly.
package mapview

import (
	"context"
	"errors"
	"fmt"
	"log"
	"math"
	"sync"
	"time"

	"github.com/ngopidibandung/cafe-map-backend/internal/filter"
	"github.com/ngopidibandung/cafe-map-backend/internal/models"
	"github.com/ngopidibandung/cafe-map-backend/internal/spatial"
)

// BaseLayer is the tile style under the markers
type BaseLayer string

const (
	BaseLayerLight BaseLayer = "light"
	BaseLayerDark  BaseLayer = "dark"
)

// Bandung city center, the initial and reset view
const (
	DefaultLatitude  = -6.9025
	DefaultLongitude = 107.6191
	DefaultZoom      = 13

	// LocateZoom is the minimum zoom after centering on the user
	LocateZoom = 16

	DefaultLocateTimeout = 10 * time.Second
)

// Accuracy circle bounds in meters
const (
	minAccuracyMeters     = 30
	maxAccuracyMeters     = 500
	defaultAccuracyMeters = 80
)

var ErrLocationUnavailable = errors.New("unable to fetch location")

// Position is a geolocation fix. Accuracy is in meters, 0 when unknown.
type Position struct {
	Latitude  float64
	Longitude float64
	Accuracy  float64
}

// Geolocator provides the device position
type Geolocator interface {
	CurrentPosition(ctx context.Context) (Position, error)
}

// Renderer is the adapter around the map library
type Renderer interface {
	Clear()
	DrawSingle(cafe models.Cafe)
	DrawCluster(cluster models.ClusterResult)
	SetBaseLayer(layer BaseLayer)
	FlyTo(lat, lon float64, zoom int)
	ShowUser(loc models.UserLocation, accuracyMeters float64)
}

// MapCommands is the control surface the UI invokes on the map
type MapCommands interface {
	Locate(ctx context.Context) error
	ResetView()
	ToggleBaseLayer()
}

// Controller owns the view state and re-renders whenever it changes.
// State is replaced wholesale by the setters, never edited in place.
type Controller struct {
	renderer      Renderer
	geolocator    Geolocator
	locateTimeout time.Duration

	mu      sync.Mutex
	cafes   []models.Cafe
	filters models.FilterState
	query   string
	zoom    int
	layer   BaseLayer
	markers []models.ClusterResult
}

var _ MapCommands = (*Controller)(nil)

// NewController creates a controller over an immutable dataset snapshot
func NewController(r Renderer, g Geolocator, cafes []models.Cafe, locateTimeout time.Duration) *Controller {
	if locateTimeout <= 0 {
		locateTimeout = DefaultLocateTimeout
	}
	return &Controller{
		renderer:      r,
		geolocator:    g,
		locateTimeout: locateTimeout,
		cafes:         cafes,
		zoom:          DefaultZoom,
		layer:         BaseLayerLight,
	}
}

// SetDataset replaces the dataset snapshot
func (c *Controller) SetDataset(cafes []models.Cafe) {
	c.mu.Lock()
	c.cafes = cafes
	c.mu.Unlock()
	c.Render()
}

// SetFilters replaces the filter state
func (c *Controller) SetFilters(f models.FilterState) {
	c.mu.Lock()
	c.filters = f
	c.mu.Unlock()
	c.Render()
}

// ResetFilters restores the fully permissive filter state
func (c *Controller) ResetFilters() {
	c.SetFilters(models.FilterState{})
}

// SetQuery replaces the search text
func (c *Controller) SetQuery(q string) {
	c.mu.Lock()
	c.query = filter.NormalizeQuery(q)
	c.mu.Unlock()
	c.Render()
}

// SetZoom records a zoom change reported by the renderer
func (c *Controller) SetZoom(zoom int) {
	c.mu.Lock()
	changed := c.zoom != zoom
	c.zoom = zoom
	c.mu.Unlock()
	if changed {
		c.Render()
	}
}

// SetTheme follows the app theme; anything but "dark" maps to light tiles
func (c *Controller) SetTheme(theme string) {
	layer := BaseLayerLight
	if theme == string(BaseLayerDark) {
		layer = BaseLayerDark
	}
	c.applyBaseLayer(layer)
}

// Filtered returns the cafes passing the current filters, e.g. for the list panel
func (c *Controller) Filtered() []models.Cafe {
	c.mu.Lock()
	defer c.mu.Unlock()
	return filter.Apply(c.cafes, c.filters, c.query)
}

// ActiveFilterCount feeds the filter badge
func (c *Controller) ActiveFilterCount() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return filter.CountActive(c.filters)
}

// Markers returns the markers of the last render
func (c *Controller) Markers() []models.ClusterResult {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.markers
}

// Zoom returns the current zoom level
func (c *Controller) Zoom() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.zoom
}

// BaseLayer returns the active tile style
func (c *Controller) BaseLayer() BaseLayer {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.layer
}

// Render recomputes filter -> cluster and hands the markers to the renderer
func (c *Controller) Render() {
	c.mu.Lock()
	matched := filter.Apply(c.cafes, c.filters, c.query)
	markers := spatial.Cluster(matched, c.zoom)
	c.markers = markers
	c.mu.Unlock()

	c.renderer.Clear()
	for _, m := range markers {
		if m.IsCluster() {
			c.renderer.DrawCluster(m)
			continue
		}
		c.renderer.DrawSingle(*m.Record)
	}
}

// ZoomToCluster flies into a cluster so its members separate. A marker
// without a centroid is centered on its members.
func (c *Controller) ZoomToCluster(m models.ClusterResult) {
	if !m.IsCluster() {
		return
	}
	var target spatial.Point
	if m.Centroid != nil {
		target = spatial.Point{Lat: m.Centroid.Latitude, Lon: m.Centroid.Longitude}
	} else {
		p, ok := spatial.MemberCentroid(m)
		if !ok {
			return
		}
		target = p
	}
	c.mu.Lock()
	next := c.zoom + 2
	c.mu.Unlock()
	if next > spatial.ClusterBypassZoom {
		next = spatial.ClusterBypassZoom
	}
	c.renderer.FlyTo(target.Lat, target.Lon, next)
	c.SetZoom(next)
}

// ResetView flies back to the city center
func (c *Controller) ResetView() {
	c.renderer.FlyTo(DefaultLatitude, DefaultLongitude, DefaultZoom)
	c.SetZoom(DefaultZoom)
}

// ToggleBaseLayer switches between light and dark tiles
func (c *Controller) ToggleBaseLayer() {
	next := BaseLayerDark
	if c.BaseLayer() == BaseLayerDark {
		next = BaseLayerLight
	}
	c.applyBaseLayer(next)
}

func (c *Controller) applyBaseLayer(layer BaseLayer) {
	c.mu.Lock()
	c.layer = layer
	c.mu.Unlock()
	c.renderer.SetBaseLayer(layer)
}

// Locate asks for the device position, marks it and centers the map on it
func (c *Controller) Locate(ctx context.Context) error {
	pos, err := RequestPosition(ctx, c.geolocator, c.locateTimeout)
	if err != nil {
		log.Printf("[MapController] Unable to get location: %v", err)
		return err
	}

	loc := models.UserLocation{Latitude: pos.Latitude, Longitude: pos.Longitude}
	c.renderer.ShowUser(loc, ClampAccuracy(pos.Accuracy))

	c.mu.Lock()
	zoom := c.zoom
	c.mu.Unlock()
	if zoom < LocateZoom {
		zoom = LocateZoom
	}
	c.renderer.FlyTo(pos.Latitude, pos.Longitude, zoom)
	c.SetZoom(zoom)
	return nil
}

// RequestPosition performs one bounded geolocation request
func RequestPosition(ctx context.Context, g Geolocator, timeout time.Duration) (Position, error) {
	if g == nil {
		return Position{}, fmt.Errorf("%w: geolocation is not available", ErrLocationUnavailable)
	}
	if timeout <= 0 {
		timeout = DefaultLocateTimeout
	}

	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	type result struct {
		pos Position
		err error
	}
	done := make(chan result, 1)
	go func() {
		pos, err := g.CurrentPosition(ctx)
		done <- result{pos, err}
	}()

	select {
	case <-ctx.Done():
		return Position{}, fmt.Errorf("%w: %v", ErrLocationUnavailable, ctx.Err())
	case r := <-done:
		if r.err != nil {
			return Position{}, fmt.Errorf("%w: %v", ErrLocationUnavailable, r.err)
		}
		if !spatial.ValidCoordinates(&models.Coordinates{Latitude: r.pos.Latitude, Longitude: r.pos.Longitude}) {
			return Position{}, fmt.Errorf("%w: invalid position", ErrLocationUnavailable)
		}
		return r.pos, nil
	}
}

// ClampAccuracy bounds the accuracy circle; unknown accuracy gets a default
func ClampAccuracy(meters float64) float64 {
	if meters <= 0 || math.IsNaN(meters) {
		meters = defaultAccuracyMeters
	}
	return math.Min(math.Max(meters, minAccuracyMeters), maxAccuracyMeters)
}
