package spatial

import (
	"math"

	"github.com/golang/geo/s2"

	"github.com/ngopidibandung/cafe-map-backend/internal/models"
)

// Point represents a 2D point with latitude and longitude
type Point struct {
	Lat float64
	Lon float64
}

// ValidCoordinates reports whether c is a finite, in-range WGS84 position
func ValidCoordinates(c *models.Coordinates) bool {
	if c == nil {
		return false
	}
	if math.IsNaN(c.Latitude) || math.IsNaN(c.Longitude) {
		return false
	}
	return s2.LatLngFromDegrees(c.Latitude, c.Longitude).IsValid()
}

// PointOf returns the cafe position and whether it is usable for mapping
func PointOf(c models.Cafe) (Point, bool) {
	if !ValidCoordinates(c.Coordinates) {
		return Point{}, false
	}
	return Point{Lat: c.Coordinates.Latitude, Lon: c.Coordinates.Longitude}, true
}

// Centroid calculates the arithmetic mean position of a set of points
func Centroid(points []Point) Point {
	if len(points) == 0 {
		return Point{}
	}

	var sumLat, sumLon float64
	for _, p := range points {
		sumLat += p.Lat
		sumLon += p.Lon
	}

	return Point{
		Lat: sumLat / float64(len(points)),
		Lon: sumLon / float64(len(points)),
	}
}

// BoundingBox calculates the bounding box of a set of points
// Returns (minLat, minLon, maxLat, maxLon)
func BoundingBox(points []Point) (float64, float64, float64, float64) {
	if len(points) == 0 {
		return 0, 0, 0, 0
	}

	minLat, minLon := points[0].Lat, points[0].Lon
	maxLat, maxLon := points[0].Lat, points[0].Lon

	for _, p := range points[1:] {
		minLat = math.Min(minLat, p.Lat)
		minLon = math.Min(minLon, p.Lon)
		maxLat = math.Max(maxLat, p.Lat)
		maxLon = math.Max(maxLon, p.Lon)
	}

	return minLat, minLon, maxLat, maxLon
}
