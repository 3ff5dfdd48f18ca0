package spatial

import (
	"fmt"
	"math"

	"github.com/golang/geo/s2"
)

// Constants
const (
	EarthRadiusMeters = 6371000.0 // Earth's mean radius in meters
	EarthRadiusKm     = 6371.0    // Earth's mean radius in kilometers
)

// HaversineDistance calculates the great-circle distance between two points in meters
func HaversineDistance(lat1, lon1, lat2, lon2 float64) float64 {
	return HaversineDistanceKm(lat1, lon1, lat2, lon2) * 1000
}

// HaversineDistanceKm calculates the great-circle distance between two points
// in kilometers on a sphere of radius EarthRadiusKm
func HaversineDistanceKm(lat1, lon1, lat2, lon2 float64) float64 {
	p1 := s2.LatLngFromDegrees(lat1, lon1)
	p2 := s2.LatLngFromDegrees(lat2, lon2)
	return p1.Distance(p2).Radians() * EarthRadiusKm
}

// FormatDistance renders a distance badge: one decimal place in km from
// 1 km up, whole meters below that.
func FormatDistance(km float64) string {
	if km >= 1 {
		return fmt.Sprintf("%.1f km", km)
	}
	return fmt.Sprintf("%d m", int(math.Round(km*1000)))
}
