package spatial

import (
	"math"

	"github.com/ngopidibandung/cafe-map-backend/internal/models"
)

// ClusterBypassZoom is the zoom level from which every cafe gets its own marker
const ClusterBypassZoom = 15

// CellSize returns the grid cell size in degrees for a zoom level, or 0 when
// clustering is bypassed. Lower zoom covers more ground per pixel and gets a
// coarser grid.
func CellSize(zoom int) float64 {
	switch {
	case zoom >= ClusterBypassZoom:
		return 0
	case zoom >= 14:
		return 0.02
	case zoom >= 12:
		return 0.05
	default:
		return 0.1
	}
}

// cellKey identifies a grid cell by floored latitude and longitude indices
type cellKey struct {
	lat int64
	lon int64
}

// gridCell accumulates the members of one cell
type gridCell struct {
	count   int
	sumLat  float64
	sumLon  float64
	members []models.Cafe
}

// Cluster groups cafes into render-ready markers for a zoom level.
//
// Cafes without valid coordinates are dropped. Below ClusterBypassZoom each
// cafe is assigned to the cell floor(lat/size), floor(lon/size); a cell with
// one member becomes a single, a cell with more becomes a cluster at the mean
// member position. Output order follows the first appearance of each cell in
// the input, so identical input always yields identical output.
func Cluster(cafes []models.Cafe, zoom int) []models.ClusterResult {
	size := CellSize(zoom)
	if size == 0 {
		return singles(cafes)
	}

	cells := make(map[cellKey]*gridCell)
	var order []cellKey

	for _, c := range cafes {
		p, ok := PointOf(c)
		if !ok {
			continue
		}

		key := cellKey{
			lat: int64(math.Floor(p.Lat / size)),
			lon: int64(math.Floor(p.Lon / size)),
		}

		cell, exists := cells[key]
		if !exists {
			cell = &gridCell{}
			cells[key] = cell
			order = append(order, key)
		}
		cell.count++
		cell.sumLat += p.Lat
		cell.sumLon += p.Lon
		cell.members = append(cell.members, c)
	}

	results := make([]models.ClusterResult, 0, len(order))
	for _, key := range order {
		cell := cells[key]
		if cell.count == 1 {
			results = append(results, single(cell.members[0]))
			continue
		}
		results = append(results, models.ClusterResult{
			Kind: models.ClusterKindCluster,
			Centroid: &models.Centroid{
				Latitude:  cell.sumLat / float64(cell.count),
				Longitude: cell.sumLon / float64(cell.count),
			},
			Count:   cell.count,
			Members: cell.members,
		})
	}

	return results
}

// singles emits one marker per mappable cafe, in input order
func singles(cafes []models.Cafe) []models.ClusterResult {
	results := make([]models.ClusterResult, 0, len(cafes))
	for _, c := range cafes {
		if _, ok := PointOf(c); ok {
			results = append(results, single(c))
		}
	}
	return results
}

func single(c models.Cafe) models.ClusterResult {
	return models.ClusterResult{Kind: models.ClusterKindSingle, Record: &c}
}

// Bounds returns the bounding box of a marker's members as
// (minLat, minLon, maxLat, maxLon). Renderers use it to zoom into a cluster.
func Bounds(r models.ClusterResult) (float64, float64, float64, float64) {
	var points []Point
	for _, c := range r.Cafes() {
		if p, ok := PointOf(c); ok {
			points = append(points, p)
		}
	}
	return BoundingBox(points)
}

// MemberCentroid returns the mean position of a marker's mappable members,
// false when none of them has a position
func MemberCentroid(r models.ClusterResult) (Point, bool) {
	var points []Point
	for _, c := range r.Cafes() {
		if p, ok := PointOf(c); ok {
			points = append(points, p)
		}
	}
	if len(points) == 0 {
		return Point{}, false
	}
	return Centroid(points), true
}

// CountMappable returns how many cafes carry valid coordinates
func CountMappable(cafes []models.Cafe) int {
	n := 0
	for _, c := range cafes {
		if ValidCoordinates(c.Coordinates) {
			n++
		}
	}
	return n
}
