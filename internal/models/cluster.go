package models

// ClusterKind distinguishes individual markers from aggregate markers
type ClusterKind string

const (
	ClusterKindSingle  ClusterKind = "single"
	ClusterKindCluster ClusterKind = "cluster"
)

// Centroid is the mean position of a cluster's members
type Centroid struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

// ClusterResult is one render-ready marker. It is derived on every zoom or
// filter change and never persisted.
//
// A single wraps exactly one Record; a cluster carries Centroid, Count and Members.
type ClusterResult struct {
	Kind     ClusterKind `json:"kind"`
	Record   *Cafe       `json:"record,omitempty"`
	Centroid *Centroid   `json:"centroid,omitempty"`
	Count    int         `json:"count,omitempty"`
	Members  []Cafe      `json:"members,omitempty"`
}

// IsCluster reports whether the result aggregates more than one cafe
func (r ClusterResult) IsCluster() bool {
	return r.Kind == ClusterKindCluster
}

// Cafes returns the cafes represented by the marker
func (r ClusterResult) Cafes() []Cafe {
	if r.Kind == ClusterKindSingle && r.Record != nil {
		return []Cafe{*r.Record}
	}
	return r.Members
}

// ClusterResponse is the payload of the cluster endpoint
type ClusterResponse struct {
	Zoom          int             `json:"zoom"`
	CellSize      float64         `json:"cellSize"` // degrees, 0 when clustering is bypassed
	Markers       []ClusterResult `json:"markers"`
	Total         int             `json:"total"`   // filtered cafes
	Skipped       int             `json:"skipped"` // filtered cafes without valid coordinates
	ActiveFilters int             `json:"activeFilters"`
}

// DistanceResponse is the payload of the distance endpoint
type DistanceResponse struct {
	DistanceKm   float64 `json:"distanceKm"`
	DistanceText string  `json:"distanceText"`
}

// CafeStats summarizes the loaded dataset
type CafeStats struct {
	Total           int            `json:"total"`
	WithCoordinates int            `json:"withCoordinates"`
	Rated           int            `json:"rated"`
	MeanRating      float64        `json:"meanRating"`
	WithDownload    int            `json:"withDownload"`
	MedianDownload  float64        `json:"medianDownload"`
	P90Download     float64        `json:"p90Download"`
	Amenities       map[string]int `json:"amenities"`
}
