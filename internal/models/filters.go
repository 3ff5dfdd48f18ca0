package models

// FilterState is the active filter selection. The zero value is fully
// permissive: every toggle off and every threshold nil.
type FilterState struct {
	FastWifi      bool `json:"fastWifi" form:"fastWifi"` // download >= 40 Mbps
	HasMusala     bool `json:"hasMusala" form:"hasMusala"`
	ParkingMotor  bool `json:"parkingMotor" form:"parkingMotor"`
	ParkingCar    bool `json:"parkingCar" form:"parkingCar"`
	Cashless      bool `json:"cashless" form:"cashless"`
	Cash          bool `json:"cash" form:"cash"`
	HasServiceTax bool `json:"hasServiceTax" form:"hasServiceTax"`
	HasMenu       bool `json:"hasMenu" form:"hasMenu"`
	HasInstagram  bool `json:"hasInstagram" form:"hasInstagram"`
	HasTakeaway   bool `json:"hasTakeaway" form:"hasTakeaway"`

	MinDownload *float64 `json:"minDownload,omitempty" form:"minDownload"` // Mbps
	MinRating   *float64 `json:"minRating,omitempty" form:"minRating"`
	MaxPrice    *float64 `json:"maxPrice,omitempty" form:"maxPrice"` // Rupiah
}

// CafeQuery represents query parameters for listing and clustering cafes
type CafeQuery struct {
	FilterState
	Query  string   `form:"q"`
	Lat    *float64 `form:"lat"`
	Lon    *float64 `form:"lon"`
	Limit  int      `form:"limit"`
	Offset int      `form:"offset"`
}

// UserLocation returns the viewer position when both lat and lon were supplied.
func (q CafeQuery) UserLocation() *UserLocation {
	if q.Lat == nil || q.Lon == nil {
		return nil
	}
	return &UserLocation{Latitude: *q.Lat, Longitude: *q.Lon}
}

// ClusterQuery represents query parameters for the cluster endpoint
type ClusterQuery struct {
	CafeQuery
	Zoom *int `form:"zoom" binding:"required"`
}

// DistanceQuery represents query parameters for a point-to-point distance
type DistanceQuery struct {
	FromLat *float64 `form:"fromLat" binding:"required"`
	FromLon *float64 `form:"fromLon" binding:"required"`
	ToLat   *float64 `form:"toLat" binding:"required"`
	ToLon   *float64 `form:"toLon" binding:"required"`
}
