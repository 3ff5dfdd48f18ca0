package handler

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/ngopidibandung/cafe-map-backend/internal/mapview"
	"github.com/ngopidibandung/cafe-map-backend/internal/spatial"
	"github.com/ngopidibandung/cafe-map-backend/pkg/response"
)

// MapHandler serves the initial map configuration for clients
type MapHandler struct {
	locateTimeout time.Duration
}

// NewMapHandler creates a new map handler
func NewMapHandler(locateTimeout time.Duration) *MapHandler {
	return &MapHandler{locateTimeout: locateTimeout}
}

// GetDefaults handles GET /api/v1/map/defaults
func (h *MapHandler) GetDefaults(c *gin.Context) {
	response.Success(c, gin.H{
		"center": gin.H{
			"latitude":  mapview.DefaultLatitude,
			"longitude": mapview.DefaultLongitude,
		},
		"zoom":              mapview.DefaultZoom,
		"locateZoom":        mapview.LocateZoom,
		"clusterBypassZoom": spatial.ClusterBypassZoom,
		"locateTimeoutMs":   h.locateTimeout.Milliseconds(),
		"baseLayers":        []mapview.BaseLayer{mapview.BaseLayerLight, mapview.BaseLayerDark},
	})
}
