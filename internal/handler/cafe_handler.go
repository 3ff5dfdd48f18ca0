package handler

import (
	"errors"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/ngopidibandung/cafe-map-backend/internal/filter"
	"github.com/ngopidibandung/cafe-map-backend/internal/models"
	"github.com/ngopidibandung/cafe-map-backend/internal/service"
	"github.com/ngopidibandung/cafe-map-backend/pkg/response"
)

// CafeHandler handles HTTP requests for cafes
type CafeHandler struct {
	cafeService *service.CafeService
}

// NewCafeHandler creates a new cafe handler
func NewCafeHandler(cafeService *service.CafeService) *CafeHandler {
	return &CafeHandler{
		cafeService: cafeService,
	}
}

// ListCafes handles GET /api/v1/cafes
func (h *CafeHandler) ListCafes(c *gin.Context) {
	var query models.CafeQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		response.BadRequest(c, "Invalid query parameters")
		return
	}
	if query.Limit < 0 || query.Offset < 0 {
		response.BadRequest(c, "limit and offset must not be negative")
		return
	}

	response.Success(c, h.cafeService.Search(query))
}

// GetCafe handles GET /api/v1/cafes/:id
func (h *CafeHandler) GetCafe(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		response.BadRequest(c, "Invalid cafe ID")
		return
	}

	var loc struct {
		Lat *float64 `form:"lat"`
		Lon *float64 `form:"lon"`
	}
	if err := c.ShouldBindQuery(&loc); err != nil {
		response.BadRequest(c, "Invalid location parameters")
		return
	}
	var user *models.UserLocation
	if loc.Lat != nil && loc.Lon != nil {
		user = &models.UserLocation{Latitude: *loc.Lat, Longitude: *loc.Lon}
	}

	cafe, err := h.cafeService.Detail(c.Request.Context(), id, user)
	if errors.Is(err, service.ErrCafeNotFound) {
		response.NotFound(c, "Cafe not found")
		return
	}
	if err != nil {
		response.InternalError(c, err.Error())
		return
	}

	response.Success(c, cafe)
}

// GetClusters handles GET /api/v1/cafes/clusters
func (h *CafeHandler) GetClusters(c *gin.Context) {
	var query models.ClusterQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		response.BadRequest(c, "Invalid query parameters: zoom is required")
		return
	}

	result, err := h.cafeService.Clusters(query.CafeQuery, *query.Zoom)
	if errors.Is(err, service.ErrInvalidZoom) {
		response.BadRequest(c, err.Error())
		return
	}
	if err != nil {
		response.InternalError(c, err.Error())
		return
	}

	response.Success(c, result)
}

// GetStats handles GET /api/v1/cafes/stats
func (h *CafeHandler) GetStats(c *gin.Context) {
	response.Success(c, h.cafeService.Stats())
}

// CountFilters handles GET /api/v1/filters/count
func (h *CafeHandler) CountFilters(c *gin.Context) {
	var state models.FilterState
	if err := c.ShouldBindQuery(&state); err != nil {
		response.BadRequest(c, "Invalid filter parameters")
		return
	}

	response.Success(c, gin.H{"activeFilters": filter.CountActive(state)})
}

// GetDistance handles GET /api/v1/distance
func (h *CafeHandler) GetDistance(c *gin.Context) {
	var q models.DistanceQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		response.BadRequest(c, "fromLat, fromLon, toLat and toLon are required")
		return
	}

	result, err := service.Distance(*q.FromLat, *q.FromLon, *q.ToLat, *q.ToLon)
	if errors.Is(err, service.ErrInvalidCoordinates) {
		response.BadRequest(c, err.Error())
		return
	}
	if err != nil {
		response.InternalError(c, err.Error())
		return
	}

	response.Success(c, result)
}
