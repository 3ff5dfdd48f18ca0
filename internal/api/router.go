package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/ngopidibandung/cafe-map-backend/internal/auth"
	"github.com/ngopidibandung/cafe-map-backend/internal/config"
	"github.com/ngopidibandung/cafe-map-backend/internal/handler"
	"github.com/ngopidibandung/cafe-map-backend/internal/middleware"
	"github.com/ngopidibandung/cafe-map-backend/internal/service"
)

// SetupRouter wires middleware and handlers onto a gin engine
func SetupRouter(cfg *config.Config, cafeService *service.CafeService, authenticator *auth.Authenticator, limiter *middleware.RateLimiter) *gin.Engine {
	r := gin.New()
	r.Use(middleware.RequestID(), middleware.Logger(), gin.Recovery())

	// CORS
	r.Use(func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization, X-Request-ID")
		c.Writer.Header().Set("Access-Control-Expose-Headers", "X-Request-ID")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}

		c.Next()
	})

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":  "ok",
			"message": "Cafe map backend is running",
			"cafes":   len(cafeService.Snapshot()),
		})
	})

	cafeHandler := handler.NewCafeHandler(cafeService)
	mapHandler := handler.NewMapHandler(cfg.LocateTimeout)
	adminHandler := handler.NewAdminHandler(authenticator, cafeService)

	api := r.Group("/api/v1")
	if limiter != nil {
		api.Use(middleware.RateLimit(limiter))
	}
	{
		cafes := api.Group("/cafes")
		{
			cafes.GET("", cafeHandler.ListCafes)
			cafes.GET("/clusters", cafeHandler.GetClusters)
			cafes.GET("/stats", cafeHandler.GetStats)
			cafes.GET("/:id", cafeHandler.GetCafe)
		}

		api.GET("/filters/count", cafeHandler.CountFilters)
		api.GET("/distance", cafeHandler.GetDistance)
		api.GET("/map/defaults", mapHandler.GetDefaults)

		api.POST("/auth/login", adminHandler.Login)

		admin := api.Group("/admin")
		admin.Use(middleware.RequireAuth(authenticator))
		{
			admin.POST("/reload", adminHandler.Reload)
		}
	}

	return r
}
