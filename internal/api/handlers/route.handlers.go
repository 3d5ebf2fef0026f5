package routes

import (
	"errors"
	"log"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/dhippo78/flexible-polyline/internal/service/route"
)

// ImportRouteRequest is the body for the route import endpoint
type ImportRouteRequest struct {
	Name     string `json:"name" binding:"required"`
	Polyline string `json:"polyline" binding:"required"`
}

// SetupRouteHandlers registers the route management endpoints
func SetupRouteHandlers(router *gin.RouterGroup) {
	routeGroup := router.Group("/route")

	routeGroup.POST("", ImportRoute)
	routeGroup.GET("", ListRoutes)
	routeGroup.GET("/:id", GetRoute)
	routeGroup.DELETE("/:id", DeleteRoute)
	routeGroup.GET("/:id/geojson", GetRouteGeoJSON)
	routeGroup.GET("/:id/sample", SampleRoute)
}

// ImportRoute stores a new route from its encoded polyline
func ImportRoute(c *gin.Context) {
	var req ImportRouteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(400, gin.H{
			"status": "error",
			"error":  "invalid_argument",
		})
		return
	}

	r, err := route.GetRouteService().ImportRoute(req.Name, req.Polyline)
	if err != nil {
		log.Printf("Route import failed: %v", err)
		c.JSON(400, gin.H{
			"status": "error",
			"error":  decodeErrorKind(err),
		})
		return
	}

	c.JSON(201, gin.H{
		"status": "success",
		"route":  r,
	})
}

// ListRoutes returns all stored routes
func ListRoutes(c *gin.Context) {
	routes := route.GetRouteService().ListRoutes()
	c.JSON(200, gin.H{
		"status": "success",
		"routes": routes,
		"count":  len(routes),
	})
}

// GetRoute returns one route by id
func GetRoute(c *gin.Context) {
	r, err := route.GetRouteService().GetRoute(c.Param("id"))
	if err != nil {
		routeError(c, err)
		return
	}

	c.JSON(200, gin.H{
		"status": "success",
		"route":  r,
		"points": r.Points,
	})
}

// DeleteRoute removes one route by id
func DeleteRoute(c *gin.Context) {
	if err := route.GetRouteService().DeleteRoute(c.Param("id")); err != nil {
		routeError(c, err)
		return
	}

	c.JSON(200, gin.H{
		"status":  "success",
		"message": "Route deleted",
	})
}

// GetRouteGeoJSON exports one route as a GeoJSON FeatureCollection
func GetRouteGeoJSON(c *gin.Context) {
	data, err := route.GetRouteService().ExportGeoJSON(c.Param("id"))
	if err != nil {
		routeError(c, err)
		return
	}

	c.Data(200, "application/geo+json", data)
}

// SampleRoute returns the route geometry resampled at the requested interval
func SampleRoute(c *gin.Context) {
	interval, err := strconv.ParseFloat(c.DefaultQuery("interval", "100"), 64)
	if err != nil || interval <= 0 {
		c.JSON(400, gin.H{
			"status": "error",
			"error":  "invalid_argument",
		})
		return
	}

	points, err := route.GetRouteService().SampleRoute(c.Param("id"), interval)
	if err != nil {
		routeError(c, err)
		return
	}

	c.JSON(200, gin.H{
		"status":   "success",
		"interval": interval,
		"points":   points,
		"count":    len(points),
	})
}

// routeError maps service failures to HTTP responses
func routeError(c *gin.Context, err error) {
	if errors.Is(err, route.ErrRouteNotFound) {
		c.JSON(404, gin.H{
			"status": "error",
			"error":  "route_not_found",
		})
		return
	}

	log.Printf("Route handler error: %v", err)
	c.JSON(500, gin.H{
		"status": "error",
		"error":  "internal_error",
	})
}
