package api

import (
	routes "github.com/dhippo78/flexible-polyline/internal/api/handlers"

	"github.com/gin-gonic/gin"
)

// SetupRouter initializes all application routes
func SetupRouter(r *gin.Engine, config map[string]string) {
	// API group
	api := r.Group("/api")

	// Setup main handlers
	routes.SetupMainHandlers(r.Group(""), config)

	// Setup polyline decoding handlers
	routes.SetupPolylineHandlers(api)

	// Setup route management handlers
	routes.SetupRouteHandlers(api)
}
