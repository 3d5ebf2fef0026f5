package routes

import (
	"errors"
	"log"

	"github.com/gin-gonic/gin"

	"github.com/dhippo78/flexible-polyline/flexpolyline"
)

// DecodeRequest is the body for the polyline decoding endpoints
type DecodeRequest struct {
	Polyline string `json:"polyline" binding:"required"`
}

// SetupPolylineHandlers registers the raw polyline decoding endpoints
func SetupPolylineHandlers(router *gin.RouterGroup) {
	polylineGroup := router.Group("/polyline")

	polylineGroup.POST("/decode", DecodePolyline)
	polylineGroup.POST("/third-dimension", PeekThirdDimension)
}

// DecodePolyline decodes the submitted polyline and returns its points
func DecodePolyline(c *gin.Context) {
	var req DecodeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(400, gin.H{
			"status": "error",
			"error":  "invalid_argument",
		})
		return
	}

	points, err := flexpolyline.Decode(req.Polyline)
	if err != nil {
		log.Printf("Decode failed: %v", err)
		c.JSON(400, gin.H{
			"status": "error",
			"error":  decodeErrorKind(err),
		})
		return
	}

	c.JSON(200, gin.H{
		"status": "success",
		"points": points,
		"count":  len(points),
	})
}

// PeekThirdDimension parses only the header and reports the third-dimension kind
func PeekThirdDimension(c *gin.Context) {
	var req DecodeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(400, gin.H{
			"status": "error",
			"error":  "invalid_argument",
		})
		return
	}

	kind, err := flexpolyline.ThirdDimensionOf(req.Polyline)
	if err != nil {
		log.Printf("Header peek failed: %v", err)
		c.JSON(400, gin.H{
			"status": "error",
			"error":  decodeErrorKind(err),
		})
		return
	}

	c.JSON(200, gin.H{
		"status":          "success",
		"third_dimension": kind.String(),
		"code":            int(kind),
	})
}

// decodeErrorKind maps decoder failures to their taxonomy name
func decodeErrorKind(err error) string {
	switch {
	case errors.Is(err, flexpolyline.ErrInvalidArgument):
		return "invalid_argument"
	case errors.Is(err, flexpolyline.ErrInvalidFormatVersion):
		return "invalid_format_version"
	case errors.Is(err, flexpolyline.ErrInvalidEncoding):
		return "invalid_encoding"
	default:
		return "internal_error"
	}
}
