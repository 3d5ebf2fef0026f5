package model

import (
	"time"

	"gorm.io/gorm"

	"github.com/dhippo78/flexible-polyline/flexpolyline"
)

// Route is the unified model for a stored route (used for both PostgreSQL and Redis)
type Route struct {
	ID             string  `json:"id" gorm:"primaryKey"`
	Name           string  `json:"name" gorm:"size:255;not null"`
	Polyline       string  `json:"polyline" gorm:"type:text;not null"`
	ThirdDimension int     `json:"third_dimension" gorm:"not null"`
	LengthMeters   float64 `json:"length_meters" gorm:"not null"`
	PointCount     int     `json:"point_count" gorm:"not null"`

	UpdatedAt time.Time      `json:"updated_at" gorm:"column:updated_at"`
	CreatedAt time.Time      `json:"-" gorm:"column:created_at"`
	DeletedAt gorm.DeletedAt `json:"-" gorm:"column:deleted_at;index"`

	// Decoded geometry, kept in memory only and rebuilt from Polyline on demand.
	Points []flexpolyline.Point `json:"-" gorm:"-"`
}

// ToLightVersion returns a lighter version of the route for Redis payloads,
// without the decoded geometry.
func (r *Route) ToLightVersion() *Route {
	return &Route{
		ID:             r.ID,
		Name:           r.Name,
		Polyline:       r.Polyline,
		ThirdDimension: r.ThirdDimension,
		LengthMeters:   r.LengthMeters,
		PointCount:     r.PointCount,
		UpdatedAt:      r.UpdatedAt,
	}
}
