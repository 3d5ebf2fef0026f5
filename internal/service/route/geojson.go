package route

import (
	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"

	"github.com/dhippo78/flexible-polyline/flexpolyline"
)

// ExportGeoJSON renders a stored route as a GeoJSON FeatureCollection with a
// LineString geometry and the route stats as properties.
func (s *RouteService) ExportGeoJSON(id string) ([]byte, error) {
	route, err := s.GetRoute(id)
	if err != nil {
		return nil, err
	}

	fc := geojson.NewFeatureCollection()

	line := make(orb.LineString, 0, len(route.Points))
	for _, p := range route.Points {
		line = append(line, orb.Point{p.Lng, p.Lat}) // [lon, lat] for GeoJSON
	}

	feature := geojson.NewFeature(line)
	feature.Properties["id"] = route.ID
	feature.Properties["name"] = route.Name
	feature.Properties["length_meters"] = route.LengthMeters
	feature.Properties["point_count"] = route.PointCount
	feature.Properties["third_dimension"] = flexpolyline.ThirdDimension(route.ThirdDimension).String()
	fc.Append(feature)

	return fc.MarshalJSON()
}
