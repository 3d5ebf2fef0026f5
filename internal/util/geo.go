package util

import (
	"github.com/golang/geo/s1"
	"github.com/golang/geo/s2"

	"github.com/dhippo78/flexible-polyline/flexpolyline"
)

const earthRadiusMeters = 6371000.0

// HaversineDistance returns the great-circle distance between two points in meters
func HaversineDistance(lat1, lng1, lat2, lng2 float64) float64 {
	// Convert coordinates from degrees to S2 points
	point1 := s2.PointFromLatLng(s2.LatLngFromDegrees(lat1, lng1))
	point2 := s2.PointFromLatLng(s2.LatLngFromDegrees(lat2, lng2))

	// Calculate angle between points
	angle := s1.Angle(s2.ChordAngleBetweenPoints(point1, point2).Angle())

	// Convert angle to distance on Earth's surface
	return angle.Radians() * earthRadiusMeters
}

// RouteLength returns the total great-circle length of a decoded route in meters
func RouteLength(points []flexpolyline.Point) float64 {
	var total float64
	for i := 1; i < len(points); i++ {
		total += HaversineDistance(points[i-1].Lat, points[i-1].Lng, points[i].Lat, points[i].Lng)
	}
	return total
}

// PointToward returns the point reached by travelling distanceMeters from the
// start point toward the end point along the great circle. Overshooting the
// segment returns the end point.
func PointToward(startLat, startLng, endLat, endLng, distanceMeters float64) [2]float64 {
	// Convert degrees to S2 points
	startPoint := s2.PointFromLatLng(s2.LatLngFromDegrees(startLat, startLng))
	endPoint := s2.PointFromLatLng(s2.LatLngFromDegrees(endLat, endLng))

	// Calculate total distance between points
	totalDistanceAngle := s1.Angle(s2.ChordAngleBetweenPoints(startPoint, endPoint).Angle())
	totalDistanceMeters := totalDistanceAngle.Radians() * earthRadiusMeters

	// If requested distance exceeds total distance, return end point
	if distanceMeters >= totalDistanceMeters {
		return [2]float64{endLat, endLng}
	}

	// Interpolate on the great circle path
	fraction := distanceMeters / totalDistanceMeters
	newPoint := s2.Interpolate(fraction, startPoint, endPoint)
	newLatLng := s2.LatLngFromPoint(newPoint)

	return [2]float64{newLatLng.Lat.Degrees(), newLatLng.Lng.Degrees()}
}

// SampleRoute returns route points resampled at approximately intervalMeters
// along the geometry. The first and last points are always kept.
func SampleRoute(points []flexpolyline.Point, intervalMeters float64) []flexpolyline.Point {
	if len(points) == 0 {
		return nil
	}
	if intervalMeters <= 0 || len(points) == 1 {
		return points
	}

	sampled := []flexpolyline.Point{points[0]}
	accumulated := 0.0

	for i := 1; i < len(points); i++ {
		prev := sampled[len(sampled)-1]
		segment := HaversineDistance(prev.Lat, prev.Lng, points[i].Lat, points[i].Lng)

		// Walk the current segment, emitting a sample every interval
		for accumulated+segment >= intervalMeters {
			step := intervalMeters - accumulated
			next := PointToward(prev.Lat, prev.Lng, points[i].Lat, points[i].Lng, step)

			p := flexpolyline.Point{Lat: next[0], Lng: next[1], ThirdDim: points[i].ThirdDim}
			sampled = append(sampled, p)

			segment -= step
			accumulated = 0
			prev = p
		}
		accumulated += segment
	}

	// Always close with the final route point
	last := points[len(points)-1]
	if sampled[len(sampled)-1] != last {
		sampled = append(sampled, last)
	}

	return sampled
}
