// Package geo provides great-circle distance math for dispatch and routing.
package geo

import (
	"github.com/golang/geo/s2"

	"smartcity-service/internal/model"
)

// EarthRadiusKm is Earth's mean radius.
const EarthRadiusKm = 6371.0

// DistanceKm returns the great-circle distance between two points in
// kilometers using the haversine formula.
func DistanceKm(a, b model.Coordinate) float64 {
	p1 := s2.LatLngFromDegrees(a.Lat, a.Lng)
	p2 := s2.LatLngFromDegrees(b.Lat, b.Lng)
	return p1.Distance(p2).Radians() * EarthRadiusKm
}
