package geo

import (
	"math"
	"testing"

	"smartcity-service/internal/model"
)

func TestDistanceKm(t *testing.T) {
	almatyCenter := model.Coordinate{Lat: 43.238949, Lng: 76.889709}
	airport := model.Coordinate{Lat: 43.354202, Lng: 77.045028}

	got := DistanceKm(almatyCenter, airport)
	// Roughly 18 km between the city center and the airport.
	if got < 17 || got > 19 {
		t.Fatalf("DistanceKm = %.3f, want ~18", got)
	}
}

func TestDistanceKmZero(t *testing.T) {
	p := model.Coordinate{Lat: 51.128207, Lng: 71.430411}
	if got := DistanceKm(p, p); got != 0 {
		t.Fatalf("DistanceKm to self = %v, want 0", got)
	}
}

func TestDistanceKmSymmetric(t *testing.T) {
	a := model.Coordinate{Lat: 43.2, Lng: 76.9}
	b := model.Coordinate{Lat: 43.3, Lng: 77.0}
	if d1, d2 := DistanceKm(a, b), DistanceKm(b, a); math.Abs(d1-d2) > 1e-9 {
		t.Fatalf("distance not symmetric: %v vs %v", d1, d2)
	}
}
