// Package geo validates submitted coordinates against the office geofence.
package geo

import (
	"errors"
	"math"
)

var ErrInvalidLocation = errors.New("invalid location")

const earthRadiusMeters = 6371000.0

type Point struct {
	Latitude  float64
	Longitude float64
}

type Verdict struct {
	DistanceMeters float64
	WithinRadius   bool
}

// Haversine returns the great-circle distance between two points in meters.
func Haversine(a, b Point) float64 {
	lat1 := a.Latitude * math.Pi / 180
	lat2 := b.Latitude * math.Pi / 180
	dLat := (b.Latitude - a.Latitude) * math.Pi / 180
	dLng := (b.Longitude - a.Longitude) * math.Pi / 180

	h := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(lat1)*math.Cos(lat2)*math.Sin(dLng/2)*math.Sin(dLng/2)
	return 2 * earthRadiusMeters * math.Asin(math.Sqrt(h))
}

// Evaluate computes the distance from point to the office center and whether
// it falls inside the radius. The boundary is inclusive: a point at exactly
// radiusMeters is within range.
func Evaluate(point, office Point, radiusMeters float64) (Verdict, error) {
	if !valid(point) || !valid(office) || math.IsNaN(radiusMeters) || radiusMeters < 0 {
		return Verdict{}, ErrInvalidLocation
	}
	distance := Haversine(point, office)
	return Verdict{
		DistanceMeters: distance,
		WithinRadius:   distance <= radiusMeters,
	}, nil
}

func valid(p Point) bool {
	if math.IsNaN(p.Latitude) || math.IsNaN(p.Longitude) {
		return false
	}
	return p.Latitude >= -90 && p.Latitude <= 90 && p.Longitude >= -180 && p.Longitude <= 180
}
