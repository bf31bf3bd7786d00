package geo_test

import (
	"errors"
	"math"
	"testing"

	"github.com/nandashakira23-blip/api-presensi-sub000/internal/geo"
)

func TestHaversine_Symmetric(t *testing.T) {
	pairs := []struct {
		a, b geo.Point
	}{
		{geo.Point{Latitude: 0, Longitude: 0}, geo.Point{Latitude: 0.001, Longitude: 0.001}},
		{geo.Point{Latitude: -6.2, Longitude: 106.8}, geo.Point{Latitude: -6.9, Longitude: 107.6}},
		{geo.Point{Latitude: 89.9, Longitude: 179.9}, geo.Point{Latitude: -89.9, Longitude: -179.9}},
	}
	for _, pair := range pairs {
		forward := geo.Haversine(pair.a, pair.b)
		backward := geo.Haversine(pair.b, pair.a)
		if forward != backward {
			t.Errorf("haversine not symmetric: %v vs %v", forward, backward)
		}
	}
}

func TestHaversine_KnownDistance(t *testing.T) {
	// One degree of latitude is roughly 111.2 km.
	a := geo.Point{Latitude: 0, Longitude: 0}
	b := geo.Point{Latitude: 1, Longitude: 0}
	got := geo.Haversine(a, b)
	if math.Abs(got-111195) > 200 {
		t.Errorf("expected ~111195m, got %v", got)
	}
}

func TestEvaluate_InclusiveBoundary(t *testing.T) {
	office := geo.Point{Latitude: 0, Longitude: 0}

	// ~1 meter of latitude near the equator.
	const degPerMeter = 1.0 / 111195.0

	inside := geo.Point{Latitude: 99.9999 * degPerMeter, Longitude: 0}
	verdict, err := geo.Evaluate(inside, office, 100)
	if err != nil {
		t.Fatalf("Evaluate: %v", err)
	}
	if !verdict.WithinRadius {
		t.Errorf("expected point at %.4fm to be within 100m radius", verdict.DistanceMeters)
	}

	outside := geo.Point{Latitude: 100.01 * degPerMeter, Longitude: 0}
	verdict, err = geo.Evaluate(outside, office, 100)
	if err != nil {
		t.Fatalf("Evaluate: %v", err)
	}
	if verdict.WithinRadius {
		t.Errorf("expected point at %.4fm to be outside 100m radius", verdict.DistanceMeters)
	}
}

func TestEvaluate_ZeroDistance(t *testing.T) {
	office := geo.Point{Latitude: -6.2, Longitude: 106.8}
	verdict, err := geo.Evaluate(office, office, 50)
	if err != nil {
		t.Fatalf("Evaluate: %v", err)
	}
	if verdict.DistanceMeters != 0 {
		t.Errorf("expected 0 distance, got %v", verdict.DistanceMeters)
	}
	if !verdict.WithinRadius {
		t.Error("expected within radius at zero distance")
	}
}

func TestEvaluate_InvalidCoordinates(t *testing.T) {
	office := geo.Point{Latitude: 0, Longitude: 0}
	cases := []geo.Point{
		{Latitude: math.NaN(), Longitude: 0},
		{Latitude: 0, Longitude: math.NaN()},
		{Latitude: 91, Longitude: 0},
		{Latitude: -91, Longitude: 0},
		{Latitude: 0, Longitude: 181},
		{Latitude: 0, Longitude: -181},
	}
	for _, point := range cases {
		if _, err := geo.Evaluate(point, office, 100); !errors.Is(err, geo.ErrInvalidLocation) {
			t.Errorf("expected ErrInvalidLocation for %+v, got %v", point, err)
		}
	}
	if _, err := geo.Evaluate(office, office, math.NaN()); !errors.Is(err, geo.ErrInvalidLocation) {
		t.Errorf("expected ErrInvalidLocation for NaN radius, got %v", err)
	}
}
