package geo

import (
	"math"
	"testing"
)

func TestDistance(t *testing.T) {
	a := Point{Lat: -1.28, Lng: 36.82}
	b := Point{Lat: -1.26, Lng: 36.80}
	want := math.Hypot(0.02, 0.02)
	if got := Distance(a, b); math.Abs(got-want) > 1e-12 {
		t.Errorf("Distance = %v, want %v", got, want)
	}
	if got := Distance(a, a); got != 0 {
		t.Errorf("Distance to self = %v, want 0", got)
	}
	if Distance(a, b) != Distance(b, a) {
		t.Error("Distance is not symmetric")
	}
}

func TestRoute(t *testing.T) {
	from := Point{Lat: -1.28, Lng: 36.82}
	to := Point{Lat: -1.26, Lng: 36.80}
	route := Route(from, to)
	if len(route) != 3 {
		t.Fatalf("route has %d points, want 3", len(route))
	}
	if route[0] != from || route[2] != to {
		t.Errorf("route endpoints mismatch: %v", route)
	}
	wantMid := Point{Lat: (from.Lat+to.Lat)/2 + routeCurveOffset, Lng: (from.Lng + to.Lng) / 2}
	if route[1] != wantMid {
		t.Errorf("midpoint = %v, want %v", route[1], wantMid)
	}
}
