// Package geo provides the planar distance metric and advisory route
// synthesis used by the dispatch engine. Distances are deliberately planar
// Euclidean rather than great-circle: the service area spans a few kilometres
// and the approximation keeps nearest-unit selection cheap and deterministic.
package geo

import "math"

// Point is a latitude/longitude pair.
type Point struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

// Distance returns the planar Euclidean distance between two points in
// coordinate degrees.
func Distance(a, b Point) float64 {
	return math.Hypot(a.Lat-b.Lat, a.Lng-b.Lng)
}

// routeCurveOffset bends the advisory midpoint slightly so rendered routes do
// not overlap the straight line between the endpoints.
const routeCurveOffset = 0.001

// Route synthesizes an advisory three-point path from a unit position to an
// incident. It carries no routing guarantees and exists purely for
// downstream visualization.
func Route(from, to Point) []Point {
	mid := Point{
		Lat: (from.Lat+to.Lat)/2 + routeCurveOffset,
		Lng: (from.Lng + to.Lng) / 2,
	}
	return []Point{from, mid, to}
}
