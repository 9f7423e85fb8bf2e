// Package types holds the small value objects shared across modules.
package types

import "math"

// ID is an opaque entity identifier (customer, driver, ride).
type ID string

// Point is a WGS-84 coordinate in decimal degrees.
type Point struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

// Valid reports whether the point is a real coordinate: finite numbers with
// latitude in [-90, 90] and longitude in [-180, 180].
func (p Point) Valid() bool {
	if math.IsNaN(p.Lat) || math.IsNaN(p.Lng) || math.IsInf(p.Lat, 0) || math.IsInf(p.Lng, 0) {
		return false
	}
	return p.Lat >= -90 && p.Lat <= 90 && p.Lng >= -180 && p.Lng <= 180
}
