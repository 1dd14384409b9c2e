package domain

import "math"

// Immutable delivery coordinate (latitude, longitude).
// ID is an optional external identifier carried for traceability only;
// the partitioning and routing algorithms look at coordinates alone.
type Point struct {
	ID  string  `json:"id,omitempty"`
	Lat float64 `json:"lat"`
	Lon float64 `json:"lon"`
}

// Report whether both coordinates are finite numbers.
func (p Point) IsFinite() bool {
	return !math.IsNaN(p.Lat) && !math.IsInf(p.Lat, 0) &&
		!math.IsNaN(p.Lon) && !math.IsInf(p.Lon, 0)
}
