package geo

import (
	"math"
	"rota-inteligente/internal/domain"
)

const earthRadiusKm = 6371.0

// Euclidean returns the straight-line distance between two points in the
// plane spanned by (lat, lon). This is the metric used for route sequencing.
func Euclidean(a, b domain.Point) float64 {
	return math.Hypot(a.Lat-b.Lat, a.Lon-b.Lon)
}

// Haversine calculates the great-circle distance in meters between two points.
func Haversine(a, b domain.Point) float64 {
	dLat := toRad(b.Lat - a.Lat)
	dLon := toRad(b.Lon - a.Lon)

	h := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(toRad(a.Lat))*math.Cos(toRad(b.Lat))*
			math.Sin(dLon/2)*math.Sin(dLon/2)

	c := 2 * math.Atan2(math.Sqrt(h), math.Sqrt(1-h))
	return earthRadiusKm * c * 1000
}

// PathLength sums a metric over consecutive points of a path.
func PathLength(path []domain.Point, metric func(a, b domain.Point) float64) float64 {
	total := 0.0
	for i := 1; i < len(path); i++ {
		total += metric(path[i-1], path[i])
	}
	return total
}

func toRad(deg float64) float64 {
	return deg * math.Pi / 180
}
