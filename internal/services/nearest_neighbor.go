package services

import (
	"fmt"
	"math"
	"rota-inteligente/internal/domain"
	"rota-inteligente/internal/platform/geo"
	"slices"
)

// Build a closed delivery route using a greedy nearest-neighbor algorithm.
//
// Starting at the depot, the algorithm repeatedly moves to the closest
// unvisited point (Euclidean distance), then returns to the depot.
// It does not attempt global route optimization (e.g., TSP solvers).
// Equidistant candidates resolve to the lowest index in points.
func BuildRoute(points []domain.Point, depot domain.Point) (*domain.Route, error) {
	if !depot.IsFinite() {
		return nil, fmt.Errorf("build route: depot (%v, %v) is not finite: %w", depot.Lat, depot.Lon, domain.ErrInvalidArgument)
	}
	for i, p := range points {
		if !p.IsFinite() {
			return nil, fmt.Errorf("build route: point #%d (%q) is not finite: %w", i, p.ID, domain.ErrInvalidArgument)
		}
	}

	path := make([]domain.Point, 0, len(points)+2)
	path = append(path, depot)

	// Indices stay in input order so the scan below sees lower indices first.
	remaining := make([]int, len(points))
	for i := range remaining {
		remaining[i] = i
	}

	current := depot
	total := 0.0

	for len(remaining) > 0 {
		bestPos := -1
		minDist := math.Inf(1)

		// Select next stop by minimum travel distance (greedy step).
		// The first candidate is always taken so an overflowed (+Inf) distance
		// still yields a stop.
		for pos, idx := range remaining {
			if d := geo.Euclidean(current, points[idx]); bestPos < 0 || d < minDist {
				minDist = d
				bestPos = pos
			}
		}

		next := points[remaining[bestPos]]
		total += minDist
		path = append(path, next)

		remaining = slices.Delete(remaining, bestPos, bestPos+1)
		current = next
	}

	// Return leg closes the loop; an empty group yields [depot, depot] with zero length.
	total += geo.Euclidean(current, depot)
	path = append(path, depot)

	return &domain.Route{
		Path:   path,
		Length: total,
	}, nil
}
