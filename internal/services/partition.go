package services

import (
	"errors"
	"fmt"
	"log/slog"
	"math"
	"math/rand/v2"
	"rota-inteligente/internal/domain"
	"rota-inteligente/internal/platform/geo"
	"rota-inteligente/internal/platform/metrics"
)

// DefaultMaxIterations bounds the Lloyd loop. Small delivery sets settle in a
// handful of passes; the cap only guards pathological inputs.
const DefaultMaxIterations = 300

type PartitionOptions struct {
	// MaxIterations caps assignment passes. Zero means DefaultMaxIterations.
	MaxIterations int
}

// Partition splits points into k groups by iterative centroid clustering.
// See PartitionWithOptions.
func Partition(points []domain.Point, k int, seed int64) (*domain.Assignment, error) {
	return PartitionWithOptions(points, k, seed, PartitionOptions{})
}

// PartitionWithOptions assigns every point to one of k groups using Lloyd's
// algorithm seeded by k-means++.
//
// The result depends only on the inputs and seed. Each pass assigns points to
// the nearest centroid (ties go to the lowest group index) and moves every
// centroid to the mean of its points; a group left without points keeps its
// previous centroid. The loop stops once a pass changes nothing or the
// iteration cap is hit, in which case Converged is false and the last
// assignment is returned anyway.
func PartitionWithOptions(
	points []domain.Point,
	k int,
	seed int64,
	opts PartitionOptions,
) (*domain.Assignment, error) {
	n := len(points)
	if n == 0 {
		return nil, fmt.Errorf("partition: point set must not be empty: %w", domain.ErrInvalidArgument)
	}
	if k <= 0 {
		return nil, fmt.Errorf("partition: k must be positive, got %d: %w", k, domain.ErrInvalidArgument)
	}
	if k > n {
		return nil, fmt.Errorf("partition: k=%d exceeds point count %d: %w", k, n, domain.ErrInvalidArgument)
	}
	for i, p := range points {
		if !p.IsFinite() {
			return nil, fmt.Errorf("partition: point #%d (%q) has non-finite coordinates: %w", i, p.ID, domain.ErrInvalidArgument)
		}
	}

	maxIter := opts.MaxIterations
	if maxIter <= 0 {
		maxIter = DefaultMaxIterations
	}

	rng := rand.New(rand.NewPCG(uint64(seed), uint64(seed)^0x9e3779b97f4a7c15))
	centroids := seedCentroids(points, k, rng)

	labels := make([]int, n)
	for i := range labels {
		labels[i] = -1
	}

	converged := false
	iterations := 0
	for iterations < maxIter {
		iterations++

		changed := false
		for i, p := range points {
			best := nearestCentroid(p, centroids)
			if labels[i] != best {
				labels[i] = best
				changed = true
			}
		}

		if !changed {
			converged = true
			break
		}

		updateCentroids(points, labels, centroids)
	}

	a := &domain.Assignment{
		Labels:     labels,
		Centroids:  centroids,
		K:          k,
		Iterations: iterations,
		Converged:  converged,
	}

	metrics.PartitionIterations.Observe(float64(iterations))
	if err := a.Err(); errors.Is(err, domain.ErrConvergenceLimitReached) {
		metrics.ConvergenceLimitTotal.Inc()
		slog.Warn("partition convergence limit reached",
			"k", k,
			"points", n,
			"iterations", iterations,
			"seed", seed,
			"sizes", a.Sizes(),
		)
	}

	return a, nil
}

// seedCentroids picks k initial centroids with k-means++ (D² weighting).
// Distances are kept unsquared and normalized by the largest one before
// squaring, so the weights stay finite for any finite coordinates.
func seedCentroids(points []domain.Point, k int, rng *rand.Rand) []domain.Point {
	n := len(points)
	centroids := make([]domain.Point, 0, k)

	first := points[rng.IntN(n)]
	centroids = append(centroids, domain.Point{Lat: first.Lat, Lon: first.Lon})

	minDist := make([]float64, n)
	for i, p := range points {
		minDist[i] = geo.Euclidean(p, first)
	}

	weights := make([]float64, n)
	for len(centroids) < k {
		farthest := 0.0
		for _, d := range minDist {
			farthest = max(farthest, d)
		}

		total := 0.0
		for i, d := range minDist {
			switch {
			case farthest == 0:
				weights[i] = 0
			case math.IsInf(farthest, 1):
				// Overflowed legs outweigh every finite one.
				weights[i] = 0
				if math.IsInf(d, 1) {
					weights[i] = 1
				}
			default:
				r := d / farthest
				weights[i] = r * r
			}
			total += weights[i]
		}

		next := -1
		if total > 0 {
			target := rng.Float64() * total
			acc := 0.0
			for i, w := range weights {
				acc += w
				if w > 0 && acc > target {
					next = i
					break
				}
			}
			// Rounding can leave target just past the last partial sum.
			if next < 0 {
				for i := n - 1; i >= 0; i-- {
					if weights[i] > 0 {
						next = i
						break
					}
				}
			}
		} else {
			// Every point sits on an existing centroid; duplicates are all that is left.
			next = rng.IntN(n)
		}

		c := domain.Point{Lat: points[next].Lat, Lon: points[next].Lon}
		centroids = append(centroids, c)
		for i, p := range points {
			if d := geo.Euclidean(p, c); d < minDist[i] {
				minDist[i] = d
			}
		}
	}

	return centroids
}

// nearestCentroid returns the index of the closest centroid; strict comparison
// keeps the lowest index on ties.
func nearestCentroid(p domain.Point, centroids []domain.Point) int {
	best := 0
	bestDist := math.Inf(1)
	for c, centroid := range centroids {
		if d := geo.Euclidean(p, centroid); d < bestDist {
			bestDist = d
			best = c
		}
	}
	return best
}

// updateCentroids moves each non-empty group's centroid to its mean. Terms
// are divided before summing so the mean of finite points stays finite.
func updateCentroids(points []domain.Point, labels []int, centroids []domain.Point) {
	k := len(centroids)
	counts := make([]int, k)
	for _, c := range labels {
		counts[c]++
	}

	sumLat := make([]float64, k)
	sumLon := make([]float64, k)
	for i, p := range points {
		c := labels[i]
		sumLat[c] += p.Lat / float64(counts[c])
		sumLon[c] += p.Lon / float64(counts[c])
	}

	for c := 0; c < k; c++ {
		if counts[c] == 0 {
			continue
		}
		centroids[c] = domain.Point{Lat: sumLat[c], Lon: sumLon[c]}
	}
}
