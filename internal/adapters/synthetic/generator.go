// Package synthetic produces reproducible delivery points scattered around a
// center, for demos and load tests when no database is configured.
package synthetic

import (
	"fmt"
	"math/rand/v2"
	"rota-inteligente/internal/domain"
)

type Options struct {
	Count     int
	Center    domain.Point
	LatStdDev float64
	LonStdDev float64
	Seed      int64
}

// Generate draws Count points from independent normal distributions on each
// axis. The same Options always yield the same points.
func Generate(opts Options) ([]domain.Point, error) {
	if opts.Count < 0 {
		return nil, fmt.Errorf("synthetic: count %d: %w", opts.Count, domain.ErrInvalidArgument)
	}
	if opts.LatStdDev < 0 || opts.LonStdDev < 0 {
		return nil, fmt.Errorf("synthetic: negative standard deviation: %w", domain.ErrInvalidArgument)
	}
	if !opts.Center.IsFinite() {
		return nil, fmt.Errorf("synthetic: center is not finite: %w", domain.ErrInvalidArgument)
	}

	rng := rand.New(rand.NewPCG(uint64(opts.Seed), uint64(opts.Seed)>>1|1))

	points := make([]domain.Point, opts.Count)
	for i := range points {
		points[i] = domain.Point{
			ID:  fmt.Sprintf("synthetic-%03d", i),
			Lat: opts.Center.Lat + rng.NormFloat64()*opts.LatStdDev,
			Lon: opts.Center.Lon + rng.NormFloat64()*opts.LonStdDev,
		}
	}

	return points, nil
}
