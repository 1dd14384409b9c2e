package services

import (
	"context"
	"encoding/binary"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"rota-inteligente/internal/domain"
	"rota-inteligente/internal/platform/metrics"
	"rota-inteligente/internal/platform/obs"
	"rota-inteligente/internal/ports"
	"time"

	"github.com/cespare/xxhash/v2"
	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
)

type PlanRoutesRequest struct {
	Points        []domain.Point
	Depot         domain.Point
	K             int
	Seed          int64
	MaxIterations int
	// Workers bounds concurrent group routing; zero or less routes all groups at once.
	Workers int
}

type PlanDeliveriesRequest struct {
	Depot         domain.Point
	K             int
	Seed          int64
	MaxIterations int
	Workers       int
	// Points overrides the repository when non-empty.
	Points []domain.Point
}

// AggregateRoutes routes every group of the assignment from the depot and
// returns the per-group plans (indexed by group) plus their summed length.
//
// Groups share nothing but the read-only depot, so they are routed
// concurrently; each task writes only its own slot and the total is summed
// after all tasks finish.
func AggregateRoutes(
	ctx context.Context,
	points []domain.Point,
	assignment *domain.Assignment,
	depot domain.Point,
	workers int,
) ([]domain.GroupPlan, float64, error) {
	if assignment == nil {
		return nil, 0, errors.New("aggregate routes: assignment must be non-nil")
	}
	if len(assignment.Labels) != len(points) {
		return nil, 0, fmt.Errorf(
			"aggregate routes: assignment covers %d points, have %d: %w",
			len(assignment.Labels), len(points), domain.ErrInvalidArgument,
		)
	}

	for i, label := range assignment.Labels {
		if label < 0 || label >= assignment.K {
			return nil, 0, fmt.Errorf(
				"aggregate routes: point #%d has label %d outside [0, %d): %w",
				i, label, assignment.K, domain.ErrInvalidArgument,
			)
		}
	}

	couriers := make([]*domain.Courier, 0, assignment.K)
	for g := 0; g < assignment.K; g++ {
		c := domain.NewCourier(g, depot)
		if g < len(assignment.Centroids) {
			c.Centroid = assignment.Centroids[g]
		}
		if err := c.LoadMultiple(assignment.Group(points, g)); err != nil {
			return nil, 0, fmt.Errorf("aggregate routes: %w", err)
		}
		couriers = append(couriers, c)
	}

	plans := make([]domain.GroupPlan, len(couriers))

	eg, egCtx := errgroup.WithContext(ctx)
	if workers > 0 {
		eg.SetLimit(workers)
	}

	for i, c := range couriers {
		eg.Go(func() error {
			if err := egCtx.Err(); err != nil {
				return err
			}

			plan, err := PlanCourierRoute(c)
			if err != nil {
				return err
			}
			plans[i] = *plan
			metrics.GroupsRouted.Inc()
			return nil
		})
	}

	if err := eg.Wait(); err != nil {
		return nil, 0, fmt.Errorf("aggregate routes: %w", err)
	}

	total := 0.0
	for _, p := range plans {
		total += p.Route.Length
	}

	return plans, total, nil
}

// PlanRoutes partitions the points into K groups and routes each one from the depot.
func PlanRoutes(ctx context.Context, req PlanRoutesRequest) (_ *domain.Plan, err error) {
	defer obs.Time(ctx, "planner.PlanRoutes")(&err)

	if !req.Depot.IsFinite() {
		return nil, fmt.Errorf("plan routes: depot is not finite: %w", domain.ErrInvalidArgument)
	}

	assignment, err := PartitionWithOptions(req.Points, req.K, req.Seed, PartitionOptions{MaxIterations: req.MaxIterations})
	if err != nil {
		return nil, fmt.Errorf("plan routes: %w", err)
	}

	groups, total, err := AggregateRoutes(ctx, req.Points, assignment, req.Depot, req.Workers)
	if err != nil {
		return nil, fmt.Errorf("plan routes: %w", err)
	}
	if math.IsInf(total, 0) || math.IsNaN(total) {
		return nil, fmt.Errorf("plan routes: route length overflows float64, coordinates too far apart: %w", domain.ErrInvalidArgument)
	}

	approx := 0.0
	for _, g := range groups {
		approx += g.ApproxMeters
	}

	return &domain.Plan{
		ID:                uuid.NewString(),
		Depot:             req.Depot,
		K:                 req.K,
		Seed:              req.Seed,
		Iterations:        assignment.Iterations,
		Converged:         assignment.Converged,
		Groups:            groups,
		TotalLength:       total,
		TotalApproxMeters: approx,
		CreatedAt:         time.Now().UTC(),
	}, nil
}

// PlanDeliveries loads points (unless supplied), plans them, and handles the
// optional cache and event side channels. Cache and publisher failures are
// logged and do not fail the plan; cache and publisher may be nil.
func PlanDeliveries(
	ctx context.Context,
	req PlanDeliveriesRequest,
	repo ports.PointRepository,
	cache ports.PlanCache,
	publisher ports.PlanPublisher,
) (*domain.Plan, error) {
	points := req.Points
	if len(points) == 0 {
		if repo == nil {
			return nil, fmt.Errorf("plan deliveries: no points supplied and no repository configured: %w", domain.ErrInvalidArgument)
		}

		var err error
		points, err = repo.ListPoints(ctx)
		if err != nil {
			return nil, fmt.Errorf("plan deliveries: list points: %w", err)
		}
	}

	routesReq := PlanRoutesRequest{
		Points:        points,
		Depot:         req.Depot,
		K:             req.K,
		Seed:          req.Seed,
		MaxIterations: req.MaxIterations,
		Workers:       req.Workers,
	}

	key := PlanCacheKey(routesReq)
	reqID := obs.RequestID(ctx)

	if cache != nil {
		cached, ok, err := cache.Get(ctx, key)
		switch {
		case err != nil:
			slog.Warn("plan cache read failed", "req_id", reqID, "key", key, "error", err)
		case ok:
			metrics.CacheHits.WithLabelValues("plan").Inc()
			metrics.PlansTotal.WithLabelValues("cached").Inc()
			return cached, nil
		default:
			metrics.CacheMisses.WithLabelValues("plan").Inc()
		}
	}

	plan, err := PlanRoutes(ctx, routesReq)
	if err != nil {
		metrics.PlansTotal.WithLabelValues("error").Inc()
		return nil, fmt.Errorf("plan deliveries: %w", err)
	}
	metrics.PlansTotal.WithLabelValues("ok").Inc()

	slog.Info("plan computed",
		"req_id", reqID,
		"plan_id", plan.ID,
		"points", len(points),
		"k", plan.K,
		"iterations", plan.Iterations,
		"converged", plan.Converged,
		"total_length", plan.TotalLength,
	)

	if cache != nil {
		if err := cache.Put(ctx, key, plan); err != nil {
			slog.Warn("plan cache write failed", "req_id", reqID, "key", key, "error", err)
		}
	}

	if publisher != nil {
		if err := publisher.PublishPlan(ctx, plan); err != nil {
			slog.Warn("plan publish failed", "req_id", reqID, "plan_id", plan.ID, "error", err)
		}
	}

	return plan, nil
}

// PlanCacheKey digests everything that determines a plan's content. Workers
// is left out: it changes scheduling, not results.
func PlanCacheKey(req PlanRoutesRequest) string {
	h := xxhash.New()

	var buf [8]byte
	putFloat := func(f float64) {
		binary.LittleEndian.PutUint64(buf[:], math.Float64bits(f))
		_, _ = h.Write(buf[:])
	}
	putInt := func(i int64) {
		binary.LittleEndian.PutUint64(buf[:], uint64(i))
		_, _ = h.Write(buf[:])
	}

	maxIter := req.MaxIterations
	if maxIter <= 0 {
		maxIter = DefaultMaxIterations
	}

	putFloat(req.Depot.Lat)
	putFloat(req.Depot.Lon)
	putInt(int64(req.K))
	putInt(req.Seed)
	putInt(int64(maxIter))
	putInt(int64(len(req.Points)))
	for _, p := range req.Points {
		_, _ = h.WriteString(p.ID)
		_, _ = h.Write([]byte{0})
		putFloat(p.Lat)
		putFloat(p.Lon)
	}

	return fmt.Sprintf("plan:%016x", h.Sum64())
}
