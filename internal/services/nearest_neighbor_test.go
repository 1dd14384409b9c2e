package services

import (
	"math"
	"rota-inteligente/internal/domain"
	"rota-inteligente/internal/platform/geo"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestBuildRouteStraightLine(t *testing.T) {
	depot := domain.Point{Lat: 0, Lon: 0}
	points := []domain.Point{{Lat: 2, Lon: 0}, {Lat: 1, Lon: 0}}

	route, err := BuildRoute(points, depot)
	require.NoError(t, err)

	want := []domain.Point{{Lat: 0, Lon: 0}, {Lat: 1, Lon: 0}, {Lat: 2, Lon: 0}, {Lat: 0, Lon: 0}}
	require.Equal(t, want, route.Path)
	// 1 (depot->1) + 1 (1->2) + 2 (back to depot)
	require.Equal(t, 4.0, route.Length)
	require.Equal(t, want[1:3], route.Stops())
}

func TestBuildRouteTieBreakLowestIndex(t *testing.T) {
	depot := domain.Point{Lat: 0, Lon: 0}
	a := domain.Point{ID: "a", Lat: 1, Lon: 0}
	b := domain.Point{ID: "b", Lat: 0, Lon: 1}

	for i := 0; i < 5; i++ {
		route, err := BuildRoute([]domain.Point{a, b}, depot)
		require.NoError(t, err)
		require.Equal(t, "a", route.Path[1].ID)
		require.Equal(t, "b", route.Path[2].ID)
	}

	// Swapping input order swaps the winner.
	route, err := BuildRoute([]domain.Point{b, a}, depot)
	require.NoError(t, err)
	require.Equal(t, "b", route.Path[1].ID)
}

func TestBuildRouteEmptyGroup(t *testing.T) {
	route, err := BuildRoute(nil, testDepot)
	require.NoError(t, err)
	require.Equal(t, []domain.Point{testDepot, testDepot}, route.Path)
	require.Zero(t, route.Length)
	require.Empty(t, route.Stops())
}

func TestBuildRouteCompletenessAndLength(t *testing.T) {
	points := scatter(40, 3)

	route, err := BuildRoute(points, testDepot)
	require.NoError(t, err)

	// Closed at the depot with every point in between exactly once.
	require.Len(t, route.Path, len(points)+2)
	require.Equal(t, testDepot, route.Path[0])
	require.Equal(t, testDepot, route.Path[len(route.Path)-1])

	seen := map[string]int{}
	for _, p := range route.Stops() {
		seen[p.ID]++
	}
	require.Len(t, seen, len(points))
	for _, p := range points {
		require.Equal(t, 1, seen[p.ID], "point %s", p.ID)
	}

	recomputed := geo.PathLength(route.Path, geo.Euclidean)
	require.InEpsilon(t, recomputed, route.Length, 1e-9)
}

func TestBuildRouteGreedyChoiceEachStep(t *testing.T) {
	points := scatter(15, 21)

	route, err := BuildRoute(points, testDepot)
	require.NoError(t, err)

	// At every step no unvisited point is strictly closer than the one chosen.
	stops := route.Stops()
	for i, chosen := range stops {
		current := route.Path[i]
		d := geo.Euclidean(current, chosen)
		for _, later := range stops[i+1:] {
			require.LessOrEqual(t, d, geo.Euclidean(current, later))
		}
	}
}

func TestBuildRouteDuplicatePointsVisitedSeparately(t *testing.T) {
	depot := domain.Point{Lat: 0, Lon: 0}
	p := domain.Point{Lat: 3, Lon: 4}

	route, err := BuildRoute([]domain.Point{p, p}, depot)
	require.NoError(t, err)
	require.Len(t, route.Path, 4)
	require.Equal(t, 10.0, route.Length)
}

func TestBuildRouteRejectsNonFinite(t *testing.T) {
	_, err := BuildRoute(scatter(3, 1), domain.Point{Lat: math.NaN(), Lon: 0})
	require.ErrorIs(t, err, domain.ErrInvalidArgument)

	_, err = BuildRoute(nil, domain.Point{Lat: 0, Lon: math.Inf(1)})
	require.ErrorIs(t, err, domain.ErrInvalidArgument)

	_, err = BuildRoute([]domain.Point{{Lat: math.NaN()}}, testDepot)
	require.ErrorIs(t, err, domain.ErrInvalidArgument)
}

func TestPlanCourierRoute(t *testing.T) {
	_, err := PlanCourierRoute(nil)
	require.Error(t, err)

	courier := domain.NewCourier(2, testDepot)
	require.NoError(t, courier.LoadMultiple(scatter(6, 8)))

	plan, err := PlanCourierRoute(courier)
	require.NoError(t, err)
	require.Equal(t, 2, plan.GroupIndex)
	require.Equal(t, 6, plan.PointCount)
	require.Len(t, plan.Route.Path, 8)
	require.Greater(t, plan.ApproxMeters, 0.0)
}

func TestBuildRouteOverflowingDistances(t *testing.T) {
	// Each coordinate is finite but the leg between them overflows to +Inf.
	points := []domain.Point{{ID: "north", Lat: 1e308}, {ID: "south", Lat: -1e308}}

	route, err := BuildRoute(points, domain.Point{})
	require.NoError(t, err)
	require.Len(t, route.Path, 4)
	require.Equal(t, "north", route.Path[1].ID)
	require.Equal(t, "south", route.Path[2].ID)
	require.True(t, math.IsInf(route.Length, 1))
}
