package services

import (
	"math"
	"rota-inteligente/internal/domain"
	"rota-inteligente/internal/platform/metrics"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/require"
)

func TestPartitionCoverage(t *testing.T) {
	points := scatter(25, 42)

	a, err := Partition(points, 4, 0)
	require.NoError(t, err)

	// Every point gets exactly one label inside [0, k).
	require.Len(t, a.Labels, len(points))
	for i, label := range a.Labels {
		require.GreaterOrEqual(t, label, 0, "point %d", i)
		require.Less(t, label, 4, "point %d", i)
	}

	sizes := a.Sizes()
	total := 0
	for _, s := range sizes {
		total += s
	}
	require.Equal(t, len(points), total)
	require.Len(t, a.Centroids, 4)
	require.True(t, a.Converged)
	require.NoError(t, a.Err())
}

func TestPartitionDeterministic(t *testing.T) {
	points := scatter(60, 7)

	first, err := Partition(points, 5, 1234)
	require.NoError(t, err)
	second, err := Partition(points, 5, 1234)
	require.NoError(t, err)

	require.Equal(t, first.Labels, second.Labels)
	require.Equal(t, first.Centroids, second.Centroids)
	require.Equal(t, first.Iterations, second.Iterations)
}

func TestPartitionInvalidArguments(t *testing.T) {
	points := scatter(3, 1)

	cases := []struct {
		name   string
		points []domain.Point
		k      int
	}{
		{name: "empty points", points: nil, k: 1},
		{name: "zero k", points: points, k: 0},
		{name: "negative k", points: points, k: -2},
		{name: "k above point count", points: points, k: 4},
		{name: "nan coordinate", points: []domain.Point{{Lat: math.NaN(), Lon: 0}}, k: 1},
		{name: "infinite coordinate", points: []domain.Point{{Lat: 0, Lon: math.Inf(-1)}}, k: 1},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			a, err := Partition(tc.points, tc.k, 0)
			require.ErrorIs(t, err, domain.ErrInvalidArgument)
			require.Nil(t, a)
		})
	}
}

func TestPartitionSeparatesDistantClusters(t *testing.T) {
	var points []domain.Point
	for i := 0; i < 10; i++ {
		off := float64(i) * 0.01
		points = append(points, domain.Point{Lat: off, Lon: -off})
		points = append(points, domain.Point{Lat: 100 + off, Lon: 100 - off})
	}

	a, err := Partition(points, 2, 99)
	require.NoError(t, err)

	// Even indices are near the origin, odd ones near (100, 100).
	near, far := a.Labels[0], a.Labels[1]
	require.NotEqual(t, near, far)
	for i, label := range a.Labels {
		if i%2 == 0 {
			require.Equal(t, near, label, "point %d", i)
		} else {
			require.Equal(t, far, label, "point %d", i)
		}
	}
	require.Equal(t, []int{10, 10}, a.Sizes())
}

func TestPartitionKEqualsPointCount(t *testing.T) {
	points := []domain.Point{{Lat: 0, Lon: 0}, {Lat: 5, Lon: 5}, {Lat: -3, Lon: 8}, {Lat: 10, Lon: -1}}

	a, err := Partition(points, len(points), 3)
	require.NoError(t, err)

	seen := map[int]bool{}
	for _, label := range a.Labels {
		seen[label] = true
	}
	require.Len(t, seen, len(points))
}

func TestPartitionConvergenceLimit(t *testing.T) {
	points := scatter(30, 5)
	before := testutil.ToFloat64(metrics.ConvergenceLimitTotal)

	// The first pass always moves points off their unassigned state, so a
	// single-iteration budget can never observe a stable pass.
	a, err := PartitionWithOptions(points, 3, 0, PartitionOptions{MaxIterations: 1})
	require.NoError(t, err)
	require.False(t, a.Converged)
	require.Equal(t, 1, a.Iterations)
	require.ErrorIs(t, a.Err(), domain.ErrConvergenceLimitReached)
	require.Len(t, a.Labels, len(points))

	require.Equal(t, before+1, testutil.ToFloat64(metrics.ConvergenceLimitTotal))
}

func TestPartitionDuplicatePoints(t *testing.T) {
	p := domain.Point{Lat: 1, Lon: 1}
	points := []domain.Point{p, p, p, {Lat: 2, Lon: 2}}

	a, err := Partition(points, 3, 11)
	require.NoError(t, err)
	require.Len(t, a.Labels, 4)
	require.True(t, a.Converged)
}

func TestPartitionHugeCoordinates(t *testing.T) {
	// Squared distances between these points overflow float64.
	points := []domain.Point{
		{ID: "east", Lat: 1e200},
		{ID: "west", Lat: -1e200},
		{ID: "east2", Lat: 1e200 + 1e190},
		{ID: "west2", Lat: -1e200 - 1e190},
	}

	a, err := Partition(points, 2, 0)
	require.NoError(t, err)
	require.True(t, a.Converged)

	require.Equal(t, a.Labels[0], a.Labels[2])
	require.Equal(t, a.Labels[1], a.Labels[3])
	require.NotEqual(t, a.Labels[0], a.Labels[1])
	for _, c := range a.Centroids {
		require.True(t, c.IsFinite())
	}
}

func TestPartitionOverflowingSpreadStaysFinite(t *testing.T) {
	points := []domain.Point{{Lat: 1e308}, {Lat: -1e308}, {Lat: 9e307}, {Lat: -9e307}}

	a, err := Partition(points, 2, 3)
	require.NoError(t, err)
	require.Equal(t, a.Labels[0], a.Labels[2])
	require.Equal(t, a.Labels[1], a.Labels[3])
	require.NotEqual(t, a.Labels[0], a.Labels[1])
}
