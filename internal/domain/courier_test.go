package domain

import (
	"math"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestCourierLoad(t *testing.T) {
	depot := Point{Lat: -23.5505, Lon: -46.6333}
	c := NewCourier(1, depot)

	require.NoError(t, c.LoadMultiple([]Point{{ID: "a", Lat: 1, Lon: 1}, {ID: "b", Lat: 2, Lon: 2}}))
	require.Len(t, c.Stops, 2)
	require.Equal(t, depot, c.Depot)

	err := c.Load(Point{ID: "bad", Lat: math.NaN()})
	require.ErrorIs(t, err, ErrInvalidArgument)
	require.Len(t, c.Stops, 2)
}

func TestAssignmentHelpers(t *testing.T) {
	points := []Point{{ID: "a"}, {ID: "b"}, {ID: "c"}, {ID: "d"}}
	a := &Assignment{Labels: []int{1, 0, 1, 1}, K: 3, Converged: true}

	require.Equal(t, []Point{{ID: "a"}, {ID: "c"}, {ID: "d"}}, a.Group(points, 1))
	require.Equal(t, []Point{{ID: "b"}}, a.Group(points, 0))
	require.Empty(t, a.Group(points, 2))
	require.Equal(t, []int{1, 3, 0}, a.Sizes())
	require.NoError(t, a.Err())

	a.Converged = false
	require.ErrorIs(t, a.Err(), ErrConvergenceLimitReached)
}

func TestPointHelpers(t *testing.T) {
	p := Point{ID: "x", Lat: -23.5, Lon: -46.6}
	require.True(t, p.IsFinite())
	require.False(t, Point{Lat: math.Inf(1)}.IsFinite())
}

func TestRouteStops(t *testing.T) {
	d := Point{ID: "depot"}
	r := Route{Path: []Point{d, {ID: "a"}, {ID: "b"}, d}}
	require.Equal(t, []Point{{ID: "a"}, {ID: "b"}}, r.Stops())
	require.Empty(t, Route{Path: []Point{d, d}}.Stops())
	require.Nil(t, Route{}.Stops())
}
