package main

import (
	"bytes"
	"rota-inteligente/internal/domain"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestWriteReport(t *testing.T) {
	depot := domain.Point{ID: "depot"}
	plan := &domain.Plan{
		Converged: true,
		Groups: []domain.GroupPlan{
			{GroupIndex: 0, PointCount: 3, Route: domain.Route{
				Path:   []domain.Point{depot, {ID: "a"}, {ID: "b"}, {ID: "c"}, depot},
				Length: 0.123456,
			}},
			{GroupIndex: 1, PointCount: 0, Route: domain.Route{Path: []domain.Point{depot, depot}}},
		},
		TotalLength: 0.123456,
	}

	var buf bytes.Buffer
	require.NoError(t, writeReport(&buf, plan))
	require.Equal(t,
		"Courier 0: 3 stops. Distance: 0.1235\n"+
			"Courier 1: 0 stops. Distance: 0.0000\n"+
			"Total distance (all couriers): 0.1235\n",
		buf.String())
}

func TestWriteReportFlagsConvergenceLimit(t *testing.T) {
	plan := &domain.Plan{Iterations: 300, Converged: false}

	var buf bytes.Buffer
	require.NoError(t, writeReport(&buf, plan))
	require.Contains(t, buf.String(), "after 300 iterations")
}
