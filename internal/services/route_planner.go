package services

import (
	"errors"
	"fmt"
	"rota-inteligente/internal/domain"
	"rota-inteligente/internal/platform/geo"
)

// Create a GroupPlan for the points currently loaded on the courier.
func PlanCourierRoute(courier *domain.Courier) (*domain.GroupPlan, error) {
	if courier == nil {
		return nil, errors.New("plan courier route: courier must be non-nil")
	}

	// Delegate to BuildRoute while preserving courier-level invariants.
	route, err := BuildRoute(courier.Stops, courier.Depot)
	if err != nil {
		return nil, fmt.Errorf("plan courier route: for courier %d: %w", courier.CourierID, err)
	}

	return &domain.GroupPlan{
		GroupIndex:   courier.CourierID,
		PointCount:   len(courier.Stops),
		Centroid:     courier.Centroid,
		Route:        *route,
		ApproxMeters: geo.PathLength(route.Path, geo.Haversine),
	}, nil
}
