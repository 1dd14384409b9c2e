package ports

import (
	"context"
	"rota-inteligente/internal/domain"
)

// Port: a boundary for retrieving delivery points from a data source.
type PointRepository interface {
	// Retrieve all points available for planning, in a stable order.
	ListPoints(ctx context.Context) ([]domain.Point, error)
}
