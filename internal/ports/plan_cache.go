package ports

import (
	"context"
	"rota-inteligente/internal/domain"
)

// Read-through storage for finished plans keyed by a digest of their inputs.
type PlanCache interface {
	// Return the cached plan, or ok=false on a miss.
	Get(ctx context.Context, key string) (plan *domain.Plan, ok bool, err error)
	Put(ctx context.Context, key string, plan *domain.Plan) error
}
