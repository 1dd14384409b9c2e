package ports

import (
	"context"
	"rota-inteligente/internal/domain"
)

// Announces completed plans to downstream consumers (dispatch, reporting).
type PlanPublisher interface {
	PublishPlan(ctx context.Context, plan *domain.Plan) error
}
