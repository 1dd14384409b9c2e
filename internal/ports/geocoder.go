package ports

import (
	"context"
	"rota-inteligente/internal/domain"
)

// Contract for resolving postal addresses to coordinates.
type Geocoder interface {
	// Return one point per resolvable address, keyed by the normalized address.
	Geocode(ctx context.Context, addresses []string) (map[string]domain.Point, error)
}
