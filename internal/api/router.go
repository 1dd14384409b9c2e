package api

import (
	"net/http"
	"rota-inteligente/internal/api/handlers"
	"rota-inteligente/internal/platform/metrics"
	"rota-inteligente/internal/ports"
)

// Deps carries the adapters the HTTP layer hands to its handlers.
// Any port may be nil when the backing service is not configured.
type Deps struct {
	Repo      ports.PointRepository
	Cache     ports.PlanCache
	Publisher ports.PlanPublisher
	Defaults  handlers.PlanDefaults
}

// NewRouter wires HTTP handlers with their dependencies and returns an http.Handler.
// This is the API composition root (handlers stay unaware of concrete adapters).
func NewRouter(deps Deps) http.Handler {
	mux := http.NewServeMux()

	pointHandler := &handlers.PointHandler{Repo: deps.Repo}
	planHandler := &handlers.PlanHandler{
		Repo:      deps.Repo,
		Cache:     deps.Cache,
		Publisher: deps.Publisher,
		Defaults:  deps.Defaults,
	}

	mux.HandleFunc("/health", handlers.Health)
	mux.HandleFunc("/points", pointHandler.List)
	mux.HandleFunc("/plans", planHandler.Plan)
	mux.Handle("/metrics", metrics.Handler())

	return requestIDMiddleware(loggingMiddleware(mux))
}
