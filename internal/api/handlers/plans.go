package handlers

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"rota-inteligente/internal/api/dto"
	"rota-inteligente/internal/domain"
	"rota-inteligente/internal/platform/obs"
	"rota-inteligente/internal/ports"
	"rota-inteligente/internal/services"
)

const maxPlanBody = 4 << 20

// PlanDefaults fills request fields the client leaves out.
type PlanDefaults struct {
	Depot         domain.Point
	K             int
	Seed          int64
	MaxIterations int
	Workers       int
}

type PlanHandler struct {
	Repo      ports.PointRepository
	Cache     ports.PlanCache
	Publisher ports.PlanPublisher
	Defaults  PlanDefaults
}

// Plan partitions the delivery points around the depot and routes every group.
func (h *PlanHandler) Plan(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.Header().Set("Allow", http.MethodPost)
		writeError(w, r, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	var req dto.PlanRequest

	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxPlanBody))
	defer r.Body.Close()
	dec.DisallowUnknownFields()

	if err := dec.Decode(&req); err != nil && !errors.Is(err, io.EOF) {
		writeError(w, r, http.StatusBadRequest, "invalid json body")
		return
	}
	if err := dec.Decode(&struct{}{}); err != io.EOF {
		writeError(w, r, http.StatusBadRequest, "body must contain only one JSON object")
		return
	}

	svcReq := h.toServiceRequest(req)

	plan, err := services.PlanDeliveries(r.Context(), svcReq, h.Repo, h.Cache, h.Publisher)
	if err != nil {
		if errors.Is(err, domain.ErrInvalidArgument) {
			writeError(w, r, http.StatusBadRequest, err.Error())
			return
		}
		slog.Error("plan deliveries failed", "req_id", obs.RequestID(r.Context()), "error", err)
		writeError(w, r, http.StatusInternalServerError, "internal server error")
		return
	}

	writeJSON(w, r, http.StatusOK, toPlanResponse(plan))
}

func (h *PlanHandler) toServiceRequest(req dto.PlanRequest) services.PlanDeliveriesRequest {
	out := services.PlanDeliveriesRequest{
		Depot:         h.Defaults.Depot,
		K:             h.Defaults.K,
		Seed:          h.Defaults.Seed,
		MaxIterations: h.Defaults.MaxIterations,
		Workers:       h.Defaults.Workers,
	}

	if req.Depot != nil {
		out.Depot = domain.Point{ID: req.Depot.ID, Lat: req.Depot.Lat, Lon: req.Depot.Lon}
	}
	if req.K != nil {
		out.K = *req.K
	}
	if req.Seed != nil {
		out.Seed = *req.Seed
	}
	if req.MaxIterations != nil {
		out.MaxIterations = *req.MaxIterations
	}

	if len(req.Points) > 0 {
		out.Points = make([]domain.Point, 0, len(req.Points))
		for _, p := range req.Points {
			out.Points = append(out.Points, domain.Point{ID: p.ID, Lat: p.Lat, Lon: p.Lon})
		}
	}

	return out
}

func toPlanResponse(p *domain.Plan) dto.PlanResponse {
	res := dto.PlanResponse{
		PlanID:            p.ID,
		Depot:             toPointDTO(p.Depot),
		K:                 p.K,
		Seed:              p.Seed,
		Iterations:        p.Iterations,
		Converged:         p.Converged,
		Groups:            make([]dto.GroupResponse, 0, len(p.Groups)),
		TotalLength:       p.TotalLength,
		TotalApproxMeters: p.TotalApproxMeters,
		CreatedAt:         p.CreatedAt,
	}

	for _, g := range p.Groups {
		res.Groups = append(res.Groups, dto.GroupResponse{
			GroupIndex:   g.GroupIndex,
			PointCount:   g.PointCount,
			Centroid:     toPointDTO(g.Centroid),
			Route:        toPointDTOs(g.Route.Path),
			Length:       g.Route.Length,
			ApproxMeters: g.ApproxMeters,
		})
	}

	return res
}
