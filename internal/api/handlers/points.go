package handlers

import (
	"log/slog"
	"net/http"
	"rota-inteligente/internal/api/dto"
	"rota-inteligente/internal/platform/obs"
	"rota-inteligente/internal/ports"
)

// PointHandler exposes the stored delivery points.
type PointHandler struct {
	Repo ports.PointRepository
}

func (h *PointHandler) List(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.Header().Set("Allow", http.MethodGet)
		writeError(w, r, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	if h.Repo == nil {
		writeError(w, r, http.StatusServiceUnavailable, "no point database configured")
		return
	}

	pts, err := h.Repo.ListPoints(r.Context())
	if err != nil {
		slog.Error("list points failed", "req_id", obs.RequestID(r.Context()), "error", err)
		writeError(w, r, http.StatusInternalServerError, "internal server error")
		return
	}

	writeJSON(w, r, http.StatusOK, dto.ListPointsResponse{Points: toPointDTOs(pts)})
}
