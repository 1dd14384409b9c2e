package handlers

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"rota-inteligente/internal/api/dto"
	"rota-inteligente/internal/domain"
	"rota-inteligente/internal/platform/obs"
)

func writeJSON(w http.ResponseWriter, r *http.Request, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("encode response failed",
			"req_id", obs.RequestID(r.Context()),
			"method", r.Method,
			"path", r.URL.Path,
			"error", err,
		)
	}
}

func writeError(w http.ResponseWriter, r *http.Request, status int, msg string) {
	writeJSON(w, r, status, map[string]string{"error": msg})
}

func toPointDTO(p domain.Point) dto.PointDTO {
	return dto.PointDTO{ID: p.ID, Lat: p.Lat, Lon: p.Lon}
}

func toPointDTOs(pts []domain.Point) []dto.PointDTO {
	out := make([]dto.PointDTO, 0, len(pts))
	for _, p := range pts {
		out = append(out, toPointDTO(p))
	}
	return out
}
