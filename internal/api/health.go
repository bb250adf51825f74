package api

import (
	"net/http"

	"github.com/dreamdive/dreamdive/internal/api/respond"
)

// HealthHandler reports aggregated service health.
type HealthHandler struct {
	healthy func() bool
}

// NewHealthHandler wraps a health predicate. A nil predicate always
// reports healthy.
func NewHealthHandler(healthy func() bool) *HealthHandler {
	return &HealthHandler{healthy: healthy}
}

func (h *HealthHandler) Check(w http.ResponseWriter, r *http.Request) {
	if h.healthy != nil && !h.healthy() {
		respond.WriteJSON(w, http.StatusServiceUnavailable, map[string]string{"status": "unavailable"})
		return
	}
	respond.WriteJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
