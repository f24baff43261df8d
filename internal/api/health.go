package api

import (
	"context"
	"net/http"
	"time"

	"github.com/erazemk/mithai/internal/shop"
)

// HealthHandler reports liveness.
type HealthHandler struct {
	Shop *shop.Service
}

// Check handles GET /healthz.
func (h *HealthHandler) Check(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()

	if err := h.Shop.Ping(ctx); err != nil {
		jsonError(w, http.StatusServiceUnavailable, "database unavailable")
		return
	}
	jsonSuccess(w, http.StatusOK, envelope{"status": "ok"})
}
