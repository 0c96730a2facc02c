package handler

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/personalhub/hub/internal/respond"
)

const healthTimeout = 2 * time.Second

// Pinger is satisfied by *sqlx.DB.
type Pinger interface {
	PingContext(ctx context.Context) error
}

type HealthHandler struct {
	db Pinger
}

func NewHealthHandler(db Pinger) *HealthHandler {
	return &HealthHandler{db: db}
}

func (h *HealthHandler) Healthz(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), healthTimeout)
	defer cancel()

	if err := h.db.PingContext(ctx); err != nil {
		slog.Error("health check failed", "error", err)
		respond.Error(w, http.StatusServiceUnavailable, respond.CodeUnavailable, "Database unreachable")
		return
	}
	respond.JSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (h *HealthHandler) NotFound(w http.ResponseWriter, r *http.Request) {
	respond.Error(w, http.StatusNotFound, respond.CodeNotFound, "Resource not found")
}
