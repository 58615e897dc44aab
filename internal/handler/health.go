package handler

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/GoArmGo/CohortApp/internal/core/ports"
)

// HealthHandler обрабатывает GET /healthz и пингует бд
type HealthHandler struct {
	db     ports.HealthChecker
	logger *slog.Logger
}

func NewHealthHandler(db ports.HealthChecker, logger *slog.Logger) *HealthHandler {
	return &HealthHandler{db: db, logger: logger}
}

func (h *HealthHandler) Check(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()

	if err := h.db.Ping(ctx); err != nil {
		h.logger.Error("health check failed", "error", err)
		respondWithData(w, http.StatusServiceUnavailable, map[string]string{"database": "unavailable"}, h.logger)
		return
	}
	respondWithData(w, http.StatusOK, map[string]string{"database": "ok"}, h.logger)
}
