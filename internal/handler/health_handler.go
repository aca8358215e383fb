package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"projector-backend/internal/model"
)

type pinger interface {
	Health(ctx context.Context) error
}

type HealthHandler struct {
	db      pinger
	started time.Time
}

func NewHealthHandler(db pinger) *HealthHandler {
	return &HealthHandler{db: db, started: time.Now().UTC()}
}

type healthStatus struct {
	Status    string         `json:"status"`
	Timestamp string         `json:"timestamp"`
	UptimeSec int64          `json:"uptime_seconds"`
	Database  databaseHealth `json:"database"`
}

type databaseHealth struct {
	Status    string `json:"status"`
	LatencyMS int64  `json:"latency_ms,omitempty"`
}

func (h *HealthHandler) Health(w http.ResponseWriter, r *http.Request) {
	now := time.Now().UTC()
	body := healthStatus{
		Status:    "healthy",
		Timestamp: now.Format(time.RFC3339),
		UptimeSec: int64(now.Sub(h.started).Seconds()),
	}

	pingStart := time.Now()
	if err := h.db.Health(r.Context()); err != nil {
		body.Status = "unhealthy"
		body.Database = databaseHealth{Status: "disconnected"}
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusServiceUnavailable)
		_ = json.NewEncoder(w).Encode(model.APIResponse{Success: false, Data: body})
		return
	}

	body.Database = databaseHealth{
		Status:    "connected",
		LatencyMS: time.Since(pingStart).Milliseconds(),
	}
	writeSuccess(w, http.StatusOK, body, nil)
}
