package http

import (
	"context"
	"net/http"
	"time"
)

// Pinger is a reachability probe against a backing store.
type Pinger interface {
	Ping(ctx context.Context) error
}

type HealthHandler struct {
	db      Pinger
	cache   Pinger
	timeout time.Duration
}

func NewHealthHandler(db, cache Pinger, timeout time.Duration) *HealthHandler {
	return &HealthHandler{
		db:      db,
		cache:   cache,
		timeout: timeout,
	}
}

type HealthResponseDTO struct {
	Status   string `json:"status"`
	API      string `json:"api"`
	Database string `json:"database"`
	Cache    string `json:"cache"`
}

// GET /health
//
// An unreachable database fails the check; an unreachable cache is only
// reported, because the service keeps working without it.
func (h *HealthHandler) Check(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	resp := HealthResponseDTO{
		Status:   "ok",
		API:      "ok",
		Database: "ok",
		Cache:    "ok",
	}
	status := http.StatusOK

	if err := h.db.Ping(ctx); err != nil {
		resp.Database = "unavailable"
		resp.Status = "unavailable"
		status = http.StatusServiceUnavailable
	}

	if err := h.cache.Ping(ctx); err != nil {
		resp.Cache = "unavailable"
	}

	respondJSON(w, status, resp)
}
