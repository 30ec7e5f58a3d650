package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/medicare/medicare-api/internal/handler/dto"
	"github.com/medicare/medicare-api/internal/model"
)

// Version is reported by the health endpoint.
const Version = "1.0.0"

// HealthChecker defines an interface for checking service health.
type HealthChecker interface {
	Ping(ctx context.Context) error
}

// HealthHandler manages health check endpoints.
type HealthHandler struct {
	storage HealthChecker
	cache   HealthChecker
	now     func() time.Time
}

// NewHealthHandler creates a new HealthHandler.
// Pass nil for cache when Redis is not configured.
func NewHealthHandler(storage, cache HealthChecker) *HealthHandler {
	return &HealthHandler{
		storage: storage,
		cache:   cache,
		now:     time.Now,
	}
}

// Health is the liveness endpoint. It performs no dependency checks.
//
// GET /api/health
func (h *HealthHandler) Health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, dto.HealthResponse{
		Success:   true,
		Message:   "MediCare API is running",
		Timestamp: model.FormatTimestamp(h.now()),
		Version:   Version,
	})
}

// Readyz is a readiness probe endpoint.
// It returns 200 only if the storage backend and, when configured, Redis respond.
//
// GET /readyz
func (h *HealthHandler) Readyz(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	checks := make(map[string]string)
	healthy := true

	check := func(name string, c HealthChecker) {
		if c == nil {
			checks[name] = "not configured"
			return
		}
		if err := c.Ping(ctx); err != nil {
			checks[name] = "error: " + err.Error()
			healthy = false
			return
		}
		checks[name] = "ok"
	}

	check("storage", h.storage)
	check("redis", h.cache)

	// Storage is mandatory.
	if h.storage == nil {
		healthy = false
	}

	status := "ok"
	statusCode := http.StatusOK
	if !healthy {
		status = "unhealthy"
		statusCode = http.StatusServiceUnavailable
	}

	writeJSON(w, statusCode, dto.ReadinessResponse{
		Status: status,
		Checks: checks,
	})
}
